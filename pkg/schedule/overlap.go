package schedule

import (
	"time"

	"github.com/harrisonrobin/dayline/pkg/model"
)

// Overlap records a task placed before the user was free, by how much.
type Overlap struct {
	TaskID string
	By     time.Duration
}

// Overlaps replays the cursor of Project and reports every task whose
// projected start lies before the cursor. They are reported, never moved.
func Overlaps(ordered []model.Task, p Projection, now time.Time) []Overlap {
	var overlaps []Overlap
	freeAt := now
	for _, task := range ordered {
		iv, ok := p[task.ID]
		if !ok || task.Status == model.StatusDone {
			continue
		}
		if iv.Start.Before(freeAt) {
			overlaps = append(overlaps, Overlap{TaskID: task.ID, By: freeAt.Sub(iv.Start)})
		}
		if iv.End.After(freeAt) {
			freeAt = iv.End
		}
	}
	return overlaps
}
