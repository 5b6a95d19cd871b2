package schedule

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/dayline/pkg/model"
)

// Interval is a half-open [Start, End) range of instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s,%s)", iv.Start.Format("15:04"), iv.End.Format("15:04"))
}

// Projection maps task ids to their projected interval. Done tasks have no entry.
type Projection map[string]Interval

// Project lays ordered tasks out on a timeline starting at now.
//
// A single cursor tracks when the user is next free. Running tasks keep
// their historical start, tasks with a scheduled start are placed at that
// time of day on now's date even when it lies before the cursor, and
// everything else starts at the cursor. The cursor only moves forward.
// scheduled starts must have been validated by the caller.
func Project(ordered []model.Task, now time.Time) Projection {
	projection := make(Projection, len(ordered))
	freeAt := now

	for _, task := range ordered {
		if task.Status == model.StatusDone {
			continue
		}

		var start time.Time
		switch {
		case task.Status == model.StatusInProgress && !task.StartedAt.IsZero():
			start = task.StartedAt
		case task.ScheduledStart != nil:
			start = task.ScheduledStart.On(now)
		default:
			start = freeAt
		}

		end := start.Add(Duration(task))
		projection[task.ID] = Interval{Start: start, End: end}

		if end.After(freeAt) {
			freeAt = end
		}
	}
	return projection
}

// Duration is the length a task occupies on the timeline: the remaining
// effort, or the full estimate once the estimate has been used up.
func Duration(task model.Task) time.Duration {
	if remaining := task.Remaining(); remaining > 0 {
		return remaining
	}
	return max(0, task.Estimated)
}

// FinishTime returns the latest end in the projection. ok is false for an
// empty projection.
func FinishTime(p Projection) (finish time.Time, ok bool) {
	for _, iv := range p {
		if !ok || iv.End.After(finish) {
			finish = iv.End
			ok = true
		}
	}
	return finish, ok
}
