package timeline

import (
	"time"

	"github.com/harrisonrobin/dayline/pkg/clock"
	"github.com/harrisonrobin/dayline/pkg/layout"
	"github.com/harrisonrobin/dayline/pkg/model"
	"github.com/harrisonrobin/dayline/pkg/schedule"
)

// Entry is one task placed on the day.
type Entry struct {
	Task    model.Task
	Section layout.Display
	// Interval is only set when Projected is true; done tasks are not projected.
	Interval  schedule.Interval
	Projected bool
	// Overlap is how far the task starts before the user is free.
	Overlap time.Duration
}

// Timeline is the resolved layout and task projection for one day.
type Timeline struct {
	Now      time.Time
	Sections []layout.Display
	Entries  []Entry
	// Finish is the latest projected end, zero when nothing is projected.
	Finish time.Time
}

// Build orders tasks by section, projects them from now and attaches each
// task to its display section.
func Build(sections []model.Section, tasks []model.Task, now time.Time) *Timeline {
	displays := layout.Resolve(sections)
	ordered := layout.OrderTasks(sections, tasks)
	projection := schedule.Project(ordered, now)

	overlaps := make(map[string]time.Duration)
	for _, o := range schedule.Overlaps(ordered, projection, now) {
		overlaps[o.TaskID] = o.By
	}

	byID := make(map[string]layout.Display, len(displays))
	for _, d := range displays {
		if _, seen := byID[d.ID]; !seen {
			byID[d.ID] = d
		}
	}

	tl := &Timeline{Now: now, Sections: displays}
	for _, task := range ordered {
		entry := Entry{Task: task, Overlap: overlaps[task.ID]}
		entry.Interval, entry.Projected = projection[task.ID]

		if d, ok := byID[task.SectionID]; ok {
			entry.Section = d
		} else if entry.Projected {
			// unknown section: classify by where the task starts
			entry.Section = layout.Locate(displays, clock.FromTime(entry.Interval.Start))
		}
		tl.Entries = append(tl.Entries, entry)
	}

	if finish, ok := schedule.FinishTime(projection); ok {
		tl.Finish = finish
	}
	return tl
}

// InSection returns the entries attached to the display section id, in timeline order.
func (tl *Timeline) InSection(id string) []Entry {
	var out []Entry
	for _, e := range tl.Entries {
		if e.Section.ID == id {
			out = append(out, e)
		}
	}
	return out
}

// Current returns the display section containing the timeline's reference instant.
func (tl *Timeline) Current() layout.Display {
	return layout.Locate(tl.Sections, clock.FromTime(tl.Now))
}
