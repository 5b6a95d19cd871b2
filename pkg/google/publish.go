package google

import (
	"context"
	"log"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/dayline/pkg/colors"
	"github.com/harrisonrobin/dayline/pkg/model"
	"github.com/harrisonrobin/dayline/pkg/overdue"
	"github.com/harrisonrobin/dayline/pkg/timeline"
	"github.com/harrisonrobin/dayline/pkg/util"
)

// Publisher pushes a timeline to a calendar. Colors and Overdue are optional.
type Publisher struct {
	Client  *CalendarClient
	Colors  *colors.ColorCache
	Overdue *overdue.Table
}

// Result counts what a publish run did.
type Result struct {
	Published int
	Completed int
	Overdue   int
	Failed    int
}

// Publish writes every projected entry as an event, marks done tasks that
// already have an event, then flags events whose projected end has passed.
// Individual failures are logged and counted; only context errors abort.
func (p *Publisher) Publish(ctx context.Context, tl *timeline.Timeline) (Result, error) {
	var res Result

	for _, entry := range tl.Entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if !entry.Projected {
			if entry.Task.Status == model.StatusDone && p.markDone(ctx, entry.Task) {
				res.Completed++
			}
			continue
		}

		event, err := p.Client.Publish(ctx, util.EventInput{
			Task:     entry.Task,
			Section:  entry.Section,
			Interval: entry.Interval,
			ColorID:  p.colorFor(entry),
			Now:      tl.Now,
		})
		if err != nil {
			log.Printf("Error publishing task %s: %v", entry.Task.ID, err)
			res.Failed++
			continue
		}
		res.Published++
		if p.Overdue != nil {
			p.Overdue.Update(entry.Task.ID, event.Id, entry.Task.Title, entry.Interval.End)
		}
	}

	if p.Overdue != nil {
		for _, e := range p.Overdue.Sweep(tl.Now) {
			patch := &calendar.Event{Summary: "! " + strings.TrimPrefix(e.Summary, "! ")}
			if _, err := p.Client.PatchEvent(ctx, e.GCalID, patch); err != nil {
				log.Printf("Sweep: error patching event %s: %v", e.GCalID, err)
				continue
			}
			res.Overdue++
		}
	}
	return res, nil
}

func (p *Publisher) colorFor(entry timeline.Entry) string {
	if entry.Section.IsInterval() {
		return colors.IntervalColor
	}
	if p.Colors == nil {
		return colors.UnsectionedColor
	}
	return p.Colors.GetColorID(entry.Section.ID)
}

// markDone prefixes the existing event of a finished task. Tasks never
// published are left alone.
func (p *Publisher) markDone(ctx context.Context, task model.Task) bool {
	if p.Overdue != nil {
		p.Overdue.Remove(task.ID)
	}
	if p.Client.index == nil || p.Client.index.Get(task.ID) == "" {
		return false
	}
	patch := &calendar.Event{Summary: "✓ " + task.Title}
	if _, err := p.Client.PatchEvent(ctx, p.Client.index.Get(task.ID), patch); err != nil {
		log.Printf("Error marking task %s done: %v", task.ID, err)
		return false
	}
	return true
}

// Prune deletes the events of the day starting at tl.Now's date whose task is
// no longer on the timeline, such as tasks dropped from the plan.
func (p *Publisher) Prune(ctx context.Context, tl *timeline.Timeline) (int, error) {
	keep := make(map[string]bool, len(tl.Entries))
	for _, entry := range tl.Entries {
		keep[entry.Task.ID] = true
	}

	y, m, d := tl.Now.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, tl.Now.Location())
	events, err := p.Client.ListEvents(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, event := range events {
		if event.ExtendedProperties == nil {
			continue
		}
		taskID := event.ExtendedProperties.Private[util.TaskIDProperty]
		if taskID == "" || keep[taskID] {
			continue
		}
		if err := p.Client.DeleteEvent(ctx, event.Id); err != nil {
			log.Printf("Prune: error deleting event %s: %v", event.Id, err)
			continue
		}
		p.forget(taskID)
		pruned++
	}
	return pruned, nil
}

// Remove deletes the event of a task that left the day.
func (p *Publisher) Remove(ctx context.Context, taskID string) error {
	if err := p.Client.Unpublish(ctx, taskID); err != nil {
		return err
	}
	p.forget(taskID)
	return nil
}

func (p *Publisher) forget(taskID string) {
	if p.Client.index != nil {
		p.Client.index.Remove(taskID)
	}
	if p.Overdue != nil {
		p.Overdue.Remove(taskID)
	}
}

// SaveState writes the index and caches back to disk. It runs after partial
// publishes too, so failures are only logged.
func (p *Publisher) SaveState() {
	if p.Client.index != nil {
		if err := p.Client.index.Save(); err != nil {
			log.Printf("Warning: failed to save event index: %v", err)
		}
	}
	if p.Colors != nil {
		if err := p.Colors.Save(); err != nil {
			log.Printf("Warning: failed to save color cache: %v", err)
		}
	}
	if p.Overdue != nil {
		if err := p.Overdue.Save(); err != nil {
			log.Printf("Warning: failed to save sweep table: %v", err)
		}
	}
}
