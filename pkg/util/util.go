package util

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/dayline/pkg/layout"
	"github.com/harrisonrobin/dayline/pkg/model"
	"github.com/harrisonrobin/dayline/pkg/schedule"
)

// TaskIDProperty is the private extended property linking an event to its task.
const TaskIDProperty = "dayline_task_id"

// EventNeedsUpdate returns a patch event if the fields the planner manages differ
// between the event already on the calendar and the newly converted one.
func EventNeedsUpdate(existingEvent *calendar.Event, targetEvent *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existingEvent.Summary != targetEvent.Summary {
		patch.Summary = targetEvent.Summary
		needsUpdate = true
	}

	if existingEvent.Description != targetEvent.Description {
		patch.Description = targetEvent.Description
		needsUpdate = true
	}

	if existingEvent.ColorId != targetEvent.ColorId {
		patch.ColorId = targetEvent.ColorId
		needsUpdate = true
	}

	if existingEvent.Start == nil || existingEvent.End == nil {
		patch.Start = targetEvent.Start
		patch.End = targetEvent.End
		return patch, nil
	}
	existingStartTime, err := time.Parse(time.RFC3339, existingEvent.Start.DateTime)
	if err != nil {
		return nil, err
	}
	targetStartTime, err := time.Parse(time.RFC3339, targetEvent.Start.DateTime)
	if err != nil {
		return nil, err
	}
	existingEndTime, err := time.Parse(time.RFC3339, existingEvent.End.DateTime)
	if err != nil {
		return nil, err
	}
	targetEndTime, err := time.Parse(time.RFC3339, targetEvent.End.DateTime)
	if err != nil {
		return nil, err
	}

	if !existingStartTime.Equal(targetStartTime) || !existingEndTime.Equal(targetEndTime) {
		patch.Start = targetEvent.Start
		patch.End = targetEvent.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

// EventInput is everything needed to render one projected task as an event.
type EventInput struct {
	Task     model.Task
	Section  layout.Display
	Interval schedule.Interval
	ColorID  string
	Now      time.Time
}

// ConvertProjectionToEvent renders a projected task as a calendar event.
func ConvertProjectionToEvent(in EventInput) (*calendar.Event, error) {
	task := in.Task
	if task.ID == "" {
		return nil, fmt.Errorf("could not convert task without id")
	}
	if in.Interval.End.Before(in.Interval.Start) {
		return nil, fmt.Errorf("task %s has an inverted interval %s", task.ID, in.Interval)
	}

	var descBuilder strings.Builder

	if len(task.Tags) > 0 {
		for _, tag := range task.Tags {
			descBuilder.WriteString(fmt.Sprintf("#%s ", tag))
		}
		descBuilder.WriteString("\n\n")
	}

	descBuilder.WriteString(fmt.Sprintf("Status: %s\n", task.Status))
	if !in.Section.IsInterval() && in.Section.Name != "" {
		descBuilder.WriteString(fmt.Sprintf("Section: %s\n", in.Section.Name))
	}
	descBuilder.WriteString(fmt.Sprintf("ID: %s\n", task.ID))

	descBuilder.WriteString("\nAccounting:\n")
	if task.Estimated > 0 {
		descBuilder.WriteString(fmt.Sprintf("• estimated: %s\n", task.Estimated))
	}
	if task.Actual > 0 {
		descBuilder.WriteString(fmt.Sprintf("• spent: %s\n", task.Actual))
		if diff := task.Actual - task.Estimated; task.Estimated > 0 && diff > 0 {
			descBuilder.WriteString(fmt.Sprintf("• over estimate by: %s\n", diff))
		}
	}
	if remaining := task.Remaining(); remaining > 0 {
		descBuilder.WriteString(fmt.Sprintf("• remaining: %s\n", remaining))
	}

	if task.ScheduledStart != nil {
		scheduled := task.ScheduledStart.On(in.Interval.Start)
		diff := in.Interval.Start.Sub(scheduled)
		if diff > time.Minute {
			descBuilder.WriteString(fmt.Sprintf("• started late by: %s\n", diff.Round(time.Minute)))
		} else if diff < -time.Minute {
			descBuilder.WriteString(fmt.Sprintf("• started early by: %s\n", (-diff).Round(time.Minute)))
		}
	}

	event := &calendar.Event{
		Summary: summaryPrefix(task, in.Interval, in.Now) + task.Title,
		ColorId: in.ColorID,
		Start: &calendar.EventDateTime{
			DateTime: in.Interval.Start.UTC().Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: in.Interval.End.UTC().Format(time.RFC3339),
		},
		Description: descBuilder.String(),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				TaskIDProperty: task.ID,
			},
		},
	}

	return event, nil
}

// summaryPrefix marks done, running and late tasks.
func summaryPrefix(task model.Task, iv schedule.Interval, now time.Time) string {
	switch {
	case task.Status == model.StatusDone:
		return "✓ "
	case task.Status == model.StatusInProgress:
		return "‣ "
	case !now.IsZero() && iv.End.Before(now):
		return "! "
	}
	return ""
}
