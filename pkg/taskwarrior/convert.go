package taskwarrior

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"github.com/harrisonrobin/dayline/pkg/clock"
	"github.com/harrisonrobin/dayline/pkg/model"
)

var isoDurationPart = regexp.MustCompile(`(\d+)([HMS])`)

// ParseDuration parses the ISO 8601 durations (PT1H30M) Taskwarrior exports for UDAs.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	if len(s) < 2 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid ISO 8601 duration format: %s", s)
	}
	s = s[1:]
	if len(s) == 0 || s[0] != 'T' {
		return 0, fmt.Errorf("invalid ISO 8601 duration (missing T): P%s", s)
	}
	s = s[1:]

	var total time.Duration
	for _, match := range isoDurationPart.FindAllStringSubmatch(s, -1) {
		value, _ := strconv.Atoi(match[1])
		switch match[2] {
		case "H":
			total += time.Duration(value) * time.Hour
		case "M":
			total += time.Duration(value) * time.Minute
		case "S":
			total += time.Duration(value) * time.Second
		}
	}

	if total == 0 {
		return 0, fmt.Errorf("invalid ISO 8601 duration: PT%s", s)
	}
	return total, nil
}

// ToModel converts exported Taskwarrior tasks into planner tasks. Waiting and
// deleted tasks are dropped; export order becomes task order. Scheduled
// timestamps are read as wall-clock times in loc.
func ToModel(tasks []Task, loc *time.Location) []model.Task {
	var out []model.Task
	for i, t := range tasks {
		var status model.Status
		switch {
		case t.Status == COMPLETED:
			status = model.StatusDone
		case t.Status == PENDING && t.Start.set():
			status = model.StatusInProgress
		case t.Status == PENDING:
			status = model.StatusOpen
		default:
			continue
		}

		est, err := ParseDuration(t.Est)
		if err != nil {
			log.Printf("Warning: task %s: ignoring est: %v", t.UUID, err)
		}
		act, err := ParseDuration(t.Act)
		if err != nil {
			log.Printf("Warning: task %s: ignoring act: %v", t.UUID, err)
		}

		task := model.Task{
			ID:        t.UUID,
			SectionID: t.Section,
			Title:     t.Description,
			Status:    status,
			Source:    "taskwarrior",
			Tags:      t.Tags,
			Estimated: est,
			Actual:    act,
			Order:     i,
		}
		if status == model.StatusInProgress {
			task.StartedAt = t.Start.Time
		}
		if t.Scheduled.set() {
			task.ScheduledStart = clock.Ptr(clock.FromTime(t.Scheduled.In(loc)))
		}
		out = append(out, task)
	}
	return out
}

// OnDay keeps the tasks that belong to the day of date: unscheduled or
// scheduled that day, and not completed on another day.
func OnDay(tasks []Task, date time.Time) []Task {
	y, m, d := date.Date()
	sameDay := func(ct *CustomTime) bool {
		ty, tm, td := ct.In(date.Location()).Date()
		return ty == y && tm == m && td == d
	}

	var out []Task
	for _, t := range tasks {
		if t.Scheduled.set() && !sameDay(t.Scheduled) {
			continue
		}
		if t.Status == COMPLETED && t.End.set() && !sameDay(t.End) {
			continue
		}
		out = append(out, t)
	}
	return out
}
