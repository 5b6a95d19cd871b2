package model

import (
	"time"

	"github.com/harrisonrobin/dayline/pkg/clock"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work scheduled within one day.
type Task struct {
	ID        string
	SectionID string
	Title     string
	Status    Status
	Source    string // "plan", "taskwarrior" or "orgmode"
	Tags      []string
	// Accounting
	Estimated time.Duration
	Actual    time.Duration
	// StartedAt is only meaningful while the task is in progress; zero means absent.
	StartedAt      time.Time
	ScheduledStart *clock.TimeOfDay
	// ScheduledDay is the date a source scheduled the task for, at midnight;
	// zero when the source gave no date.
	ScheduledDay time.Time
	Order        int
}

// Remaining returns the unspent part of the estimate. Negative estimates and
// spent times count as zero.
func (t Task) Remaining() time.Duration {
	return max(0, max(0, t.Estimated)-max(0, t.Actual))
}
