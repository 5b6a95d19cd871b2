package model

import (
	"github.com/harrisonrobin/dayline/pkg/clock"
)

// SectionKind tells user sections apart from synthesized gap fillers.
type SectionKind int

const (
	UserDefined SectionKind = iota
	SyntheticInterval
)

func (k SectionKind) String() string {
	if k == SyntheticInterval {
		return "interval"
	}
	return "section"
}

const (
	IntervalName     = "Interval"
	IntervalIDPrefix = "interval-"
	IntervalOrder    = -1
	SystemOwner      = "system"
)

// Section is a named block of the day.
type Section struct {
	ID    string
	Owner string
	Name  string
	// Start and End are optional; a nil Start sorts as 00:00.
	Start *clock.TimeOfDay
	End   *clock.TimeOfDay
	Order int
	Kind  SectionKind
}

// NewInterval builds a synthesized section starting at start.
func NewInterval(owner string, start, end clock.TimeOfDay) Section {
	return Section{
		ID:    IntervalIDPrefix + start.String(),
		Owner: owner,
		Name:  IntervalName,
		Start: clock.Ptr(start),
		End:   clock.Ptr(end),
		Order: IntervalOrder,
		Kind:  SyntheticInterval,
	}
}

// IsInterval reports whether the section was synthesized to fill a gap.
func (s Section) IsInterval() bool {
	return s.Kind == SyntheticInterval
}
