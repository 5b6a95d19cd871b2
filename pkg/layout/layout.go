package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/harrisonrobin/dayline/pkg/clock"
	"github.com/harrisonrobin/dayline/pkg/model"
)

// ErrEmptyLayout is returned when a lookup is made against zero sections.
var ErrEmptyLayout = errors.New("no sections defined")

// Display is a section placed on the day together with its resolved range.
// The embedded Section is never modified.
type Display struct {
	model.Section
	Start clock.TimeOfDay
	End   clock.TimeOfDay
}

func (d Display) String() string {
	return fmt.Sprintf("%s[%s-%s)", d.Name, d.Start, d.End)
}

// Contains reports whether t falls in [Start, End). An End of 24:00 also
// contains 24:00 itself.
func (d Display) Contains(t clock.TimeOfDay) bool {
	end := d.End
	if end == clock.EndOfDay {
		end = clock.EndOfDay + 1
	}
	return t >= d.Start && t < end
}

// Sort returns a copy of sections ordered by start time, ties broken by Order.
// A missing start sorts as 00:00.
func Sort(sections []model.Section) []model.Section {
	sorted := make([]model.Section, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		si := clock.Or(sorted[i].Start, clock.Midnight)
		sj := clock.Or(sorted[j].Start, clock.Midnight)
		if si != sj {
			return si < sj
		}
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// Resolve turns a sparse set of sections into a gap-free sequence covering
// the whole day, inserting Interval sections wherever no section applies.
func Resolve(sections []model.Section) []Display {
	sorted := Sort(sections)
	displays := make([]Display, 0, 2*len(sorted)+1)

	cursor := clock.Midnight
	for i, s := range sorted {
		start := clock.Or(s.Start, clock.Midnight)
		if start > cursor {
			displays = append(displays, interval(s.Owner, cursor, start))
		}

		end := resolvedEnd(sorted, i)
		displays = append(displays, Display{Section: s, Start: start, End: end})

		// Advance to this section's end, but never backwards: a section nested
		// inside an earlier one must not reopen a gap the earlier one covers.
		cursor = clock.Max(cursor, end)
	}

	if cursor < clock.EndOfDay {
		displays = append(displays, interval(model.SystemOwner, cursor, clock.EndOfDay))
	}
	return displays
}

// resolvedEnd is the explicit end of sorted[i], else the next section's
// start, else the end of the day.
func resolvedEnd(sorted []model.Section, i int) clock.TimeOfDay {
	if sorted[i].End != nil {
		return *sorted[i].End
	}
	if i+1 < len(sorted) {
		return clock.Or(sorted[i+1].Start, clock.Midnight)
	}
	return clock.EndOfDay
}

func interval(owner string, start, end clock.TimeOfDay) Display {
	return Display{
		Section: model.NewInterval(owner, start, end),
		Start:   start,
		End:     end,
	}
}

// FindSectionForTime returns the id of the display section owning t. When no
// section contains t the last display section is used.
func FindSectionForTime(sections []model.Section, t clock.TimeOfDay) (string, error) {
	if len(sections) == 0 {
		return "", ErrEmptyLayout
	}
	d := Locate(Resolve(sections), t)
	return d.ID, nil
}

// Locate finds the display section owning t in an already resolved layout.
// displays must not be empty.
func Locate(displays []Display, t clock.TimeOfDay) Display {
	for _, d := range displays {
		if d.Contains(t) {
			return d
		}
	}
	return displays[len(displays)-1]
}

// Covers reports whether displays cover [00:00, 24:00) without gaps or overlaps.
func Covers(displays []Display) bool {
	if len(displays) == 0 {
		return false
	}
	if displays[0].Start != clock.Midnight || displays[len(displays)-1].End != clock.EndOfDay {
		return false
	}
	for i := 1; i < len(displays); i++ {
		if displays[i-1].End != displays[i].Start {
			return false
		}
	}
	return true
}
