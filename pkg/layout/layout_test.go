package layout

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/dayline/pkg/clock"
	"github.com/harrisonrobin/dayline/pkg/model"
)

func at(s string) *clock.TimeOfDay {
	return clock.Ptr(clock.MustParse(s))
}

type span struct {
	id, start, end string
}

func spans(displays []Display) []span {
	out := make([]span, len(displays))
	for i, d := range displays {
		out[i] = span{d.ID, d.Start.String(), d.End.String()}
	}
	return out
}

func TestResolveFillsGaps(t *testing.T) {
	sections := []model.Section{
		{ID: "afternoon", Owner: "u1", Name: "Afternoon", Start: at("13:00"), End: at("18:00"), Order: 1},
		{ID: "morning", Owner: "u1", Name: "Morning", Start: at("09:00"), Order: 0},
	}

	got := Resolve(sections)

	assert.Equal(t, []span{
		{"interval-00:00", "00:00", "09:00"},
		{"morning", "09:00", "13:00"},
		{"afternoon", "13:00", "18:00"},
		{"interval-18:00", "18:00", "24:00"},
	}, spans(got))
	assert.True(t, got[0].IsInterval())
	assert.Equal(t, "u1", got[0].Owner)
	assert.Equal(t, model.SystemOwner, got[3].Owner)
	assert.Equal(t, model.IntervalName, got[3].Name)
	assert.Equal(t, model.IntervalOrder, got[3].Order)
	assert.Nil(t, got[1].Section.End, "the embedded section must stay unmodified")
	assert.True(t, Covers(got))
}

func TestResolveEmpty(t *testing.T) {
	got := Resolve(nil)

	require.Len(t, got, 1)
	assert.Equal(t, span{"interval-00:00", "00:00", "24:00"}, spans(got)[0])
	assert.Equal(t, model.SystemOwner, got[0].Owner)
	assert.True(t, Covers(got))
}

func TestResolveLastSectionClaimsRestOfDay(t *testing.T) {
	got := Resolve([]model.Section{{ID: "all", Start: at("00:00")}})

	assert.Equal(t, []span{{"all", "00:00", "24:00"}}, spans(got))
}

func TestResolveMissingStartSortsFirst(t *testing.T) {
	got := Resolve([]model.Section{
		{ID: "later", Start: at("10:00"), Order: 0},
		{ID: "untimed", Order: 5},
	})

	assert.Equal(t, []span{
		{"untimed", "00:00", "10:00"},
		{"later", "10:00", "24:00"},
	}, spans(got))
}

func TestResolveSameStartBrokenByOrder(t *testing.T) {
	got := Resolve([]model.Section{
		{ID: "b", Start: at("08:00"), Order: 2},
		{ID: "a", Start: at("08:00"), Order: 1},
	})

	assert.Equal(t, []span{
		{"interval-00:00", "00:00", "08:00"},
		{"a", "08:00", "08:00"},
		{"b", "08:00", "24:00"},
	}, spans(got))
}

func TestResolveCursorNeverMovesBackwards(t *testing.T) {
	got := Resolve([]model.Section{
		{ID: "long", Start: at("08:00"), End: at("12:00")},
		{ID: "inner", Start: at("09:00"), End: at("10:00")},
	})

	// no interval is synthesized over [10:00, 12:00), it is already covered
	assert.Equal(t, []span{
		{"interval-00:00", "00:00", "08:00"},
		{"long", "08:00", "12:00"},
		{"inner", "09:00", "10:00"},
		{"interval-12:00", "12:00", "24:00"},
	}, spans(got))
}

func TestResolveIsIdempotent(t *testing.T) {
	first := Resolve([]model.Section{
		{ID: "morning", Owner: "u1", Start: at("09:00")},
		{ID: "afternoon", Owner: "u1", Start: at("13:00"), End: at("18:00"), Order: 1},
	})

	second := Resolve(pinned(first))

	assert.Equal(t, spans(first), spans(second))
}

func TestResolveCoversRandomLayouts(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 0; n < 200; n++ {
		// distinct sorted starts, explicit ends never past the next start
		starts := r.Perm(int(clock.EndOfDay))[:1+r.Intn(6)]
		sort.Ints(starts)

		var sections []model.Section
		for i, st := range starts {
			limit := int(clock.EndOfDay)
			if i+1 < len(starts) {
				limit = starts[i+1]
			}
			s := model.Section{ID: fmt.Sprintf("s%d", i), Start: clock.Ptr(clock.TimeOfDay(st)), Order: r.Intn(3)}
			if r.Intn(2) == 0 {
				s.End = clock.Ptr(clock.TimeOfDay(st + r.Intn(limit-st+1)))
			}
			sections = append(sections, s)
		}
		r.Shuffle(len(sections), func(i, j int) { sections[i], sections[j] = sections[j], sections[i] })

		got := Resolve(sections)
		require.True(t, Covers(got), "layout %v does not cover the day", got)
		for _, d := range got {
			if d.IsInterval() {
				assert.Less(t, d.Start, d.End, "intervals are never empty")
			}
		}
	}
}

func TestFindSectionForTime(t *testing.T) {
	sections := []model.Section{
		{ID: "morning", Start: at("09:00")},
		{ID: "afternoon", Start: at("13:00"), End: at("18:00"), Order: 1},
	}

	tests := []struct {
		at   string
		want string
	}{
		{"00:00", "interval-00:00"},
		{"08:59", "interval-00:00"},
		{"09:00", "morning"},
		{"12:59", "morning"},
		{"13:00", "afternoon"},
		{"18:00", "interval-18:00"},
		{"23:59", "interval-18:00"},
		{"24:00", "interval-18:00"},
	}
	for _, tt := range tests {
		got, err := FindSectionForTime(sections, clock.MustParse(tt.at))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.at)
	}
}

func TestFindSectionForTimeMidnightBoundary(t *testing.T) {
	sections := []model.Section{{ID: "evening", Start: at("20:00")}}

	got, err := FindSectionForTime(sections, clock.EndOfDay)

	require.NoError(t, err)
	assert.Equal(t, "evening", got)
}

func TestFindSectionForTimeEmpty(t *testing.T) {
	_, err := FindSectionForTime(nil, clock.MustParse("10:00"))

	assert.True(t, errors.Is(err, ErrEmptyLayout))
}

func TestLocateFallsBackToLast(t *testing.T) {
	displays := []Display{
		{Section: model.Section{ID: "a"}, Start: clock.MustParse("01:00"), End: clock.MustParse("02:00")},
		{Section: model.Section{ID: "b"}, Start: clock.MustParse("02:00"), End: clock.MustParse("03:00")},
	}

	assert.Equal(t, "b", Locate(displays, clock.MustParse("00:30")).ID)
}

func TestCovers(t *testing.T) {
	assert.False(t, Covers(nil))
	assert.False(t, Covers([]Display{{Start: clock.Midnight, End: clock.MustParse("12:00")}}))
	assert.False(t, Covers([]Display{
		{Start: clock.Midnight, End: clock.MustParse("12:00")},
		{Start: clock.MustParse("13:00"), End: clock.EndOfDay},
	}))
}

// pinned returns each display's section with its resolved start and end set.
func pinned(displays []Display) []model.Section {
	out := make([]model.Section, len(displays))
	for i, d := range displays {
		s := d.Section
		s.Start = clock.Ptr(d.Start)
		s.End = clock.Ptr(d.End)
		out[i] = s
	}
	return out
}
