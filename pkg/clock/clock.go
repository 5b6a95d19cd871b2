package clock

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTime is returned for time-of-day strings that are not HH:MM.
var ErrInvalidTime = errors.New("invalid time of day")

// TimeOfDay is a wall-clock time expressed in minutes since midnight.
type TimeOfDay int

const (
	Midnight  TimeOfDay = 0
	EndOfDay  TimeOfDay = 24 * 60
	layoutLen           = len("15:04")
)

// Parse parses a strict "HH:MM" string. "24:00" is accepted as the end of the day.
func Parse(s string) (TimeOfDay, error) {
	if len(s) != layoutLen || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, okH := twoDigits(s[0:2])
	m, okM := twoDigits(s[3:5])
	if !okH || !okM || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return TimeOfDay(h*60 + m), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) TimeOfDay {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// FromTime returns the wall-clock time of t, truncated to the minute.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// Duration returns the offset from midnight as a time.Duration.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Minute
}

// On combines t with the calendar date of ref, in ref's location.
func (t TimeOfDay) On(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ref.Location()).Add(t.Duration())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Ptr returns a pointer to t, for optional fields.
func Ptr(t TimeOfDay) *TimeOfDay {
	return &t
}

// Or returns *t, or def when t is nil.
func Or(t *TimeOfDay, def TimeOfDay) TimeOfDay {
	if t == nil {
		return def
	}
	return *t
}

// Max returns the later of two times of day.
func Max(a, b TimeOfDay) TimeOfDay {
	if a > b {
		return a
	}
	return b
}
