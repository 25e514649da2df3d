package entity

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with second precision, stored as seconds
// since midnight. Wire format is "15:04:05".
type TimeOfDay int

const timeOfDayLayout = "15:04:05"

func NewTimeOfDay(hour, min, sec int) TimeOfDay {
	return TimeOfDay(hour*3600 + min*60 + sec)
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
}

// TimeOfDayFromMicroseconds converts a postgres TIME value (microseconds
// since midnight) into a TimeOfDay, truncating sub-second precision.
func TimeOfDayFromMicroseconds(us int64) TimeOfDay {
	return TimeOfDay(us / 1e6)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t/3600, t/60%60, t%60)
}

func (t TimeOfDay) Microseconds() int64 {
	return int64(t) * 1e6
}

// Add shifts the time of day by d. The result is not wrapped at midnight,
// so windows that run past 24:00 stay ordered after earlier starts.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Second)
}
