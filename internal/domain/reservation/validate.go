package reservation

import "time"

// Validate applies the booking rules that do not depend on the room.
// The offset check runs before the range and alignment checks.
func Validate(start, end Timestamp, now time.Time) error {
	if !start.Aware || !end.Aware {
		return ErrNotTimezoneAware
	}

	s, e := start.UTC(), end.UTC()

	if s.Before(now.UTC()) || !s.Before(e) || !onTheHour(s) || !onTheHour(e) {
		return ErrInvalidRange
	}

	return nil
}

func onTheHour(t time.Time) bool {
	return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
