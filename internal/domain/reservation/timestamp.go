package reservation

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidTimestamp = errors.New("invalid ISO-8601 timestamp")

// Timestamp is a parsed ISO-8601 value that remembers whether the caller
// supplied an offset. Naive values are held as UTC.
type Timestamp struct {
	Time  time.Time
	Aware bool
}

var awareLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, ErrInvalidTimestamp
	}

	for _, layout := range awareLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Timestamp{Time: t, Aware: true}, nil
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Timestamp{Time: t.UTC(), Aware: false}, nil
		}
	}

	return Timestamp{}, ErrInvalidTimestamp
}

// AwareAt wraps an offset-carrying instant, mostly for tests and seeding.
func AwareAt(t time.Time) Timestamp {
	return Timestamp{Time: t, Aware: true}
}

func (t Timestamp) UTC() time.Time {
	return t.Time.UTC()
}
