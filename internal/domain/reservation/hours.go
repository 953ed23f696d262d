package reservation

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const hoursPerDay = 24

// HourSet holds hour-of-day labels (0-23), not absolute instants: two ranges
// on different days that share a wall-clock hour share its label.
type HourSet map[int]struct{}

// HoursBetween walks [start, end) in one-hour steps and collects the UTC
// hour of each step. An empty or inverted range yields an empty set.
func HoursBetween(start, end time.Time) HourSet {
	hours := make(HourSet)

	for cur := start; cur.Before(end); cur = cur.Add(time.Hour) {
		hours[cur.UTC().Hour()] = struct{}{}

		// every label is already present, later steps cannot add one
		if len(hours) == hoursPerDay {
			break
		}
	}

	return hours
}

func (h HourSet) Has(hour int) bool {
	_, ok := h[hour]
	return ok
}

func (h HourSet) Intersect(other HourSet) HourSet {
	out := make(HourSet)

	for hour := range h {
		if other.Has(hour) {
			out[hour] = struct{}{}
		}
	}

	return out
}

// Merge adds every label of other into h.
func (h HourSet) Merge(other HourSet) {
	for hour := range other {
		h[hour] = struct{}{}
	}
}

func (h HourSet) Sorted() []int {
	out := make([]int, 0, len(h))
	for hour := range h {
		out = append(out, hour)
	}
	sort.Ints(out)
	return out
}

// FormatHours renders labels the way clients display them: "8:00, 9:00".
func FormatHours(hours []int) string {
	parts := make([]string, 0, len(hours))
	for _, hour := range hours {
		parts = append(parts, strconv.Itoa(hour)+":00")
	}
	return strings.Join(parts, ", ")
}

// Overlaps is the half-open interval test used to decide whether a room is
// free: [s1, e1) and [s2, e2) overlap iff s1 < e2 && e1 > s2.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}
