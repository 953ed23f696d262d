package reservation

import (
	"time"

	"github.com/geocoder89/roomhub/internal/domain/room"
)

type RoomSummary struct {
	Room         room.Room
	Reservations []Detailed
}

// BuildSummaries partitions reservations by room. Every room gets an entry,
// in input order, and keeps only reservations overlapping [start, end).
func BuildSummaries(rooms []room.Room, reservations []Detailed, start, end time.Time) []RoomSummary {
	byRoom := make(map[int64][]Detailed, len(rooms))

	for _, r := range reservations {
		if !r.Overlaps(start, end) {
			continue
		}
		byRoom[r.RoomID] = append(byRoom[r.RoomID], r)
	}

	out := make([]RoomSummary, 0, len(rooms))

	for _, rm := range rooms {
		items := byRoom[rm.ID]
		if items == nil {
			items = []Detailed{}
		}
		out = append(out, RoomSummary{Room: rm, Reservations: items})
	}

	return out
}
