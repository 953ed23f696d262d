package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/reservation"
	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/geocoder89/roomhub/internal/domain/user"
)

func TestToReservationEmitsUTC(t *testing.T) {
	paris := time.FixedZone("CEST", 2*3600)
	d := reservation.Detailed{
		Reservation: reservation.Reservation{
			ID:        5,
			RoomID:    1,
			UserID:    2,
			StartDate: time.Date(2030, 5, 14, 10, 0, 0, 0, paris),
			EndDate:   time.Date(2030, 5, 14, 11, 0, 0, 0, paris),
		},
		Room: room.Room{ID: 1, Name: "C01"},
		User: user.User{ID: 2, Email: "user_02@test.com", PasswordHash: "secret-hash"},
	}

	raw, err := json.Marshal(ToReservation(d))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got := string(raw)
	want := `{"id":5,"user":{"id":2,"email":"user_02@test.com"},"room":{"id":1,"name":"C01"},"start_date":"2030-05-14T08:00:00Z","end_date":"2030-05-14T09:00:00Z"}`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	if strings.Contains(got, "secret-hash") {
		t.Fatal("password hash leaked")
	}
}

func TestToRoomSummariesKeepsEmptyLists(t *testing.T) {
	out := ToRoomSummaries([]reservation.RoomSummary{{Room: room.Room{ID: 1, Name: "C01"}}})

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `[{"id":1,"name":"C01","reservations":[]}]` {
		t.Fatalf("got %s", raw)
	}
}

func TestPaginationQueryValues(t *testing.T) {
	limit, page := PaginationQuery{}.Values()
	if limit != DefaultLimit || page != DefaultPage {
		t.Fatalf("defaults = %d/%d", limit, page)
	}

	l, p := 25, 3
	limit, page = PaginationQuery{Limit: &l, Page: &p}.Values()
	if limit != 25 || page != 3 {
		t.Fatalf("got %d/%d", limit, page)
	}
}
