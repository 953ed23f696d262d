package notifications

import (
	"context"
	"time"
)

type NoticeKind string

const (
	KindReservationConfirmed NoticeKind = "reservation_confirmed"
	KindReservationCancelled NoticeKind = "reservation_cancelled"
)

type SendReservationNoticeInput struct {
	Kind          NoticeKind
	Email         string
	RoomName      string
	ReservationID int64
	StartDate     time.Time
	EndDate       time.Time
}

type Notifier interface {
	SendReservationNotice(ctx context.Context, input SendReservationNoticeInput) error
}
