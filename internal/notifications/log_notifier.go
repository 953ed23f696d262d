package notifications

import (
	"context"
	"log/slog"
	"time"
)

// LogNotifier stands in for a mail provider: it writes the notice to the log.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendReservationNotice(ctx context.Context, in SendReservationNoticeInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.log.InfoContext(ctx, "notification."+string(in.Kind),
		"email", in.Email,
		"room", in.RoomName,
		"reservation_id", in.ReservationID,
		"start_date", in.StartDate.UTC().Format(time.RFC3339),
		"end_date", in.EndDate.UTC().Format(time.RFC3339),
	)
	return nil
}
