package handlers

import (
	"errors"

	"github.com/geocoder89/roomhub/internal/domain/reservation"
	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/gin-gonic/gin"
)

const (
	MsgRoomNotFound        = "Room not found"
	MsgDatesNotAware       = "Dates (start_date and end_date) must be aware and in UTC timezone"
	MsgInvalidDates        = "Invalid dates, start_date must be in future, start_date must be before end_date and both must have minutes and seconds equal to 0"
	MsgAlreadyReserved     = "Room is already reserved on the following hours: "
	MsgReservationNotFound = "Reservation not found"
	MsgNotOwner            = "You are not allowed to delete this reservation"
	MsgPastReservation     = "You can't delete a past reservation"
	MsgReservationDeleted  = "Reservation deleted"
)

// respondReservationError maps booking and cancellation failures onto the
// error envelope. It returns the metric result label.
func respondReservationError(ctx *gin.Context, err error, fallback string) string {
	var conflict *reservation.ConflictError

	switch {
	case errors.Is(err, room.ErrNotFound):
		RespondRejected(ctx, "room_not_found", MsgRoomNotFound, nil)
		return "room_not_found"
	case errors.Is(err, reservation.ErrNotTimezoneAware):
		RespondRejected(ctx, "dates_not_aware", MsgDatesNotAware, nil)
		return "dates_not_aware"
	case errors.Is(err, reservation.ErrInvalidRange):
		RespondRejected(ctx, "invalid_dates", MsgInvalidDates, nil)
		return "invalid_dates"
	case errors.As(err, &conflict):
		RespondRejected(ctx, "room_already_reserved", MsgAlreadyReserved+reservation.FormatHours(conflict.Hours), gin.H{
			"hours": conflict.Hours,
		})
		return "room_already_reserved"
	case errors.Is(err, reservation.ErrNotFound):
		RespondRejected(ctx, "reservation_not_found", MsgReservationNotFound, nil)
		return "reservation_not_found"
	case errors.Is(err, reservation.ErrForbidden):
		RespondRejected(ctx, "forbidden", MsgNotOwner, nil)
		return "forbidden"
	case errors.Is(err, reservation.ErrAlreadyPast):
		RespondRejected(ctx, "reservation_past", MsgPastReservation, nil)
		return "reservation_past"
	default:
		RespondInternal(ctx, fallback)
		return "error"
	}
}
