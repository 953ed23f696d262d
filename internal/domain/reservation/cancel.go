package reservation

import "time"

// CheckCancellable runs the ownership and time guards of a cancellation.
// A reservation can be cancelled by its owner until its end date passes.
func CheckCancellable(r Reservation, requesterID int64, now time.Time) error {
	end := r.EndDate.UTC()

	if r.UserID != requesterID {
		return ErrForbidden
	}

	if end.Before(now.UTC()) {
		return ErrAlreadyPast
	}

	return nil
}
