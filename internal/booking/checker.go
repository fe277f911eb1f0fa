// Package booking holds the slot-conflict checker and the booking state
// machine.
package booking

import (
	"errors"
	"fmt"
	"time"

	"campushub/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrMissingDate is returned when no date was selected.
	ErrMissingDate = errors.New("date is required")
	// ErrMissingSlot is returned when no time slot was selected.
	ErrMissingSlot = errors.New("time slot is required")
	// ErrUnknownSlot is returned for a slot label outside the fixed windows.
	ErrUnknownSlot = errors.New("unknown time slot")
	// ErrBadTransition is returned for a status change the state machine
	// does not allow.
	ErrBadTransition = errors.New("invalid status transition")
)

// ConflictError reports that a slot is already held by a non-declined
// booking. Requester names the holder for the user-facing message.
type ConflictError struct {
	Requester string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot already booked by %s", e.Requester)
}

// FindConflict returns the booking holding (resourceID, date, slot), if any.
// Declined bookings do not hold a slot.
func FindConflict(resourceID int64, date, slot string, all []models.Booking) (models.Booking, bool) {
	for _, b := range all {
		if b.ResourceID == resourceID && b.Date == date && b.TimeSlot == slot && b.Status != models.StatusDeclined {
			return b, true
		}
	}
	return models.Booking{}, false
}

// TryBook validates the request and checks it against the existing bookings.
// On success it returns a new Pending booking for the caller to persist; it
// never persists anything itself, so two calls against the same snapshot
// both succeed (the caller's storage constraint is the backstop).
func TryBook(resourceID int64, date, slot, requester string, all []models.Booking) (models.Booking, error) {
	if date == "" {
		return models.Booking{}, ErrMissingDate
	}
	if slot == "" {
		return models.Booking{}, ErrMissingSlot
	}
	if !models.ValidTimeSlot(slot) {
		return models.Booking{}, ErrUnknownSlot
	}

	if existing, ok := FindConflict(resourceID, date, slot, all); ok {
		return models.Booking{}, &ConflictError{Requester: existing.Requester}
	}

	return models.Booking{
		ID:         uuid.NewString(),
		ResourceID: resourceID,
		Date:       date,
		TimeSlot:   slot,
		Requester:  requester,
		Status:     models.StatusPending,
		CreatedAt:  time.Now(),
	}, nil
}

// Transition reports whether a booking may move from one status to another.
// Pending requests are approved or declined; either decision can be revoked
// back to Pending. Declining frees the slot for rebooking.
func Transition(from, to models.BookingStatus) error {
	switch {
	case from == models.StatusPending && (to == models.StatusApproved || to == models.StatusDeclined):
		return nil
	case (from == models.StatusApproved || from == models.StatusDeclined) && to == models.StatusPending:
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrBadTransition, from, to)
}

// SlotAvailability pairs a time slot with whether it is already taken.
type SlotAvailability struct {
	TimeSlot string `json:"time_slot"`
	Taken    bool   `json:"taken"`
}

// Availability reports, for each fixed time slot on a date, whether a
// non-declined booking already holds it.
func Availability(resourceID int64, date string, all []models.Booking) []SlotAvailability {
	out := make([]SlotAvailability, 0, len(models.TimeSlots))
	for _, slot := range models.TimeSlots {
		_, taken := FindConflict(resourceID, date, slot, all)
		out = append(out, SlotAvailability{TimeSlot: slot, Taken: taken})
	}
	return out
}
