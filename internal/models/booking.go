package models

import "time"

// BookingStatus is the lifecycle state of a booking request.
type BookingStatus string

const (
	StatusPending  BookingStatus = "Pending"
	StatusApproved BookingStatus = "Approved"
	StatusDeclined BookingStatus = "Declined"
)

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s BookingStatus) bool {
	return s == StatusPending || s == StatusApproved || s == StatusDeclined
}

// TimeSlots are the three fixed daily booking windows.
var TimeSlots = []string{
	"Morning (09:00 - 12:00)",
	"Afternoon (13:00 - 16:00)",
	"Evening (17:00 - 20:00)",
}

// ValidTimeSlot reports whether slot is one of the fixed windows.
func ValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// Booking is a requested reservation of a resource for a date and time slot.
// A slot is held by at most one non-Declined booking at a time.
type Booking struct {
	ID         string        `json:"id"`
	ResourceID int64         `json:"resource_id"`
	Date       string        `json:"date"` // YYYY-MM-DD
	TimeSlot   string        `json:"time_slot"`
	Requester  string        `json:"requester"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Resource is a bookable campus asset.
type Resource struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
