package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campushub/internal/booking"
	"campushub/internal/models"
	"campushub/internal/storage"

	"github.com/go-chi/chi/v5"
)

// ListResources returns the bookable catalog, optionally filtered with ?q=.
func (h *Handlers) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.db.ListResources(strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		log.Printf("ERROR: Failed to list resources: %v", err)
		http.Error(w, "failed to list resources", http.StatusInternalServerError)
		return
	}
	if resources == nil {
		resources = []models.Resource{}
	}
	writeJSON(w, http.StatusOK, resources)
}

// Availability reports which of the fixed time slots are taken for a
// resource on a given ?date=.
func (h *Handlers) Availability(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid resource id", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	bookings, err := h.db.ListBookings()
	if err != nil {
		log.Printf("ERROR: Failed to list bookings: %v", err)
		http.Error(w, "failed to check availability", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, booking.Availability(resourceID, date, bookings))
}

type createBookingRequest struct {
	ResourceID int64  `json:"resource_id"`
	Date       string `json:"date"`
	TimeSlot   string `json:"time_slot"`
	Requester  string `json:"requester"`
}

// CreateBooking runs the conflict check over the stored bookings and
// persists the new request. The storage unique index backstops the check,
// so a concurrent writer losing the race still gets a conflict response.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("ERROR: Failed to decode create booking request: %v", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Requester == "" {
		req.Requester = "Student User"
	}

	allBookings, err := h.db.ListBookings()
	if err != nil {
		log.Printf("ERROR: Failed to list bookings: %v", err)
		http.Error(w, "failed to create booking", http.StatusInternalServerError)
		return
	}

	newBooking, err := booking.TryBook(req.ResourceID, req.Date, req.TimeSlot, req.Requester, allBookings)
	if err != nil {
		var conflict *booking.ConflictError
		if errors.As(err, &conflict) {
			log.Printf("INFO: Booking conflict on resource %d %s %q, held by %s", req.ResourceID, req.Date, req.TimeSlot, conflict.Requester)
			http.Error(w, conflict.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.db.CreateBooking(&newBooking); err != nil {
		if errors.Is(err, storage.ErrSlotTaken) {
			http.Error(w, "slot already taken", http.StatusConflict)
			return
		}
		log.Printf("ERROR: Failed to create booking: %v", err)
		http.Error(w, "failed to create booking", http.StatusInternalServerError)
		return
	}

	log.Printf("INFO: Created booking %s for resource %d on %s %q", newBooking.ID, newBooking.ResourceID, newBooking.Date, newBooking.TimeSlot)
	writeJSON(w, http.StatusCreated, newBooking)
}

// ListBookings returns all bookings, newest first.
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.db.ListBookings()
	if err != nil {
		log.Printf("ERROR: Failed to list bookings: %v", err)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

type updateStatusRequest struct {
	Status models.BookingStatus `json:"status"`
}

// UpdateBookingStatus applies an administrative approve/decline/revoke.
func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if !models.ValidStatus(req.Status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	current, err := h.db.GetBooking(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to load booking %s: %v", id, err)
		http.Error(w, "failed to update booking", http.StatusInternalServerError)
		return
	}

	if err := booking.Transition(current.Status, req.Status); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateBookingStatus(id, req.Status); err != nil {
		if errors.Is(err, storage.ErrSlotTaken) {
			// Reviving a declined booking whose slot was rebooked since.
			http.Error(w, "slot already taken", http.StatusConflict)
			return
		}
		log.Printf("ERROR: Failed to update booking %s: %v", id, err)
		http.Error(w, "failed to update booking", http.StatusInternalServerError)
		return
	}

	current.Status = req.Status
	log.Printf("INFO: Booking %s is now %s", id, req.Status)
	writeJSON(w, http.StatusOK, current)
}

// DeleteBooking removes a booking record permanently, regardless of status.
func (h *Handlers) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.db.DeleteBooking(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to delete booking %s: %v", id, err)
		http.Error(w, "failed to delete booking", http.StatusInternalServerError)
		return
	}
	log.Printf("INFO: Deleted booking %s", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "booking deleted"})
}
