package booking

import (
	"errors"
	"testing"

	"campushub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const morning = "Morning (09:00 - 12:00)"

func approvedBooking() models.Booking {
	return models.Booking{
		ID:         "b101",
		ResourceID: 1,
		Date:       "2024-05-20",
		TimeSlot:   morning,
		Requester:  "Prof. Smith",
		Status:     models.StatusApproved,
	}
}

func TestTryBookNoConflict(t *testing.T) {
	got, err := TryBook(1, "2024-05-21", morning, "Student User", []models.Booking{approvedBooking()})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, int64(1), got.ResourceID)
	assert.Equal(t, "2024-05-21", got.Date)
	assert.Equal(t, morning, got.TimeSlot)
	assert.Equal(t, "Student User", got.Requester)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestTryBookConflictNamesRequester(t *testing.T) {
	_, err := TryBook(1, "2024-05-20", morning, "Student User", []models.Booking{approvedBooking()})
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Prof. Smith", conflict.Requester)
	assert.Contains(t, err.Error(), "Prof. Smith")
}

func TestTryBookPendingAlsoHoldsSlot(t *testing.T) {
	pending := approvedBooking()
	pending.Status = models.StatusPending

	_, err := TryBook(1, "2024-05-20", morning, "Student User", []models.Booking{pending})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestTryBookDeclinedFreesSlot(t *testing.T) {
	declined := approvedBooking()
	declined.Status = models.StatusDeclined

	got, err := TryBook(1, "2024-05-20", morning, "Student User", []models.Booking{declined})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestTryBookNotAtomicBeforePersist(t *testing.T) {
	// Two checks against the same snapshot both pass; nothing is persisted
	// by TryBook itself. The storage-level constraint catches the loser.
	all := []models.Booking{approvedBooking()}

	first, err := TryBook(2, "2024-05-22", morning, "Alice", all)
	require.NoError(t, err)
	second, err := TryBook(2, "2024-05-22", morning, "Bob", all)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// Once the first is part of the snapshot, the second conflicts.
	_, err = TryBook(2, "2024-05-22", morning, "Bob", append(all, first))
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Alice", conflict.Requester)
}

func TestTryBookValidation(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		slot    string
		wantErr error
	}{
		{"missing date", "", morning, ErrMissingDate},
		{"missing slot", "2024-05-20", "", ErrMissingSlot},
		{"unknown slot", "2024-05-20", "Midnight (00:00 - 03:00)", ErrUnknownSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TryBook(1, tt.date, tt.slot, "Student User", nil)
			assert.ErrorIs(t, err, tt.wantErr)

			// Validation failures are never reported as conflicts.
			var conflict *ConflictError
			assert.False(t, errors.As(err, &conflict))
		})
	}
}

func TestTryBookDifferentSlotSameDate(t *testing.T) {
	_, err := TryBook(1, "2024-05-20", "Afternoon (13:00 - 16:00)", "Student User", []models.Booking{approvedBooking()})
	assert.NoError(t, err)
}

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to models.BookingStatus
		ok       bool
	}{
		{models.StatusPending, models.StatusApproved, true},
		{models.StatusPending, models.StatusDeclined, true},
		{models.StatusApproved, models.StatusPending, true},
		{models.StatusDeclined, models.StatusPending, true},
		{models.StatusApproved, models.StatusDeclined, false},
		{models.StatusDeclined, models.StatusApproved, false},
		{models.StatusPending, models.StatusPending, false},
	}

	for _, tt := range tests {
		err := Transition(tt.from, tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		} else {
			assert.ErrorIs(t, err, ErrBadTransition, "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestAvailability(t *testing.T) {
	got := Availability(1, "2024-05-20", []models.Booking{approvedBooking()})
	require.Len(t, got, 3)

	assert.Equal(t, morning, got[0].TimeSlot)
	assert.True(t, got[0].Taken)
	assert.False(t, got[1].Taken)
	assert.False(t, got[2].Taken)
}

func TestAvailabilityDeclinedNotTaken(t *testing.T) {
	declined := approvedBooking()
	declined.Status = models.StatusDeclined

	got := Availability(1, "2024-05-20", []models.Booking{declined})
	for _, s := range got {
		assert.False(t, s.Taken)
	}
}
