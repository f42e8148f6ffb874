package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the canonical on-disk and over-the-wire date format.
// Persisted dates and in-memory dates are both normalized to it before
// any comparison.
const DateLayout = "2006-01-02"

// SlotLayout is the canonical HH:MM time-slot format.
const SlotLayout = "15:04"

// Booking is one ledger row. Students are referenced by ID; the name is
// denormalized for display and never used as a key.
type Booking struct {
	StudentID   uuid.UUID `json:"student_id" csv:"student_id"`
	StudentName string    `json:"student_name" csv:"student_name"`
	Date        time.Time `json:"date" csv:"date"`
	TimeSlot    string    `json:"time_slot" csv:"time_slot"`
	Room        string    `json:"room" csv:"room"`
	StaffName   string    `json:"staff_name" csv:"staff_name"`
	CreatedAt   time.Time `json:"created_at" csv:"created_at"`
}

// DateKey returns the booking date normalized to the canonical layout.
func (b *Booking) DateKey() string {
	return b.Date.Format(DateLayout)
}

type CreateBookingRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot  string `json:"time_slot" validate:"required,datetime=15:04"`
	Room      string `json:"room" validate:"required"`
	StaffName string `json:"staff_name" validate:"required"`
}

// NormalizeDate parses an ISO date string into a midnight-UTC time.Time.
func NormalizeDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
