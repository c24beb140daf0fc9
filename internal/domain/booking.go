package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar format used for check-in and check-out.
const DateLayout = "2006-01-02"

// BookingStatus is the lifecycle state of a booking request.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingRejected, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether a booking may move from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks settlement of a booking.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
)

// Booking is a guest's reservation of a property for a date range.
type Booking struct {
	ID              string        `json:"id"`
	PropertyID      string        `json:"property_id"`
	GuestID         string        `json:"guest_id"`
	OwnerID         string        `json:"owner_id"`
	CheckIn         string        `json:"check_in"`
	CheckOut        string        `json:"check_out"`
	TotalPrice      float64       `json:"total_price"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	ContractAddress *string       `json:"contract_address"`
	TransactionHash *string       `json:"transaction_hash"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (b Booking) RecordID() string { return b.ID }

func (b *Booking) SetUpdatedAt(t time.Time) { b.UpdatedAt = t }

// Nights returns the number of nights between check-in and check-out.
func (b Booking) Nights() (int, error) {
	in, out, err := ParseStay(b.CheckIn, b.CheckOut)
	if err != nil {
		return 0, err
	}
	return int(out.Sub(in).Hours() / 24), nil
}

// ParseStay parses a check-in/check-out pair and requires check-out to be
// strictly after check-in.
func ParseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("check_in", fmt.Sprintf("must be a %s date", DateLayout))
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("check_out", fmt.Sprintf("must be a %s date", DateLayout))
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, NewValidationError("check_out", "must be after check_in")
	}
	return in, out, nil
}
