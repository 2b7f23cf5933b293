package models

import "time"

// BookingStatus is the lifecycle tag on a persisted booking.
type BookingStatus string

const (
	BookingStatusPending         BookingStatus = "pending"
	BookingStatusConfirmed       BookingStatus = "confirmed"
	BookingStatusDepositReceived BookingStatus = "deposit_received"
	BookingStatusCompleted       BookingStatus = "completed"
	BookingStatusCancelled       BookingStatus = "cancelled"
)

// allowedTransitions is the admin-facing status transition table. Completed and
// cancelled are terminal; cancellation is a status change, never a row removal.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:         {BookingStatusConfirmed, BookingStatusDepositReceived, BookingStatusCancelled},
	BookingStatusDepositReceived: {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:       {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActiveStatus reports whether a booking in this status still holds its dates.
func IsActiveStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusDepositReceived:
		return true
	}
	return false
}

// Booking is a confirmed reservation record. It is written exclusively by the
// payment webhook handler and mutated only through guarded admin status
// transitions.
type Booking struct {
	ID                string        `bson:"id" json:"id"`
	Reference         string        `bson:"reference" json:"reference"`
	VillaID           string        `bson:"villa_id" json:"villaId"`
	VillaName         string        `bson:"villa_name" json:"villaName"`
	Destination       string        `bson:"destination" json:"destination"`
	CheckIn           string        `bson:"check_in" json:"checkIn"`   // "YYYY-MM-DD"
	CheckOut          string        `bson:"check_out" json:"checkOut"` // "YYYY-MM-DD"
	Nights            int           `bson:"nights" json:"nights"`
	Guests            int           `bson:"guests" json:"guests"`
	GuestName         string        `bson:"guest_name,omitempty" json:"guestName,omitempty"`
	GuestEmail        string        `bson:"guest_email,omitempty" json:"guestEmail,omitempty"`
	TotalAmount       float64       `bson:"total_amount" json:"totalAmount"`
	DepositAmount     float64       `bson:"deposit_amount" json:"depositAmount"`
	DepositPercentage int           `bson:"deposit_percentage" json:"depositPercentage"`
	RemainingAmount   float64       `bson:"remaining_amount" json:"remainingAmount"`
	Currency          string        `bson:"currency" json:"currency"`
	BookingStatus     BookingStatus `bson:"booking_status" json:"bookingStatus"`
	PaymentStatus     string        `bson:"payment_status" json:"paymentStatus"`
	ProviderSessionID string        `bson:"provider_session_id" json:"-"` // idempotency key from the payment provider
	ReminderSent      bool          `bson:"reminder_sent" json:"reminderSent"`
	CreatedAt         time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time     `bson:"updated_at" json:"updatedAt"`
}

// BookingFilter narrows admin booking list queries.
type BookingFilter struct {
	Status   BookingStatus
	VillaID  string
	FromDate string // inclusive lower bound on check-in
	ToDate   string // inclusive upper bound on check-in
}
