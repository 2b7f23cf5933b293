package models

import "time"

// SessionState is the booking dialog's server-held state.
type SessionState string

const (
	SessionStateDates    SessionState = "dates"
	SessionStateCheckout SessionState = "checkout"
	SessionStateSuccess  SessionState = "success"
)

// VillaSnapshot carries the pricing fields frozen into a session when it is
// initiated. Checkout still re-reads the live villa record before charging.
type VillaSnapshot struct {
	VillaID           string  `json:"villaId"`
	VillaName         string  `json:"villaName"`
	Destination       string  `json:"destination"`
	PricePerNight     float64 `json:"pricePerNight"`
	Currency          string  `json:"currency"`
	MaxGuests         int     `json:"maxGuests"`
	DepositPercentage int     `json:"depositPercentage"`
}

// StayDetails holds the validated dates, guest count and derived pricing.
type StayDetails struct {
	CheckIn       string  `json:"checkIn"`  // "YYYY-MM-DD"
	CheckOut      string  `json:"checkOut"` // "YYYY-MM-DD"
	Guests        int     `json:"guests"`
	Nights        int     `json:"nights"`
	TotalAmount   float64 `json:"totalAmount"`
	DepositAmount float64 `json:"depositAmount"`
}

// BookingSession holds context for one checkout attempt. It lives in Redis
// under its SessionID with a TTL and is discarded on close or success.
type BookingSession struct {
	SessionID         string        `json:"sessionId"`
	State             SessionState  `json:"state"`
	Villa             VillaSnapshot `json:"villa"`
	Stay              *StayDetails  `json:"stay,omitempty"`
	GuestName         string        `json:"guestName,omitempty"`
	GuestEmail        string        `json:"guestEmail,omitempty"`
	ProviderSessionID string        `json:"providerSessionId,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}
