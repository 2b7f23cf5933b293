package booking

import (
	"context"

	bookingRepo "villamar/database/repository/booking"
	villaRepo "villamar/database/repository/villa"
	"villamar/models"
)

// BookingSessionService manages the stateful checkout attempt behind the
// booking dialog: dates -> checkout -> success, with back-navigation from
// checkout and full teardown on close.
type BookingSessionService interface {
	InitiateSession(ctx context.Context, villaID, guestName, guestEmail string) (*models.BookingSession, error)
	SetStay(ctx context.Context, sessionID, checkIn, checkOut string, guests int) (*models.BookingSession, error)
	Back(ctx context.Context, sessionID string) (*models.BookingSession, error)
	CancelSession(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error)

	// Confirmation reports whether the payment provider's webhook has landed
	// the booking for this session. On the first hit the session moves to
	// the success state and the server-confirmed record is returned.
	Confirmation(ctx context.Context, sessionID string) (*models.Booking, error)
}

// PaymentSessionExpirer lets the session service discard an in-flight provider
// session when the guest navigates back to the dates step.
type PaymentSessionExpirer interface {
	ExpireSession(ctx context.Context, providerSessionID string) error
}

// DefaultBookingSessionService implements BookingSessionService.
type DefaultBookingSessionService struct {
	Villas   villaRepo.VillaRepository
	Bookings bookingRepo.BookingRepository
	Store    SessionStore
	Payments PaymentSessionExpirer
}
