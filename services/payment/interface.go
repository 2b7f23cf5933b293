package payment

import (
	"context"
	"time"

	bookingRepo "villamar/database/repository/booking"
	villaRepo "villamar/database/repository/villa"
	"villamar/models"
	booking "villamar/services/booking"
)

// CheckoutService opens and discards hosted payment sessions with the
// provider. The embedded payment surface pulls the client secret lazily, on
// mount, through CreateCheckoutSession.
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, sessionID string) (*models.CheckoutHandle, error)
	ExpireSession(ctx context.Context, providerSessionID string) error
}

// StripeCheckoutService implements CheckoutService against Stripe Checkout in
// embedded mode. Totals are always recomputed from the live villa record
// before a session is opened; client-quoted amounts are never charged.
type StripeCheckoutService struct {
	Villas    villaRepo.VillaRepository
	Store     booking.SessionStore
	ReturnURL string
}

// ReminderScheduler enqueues the pre-arrival reminder once a booking lands.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// WebhookProcessor is the sole writer of booking records. It is idempotent on
// the provider session id, so replayed webhook deliveries are harmless.
type WebhookProcessor struct {
	Bookings  bookingRepo.BookingRepository
	Reminders ReminderScheduler
}
