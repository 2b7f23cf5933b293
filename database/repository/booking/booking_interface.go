package bookingRepo

import (
	"villamar/models"
)

// BookingRepository defines persistence operations on booking records.
// Bookings are created once by the payment webhook and only ever mutated
// through status updates; there is no delete.
type BookingRepository interface {
	// UpsertByProviderSession inserts the booking keyed by its provider
	// session ID. A replayed webhook for the same provider session is a
	// no-op; the method reports whether a new record was created.
	UpsertByProviderSession(booking *models.Booking) (created bool, err error)

	GetByID(id string) (*models.Booking, error)
	GetByProviderSession(providerSessionID string) (*models.Booking, error)
	GetByReference(reference string) (*models.Booking, error)

	List(filter models.BookingFilter) ([]models.Booking, error)
	CountByStatus() (map[models.BookingStatus]int64, error)

	// CountOverlapping counts active bookings for the villa whose stay
	// intersects [checkIn, checkOut).
	CountOverlapping(villaID, checkIn, checkOut string) (int64, error)

	// UpdateStatusGuarded performs a single-row status update guarded by the
	// record's last-seen updatedAt. A stale timestamp yields ErrStaleBooking.
	UpdateStatusGuarded(id string, next models.BookingStatus, expectedUpdatedAt string) (*models.Booking, error)

	MarkReminderSent(id string) error
}
