// File: services/booking/session.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "villamar/database/repository/booking"
	"villamar/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrConfirmationPending is returned while the provider's webhook has not yet
// landed the booking record for a session.
var ErrConfirmationPending = errors.New("booking confirmation not yet available")

// InitiateSession opens a new booking session for a villa, snapshotting its
// pricing fields, and stores it with a TTL. The dialog starts on the dates step.
func (s *DefaultBookingSessionService) InitiateSession(ctx context.Context, villaID, guestName, guestEmail string) (*models.BookingSession, error) {
	villa, err := s.Villas.GetByID(villaID)
	if err != nil {
		return nil, fmt.Errorf("failed to load villa %s: %w", villaID, err)
	}
	if !villa.Active {
		return nil, NewValidationError("villa_unavailable", "this villa is not currently bookable")
	}

	session := &models.BookingSession{
		SessionID: uuid.New().String(),
		State:     models.SessionStateDates,
		Villa: models.VillaSnapshot{
			VillaID:           villa.ID,
			VillaName:         villa.Name,
			Destination:       villa.Destination,
			PricePerNight:     villa.PricePerNight,
			Currency:          villa.Currency,
			MaxGuests:         villa.MaxGuests,
			DepositPercentage: villa.DepositPercentage,
		},
		GuestName:  guestName,
		GuestEmail: guestEmail,
		CreatedAt:  time.Now(),
	}

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetStay validates the requested dates and guest count, derives nights and
// pricing, and advances the dialog to the checkout step. Validation failures
// leave the session on the dates step.
func (s *DefaultBookingSessionService) SetStay(ctx context.Context, sessionID, checkIn, checkOut string, guests int) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != models.SessionStateDates {
		return nil, NewStateError(fmt.Sprintf("cannot change dates from the %s step", session.State))
	}

	if checkIn == "" || checkOut == "" {
		return nil, NewValidationError("dates_required", "please select both check-in and check-out dates")
	}
	in, err := ParseStayDate(checkIn)
	if err != nil {
		return nil, NewValidationError("invalid_date", "check-in date is not a valid date")
	}
	out, err := ParseStayDate(checkOut)
	if err != nil {
		return nil, NewValidationError("invalid_date", "check-out date is not a valid date")
	}
	nights := Nights(in, out)
	if nights < 1 {
		return nil, NewValidationError("invalid_range", "check-out must be after check-in")
	}
	if guests < 1 {
		return nil, NewValidationError("guests_required", "at least one guest is required")
	}
	// Clamp to the villa's capacity rather than rejecting.
	if guests > session.Villa.MaxGuests {
		guests = session.Villa.MaxGuests
	}

	overlapping, err := s.Bookings.CountOverlapping(session.Villa.VillaID, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if overlapping > 0 {
		return nil, NewValidationError("dates_unavailable", "the villa is already booked for part of this stay")
	}

	total := StayTotal(nights, session.Villa.PricePerNight)
	deposit, _ := DepositSplit(total, session.Villa.DepositPercentage)

	session.Stay = &models.StayDetails{
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        guests,
		Nights:        nights,
		TotalAmount:   total,
		DepositAmount: deposit,
	}
	session.State = models.SessionStateCheckout

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Back returns the dialog from checkout to the dates step, discarding any
// in-flight provider session and the stay-derived pricing so neither a stale
// client secret nor a stale quote can surface while the guest re-picks dates.
func (s *DefaultBookingSessionService) Back(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != models.SessionStateCheckout {
		return nil, NewStateError(fmt.Sprintf("cannot go back from the %s step", session.State))
	}

	if session.ProviderSessionID != "" && s.Payments != nil {
		if err := s.Payments.ExpireSession(ctx, session.ProviderSessionID); err != nil {
			// Best effort; the provider expires abandoned sessions on its own.
			zap.L().Warn("failed to expire provider session",
				zap.String("providerSessionID", session.ProviderSessionID), zap.Error(err))
		}
	}
	session.ProviderSessionID = ""
	session.Stay = nil
	session.State = models.SessionStateDates

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CancelSession tears the session down completely; reopening the dialog starts
// from a fresh dates step with no leaked state.
func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID string) error {
	return s.Store.Delete(ctx, sessionID)
}

// GetSession returns the current session document.
func (s *DefaultBookingSessionService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.Store.Get(ctx, sessionID)
}

// Confirmation looks up the booking written by the payment webhook for this
// session. Success is only ever reached through a provider-confirmed record;
// the amounts returned are the provider's, not the pre-payment quote.
func (s *DefaultBookingSessionService) Confirmation(ctx context.Context, sessionID string) (*models.Booking, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ProviderSessionID == "" {
		return nil, NewStateError("checkout has not been started for this session")
	}

	record, err := s.Bookings.GetByProviderSession(session.ProviderSessionID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			// Webhook delivery may lag the embedded surface's onComplete.
			return nil, ErrConfirmationPending
		}
		return nil, err
	}

	if session.State != models.SessionStateSuccess {
		session.State = models.SessionStateSuccess
		if err := s.Store.Save(ctx, session); err != nil {
			zap.L().Warn("failed to persist success state", zap.String("sessionID", sessionID), zap.Error(err))
		}
	}
	return record, nil
}
