// File: services/payment/stripe.go
package payment

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"villamar/models"
	booking "villamar/services/booking"

	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// CreateCheckoutSession opens an embedded-mode Checkout session for the
// deposit due on the booking session and returns the opaque client secret.
// Only legal while the dialog is on the checkout step; a session already in
// flight is expired first so at most one attempt is live per dialog.
func (s *StripeCheckoutService) CreateCheckoutSession(ctx context.Context, sessionID string) (*models.CheckoutHandle, error) {
	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.State != models.SessionStateCheckout || sess.Stay == nil {
		return nil, booking.NewStateError("checkout requires confirmed stay dates")
	}

	if sess.ProviderSessionID != "" {
		if err := s.ExpireSession(ctx, sess.ProviderSessionID); err != nil {
			zap.L().Warn("failed to expire superseded provider session",
				zap.String("providerSessionID", sess.ProviderSessionID), zap.Error(err))
		}
		sess.ProviderSessionID = ""
	}

	// Re-derive the authoritative price from the live villa record. The
	// session snapshot may be stale if rates changed after the dialog opened.
	villa, err := s.Villas.GetByID(sess.Villa.VillaID)
	if err != nil {
		return nil, fmt.Errorf("failed to load villa %s: %w", sess.Villa.VillaID, err)
	}
	total := booking.StayTotal(sess.Stay.Nights, villa.PricePerNight)
	deposit, _ := booking.DepositSplit(total, villa.DepositPercentage)
	if total != sess.Stay.TotalAmount {
		zap.L().Info("villa rate changed since session opened; using current rate",
			zap.String("villaID", villa.ID),
			zap.Float64("quoted", sess.Stay.TotalAmount),
			zap.Float64("current", total))
		sess.Stay.TotalAmount = total
		sess.Stay.DepositAmount = deposit
		sess.Villa.PricePerNight = villa.PricePerNight
		sess.Villa.DepositPercentage = villa.DepositPercentage
	}

	description := fmt.Sprintf("%d nights at %s, %s (%s to %s)",
		sess.Stay.Nights, villa.Name, villa.Destination, sess.Stay.CheckIn, sess.Stay.CheckOut)

	params := &stripe.CheckoutSessionParams{
		UIMode:    stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		Mode:      stripe.String(string(stripe.CheckoutSessionModePayment)),
		ReturnURL: stripe.String(s.ReturnURL + "?session_id={CHECKOUT_SESSION_ID}"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(villa.Currency),
					UnitAmount: stripe.Int64(toMinorUnits(deposit)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(villa.Name),
						Description: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("booking_session_id", sess.SessionID)
	params.AddMetadata("villa_id", villa.ID)
	params.AddMetadata("villa_name", villa.Name)
	params.AddMetadata("destination", villa.Destination)
	params.AddMetadata("check_in", sess.Stay.CheckIn)
	params.AddMetadata("check_out", sess.Stay.CheckOut)
	params.AddMetadata("nights", strconv.Itoa(sess.Stay.Nights))
	params.AddMetadata("guests", strconv.Itoa(sess.Stay.Guests))
	params.AddMetadata("total_amount", strconv.FormatFloat(total, 'f', 2, 64))
	params.AddMetadata("deposit_percentage", strconv.Itoa(villa.DepositPercentage))
	params.AddMetadata("guest_name", sess.GuestName)
	params.AddMetadata("guest_email", sess.GuestEmail)

	providerSession, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	sess.ProviderSessionID = providerSession.ID
	if err := s.Store.Save(ctx, sess); err != nil {
		return nil, err
	}

	return &models.CheckoutHandle{
		ProviderSessionID: providerSession.ID,
		ClientSecret:      providerSession.ClientSecret,
		AmountDue:         deposit,
		Currency:          villa.Currency,
	}, nil
}

// ExpireSession discards an open provider session.
func (s *StripeCheckoutService) ExpireSession(ctx context.Context, providerSessionID string) error {
	_, err := checkoutsession.Expire(providerSessionID, &stripe.CheckoutSessionExpireParams{})
	if err != nil {
		return fmt.Errorf("failed to expire checkout session %s: %w", providerSessionID, err)
	}
	return nil
}

// toMinorUnits converts a major-unit amount to the provider's integer cents.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
