// File: services/payment/webhook.go
package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"villamar/models"
	booking "villamar/services/booking"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reminderLeadDays = 3

// ProcessCompletedCheckout turns a provider-confirmed checkout into a booking
// record. The upsert is keyed on the provider session id, so redelivered
// events resolve to the already-written record.
func (p *WebhookProcessor) ProcessCompletedCheckout(ctx context.Context, cc models.CompletedCheckout) (*models.Booking, error) {
	record, err := p.buildBooking(cc)
	if err != nil {
		return nil, err
	}

	created, err := p.Bookings.UpsertByProviderSession(record)
	if err != nil {
		return nil, err
	}
	if !created {
		zap.L().Info("webhook replay ignored", zap.String("providerSessionID", cc.ProviderSessionID))
		return p.Bookings.GetByProviderSession(cc.ProviderSessionID)
	}

	zap.L().Info("booking recorded",
		zap.String("reference", record.Reference),
		zap.String("villa", record.VillaName),
		zap.String("status", string(record.BookingStatus)))

	p.scheduleReminder(ctx, record)
	return record, nil
}

func (p *WebhookProcessor) buildBooking(cc models.CompletedCheckout) (*models.Booking, error) {
	meta := cc.Metadata
	required := []string{"villa_id", "villa_name", "check_in", "check_out", "nights", "guests", "total_amount"}
	for _, key := range required {
		if meta[key] == "" {
			return nil, fmt.Errorf("completed checkout %s is missing metadata %q", cc.ProviderSessionID, key)
		}
	}

	nights, err := strconv.Atoi(meta["nights"])
	if err != nil {
		return nil, fmt.Errorf("invalid nights metadata %q: %w", meta["nights"], err)
	}
	guests, err := strconv.Atoi(meta["guests"])
	if err != nil {
		return nil, fmt.Errorf("invalid guests metadata %q: %w", meta["guests"], err)
	}
	total, err := strconv.ParseFloat(meta["total_amount"], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid total_amount metadata %q: %w", meta["total_amount"], err)
	}
	depositPct, _ := strconv.Atoi(meta["deposit_percentage"])

	status := models.BookingStatusPending
	if strings.EqualFold(cc.PaymentStatus, "paid") {
		if cc.AmountPaid+0.005 >= total {
			status = models.BookingStatusConfirmed
		} else {
			status = models.BookingStatusDepositReceived
		}
	}

	id := uuid.New().String()
	return &models.Booking{
		ID:                id,
		Reference:         newReference(id),
		VillaID:           meta["villa_id"],
		VillaName:         meta["villa_name"],
		Destination:       meta["destination"],
		CheckIn:           meta["check_in"],
		CheckOut:          meta["check_out"],
		Nights:            nights,
		Guests:            guests,
		GuestName:         meta["guest_name"],
		GuestEmail:        meta["guest_email"],
		TotalAmount:       total,
		DepositAmount:     cc.AmountPaid,
		DepositPercentage: depositPct,
		RemainingAmount:   booking.RoundCents(total - cc.AmountPaid),
		Currency:          strings.ToUpper(cc.Currency),
		BookingStatus:     status,
		PaymentStatus:     cc.PaymentStatus,
		ProviderSessionID: cc.ProviderSessionID,
	}, nil
}

func (p *WebhookProcessor) scheduleReminder(ctx context.Context, record *models.Booking) {
	if p.Reminders == nil {
		return
	}
	checkIn, err := booking.ParseStayDate(record.CheckIn)
	if err != nil {
		zap.L().Warn("cannot schedule reminder for unparseable check-in",
			zap.String("bookingID", record.ID), zap.String("checkIn", record.CheckIn))
		return
	}
	fireAt := checkIn.AddDate(0, 0, -reminderLeadDays)
	if !fireAt.After(time.Now()) {
		return
	}

	payload := models.ReminderPayload{
		BookingID: record.ID,
		Reference: record.Reference,
		CheckIn:   record.CheckIn,
	}
	if err := p.Reminders.ScheduleReminder(ctx, payload, fireAt); err != nil {
		zap.L().Error("failed to schedule pre-arrival reminder",
			zap.String("bookingID", record.ID), zap.Error(err))
	}
}

// newReference derives a short human-facing booking reference.
func newReference(id string) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("VM-%d-%s", time.Now().Year(), short)
}
