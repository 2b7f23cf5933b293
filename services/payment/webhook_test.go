package payment

import (
	"context"
	"testing"
	"time"

	bookingRepo "villamar/database/repository/booking"
	"villamar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	byProvider map[string]*models.Booking
	creates    int
}

func (f *fakeBookingRepo) UpsertByProviderSession(b *models.Booking) (bool, error) {
	if _, ok := f.byProvider[b.ProviderSessionID]; ok {
		return false, nil
	}
	f.byProvider[b.ProviderSessionID] = b
	f.creates++
	return true, nil
}

func (f *fakeBookingRepo) GetByProviderSession(providerSessionID string) (*models.Booking, error) {
	if b, ok := f.byProvider[providerSessionID]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) GetByID(string) (*models.Booking, error) {
	return nil, bookingRepo.ErrBookingNotFound
}
func (f *fakeBookingRepo) GetByReference(string) (*models.Booking, error) {
	return nil, bookingRepo.ErrBookingNotFound
}
func (f *fakeBookingRepo) List(models.BookingFilter) ([]models.Booking, error) { return nil, nil }
func (f *fakeBookingRepo) CountByStatus() (map[models.BookingStatus]int64, error) {
	return nil, nil
}
func (f *fakeBookingRepo) CountOverlapping(string, string, string) (int64, error) { return 0, nil }
func (f *fakeBookingRepo) UpdateStatusGuarded(string, models.BookingStatus, string) (*models.Booking, error) {
	return nil, bookingRepo.ErrBookingNotFound
}
func (f *fakeBookingRepo) MarkReminderSent(string) error { return nil }

type fakeScheduler struct {
	scheduled []models.ReminderPayload
	fireAts   []time.Time
}

func (f *fakeScheduler) ScheduleReminder(_ context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	f.scheduled = append(f.scheduled, payload)
	f.fireAts = append(f.fireAts, fireAt)
	return nil
}

func completedCheckout() models.CompletedCheckout {
	farCheckIn := time.Now().AddDate(0, 2, 0).Format("2006-01-02")
	farCheckOut := time.Now().AddDate(0, 2, 3).Format("2006-01-02")
	return models.CompletedCheckout{
		ProviderSessionID: "cs_test_abc",
		AmountPaid:        450,
		Currency:          "usd",
		PaymentStatus:     "paid",
		Metadata: map[string]string{
			"villa_id":           "villa-1",
			"villa_name":         "Casa Azzurra",
			"destination":        "Amalfi Coast",
			"check_in":           farCheckIn,
			"check_out":          farCheckOut,
			"nights":             "3",
			"guests":             "2",
			"total_amount":       "1500",
			"deposit_percentage": "30",
			"guest_name":         "Ada",
			"guest_email":        "ada@example.com",
		},
	}
}

func TestProcessCompletedCheckoutWritesBooking(t *testing.T) {
	repo := &fakeBookingRepo{byProvider: make(map[string]*models.Booking)}
	scheduler := &fakeScheduler{}
	p := &WebhookProcessor{Bookings: repo, Reminders: scheduler}

	record, err := p.ProcessCompletedCheckout(context.Background(), completedCheckout())
	require.NoError(t, err)

	// A 30% deposit against a $1500 total leaves $1050 due on arrival.
	assert.Equal(t, models.BookingStatusDepositReceived, record.BookingStatus)
	assert.Equal(t, 450.0, record.DepositAmount)
	assert.Equal(t, 1050.0, record.RemainingAmount)
	assert.Equal(t, "USD", record.Currency)
	assert.Equal(t, "cs_test_abc", record.ProviderSessionID)
	assert.Regexp(t, `^VM-\d{4}-[0-9A-F]{8}$`, record.Reference)
	assert.Equal(t, 1, repo.creates)
}

func TestProcessCompletedCheckoutFullPaymentConfirms(t *testing.T) {
	repo := &fakeBookingRepo{byProvider: make(map[string]*models.Booking)}
	p := &WebhookProcessor{Bookings: repo}

	cc := completedCheckout()
	cc.AmountPaid = 1500

	record, err := p.ProcessCompletedCheckout(context.Background(), cc)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, record.BookingStatus)
	assert.Equal(t, 0.0, record.RemainingAmount)
}

func TestProcessCompletedCheckoutUnpaidStaysPending(t *testing.T) {
	repo := &fakeBookingRepo{byProvider: make(map[string]*models.Booking)}
	p := &WebhookProcessor{Bookings: repo}

	cc := completedCheckout()
	cc.PaymentStatus = "unpaid"
	cc.AmountPaid = 0

	record, err := p.ProcessCompletedCheckout(context.Background(), cc)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, record.BookingStatus)
}

func TestProcessCompletedCheckoutRoundsRemainingBalance(t *testing.T) {
	repo := &fakeBookingRepo{byProvider: make(map[string]*models.Booking)}
	p := &WebhookProcessor{Bookings: repo}

	// 999.99 minus a 330.00 deposit must not persist a float tail.
	cc := completedCheckout()
	cc.Metadata["total_amount"] = "999.99"
	cc.AmountPaid = 330.0

	record, err := p.ProcessCompletedCheckout(context.Background(), cc)
	require.NoError(t, err)
	assert.Equal(t, 669.99, record.RemainingAmount)
}

func TestProcessCompletedCheckoutReplayIsIdempotent(t *testing.T) {
	repo := &fakeBookingRepo{byProvider: make(map[string]*models.Booking)}
	scheduler := &fakeScheduler{}
	p := &WebhookProcessor{Bookings: repo, Reminders: scheduler}
	cc := completedCheckout()

	first, err := p.ProcessCompletedCheckout(context.Background(), cc)
	require.NoError(t, err)

	second, err := p.ProcessCompletedCheckout(context.Background(), cc)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Reference, second.Reference)
	// Redelivery does not schedule a second reminder either.
	assert.Len(t, scheduler.scheduled, 1)
}

func TestProcessCompletedCheckoutMissingMetadata(t *testing.T) {
	repo := &fakeBookingRepo{byProvider: make(map[string]*models.Booking)}
	p := &WebhookProcessor{Bookings: repo}

	cc := completedCheckout()
	delete(cc.Metadata, "check_in")

	_, err := p.ProcessCompletedCheckout(context.Background(), cc)
	assert.Error(t, err)
	assert.Equal(t, 0, repo.creates)
}

func TestReminderScheduledBeforeArrival(t *testing.T) {
	repo := &fakeBookingRepo{byProvider: make(map[string]*models.Booking)}
	scheduler := &fakeScheduler{}
	p := &WebhookProcessor{Bookings: repo, Reminders: scheduler}

	record, err := p.ProcessCompletedCheckout(context.Background(), completedCheckout())
	require.NoError(t, err)

	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, record.ID, scheduler.scheduled[0].BookingID)
	assert.Equal(t, record.CheckIn, scheduler.scheduled[0].CheckIn)

	checkIn, err := time.Parse("2006-01-02", record.CheckIn)
	require.NoError(t, err)
	assert.Equal(t, checkIn.AddDate(0, 0, -3), scheduler.fireAts[0].UTC())
}

func TestReminderSkippedForImminentArrival(t *testing.T) {
	repo := &fakeBookingRepo{byProvider: make(map[string]*models.Booking)}
	scheduler := &fakeScheduler{}
	p := &WebhookProcessor{Bookings: repo, Reminders: scheduler}

	cc := completedCheckout()
	cc.Metadata["check_in"] = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	cc.Metadata["check_out"] = time.Now().AddDate(0, 0, 4).Format("2006-01-02")

	_, err := p.ProcessCompletedCheckout(context.Background(), cc)
	require.NoError(t, err)
	assert.Empty(t, scheduler.scheduled)
}
