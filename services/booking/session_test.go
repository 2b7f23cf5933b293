package booking

import (
	"context"
	"testing"

	bookingRepo "villamar/database/repository/booking"
	villaRepo "villamar/database/repository/villa"
	"villamar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

// memStore is an in-memory SessionStore. It deep-copies documents to mimic
// the serialization round trip through Redis.
type memStore struct {
	sessions map[string]*models.BookingSession
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*models.BookingSession)}
}

func copySession(s *models.BookingSession) *models.BookingSession {
	cp := *s
	if s.Stay != nil {
		stay := *s.Stay
		cp.Stay = &stay
	}
	return &cp
}

func (m *memStore) Save(_ context.Context, session *models.BookingSession) error {
	m.sessions[session.SessionID] = copySession(session)
	return nil
}

func (m *memStore) Get(_ context.Context, sessionID string) (*models.BookingSession, error) {
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(session), nil
}

func (m *memStore) Delete(_ context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

type fakeVillaRepo struct {
	villas map[string]*models.Villa
}

func (f *fakeVillaRepo) Create(v *models.Villa) error   { f.villas[v.ID] = v; return nil }
func (f *fakeVillaRepo) Update(v *models.Villa) error   { f.villas[v.ID] = v; return nil }
func (f *fakeVillaRepo) SetActive(string, bool) error   { return nil }
func (f *fakeVillaRepo) AddImage(string, string) error  { return nil }
func (f *fakeVillaRepo) GetBySlug(string) (*models.Villa, error) {
	return nil, villaRepo.ErrVillaNotFound
}
func (f *fakeVillaRepo) List(string, bool) ([]models.VillaSummary, error) { return nil, nil }

func (f *fakeVillaRepo) GetByID(id string) (*models.Villa, error) {
	v, ok := f.villas[id]
	if !ok {
		return nil, villaRepo.ErrVillaNotFound
	}
	return v, nil
}

type fakeBookingRepo struct {
	overlapping int64
	byProvider  map[string]*models.Booking
}

func (f *fakeBookingRepo) UpsertByProviderSession(*models.Booking) (bool, error) { return false, nil }
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
func (f *fakeBookingRepo) UpdateStatusGuarded(string, models.BookingStatus, string) (*models.Booking, error) {
	return nil, bookingRepo.ErrBookingNotFound
}
func (f *fakeBookingRepo) MarkReminderSent(string) error { return nil }

func (f *fakeBookingRepo) GetByProviderSession(providerSessionID string) (*models.Booking, error) {
	if b, ok := f.byProvider[providerSessionID]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) CountOverlapping(string, string, string) (int64, error) {
	return f.overlapping, nil
}

type fakeExpirer struct {
	expired []string
}

func (f *fakeExpirer) ExpireSession(_ context.Context, providerSessionID string) error {
	f.expired = append(f.expired, providerSessionID)
	return nil
}

func testVilla() *models.Villa {
	return &models.Villa{
		ID:                "villa-1",
		Slug:              "casa-azzurra",
		Name:              "Casa Azzurra",
		Destination:       "Amalfi Coast",
		MaxGuests:         6,
		PricePerNight:     500,
		Currency:          "USD",
		DepositPercentage: 30,
		Active:            true,
	}
}

func newTestService() (*DefaultBookingSessionService, *memStore, *fakeBookingRepo, *fakeExpirer) {
	store := newMemStore()
	bookings := &fakeBookingRepo{byProvider: make(map[string]*models.Booking)}
	expirer := &fakeExpirer{}
	svc := &DefaultBookingSessionService{
		Villas:   &fakeVillaRepo{villas: map[string]*models.Villa{"villa-1": testVilla()}},
		Bookings: bookings,
		Store:    store,
		Payments: expirer,
	}
	return svc, store, bookings, expirer
}

// --- Tests ---

func TestInitiateSessionStartsOnDates(t *testing.T) {
	svc, _, _, _ := newTestService()

	session, err := svc.InitiateSession(context.Background(), "villa-1", "Ada", "ada@example.com")
	require.NoError(t, err)

	assert.Equal(t, models.SessionStateDates, session.State)
	assert.Nil(t, session.Stay)
	assert.Empty(t, session.ProviderSessionID)
	assert.Equal(t, "Casa Azzurra", session.Villa.VillaName)
	assert.Equal(t, 500.0, session.Villa.PricePerNight)
	assert.Equal(t, 6, session.Villa.MaxGuests)
}

func TestInitiateSessionUnknownVilla(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.InitiateSession(context.Background(), "no-such-villa", "", "")
	assert.Error(t, err)
}

func TestInitiateSessionInactiveVilla(t *testing.T) {
	svc, _, _, _ := newTestService()
	villa := testVilla()
	villa.ID = "villa-2"
	villa.Active = false
	svc.Villas.(*fakeVillaRepo).villas["villa-2"] = villa

	_, err := svc.InitiateSession(context.Background(), "villa-2", "", "")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "villa_unavailable", vErr.Code)
}

func TestSetStayAdvancesToCheckout(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	// $500/night, 2025-06-01 to 2025-06-04, 2 guests.
	updated, err := svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-04", 2)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStateCheckout, updated.State)
	require.NotNil(t, updated.Stay)
	assert.Equal(t, 3, updated.Stay.Nights)
	assert.Equal(t, 1500.0, updated.Stay.TotalAmount)
	assert.Equal(t, 450.0, updated.Stay.DepositAmount)
	assert.Equal(t, 2, updated.Stay.Guests)
}

func TestSetStayRejectsReversedDates(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	_, err = svc.SetStay(ctx, session.SessionID, "2025-06-04", "2025-06-01", 2)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "invalid_range", vErr.Code)

	// The dialog stays on the dates step.
	persisted, err := store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStateDates, persisted.State)
	assert.Nil(t, persisted.Stay)
}

func TestSetStayRejectsSameDayStay(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	_, err = svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-01", 2)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "invalid_range", vErr.Code)
}

func TestSetStayRejectsMissingDates(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	_, err = svc.SetStay(ctx, session.SessionID, "", "2025-06-04", 2)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "dates_required", vErr.Code)

	_, err = svc.SetStay(ctx, session.SessionID, "2025-06-01", "", 2)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "dates_required", vErr.Code)
}

func TestSetStayClampsGuestsToCapacity(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	// maxGuests is 6; entering 10 stores 6.
	updated, err := svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-04", 10)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Stay.Guests)
}

func TestSetStayRejectsZeroGuests(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	_, err = svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-04", 0)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "guests_required", vErr.Code)
}

func TestSetStayRejectsUnavailableDates(t *testing.T) {
	svc, _, bookings, _ := newTestService()
	bookings.overlapping = 1
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	_, err = svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-04", 2)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "dates_unavailable", vErr.Code)
}

func TestSetStayRecomputesIdempotently(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	first, err := svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-04", 2)
	require.NoError(t, err)

	_, err = svc.Back(ctx, session.SessionID)
	require.NoError(t, err)

	second, err := svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-04", 2)
	require.NoError(t, err)

	assert.Equal(t, first.Stay.Nights, second.Stay.Nights)
	assert.Equal(t, first.Stay.TotalAmount, second.Stay.TotalAmount)
	assert.Equal(t, first.Stay.DepositAmount, second.Stay.DepositAmount)
}

func TestSetStayOnlyFromDatesStep(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	_, err = svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-04", 2)
	require.NoError(t, err)

	_, err = svc.SetStay(ctx, session.SessionID, "2025-06-02", "2025-06-05", 2)

	var sErr *StateError
	assert.ErrorAs(t, err, &sErr)
}

func TestBackDiscardsProviderSession(t *testing.T) {
	svc, store, _, expirer := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)
	_, err = svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-04", 2)
	require.NoError(t, err)

	// Simulate the payment surface having already pulled a provider session.
	withProvider, err := store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	withProvider.ProviderSessionID = "cs_test_123"
	require.NoError(t, store.Save(ctx, withProvider))

	back, err := svc.Back(ctx, session.SessionID)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStateDates, back.State)
	assert.Empty(t, back.ProviderSessionID)
	assert.Nil(t, back.Stay)
	assert.Equal(t, []string{"cs_test_123"}, expirer.expired)

	// The stale quote is gone from the persisted document too.
	persisted, err := store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Nil(t, persisted.Stay)
}

func TestBackOnlyFromCheckout(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	_, err = svc.Back(ctx, session.SessionID)

	var sErr *StateError
	assert.ErrorAs(t, err, &sErr)
}

func TestCancelSessionTearsDown(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)
	_, err = svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-04", 2)
	require.NoError(t, err)

	require.NoError(t, svc.CancelSession(ctx, session.SessionID))

	_, err = svc.GetSession(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Reopening yields a fresh dates step with no leaked state.
	fresh, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStateDates, fresh.State)
	assert.Nil(t, fresh.Stay)
	assert.NotEqual(t, session.SessionID, fresh.SessionID)
}

func TestConfirmationRequiresCheckout(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)

	_, err = svc.Confirmation(ctx, session.SessionID)

	var sErr *StateError
	assert.ErrorAs(t, err, &sErr)
}

func TestConfirmationPendingUntilWebhookLands(t *testing.T) {
	svc, store, bookings, _ := newTestService()
	ctx := context.Background()

	session, err := svc.InitiateSession(ctx, "villa-1", "", "")
	require.NoError(t, err)
	_, err = svc.SetStay(ctx, session.SessionID, "2025-06-01", "2025-06-04", 2)
	require.NoError(t, err)

	withProvider, err := store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	withProvider.ProviderSessionID = "cs_test_456"
	require.NoError(t, store.Save(ctx, withProvider))

	_, err = svc.Confirmation(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrConfirmationPending)

	// Webhook writes the record; the next poll succeeds and flips the state.
	bookings.byProvider["cs_test_456"] = &models.Booking{
		ID:                "bk-1",
		Reference:         "VM-2025-ABCD1234",
		VillaID:           "villa-1",
		TotalAmount:       1500,
		BookingStatus:     models.BookingStatusDepositReceived,
		ProviderSessionID: "cs_test_456",
	}

	record, err := svc.Confirmation(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "VM-2025-ABCD1234", record.Reference)

	persisted, err := store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStateSuccess, persisted.State)
}
