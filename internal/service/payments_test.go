package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "hallbook/internal/errors"
	"hallbook/internal/gateway"
	"hallbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes for the workflow collaborators.

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[int64]*models.Booking
	halls    map[int64]*models.Hall
	updates  int
	failNext error
}

func newFakeBookingStore(bookings ...*models.Booking) *fakeBookingStore {
	s := &fakeBookingStore{bookings: make(map[int64]*models.Booking)}
	for _, b := range bookings {
		copied := *b
		s.bookings[b.ID] = &copied
	}
	return s
}

func (s *fakeBookingStore) GetByID(_ context.Context, id int64) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (s *fakeBookingStore) Update(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	copied := *booking
	s.bookings[booking.ID] = &copied
	s.updates++
	return nil
}

// PaymentHistory mirrors the repository projection, including the inner join
// that drops bookings whose hall no longer exists.
func (s *fakeBookingStore) PaymentHistory(_ context.Context, userID int64) ([]models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []models.PaymentRecord
	for _, b := range s.bookings {
		if b.UserID != userID {
			continue
		}
		if b.PaymentStatus != models.PaymentPaid && b.PaymentStatus != models.PaymentRefunded {
			continue
		}
		hall, ok := s.halls[b.HallID]
		if !ok {
			continue
		}
		records = append(records, models.PaymentRecord{
			ID:          fmt.Sprintf("payment_%d", b.ID),
			BookingID:   b.ID,
			HallName:    hall.Name,
			Amount:      b.TotalAmount,
			Status:      b.PaymentStatus,
			BookingDate: b.BookingDate,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
		})
	}
	return records, nil
}

type fakeLedgerStore struct {
	mu      sync.Mutex
	entries map[int64]*models.RevenueEntry
	inserts int
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{entries: make(map[int64]*models.RevenueEntry)}
}

func (s *fakeLedgerStore) InsertIfAbsent(_ context.Context, entry *models.RevenueEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.BookingID]; exists {
		return false, nil
	}
	copied := *entry
	s.entries[entry.BookingID] = &copied
	s.inserts++
	return true, nil
}

func (s *fakeLedgerStore) MarkReversed(_ context.Context, bookingID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[bookingID]; ok {
		entry.Status = models.RevenueReversed
	}
	return nil
}

func (s *fakeLedgerStore) ListByOwner(_ context.Context, ownerID int64) ([]models.RevenueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RevenueEntry
	for _, entry := range s.entries {
		if entry.HallOwnerID == ownerID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

type fakeHallStore struct {
	halls map[int64]*models.Hall
}

func (s *fakeHallStore) GetByID(_ context.Context, id int64) (*models.Hall, error) {
	return s.halls[id], nil
}

type fakeUserStore struct {
	users map[int64]*models.User
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	return s.users[id], nil
}

type fakeNotificationStore struct {
	mu      sync.Mutex
	created []*models.Notification
	fail    bool
}

func (s *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("notification store down")
	}
	s.created = append(s.created, n)
	return nil
}

type fakeMailer struct {
	mu         sync.Mutex
	ownerSent  int
	custSent   int
	refundSent int
	fail       bool
}

func (m *fakeMailer) Configured() bool { return true }

func (m *fakeMailer) SendOwnerBookingEmail(_, _ *models.User, _ *models.Booking, _ *models.Hall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.ownerSent++
	return nil
}

func (m *fakeMailer) SendCustomerConfirmationEmail(_ *models.User, _ *models.Booking, _ *models.Hall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.custSent++
	return nil
}

func (m *fakeMailer) SendRefundEmail(_ *models.User, _ *models.Booking, _ *models.Hall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.refundSent++
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	fail     bool
}

func (p *fakePublisher) Publish(subject string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("nats down")
	}
	p.subjects = append(p.subjects, subject)
	return nil
}

type fakeGateway struct {
	verifyResult bool
	orderErr     error
	mode         string
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency string, _ gateway.OrderMetadata) (*gateway.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	return &gateway.Order{ID: "order_test_1", Amount: amount, Currency: currency, Status: "created"}, nil
}

func (g *fakeGateway) VerifySignature(_, _, _ string) bool { return g.verifyResult }

func (g *fakeGateway) Mode() string {
	if g.mode == "" {
		return gateway.ModeSimulated
	}
	return g.mode
}

func (g *fakeGateway) Key() string { return "key_test" }

// Test fixture helpers.

type paymentFixture struct {
	svc           *PaymentService
	bookings      *fakeBookingStore
	ledger        *fakeLedgerStore
	notifications *fakeNotificationStore
	mailer        *fakeMailer
	publisher     *fakePublisher
	gateway       *fakeGateway
}

func newPaymentFixture(bookings ...*models.Booking) *paymentFixture {
	city := "pune"
	hall := &models.Hall{ID: 10, OwnerID: 2, Name: "Grand Palace", City: &city, PricePerHour: 1000, IsActive: true}
	customer := &models.User{ID: 1, Name: "Asha Rao", Email: "asha@example.com", Role: "customer", IsActive: true}
	owner := &models.User{ID: 2, Name: "Vikram Shah", Email: "vikram@example.com", Role: "hall_owner", IsActive: true}

	halls := map[int64]*models.Hall{10: hall}

	f := &paymentFixture{
		bookings:      newFakeBookingStore(bookings...),
		ledger:        newFakeLedgerStore(),
		notifications: &fakeNotificationStore{},
		mailer:        &fakeMailer{},
		publisher:     &fakePublisher{},
		gateway:       &fakeGateway{verifyResult: true},
	}
	f.bookings.halls = halls
	f.svc = NewPaymentService(
		f.bookings,
		f.ledger,
		&fakeHallStore{halls: halls},
		&fakeUserStore{users: map[int64]*models.User{1: customer, 2: owner}},
		f.notifications,
		f.gateway,
		f.mailer,
		f.publisher,
	)
	return f
}

func testBooking(id int64) *models.Booking {
	return &models.Booking{
		ID:            id,
		UserID:        1,
		HallID:        10,
		BookingDate:   time.Now().Add(72 * time.Hour).Truncate(24 * time.Hour),
		StartTime:     "10:00",
		EndTime:       "15:00",
		TotalHours:    5,
		TotalAmount:   5000,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
	}
}

func verifyRequest(bookingID int64) *models.VerifyPaymentRequest {
	return &models.VerifyPaymentRequest{
		BookingID: bookingID,
		PaymentID: "pay_abc123",
		OrderID:   "order_test_1",
		Signature: "sig",
	}
}

func TestSplitCommission(t *testing.T) {
	owner, fee := splitCommission(5000)
	assert.Equal(t, float64(4500), owner)
	assert.Equal(t, float64(500), fee)

	// Negative amounts settle on their absolute value
	owner, fee = splitCommission(-5000)
	assert.Equal(t, float64(4500), owner)
	assert.Equal(t, float64(500), fee)

	owner, fee = splitCommission(1234.56)
	assert.Equal(t, float64(1111), owner)
	assert.Equal(t, float64(123), fee)
}

func TestInitiatePayment(t *testing.T) {
	f := newPaymentFixture(testBooking(100))

	resp, err := f.svc.InitiatePayment(context.Background(), 1, &models.InitiatePaymentRequest{
		BookingID:     100,
		PaymentMethod: "upi",
	})
	require.NoError(t, err)

	assert.Equal(t, "order_test_1", resp.OrderID)
	assert.Equal(t, int64(500000), resp.Amount) // 5000 rupees in paisa
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "Grand Palace", resp.Booking.HallName)
	assert.Equal(t, "upi", resp.PaymentMethod)

	booking, _ := f.bookings.GetByID(context.Background(), 100)
	require.NotNil(t, booking.OrderID)
	assert.Equal(t, "order_test_1", *booking.OrderID)
}

func TestInitiatePaymentAlreadyPaid(t *testing.T) {
	b := testBooking(100)
	b.PaymentStatus = models.PaymentPaid
	f := newPaymentFixture(b)

	_, err := f.svc.InitiatePayment(context.Background(), 1, &models.InitiatePaymentRequest{
		BookingID:     100,
		PaymentMethod: "card",
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPaid)
}

func TestInitiatePaymentWrongUser(t *testing.T) {
	f := newPaymentFixture(testBooking(100))

	_, err := f.svc.InitiatePayment(context.Background(), 99, &models.InitiatePaymentRequest{
		BookingID:     100,
		PaymentMethod: "card",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotBookingOwner)
}

func TestInitiatePaymentGatewayFailureLeavesBookingUntouched(t *testing.T) {
	f := newPaymentFixture(testBooking(100))
	f.gateway.orderErr = fmt.Errorf("create order: %w", apperrors.ErrGateway)

	_, err := f.svc.InitiatePayment(context.Background(), 1, &models.InitiatePaymentRequest{
		BookingID:     100,
		PaymentMethod: "card",
	})
	assert.ErrorIs(t, err, apperrors.ErrGateway)

	booking, _ := f.bookings.GetByID(context.Background(), 100)
	assert.Nil(t, booking.OrderID)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
}

func TestVerifyPayment(t *testing.T) {
	f := newPaymentFixture(testBooking(100))

	resp, err := f.svc.VerifyPayment(context.Background(), 1, verifyRequest(100))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "paid", resp.Payment.Status)
	assert.Equal(t, "pay_abc123", resp.Payment.ID)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, models.BookingCompleted, resp.Booking.Status)

	booking, _ := f.bookings.GetByID(context.Background(), 100)
	assert.Equal(t, models.PaymentPaid, booking.PaymentStatus)
	assert.Equal(t, models.BookingCompleted, booking.Status)
	require.NotNil(t, booking.PaymentID)
	assert.Equal(t, "pay_abc123", *booking.PaymentID)

	entry := f.ledger.entries[100]
	require.NotNil(t, entry)
	assert.Equal(t, float64(4500), entry.OwnerCommission)
	assert.Equal(t, float64(500), entry.PlatformFee)
	assert.Equal(t, "pay_abc123", entry.TransactionID)
	assert.Equal(t, models.RevenueCompleted, entry.Status)

	assert.Equal(t, 1, f.mailer.ownerSent)
	assert.Equal(t, 1, f.mailer.custSent)
	assert.Len(t, f.notifications.created, 2)
	assert.Contains(t, f.publisher.subjects, models.EventPaymentCompleted)
}

func TestVerifyPaymentSignatureRejected(t *testing.T) {
	f := newPaymentFixture(testBooking(100))
	f.gateway.verifyResult = false

	_, err := f.svc.VerifyPayment(context.Background(), 1, verifyRequest(100))
	assert.ErrorIs(t, err, apperrors.ErrPaymentVerification)

	booking, _ := f.bookings.GetByID(context.Background(), 100)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Empty(t, f.ledger.entries)
	assert.Contains(t, f.publisher.subjects, models.EventPaymentFailed)
}

func TestVerifyPaymentCompletesCancelledBooking(t *testing.T) {
	b := testBooking(100)
	b.Status = models.BookingCancelled
	f := newPaymentFixture(b)

	resp, err := f.svc.VerifyPayment(context.Background(), 1, verifyRequest(100))
	require.NoError(t, err)
	assert.True(t, resp.Success)

	// A verified payment is authoritative even over a cancelled booking
	booking, _ := f.bookings.GetByID(context.Background(), 100)
	assert.Equal(t, models.BookingCompleted, booking.Status)
	assert.Equal(t, models.PaymentPaid, booking.PaymentStatus)
}

func TestVerifyPaymentDoubleCallSingleLedgerEntry(t *testing.T) {
	f := newPaymentFixture(testBooking(100))

	_, err := f.svc.VerifyPayment(context.Background(), 1, verifyRequest(100))
	require.NoError(t, err)
	_, err = f.svc.VerifyPayment(context.Background(), 1, verifyRequest(100))
	require.NoError(t, err)

	assert.Equal(t, 1, f.ledger.inserts)
}

func TestVerifyPaymentConcurrentCallsSingleLedgerEntry(t *testing.T) {
	f := newPaymentFixture(testBooking(100))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.VerifyPayment(context.Background(), 1, verifyRequest(100))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.ledger.inserts)
}

func TestVerifyPaymentNotificationFailureDoesNotFailVerification(t *testing.T) {
	f := newPaymentFixture(testBooking(100))
	f.mailer.fail = true
	f.notifications.fail = true
	f.publisher.fail = true

	resp, err := f.svc.VerifyPayment(context.Background(), 1, verifyRequest(100))
	require.NoError(t, err)
	assert.True(t, resp.Success)

	booking, _ := f.bookings.GetByID(context.Background(), 100)
	assert.Equal(t, models.PaymentPaid, booking.PaymentStatus)
	require.NotNil(t, f.ledger.entries[100])
}

func TestVerifyPaymentEmptyPaymentIDGetsFallbackTransactionID(t *testing.T) {
	f := newPaymentFixture(testBooking(100))

	req := verifyRequest(100)
	req.PaymentID = ""
	_, err := f.svc.VerifyPayment(context.Background(), 1, req)
	require.NoError(t, err)

	entry := f.ledger.entries[100]
	require.NotNil(t, entry)
	assert.Contains(t, entry.TransactionID, "TXN_100_")
}

func TestVerifyPaymentBookingNotFound(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.VerifyPayment(context.Background(), 1, verifyRequest(404))
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
}

func TestRequestRefund(t *testing.T) {
	b := testBooking(100)
	b.PaymentStatus = models.PaymentPaid
	b.Status = models.BookingCompleted
	f := newPaymentFixture(b)

	// Seed a settled ledger entry
	_, err := f.svc.VerifyPayment(context.Background(), 1, verifyRequest(100))
	require.NoError(t, err)

	resp, err := f.svc.RequestRefund(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.Equal(t, float64(5000), resp.RefundAmount)

	booking, _ := f.bookings.GetByID(context.Background(), 100)
	assert.Equal(t, models.PaymentRefunded, booking.PaymentStatus)
	assert.Equal(t, models.BookingCancelled, booking.Status)

	entry := f.ledger.entries[100]
	require.NotNil(t, entry)
	assert.Equal(t, models.RevenueReversed, entry.Status)

	assert.Contains(t, f.publisher.subjects, models.EventBookingCancelled)
}

func TestRequestRefundWindow(t *testing.T) {
	makeBooking := func(start time.Time) *models.Booking {
		b := testBooking(100)
		b.PaymentStatus = models.PaymentPaid
		b.Status = models.BookingCompleted
		b.BookingDate = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		b.StartTime = start.Format("15:04")
		return b
	}

	// Slot starting in under 24 hours: too late to refund
	soon := time.Now().Add(23 * time.Hour)
	f := newPaymentFixture(makeBooking(soon))
	_, err := f.svc.RequestRefund(context.Background(), 1, 100)
	assert.ErrorIs(t, err, apperrors.ErrRefundWindow)

	booking, _ := f.bookings.GetByID(context.Background(), 100)
	assert.Equal(t, models.PaymentPaid, booking.PaymentStatus)

	// Slot starting in several days: refund goes through
	later := time.Now().Add(96 * time.Hour)
	f = newPaymentFixture(makeBooking(later))
	_, err = f.svc.RequestRefund(context.Background(), 1, 100)
	assert.NoError(t, err)
}

func TestRequestRefundWindowBoundary(t *testing.T) {
	makeBooking := func(start time.Time) *models.Booking {
		b := testBooking(100)
		b.PaymentStatus = models.PaymentPaid
		b.Status = models.BookingCompleted
		b.BookingDate = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		b.StartTime = start.Format("15:04")
		return b
	}

	base := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.Local)
	start := base.Add(24 * time.Hour)

	// Exactly 24 hours before the slot is still within the window
	f := newPaymentFixture(makeBooking(start))
	f.svc.now = func() time.Time { return base }
	_, err := f.svc.RequestRefund(context.Background(), 1, 100)
	assert.NoError(t, err)

	// One minute later is too late
	f = newPaymentFixture(makeBooking(start))
	f.svc.now = func() time.Time { return base.Add(time.Minute) }
	_, err = f.svc.RequestRefund(context.Background(), 1, 100)
	assert.ErrorIs(t, err, apperrors.ErrRefundWindow)
}

func TestRequestRefundNoPayment(t *testing.T) {
	f := newPaymentFixture(testBooking(100))

	_, err := f.svc.RequestRefund(context.Background(), 1, 100)
	assert.ErrorIs(t, err, apperrors.ErrNoPayment)
}

func TestRequestRefundWrongUser(t *testing.T) {
	b := testBooking(100)
	b.PaymentStatus = models.PaymentPaid
	f := newPaymentFixture(b)

	_, err := f.svc.RequestRefund(context.Background(), 99, 100)
	assert.ErrorIs(t, err, apperrors.ErrNotBookingOwner)
}

func TestOwnerRevenueExcludesReversedEntries(t *testing.T) {
	b1 := testBooking(100)
	b2 := testBooking(101)
	f := newPaymentFixture(b1, b2)

	_, err := f.svc.VerifyPayment(context.Background(), 1, verifyRequest(100))
	require.NoError(t, err)
	req2 := verifyRequest(101)
	req2.OrderID = "order_test_2"
	_, err = f.svc.VerifyPayment(context.Background(), 1, req2)
	require.NoError(t, err)

	_, err = f.svc.RequestRefund(context.Background(), 1, 101)
	require.NoError(t, err)

	resp, err := f.svc.OwnerRevenue(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, float64(4500), resp.TotalEarnings)
}

func TestPaymentHistoryExcludesDanglingHallBookings(t *testing.T) {
	paid := testBooking(100)
	paid.PaymentStatus = models.PaymentPaid
	paid.Status = models.BookingCompleted

	// Paid booking whose hall no longer exists
	orphan := testBooking(101)
	orphan.HallID = 99
	orphan.PaymentStatus = models.PaymentPaid
	orphan.Status = models.BookingCompleted

	unpaid := testBooking(102)

	f := newPaymentFixture(paid, orphan, unpaid)

	records, err := f.svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(100), records[0].BookingID)
	assert.Equal(t, "Grand Palace", records[0].HallName)
	assert.Equal(t, models.PaymentPaid, records[0].Status)
}
