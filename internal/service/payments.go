package service

import (
	"context"
	"fmt"
	"math"
	"time"

	apperrors "hallbook/internal/errors"
	"hallbook/internal/gateway"
	"hallbook/internal/logger"
	"hallbook/internal/metrics"
	"hallbook/internal/models"
)

// Collaborator interfaces for the payment workflow. The concrete
// repositories, mailer and NATS client satisfy these; tests substitute
// in-memory fakes.

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	PaymentHistory(ctx context.Context, userID int64) ([]models.PaymentRecord, error)
}

type LedgerStore interface {
	InsertIfAbsent(ctx context.Context, entry *models.RevenueEntry) (bool, error)
	MarkReversed(ctx context.Context, bookingID int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]models.RevenueEntry, error)
}

type HallStore interface {
	GetByID(ctx context.Context, id int64) (*models.Hall, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

type Mailer interface {
	Configured() bool
	SendOwnerBookingEmail(owner, customer *models.User, booking *models.Booking, hall *models.Hall) error
	SendCustomerConfirmationEmail(customer *models.User, booking *models.Booking, hall *models.Hall) error
	SendRefundEmail(customer *models.User, booking *models.Booking, hall *models.Hall) error
}

type Publisher interface {
	Publish(subject string, data interface{}) error
}

// PaymentService runs the payment verification and revenue settlement
// workflow: order creation, signature verification, booking transition,
// commission split, ledger write and side-effect dispatch.
type PaymentService struct {
	bookings      BookingStore
	ledger        LedgerStore
	halls         HallStore
	users         UserStore
	notifications NotificationStore
	gateway       gateway.Gateway
	mailer        Mailer
	publisher     Publisher
	now           func() time.Time
}

func NewPaymentService(
	bookings BookingStore,
	ledger LedgerStore,
	halls HallStore,
	users UserStore,
	notifications NotificationStore,
	gw gateway.Gateway,
	mail Mailer,
	publisher Publisher,
) *PaymentService {
	return &PaymentService{
		bookings:      bookings,
		ledger:        ledger,
		halls:         halls,
		users:         users,
		notifications: notifications,
		gateway:       gw,
		mailer:        mail,
		publisher:     publisher,
		now:           time.Now,
	}
}

// splitCommission divides a booking amount 90/10 between the hall owner and
// the platform, rounding each share to whole rupees.
func splitCommission(total float64) (ownerCommission, platformFee float64) {
	abs := math.Abs(total)
	return math.Round(abs * 0.9), math.Round(abs * 0.1)
}

// InitiatePayment creates a gateway order for an unpaid booking. The booking
// is not mutated until the provider call succeeds.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID int64, req *models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error) {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, apperrors.ErrNotBookingOwner
	}
	if booking.PaymentStatus == models.PaymentPaid {
		return nil, apperrors.ErrAlreadyPaid
	}

	hall, err := s.halls.GetByID(ctx, booking.HallID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hall: %w", err)
	}
	hallName := "Hall"
	if hall != nil {
		hallName = hall.Name
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	userName := ""
	if user != nil {
		userName = user.Name
	}

	// Gateway amounts are in paisa
	amount := int64(math.Round(booking.TotalAmount * 100))

	order, err := s.gateway.CreateOrder(ctx, amount, "INR", gateway.OrderMetadata{
		BookingID: booking.ID,
		HallName:  hallName,
		UserID:    userID,
		UserName:  userName,
	})
	if err != nil {
		metrics.GatewayErrors.Inc()
		return nil, err
	}

	booking.OrderID = &order.ID
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to save order id: %w", err)
	}

	return &models.InitiatePaymentResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Booking: models.BookingSummary{
			ID:       booking.ID,
			HallName: hallName,
			Date:     booking.BookingDate,
			Time:     fmt.Sprintf("%s - %s", booking.StartTime, booking.EndTime),
		},
		PaymentMethod: req.PaymentMethod,
		Key:           s.gateway.Key(),
		Mode:          s.gateway.Mode(),
	}, nil
}

// VerifyPayment confirms a completed payment. Once the signature check
// passes, the paid state is authoritative: the booking is marked paid and
// completed regardless of its previous status, the ledger entry is settled
// at most once, and every downstream side effect is logged-and-continued.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID int64, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	log := logger.WithContext(ctx)

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, apperrors.ErrNotBookingOwner
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		metrics.PaymentsVerified.WithLabelValues("rejected").Inc()
		s.publishPaymentFailed(ctx, req, "signature mismatch")
		return nil, apperrors.ErrPaymentVerification
	}

	booking.PaymentStatus = models.PaymentPaid
	booking.Status = models.BookingCompleted
	booking.PaymentID = &req.PaymentID
	booking.OrderID = &req.OrderID

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	metrics.PaymentsVerified.WithLabelValues("success").Inc()

	hall, err := s.halls.GetByID(ctx, booking.HallID)
	if err != nil {
		log.Error("Failed to load hall for settlement", "error", err, "booking_id", booking.ID)
	}
	customer, err := s.users.GetByID(ctx, booking.UserID)
	if err != nil {
		log.Error("Failed to load customer for settlement", "error", err, "booking_id", booking.ID)
	}
	var owner *models.User
	if hall != nil {
		owner, err = s.users.GetByID(ctx, hall.OwnerID)
		if err != nil {
			log.Error("Failed to load hall owner for settlement", "error", err, "booking_id", booking.ID)
		}
	}

	// Ledger settlement. Failure here is logged, not surfaced: the payment
	// is authoritative once the signature check passed, and the
	// payment.completed consumer backfills missing entries.
	if hall != nil && customer != nil {
		if err := s.settleRevenue(ctx, booking, hall, customer, req.PaymentID); err != nil {
			log.Error("Failed to create revenue entry",
				"error", err,
				"booking_id", booking.ID)
		}
	} else {
		log.Error("Skipping revenue entry, hall or customer missing", "booking_id", booking.ID)
	}

	s.dispatchPaymentSideEffects(ctx, booking, hall, customer, owner, req)

	detail := &models.BookingDetail{Booking: *booking, Hall: hall, Customer: customer, Owner: owner}

	return &models.VerifyPaymentResponse{
		Success: true,
		Message: "Payment verified successfully",
		Booking: detail,
		Payment: models.PaymentSummary{
			ID:      req.PaymentID,
			OrderID: req.OrderID,
			Amount:  booking.TotalAmount,
			Status:  "paid",
		},
	}, nil
}

// NewRevenueEntry builds the commission-split ledger entry for a paid
// booking. The consumers service uses it too when backfilling entries the
// synchronous path failed to write.
func NewRevenueEntry(booking *models.Booking, hall *models.Hall, customer *models.User, paymentID string) *models.RevenueEntry {
	ownerCommission, platformFee := splitCommission(booking.TotalAmount)

	transactionID := paymentID
	if transactionID == "" {
		transactionID = fmt.Sprintf("TXN_%d_%d", booking.ID, time.Now().UnixMilli())
	}

	phone := ""
	if customer.Phone != nil {
		phone = *customer.Phone
	}

	return &models.RevenueEntry{
		BookingID:       booking.ID,
		HallID:          hall.ID,
		HallOwnerID:     hall.OwnerID,
		CustomerID:      customer.ID,
		HallName:        hall.Name,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   phone,
		BookingDate:     booking.BookingDate,
		StartTime:       booking.StartTime,
		EndTime:         booking.EndTime,
		DurationHours:   booking.TotalHours,
		TotalAmount:     booking.TotalAmount,
		OwnerCommission: ownerCommission,
		PlatformFee:     platformFee,
		Status:          models.RevenueCompleted,
		TransactionID:   transactionID,
		PaymentMethod:   "gateway",
		HallCity:        hall.City,
		HallState:       hall.State,
		HallAddress:     hall.Address,
		CompletedAt:     time.Now(),
	}
}

// settleRevenue writes the ledger entry for a paid booking. The insert is
// idempotent per booking.
func (s *PaymentService) settleRevenue(ctx context.Context, booking *models.Booking, hall *models.Hall, customer *models.User, paymentID string) error {
	entry := NewRevenueEntry(booking, hall, customer, paymentID)

	created, err := s.ledger.InsertIfAbsent(ctx, entry)
	if err != nil {
		return err
	}
	if created {
		metrics.LedgerEntriesCreated.Inc()
	}
	return nil
}

// dispatchPaymentSideEffects sends emails, in-app notifications and the
// payment.completed event. Every failure is isolated and logged.
func (s *PaymentService) dispatchPaymentSideEffects(ctx context.Context, booking *models.Booking, hall *models.Hall, customer, owner *models.User, req *models.VerifyPaymentRequest) {
	log := logger.WithContext(ctx)

	if s.mailer != nil && s.mailer.Configured() && hall != nil {
		if owner != nil && customer != nil {
			if err := s.mailer.SendOwnerBookingEmail(owner, customer, booking, hall); err != nil {
				metrics.NotificationFailures.WithLabelValues("owner_email").Inc()
				log.Error("Failed to send owner email", "error", err, "booking_id", booking.ID)
			}
		}
		if customer != nil {
			if err := s.mailer.SendCustomerConfirmationEmail(customer, booking, hall); err != nil {
				metrics.NotificationFailures.WithLabelValues("customer_email").Inc()
				log.Error("Failed to send customer email", "error", err, "booking_id", booking.ID)
			}
		}
	}

	hallName := "your hall"
	if hall != nil {
		hallName = hall.Name
	}

	if owner != nil {
		notification := &models.Notification{
			UserID:    owner.ID,
			Message:   fmt.Sprintf("New paid booking for %s on %s", hallName, booking.BookingDate.Format("2 Jan 2006")),
			Type:      models.NotificationPayment,
			RelatedID: &booking.ID,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			metrics.NotificationFailures.WithLabelValues("owner_notification").Inc()
			log.Error("Failed to create owner notification", "error", err, "booking_id", booking.ID)
		}
	}

	if customer != nil {
		notification := &models.Notification{
			UserID:    customer.ID,
			Message:   fmt.Sprintf("Your booking for %s is confirmed", hallName),
			Type:      models.NotificationBooking,
			RelatedID: &booking.ID,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			metrics.NotificationFailures.WithLabelValues("customer_notification").Inc()
			log.Error("Failed to create customer notification", "error", err, "booking_id", booking.ID)
		}
	}

	event := models.PaymentCompletedEvent{
		BookingID: booking.ID,
		HallID:    booking.HallID,
		UserID:    booking.UserID,
		PaymentID: req.PaymentID,
		OrderID:   req.OrderID,
		Amount:    booking.TotalAmount,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(models.EventPaymentCompleted, event); err != nil {
		metrics.NotificationFailures.WithLabelValues("nats").Inc()
		log.Error("Failed to publish payment completed event",
			"error", err,
			"booking_id", booking.ID,
			"event_type", models.EventPaymentCompleted)
	}
}

func (s *PaymentService) publishPaymentFailed(ctx context.Context, req *models.VerifyPaymentRequest, reason string) {
	event := models.PaymentFailedEvent{
		BookingID: req.BookingID,
		PaymentID: req.PaymentID,
		OrderID:   req.OrderID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(models.EventPaymentFailed, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish payment failed event",
			"error", err,
			"booking_id", req.BookingID,
			"event_type", models.EventPaymentFailed)
	}
}

// History returns the user's paid and refunded bookings, newest first
func (s *PaymentService) History(ctx context.Context, userID int64) ([]models.PaymentRecord, error) {
	records, err := s.bookings.PaymentHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment history: %w", err)
	}
	return records, nil
}

// RequestRefund refunds a paid booking. Refunds are allowed until 24 hours
// before the booked slot starts; the ledger entry is reversed, not deleted.
func (s *PaymentService) RequestRefund(ctx context.Context, userID, bookingID int64) (*models.RefundResponse, error) {
	log := logger.WithContext(ctx)

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, apperrors.ErrNotBookingOwner
	}
	if booking.PaymentStatus != models.PaymentPaid {
		return nil, apperrors.ErrNoPayment
	}

	start, err := booking.StartDateTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if start.Sub(s.now()) < 24*time.Hour {
		return nil, apperrors.ErrRefundWindow
	}

	booking.PaymentStatus = models.PaymentRefunded
	booking.Status = models.BookingCancelled

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	metrics.RefundsProcessed.Inc()

	if err := s.ledger.MarkReversed(ctx, booking.ID); err != nil {
		log.Error("Failed to reverse revenue entry",
			"error", err,
			"booking_id", booking.ID)
	} else {
		metrics.LedgerEntriesReversed.Inc()
	}

	event := models.BookingCancelledEvent{
		BookingID: booking.ID,
		HallID:    booking.HallID,
		UserID:    booking.UserID,
		Reason:    "refund requested",
		Refunded:  true,
		Amount:    booking.TotalAmount,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(models.EventBookingCancelled, event); err != nil {
		log.Error("Failed to publish booking cancelled event",
			"error", err,
			"booking_id", booking.ID,
			"event_type", models.EventBookingCancelled)
	}

	return &models.RefundResponse{
		Message:      "Refund processed successfully",
		RefundAmount: booking.TotalAmount,
		Booking:      booking.ID,
	}, nil
}

// OwnerRevenue lists a hall owner's settled entries with their running total
func (s *PaymentService) OwnerRevenue(ctx context.Context, ownerID int64) (*models.OwnerRevenueResponse, error) {
	entries, err := s.ledger.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revenue: %w", err)
	}

	var total float64
	for _, entry := range entries {
		if entry.Status == models.RevenueCompleted {
			total += entry.OwnerCommission
		}
	}

	return &models.OwnerRevenueResponse{
		Entries:       entries,
		TotalEarnings: total,
	}, nil
}
