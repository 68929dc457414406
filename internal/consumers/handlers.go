package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"hallbook/internal/mailer"
	"hallbook/internal/models"
	"hallbook/internal/repository"
	"hallbook/internal/service"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	repos  *repository.Repositories
	mailer *mailer.Mailer
}

func NewHandlers(repos *repository.Repositories, mail *mailer.Mailer) *Handlers {
	return &Handlers{
		repos:  repos,
		mailer: mail,
	}
}

// HandlePaymentCompleted backfills the revenue ledger when the synchronous
// settlement failed. The insert is idempotent, so replays are harmless.
func (h *Handlers) HandlePaymentCompleted(m *stan.Msg) {
	var event models.PaymentCompletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment completed event", "error", err)
		return
	}

	ctx := context.Background()

	existing, err := h.repos.Ledger.GetByBookingID(ctx, event.BookingID)
	if err != nil {
		slog.Error("Failed to check ledger entry", "booking_id", event.BookingID, "error", err)
		return
	}
	if existing != nil {
		m.Ack()
		return
	}

	booking, err := h.repos.Bookings.GetByID(ctx, event.BookingID)
	if err != nil || booking == nil {
		slog.Error("Failed to load booking for backfill", "booking_id", event.BookingID, "error", err)
		return
	}
	hall, err := h.repos.Halls.GetByID(ctx, booking.HallID)
	if err != nil || hall == nil {
		slog.Error("Failed to load hall for backfill", "booking_id", event.BookingID, "error", err)
		return
	}
	customer, err := h.repos.Users.GetByID(ctx, booking.UserID)
	if err != nil || customer == nil {
		slog.Error("Failed to load customer for backfill", "booking_id", event.BookingID, "error", err)
		return
	}

	entry := service.NewRevenueEntry(booking, hall, customer, event.PaymentID)
	created, err := h.repos.Ledger.InsertIfAbsent(ctx, entry)
	if err != nil {
		slog.Error("Failed to backfill revenue entry", "booking_id", event.BookingID, "error", err)
		return
	}
	if created {
		slog.Warn("Backfilled missing revenue entry",
			"booking_id", event.BookingID,
			"transaction_id", entry.TransactionID)
	}

	m.Ack()
}

func (h *Handlers) HandlePaymentFailed(m *stan.Msg) {
	var event models.PaymentFailedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment failed event", "error", err)
		return
	}

	slog.Warn("Payment verification rejected",
		"booking_id", event.BookingID,
		"payment_id", event.PaymentID,
		"order_id", event.OrderID,
		"reason", event.Reason)

	m.Ack()
}

// HandleBookingCancelled sends the cancellation/refund notifications off the
// request path.
func (h *Handlers) HandleBookingCancelled(m *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking cancelled event", "error", err)
		return
	}

	ctx := context.Background()

	booking, err := h.repos.Bookings.GetByID(ctx, event.BookingID)
	if err != nil || booking == nil {
		slog.Error("Failed to load cancelled booking", "booking_id", event.BookingID, "error", err)
		return
	}
	hall, err := h.repos.Halls.GetByID(ctx, booking.HallID)
	if err != nil {
		slog.Error("Failed to load hall", "booking_id", event.BookingID, "error", err)
	}
	customer, err := h.repos.Users.GetByID(ctx, booking.UserID)
	if err != nil {
		slog.Error("Failed to load customer", "booking_id", event.BookingID, "error", err)
	}

	hallName := "your hall"
	if hall != nil {
		hallName = hall.Name
	}

	message := fmt.Sprintf("Your booking for %s was cancelled", hallName)
	if event.Refunded {
		message = fmt.Sprintf("Your booking for %s was cancelled and Rs. %.2f will be refunded", hallName, event.Amount)
	}

	notification := &models.Notification{
		UserID:    booking.UserID,
		Message:   message,
		Type:      models.NotificationBooking,
		RelatedID: &booking.ID,
	}
	if err := h.repos.Notifications.Create(ctx, notification); err != nil {
		slog.Error("Failed to create cancellation notification", "booking_id", booking.ID, "error", err)
	}

	if hall != nil {
		ownerNotification := &models.Notification{
			UserID:    hall.OwnerID,
			Message:   fmt.Sprintf("A booking for %s on %s was cancelled", hallName, booking.BookingDate.Format("2 Jan 2006")),
			Type:      models.NotificationBooking,
			RelatedID: &booking.ID,
		}
		if err := h.repos.Notifications.Create(ctx, ownerNotification); err != nil {
			slog.Error("Failed to create owner notification", "booking_id", booking.ID, "error", err)
		}
	}

	if event.Refunded && h.mailer.Configured() && customer != nil && hall != nil {
		if err := h.mailer.SendRefundEmail(customer, booking, hall); err != nil {
			slog.Error("Failed to send refund email", "booking_id", booking.ID, "error", err)
		}
	}

	m.Ack()
}
