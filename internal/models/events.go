package models

import "time"

// NATS event subjects
const (
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
	EventBookingCancelled = "booking.cancelled"
)

// PaymentCompletedEvent is published after a verified payment has been
// committed. Consumers use it as a settlement safety net.
type PaymentCompletedEvent struct {
	BookingID int64     `json:"booking_id"`
	HallID    int64     `json:"hall_id"`
	UserID    int64     `json:"user_id"`
	PaymentID string    `json:"payment_id"`
	OrderID   string    `json:"order_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentFailedEvent is published when gateway verification rejects a payment
type PaymentFailedEvent struct {
	BookingID int64     `json:"booking_id"`
	PaymentID string    `json:"payment_id"`
	OrderID   string    `json:"order_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCancelledEvent is published on cancellation or refund. The consumers
// service picks it up to send the cancellation/refund notifications off the
// request path.
type BookingCancelledEvent struct {
	BookingID int64     `json:"booking_id"`
	HallID    int64     `json:"hall_id"`
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	Refunded  bool      `json:"refunded"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}
