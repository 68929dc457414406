package models

import (
	"fmt"
	"time"
)

// Account roles
const (
	RoleCustomer  = "customer"
	RoleHallOwner = "hall_owner"
	RoleAdmin     = "admin"
)

// Booking lifecycle statuses
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Payment statuses
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Notification types
const (
	NotificationBooking        = "booking"
	NotificationSystem         = "system"
	NotificationPayment        = "payment"
	NotificationUnblockRequest = "unblock_request"
)

// Unblock request states
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestDenied   = "denied"
)

// Revenue ledger entry states
const (
	RevenueCompleted = "completed"
	RevenueReversed  = "reversed"
)

// User represents a platform account. Customers book halls, hall owners
// list them and receive the commission split.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        *string   `json:"phone" db:"phone"`
	Role         string    `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Hall represents a bookable venue
type Hall struct {
	ID           int64     `json:"id" db:"id"`
	OwnerID      int64     `json:"owner_id" db:"owner_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description" db:"description"`
	City         *string   `json:"city" db:"city"`
	State        *string   `json:"state" db:"state"`
	Address      *string   `json:"address" db:"address"`
	PricePerHour float64   `json:"price_per_hour" db:"price_per_hour"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Booking represents a reserved time slot on a hall. Bookings are never
// hard-deleted; cancellation and refunds only change status fields.
type Booking struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"user_id" db:"user_id"`
	HallID          int64     `json:"hall_id" db:"hall_id"`
	BookingDate     time.Time `json:"booking_date" db:"booking_date"`
	StartTime       string    `json:"start_time" db:"start_time"`
	EndTime         string    `json:"end_time" db:"end_time"`
	TotalHours      float64   `json:"total_hours" db:"total_hours"`
	TotalAmount     float64   `json:"total_amount" db:"total_amount"`
	Status          string    `json:"status" db:"status"`
	PaymentStatus   string    `json:"payment_status" db:"payment_status"`
	SpecialRequests *string   `json:"special_requests,omitempty" db:"special_requests"`
	PaymentID       *string   `json:"payment_id,omitempty" db:"payment_id"`
	OrderID         *string   `json:"order_id,omitempty" db:"order_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// StartDateTime combines the booking date with the start time ("15:04").
func (b *Booking) StartDateTime() (time.Time, error) {
	t, err := time.Parse("15:04", b.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q: %w", b.StartTime, err)
	}
	d := b.BookingDate
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, d.Location()), nil
}

// RevenueEntry is the settled commission-split record for one paid booking.
// At most one entry exists per booking; the hall/customer fields are a
// snapshot taken at settlement time, not a source of truth.
type RevenueEntry struct {
	ID              int64     `json:"id" db:"id"`
	BookingID       int64     `json:"booking_id" db:"booking_id"`
	HallID          int64     `json:"hall_id" db:"hall_id"`
	HallOwnerID     int64     `json:"hall_owner_id" db:"hall_owner_id"`
	CustomerID      int64     `json:"customer_id" db:"customer_id"`
	HallName        string    `json:"hall_name" db:"hall_name"`
	CustomerName    string    `json:"customer_name" db:"customer_name"`
	CustomerEmail   string    `json:"customer_email" db:"customer_email"`
	CustomerPhone   string    `json:"customer_phone" db:"customer_phone"`
	BookingDate     time.Time `json:"booking_date" db:"booking_date"`
	StartTime       string    `json:"start_time" db:"start_time"`
	EndTime         string    `json:"end_time" db:"end_time"`
	DurationHours   float64   `json:"duration_hours" db:"duration_hours"`
	TotalAmount     float64   `json:"total_amount" db:"total_amount"`
	OwnerCommission float64   `json:"owner_commission" db:"owner_commission"`
	PlatformFee     float64   `json:"platform_fee" db:"platform_fee"`
	Status          string    `json:"status" db:"status"`
	TransactionID   string    `json:"transaction_id" db:"transaction_id"`
	PaymentMethod   string    `json:"payment_method" db:"payment_method"`
	HallCity        *string   `json:"hall_city,omitempty" db:"hall_city"`
	HallState       *string   `json:"hall_state,omitempty" db:"hall_state"`
	HallAddress     *string   `json:"hall_address,omitempty" db:"hall_address"`
	CompletedAt     time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// UnblockRequest is the embedded sub-state carried by unblock_request
// notifications. It moves pending -> approved|denied exactly once.
type UnblockRequest struct {
	UserEmail   string    `json:"user_email"`
	UserName    string    `json:"user_name"`
	UserRole    string    `json:"user_role"`
	RequestedAt time.Time `json:"requested_at"`
	Status      string    `json:"status"`
}

// Notification is an in-app message for one user
type Notification struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"user_id" db:"user_id"`
	Message   string          `json:"message" db:"message"`
	Type      string          `json:"type" db:"type"`
	IsRead    bool            `json:"is_read" db:"is_read"`
	RelatedID *int64          `json:"related_id,omitempty" db:"related_id"`
	Request   *UnblockRequest `json:"request_data,omitempty"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
