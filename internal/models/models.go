package models

import "time"

// CreateHallRequest - request body for listing a new hall
type CreateHallRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description,omitempty"`
	City         string  `json:"city,omitempty"`
	State        string  `json:"state,omitempty"`
	Address      string  `json:"address,omitempty"`
	PricePerHour float64 `json:"price_per_hour" binding:"required,gt=0"`
}

// CreateHallResponse - response for hall creation
type CreateHallResponse struct {
	ID int64 `json:"id"`
}

// ListHallsResponseItem - one hall in the browse listing
type ListHallsResponseItem struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	City         string  `json:"city,omitempty"`
	PricePerHour float64 `json:"price_per_hour"`
}

// ListHallsResponse - hall browse listing
type ListHallsResponse []ListHallsResponseItem

// CreateBookingRequest - request body for booking a hall slot
type CreateBookingRequest struct {
	HallID          int64  `json:"hall_id" binding:"required"`
	BookingDate     string `json:"booking_date" binding:"required"` // YYYY-MM-DD
	StartTime       string `json:"start_time" binding:"required"`   // HH:MM
	EndTime         string `json:"end_time" binding:"required"`     // HH:MM
	SpecialRequests string `json:"special_requests,omitempty"`
}

// CreateBookingResponse - response for booking creation
type CreateBookingResponse struct {
	ID          int64   `json:"id"`
	TotalHours  float64 `json:"total_hours"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
}

// ListBookingsResponseItem - one booking in the user's list
type ListBookingsResponseItem struct {
	ID            int64     `json:"id"`
	HallID        int64     `json:"hall_id"`
	BookingDate   time.Time `json:"booking_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	TotalAmount   float64   `json:"total_amount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
}

// CancelBookingRequest - request body for cancelling a booking
type CancelBookingRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// InitiatePaymentRequest - request body for starting a payment
type InitiatePaymentRequest struct {
	BookingID     int64  `json:"bookingId" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=card upi netbanking wallet"`
}

// BookingSummary - flattened booking info echoed back on payment initiation
type BookingSummary struct {
	ID       int64     `json:"id"`
	HallName string    `json:"hallName"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
}

// InitiatePaymentResponse - gateway order handed to the client
type InitiatePaymentResponse struct {
	OrderID       string         `json:"orderId"`
	Amount        int64          `json:"amount"` // minor units
	Currency      string         `json:"currency"`
	Booking       BookingSummary `json:"booking"`
	PaymentMethod string         `json:"paymentMethod"`
	Key           string         `json:"key"`
	Mode          string         `json:"mode"`
}

// VerifyPaymentRequest - request body for payment verification
type VerifyPaymentRequest struct {
	BookingID int64  `json:"bookingId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	Signature string `json:"signature,omitempty"`
}

// PaymentSummary - the payment part of a successful verification response
type PaymentSummary struct {
	ID      string  `json:"id"`
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
	Status  string  `json:"status"`
}

// BookingDetail - booking populated with its hall, customer and hall owner
type BookingDetail struct {
	Booking
	Hall     *Hall `json:"hall,omitempty"`
	Customer *User `json:"user,omitempty"`
	Owner    *User `json:"owner,omitempty"`
}

// VerifyPaymentResponse - response for payment verification
type VerifyPaymentResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Booking *BookingDetail `json:"booking"`
	Payment PaymentSummary `json:"payment"`
}

// PaymentRecord - one row in the payment history projection
type PaymentRecord struct {
	ID          string    `json:"id"`
	BookingID   int64     `json:"bookingId"`
	HallName    string    `json:"hallName"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
	BookingDate time.Time `json:"bookingDate"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
}

// RefundResponse - response for a processed refund request
type RefundResponse struct {
	Message      string  `json:"message"`
	RefundAmount float64 `json:"refundAmount"`
	Booking      int64   `json:"booking"`
}

// UnreadCountResponse - unread notification counter
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// ResolveRequestBody - request body for resolving an unblock request
type ResolveRequestBody struct {
	Action string `json:"action" binding:"required,oneof=approve deny"`
}

// HallDocument - hall projection stored in the Elasticsearch index
type HallDocument struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	Address      string    `json:"address,omitempty"`
	PricePerHour float64   `json:"price_per_hour"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnerRevenueResponse - revenue listing for a hall owner
type OwnerRevenueResponse struct {
	Entries       []RevenueEntry `json:"entries"`
	TotalEarnings float64        `json:"total_earnings"`
}
