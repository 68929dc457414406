package service

import (
	"context"
	"fmt"
	"time"

	apperrors "hallbook/internal/errors"
	"hallbook/internal/logger"
	"hallbook/internal/models"
)

// BookingRepo is the booking persistence surface used by this service
type BookingRepo interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	HasConflict(ctx context.Context, hallID int64, date, startTime, endTime string) (bool, error)
}

type BookingService struct {
	bookingRepo BookingRepo
	hallRepo    HallStore
	publisher   Publisher
}

func NewBookingService(bookingRepo BookingRepo, hallRepo HallStore, publisher Publisher) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		hallRepo:    hallRepo,
		publisher:   publisher,
	}
}

// Create reserves a slot on a hall. The amount is hours times the hall's
// hourly rate, fixed at creation time.
func (s *BookingService) Create(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	hall, err := s.hallRepo.GetByID(ctx, req.HallID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hall: %w", err)
	}
	if hall == nil || !hall.IsActive {
		return nil, apperrors.ErrHallNotFound
	}

	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking date %q", apperrors.ErrValidation, req.BookingDate)
	}

	hours, err := slotHours(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	conflict, err := s.bookingRepo.HasConflict(ctx, req.HallID, req.BookingDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check booking conflict: %w", err)
	}
	if conflict {
		return nil, apperrors.ErrBookingConflict
	}

	booking := &models.Booking{
		UserID:        userID,
		HallID:        req.HallID,
		BookingDate:   bookingDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		TotalHours:    hours,
		TotalAmount:   hours * hall.PricePerHour,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
	}
	if req.SpecialRequests != "" {
		booking.SpecialRequests = &req.SpecialRequests
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return &models.CreateBookingResponse{
		ID:          booking.ID,
		TotalHours:  booking.TotalHours,
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status,
	}, nil
}

func (s *BookingService) List(ctx context.Context, userID int64) ([]models.ListBookingsResponseItem, error) {
	bookings, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	result := make([]models.ListBookingsResponseItem, len(bookings))
	for i, booking := range bookings {
		result[i] = models.ListBookingsResponseItem{
			ID:            booking.ID,
			HallID:        booking.HallID,
			BookingDate:   booking.BookingDate,
			StartTime:     booking.StartTime,
			EndTime:       booking.EndTime,
			TotalAmount:   booking.TotalAmount,
			Status:        booking.Status,
			PaymentStatus: booking.PaymentStatus,
		}
	}

	return result, nil
}

func (s *BookingService) Get(ctx context.Context, userID, id int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, apperrors.ErrNotBookingOwner
	}
	return booking, nil
}

// Cancel cancels an unpaid booking. Paid bookings go through the refund
// path instead, which also reverses the ledger entry.
func (s *BookingService) Cancel(ctx context.Context, userID, id int64) (*models.Booking, error) {
	booking, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", apperrors.ErrValidation, booking.Status)
	}
	if booking.PaymentStatus == models.PaymentPaid {
		return nil, fmt.Errorf("%w: paid bookings must be refunded", apperrors.ErrValidation)
	}

	booking.Status = models.BookingCancelled
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	event := models.BookingCancelledEvent{
		BookingID: booking.ID,
		HallID:    booking.HallID,
		UserID:    booking.UserID,
		Reason:    "cancelled by customer",
		Refunded:  false,
		Amount:    booking.TotalAmount,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(models.EventBookingCancelled, event); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish booking cancelled event",
			"error", err,
			"booking_id", booking.ID,
			"event_type", models.EventBookingCancelled)
	}

	return booking, nil
}

// slotHours validates an HH:MM time range and returns its length in hours
func slotHours(startTime, endTime string) (float64, error) {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid start time %q", apperrors.ErrValidation, startTime)
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid end time %q", apperrors.ErrValidation, endTime)
	}
	if !end.After(start) {
		return 0, fmt.Errorf("%w: end time must be after start time", apperrors.ErrValidation)
	}
	return end.Sub(start).Minutes() / 60, nil
}
