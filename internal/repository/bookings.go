package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hallbook/internal/database"
	"hallbook/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, hall_id, booking_date, start_time, end_time,
	       total_hours, total_amount, status, payment_status,
	       special_requests, payment_id, order_id, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *models.Booking) error {
	return row.Scan(
		&b.ID,
		&b.UserID,
		&b.HallID,
		&b.BookingDate,
		&b.StartTime,
		&b.EndTime,
		&b.TotalHours,
		&b.TotalAmount,
		&b.Status,
		&b.PaymentStatus,
		&b.SpecialRequests,
		&b.PaymentID,
		&b.OrderID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (user_id, hall_id, booking_date, start_time, end_time,
		                      total_hours, total_amount, status, payment_status, special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		booking.UserID,
		booking.HallID,
		booking.BookingDate,
		booking.StartTime,
		booking.EndTime,
		booking.TotalHours,
		booking.TotalAmount,
		booking.Status,
		booking.PaymentStatus,
		booking.SpecialRequests,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	err := scanBooking(r.db.QueryRowContext(ctx, query, id), booking)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`, bookingColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2, payment_id = $3, order_id = $4,
		    updated_at = NOW()
		WHERE id = $5`

	_, err := r.db.ExecContext(ctx, query,
		booking.Status,
		booking.PaymentStatus,
		booking.PaymentID,
		booking.OrderID,
		booking.ID,
	)

	return err
}

// HasConflict reports whether the hall already has a live booking overlapping
// the requested slot on the same date.
func (r *BookingRepository) HasConflict(ctx context.Context, hallID int64, date, startTime, endTime string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE hall_id = $1
			  AND booking_date = $2
			  AND status IN ('pending', 'confirmed', 'completed')
			  AND start_time < $4
			  AND end_time > $3
		)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, hallID, date, startTime, endTime).Scan(&exists)
	return exists, err
}

// PaymentHistory returns the user's paid/refunded bookings joined with their
// halls, most recently updated first. The inner join silently drops bookings
// whose hall has been removed.
func (r *BookingRepository) PaymentHistory(ctx context.Context, userID int64) ([]models.PaymentRecord, error) {
	query := `
		SELECT b.id, h.name, b.total_amount, b.payment_status, b.updated_at,
		       b.booking_date, b.start_time, b.end_time
		FROM bookings b
		JOIN halls h ON h.id = b.hall_id
		WHERE b.user_id = $1
		  AND b.payment_status IN ('paid', 'refunded')
		ORDER BY b.updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.PaymentRecord
	for rows.Next() {
		var rec models.PaymentRecord
		err := rows.Scan(
			&rec.BookingID,
			&rec.HallName,
			&rec.Amount,
			&rec.Status,
			&rec.Date,
			&rec.BookingDate,
			&rec.StartTime,
			&rec.EndTime,
		)
		if err != nil {
			return nil, err
		}
		rec.ID = fmt.Sprintf("payment_%d", rec.BookingID)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetPaidNotCompleted returns legacy bookings that were paid but never moved
// to completed. Used by the reconcile tool.
func (r *BookingRepository) GetPaidNotCompleted(ctx context.Context) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE payment_status = 'paid'
		  AND status <> 'completed'
		ORDER BY created_at ASC`, bookingColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// GetPaid returns every paid booking. Used by the reconcile tool to audit
// ledger coverage.
func (r *BookingRepository) GetPaid(ctx context.Context) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE payment_status = 'paid'
		ORDER BY created_at ASC`, bookingColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
