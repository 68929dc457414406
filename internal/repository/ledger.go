package repository

import (
	"context"
	"database/sql"

	"hallbook/internal/database"
	"hallbook/internal/models"
)

type LedgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// InsertIfAbsent writes the entry unless one already exists for the booking.
// The UNIQUE(booking_id) constraint plus ON CONFLICT DO NOTHING makes this
// safe under concurrent duplicate verification calls. Returns false when the
// entry already existed.
func (r *LedgerRepository) InsertIfAbsent(ctx context.Context, entry *models.RevenueEntry) (bool, error) {
	query := `
		INSERT INTO revenue_ledger (
			booking_id, hall_id, hall_owner_id, customer_id,
			hall_name, customer_name, customer_email, customer_phone,
			booking_date, start_time, end_time, duration_hours,
			total_amount, owner_commission, platform_fee,
			status, transaction_id, payment_method,
			hall_city, hall_state, hall_address, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (booking_id) DO NOTHING
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.BookingID,
		entry.HallID,
		entry.HallOwnerID,
		entry.CustomerID,
		entry.HallName,
		entry.CustomerName,
		entry.CustomerEmail,
		entry.CustomerPhone,
		entry.BookingDate,
		entry.StartTime,
		entry.EndTime,
		entry.DurationHours,
		entry.TotalAmount,
		entry.OwnerCommission,
		entry.PlatformFee,
		entry.Status,
		entry.TransactionID,
		entry.PaymentMethod,
		entry.HallCity,
		entry.HallState,
		entry.HallAddress,
		entry.CompletedAt,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err == sql.ErrNoRows {
		// Conflict: an entry for this booking already exists.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *LedgerRepository) GetByBookingID(ctx context.Context, bookingID int64) (*models.RevenueEntry, error) {
	entry := &models.RevenueEntry{}
	query := `
		SELECT id, booking_id, hall_id, hall_owner_id, customer_id,
		       hall_name, customer_name, customer_email, customer_phone,
		       booking_date, start_time, end_time, duration_hours,
		       total_amount, owner_commission, platform_fee,
		       status, transaction_id, payment_method,
		       hall_city, hall_state, hall_address, completed_at, created_at
		FROM revenue_ledger
		WHERE booking_id = $1`

	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&entry.ID,
		&entry.BookingID,
		&entry.HallID,
		&entry.HallOwnerID,
		&entry.CustomerID,
		&entry.HallName,
		&entry.CustomerName,
		&entry.CustomerEmail,
		&entry.CustomerPhone,
		&entry.BookingDate,
		&entry.StartTime,
		&entry.EndTime,
		&entry.DurationHours,
		&entry.TotalAmount,
		&entry.OwnerCommission,
		&entry.PlatformFee,
		&entry.Status,
		&entry.TransactionID,
		&entry.PaymentMethod,
		&entry.HallCity,
		&entry.HallState,
		&entry.HallAddress,
		&entry.CompletedAt,
		&entry.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return entry, err
}

// MarkReversed voids the entry for a refunded booking. The row is kept for
// settlement reconciliation, only its status changes.
func (r *LedgerRepository) MarkReversed(ctx context.Context, bookingID int64) error {
	query := `
		UPDATE revenue_ledger
		SET status = 'reversed'
		WHERE booking_id = $1`

	_, err := r.db.ExecContext(ctx, query, bookingID)
	return err
}

func (r *LedgerRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.RevenueEntry, error) {
	query := `
		SELECT id, booking_id, hall_id, hall_owner_id, customer_id,
		       hall_name, customer_name, customer_email, customer_phone,
		       booking_date, start_time, end_time, duration_hours,
		       total_amount, owner_commission, platform_fee,
		       status, transaction_id, payment_method,
		       hall_city, hall_state, hall_address, completed_at, created_at
		FROM revenue_ledger
		WHERE hall_owner_id = $1
		ORDER BY completed_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.RevenueEntry
	for rows.Next() {
		var entry models.RevenueEntry
		err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&entry.HallID,
			&entry.HallOwnerID,
			&entry.CustomerID,
			&entry.HallName,
			&entry.CustomerName,
			&entry.CustomerEmail,
			&entry.CustomerPhone,
			&entry.BookingDate,
			&entry.StartTime,
			&entry.EndTime,
			&entry.DurationHours,
			&entry.TotalAmount,
			&entry.OwnerCommission,
			&entry.PlatformFee,
			&entry.Status,
			&entry.TransactionID,
			&entry.PaymentMethod,
			&entry.HallCity,
			&entry.HallState,
			&entry.HallAddress,
			&entry.CompletedAt,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
