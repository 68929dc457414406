package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createHallsTable,
		createBookingsTable,
		createRevenueLedgerTable,
		createNotificationsTable,
		createBookingIndexes,
		createNotificationIndexes,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    phone VARCHAR(20),
    role VARCHAR(20) NOT NULL DEFAULT 'customer',
    password_hash VARCHAR(64) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('customer', 'hall_owner', 'admin'))
);`

const createHallsTable = `
CREATE TABLE IF NOT EXISTS halls (
    id SERIAL PRIMARY KEY,
    owner_id INTEGER NOT NULL REFERENCES users(id),
    name VARCHAR(200) NOT NULL,
    description TEXT,
    city VARCHAR(100),
    state VARCHAR(100),
    address TEXT,
    price_per_hour DECIMAL(10,2) NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    hall_id INTEGER NOT NULL REFERENCES halls(id),
    booking_date DATE NOT NULL,
    start_time VARCHAR(5) NOT NULL,
    end_time VARCHAR(5) NOT NULL,
    total_hours DECIMAL(5,2) NOT NULL DEFAULT 0,
    total_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    special_requests TEXT,
    payment_id VARCHAR(255),
    order_id VARCHAR(255),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed')),
    CHECK (payment_status IN ('pending', 'paid', 'refunded'))
);`

// UNIQUE(booking_id) backs the at-most-once ledger guarantee: creation is an
// insert-or-ignore, never a look-up-then-insert.
const createRevenueLedgerTable = `
CREATE TABLE IF NOT EXISTS revenue_ledger (
    id SERIAL PRIMARY KEY,
    booking_id INTEGER NOT NULL UNIQUE REFERENCES bookings(id),
    hall_id INTEGER NOT NULL REFERENCES halls(id),
    hall_owner_id INTEGER NOT NULL REFERENCES users(id),
    customer_id INTEGER NOT NULL REFERENCES users(id),
    hall_name VARCHAR(200) NOT NULL,
    customer_name VARCHAR(100) NOT NULL,
    customer_email VARCHAR(255) NOT NULL,
    customer_phone VARCHAR(20) NOT NULL DEFAULT 'N/A',
    booking_date DATE NOT NULL,
    start_time VARCHAR(5) NOT NULL,
    end_time VARCHAR(5) NOT NULL,
    duration_hours DECIMAL(5,2) NOT NULL DEFAULT 0,
    total_amount DECIMAL(12,2) NOT NULL,
    owner_commission DECIMAL(12,2) NOT NULL,
    platform_fee DECIMAL(12,2) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'completed',
    transaction_id VARCHAR(255) NOT NULL,
    payment_method VARCHAR(20) NOT NULL DEFAULT 'online',
    hall_city VARCHAR(100),
    hall_state VARCHAR(100),
    hall_address TEXT,
    completed_at TIMESTAMP NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('completed', 'reversed'))
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    message TEXT NOT NULL,
    type VARCHAR(20) NOT NULL DEFAULT 'system',
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    related_id INTEGER,
    request_user_email VARCHAR(255),
    request_user_name VARCHAR(100),
    request_user_role VARCHAR(20),
    requested_at TIMESTAMP,
    request_status VARCHAR(20),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (type IN ('booking', 'system', 'payment', 'unblock_request')),
    CHECK (request_status IS NULL OR request_status IN ('pending', 'approved', 'denied'))
);`

const createBookingIndexes = `
CREATE INDEX IF NOT EXISTS bookings_user_created_idx ON bookings (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS bookings_hall_date_idx ON bookings (hall_id, booking_date);
CREATE INDEX IF NOT EXISTS bookings_payment_status_idx ON bookings (payment_status);
CREATE INDEX IF NOT EXISTS revenue_ledger_owner_idx ON revenue_ledger (hall_owner_id, completed_at DESC);`

const createNotificationIndexes = `
CREATE INDEX IF NOT EXISTS notifications_user_created_idx ON notifications (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS notifications_user_unread_idx ON notifications (user_id, is_read);
CREATE INDEX IF NOT EXISTS notifications_type_idx ON notifications (type);`
