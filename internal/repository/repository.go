package repository

import (
	"hallbook/internal/database"
)

type Repositories struct {
	Users         *UserRepository
	Halls         *HallRepository
	Bookings      *BookingRepository
	Ledger        *LedgerRepository
	Notifications *NotificationRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Halls:         NewHallRepository(db),
		Bookings:      NewBookingRepository(db),
		Ledger:        NewLedgerRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
