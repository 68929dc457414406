package service

import (
	"hallbook/internal/cache"
	"hallbook/internal/gateway"
	"hallbook/internal/mailer"
	"hallbook/internal/messaging"
	"hallbook/internal/repository"
	"hallbook/internal/search"
)

type Services struct {
	Halls         *HallService
	Bookings      *BookingService
	Payments      *PaymentService
	Notifications *NotificationService
}

func NewServices(
	repos *repository.Repositories,
	esClient *search.ElasticsearchClient,
	valkeyClient *cache.ValkeyClient,
	gw gateway.Gateway,
	mail *mailer.Mailer,
	natsClient *messaging.NATSClient,
) *Services {
	hallService := NewHallService(repos.Halls, esClient, valkeyClient)
	bookingService := NewBookingService(repos.Bookings, repos.Halls, natsClient)
	paymentService := NewPaymentService(repos.Bookings, repos.Ledger, repos.Halls, repos.Users, repos.Notifications, gw, mail, natsClient)
	notificationService := NewNotificationService(repos.Notifications)

	return &Services{
		Halls:         hallService,
		Bookings:      bookingService,
		Payments:      paymentService,
		Notifications: notificationService,
	}
}
