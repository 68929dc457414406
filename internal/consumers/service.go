package consumers

import (
	"context"
	"log/slog"

	"hallbook/internal/config"
	"hallbook/internal/database"
	"hallbook/internal/mailer"
	"hallbook/internal/messaging"
	"hallbook/internal/repository"
)

// ConsumerService runs the async side of the payment workflow: refund and
// cancellation notifications, plus the settlement backfill safety net.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	mail := mailer.New(cfg.Mailer)
	handlers := NewHandlers(repos, mail)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue("payment.completed", "consumers", cs.handlers.HandlePaymentCompleted)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue("payment.failed", "consumers", cs.handlers.HandlePaymentFailed)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue("booking.cancelled", "consumers", cs.handlers.HandleBookingCancelled)
	if err != nil {
		return err
	}

	slog.Info("All consumers started")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumers...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
