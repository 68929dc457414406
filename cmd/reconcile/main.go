package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	"hallbook/internal/config"
	"hallbook/internal/database"
	"hallbook/internal/logger"
	"hallbook/internal/models"
	"hallbook/internal/repository"
	"hallbook/internal/service"

	"github.com/joho/godotenv"
)

// reconcile repairs drift between bookings and the revenue ledger: paid
// bookings stuck outside the completed status, and paid bookings whose ledger
// entry was never written.
func main() {
	var dryRun bool
	flag.BoolVar(&dryRun, "dry-run", false, "report changes without applying them")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")

	slog.Info("Starting reconciliation", "dry_run", dryRun)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repos := repository.NewRepositories(db)

	if err := reconcile(context.Background(), repos, dryRun); err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	slog.Info("Reconciliation completed")
}

func reconcile(ctx context.Context, repos *repository.Repositories, dryRun bool) error {
	start := time.Now()

	fixed, err := fixPaidBookingStatuses(ctx, repos, dryRun)
	if err != nil {
		return err
	}

	backfilled, skipped, err := backfillLedgerEntries(ctx, repos, dryRun)
	if err != nil {
		return err
	}

	slog.Info("Reconciliation summary",
		"statuses_fixed", fixed,
		"ledger_backfilled", backfilled,
		"ledger_skipped", skipped,
		"elapsed", time.Since(start))

	return nil
}

// fixPaidBookingStatuses forces paid bookings into the completed status
func fixPaidBookingStatuses(ctx context.Context, repos *repository.Repositories, dryRun bool) (int, error) {
	bookings, err := repos.Bookings.GetPaidNotCompleted(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list paid bookings: %w", err)
	}

	fixed := 0
	for i := range bookings {
		booking := &bookings[i]
		slog.Info("Paid booking with stale status",
			"booking_id", booking.ID,
			"status", booking.Status)

		if dryRun {
			fixed++
			continue
		}

		booking.Status = models.BookingCompleted
		if err := repos.Bookings.Update(ctx, booking); err != nil {
			slog.Error("Failed to update booking", "booking_id", booking.ID, "error", err)
			continue
		}
		fixed++
	}

	return fixed, nil
}

// backfillLedgerEntries writes missing revenue entries for paid bookings.
// Bookings whose hall or customer is gone are reported and skipped.
func backfillLedgerEntries(ctx context.Context, repos *repository.Repositories, dryRun bool) (int, int, error) {
	bookings, err := repos.Bookings.GetPaid(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list paid bookings: %w", err)
	}

	backfilled, skipped := 0, 0
	for i := range bookings {
		booking := &bookings[i]

		existing, err := repos.Ledger.GetByBookingID(ctx, booking.ID)
		if err != nil {
			slog.Error("Failed to check ledger entry", "booking_id", booking.ID, "error", err)
			skipped++
			continue
		}
		if existing != nil {
			continue
		}

		hall, err := repos.Halls.GetByID(ctx, booking.HallID)
		if err != nil || hall == nil {
			slog.Warn("Skipping booking, hall missing", "booking_id", booking.ID, "hall_id", booking.HallID)
			skipped++
			continue
		}
		customer, err := repos.Users.GetByID(ctx, booking.UserID)
		if err != nil || customer == nil {
			slog.Warn("Skipping booking, customer missing", "booking_id", booking.ID, "user_id", booking.UserID)
			skipped++
			continue
		}

		paymentID := ""
		if booking.PaymentID != nil {
			paymentID = *booking.PaymentID
		}
		entry := service.NewRevenueEntry(booking, hall, customer, paymentID)

		slog.Info("Missing revenue entry",
			"booking_id", booking.ID,
			"total_amount", entry.TotalAmount,
			"owner_commission", entry.OwnerCommission,
			"platform_fee", entry.PlatformFee)

		if dryRun {
			backfilled++
			continue
		}

		created, err := repos.Ledger.InsertIfAbsent(ctx, entry)
		if err != nil {
			slog.Error("Failed to insert revenue entry", "booking_id", booking.ID, "error", err)
			skipped++
			continue
		}
		if created {
			backfilled++
		}
	}

	return backfilled, skipped, nil
}
