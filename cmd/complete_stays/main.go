package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/config"
	"circlepoint/internal/database"
	"circlepoint/internal/lock"
	"circlepoint/internal/modules/booking"
	"circlepoint/internal/repository"
)

// complete_stays marks confirmed bookings whose check-out date has passed as
// completed. Run it from cron once a day.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}

	bookings := repository.NewBookingRepository(db)
	svc := booking.NewService(
		bookings,
		repository.NewPropertyRepository(db),
		repository.NewUserRepository(db),
		lock.NewLocalLocker(cfg.LockTTL),
		audit.NewRecorder(repository.NewAuditRepository(db)),
		nil,
		booking.Options{},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := svc.CompletePast(ctx)
	if err != nil {
		slog.Error("complete stays failed", "error", err)
		os.Exit(1)
	}
	slog.Info("complete stays finished", "completed", n)
}
