package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"circlepoint/internal/audit"
	"circlepoint/internal/config"
	"circlepoint/internal/database"
	"circlepoint/internal/lock"
	"circlepoint/internal/modules/admin"
	"circlepoint/internal/modules/application"
	"circlepoint/internal/modules/auth"
	"circlepoint/internal/modules/booking"
	"circlepoint/internal/modules/property"
	"circlepoint/internal/notification"
	jwtsvc "circlepoint/internal/pkg/jwt"
	"circlepoint/internal/repository"
	"circlepoint/internal/server"

	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	recorder := audit.NewRecorder(repository.NewAuditRepository(db))

	hub := notification.NewHub()
	dispatcher := notification.NewDispatcher(notification.LogSink{}, hub)
	if cfg.SMTPHost != "" {
		dispatcher.Add(notification.NewMailer(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}))
	}
	notifier := notification.NewService(dispatcher, cfg.AppURL, cfg.CompanyName)

	locker, closeLocker := newLocker(cfg)
	defer closeLocker()

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, j, 0)
	propertyService := property.NewService(propertyRepo, bookingRepo, recorder, nil)
	bookingService := booking.NewService(bookingRepo, propertyRepo, userRepo, locker, recorder, notifier, booking.Options{
		LegacyTransitions: cfg.LegacyTransitions,
		CompanyName:       cfg.CompanyName,
		ContactEmail:      cfg.MailFrom,
	})
	applicationService := application.NewService(applicationRepo, userRepo, recorder, notifier, nil, cfg.LegacyTransitions)
	adminService := admin.NewService(userRepo, recorder, nil)

	r := server.New(server.Deps{
		JWT:         j,
		Users:       userRepo,
		Hub:         hub,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Auth:        auth.NewHandler(authService),
		Property:    property.NewHandler(propertyService),
		Booking:     booking.NewHandler(bookingService),
		Application: application.NewHandler(applicationService),
		Admin:       admin.NewHandler(adminService),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	dispatcher.Wait()
}

// newLocker uses redis when REDIS_URL is set so several API instances share
// the availability lock; otherwise the lock is in-process.
func newLocker(cfg *config.Config) (lock.Locker, func()) {
	if cfg.RedisURL == "" {
		return lock.NewLocalLocker(cfg.LockTTL), func() {}
	}
	client, err := lock.NewRedisClient(cfg.RedisURL)
	if err != nil {
		slog.Error("redis", "error", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis ping failed", "error", err)
	}
	return lock.NewRedisLocker(client, cfg.LockTTL, cfg.LockTTL), func() { _ = client.Close() }
}
