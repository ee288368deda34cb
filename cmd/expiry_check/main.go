// Command expiry_check runs the booking expiry check once and exits. It suits
// a cron or Kubernetes job when the in-process scheduler is disabled.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"venuehub/internal/config"
	"venuehub/internal/database"
	"venuehub/internal/modules/booking"
	"venuehub/internal/modules/expiry"
	"venuehub/internal/modules/notification"
	"venuehub/internal/pkg/lock"
	"venuehub/internal/pkg/mailer"
	"venuehub/internal/repository"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logrus.StandardLogger()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := database.ConnectSilent(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// no websocket hub here; notifications are stored and picked up on next fetch
	notificationService := notification.NewService(notification.NewRepository(db), nil, log)

	bookingService := booking.NewService(
		bookingRepo, venueRepo, repository.NewBlockedDateRepository(db), repository.NewMessageRepository(db),
		notificationService, log,
		booking.Config{ServiceFeePercent: cfg.ServiceFeePercent, PaymentWindow: cfg.Expiry.PaymentWindow},
	)

	var mail mailer.Mailer = mailer.NewLogMailer(log)
	if cfg.SMTP.Enabled() {
		mail = mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var locker lock.Locker = lock.NewLocal()
	if cfg.RedisURL != "" {
		r, err := lock.NewRedisFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer r.Close()
		locker = r
	}

	checker := expiry.NewChecker(bookingRepo, bookingService, userRepo, venueRepo, mail, notificationService, log, expiry.Config{
		PaymentWindow: cfg.Expiry.PaymentWindow,
		WarningWindow: cfg.Expiry.WarningWindow,
	})
	scheduler := expiry.NewScheduler(checker, locker, log, expiry.SchedulerConfig{Interval: cfg.Expiry.Interval})

	report, err := scheduler.RunOnce(ctx)
	if errors.Is(err, expiry.ErrAlreadyRunning) {
		log.Info("another expiry check is running, nothing to do")
		return
	}
	if err != nil {
		log.WithError(err).Error("expiry check failed")
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{
		"checked": report.Checked,
		"warned":  report.Warned,
		"expired": report.Expired,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("expiry check completed")
}
