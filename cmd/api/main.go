package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venuehub/internal/config"
	"venuehub/internal/database"
	"venuehub/internal/middleware"
	"venuehub/internal/modules/booking"
	"venuehub/internal/modules/expiry"
	"venuehub/internal/modules/notification"
	"venuehub/internal/pkg/jwt"
	"venuehub/internal/pkg/lock"
	"venuehub/internal/pkg/mailer"
	"venuehub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := newLogger(cfg)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := notification.AutoMigrate(db); err != nil {
		log.Fatalf("migrate notifications: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	blockedRepo := repository.NewBlockedDateRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub(log)
	notificationService := notification.NewService(notification.NewRepository(db), hub, log)
	notificationHandler := notification.NewHandler(notificationService, hub, jwtService, cfg.CORSAllowedOrigins)

	bookingService := booking.NewService(bookingRepo, venueRepo, blockedRepo, messageRepo, notificationService, log, booking.Config{
		ServiceFeePercent: cfg.ServiceFeePercent,
		PaymentWindow:     cfg.Expiry.PaymentWindow,
	})
	bookingHandler := booking.NewHandler(bookingService)

	var mail mailer.Mailer = mailer.NewLogMailer(log)
	if cfg.SMTP.Enabled() {
		mail = mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	locker, closeLocker := newLocker(cfg, log)
	defer closeLocker()

	checker := expiry.NewChecker(bookingRepo, bookingService, userRepo, venueRepo, mail, notificationService, log, expiry.Config{
		PaymentWindow: cfg.Expiry.PaymentWindow,
		WarningWindow: cfg.Expiry.WarningWindow,
	})
	scheduler := expiry.NewScheduler(checker, locker, log, expiry.SchedulerConfig{
		Interval: cfg.Expiry.Interval,
		Cron:     cfg.Expiry.Cron,
	})
	expiryHandler := expiry.NewHandler(scheduler)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorLogger(log), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(jwtService))

		bookingHandler.RegisterRoutes(v1, protected)
		notificationHandler.RegisterRoutes(protected)
		// the websocket authenticates with ?token= since browsers cannot set headers on upgrade
		notificationHandler.RegisterWebSocket(v1)
	}

	internal := r.Group("/internal")
	internal.Use(middleware.InternalTokenAuth(cfg.InternalToken, log))
	{
		bookingHandler.RegisterInternalRoutes(internal)
		expiryHandler.RegisterInternalRoutes(internal)
	}

	if cfg.Expiry.Enabled {
		if err := scheduler.Start(); err != nil {
			log.Fatalf("expiry scheduler: %v", err)
		}
	} else {
		log.Warn("expiry scheduler disabled; run cmd/expiry_check or POST /internal/expiry-check instead")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("shutting down")

	if err := scheduler.Stop(); err != nil {
		log.WithError(err).Warn("expiry scheduler stop")
	}
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.StandardLogger()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// newLocker shares the expiry lease through redis when REDIS_URL is set, so only
// one replica runs a tick; otherwise the lease is process-local.
func newLocker(cfg *config.Config, log *logrus.Logger) (lock.Locker, func()) {
	if cfg.RedisURL == "" {
		return lock.NewLocal(), func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r, err := lock.NewRedisFromURL(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	log.Info("expiry lock backed by redis")
	return r, func() { _ = r.Close() }
}
