package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/foamwash/foamwash-backend/api/routes"
	authsvc "github.com/foamwash/foamwash-backend/internal/auth"
	"github.com/foamwash/foamwash-backend/internal/bookings"
	"github.com/foamwash/foamwash-backend/internal/cart"
	"github.com/foamwash/foamwash-backend/internal/catalog"
	"github.com/foamwash/foamwash-backend/internal/cron"
	"github.com/foamwash/foamwash-backend/internal/notifications"
	"github.com/foamwash/foamwash-backend/internal/quotes"
	"github.com/foamwash/foamwash-backend/internal/reports"
	"github.com/foamwash/foamwash-backend/internal/users"
	"github.com/foamwash/foamwash-backend/pkg/auth/session"
	"github.com/foamwash/foamwash-backend/pkg/config"
	"github.com/foamwash/foamwash-backend/pkg/db"
	"github.com/foamwash/foamwash-backend/pkg/logger"
	"github.com/foamwash/foamwash-backend/pkg/metrics"
	"github.com/foamwash/foamwash-backend/pkg/migrate"
	"github.com/foamwash/foamwash-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logg.Error(context.Background(), "failed to load service catalog", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	quoteRepo := quotes.NewRepository(dbClient.DB())
	bookingRepo := bookings.NewRepository(dbClient.DB())
	notificationRepo := notifications.NewRepository(dbClient.DB())
	reportRepo := reports.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	exitOn(logg, "auth service", err)

	usersService, err := users.NewService(userRepo, cfg.Password)
	exitOn(logg, "users service", err)

	cartService, err := cart.NewService(cartRepo, cat)
	exitOn(logg, "cart service", err)

	quoteService, err := quotes.NewService(quoteRepo, cartRepo, cat)
	exitOn(logg, "quote service", err)

	notificationService, err := notifications.NewService(notificationRepo, logg, cfg.Notifications.TTL)
	exitOn(logg, "notification service", err)

	bookingService, err := bookings.NewService(
		dbClient,
		bookingRepo,
		cartRepo,
		quoteRepo,
		cat,
		notificationService,
		cfg.Booking.MinLeadDays,
	)
	exitOn(logg, "booking service", err)

	reportService, err := reports.NewService(reportRepo)
	exitOn(logg, "report service", err)

	cronMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	cleanupJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		Repository: notificationRepo,
	})
	exitOn(logg, "notification cleanup job", err)

	staleCartJob, err := cron.NewStaleCartJob(cron.StaleCartJobParams{
		Logger: logg,
		DB:     dbClient.DB(),
	})
	exitOn(logg, "stale cart job", err)

	cronLock, err := cron.NewRedisLock(redisClient, "cron:api", time.Hour)
	exitOn(logg, "cron lock", err)

	cronService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(cleanupJob, staleCartJob),
		Lock:     cronLock,
		Metrics:  cronMetrics,
		Interval: cfg.Jobs.Interval,
	})
	exitOn(logg, "cron service", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := cronService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "cron loop stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			Redis:         redisClient,
			Sessions:      sessionManager,
			HTTPMetrics:   httpMetrics,
			Catalog:       cat,
			Auth:          authService,
			Cart:          cartService,
			Quotes:        quoteService,
			Bookings:      bookingService,
			Notifications: notificationService,
			Users:         usersService,
			Reports:       reportService,
		}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "server shutdown error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(startCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(startCtx, "api server stopped")
}

func exitOn(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
