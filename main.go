package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"carwash/config"
	"carwash/cron"
	"carwash/database"
	bookingRepo "carwash/database/repository/booking"
	promoRepo "carwash/database/repository/promo"
	referralRepo "carwash/database/repository/referral"
	settingsRepo "carwash/database/repository/settings"
	shiftRepo "carwash/database/repository/shift"
	"carwash/handlers"
	"carwash/middleware"
	"carwash/routes"
	"carwash/services/admin"
	"carwash/services/availability"
	"carwash/services/booking"
	"carwash/services/guest"
	"carwash/services/notification"
	"carwash/services/pricing"
	"carwash/services/tasks"
	"carwash/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type repositories struct {
	bookings  bookingRepo.BookingRepository
	settings  settingsRepo.SettingsRepository
	promos    promoRepo.PromoRepository
	referrals referralRepo.ReferralRepository
	shifts    shiftRepo.ShiftRepository
}

type indexed interface {
	EnsureIndexes() error
}

func memoryRepositories() repositories {
	return repositories{
		bookings:  bookingRepo.NewMemoryBookingRepo(),
		settings:  settingsRepo.NewMemorySettingsRepo(),
		promos:    promoRepo.NewMemoryPromoRepo(),
		referrals: referralRepo.NewMemoryReferralRepo(),
		shifts:    shiftRepo.NewMemoryShiftRepo(),
	}
}

func mongoRepositories(logger *zap.Logger) repositories {
	database.InitDB()

	b := bookingRepo.NewMongoBookingRepo()
	s := settingsRepo.NewMongoSettingsRepo()
	p := promoRepo.NewMongoPromoRepo()
	r := referralRepo.NewMongoReferralRepo()
	sh := shiftRepo.NewMongoShiftRepo()
	for name, repo := range map[string]indexed{"bookings": b, "settings": s, "promos": p, "referrals": r, "shifts": sh} {
		if err := repo.EnsureIndexes(); err != nil {
			logger.Fatal("failed to ensure indexes", zap.String("repository", name), zap.Error(err))
		}
	}
	return repositories{bookings: b, settings: s, promos: p, referrals: r, shifts: sh}
}

func newNotifier(ctx context.Context, logger *zap.Logger) notification.NotificationService {
	if !config.AppConfig.NotificationsEnabled {
		return &notification.LogNotificationService{Logger: logger}
	}
	client, err := utils.NewFCMClient(ctx)
	if err != nil {
		logger.Error("push disabled: firebase init failed", zap.Error(err))
		return &notification.LogNotificationService{Logger: logger}
	}
	svc, err := notification.NewFCMNotificationService(client, logger)
	if err != nil {
		logger.Error("push disabled", zap.Error(err))
		return &notification.LogNotificationService{Logger: logger}
	}
	return svc
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	clock := utils.SystemClock()
	memory := config.UseMemoryStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// repositories.
	probes := map[string]utils.Pinger{}
	var repos repositories
	if memory {
		logger.Warn("running with the in-memory store; data is lost on restart")
		repos = memoryRepositories()
	} else {
		repos = mongoRepositories(logger)
		probes["mongo"] = func(ctx context.Context) error { return database.MongoClient.Ping(ctx, nil) }
	}

	// services.
	pricingService := &pricing.DefaultPricingService{
		Settings:        repos.settings,
		Promos:          repos.promos,
		Referrals:       repos.referrals,
		Clock:           clock,
		Logger:          logger.Named("pricing"),
		ReferralPercent: config.AppConfig.ReferralDiscountPercent,
	}
	if err := pricingService.SeedDefaults(ctx); err != nil {
		logger.Fatal("failed to seed catalog", zap.Error(err))
	}

	availabilityService := &availability.DefaultAvailabilityService{
		Bookings: repos.bookings,
		Settings: repos.settings,
		Clock:    clock,
		Location: config.BusinessLocation(),
		Logger:   logger.Named("availability"),
	}

	var registry guest.Registry
	if memory {
		registry = guest.NewMemoryRegistry(time.Now)
	} else {
		cache := utils.GetCacheClient()
		registry = guest.NewRedisRegistry(cache)
		probes["redis"] = func(ctx context.Context) error { return cache.Ping(ctx).Err() }
	}
	guestService := &guest.DefaultSessionService{
		Secret:   []byte(config.AppConfig.GuestSessionSecret),
		TTL:      config.AppConfig.GuestSessionTTL,
		Timeout:  config.AppConfig.GuestValidateTimeout,
		Registry: registry,
		Clock:    clock,
		Logger:   logger.Named("guest"),
	}

	taskHandlers := &tasks.Handlers{
		Redeemer: pricingService,
		Notifier: newNotifier(ctx, logger.Named("notification")),
		Logger:   logger.Named("tasks"),
	}
	var (
		dispatcher booking.Dispatcher
		worker     *asynq.Server
	)
	if memory {
		dispatcher = &tasks.InlineDispatcher{Handlers: taskHandlers}
	} else {
		queue := asynq.NewClient(tasks.RedisConnOpt())
		defer queue.Close()
		dispatcher = &tasks.AsynqDispatcher{Client: queue, Logger: logger.Named("dispatcher")}
		worker = cron.StartBookingWorker(taskHandlers, logger.Named("worker"))
	}

	bookingService := &booking.DefaultBookingService{
		Repo:         repos.bookings,
		Availability: availabilityService,
		Pricing:      pricingService,
		Dispatcher:   dispatcher,
		Clock:        clock,
		Logger:       logger.Named("booking"),
	}
	cron.StartRedemptionSweep(ctx, bookingService, 5*time.Minute, logger.Named("redemption-sweep"))

	adminService := &admin.DefaultAdminService{
		Shifts:   repos.shifts,
		Bookings: repos.bookings,
		Settings: repos.settings,
		Clock:    clock,
		Logger:   logger.Named("admin"),
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		JWTSecret: []byte(config.AppConfig.JWTSecret),
		Guests:    guestService,
		Booking:   handlers.NewBookingHandler(bookingService, guestService),
		Slots:     handlers.NewSlotsHandler(availabilityService),
		Pricing:   handlers.NewPricingHandler(pricingService),
		Admin:     handlers.NewAdminHandler(adminService),
		Guest:     handlers.NewGuestHandler(guestService),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiterStore(config.AppConfig.MaxRequestsPerMin)))
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(ctx, 30*time.Second, probes)

	// Start the HTTP server.
	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: router,
	}
	logger.Sugar().Infof("Starting server on %s (store: %s)...", srv.Addr, config.AppConfig.StoreDriver)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
	_ = logger.Sync()
}
