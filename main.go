// File: villamar/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"villamar/config"
	"villamar/cron"
	"villamar/database"
	bookingRepoPkg "villamar/database/repository/booking"
	villaRepoPkg "villamar/database/repository/villa"
	"villamar/handlers"
	"villamar/middleware"
	"villamar/routes"
	"villamar/services/admin"
	bookingSvc "villamar/services/booking"
	"villamar/services/payment"
	"villamar/services/tasks"
	"villamar/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	villaRepo := villaRepoPkg.NewMongoVillaRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// booking session store in Redis.
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	sessionStore := bookingSvc.NewRedisSessionStore(utils.GetSessionCacheClient(), sessionTTL)

	// services.
	checkoutService := &payment.StripeCheckoutService{
		Villas:    villaRepo,
		Store:     sessionStore,
		ReturnURL: config.AppConfig.CheckoutReturnURL,
	}

	sessionService := &bookingSvc.DefaultBookingSessionService{
		Villas:   villaRepo,
		Bookings: bookingRepo,
		Store:    sessionStore,
		Payments: checkoutService,
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	webhookProcessor := &payment.WebhookProcessor{
		Bookings:  bookingRepo,
		Reminders: &tasks.AsynqReminderScheduler{Client: asynqClient},
	}

	bookingAdminService := &admin.DefaultBookingAdminService{
		Repo: bookingRepo,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Booking:  handlers.NewBookingHandler(sessionService, logger),
		Checkout: handlers.NewCheckoutHandler(checkoutService),
		Webhook:  handlers.NewWebhookHandler(webhookProcessor),
		Villa:    handlers.NewVillaHandler(villaRepo),
		Admin:    handlers.NewAdminHandler(bookingAdminService, villaRepo),
		Storage:  handlers.NewStorageHandler(cloudinaryStorageService, villaRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background reminder worker and health monitor.
	cron.InitReminderWorker(bookingRepo)
	utils.StartHealthMonitor(utils.GetSessionCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
