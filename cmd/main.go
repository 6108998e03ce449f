package main

import (
	"context"
	"log"
	"net/http"

	"marketplace-app/internal/config"
	"marketplace-app/internal/handler"
	"marketplace-app/internal/repository"
	"marketplace-app/internal/services"
	"marketplace-app/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	baseCtx := context.Background()
	ctx, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	db := mongoClient.Database(cfg.MongoDatabase)

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("Invalid Redis URL:", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return rdb.Close()
	})

	docs, err := utils.NewDocumentStorage(cfg.MinioEndpoint, cfg.MinioAccess, cfg.MinioSecret, cfg.MinioBucket)
	if err != nil {
		log.Fatal("Failed to init document storage:", err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	ledger := repository.NewNotificationLogRepository(db)

	mailer := services.NewSMTPMailer(cfg)
	publisher := services.NewRedisPublisher(rdb)

	bookingService := services.NewBookingService(bookingRepo, publisher, rdb)
	reviewService := services.NewReviewService(reviewRepo, bookingRepo, serviceRepo)
	dispatcher := services.NewDispatcherService(bookingRepo, providerRepo, ledger, mailer, docs, rdb, cfg.ReviewPageURL)
	reminder := services.NewReminderService(bookingRepo, mailer, cfg.ReviewPageURL)

	go dispatcher.StartSubscribers(ctx)
	reminder.Start(ctx)

	bookingHandler := handler.NewBookingHandler(bookingService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	catalogHandler := handler.NewCatalogHandler(serviceRepo, reviewRepo)

	router := gin.Default()
	router.Use(utils.CORS())

	api := router.Group("/api")
	{
		api.POST("/bookings", bookingHandler.CreateBooking)
		api.GET("/bookings", bookingHandler.GetBookings)
		api.PUT("/bookings/:id/status", bookingHandler.UpdateStatus)
		api.POST("/reviews", reviewHandler.SubmitReview)
		api.GET("/services", catalogHandler.SearchServices)
		api.GET("/providers/reviews", catalogHandler.GetProviderReviews)
	}

	server := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Println("Marketplace service running on", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Shutting down HTTP server...")
		return server.Shutdown(ctx)
	})

	select {}
}
