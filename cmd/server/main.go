package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-service/config"
	"booking-service/internal/api"
	"booking-service/internal/auth"
	"booking-service/internal/broker"
	"booking-service/internal/catalog"
	"booking-service/internal/notifier"
	"booking-service/internal/redisclient"
	"booking-service/internal/service"
	"booking-service/internal/store"
	"booking-service/internal/util"
	"booking-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(util.LogOptions{
		Env:     cfg.Server.Env,
		Level:   cfg.Observ.LogLevel,
		Service: cfg.Observ.ServiceName,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting booking service")

	if cfg.Observ.JaegerEndpoint != "" {
		tp, err := util.InitTracer(util.TraceOptions{
			Service:     cfg.Observ.ServiceName,
			Endpoint:    cfg.Observ.JaegerEndpoint,
			SampleRatio: cfg.Observ.TraceSampleRatio,
		})
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	cat := catalog.Default(time.Now())
	if cfg.Catalog.File != "" {
		loaded, err := catalog.LoadFile(cfg.Catalog.File)
		if err != nil {
			logger.Fatal("Failed to load catalog", zap.String("file", cfg.Catalog.File), zap.Error(err))
		}
		cat = loaded
		logger.Info("Catalog loaded", zap.String("file", cfg.Catalog.File))
	}

	var sinks []notifier.Sink
	if cfg.Notify.WebhookURL != "" {
		sinks = append(sinks, notifier.NewWebhook(cfg.Notify.WebhookURL, cfg.Notify.Timeout))
		logger.Info("Webhook notifications enabled")
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicBooking, cfg.Notify.Timeout)
		defer producer.Close()
		sinks = append(sinks, broker.NewEventPublisher(producer))
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	notifyWorker := worker.NewNotificationWorker(sinks, cfg.Notify.QueueSize, cfg.Notify.Workers, cfg.Notify.Timeout)

	var idempotency service.IdempotencyStore = store.NewMemoryIdempotency()
	var redisClient *redisclient.Client
	if cfg.Redis.Addr != "" {
		client, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()
		redisClient = client
		idempotency = client
		logger.Info("Redis connected")
	}

	bookingService := service.NewBookingService(cat, store.NewLedger(), notifyWorker, service.Options{
		Area:           service.NewAreaPolicy(cfg.Business.ServiceArea),
		DeliveryETA:    time.Duration(cfg.Business.DeliveryETAMinutes) * time.Minute,
		Idempotency:    idempotency,
		IdempotencyTTL: cfg.Business.IdempotencyTTL,
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	notifyWorker.Start(workerCtx)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(bookingService, auth.NewGuard(cfg.Auth.APIKey))
	if redisClient != nil {
		handler.AddReadinessCheck("redis", redisClient.Ping)
	}
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := notifyWorker.Stop(); err != nil {
		logger.Error("Notification worker stop failed", zap.Error(err))
	}
	workerCancel()

	logger.Info("Server exited")
}
