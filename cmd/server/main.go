package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-desk/internal/config"
	handler "order-desk/internal/controllers/http"
	"order-desk/internal/controllers/http/middleware"
	"order-desk/internal/infra"
	"order-desk/internal/infra/cache"
	"order-desk/internal/infra/gateway"
	"order-desk/internal/infra/idempotency"
	mmysql "order-desk/internal/infra/mysql"
	"order-desk/internal/infra/rabbitmq"
	"order-desk/internal/metrics"
	mysqlrepo "order-desk/internal/repository/mysql"
	"order-desk/internal/services"

	"github.com/gin-gonic/gin"
	redisv8 "github.com/go-redis/redis/v8"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const serviceName = "order-desk"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to access MySQL pool", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)
	defer sqlDB.Close()

	shutdownTracing, err := middleware.InitTracing(serviceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
	if err != nil {
		logger.Fatal("Failed to initialize publisher", zap.Error(err))
	}
	defer publisher.Close()

	cacheClient := redisv8.NewClient(&redisv8.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer cacheClient.Close()

	idemClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           1,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer idemClient.Close()

	products := mysqlrepo.NewProductRepository(db, logger)
	orders := mysqlrepo.NewOrderRepository(db, logger)
	payments := mysqlrepo.NewPaymentRepository(db, logger)

	catalog := services.NewCatalogService(products, cache.NewProductCache(cacheClient, cfg.ProductCacheTTL), logger)
	orderService := services.NewOrderService(orders, products, payments, logger)
	paymentService := services.NewPaymentService(payments, orders, gateway.NewSimulatedProcessor(cfg.PaymentMaxDelay), publisher, logger)
	notifier := infra.NewNotificationClient(cfg.NotificationURL, cfg.NotificationTimeout, logger)
	confirmService := services.NewConfirmationService(orders, notifier, publisher, logger)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := catalog.WarmCache(ctx); err != nil {
			logger.Warn("Failed to warm up product cache", zap.Error(err))
		}
	}()

	h := handler.NewHandler(
		catalog,
		orderService,
		paymentService,
		confirmService,
		idempotency.NewStore(idemClient, cfg.IdempotencyTTL),
		logger,
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", metrics.Handler())
	h.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	logger.Info("Order desk started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
