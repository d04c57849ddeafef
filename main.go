package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	log "github.com/sirupsen/logrus"

	"feeportal_backend/internals/configs"
	database "feeportal_backend/internals/databases"
	paymentGateway "feeportal_backend/internals/features/finance/payments/gateway"
	paymentRepository "feeportal_backend/internals/features/finance/payments/repository"
	paymentService "feeportal_backend/internals/features/finance/payments/service"
	reminderScheduler "feeportal_backend/internals/features/home/notifications/scheduler"
	notificationService "feeportal_backend/internals/features/home/notifications/service"
	authScheduler "feeportal_backend/internals/features/users/auth/scheduler"
	helper "feeportal_backend/internals/helpers"
	middlewares "feeportal_backend/internals/middlewares"
	requestLogger "feeportal_backend/internals/middlewares/logger"
	"feeportal_backend/internals/queue"
	routes "feeportal_backend/internals/route"
	"feeportal_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	configs.InitLogger()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// order matters: recovery wraps everything, request id before the access log
	app.Use(middlewares.RecoveryMiddleware())
	app.Use(requestLogger.RequestIDMiddleware())
	app.Use(requestLogger.LoggerMiddleware())
	app.Use(middlewares.CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("[DB] migrate failed: %v", err)
	}
	if configs.GetEnvBool("DB_SEED", false) {
		seeds.RunAllSeeds(database.DB)
	}

	rdb, err := database.ConnectRedis()
	if err != nil {
		log.WithError(err).Warn("[REDIS] unavailable, using in-process payment locks")
		rdb = nil
	}

	publisher := newPublisher()

	// payments
	gateway := paymentGateway.NewMidtransGateway(configs.MidtransServerKey, configs.MidtransUseProd, configs.PaymentFinishURL)
	payments := paymentService.NewPaymentService(
		paymentRepository.NewAccountRepository(database.DB),
		paymentRepository.NewTransactionRepository(database.DB),
		gateway,
		newLocker(rdb),
		publisher,
	)

	// notifications
	dispatcher := notificationService.NewDispatcher(database.DB, publisher)

	// schedulers after DB is ready
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	authScheduler.StartBlacklistCleanupScheduler(ctx, database.DB, configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7))
	reminderScheduler.StartFeeReminderScheduler(ctx, payments, dispatcher, configs.GetEnvInt("FEE_REMINDER_DAYS_AHEAD", 7))

	routes.SetupRoutes(app, routes.Deps{
		DB:       database.DB,
		Redis:    rdb,
		Payments: payments,
		Webhook:  gateway,
		Notifier: dispatcher,
	})

	// keep-alive & connection timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + close pools
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[SERVER] shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)

	if p, ok := publisher.(*queue.Producer); ok {
		p.Stop()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newPublisher() queue.Publisher {
	addr := configs.GetEnv("NSQD_ADDR")
	if addr == "" {
		log.Println("[NSQ] NSQD_ADDR not set, events are dropped")
		return queue.NopPublisher{}
	}
	producer, err := queue.NewProducer(addr)
	if err != nil {
		log.WithError(err).Warn("[NSQ] producer unavailable, events are dropped")
		return queue.NopPublisher{}
	}
	log.Printf("[NSQ] publishing to %s", addr)
	return producer
}

func newLocker(rdb *redis.Client) paymentService.Locker {
	if rdb == nil {
		return paymentService.NewLocalLocker(0)
	}
	return paymentService.NewRedisLocker(rdb, 0, 0)
}
