package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"market-pos/config"
	"market-pos/internal/batch"
	"market-pos/internal/handlers"
	"market-pos/internal/realtime"
	"market-pos/internal/services"
	"market-pos/internal/store"
	"market-pos/logger"
	"market-pos/migrations"
	"market-pos/monitoring"
	"market-pos/security"
	"market-pos/utils"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"go.uber.org/zap"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		return err
	}
	log := logger.GetLogger()
	defer log.Sync()

	// Initialize Redis
	redisClient, err := utils.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stores
	vendorStore := store.NewVendorStore(app)
	transactionStore := store.NewTransactionStore(app)
	requestStore := store.NewRequestStore(app)

	// Realtime
	hub := realtime.NewHub()
	hub.Bind(app,
		migrations.VendorsCollection,
		migrations.TransactionsCollection,
		migrations.PaymentRequestsCollection,
	)
	if cfg.RealtimeEnabled() {
		publisher := realtime.NewPubNubPublisher(cfg.PubNubPublishKey, cfg.PubNubSubscribeKey, cfg.PubNubSecretKey, cfg.PubNubUserID)
		breaker := utils.NewCircuitBreaker("pubnub", utils.WithTimeout(cfg.PublishBreakerTimeout))
		notifier := realtime.NewNotifier(publisher, breaker)
		notifier.Attach(hub)
		go notifier.Run(ctx)
	} else {
		log.Info("PubNub keys not set, realtime publishing disabled")
	}

	// Initialize services
	engine := batch.NewEngine(transactionStore, requestStore)
	vendorService := services.NewVendorService(vendorStore, cfg.PublicBaseURL)
	transactionService := services.NewTransactionService(transactionStore, vendorStore)
	requestService := services.NewRequestService(requestStore, vendorStore, engine)
	batchService := services.NewBatchService(
		batch.NewSessionStore(redisClient, cfg.BatchSessionTTL),
		requestStore,
		vendorStore,
		engine,
	)
	dashboardService := services.NewDashboardService(hub, vendorStore, transactionStore, requestStore)
	exportService := services.NewExportService(transactionStore, vendorStore)

	// Initialize handlers
	h := &handlers.Handlers{
		Vendors:      handlers.NewVendorHandler(vendorService),
		Transactions: handlers.NewTransactionHandler(transactionService, exportService),
		Requests:     handlers.NewRequestHandler(requestService),
		Batch:        handlers.NewBatchHandler(batchService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Public:       handlers.NewPublicHandler(dashboardService, requestService),
	}
	rateLimiter := security.NewRateLimiter(redisClient, cfg.PublicRateLimit, cfg.PublicRateWindow)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})
	app.RootCmd.AddCommand(NewVendorsCommand(vendorService))
	app.RootCmd.AddCommand(NewHashKeyCommand())

	// Start background tasks
	if cfg.EnableMetrics {
		go monitoring.NewMonitor(redisClient, batch.SessionKeyPrefix, cfg.MetricsInterval).Run(ctx)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(logger.Middleware())
		if cfg.EnableMetrics {
			se.Router.BindFunc(monitoring.HTTPMiddleware())
			se.Router.GET("/metrics", monitoring.Handler())
		}

		h.Register(se.Router, security.OperatorGuard(cfg.OperatorKeyHash), rateLimiter.PublicRateLimit())

		// Health check
		se.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
		})

		log.Info("Server routes registered",
			zap.Bool("operator_key", cfg.OperatorKeyHash != ""),
			zap.Bool("realtime", cfg.RealtimeEnabled()),
		)
		return se.Next()
	})

	// Start server
	return app.Start()
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.GetLogger().Info("Shutdown signal received, cleaning up...")
	cancel()
}
