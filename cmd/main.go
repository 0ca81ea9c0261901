package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/picelmedia/wabot-admin/internal/config"
	"github.com/picelmedia/wabot-admin/internal/infrastructure"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	httpapi "github.com/picelmedia/wabot-admin/internal/interfaces/http"
	"github.com/picelmedia/wabot-admin/internal/observer"
	"github.com/picelmedia/wabot-admin/internal/repository"
	"github.com/picelmedia/wabot-admin/internal/usecases"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"github.com/picelmedia/wabot-admin/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	observer.SetMetricsEnabled(cfg.Metrics.Enabled)

	logger.Log.Info("Starting WhatsApp bot admin backend",
		zap.String("environment", cfg.Environment),
		zap.Bool("whatsapp", cfg.WhatsApp.Enabled),
		zap.Bool("redis", cfg.Redis.Addr != ""),
		zap.Bool("nats", cfg.NATS.URL != ""),
	)

	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	// Storage
	pg, err := infrastructure.NewPostgresClient(mainCtx, cfg.Database.PostgresDSN, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := pg.Migrate(mainCtx, cfg.Realtime.Channel); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	db, err := pg.OpenGorm()
	if err != nil {
		logger.Log.Fatal("Failed to open gorm", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	ruleRepo := repository.NewBotRuleRepository(db)
	settingsRepo := repository.NewBotSettingsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)

	var cache interfaces.QueryCache = infrastructure.NoopCache{}
	var redisCache *infrastructure.RedisCache
	if cfg.Redis.Addr != "" {
		redisCache, err = infrastructure.NewRedisCache(mainCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cache = redisCache
	}

	// Realtime
	var broker interfaces.Broker = infrastructure.NewLocalBroker()
	if cfg.NATS.URL != "" {
		natsBroker, err := infrastructure.NewNATSBroker(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			logger.Log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		broker = natsBroker
	}
	listener := infrastructure.NewChangeListener(pg.Pool, cfg.Realtime.Channel, cache, broker)
	listener.Exclusive = cfg.NATS.URL != ""

	// Notifications
	var forwarder interfaces.NotificationForwarder
	if cfg.Telegram.Token != "" {
		notifier, err := infrastructure.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Log.Warn("Telegram notifier disabled", zap.Error(err))
		} else {
			forwarder = notifier
		}
	}

	// WhatsApp
	var (
		waManager *infrastructure.WhatsAppManager
		sender    interfaces.MessageSender
	)
	if cfg.WhatsApp.Enabled {
		waManager, err = infrastructure.NewWhatsAppManager(cfg.WhatsApp.DeviceDir, logger.Log)
		if err != nil {
			logger.Log.Fatal("Failed to initialize WhatsApp manager", zap.Error(err))
		}
		sender = waManager
	}

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	notificationUsecase := usecases.NewNotificationUsecase(notificationRepo, forwarder)
	inboxUsecase := usecases.NewInboxUsecase(messageRepo, sender, cache)
	leadUsecase := usecases.NewLeadUsecase(leadRepo, notificationUsecase, cache)
	productUsecase := usecases.NewProductUsecase(productRepo, cache)
	orderUsecase := usecases.NewOrderUsecase(orderRepo, cache)
	ruleUsecase := usecases.NewBotRuleUsecase(ruleRepo, cache)
	settingsUsecase := usecases.NewBotSettingsUsecase(settingsRepo, cache)
	campaignUsecase := usecases.NewCampaignUsecase(
		userRepo,
		campaignRepo,
		infrastructure.NewCampaignWebhookClient(cfg.Campaign.WebhookURL, cfg.Campaign.Timeout),
		notificationUsecase,
		cache,
	)
	dashboardUsecase := usecases.NewDashboardUsecase(messageRepo, leadRepo, productRepo, settingsRepo, cache)

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := authUsecase.EnsureAdmin(mainCtx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logger.Log.Warn("Failed to ensure admin user", zap.Error(err))
		}
	}

	apiLimiter := infrastructure.NewKeyedLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go apiLimiter.Cleanup(mainCtx, time.Minute)

	var inboundWorker *infrastructure.InboundWorker
	replyGuard := infrastructure.NewReplyGuard(2 * time.Second)
	if waManager != nil {
		replyLimiter := infrastructure.NewKeyedLimiter(cfg.Bot.ReplyRPS, cfg.Bot.ReplyBurst)
		go replyLimiter.Cleanup(mainCtx, time.Minute)

		bot := usecases.NewBotService(inboxUsecase, leadUsecase, settingsUsecase, ruleUsecase, sender, replyLimiter, replyGuard)
		inboundWorker, err = infrastructure.NewInboundWorker(cfg.WorkerPools.Inbound, bot, logger.Log)
		if err != nil {
			logger.Log.Fatal("Failed to initialize inbound worker pool", zap.Error(err))
		}
		waManager.HandlerFactory = inboundWorker.EventHandler
		go waManager.ReconnectAll(mainCtx)
		go pruneReplyGuard(mainCtx, replyGuard)
	}

	utils.SafeGo(func() {
		if err := listener.Run(mainCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.Error("Change listener stopped", zap.Error(err))
		}
	}, nil)

	// HTTP
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	deps := httpapi.Deps{
		Auth:           authUsecase,
		Dashboard:      dashboardUsecase,
		Inbox:          inboxUsecase,
		Leads:          leadUsecase,
		Products:       productUsecase,
		Orders:         orderUsecase,
		BotRules:       ruleUsecase,
		BotSettings:    settingsUsecase,
		Notifications:  notificationUsecase,
		Campaigns:      campaignUsecase,
		Broker:         broker,
		Middleware:     httpapi.NewMiddleware(authUsecase, authUsecase, apiLimiter, cfg.Server.AllowedOrigin),
		Ready:          pg.Ping,
		PingInterval:   cfg.Realtime.PingInterval,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		MetricsEnabled: cfg.Metrics.Enabled,
	}
	if waManager != nil {
		deps.WhatsApp = waManager
	}
	httpapi.SetupRoutes(router, deps)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	sigChan := make(chan os.Signal, 1)
	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("HTTP server failed, initiating shutdown", zap.Error(err))
			select {
			case sigChan <- syscall.SIGTERM:
			default:
			}
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Log.Info("Received termination signal", zap.String("signal", sig.String()))

	mainCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	logger.Log.Info("Starting graceful shutdown", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

	var wg sync.WaitGroup
	stop := func(name string, fn func()) {
		wg.Add(1)
		utils.SafeGo(func() {
			defer wg.Done()
			start := time.Now()
			fn()
			logger.Log.Info("[shutdown] "+name+" stopped", zap.Duration("duration", time.Since(start)))
		}, func(r interface{}, stack []byte) {
			logger.Log.Error("[shutdown] Panic while stopping "+name,
				zap.Any("panic", r),
				zap.ByteString("stack", stack),
			)
		})
	}

	stop("HTTP server", func() {
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] Error stopping HTTP server", zap.Error(err))
		}
	})
	if inboundWorker != nil {
		stop("inbound worker pool", func() { inboundWorker.Stop(cfg.Server.ShutdownTimeout) })
	}
	if waManager != nil {
		stop("WhatsApp devices", waManager.DisconnectAll)
	}
	wg.Wait()

	// The broker and the stores go last: the pool and devices above may still
	// publish or read while draining.
	if err := broker.Close(); err != nil {
		logger.Log.Warn("[shutdown] Error closing broker", zap.Error(err))
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			logger.Log.Warn("[shutdown] Error closing Redis", zap.Error(err))
		}
	}
	pg.Close()
	logger.Log.Info("Shutdown complete")
}

func pruneReplyGuard(ctx context.Context, guard *infrastructure.ReplyGuard) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			guard.Prune(10 * time.Minute)
		}
	}
}
