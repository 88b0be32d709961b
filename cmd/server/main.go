package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/booksphere/internal/booking"
	"github.com/iliyamo/booksphere/internal/cache"
	"github.com/iliyamo/booksphere/internal/clock"
	"github.com/iliyamo/booksphere/internal/config"
	"github.com/iliyamo/booksphere/internal/content"
	"github.com/iliyamo/booksphere/internal/contentstack"
	"github.com/iliyamo/booksphere/internal/database"
	"github.com/iliyamo/booksphere/internal/handler"
	"github.com/iliyamo/booksphere/internal/middleware"
	"github.com/iliyamo/booksphere/internal/notification"
	"github.com/iliyamo/booksphere/internal/reminder"
	"github.com/iliyamo/booksphere/internal/repository"
	"github.com/iliyamo/booksphere/internal/router"
	"github.com/iliyamo/booksphere/internal/service"
	"github.com/iliyamo/booksphere/internal/ticket"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Info("redis disabled or unreachable; using in-process content cache, no rate limit")
	}

	clk := clock.NewSystem()
	contentSvc := content.NewService(
		contentstack.NewClient(cfg.Contentstack, logger, &http.Client{Timeout: cfg.Contentstack.Timeout}),
		newContentCache(cfg.Content, rdb, clk, logger),
		logger,
	)

	store, closeStore := newTicketStore(cfg.Tickets, logger)
	defer closeStore()

	var transport notification.Transport = notification.NopTransport{}
	if cfg.BrokerURL != "" {
		pub := service.NewQueuePublisher(cfg.BrokerURL, logger)
		defer pub.Close()
		transport = pub
	} else {
		logger.Info("no broker configured; email and sms notices are dropped")
	}
	dispatcher := notification.NewDispatcher(transport, clk)

	orchestrator := booking.NewOrchestrator(booking.Property{
		Catalog:   contentSvc,
		Issuer:    ticket.NewIssuer(ticket.PDFRenderer{}, store),
		Notifier:  dispatcher,
		Inbox:     dispatcher,
		Reminders: reminder.NewScheduler(),
		Logger:    logger,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	cacheCfg := config.LoadCacheConfig()
	router.RegisterRoutes(e)
	router.RegisterContent(e, handler.NewContentHandler(contentSvc), middleware.ResponseCache(cacheCfg, rdb, logger))
	router.RegisterBooking(e, handler.NewBookingHandler(orchestrator, logger),
		middleware.RateLimit(config.LoadRateLimitConfig(), rdb, logger))
	if cfg.JWTSecret != "" {
		purge := func(ctx context.Context) error { return middleware.PurgeResponses(ctx, rdb, cacheCfg.Prefix) }
		router.RegisterAdmin(e, handler.NewAdminHandler(contentSvc, purge, logger), cfg.JWTSecret)
	} else {
		logger.Warn("JWT_SECRET not set; admin routes disabled")
	}

	go func() {
		addr := ":" + cfg.Port
		logger.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http shutdown")
	}
	orchestrator.Wait()
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Info("stopped")
}

func newLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.Env == "prod" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func newContentCache(cfg config.ContentCacheConfig, rdb *redis.Client, clk clock.Clock, logger *logrus.Logger) *cache.Cache {
	opts := []cache.Option{cache.WithTTL(cfg.TTL)}
	for key, ttl := range cfg.TypeTTLs {
		opts = append(opts, cache.WithKeyTTL(key, ttl))
	}
	var store cache.Store = cache.NewMemoryStore()
	if cfg.Backend == "redis" {
		if rdb != nil {
			store = cache.NewRedisStore(rdb, cfg.Prefix)
		} else {
			logger.Warn("CONTENT_CACHE_BACKEND=redis but redis is unavailable; using memory")
		}
	}
	return cache.New(store, clk, opts...)
}

func newTicketStore(cfg config.TicketStoreConfig, logger *logrus.Logger) (ticket.Store, func()) {
	if cfg.Backend != "mysql" {
		return ticket.NewMemoryStore(), func() {}
	}
	db, err := database.Open(cfg)
	if err != nil {
		logger.WithError(err).Fatal("mysql connection failed")
	}
	repo := repository.NewTicketRepo(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("tickets schema")
	}
	return repo, func() { _ = db.Close() }
}
