package main // Entry point package

import (
	"context"
	"errors"
	"log" // used only until the zap logger exists
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/ecommerce-backend/internal/auth"
	"github.com/iliyamo/ecommerce-backend/internal/config"   // Internal config loader
	"github.com/iliyamo/ecommerce-backend/internal/database" // MySQL connection and schema
	"github.com/iliyamo/ecommerce-backend/internal/handler"
	"github.com/iliyamo/ecommerce-backend/internal/logger"
	"github.com/iliyamo/ecommerce-backend/internal/metrics"
	"github.com/iliyamo/ecommerce-backend/internal/middleware"
	"github.com/iliyamo/ecommerce-backend/internal/queue"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
	"github.com/iliyamo/ecommerce-backend/internal/router" // Internal router setup
	queue_publisher "github.com/iliyamo/ecommerce-backend/internal/service"
)

const serviceName = "ecommerce-backend"

func main() {
	cfg := config.Load() // Load environment config

	zl, err := logger.New(logger.LogConfig{Level: cfg.LogLevel, Environment: cfg.Env, ServiceName: serviceName})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		mctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(mctx, db)
		cancel()
		if err != nil {
			zl.Fatal("apply schema", zap.Error(err))
		}
		zl.Info("schema applied")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repositories
	users := repository.NewUserRepo(db, cfg.BcryptCost)
	sessions := repository.NewSessionRepo(db)
	products := repository.NewProductRepo(db)
	reviews := repository.NewReviewRepo(db)
	tags := repository.NewTagRepo(db)
	cart := repository.NewCartRepo(db)

	// Redis may be nil; the cache and the limiter then pass requests through.
	rdb := config.NewRedisClient(config.LoadRedisConfig(), zl)
	if rdb != nil {
		defer rdb.Close()
	}
	cache := middleware.NewCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	var events handler.EventPublisher = queue_publisher.Nop{}
	if cfg.EventsEnabled {
		events = queue_publisher.New(cfg.RabbitURL, zl)
		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.EventLogDir, zl)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("event consumer stopped", zap.Error(err))
			}
		}()
	}

	m := metrics.New(serviceName)

	e := router.New(router.Deps{
		Cfg:       cfg,
		Log:       zl,
		Metrics:   m,
		DB:        db,
		Authn:     auth.NewAuthenticator(cfg.JWTSecret, sessions),
		Auth:      handler.NewAuthHandler(cfg, users, sessions, m),
		Products:  handler.NewProductHandler(products, reviews, cache, events, m),
		Tags:      handler.NewTagHandler(tags),
		Users:     handler.NewUserHandler(users, cart),
		Cache:     cache,
		RateLimit: limiter,
	})

	addr := ":" + cfg.Port // Address string with port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		zl.Error("graceful shutdown", zap.Error(err))
	}
}
