package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rogerio-castellano/inventory-ledger/internal/config"
	"github.com/rogerio-castellano/inventory-ledger/internal/db"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/router"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/redissvc"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"go.uber.org/zap"
)

// @title Inventory Ledger API
// @version 1.0
// @description Per-account inventory ledger: orders, weighted average prices, bulk CSV import and category analytics.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	var (
		store      repo.LedgerStore
		categories repo.CategoryRegistry
		locker     ledger.Locker
		database   *sql.DB
	)

	switch cfg.Storage.Backend {
	case "postgres":
		var err error
		database, err = db.Connect(ctx, db.Options{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		defer database.Close()
		if err := db.EnsureSchema(ctx, database); err != nil {
			return err
		}
		store = repo.NewPostgresLedgerStore(database, cfg.Storage.Timeout)
		categories = repo.NewPostgresCategoryRegistry(database, cfg.Storage.Timeout)
		log.Info("using postgres storage")
	default:
		store = repo.NewInMemoryLedgerStore()
		categories = repo.NewInMemoryCategoryRegistry()
		log.Warn("using in-memory storage; data is lost on restart")
	}

	if cfg.Redis.Enabled {
		redisService, err := redissvc.Connect(ctx, redissvc.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer redisService.Close()

		categories = repo.NewRedisCategoryRegistry(redisService.Rdb(), cfg.Storage.Timeout)
		if cfg.Lock.Backend == "redis" {
			locker = ledger.NewRedisLocker(redisService.Rdb(), cfg.Lock.TTL, cfg.Lock.RetryInterval)
		}
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr), zap.String("lock_backend", cfg.Lock.Backend))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if database != nil {
		registry.MustRegister(collectors.NewDBStatsCollector(database, "inventory"))
	}
	metrics := ledger.NewMetrics(registry)

	engine := ledger.NewEngine(store, categories, locker, ledger.Options{
		CostPolicy:         ledger.CostPolicy(cfg.Ledger.CostPolicy),
		ImportZeroQuantity: cfg.Ledger.ImportZeroQuantity,
		LockWait:           cfg.Lock.WaitTimeout,
		Logger:             log,
		Metrics:            metrics,
	})
	handlers.SetEngine(engine)
	handlers.SetReconciler(ledger.NewReconciler(engine))
	handlers.SetAnalytics(ledger.NewAnalytics(store, ledger.AnalyticsOptions{
		RecentOrders: cfg.Analytics.RecentOrders,
		Fanout:       cfg.Analytics.Fanout,
	}))
	handlers.SetLogger(log)
	handlers.SetMaxUploadBytes(cfg.HTTP.MaxUploadBytes)

	limiter := rl.New(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst)
	go limiter.StartVisitorCleanupLoop(ctx, time.Minute)

	srv := &http.Server{
		Addr: ":" + cfg.App.Port,
		Handler: router.NewRouter(router.Options{
			JWTSecret: []byte(cfg.JWT.Secret),
			Limiter:   limiter,
			Logger:    log,
			Gatherer:  registry,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
