package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"loan-simulator/config"
	"loan-simulator/events"
	httpLayer "loan-simulator/http"
	"loan-simulator/logging"
	"loan-simulator/repository"
	"loan-simulator/service"
)

const cacheSweepInterval = time.Minute

type stores struct {
	companies repository.CompanyRepository
	history   repository.SimulationRepository
	close     func() error
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(logCfg)
	logging.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", logging.FieldError, err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", logging.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server exited")
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	cache, memCache, closeCache := openCache(ctx, cfg, logger)
	defer closeCache()

	publisher := openPublisher(cfg, logger)
	defer publisher.Close()

	companyService := service.NewCompanyService(st.companies, logger)
	if cfg.SeedData {
		if _, err := companyService.SeedDefaults(ctx); err != nil {
			return err
		}
	}
	loanService := service.NewLoanService(st.companies, st.history, cache, publisher, logger)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	clients, err := httpLayer.NewClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpLayer.NewRouter(
			httpLayer.NewLoanHandler(loanService),
			httpLayer.NewCompanyHandler(companyService),
			rateLimiter,
			clients,
			logger,
		),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("API listening", logging.FieldOperation, logging.OpStartup, "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...", logging.FieldOperation, logging.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if memCache != nil {
		g.Go(func() error {
			ticker := time.NewTicker(cacheSweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if n := memCache.CleanExpired(); n > 0 {
						logger.Debug("Evicted expired schedules", "count", n)
					}
				}
			}
		})
	}

	return g.Wait()
}

func openStores(cfg *config.Config, logger *logging.Logger) (stores, error) {
	if cfg.DataBackend == config.BackendSQLite {
		store, err := repository.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return stores{}, err
		}
		logger.Info("Using SQLite storage", "path", cfg.SQLiteDBPath)
		return stores{companies: store, history: store, close: store.Close}, nil
	}

	logger.Info("Using in-memory storage")
	return stores{
		companies: repository.NewCompanyRepositoryMemory(),
		history:   repository.NewSimulationRepositoryMemory(service.MaxHistoryLimit),
		close:     func() error { return nil },
	}, nil
}

// openCache prefers Redis and falls back to the in-process cache when Redis
// is not configured or not reachable.
func openCache(
	ctx context.Context,
	cfg *config.Config,
	logger *logging.Logger,
) (repository.CacheRepository, *repository.MemoryCache, func() error) {
	cacheLogger := logger.WithComponent(logging.ComponentCache)

	if cfg.RedisAddr != "" {
		redisCache, err := repository.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL, cacheLogger)
		if err == nil {
			cacheLogger.Info("Using Redis cache", "addr", cfg.RedisAddr)
			return redisCache, nil, redisCache.Close
		}
		cacheLogger.Warn("Redis unavailable, using in-memory cache", logging.FieldError, err)
	}

	mem := repository.NewMemoryCache(cfg.CacheTTL)
	return mem, mem, func() error { return nil }
}

func openPublisher(cfg *config.Config, logger *logging.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.NoopPublisher{}
	}

	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.WithComponent(logging.ComponentEvents).
			Warn("AMQP unavailable, simulation events disabled", logging.FieldError, err)
		return events.NoopPublisher{}
	}
	return publisher
}
