package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/waterx/internal/auth"
	"github.com/rogerio-castellano/waterx/internal/config"
	"github.com/rogerio-castellano/waterx/internal/db"
	"github.com/rogerio-castellano/waterx/internal/events"
	api "github.com/rogerio-castellano/waterx/internal/http"
	"github.com/rogerio-castellano/waterx/internal/http/ban"
	"github.com/rogerio-castellano/waterx/internal/http/handlers"
	rl "github.com/rogerio-castellano/waterx/internal/http/rate_limiter"
	"github.com/rogerio-castellano/waterx/internal/kv"
	"github.com/rogerio-castellano/waterx/internal/logger"
	"github.com/rogerio-castellano/waterx/internal/redissvc"
	"github.com/rogerio-castellano/waterx/internal/repo"
	"github.com/rogerio-castellano/waterx/internal/seed"
	"github.com/rs/zerolog"
)

// @title Waterx API
// @version 1.0
// @description Operations backend for a water delivery business: customers, products, orders, deliveries, employees and finance.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(os.Stderr, "error")
		bootLog.Fatal().Err(err).Msg("❌ Invalid configuration")
	}

	log := logger.New(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	backend, lockout, locker := connectBackend(ctx, cfg, log)
	defer backend.Close()

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("✅ Publishing events to Kafka")
	}
	defer publisher.Close()

	stores := repo.NewStores(backend)
	seeder := seed.NewSeeder(stores.Employees, locker, seed.Admin{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if _, err := seeder.EnsureAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("❌ Could not seed admin user")
	}

	server := handlers.NewServer(handlers.Deps{
		Stores:    stores,
		Auth:      auth.NewService(stores.Employees, auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)),
		Lockout:   lockout,
		Seeder:    seeder,
		Publisher: publisher,
	})

	limiter := rl.New(cfg.LoginRate, cfg.LoginBurst)
	go limiter.StartVisitorCleanupLoop(ctx)
	if mem, ok := lockout.(*ban.MemoryLockout); ok {
		go mem.Cleanup(ctx, time.Minute)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(server, limiter, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.StoreBackend).Msg("✅ Server running on " + cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("❌ Server stopped")
	}
}

// connectBackend opens the configured store backend along with the login
// lockout and seed lock that fit it.
func connectBackend(ctx context.Context, cfg config.Config, log zerolog.Logger) (kv.Backend, ban.Lockout, seed.Locker) {
	memoryLockout := ban.NewMemoryLockout(ban.DefaultLimit, ban.DefaultWindow)

	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb, err := redissvc.Connect(ctx, redissvc.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Could not connect to Redis")
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("✅ Connected to Redis")
		return kv.NewRedis(rdb, cfg.RedisPrefix),
			ban.NewRedisLockout(rdb, cfg.RedisPrefix, ban.DefaultLimit, ban.DefaultWindow),
			seed.NewRedisLocker(rdb, cfg.RedisPrefix+"lock:seed-admin")

	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Could not connect to database")
		}
		backend := kv.NewPostgres(database)
		if err := backend.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("❌ Could not prepare database schema")
		}
		log.Info().Msg("✅ Connected to Postgres")
		return backend, memoryLockout, &seed.MutexLocker{}

	default:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return kv.NewMemory(), memoryLockout, &seed.MutexLocker{}
	}
}
