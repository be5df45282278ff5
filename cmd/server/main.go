package main

import (
	"context"   // context package is needed for Redis and tracing setup
	"net/http"  // HTTP server with graceful shutdown
	"os"        // Signal values
	"os/signal" // Stop on SIGINT/SIGTERM
	"syscall"   // SIGTERM
	"time"      // Shutdown deadline

	"vegetable_inventory/internal/api"       // Custom package for HTTP routes
	"vegetable_inventory/internal/auth"      // Registration and login
	"vegetable_inventory/internal/config"    // Custom package for configuration
	"vegetable_inventory/internal/db"        // Database connection and migrations
	"vegetable_inventory/internal/inventory" // Vegetable storage
	"vegetable_inventory/internal/session"   // Signed session cookie
	"vegetable_inventory/internal/telemetry" // Tracing and metrics
	"vegetable_inventory/internal/utils"     // Redis cache

	"github.com/gin-gonic/gin"                     // Gin web framework
	"github.com/pkg/errors"                        // Error wrapping
	"github.com/redis/go-redis/extra/redisotel/v9" // Redis tracing and metrics
	"github.com/redis/go-redis/v9"                 // Redis client
	"github.com/sirupsen/logrus"                   // Logrus for structured logging
)

const serviceName = "vegetable-inventory"

// shutdownTimeout bounds draining requests and flushing telemetry
const shutdownTimeout = 5 * time.Second

// Main function to set up and run the server
func main() {
	// Setup logger
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err) // Fatal error if required settings are missing
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("invalid LOG_LEVEL: %v", err)
	}
	log.SetLevel(level)
	log.Infof("starting with %s", cfg)

	// run returns instead of exiting so its deferred cleanup always happens
	if err := run(cfg, log); err != nil {
		logrus.Fatalf("server failed: %v", err)
	}
	log.Info("Server stopped")
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, serviceName)
	if err != nil {
		return errors.Wrap(err, "failed to start tracing")
	}
	shutdownMetrics, err := telemetry.InitMetrics(ctx, cfg.OTLPEndpoint, serviceName)
	if err != nil {
		return errors.Wrap(err, "failed to start metrics")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("tracer shutdown failed")
		}
		if err := shutdownMetrics(sctx); err != nil {
			log.WithError(err).Warn("meter shutdown failed")
		}
	}()

	// Connect to the database and create tables
	gdb, err := db.Open(cfg.DatabaseURL, log)
	if err != nil {
		return errors.Wrap(err, "failed to connect to DB")
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(gdb); err != nil {
		return errors.Wrap(err, "failed to migrate DB")
	}

	vegetables := inventory.NewRepository(gdb)
	if cfg.CacheEnabled() {
		// Setup Redis client
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		defer redisClient.Close()

		// Trace and measure Redis commands
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			return errors.Wrap(err, "failed to instrument Redis tracing")
		}
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			return errors.Wrap(err, "failed to instrument Redis metrics")
		}

		// Test Redis connection
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			return errors.Wrap(err, "failed to connect to Redis")
		}
		vegetables = inventory.NewCachedRepository(vegetables, utils.NewRedisCache(redisClient), cfg.CacheTTL, log)
		log.WithField("addr", cfg.RedisAddr).Info("inventory cache enabled")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.Dependencies{
		DB:             gdb,
		Vegetables:     vegetables,
		Auth:           auth.NewService(auth.NewUserRepository(gdb), cfg.BcryptCost),
		Sessions:       session.NewStore(cfg.SecretKey, cfg.SessionTTL, cfg.IsProd),
		Log:            log,
		TrustedProxies: []string{"127.0.0.1"},
	})
	if err != nil {
		return errors.Wrap(err, "failed to set up router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort, // Listen on cfg.AppPort
		Handler:           r,                 // Gin engine
		ReadHeaderTimeout: 10 * time.Second,  // Slow clients cannot hold connections open
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server running on " + cfg.AppPort) // Log server start
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "server stopped") // Could not listen
	case <-ctx.Done():
		log.Info("Gracefully shutting down...")
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return errors.Wrap(err, "shutdown failed")
	}
	return nil
}
