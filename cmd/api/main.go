package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/flicky/go-shop/internal/cache"
	"github.com/flicky/go-shop/internal/catalog"
	"github.com/flicky/go-shop/internal/config"
	"github.com/flicky/go-shop/internal/handler"
	"github.com/flicky/go-shop/internal/repository"
	"github.com/flicky/go-shop/internal/service"
	"github.com/flicky/go-shop/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	seed := catalog.DefaultSeed()
	if cfg.Shop.CatalogSeedFile != "" {
		seed, err = catalog.LoadSeedFile(cfg.Shop.CatalogSeedFile)
		if err != nil {
			log.Error("load catalog seed", "error", err)
			os.Exit(1)
		}
	}
	cat := catalog.New()
	if err := catalog.Seed(cat, seed); err != nil {
		log.Error("seed catalog", "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "products", cat.Len())

	// Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("connect to Redis", "error", err)
			os.Exit(1)
		}
		log.Info("connected to Redis")
	}

	// RabbitMQ
	var (
		amqpConn    *amqp.Connection
		publisher   service.EventPublisher
		eventWorker *worker.OrderEventWorker
	)
	if cfg.RabbitMQ.Enabled() {
		amqpConn, err = amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			log.Error("connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer amqpConn.Close()

		amqpCh, err := amqpConn.Channel()
		if err != nil {
			log.Error("open RabbitMQ channel", "error", err)
			os.Exit(1)
		}
		defer amqpCh.Close()

		if err := worker.SetupRabbitMQ(amqpCh); err != nil {
			log.Error("setup RabbitMQ", "error", err)
			os.Exit(1)
		}
		log.Info("connected to RabbitMQ")

		publisher = worker.NewPublisher(amqpCh)
		eventWorker = worker.NewOrderEventWorker(amqpCh, redisClient, worker.LogHandler(log), log)
	}

	policy, err := cfg.Shop.StatusPolicy()
	if err != nil {
		log.Error("status policy", "error", err)
		os.Exit(1)
	}

	shop, err := service.NewShop(ctx, cat, repository.NewUserRepository(), publisher, log, service.Config{
		AdminUsername: cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
		BcryptCost:    cfg.Auth.BcryptCost,
		SessionTTL:    cfg.Auth.JWTExpiration,
		StatusPolicy:  policy,
	})
	if err != nil {
		log.Error("create shop", "error", err)
		os.Exit(1)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Shop:         shop,
		ProductCache: cache.NewProductCache(redisClient, cfg.Redis.ProductCacheTTL),
		Health:       handler.NewHealthHandler(redisClient, amqpConn),
		JWTSecret:    cfg.Auth.JWTSecret,
		JWTExpiry:    cfg.Auth.JWTExpiration,
	})

	if eventWorker != nil {
		if err := eventWorker.Start(ctx); err != nil {
			log.Error("start order event worker", "error", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	if eventWorker != nil {
		eventWorker.Stop()
		time.Sleep(500 * time.Millisecond)
	}
	cancel()
	log.Info("server stopped")
}
