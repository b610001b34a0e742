// Package app assembles the application from its parts: storage, domain
// services, event publishing, and the HTTP surface.
package app

import (
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/example/ec-shop-core/internal/api"
	"github.com/example/ec-shop-core/internal/auth"
	"github.com/example/ec-shop-core/internal/config"
	"github.com/example/ec-shop-core/internal/domain/cart"
	"github.com/example/ec-shop-core/internal/domain/catalog"
	"github.com/example/ec-shop-core/internal/domain/order"
	"github.com/example/ec-shop-core/internal/infrastructure/kafka"
	"github.com/example/ec-shop-core/internal/infrastructure/memory"
	"github.com/example/ec-shop-core/internal/infrastructure/postgres"
	"github.com/example/ec-shop-core/internal/infrastructure/redis"
)

type App struct {
	Logger  *logrus.Logger
	Router  http.Handler
	closers []func() error
}

func New(cfg *config.Config) (*App, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	a := &App{Logger: logger}

	productRepo, cartRepo, orderRepo, userRepo, err := a.buildStorage(cfg)
	if err != nil {
		return nil, err
	}

	var publisher order.EventPublisher
	if cfg.EventsEnabled() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger.WithField("component", "kafka"))
		a.closers = append(a.closers, producer.Close)
		publisher = producer
		logger.WithFields(logrus.Fields{
			"brokers": cfg.KafkaBrokers,
			"topic":   cfg.KafkaTopic,
		}).Info("order events enabled")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry)

	catalogSvc := catalog.NewService(productRepo, logger.WithField("component", "catalog"))
	cartSvc := cart.NewService(cartRepo, &productFetcher{products: productRepo}, logger.WithField("component", "cart"))
	orderSvc := order.NewService(orderRepo, &cartFetcher{carts: cartRepo}, publisher, logger.WithField("component", "order"))
	authSvc := auth.NewService(userRepo, tokens, cfg.AdminEmail, logger.WithField("component", "auth"))

	a.Router = api.NewRouter(api.RouterConfig{
		Handlers:     api.NewHandlers(catalogSvc, cartSvc, orderSvc, logger.WithField("component", "api")),
		AuthHandlers: api.NewAuthHandlers(authSvc, logger.WithField("component", "api")),
		Tokens:       tokens,
		Logger:       logger.WithField("component", "api"),
	})

	return a, nil
}

func (a *App) buildStorage(cfg *config.Config) (catalog.Repository, cart.Repository, order.Repository, auth.UserRepository, error) {
	if cfg.Storage == config.StorageMemory {
		a.Logger.Info("using in-memory storage")
		return memory.NewProductRepository(), memory.NewCartRepository(), memory.NewOrderRepository(), memory.NewUserRepository(), nil
	}

	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	if err := postgres.Migrate(db); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	a.Logger.Info("connected to postgres")

	// Carts live in Redis next to the durable Postgres tables. When no
	// Redis address is configured they fall back to memory.
	var cartRepo cart.Repository
	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		a.closers = append(a.closers, client.Close)
		cartRepo = redis.NewCartRepository(client)
		a.Logger.WithField("addr", cfg.RedisAddr).Info("carts stored in redis")
	} else {
		cartRepo = memory.NewCartRepository()
		a.Logger.Warn("REDIS_ADDR not set, carts stored in memory")
	}

	return postgres.NewProductRepository(db), cartRepo, postgres.NewOrderRepository(db), postgres.NewUserRepository(db), nil
}

// Close releases infrastructure handles in reverse acquisition order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.WithError(err).Warn("close failed")
		}
	}
}
