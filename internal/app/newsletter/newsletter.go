package newsletter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/newsletter-service/internal/cache"
	"github.com/magabrotheeeer/newsletter-service/internal/config"
	"github.com/magabrotheeeer/newsletter-service/internal/migrations"
	"github.com/magabrotheeeer/newsletter-service/internal/rabbitmq"
	subservice "github.com/magabrotheeeer/newsletter-service/internal/services/subscription"
	"github.com/magabrotheeeer/newsletter-service/internal/storage"
)

type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *storage.Storage
	cache   *cache.Cache
	amqpCh  *amqp.Channel
	amqpCon *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	amqpCh, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, err
	}
	notifier := rabbitmq.NewNotifier(amqpCh)

	subscriptionService := subservice.NewSubscriptionService(db, notifier, cacheRedis, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, subscriptionService, func() error {
		return storage.CheckDatabaseReady(db)
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		db:      db,
		cache:   cacheRedis,
		amqpCh:  amqpCh,
		amqpCon: amqpConn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.amqpCh.Close()
		_ = a.amqpCon.Close()
		_ = a.db.DB.Close()
		return err
	}
}
