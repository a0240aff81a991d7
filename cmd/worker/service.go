package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	analyticsworker "github.com/rmarquezdev/supplycart-backend/internal/analytics/worker"
	"github.com/rmarquezdev/supplycart-backend/internal/notifications"
	"github.com/rmarquezdev/supplycart-backend/pkg/bigquery"
	"github.com/rmarquezdev/supplycart-backend/pkg/config"
	"github.com/rmarquezdev/supplycart-backend/pkg/db"
	"github.com/rmarquezdev/supplycart-backend/pkg/logger"
	"github.com/rmarquezdev/supplycart-backend/pkg/pubsub"
	"github.com/rmarquezdev/supplycart-backend/pkg/redis"
)

const consumerDrainTimeout = 10 * time.Second

type ServiceParams struct {
	Config               *config.Config
	Logger               *logger.Logger
	DB                   *db.Client
	Redis                *redis.Client
	PubSub               *pubsub.Client
	BigQuery             *bigquery.Client
	NotificationConsumer *notifications.Consumer
	AnalyticsWorker      *analyticsworker.Service
}

type Service struct {
	cfg                  *config.Config
	logg                 *logger.Logger
	db                   *db.Client
	redis                *redis.Client
	pubsub               *pubsub.Client
	bigquery             *bigquery.Client
	notificationConsumer *notifications.Consumer
	analyticsWorker      *analyticsworker.Service
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if params.PubSub == nil {
		return nil, errors.New("pubsub client is required")
	}
	if params.BigQuery == nil {
		return nil, errors.New("bigquery client is required")
	}
	if params.NotificationConsumer == nil {
		return nil, errors.New("notification consumer is required")
	}
	if params.AnalyticsWorker == nil {
		return nil, errors.New("analytics worker is required")
	}

	return &Service{
		cfg:                  params.Config,
		logg:                 params.Logger,
		db:                   params.DB,
		redis:                params.Redis,
		pubsub:               params.PubSub,
		bigquery:             params.BigQuery,
		notificationConsumer: params.NotificationConsumer,
		analyticsWorker:      params.AnalyticsWorker,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := pingDependency(ctx, s.logg, "database", s.db.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "redis", s.redis.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "pubsub", s.pubsub.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "bigquery", s.bigquery.Ping); err != nil {
		return err
	}
	s.logg.Info(ctx, "all worker dependencies are ready")
	return nil
}

func pingDependency(ctx context.Context, logg *logger.Logger, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		logg.Error(ctx, fmt.Sprintf("%s ping failed", name), err)
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	errCh := make(chan error, 2)
	go func() {
		errCh <- s.notificationConsumer.Run(runCtx)
	}()
	go func() {
		errCh <- s.analyticsWorker.Run(runCtx)
	}()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "worker context canceled")
			cancel()
			return drainConsumers(errCh, 2, ctx.Err())
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logg.Error(ctx, "consumer stopped unexpectedly", err)
			}
			cancel()
			return drainConsumers(errCh, 1, err)
		case <-ticker.C:
			// s.logg.Info(ctx, "worker.heartbeat")
		}
	}
}

// drainConsumers waits for the remaining consumers after one stops so a
// failure in one does not hide a concurrent failure in another. Cancellation
// results are dropped from the combined error.
func drainConsumers(errCh chan error, pending int, first error) error {
	combined := first
	timeout := time.After(consumerDrainTimeout)
	for i := 0; i < pending; i++ {
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				combined = multierr.Append(combined, err)
			}
		case <-timeout:
			return multierr.Append(combined, errors.New("timed out waiting for consumers to stop"))
		}
	}
	return combined
}
