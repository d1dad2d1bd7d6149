package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expenso/internal/adapters"
	"expenso/internal/amqp"
	"expenso/internal/cache"
	"expenso/internal/core"
	"expenso/internal/services"
	"expenso/internal/storage"
	"expenso/internal/storage/postgres"
	"expenso/internal/store"
	"expenso/internal/store/memory"
)

// snapshotCacheSize bounds the snapshot cache; it only ever holds one key today.
const snapshotCacheSize = 4

// DefaultFactory implements Factory
type DefaultFactory struct {
	logger *slog.Logger
	// dialAMQP is replaced in tests
	dialAMQP func(url, exchange, queue string) (services.EventPublisher, error)
}

func NewFactory(logger *slog.Logger) *DefaultFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
		dialAMQP: func(url, exchange, queue string) (services.EventPublisher, error) {
			return amqp.NewClient(url, exchange, queue)
		},
	}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	raw, ready, err := f.openStore(ctx, config)
	if err != nil {
		return nil, err
	}

	result := &Result{Store: raw, Ready: ready}
	var cleanups []CleanupFunc

	if config.CacheTTL > 0 {
		manager := cache.NewManager()
		snapshots := cache.NewLRUCache[[]core.Transaction](snapshotCacheSize, config.CacheTTL)
		manager.Register(snapshots)
		manager.StartCleanup(config.CacheTTL)
		result.Store = adapters.NewCachedStore(raw, snapshots)
		cleanups = append(cleanups, func() error {
			manager.Stop()
			return nil
		})
		f.logger.Info("Snapshot cache enabled", "ttl", config.CacheTTL)
	}

	if config.AMQPURL != "" {
		publisher, err := f.dialAMQP(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without export events", "error", err)
		} else {
			result.Publisher = publisher
			cleanups = append(cleanups, publisher.Close)
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	cleanups = append(cleanups, raw.Close)
	result.Cleanup = func() error {
		var errs []error
		for _, c := range cleanups {
			if err := c(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	f.logger.Info("Initialized backend",
		"type", config.Type,
		"cache_ttl", config.CacheTTL,
		"amqp_enabled", result.Publisher != nil)
	return result, nil
}

func (f *DefaultFactory) openStore(ctx context.Context, config Config) (store.Store, ReadyFunc, error) {
	switch config.Type {
	case MemoryBackend:
		st, err := memory.NewFromFile(config.MemorySeedFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load memory seed: %w", err)
		}
		f.logger.Info("Initialized memory backend", "seed_file", config.MemorySeedFile)
		return st, func(context.Context) error { return nil }, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, repo.Ping, nil

	case PostgresBackend:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		repo, err := postgres.Connect(connectCtx, config.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.Info("Initialized Postgres backend")
		return repo, repo.Ping, nil

	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
