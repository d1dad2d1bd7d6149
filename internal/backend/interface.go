package backend

import (
	"context"
	"time"

	"expenso/internal/services"
	"expenso/internal/store"
)

// CleanupFunc releases the resources held by a backend
type CleanupFunc func() error

// ReadyFunc reports whether the backend can serve requests
type ReadyFunc func(ctx context.Context) error

// Result is what the service layer needs from a backend
type Result struct {
	// Store is the transaction store, cached when a TTL is configured.
	Store store.Store
	// Publisher is nil when AMQP is disabled or unreachable at startup.
	Publisher services.EventPublisher
	Ready     ReadyFunc
	Cleanup   CleanupFunc
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath   string
	DatabaseURL    string
	MemorySeedFile string

	// CacheTTL of zero disables the snapshot cache
	CacheTTL time.Duration

	// AMQP is optional for every backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
