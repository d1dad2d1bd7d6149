package store

import (
	"context"
	"errors"

	"expenso/internal/core"
)

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

// Ports implemented by every transaction backend.
type (
	// TransactionLister returns every transaction, newest first.
	TransactionLister interface {
		List(ctx context.Context) ([]core.Transaction, error)
	}

	TransactionGetter interface {
		Get(ctx context.Context, id string) (core.Transaction, error)
	}

	// TransactionCreator persists a validated input and returns the stored
	// transaction with its assigned id and creation time.
	TransactionCreator interface {
		Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	}

	// TransactionDeleter removes a transaction. Deleting an unknown id
	// returns ErrNotFound.
	TransactionDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// Store is the full transaction store client.
	Store interface {
		TransactionLister
		TransactionGetter
		TransactionCreator
		TransactionDeleter
		Close() error
	}
)
