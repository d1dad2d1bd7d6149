package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expenso/internal/core"
	"expenso/internal/store"
)

// EventPublisher announces transaction changes to downstream consumers
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, id string) error
	PublishTransactionDeleted(ctx context.Context, id string) error
	Close() error
}

// TransactionService orchestrates transaction writes across the store and AMQP
type TransactionService struct {
	store     store.Store
	publisher EventPublisher
}

// NewTransactionService accepts a nil publisher when event export is disabled.
func NewTransactionService(st store.Store, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     st,
		publisher: publisher,
	}
}

// List returns the snapshot, optionally restricted to one transaction type.
func (s *TransactionService) List(ctx context.Context, filter core.TransactionType) ([]core.Transaction, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if filter == "" {
		return txs, nil
	}
	if !filter.IsValid() {
		return nil, core.ErrInvalidType
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == filter {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.Get(ctx, id)
}

// Create validates at the boundary, saves the transaction and publishes a created event
func (s *TransactionService) Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		slog.WarnContext(ctx, "Rejected transaction input",
			"type", in.Type,
			"category", in.Category,
			"error", err)
		return core.Transaction{}, err
	}

	tx, err := s.store.Create(ctx, in)
	if err != nil {
		if core.IsValidationError(err) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionCreated(ctx, tx.ID); err != nil {
			// The transaction is stored; export catches up on the next event
			slog.ErrorContext(ctx, "Failed to publish created event", "id", tx.ID, "error", err)
		}
	}

	return tx, nil
}

// Delete removes the transaction and publishes a deleted event
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionDeleted(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish deleted event", "id", id, "error", err)
		}
	}
	return nil
}
