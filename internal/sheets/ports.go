package sheets

import (
	"context"

	"expenso/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	// TransactionWriter appends one row per transaction and returns the written range.
	TransactionWriter interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// TransactionRemover clears every row carrying the given transaction id.
	// Removing an id that was never exported is not an error.
	TransactionRemover interface {
		Delete(ctx context.Context, id string) error
	}

	TransactionExporter interface {
		TransactionWriter
		TransactionRemover
	}
)
