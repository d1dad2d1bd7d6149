package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expenso/internal/amqp"
	"expenso/internal/sheets"
	"expenso/internal/store"
)

// ExportWorker mirrors transaction events into a spreadsheet
type ExportWorker struct {
	store    store.TransactionGetter
	exporter sheets.TransactionExporter
}

func NewExportWorker(st store.TransactionGetter, exporter sheets.TransactionExporter) *ExportWorker {
	return &ExportWorker{
		store:    st,
		exporter: exporter,
	}
}

// HandleEvent processes a single transaction event from AMQP. A returned
// error makes the consumer requeue the message.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"id", ev.ID,
		"kind", ev.Kind,
		"timestamp", ev.Timestamp)

	switch ev.Kind {
	case amqp.EventCreated:
		return w.handleCreated(ctx, ev.ID)
	case amqp.EventDeleted:
		return w.handleDeleted(ctx, ev.ID)
	default:
		// Unknown kinds cannot succeed on retry
		slog.WarnContext(ctx, "Ignoring event of unknown kind", "id", ev.ID, "kind", ev.Kind)
		return nil
	}
}

func (w *ExportWorker) handleCreated(ctx context.Context, id string) error {
	tx, err := w.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		slog.InfoContext(ctx, "Transaction deleted before export, skipping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from store: %w", err)
	}

	ref, err := w.exporter.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"id", id,
		"sheets_ref", ref,
		"type", tx.Type,
		"category", tx.Category)
	return nil
}

func (w *ExportWorker) handleDeleted(ctx context.Context, id string) error {
	if err := w.exporter.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete from sheets: %w", err)
	}
	slog.InfoContext(ctx, "Successfully removed exported transaction", "id", id)
	return nil
}
