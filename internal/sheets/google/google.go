package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expenso/internal/core"
	ports "expenso/internal/sheets"
)

const DefaultSheetName = "Transactions"

// Column layout of the export tab, A through H.
var header = []any{"ID", "Created At", "Type", "Amount", "Category", "Source", "Note", "Mood"}

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.TransactionExporter = (*Exporter)(nil)

// New creates an exporter for one tab of a spreadsheet. Without extra
// options it authenticates with service account credentials from the
// environment.
func New(ctx context.Context, spreadsheetID, sheetName string, opts ...goption.ClientOption) (*Exporter, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	if len(opts) == 0 {
		creds, err := credentialsFromEnv(ctx)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{creds, goption.WithScopes(gsheet.SpreadsheetsScope)}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// credentialsFromEnv reads GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS, in that order.
func credentialsFromEnv(ctx context.Context) (goption.ClientOption, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline service account credentials")
		return goption.WithCredentialsJSON([]byte(serviceAccountJSON)), nil
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading service account credentials", "path", serviceAccountFile)
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return goption.WithCredentialsJSON(data), nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// EnsureHeader writes the column titles when the first row is empty.
func (e *Exporter) EnsureHeader(ctx context.Context) error {
	rng := e.a1("A1:H1")
	resp, err := e.svc.Spreadsheets.Values.Get(e.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", e.sheetName, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	vr := &gsheet.ValueRange{Values: [][]any{header}}
	_, err = e.svc.Spreadsheets.Values.Update(e.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header of %s: %w", e.sheetName, err)
	}
	return nil
}

func (e *Exporter) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if tx.ID == "" {
		return "", errors.New("transaction without id")
	}

	// Redelivered created events must not add a second row.
	existing, err := e.rowsFor(ctx, tx.ID)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		ref := e.a1(fmt.Sprintf("A%d:H%d", existing[0], existing[0]))
		slog.InfoContext(ctx, "Transaction already exported",
			"id", tx.ID,
			"sheet", e.sheetName,
			"range", ref)
		return ref, nil
	}

	rng := e.a1("A:H")
	vr := &gsheet.ValueRange{Values: [][]any{transactionRow(tx)}}

	resp, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", e.sheetName, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", tx.ID,
		"sheet", e.sheetName,
		"range", ref)
	return ref, nil
}

func (e *Exporter) Delete(ctx context.Context, id string) error {
	rows, err := e.rowsFor(ctx, id)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		slog.WarnContext(ctx, "Transaction not present in sheet", "id", id, "sheet", e.sheetName)
		return nil
	}

	for _, row := range rows {
		rowRange := e.a1(fmt.Sprintf("A%d:H%d", row, row))
		_, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, rowRange, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("clear %s: %w", rowRange, err)
		}
	}

	slog.InfoContext(ctx, "Transaction removed from sheet",
		"id", id,
		"sheet", e.sheetName,
		"rows", len(rows))
	return nil
}

// rowsFor returns the 1-based rows whose id column holds id.
func (e *Exporter) rowsFor(ctx context.Context, id string) ([]int, error) {
	resp, err := e.svc.Spreadsheets.Values.Get(e.spreadsheetID, e.a1("A:A")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read ids from %s: %w", e.sheetName, err)
	}
	return matchingRows(resp.Values, id), nil
}

// a1 prefixes cells with the quoted sheet name so names with spaces or
// punctuation stay valid A1 notation.
func (e *Exporter) a1(cells string) string {
	return quoteSheetName(e.sheetName) + "!" + cells
}

func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func transactionRow(tx core.Transaction) []any {
	return []any{
		tx.ID,
		tx.CreatedAt.UTC().Format(time.RFC3339),
		string(tx.Type),
		core.FormatAmount(tx.Amount),
		tx.Category,
		tx.Source,
		tx.Note,
		string(tx.Mood),
	}
}

// matchingRows returns the 1-based sheet rows whose first column equals id.
func matchingRows(values [][]any, id string) []int {
	var rows []int
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			rows = append(rows, i+1)
		}
	}
	return rows
}
