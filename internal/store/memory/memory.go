package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"expenso/internal/core"
	"expenso/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps transactions in process memory. It is the default backend for
// local development and the reference behaviour for the other stores.
type Store struct {
	mu    sync.Mutex
	now   func() time.Time
	items []core.Transaction
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromFile seeds a store from a CSV file with the header
// type,amount,category,note,mood,created_at. A missing file yields an empty
// store; malformed rows are reported.
func NewFromFile(path string, opts ...Option) (*Store, error) {
	s := New(opts...)
	if path == "" {
		return s, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	seeded, err := readSeed(f)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	s.items = seeded
	sortNewestFirst(s.items)
	return s, nil
}

func (s *Store) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...), nil
}

func (s *Store) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.items {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

// Create validates and stores the input with a fresh UUID.
func (s *Store) Create(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx := in.Build(uuid.NewString(), s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	sortNewestFirst(s.items)
	return tx, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) Close() error {
	return nil
}

func sortNewestFirst(items []core.Transaction) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func readSeed(r io.Reader) ([]core.Transaction, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	var out []core.Transaction
	for i, rec := range records {
		if i == 0 && strings.EqualFold(rec[0], "type") {
			continue
		}
		amount, err := core.ParseAmount(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		in := core.TransactionInput{
			Type:     core.TransactionType(rec[0]),
			Amount:   amount,
			Category: rec[2],
			Note:     rec[3],
			Mood:     core.Mood(rec[4]),
		}.Normalize()
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		createdAt, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[5]))
		if err != nil {
			return nil, fmt.Errorf("line %d: created_at: %w", i+1, err)
		}
		out = append(out, in.Build(uuid.NewString(), createdAt))
	}
	return out, nil
}
