package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// MaxNoteLength bounds the free-text note attached to a transaction.
const MaxNoteLength = 200

type (
	TransactionType string

	// Transaction is an immutable money movement. ID and CreatedAt are
	// assigned by the store on creation.
	Transaction struct {
		ID        string
		Type      TransactionType
		Amount    decimal.Decimal
		Category  string
		Source    string // Income only, mirrors Category
		Note      string
		Mood      Mood // Expense only
		CreatedAt time.Time
	}

	// TransactionInput is what a caller provides to create a transaction.
	TransactionInput struct {
		Type     TransactionType
		Amount   decimal.Decimal
		Category string
		Source   string
		Note     string
		Mood     Mood
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrUnknownCategory = errors.New("unknown expense category")
	ErrUnknownSource   = errors.New("unknown income source")
	ErrSourceOnExpense = errors.New("source is only allowed on income")
	ErrMoodOnIncome    = errors.New("mood is only allowed on expenses")
	ErrUnknownMood     = errors.New("unknown mood")
	ErrNoteTooLong     = errors.New("note too long (max 200 characters)")
)

// IsValid reports whether t is one of the two known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Expense, Income:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool {
	return t.Type == Expense
}

// IsIncome reports whether the transaction is an income.
func (t Transaction) IsIncome() bool {
	return t.Type == Income
}

// Normalize trims free-text fields and fills Source for income so that it
// mirrors Category.
func (in TransactionInput) Normalize() TransactionInput {
	in.Type = TransactionType(strings.ToLower(strings.TrimSpace(string(in.Type))))
	in.Category = strings.TrimSpace(in.Category)
	in.Source = strings.TrimSpace(in.Source)
	in.Note = strings.TrimSpace(in.Note)
	in.Mood = Mood(strings.TrimSpace(string(in.Mood)))
	if in.Type == Income && in.Source == "" {
		in.Source = in.Category
	}
	return in
}

func (in TransactionInput) Validate() error {
	if !in.Type.IsValid() {
		return ErrInvalidType
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if len([]rune(in.Note)) > MaxNoteLength {
		return ErrNoteTooLong
	}

	switch in.Type {
	case Expense:
		if !IsExpenseCategory(in.Category) {
			return ErrUnknownCategory
		}
		if in.Source != "" {
			return ErrSourceOnExpense
		}
		if in.Mood != "" && !in.Mood.IsKnown() {
			return ErrUnknownMood
		}
	case Income:
		if !IsIncomeSource(in.Category) {
			return ErrUnknownSource
		}
		if in.Source != "" && !IsIncomeSource(in.Source) {
			return ErrUnknownSource
		}
		if in.Mood != "" {
			return ErrMoodOnIncome
		}
	}
	return nil
}

// Build turns a validated input into a Transaction with the given identity.
func (in TransactionInput) Build(id string, createdAt time.Time) Transaction {
	return Transaction{
		ID:        id,
		Type:      in.Type,
		Amount:    in.Amount,
		Category:  in.Category,
		Source:    in.Source,
		Note:      in.Note,
		Mood:      in.Mood,
		CreatedAt: createdAt,
	}
}

// IsValidationError reports whether err is one of the input validation
// failures defined in this package.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidType, ErrInvalidAmount, ErrEmptyCategory, ErrUnknownCategory,
		ErrUnknownSource, ErrSourceOnExpense, ErrMoodOnIncome, ErrUnknownMood,
		ErrNoteTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
