package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"expenso/internal/core"
)

var testNow = time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expense(amount, category string, at time.Time) core.Transaction {
	return core.Transaction{ID: category + at.String(), Type: core.Expense, Amount: dec(amount), Category: category, CreatedAt: at}
}

func moodExpense(amount string, mood core.Mood, at time.Time) core.Transaction {
	tx := expense(amount, core.CategoryFun, at)
	tx.Mood = mood
	return tx
}

func income(amount, source string, at time.Time) core.Transaction {
	return core.Transaction{ID: source + at.String(), Type: core.Income, Amount: dec(amount), Category: source, Source: source, CreatedAt: at}
}

// daysAgo returns noon of the calendar day n days before testNow.
func daysAgo(n int) time.Time {
	return StartOfDay(testNow).AddDate(0, 0, -n).Add(12 * time.Hour)
}
