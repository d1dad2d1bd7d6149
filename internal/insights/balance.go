// Package insights aggregates transaction snapshots into balances, category
// breakdowns, time-windowed sums, streaks and mood correlations, and turns
// those numbers into short rule-based texts.
//
// Every function is pure: it reads the slice it is given, never mutates it
// and keeps no state between calls. Time-dependent functions take "now"
// explicitly and compute calendar days in now.Location().
package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"expenso/internal/core"
)

// Balance holds totals per transaction type.
type Balance struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal // Income - Expense
}

// CategoryAmount is the expense total of one category with its chart color.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
	Color    string
}

// DefaultCategoryColor is used for categories outside the canonical set.
const DefaultCategoryColor = "#9E9E9E"

var categoryColors = map[string]string{
	core.CategoryFood:     "#FF6B6B",
	core.CategoryTravel:   "#4ECDC4",
	core.CategoryShopping: "#FFD93D",
	core.CategoryBills:    "#6C5CE7",
	core.CategoryFun:      "#FF8CC6",
	core.CategoryOther:    "#95A5A6",
}

// CategoryColor returns the chart color of a category.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return DefaultCategoryColor
}

// CalculateBalance sums incomes and expenses separately. No rounding is applied.
func CalculateBalance(txs []core.Transaction) Balance {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			income = income.Add(tx.Amount)
		case core.Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Balance{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// CategorySpending groups expenses by exact category name and returns the
// groups sorted by amount, largest first. Equal amounts keep the order in
// which their category was first seen.
func CategorySpending(txs []core.Transaction) []CategoryAmount {
	index := make(map[string]int)
	var out []CategoryAmount
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryAmount{
				Category: tx.Category,
				Amount:   decimal.Zero,
				Color:    CategoryColor(tx.Category),
			})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// TopCategory returns the expense category with the highest total.
// The boolean is false when there are no expenses.
func TopCategory(txs []core.Transaction) (CategoryAmount, bool) {
	cats := CategorySpending(txs)
	if len(cats) == 0 {
		return CategoryAmount{}, false
	}
	return cats[0], true
}
