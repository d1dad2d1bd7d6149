package insights

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"expenso/internal/core"
)

// WeekDays is the length of the chart series returned by WeeklySeries.
const WeekDays = 7

// DaySpending is the expense total of a single calendar day.
type DaySpending struct {
	Day    time.Time // start of the day in the caller's location
	Amount decimal.Decimal
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DailySpending returns the expense totals of the last days calendar days,
// today included, oldest first. Each day covers (start, next start).
func DailySpending(txs []core.Transaction, now time.Time, days int) []DaySpending {
	if days <= 0 {
		return []DaySpending{}
	}
	today := StartOfDay(now)
	out := make([]DaySpending, days)
	for i := range out {
		out[i] = DaySpending{
			Day:    today.AddDate(0, 0, i-(days-1)),
			Amount: decimal.Zero,
		}
	}
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		for i := range out {
			if inDay(tx.CreatedAt, out[i].Day) {
				out[i].Amount = out[i].Amount.Add(tx.Amount)
				break
			}
		}
	}
	return out
}

// WeeklySeries is the seven-day chart series ending today.
func WeeklySeries(txs []core.Transaction, now time.Time) []DaySpending {
	return DailySpending(txs, now, WeekDays)
}

// TodaySpending sums expenses created strictly after today's midnight.
func TodaySpending(txs []core.Transaction, now time.Time) decimal.Decimal {
	return sumExpensesAfter(txs, StartOfDay(now))
}

// WeeklySpending sums expenses created strictly after now minus seven days.
func WeeklySpending(txs []core.Transaction, now time.Time) decimal.Decimal {
	return sumExpensesAfter(txs, now.Add(-WeekDays*24*time.Hour))
}

// DailyAverage divides the expense total by the number of days elapsed since
// the oldest expense, counting at least one day.
func DailyAverage(txs []core.Transaction, now time.Time) decimal.Decimal {
	total := decimal.Zero
	var oldest time.Time
	found := false
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		total = total.Add(tx.Amount)
		if !found || tx.CreatedAt.Before(oldest) {
			oldest = tx.CreatedAt
			found = true
		}
	}
	if !found {
		return decimal.Zero
	}
	days := int64(math.Ceil(now.Sub(oldest).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return total.Div(decimal.NewFromInt(days))
}

func sumExpensesAfter(txs []core.Transaction, after time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.IsExpense() && tx.CreatedAt.After(after) {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

// inDay reports whether t falls strictly after dayStart and before the next
// day's start, the same lower bound TodaySpending uses.
func inDay(t, dayStart time.Time) bool {
	return t.After(dayStart) && t.Before(dayStart.AddDate(0, 0, 1))
}
