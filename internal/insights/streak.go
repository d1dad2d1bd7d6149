package insights

import (
	"time"

	"expenso/internal/core"
)

// MaxStreakDays bounds how far back SpendingStreak looks. A streak longer
// than this is reported as MaxStreakDays.
const MaxStreakDays = 30

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{y, m, d}
}

// SpendingStreak counts consecutive calendar days, starting today and going
// backwards, with at least one expense. It stops at the first day without one.
func SpendingStreak(txs []core.Transaction, now time.Time) int {
	loc := now.Location()
	today := StartOfDay(now)
	oldest := today.AddDate(0, 0, -(MaxStreakDays - 1))

	active := make(map[dayKey]struct{})
	for _, tx := range txs {
		if !tx.IsExpense() || tx.CreatedAt.Before(oldest) {
			continue
		}
		active[keyOf(tx.CreatedAt.In(loc))] = struct{}{}
	}

	streak := 0
	for i := 0; i < MaxStreakDays; i++ {
		if _, ok := active[keyOf(today.AddDate(0, 0, -i))]; !ok {
			break
		}
		streak++
	}
	return streak
}
