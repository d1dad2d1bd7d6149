package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"expenso/internal/core"
)

// Summary bundles every aggregate computed over one snapshot.
type Summary struct {
	GeneratedAt    time.Time
	Count          int
	Balance        Balance
	Categories     []CategoryAmount
	TopCategory    *CategoryAmount
	Week           []DaySpending
	Today          decimal.Decimal
	WeeklySpending decimal.Decimal
	DailyAverage   decimal.Decimal
	Streak         int
	Moods          []MoodSpending
}

// Summarize runs the whole engine over txs.
func Summarize(txs []core.Transaction, now time.Time) Summary {
	s := Summary{
		GeneratedAt:    now,
		Count:          len(txs),
		Balance:        CalculateBalance(txs),
		Categories:     CategorySpending(txs),
		Week:           WeeklySeries(txs, now),
		Today:          TodaySpending(txs, now),
		WeeklySpending: WeeklySpending(txs, now),
		DailyAverage:   DailyAverage(txs, now),
		Streak:         SpendingStreak(txs, now),
	}
	if len(s.Categories) > 0 {
		top := s.Categories[0]
		s.TopCategory = &top
	}
	if moods, ok := MoodCorrelation(txs); ok {
		s.Moods = moods
	}
	return s
}
