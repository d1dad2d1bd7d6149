package insights

import (
	"testing"
	"time"

	"expenso/internal/core"
)

func TestSpendingStreak(t *testing.T) {
	run := func(days ...int) []core.Transaction {
		var txs []core.Transaction
		for _, d := range days {
			txs = append(txs, expense("1", core.CategoryFood, daysAgo(d)))
		}
		return txs
	}

	cases := []struct {
		name string
		txs  []core.Transaction
		want int
	}{
		{"empty", nil, 0},
		{"nothing today", run(1, 2, 3), 0},
		{"today only", run(0), 1},
		{"three days then gap", run(0, 1, 2, 4, 5), 3},
		{"duplicates on a day", run(0, 0, 1, 1), 2},
		{"income does not count", append(run(0), income("5", core.SourceGift, daysAgo(1))), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SpendingStreak(tc.txs, testNow); got != tc.want {
				t.Fatalf("streak = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSpendingStreakCappedAtThirtyDays(t *testing.T) {
	var txs []core.Transaction
	for d := 0; d < 45; d++ {
		txs = append(txs, expense("1", core.CategoryFood, daysAgo(d)))
	}
	if got := SpendingStreak(txs, testNow); got != MaxStreakDays {
		t.Fatalf("streak = %d, want %d", got, MaxStreakDays)
	}
}

func TestSpendingStreakUsesCallerLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, loc)
	// 02:00 UTC on the 15th is still the 14th in UTC-5.
	txs := []core.Transaction{
		expense("1", core.CategoryFood, time.Date(2025, 6, 15, 2, 0, 0, 0, time.UTC)),
		expense("1", core.CategoryFood, now),
	}
	if got := SpendingStreak(txs, now); got != 2 {
		t.Fatalf("streak = %d, want 2", got)
	}
}
