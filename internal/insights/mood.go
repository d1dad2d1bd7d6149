package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"expenso/internal/core"
)

// MoodSpending is the spending observed for one mood.
type MoodSpending struct {
	Mood    core.Mood
	Total   decimal.Decimal
	Count   int
	Average decimal.Decimal
}

// MoodCorrelation groups expenses carrying a mood and returns per-mood totals
// sorted by average spend per expense, highest first. The boolean is false
// when no expense has a mood.
func MoodCorrelation(txs []core.Transaction) ([]MoodSpending, bool) {
	index := make(map[core.Mood]int)
	var out []MoodSpending
	for _, tx := range txs {
		if !tx.IsExpense() || tx.Mood == "" {
			continue
		}
		i, ok := index[tx.Mood]
		if !ok {
			i = len(out)
			index[tx.Mood] = i
			out = append(out, MoodSpending{Mood: tx.Mood, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(tx.Amount)
		out[i].Count++
	}
	if len(out) == 0 {
		return nil, false
	}
	for i := range out {
		out[i].Average = out[i].Total.Div(decimal.NewFromInt(int64(out[i].Count)))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Average.GreaterThan(out[j].Average)
	})
	return out, true
}
