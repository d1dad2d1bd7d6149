package http

import (
	"time"

	"expenso/internal/core"
	"expenso/internal/insights"
	"expenso/internal/services"
)

// Wire shapes. Amounts are strings with exactly two decimals.
type (
	TransactionDTO struct {
		ID        string    `json:"id"`
		Type      string    `json:"type"`
		Amount    string    `json:"amount"`
		Category  string    `json:"category"`
		Source    string    `json:"source,omitempty"`
		Note      string    `json:"note,omitempty"`
		Mood      string    `json:"mood,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	TransactionListDTO struct {
		Transactions []TransactionDTO `json:"transactions"`
		Count        int              `json:"count"`
	}

	BalanceDTO struct {
		Income  string `json:"income"`
		Expense string `json:"expense"`
		Balance string `json:"balance"`
	}

	CategoryAmountDTO struct {
		Category string `json:"category"`
		Amount   string `json:"amount"`
		Color    string `json:"color"`
	}

	DaySpendingDTO struct {
		Day    string `json:"day"`
		Amount string `json:"amount"`
	}

	MoodSpendingDTO struct {
		Mood    string `json:"mood"`
		Total   string `json:"total"`
		Count   int    `json:"count"`
		Average string `json:"average"`
	}

	SummaryDTO struct {
		GeneratedAt    time.Time           `json:"generated_at"`
		Count          int                 `json:"count"`
		Balance        BalanceDTO          `json:"balance"`
		Categories     []CategoryAmountDTO `json:"categories"`
		TopCategory    *CategoryAmountDTO  `json:"top_category"`
		Week           []DaySpendingDTO    `json:"week"`
		Today          string              `json:"today"`
		WeeklySpending string              `json:"weekly_spending"`
		DailyAverage   string              `json:"daily_average"`
		Streak         int                 `json:"streak"`
		Moods          []MoodSpendingDTO   `json:"moods"`
	}

	ReportDTO struct {
		Daily         string `json:"daily"`
		WhyBroke      string `json:"why_broke"`
		CategoryRoast string `json:"category_roast"`
		MoodRoast     string `json:"mood_roast"`
		Roasting      bool   `json:"roasting"`
	}

	DashboardDTO struct {
		Summary SummaryDTO `json:"summary"`
		Report  ReportDTO  `json:"insights"`
	}

	CategoryDTO struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	CatalogueDTO struct {
		Categories []CategoryDTO `json:"categories"`
		Sources    []string      `json:"sources"`
		Moods      []string      `json:"moods"`
	}
)

func toTransactionDTO(tx core.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:        tx.ID,
		Type:      tx.Type.String(),
		Amount:    core.FormatAmount(tx.Amount),
		Category:  tx.Category,
		Source:    tx.Source,
		Note:      tx.Note,
		Mood:      tx.Mood.String(),
		CreatedAt: tx.CreatedAt,
	}
}

func toTransactionListDTO(txs []core.Transaction) TransactionListDTO {
	out := TransactionListDTO{
		Transactions: make([]TransactionDTO, 0, len(txs)),
		Count:        len(txs),
	}
	for _, tx := range txs {
		out.Transactions = append(out.Transactions, toTransactionDTO(tx))
	}
	return out
}

func toCategoryAmountDTO(c insights.CategoryAmount) CategoryAmountDTO {
	return CategoryAmountDTO{
		Category: c.Category,
		Amount:   core.FormatAmount(c.Amount),
		Color:    c.Color,
	}
}

func toSummaryDTO(s insights.Summary) SummaryDTO {
	out := SummaryDTO{
		GeneratedAt: s.GeneratedAt,
		Count:       s.Count,
		Balance: BalanceDTO{
			Income:  core.FormatAmount(s.Balance.Income),
			Expense: core.FormatAmount(s.Balance.Expense),
			Balance: core.FormatAmount(s.Balance.Balance),
		},
		Categories:     make([]CategoryAmountDTO, 0, len(s.Categories)),
		Week:           make([]DaySpendingDTO, 0, len(s.Week)),
		Today:          core.FormatAmount(s.Today),
		WeeklySpending: core.FormatAmount(s.WeeklySpending),
		DailyAverage:   core.FormatAmount(s.DailyAverage),
		Streak:         s.Streak,
		Moods:          make([]MoodSpendingDTO, 0, len(s.Moods)),
	}
	for _, c := range s.Categories {
		out.Categories = append(out.Categories, toCategoryAmountDTO(c))
	}
	if s.TopCategory != nil {
		top := toCategoryAmountDTO(*s.TopCategory)
		out.TopCategory = &top
	}
	for _, d := range s.Week {
		out.Week = append(out.Week, DaySpendingDTO{
			Day:    d.Day.Format(time.DateOnly),
			Amount: core.FormatAmount(d.Amount),
		})
	}
	for _, m := range s.Moods {
		out.Moods = append(out.Moods, MoodSpendingDTO{
			Mood:    m.Mood.String(),
			Total:   core.FormatAmount(m.Total),
			Count:   m.Count,
			Average: core.FormatAmount(m.Average),
		})
	}
	return out
}

func toReportDTO(r insights.Report) ReportDTO {
	return ReportDTO{
		Daily:         r.Daily,
		WhyBroke:      r.WhyBroke,
		CategoryRoast: r.CategoryRoast,
		MoodRoast:     r.MoodRoast,
		Roasting:      r.Roasting,
	}
}

func toDashboardDTO(d services.Dashboard) DashboardDTO {
	return DashboardDTO{
		Summary: toSummaryDTO(d.Summary),
		Report:  toReportDTO(d.Report),
	}
}

// buildCatalogue lists the canonical categories with their chart colors,
// the income sources and the moods.
func buildCatalogue() CatalogueDTO {
	out := CatalogueDTO{}
	for _, c := range core.ExpenseCategories() {
		out.Categories = append(out.Categories, CategoryDTO{
			Name:  c,
			Color: insights.CategoryColor(c),
		})
	}
	out.Sources = core.IncomeSources()
	for _, m := range core.Moods() {
		out.Moods = append(out.Moods, m.String())
	}
	return out
}
