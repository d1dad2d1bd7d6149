package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expenso/internal/core"
)

var (
	// DailyWarningThreshold is the daily spend above which the daily insight warns.
	DailyWarningThreshold = decimal.NewFromInt(100)
	// WeeklyWarningThreshold is the weekly spend above which a roast adds a warning.
	WeeklyWarningThreshold = decimal.NewFromInt(500)
)

const (
	NoSpendTodayMessage = "No spending today! Your wallet is proud of you. 🎉"
	NotBrokeMessage     = "You're not broke! Your balance is positive. Keep it up! 💪"
	NoTopCategoryPhrase = "a bit of everything"
	WeeklyWarningPhrase = "That's way too much for a single week. 🚨"
)

// categoryRoasts has one phrase per canonical expense category.
var categoryRoasts = map[string]string{
	core.CategoryFood:     "Your stomach is running this budget. 🍔",
	core.CategoryTravel:   "Exploring the world, one overdraft at a time. ✈️",
	core.CategoryShopping: "Your cart has seen more action than your savings account. 🛍️",
	core.CategoryBills:    "Adulting is expensive, huh? 🧾",
	core.CategoryFun:      "Fun today, ramen tomorrow. 🎉",
	core.CategoryOther:    "Mystery spending is still spending. 🕵️",
}

// brokeRoasts only covers the categories that get a jab when the balance is negative.
var brokeRoasts = map[string]string{
	core.CategoryFood:     "Maybe try cooking at home once in a while? 🍳",
	core.CategoryShopping: "Do you really need another one of those? 🛒",
	core.CategoryFun:      "Fun is great until the bank calls. 🎢",
}

// Report is the full set of texts shown on the insights screen.
type Report struct {
	Daily         string
	WhyBroke      string
	CategoryRoast string
	MoodRoast     string
	Roasting      bool
}

// DailyInsight picks the daily snippet from today's expense total.
func DailyInsight(txs []core.Transaction, now time.Time) string {
	today := TodaySpending(txs, now)
	switch {
	case today.IsZero():
		return NoSpendTodayMessage
	case today.GreaterThan(DailyWarningThreshold):
		return fmt.Sprintf("Whoa! You've already spent %s today. Time to slow down. 💸", today.Round(0).String())
	default:
		name := NoTopCategoryPhrase
		if top, ok := TopCategory(txs); ok {
			name = top.Category
		}
		return fmt.Sprintf("Most of your money goes to %s. Keep an eye on it! 👀", name)
	}
}

// WhyBroke explains a negative balance. A non-negative balance always yields
// NotBrokeMessage.
func WhyBroke(txs []core.Transaction, now time.Time, roasting bool) string {
	if !CalculateBalance(txs).Balance.IsNegative() {
		return NotBrokeMessage
	}

	var b strings.Builder
	if top, ok := TopCategory(txs); ok {
		fmt.Fprintf(&b, "You're in the red mostly because of %s (%s spent).", top.Category, core.FormatAmount(top.Amount))
		if roasting {
			if phrase := brokeRoasts[top.Category]; phrase != "" {
				b.WriteString(" " + phrase)
			}
		}
	} else {
		b.WriteString("You're in the red.")
	}

	weekly := WeeklySpending(txs, now)
	fmt.Fprintf(&b, " This week you spent %s.", core.FormatAmount(weekly))
	if roasting && weekly.GreaterThan(WeeklyWarningThreshold) {
		b.WriteString(" " + WeeklyWarningPhrase)
	}
	return b.String()
}

// CategoryRoast returns the roast phrase for a category, or "" when roasting
// is disabled or the category has no phrase.
func CategoryRoast(category string, roasting bool) string {
	if !roasting {
		return ""
	}
	return categoryRoasts[category]
}

// MoodRoast names the mood with the highest average spend.
func MoodRoast(txs []core.Transaction, roasting bool) string {
	if !roasting {
		return ""
	}
	moods, ok := MoodCorrelation(txs)
	if !ok {
		return ""
	}
	top := moods[0]
	return fmt.Sprintf("You spend the most when you feel %s (%s per purchase on average).", top.Mood, core.FormatAmount(top.Average))
}

// Generate builds every insight text for one snapshot.
func Generate(txs []core.Transaction, now time.Time, roasting bool) Report {
	r := Report{
		Daily:     DailyInsight(txs, now),
		WhyBroke:  WhyBroke(txs, now, roasting),
		MoodRoast: MoodRoast(txs, roasting),
		Roasting:  roasting,
	}
	if top, ok := TopCategory(txs); ok {
		r.CategoryRoast = CategoryRoast(top.Category, roasting)
	}
	return r
}
