package core

// Expense categories.
const (
	CategoryFood     = "Food"
	CategoryTravel   = "Travel"
	CategoryShopping = "Shopping"
	CategoryBills    = "Bills"
	CategoryFun      = "Fun"
	CategoryOther    = "Other"
)

// Income sources. They are stored in the Category field of an income.
const (
	SourceSalary     = "Salary"
	SourceFreelance  = "Freelance"
	SourceInvestment = "Investment"
	SourceGift       = "Gift"
	SourceOther      = "Other"
)

// Mood is an opaque tag attached to an expense. Values are glyphs but are
// only ever compared as whole strings.
type Mood string

const (
	MoodHappy   Mood = "😊"
	MoodNeutral Mood = "😐"
	MoodSad     Mood = "😢"
	MoodAngry   Mood = "😤"
	MoodExcited Mood = "🤩"
)

var (
	expenseCategories = []string{CategoryFood, CategoryTravel, CategoryShopping, CategoryBills, CategoryFun, CategoryOther}
	incomeSources     = []string{SourceSalary, SourceFreelance, SourceInvestment, SourceGift, SourceOther}
	moods             = []Mood{MoodHappy, MoodNeutral, MoodSad, MoodAngry, MoodExcited}
)

// ExpenseCategories returns the canonical expense categories in display order.
func ExpenseCategories() []string {
	return append([]string(nil), expenseCategories...)
}

// IncomeSources returns the canonical income sources in display order.
func IncomeSources() []string {
	return append([]string(nil), incomeSources...)
}

// Moods returns the known moods in display order.
func Moods() []Mood {
	return append([]Mood(nil), moods...)
}

func IsExpenseCategory(c string) bool {
	for _, v := range expenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

func IsIncomeSource(s string) bool {
	for _, v := range incomeSources {
		if v == s {
			return true
		}
	}
	return false
}

// IsKnown reports whether m is one of the registered moods.
func (m Mood) IsKnown() bool {
	for _, v := range moods {
		if v == m {
			return true
		}
	}
	return false
}

func (m Mood) String() string {
	return string(m)
}
