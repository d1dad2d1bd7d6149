package insights

import (
	"testing"

	"expenso/internal/core"
)

func TestCalculateBalance(t *testing.T) {
	txs := []core.Transaction{
		expense("50", core.CategoryFood, testNow),
		income("1000", core.SourceSalary, testNow),
	}
	b := CalculateBalance(txs)
	if !b.Income.Equal(dec("1000")) || !b.Expense.Equal(dec("50")) || !b.Balance.Equal(dec("950")) {
		t.Fatalf("unexpected balance: %+v", b)
	}

	cats := CategorySpending(txs)
	if len(cats) != 1 || cats[0].Category != core.CategoryFood || !cats[0].Amount.Equal(dec("50")) {
		t.Fatalf("unexpected categories: %+v", cats)
	}
}

func TestCalculateBalanceNegativeAndExact(t *testing.T) {
	txs := []core.Transaction{
		expense("0.1", core.CategoryFood, testNow),
		expense("0.2", core.CategoryFood, testNow),
		income("0.25", core.SourceGift, testNow),
	}
	b := CalculateBalance(txs)
	if !b.Expense.Equal(dec("0.3")) {
		t.Fatalf("expense = %s, want 0.3", b.Expense)
	}
	if !b.Balance.Equal(dec("-0.05")) {
		t.Fatalf("balance = %s, want -0.05", b.Balance)
	}
}

func TestCategorySpendingOrderAndColors(t *testing.T) {
	txs := []core.Transaction{
		expense("10", core.CategoryBills, testNow),
		expense("30", core.CategoryFood, testNow),
		expense("10", "Pets", testNow),
		expense("5", core.CategoryFood, testNow),
		expense("10", core.CategoryTravel, testNow),
		expense("7", "food", testNow),
		income("999", core.SourceSalary, testNow),
	}
	cats := CategorySpending(txs)

	want := []struct {
		name   string
		amount string
	}{
		{core.CategoryFood, "35"},
		{core.CategoryBills, "10"},
		{"Pets", "10"},
		{core.CategoryTravel, "10"},
		{"food", "7"},
	}
	if len(cats) != len(want) {
		t.Fatalf("got %d categories, want %d: %+v", len(cats), len(want), cats)
	}
	for i, w := range want {
		if cats[i].Category != w.name || !cats[i].Amount.Equal(dec(w.amount)) {
			t.Errorf("cats[%d] = %s/%s, want %s/%s", i, cats[i].Category, cats[i].Amount, w.name, w.amount)
		}
	}
	if cats[0].Color != CategoryColor(core.CategoryFood) || cats[0].Color == DefaultCategoryColor {
		t.Errorf("Food color = %s", cats[0].Color)
	}
	if cats[2].Color != DefaultCategoryColor {
		t.Errorf("unknown category color = %s, want %s", cats[2].Color, DefaultCategoryColor)
	}

	sum := dec("0")
	for _, c := range cats {
		sum = sum.Add(c.Amount)
	}
	if !sum.Equal(CalculateBalance(txs).Expense) {
		t.Fatalf("category sum %s != total expense %s", sum, CalculateBalance(txs).Expense)
	}
}

func TestCategoryColorTable(t *testing.T) {
	seen := map[string]string{}
	for _, c := range core.ExpenseCategories() {
		color := CategoryColor(c)
		if color == DefaultCategoryColor {
			t.Errorf("%s has no dedicated color", c)
		}
		if other, dup := seen[color]; dup {
			t.Errorf("%s and %s share color %s", c, other, color)
		}
		seen[color] = c
	}
}

func TestTopCategory(t *testing.T) {
	if _, ok := TopCategory(nil); ok {
		t.Fatal("expected no top category for empty input")
	}
	if _, ok := TopCategory([]core.Transaction{income("10", core.SourceGift, testNow)}); ok {
		t.Fatal("expected no top category without expenses")
	}

	top, ok := TopCategory([]core.Transaction{
		expense("20", core.CategoryFun, testNow),
		expense("20", core.CategoryShopping, testNow),
	})
	if !ok || top.Category != core.CategoryFun {
		t.Fatalf("tie should keep first seen category, got %+v", top)
	}
}
