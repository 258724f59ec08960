package budget

import (
	"errors"
	"testing"

	"budgetplan/internal/models"
)

// calculatedPeriods returns n periods with the same income and expense, calculated
func calculatedPeriods(n int, income, expense int64) []models.LedgerPeriod {
	periods := newPeriods(n)
	for i := range periods {
		periods[i].Incomes = []models.IncomeEntry{{Category: "Salario", Amount: income}}
		periods[i].Expenses = []models.ExpenseEntry{{Description: "Arriendo", Type: "Arriendo", Amount: expense}}
	}
	CalculateAll(periods)
	return periods
}

func TestResolveCarryOver(t *testing.T) {
	// balance 200, spending 35% = 70, nothing saved: 130 left each month
	periods := calculatedPeriods(3, 1000, 800)
	periods[0].SavingsActual = 60

	steps, err := ResolveCarryOver(periods, nil)
	if err != nil {
		t.Fatalf("ResolveCarryOver failed: %v", err)
	}

	want := []struct{ carry, available int64 }{
		{0, 70},
		{70, 200},
		{200, 330},
	}
	for i, w := range want {
		if periods[i].CarryIn != w.carry || periods[i].Available != w.available {
			t.Errorf("period %d carry/available = %d/%d, want %d/%d",
				i, periods[i].CarryIn, periods[i].Available, w.carry, w.available)
		}
		if steps[i].Available != w.available {
			t.Errorf("step %d available = %d, want %d", i, steps[i].Available, w.available)
		}
	}
}

func TestResolveCarryOverInvestments(t *testing.T) {
	periods := calculatedPeriods(3, 1000, 800)
	investments := []models.Investment{
		{ID: "a", Concept: "Oro", Amount: 100, PeriodID: periods[1].ID},
		{ID: "b", Concept: "Oro", Amount: 20, PeriodID: periods[1].ID},
		{ID: "c", Concept: "Oro", Amount: 999, PeriodID: "1999-01"},
	}

	steps, err := ResolveCarryOver(periods, investments)
	if err != nil {
		t.Fatalf("ResolveCarryOver failed: %v", err)
	}
	if steps[1].Invested != 120 {
		t.Errorf("period 1 invested = %d, want 120", steps[1].Invested)
	}
	// 130 + 130 - 120
	if periods[1].Available != 140 {
		t.Errorf("period 1 available = %d, want 140", periods[1].Available)
	}
	if periods[2].Available != 270 {
		t.Errorf("period 2 available = %d, want 270", periods[2].Available)
	}
}

func TestResolveCarryOverFloorsAtZero(t *testing.T) {
	periods := calculatedPeriods(3, 1000, 800)
	periods[1].Expenses[0].Amount = 3000
	CalculateAll(periods)

	if _, err := ResolveCarryOver(periods, nil); err != nil {
		t.Fatalf("ResolveCarryOver failed: %v", err)
	}
	if periods[1].Available != 0 {
		t.Errorf("period 1 available = %d, want 0", periods[1].Available)
	}
	// The deficit is not carried forward
	if periods[2].CarryIn != 0 || periods[2].Available != 130 {
		t.Errorf("period 2 carry/available = %d/%d, want 0/130", periods[2].CarryIn, periods[2].Available)
	}
	for i, p := range periods {
		if p.Available < 0 {
			t.Errorf("period %d available is negative: %d", i, p.Available)
		}
	}
}

func TestResolveCarryOverChronological(t *testing.T) {
	periods := calculatedPeriods(3, 1000, 800)
	periods[0], periods[2] = periods[2], periods[0]

	if _, err := ResolveCarryOver(periods, nil); err != nil {
		t.Fatalf("ResolveCarryOver failed: %v", err)
	}
	// periods[2] is now the earliest month
	if periods[2].CarryIn != 0 || periods[2].Available != 130 {
		t.Errorf("earliest carry/available = %d/%d, want 0/130", periods[2].CarryIn, periods[2].Available)
	}
	if periods[0].Available != 390 {
		t.Errorf("latest available = %d, want 390", periods[0].Available)
	}
}

func TestResolveCarryOverEmpty(t *testing.T) {
	_, err := ResolveCarryOver(nil, nil)
	if !errors.Is(err, ErrNoPeriods) {
		t.Errorf("err = %v, want ErrNoPeriods", err)
	}
}
