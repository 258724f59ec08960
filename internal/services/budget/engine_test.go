package budget

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"budgetplan/internal/models"
)

var engineNow = time.Date(2025, time.June, 15, 9, 30, 0, 0, time.Local)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(nil).WithClock(func() time.Time { return engineNow })
}

// builtEngine seeds the pending buffer and builds a horizon starting June 2025
func builtEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t)

	if _, err := e.AddIncome(Pending, models.IncomeEntry{Category: "Salario", Amount: 3000000}); err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if _, err := e.AddExpense(Pending, models.ExpenseEntry{Description: "Arriendo", Type: "Arriendo", Amount: 1000000, Recurrence: models.RecurringMonthly()}); err != nil {
		t.Fatalf("AddExpense recurring: %v", err)
	}
	if _, err := e.AddExpense(Pending, models.ExpenseEntry{Description: "Televisor", Type: "Tecnología", Amount: 200000, Recurrence: models.Installments(3)}); err != nil {
		t.Fatalf("AddExpense installments: %v", err)
	}
	if _, err := e.AddInvestment(Pending, models.Investment{Concept: "Acciones", Amount: 500000, MonthlyRatePct: 1, Compounding: true}); err != nil {
		t.Fatalf("AddInvestment: %v", err)
	}
	if err := e.BuildHorizon(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("BuildHorizon: %v", err)
	}
	return e
}

func period(t *testing.T, e *Engine, id string) models.LedgerPeriod {
	t.Helper()
	for _, p := range e.State().Periods {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("period %s not found", id)
	return models.LedgerPeriod{}
}

func TestNewDefaults(t *testing.T) {
	e := New(nil)
	s := e.State()
	if s.HorizonBuilt || len(s.Periods) != 0 {
		t.Error("new engine should start without a horizon")
	}
	if s.SavingsGoalPct != models.DefaultGoalPct {
		t.Errorf("SavingsGoalPct = %v, want %v", s.SavingsGoalPct, models.DefaultGoalPct)
	}
	if len(s.ExpenseTypes) == 0 || len(s.IncomeCategories) == 0 || len(s.InvestmentConcepts) == 0 {
		t.Error("default category lists should be populated")
	}
}

func TestEngineFlow(t *testing.T) {
	e := builtEngine(t)

	june := period(t, e, "2025-06")
	if june.Balance != 1800000 {
		t.Errorf("June balance = %d, want 1800000", june.Balance)
	}
	if june.SavingsPlanned != 450000 || june.SpendingPlanned != 630000 {
		t.Errorf("June savings/spending = %d/%d, want 450000/630000", june.SavingsPlanned, june.SpendingPlanned)
	}
	if june.Available != 670000 {
		t.Errorf("June available = %d, want 670000", june.Available)
	}
	if july := period(t, e, "2025-07"); july.Available != 1840000 {
		t.Errorf("July available = %d, want 1840000", july.Available)
	}
	if sept := period(t, e, "2025-09"); sept.Balance != 2000000 {
		t.Errorf("September balance = %d, want 2000000 once installments end", sept.Balance)
	}

	if len(e.State().Investments) != 1 || e.State().Investments[0].PeriodID != "2025-06" {
		t.Errorf("pending investment not attached to the first period: %+v", e.State().Investments)
	}
}

func TestPendingAvailable(t *testing.T) {
	e := newTestEngine(t)
	if got, _ := e.Available(Pending); got != 0 {
		t.Errorf("empty buffer available = %d, want 0", got)
	}

	e.AddIncome(Pending, models.IncomeEntry{Category: "Salario", Amount: 1000})
	e.AddExpense(Pending, models.ExpenseEntry{Description: "Mercado", Type: "Mercado", Amount: 300})
	e.AddInvestment(Pending, models.Investment{Concept: "Oro", Amount: 200})

	got, err := e.Available(Pending)
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if got != 500 {
		t.Errorf("available = %d, want 500", got)
	}

	_, err = e.AddInvestment(Pending, models.Investment{Concept: "Oro", Amount: 501})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("err = %v, want ErrInsufficientFunds", err)
	}

	e.AddExpense(Pending, models.ExpenseEntry{Description: "Viaje", Type: "Otros", Amount: 5000})
	if got, _ := e.Available(Pending); got != 0 {
		t.Errorf("overspent buffer available = %d, want 0", got)
	}
}

func TestAddInvestmentInsufficientFunds(t *testing.T) {
	e := builtEngine(t)
	before := e.State().Clone()

	_, err := e.AddInvestment("2025-06", models.Investment{Concept: "Oro", Amount: 700000})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if !IsValidation(err) {
		t.Error("expected a validation error")
	}
	if !reflect.DeepEqual(before, e.State()) {
		t.Error("state changed after a rejected investment")
	}

	inv, err := e.AddInvestment("2025-06", models.Investment{Concept: "Oro", Amount: 600000})
	if err != nil {
		t.Fatalf("AddInvestment: %v", err)
	}
	if inv.ID == "" || inv.PeriodID != "2025-06" {
		t.Errorf("investment = %+v, want an id and period 2025-06", inv)
	}
	if inv.StartDate.String() != "2025-06-15" {
		t.Errorf("StartDate = %s, want 2025-06-15", inv.StartDate)
	}
	if got := period(t, e, "2025-06").Available; got != 70000 {
		t.Errorf("June available = %d, want 70000", got)
	}
	if got := period(t, e, "2025-07").Available; got != 1240000 {
		t.Errorf("July available = %d, want 1240000", got)
	}

	if err := e.RemoveInvestment(inv.ID); err != nil {
		t.Fatalf("RemoveInvestment: %v", err)
	}
	if got := period(t, e, "2025-06").Available; got != 670000 {
		t.Errorf("June available after removal = %d, want 670000", got)
	}
	if err := e.RemoveInvestment(inv.ID); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("second removal err = %v, want ErrUnknownEntry", err)
	}
}

// TestAddInvestmentIgnoresCarryIn checks that only a period's own money can be
// invested, not what it inherits from earlier periods
func TestAddInvestmentIgnoresCarryIn(t *testing.T) {
	e := builtEngine(t)

	july := period(t, e, "2025-07")
	if july.CarryIn != 670000 || july.Available != 1840000 {
		t.Fatalf("July carry/available = %d/%d, want 670000/1840000", july.CarryIn, july.Available)
	}
	got, err := e.Available("2025-07")
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if got != 1170000 {
		t.Errorf("July investable = %d, want 1170000", got)
	}

	before := e.State().Clone()
	for _, amount := range []int64{1170001, 1840000} {
		_, err := e.AddInvestment("2025-07", models.Investment{Concept: "Oro", Amount: amount})
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Errorf("amount %d: err = %v, want ErrInsufficientFunds", amount, err)
		}
	}
	if !reflect.DeepEqual(before, e.State()) {
		t.Error("state changed after a rejected investment")
	}

	if _, err := e.AddInvestment("2025-07", models.Investment{Concept: "Oro", Amount: 1170000}); err != nil {
		t.Fatalf("AddInvestment of the full own funds: %v", err)
	}
	if got, _ := e.Available("2025-07"); got != 0 {
		t.Errorf("July investable after investing = %d, want 0", got)
	}
	// the carry-in still flows through
	if got := period(t, e, "2025-07").Available; got != 670000 {
		t.Errorf("July available = %d, want 670000", got)
	}
}

func TestAddInvestmentValidation(t *testing.T) {
	maturity, _ := models.ParseDate("2025-12-01")
	tests := []struct {
		name string
		inv  models.Investment
		want error
	}{
		{"missing concept", models.Investment{Amount: 10}, ErrInvalidCategory},
		{"zero amount", models.Investment{Concept: "Oro"}, ErrInvalidAmount},
		{"rate below -100", models.Investment{Concept: "Oro", Amount: 10, MonthlyRatePct: -101}, ErrInvalidRate},
		{"CDT without maturity", models.Investment{Concept: "CDT", Amount: 10}, ErrMissingMaturity},
		{"valid CDT", models.Investment{Concept: "CDT", Amount: 10, MaturityDate: &maturity}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := builtEngine(t)
			_, err := e.AddInvestment("2025-06", tt.inv)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAddInvestmentDropsMaturityForNonCDT(t *testing.T) {
	e := builtEngine(t)
	maturity, _ := models.ParseDate("2025-12-01")

	inv, err := e.AddInvestment("2025-07", models.Investment{Concept: "Oro", Amount: 1000, MaturityDate: &maturity})
	if err != nil {
		t.Fatalf("AddInvestment: %v", err)
	}
	if inv.MaturityDate != nil {
		t.Errorf("MaturityDate = %v, want nil", inv.MaturityDate)
	}
}

func TestPercentages(t *testing.T) {
	e := builtEngine(t)

	if err := e.SetPercentages("2025-07", 10, 20); err != nil {
		t.Fatalf("SetPercentages: %v", err)
	}
	july := period(t, e, "2025-07")
	if july.SavingsPlanned != 180000 || july.SpendingPlanned != 360000 {
		t.Errorf("July savings/spending = %d/%d, want 180000/360000", july.SavingsPlanned, july.SpendingPlanned)
	}
	// 670,000 carried in + 1,800,000 - 360,000
	if july.Available != 2110000 {
		t.Errorf("July available = %d, want 2110000", july.Available)
	}
	if june := period(t, e, "2025-06"); june.SavingsPct != models.DefaultSavingsPct {
		t.Errorf("June SavingsPct = %v, should be untouched", june.SavingsPct)
	}

	if err := e.SetPercentages("2025-07", 120, 20); !errors.Is(err, ErrInvalidPercentage) {
		t.Errorf("err = %v, want ErrInvalidPercentage", err)
	}
	if err := e.SetPercentages("2025-07", 10, -1); !errors.Is(err, ErrInvalidPercentage) {
		t.Errorf("err = %v, want ErrInvalidPercentage", err)
	}
	if err := e.SetPercentages("2031-01", 10, 10); !errors.Is(err, ErrUnknownPeriod) {
		t.Errorf("err = %v, want ErrUnknownPeriod", err)
	}

	if err := e.ApplyPercentages(0, 50); err != nil {
		t.Fatalf("ApplyPercentages: %v", err)
	}
	for _, p := range e.State().Periods {
		if p.SavingsPct != 0 || p.SpendingPct != 50 || p.SavingsPlanned != 0 {
			t.Errorf("period %s pct = %v/%v planned=%d, want 0/50 and no savings", p.ID, p.SavingsPct, p.SpendingPct, p.SavingsPlanned)
		}
	}
}

func TestPercentagesBeforeBuild(t *testing.T) {
	e := newTestEngine(t)
	if err := e.ApplyPercentages(10, 10); !errors.Is(err, ErrHorizonNotBuilt) {
		t.Errorf("ApplyPercentages err = %v, want ErrHorizonNotBuilt", err)
	}
	if err := e.SetPercentages("2025-06", 10, 10); !errors.Is(err, ErrHorizonNotBuilt) {
		t.Errorf("SetPercentages err = %v, want ErrHorizonNotBuilt", err)
	}
}

func TestBonus(t *testing.T) {
	e := builtEngine(t)

	bonus, err := e.SetBonus("2025-06", true)
	if err != nil {
		t.Fatalf("SetBonus: %v", err)
	}
	if bonus.Category != "Prima" || bonus.Amount != 1500000 {
		t.Errorf("bonus = %+v, want Prima 1500000", bonus)
	}
	june := period(t, e, "2025-06")
	if !june.HasBonus || june.Balance != 3300000 {
		t.Errorf("June HasBonus/balance = %v/%d, want true/3300000", june.HasBonus, june.Balance)
	}

	// Enabling twice keeps a single entry
	if _, err := e.SetBonus("2025-06", true); err != nil {
		t.Fatalf("SetBonus again: %v", err)
	}
	primas := 0
	for _, inc := range period(t, e, "2025-06").Incomes {
		if inc.Category == "Prima" {
			primas++
		}
	}
	if primas != 1 {
		t.Errorf("found %d Prima entries, want 1", primas)
	}

	if _, err := e.SetBonus("2025-06", false); err != nil {
		t.Fatalf("SetBonus off: %v", err)
	}
	june = period(t, e, "2025-06")
	if june.HasBonus || june.Balance != 1800000 || len(june.Incomes) != 1 {
		t.Errorf("June after removing bonus = %+v", june)
	}

	if _, err := e.SetBonus("2025-07", true); !errors.Is(err, ErrBonusUnavailable) {
		t.Errorf("July bonus err = %v, want ErrBonusUnavailable", err)
	}
	if _, err := e.SetBonus("2025-12", true); err != nil {
		t.Errorf("December bonus: %v", err)
	}
}

func TestBonusNeedsSalary(t *testing.T) {
	e := newTestEngine(t)
	e.AddIncome(Pending, models.IncomeEntry{Category: "Honorarios", Amount: 1000})
	if err := e.BuildHorizon(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("BuildHorizon: %v", err)
	}
	if _, err := e.SetBonus("2025-06", true); !errors.Is(err, ErrBonusUnavailable) {
		t.Errorf("err = %v, want ErrBonusUnavailable", err)
	}
}

func TestSavingsConfirmation(t *testing.T) {
	e := builtEngine(t)

	raised, err := e.ConfirmSavings("2025-06", true)
	if err != nil {
		t.Fatalf("ConfirmSavings: %v", err)
	}
	if !raised {
		t.Error("confirming with nothing saved should raise actual savings")
	}
	june := period(t, e, "2025-06")
	if !june.SavingsConfirmed || june.SavingsActual != 450000 {
		t.Errorf("June confirmed/actual = %v/%d, want true/450000", june.SavingsConfirmed, june.SavingsActual)
	}
	// 1,800,000 - 450,000 - 630,000 - 500,000
	if june.Available != 220000 {
		t.Errorf("June available = %d, want 220000", june.Available)
	}

	if err := e.SetSavingsActual("2025-06", 500000); err != nil {
		t.Fatalf("SetSavingsActual: %v", err)
	}
	if !period(t, e, "2025-06").SavingsConfirmed {
		t.Error("saving more than planned should keep the confirmation")
	}

	if err := e.SetSavingsActual("2025-06", 100000); err != nil {
		t.Fatalf("SetSavingsActual: %v", err)
	}
	june = period(t, e, "2025-06")
	if june.SavingsConfirmed {
		t.Error("dropping below plan should withdraw the confirmation")
	}
	if june.SavingsActual != 100000 {
		t.Errorf("SavingsActual = %d, want 100000", june.SavingsActual)
	}

	if err := e.SetSavingsActual("2025-06", -1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestGoal(t *testing.T) {
	e := builtEngine(t)

	got, err := e.SetGoal(5)
	if err != nil {
		t.Fatalf("SetGoal: %v", err)
	}
	if got != 10 || e.State().SavingsGoalPct != 10 {
		t.Errorf("goal = %v (state %v), want 10", got, e.State().SavingsGoalPct)
	}
	if got, _ := e.SetGoal(250); got != 100 {
		t.Errorf("goal = %v, want 100", got)
	}
	e.SetGoal(45)

	for _, id := range []string{"2025-06", "2025-07", "2025-08", "2025-09", "2025-10", "2025-11"} {
		if _, err := e.ConfirmSavings(id, true); err != nil {
			t.Fatalf("ConfirmSavings %s: %v", id, err)
		}
	}

	g, err := e.RefreshGoal()
	if err != nil {
		t.Fatalf("RefreshGoal: %v", err)
	}
	if !g.GoalMet {
		t.Errorf("goal should be met at %v%%", g.CompletionPct)
	}
	if g.Reached {
		t.Error("a partly confirmed plan should not count as reached")
	}
	if e.State().LastBankFillPct != g.CompletionPct {
		t.Errorf("LastBankFillPct = %v, want %v", e.State().LastBankFillPct, g.CompletionPct)
	}
	if next := e.GoalProgress(); next.PreviousFillPct != g.CompletionPct {
		t.Errorf("PreviousFillPct = %v, want %v", next.PreviousFillPct, g.CompletionPct)
	}
}

func TestExpenseValidation(t *testing.T) {
	tests := []struct {
		name  string
		entry models.ExpenseEntry
		want  error
	}{
		{"missing description", models.ExpenseEntry{Type: "Otros", Amount: 10}, ErrInvalidDescription},
		{"description too long", models.ExpenseEntry{Description: strings.Repeat("a", 31), Type: "Otros", Amount: 10}, ErrInvalidDescription},
		{"missing type", models.ExpenseEntry{Description: "Algo", Amount: 10}, ErrInvalidCategory},
		{"zero amount", models.ExpenseEntry{Description: "Algo", Type: "Otros"}, ErrInvalidAmount},
		{"negative amount", models.ExpenseEntry{Description: "Algo", Type: "Otros", Amount: -5}, ErrInvalidAmount},
		{"one installment", models.ExpenseEntry{Description: "Algo", Type: "Otros", Amount: 10, Recurrence: models.Installments(1)}, ErrInvalidInstallmentCount},
		{"thirty runes", models.ExpenseEntry{Description: strings.Repeat("ñ", 30), Type: "Otros", Amount: 10}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			_, err := e.AddExpense(Pending, tt.entry)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if tt.want != nil && len(e.State().PendingExpenses) != 0 {
				t.Error("rejected expense was stored")
			}
		})
	}
}

func TestIncomeValidation(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.AddIncome(Pending, models.IncomeEntry{Category: " ", Amount: 10}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("err = %v, want ErrInvalidCategory", err)
	}
	if _, err := e.AddIncome(Pending, models.IncomeEntry{Category: "Salario"}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}

	inc, err := e.AddIncome(Pending, models.IncomeEntry{Category: " Salario ", Amount: 10})
	if err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if inc.Category != "Salario" || inc.ID == "" {
		t.Errorf("income = %+v, want trimmed category and an id", inc)
	}
	// Updating to zero is allowed
	if err := e.UpdateIncome(Pending, inc.ID, models.IncomeEntry{Category: "Salario"}); err != nil {
		t.Errorf("UpdateIncome to zero: %v", err)
	}
	if err := e.UpdateIncome(Pending, "nope", models.IncomeEntry{Category: "Salario", Amount: 1}); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("err = %v, want ErrUnknownEntry", err)
	}
	if err := e.RemoveIncome(Pending, inc.ID); err != nil {
		t.Errorf("RemoveIncome: %v", err)
	}
	if len(e.State().PendingIncomes) != 0 {
		t.Error("income was not removed")
	}
}

func TestAddExpenseAfterBuild(t *testing.T) {
	e := builtEngine(t)

	placed, err := e.AddExpense("2026-04", models.ExpenseEntry{Description: "Curso", Type: "Educación", Amount: 10000, Recurrence: models.Installments(3)})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if placed != 2 {
		t.Errorf("placed = %d, want 2", placed)
	}
	if got := period(t, e, "2026-05").TotalExpense(); got != 1010000 {
		t.Errorf("May 2026 expenses = %d, want 1010000", got)
	}

	placed, err = e.AddExpense("2025-08", models.ExpenseEntry{Description: "Regalo", Type: "Otros", Amount: 50000})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if placed != 1 {
		t.Errorf("untagged expense placed %d times, want once", placed)
	}
	if got := period(t, e, "2025-09").TotalExpense(); got != 1000000 {
		t.Errorf("September expenses = %d, want 1000000", got)
	}

	if _, err := e.AddExpense(Pending, models.ExpenseEntry{Description: "x", Type: "Otros", Amount: 1}); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("pending add err = %v, want ErrAlreadyBuilt", err)
	}
	if _, err := e.AddIncome(Pending, models.IncomeEntry{Category: "Salario", Amount: 1}); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("pending income err = %v, want ErrAlreadyBuilt", err)
	}
	if _, err := e.AddExpense("2027-01", models.ExpenseEntry{Description: "x", Type: "Otros", Amount: 1}); !errors.Is(err, ErrUnknownPeriod) {
		t.Errorf("unknown period err = %v, want ErrUnknownPeriod", err)
	}
}

func TestAddExpenseRejectsShortInstallments(t *testing.T) {
	tests := []struct {
		name  string
		entry models.ExpenseEntry
	}{
		{"installment count 1", models.ExpenseEntry{InstallmentCount: 1}},
		{"negative installment count", models.ExpenseEntry{InstallmentCount: -3}},
		{"recurrence with one installment", models.ExpenseEntry{Recurrence: models.Recurrence{Installments: 1}}},
		{"recurrence with 13 installments", models.ExpenseEntry{Recurrence: models.Recurrence{Installments: 13}}},
	}

	for _, tt := range tests {
		for _, periodID := range []string{"2025-08", Pending} {
			t.Run(tt.name+"/"+periodID, func(t *testing.T) {
				var e *Engine
				if periodID == Pending {
					e = newTestEngine(t)
				} else {
					e = builtEngine(t)
				}
				before := e.State().Clone()

				entry := tt.entry
				entry.Description = "Bicicleta"
				entry.Type = "Transporte"
				entry.Amount = 90000
				placed, err := e.AddExpense(periodID, entry)
				if !errors.Is(err, ErrInvalidInstallmentCount) {
					t.Errorf("err = %v, want ErrInvalidInstallmentCount", err)
				}
				if placed != 0 {
					t.Errorf("placed = %d, want 0", placed)
				}
				if !reflect.DeepEqual(before, e.State()) {
					t.Error("state changed after a rejected expense")
				}
			})
		}
	}
}

func TestUpdateAndPayExpense(t *testing.T) {
	e := builtEngine(t)
	rent := period(t, e, "2025-08").Expenses[0]

	if err := e.UpdateExpense("2025-08", rent.ID, models.ExpenseEntry{Description: "Arriendo", Type: "Arriendo", Amount: 1200000}); err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	aug := period(t, e, "2025-08")
	if aug.Balance != 1600000 {
		t.Errorf("August balance = %d, want 1600000", aug.Balance)
	}
	// Only that period's copy changes
	if sept := period(t, e, "2025-09"); sept.Balance != 2000000 {
		t.Errorf("September balance = %d, want 2000000", sept.Balance)
	}

	if err := e.SetExpensePaid("2025-08", rent.ID, true); err != nil {
		t.Fatalf("SetExpensePaid: %v", err)
	}
	if !period(t, e, "2025-08").Expenses[0].Paid {
		t.Error("expense should be paid")
	}

	if err := e.RemoveExpense("2025-08", rent.ID); err != nil {
		t.Fatalf("RemoveExpense: %v", err)
	}
	// The television installment is still there
	if got := period(t, e, "2025-08").TotalExpense(); got != 200000 {
		t.Errorf("August expenses = %d, want 200000", got)
	}
	if err := e.RemoveExpense("2025-08", rent.ID); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("err = %v, want ErrUnknownEntry", err)
	}
}

func TestAddCategory(t *testing.T) {
	e := newTestEngine(t)
	n := len(e.State().ExpenseTypes)

	if err := e.AddCategory(models.CategoryExpense, "Viajes"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if err := e.AddCategory(models.CategoryExpense, "Viajes"); err != nil {
		t.Fatalf("AddCategory duplicate: %v", err)
	}
	if got := len(e.State().ExpenseTypes); got != n+1 {
		t.Errorf("expense types = %d, want %d", got, n+1)
	}
	if err := e.AddCategory("weird", "x"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("err = %v, want ErrInvalidCategory", err)
	}
	if err := e.AddCategory(models.CategoryIncome, "  "); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestReset(t *testing.T) {
	e := builtEngine(t)
	e.AddCategory(models.CategoryIncome, "Lotería")
	state := e.State()

	e.Reset()

	if e.State() != state {
		t.Error("Reset should keep the same state pointer")
	}
	if !reflect.DeepEqual(e.State(), models.DefaultBudgetState()) {
		t.Errorf("state after reset = %+v", e.State())
	}
	if err := e.BuildHorizon(time.Time{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("build after reset err = %v, want ErrEmptyInput", err)
	}
}

func TestBuildHorizonDefaultsToNow(t *testing.T) {
	e := newTestEngine(t)
	e.AddIncome(Pending, models.IncomeEntry{Category: "Salario", Amount: 1000})
	if err := e.BuildHorizon(time.Time{}); err != nil {
		t.Fatalf("BuildHorizon: %v", err)
	}
	if id := e.State().Periods[0].ID; id != "2025-06" {
		t.Errorf("first period = %s, want 2025-06", id)
	}
}

func TestWithAllocation(t *testing.T) {
	e, err := newTestEngine(t).WithAllocation(10, 20)
	if err != nil {
		t.Fatalf("WithAllocation: %v", err)
	}
	e.AddIncome(Pending, models.IncomeEntry{Category: "Salario", Amount: 1000})
	if err := e.BuildHorizon(time.Time{}); err != nil {
		t.Fatalf("BuildHorizon: %v", err)
	}
	p := e.State().Periods[0]
	if p.SavingsPlanned != 100 || p.SpendingPlanned != 200 {
		t.Errorf("savings/spending = %d/%d, want 100/200", p.SavingsPlanned, p.SpendingPlanned)
	}

	if _, err := New(nil).WithAllocation(101, 0); !errors.Is(err, ErrInvalidPercentage) {
		t.Errorf("err = %v, want ErrInvalidPercentage", err)
	}
}

func TestNewRecalculatesLoadedState(t *testing.T) {
	s := pendingState()
	if err := BuildHorizon(s, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("BuildHorizon: %v", err)
	}
	// A snapshot with stale derived values
	s.Periods[0].Balance = 0
	s.Periods[0].Available = 0

	e := New(s)
	if p := e.State().Periods[0]; p.Balance != 1800000 || p.Available != 1170000 {
		t.Errorf("balance/available = %d/%d, want 1800000/1170000", p.Balance, p.Available)
	}
}
