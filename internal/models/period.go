package models

import "fmt"

const (
	DefaultSavingsPct  = 25.0
	DefaultSpendingPct = 35.0
)

// MonthNames are the labels used for period names
var MonthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// LedgerPeriod is one month of the planning horizon
type LedgerPeriod struct {
	ID         string `json:"id"`    // "2025-03"
	Label      string `json:"label"` // "Marzo 2025"
	Year       int    `json:"year"`
	MonthIndex int    `json:"month_index"` // 0..11

	Incomes  []IncomeEntry  `json:"incomes"`
	Expenses []ExpenseEntry `json:"expenses"`

	// Derived by the period calculator
	Balance         int64   `json:"balance"`
	LiquidityPct    float64 `json:"liquidity_pct"`
	ExpensePct      float64 `json:"expense_pct"`
	SavingsPlanned  int64   `json:"savings_planned"`
	SpendingPlanned int64   `json:"spending_planned"`

	// Allocation settings
	SavingsPct  float64 `json:"savings_pct"`
	SpendingPct float64 `json:"spending_pct"`

	SavingsActual    int64 `json:"savings_actual"`
	SavingsConfirmed bool  `json:"savings_confirmed"`

	// Derived by the carry-over resolver
	CarryIn   int64 `json:"carry_in"`
	Available int64 `json:"available"`

	HasBonus bool `json:"has_bonus"` // June/December "prima"
}

// PeriodID returns the id for a year and zero-based month
func PeriodID(year, monthIndex int) string {
	return fmt.Sprintf("%d-%02d", year, monthIndex+1)
}

// PeriodLabel returns the display label for a year and zero-based month
func PeriodLabel(year, monthIndex int) string {
	return fmt.Sprintf("%s %d", MonthNames[monthIndex], year)
}

// NewLedgerPeriod creates an empty period with default allocation percentages
func NewLedgerPeriod(year, monthIndex int) LedgerPeriod {
	return LedgerPeriod{
		ID:          PeriodID(year, monthIndex),
		Label:       PeriodLabel(year, monthIndex),
		Year:        year,
		MonthIndex:  monthIndex,
		Incomes:     []IncomeEntry{},
		Expenses:    []ExpenseEntry{},
		SavingsPct:  DefaultSavingsPct,
		SpendingPct: DefaultSpendingPct,
	}
}

// Before reports whether p comes chronologically before other
func (p LedgerPeriod) Before(other LedgerPeriod) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.MonthIndex < other.MonthIndex
}

// BonusEligible reports whether the period can carry a bonus (June or December)
func (p LedgerPeriod) BonusEligible() bool {
	return p.MonthIndex == 5 || p.MonthIndex == 11
}

// TotalIncome sums the period's incomes
func (p LedgerPeriod) TotalIncome() int64 {
	return SumIncomes(p.Incomes)
}

// TotalExpense sums the period's expenses
func (p LedgerPeriod) TotalExpense() int64 {
	return SumExpenses(p.Expenses)
}

// Clone returns a deep copy of the period
func (p LedgerPeriod) Clone() LedgerPeriod {
	c := p
	c.Incomes = append([]IncomeEntry{}, p.Incomes...)
	c.Expenses = make([]ExpenseEntry, len(p.Expenses))
	for i, e := range p.Expenses {
		if e.LegacyTotal != nil {
			v := *e.LegacyTotal
			e.LegacyTotal = &v
		}
		c.Expenses[i] = e
	}
	return c
}
