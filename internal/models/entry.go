package models

import "unicode/utf8"

// MaxDescriptionLength is the longest allowed expense description, in characters
const MaxDescriptionLength = 30

// RecurrenceKind says how an expense template spreads across the horizon
type RecurrenceKind string

const (
	RecurrenceOneTime     RecurrenceKind = "one_time"          // Charged once, in the period it was added to
	RecurrenceInstallment RecurrenceKind = "installment"       // Same charge in N consecutive periods
	RecurrenceMonthly     RecurrenceKind = "recurring_monthly" // Same charge in every period of the horizon
)

// Recurrence is the tagged variant attached to every expense
type Recurrence struct {
	Kind         RecurrenceKind `json:"kind"`
	Installments int            `json:"installments,omitempty"` // Only for RecurrenceInstallment
}

// OneTime returns a recurrence for a single charge
func OneTime() Recurrence {
	return Recurrence{Kind: RecurrenceOneTime}
}

// Installments returns a recurrence spreading a charge over n periods
func Installments(n int) Recurrence {
	return Recurrence{Kind: RecurrenceInstallment, Installments: n}
}

// RecurringMonthly returns a recurrence that repeats in every period
func RecurringMonthly() Recurrence {
	return Recurrence{Kind: RecurrenceMonthly}
}

// IncomeEntry is a single income line inside a period (or the pending buffer)
type IncomeEntry struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// ExpenseEntry is a single expense line inside a period (or the pending buffer).
// For installment groups Amount is the per-period charge, not a total.
type ExpenseEntry struct {
	ID               string     `json:"id"`
	Description      string     `json:"description"`
	Type             string     `json:"type"`
	Amount           int64      `json:"amount"`
	Paid             bool       `json:"paid"`
	InstallmentIndex int        `json:"installment_index,omitempty"` // 1-based position in the group
	InstallmentCount int        `json:"installment_count,omitempty"`
	Recurrence       Recurrence `json:"recurrence"`

	// LegacyTotal is only populated when reading old snapshots, which stored
	// the amount under "total". It is folded into Amount on load.
	LegacyTotal *int64 `json:"total,omitempty"`
}

// IsInstallment reports whether the entry is one slice of an installment group
func (e ExpenseEntry) IsInstallment() bool {
	return e.InstallmentCount > 0
}

// DescriptionLength returns the description length in characters
func (e ExpenseEntry) DescriptionLength() int {
	return utf8.RuneCountInString(e.Description)
}

// MigrateLegacy folds a legacy "total" into Amount when Amount is unset.
// Returns true when the entry changed.
func (e *ExpenseEntry) MigrateLegacy() bool {
	if e.LegacyTotal == nil {
		return false
	}
	if e.Amount == 0 {
		e.Amount = *e.LegacyTotal
	}
	e.LegacyTotal = nil
	return true
}

// Normalized returns the entry with an explicit recurrence.
// Entries without a kind are inferred from the installment fields: any count
// asks for installments, valid or not, so the count gets validated. Only an
// entry with neither field set falls back to recurring monthly, which is how
// templates always behaved.
func (e ExpenseEntry) Normalized() ExpenseEntry {
	if e.Recurrence.Kind != "" {
		return e
	}
	if e.Recurrence.Installments != 0 {
		e.Recurrence.Kind = RecurrenceInstallment
		return e
	}
	if e.InstallmentCount != 0 {
		e.Recurrence = Installments(e.InstallmentCount)
		if e.InstallmentIndex == 0 {
			// a template, not a placed slice
			e.InstallmentCount = 0
		}
		return e
	}
	e.Recurrence = RecurringMonthly()
	return e
}

// SumIncomes totals the amounts of the given incomes
func SumIncomes(entries []IncomeEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

// SumExpenses totals the amounts of the given expenses
func SumExpenses(entries []ExpenseEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}
