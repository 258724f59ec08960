// Package budget is the allocation and projection engine: it builds the
// 12-period horizon, allocates each period's balance, carries leftovers
// forward, projects investments and tracks the savings goal.
package budget

import (
	"math"

	"budgetplan/internal/models"
)

// roundHalfUp rounds to the nearest integer with halves going up (-2.5 -> -2)
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}

func clampPct(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// Calculate derives balance, liquidity/expense split and planned allocations
// for one period from its entries and percentages. Safe to call repeatedly.
func Calculate(p *models.LedgerPeriod) {
	totalIncome := p.TotalIncome()
	totalExpense := p.TotalExpense()

	p.Balance = totalIncome - totalExpense
	if totalIncome > 0 {
		p.LiquidityPct = clampPct(float64(p.Balance) / float64(totalIncome) * 100)
	} else {
		p.LiquidityPct = 0
	}
	p.ExpensePct = 100 - p.LiquidityPct

	p.SavingsPlanned = roundHalfUp(float64(p.Balance) * p.SavingsPct / 100)
	p.SpendingPlanned = roundHalfUp(float64(p.Balance) * p.SpendingPct / 100)
}

// CalculateAll runs Calculate over every period
func CalculateAll(periods []models.LedgerPeriod) {
	for i := range periods {
		Calculate(&periods[i])
	}
}
