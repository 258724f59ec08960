package budget

import (
	"sort"

	"budgetplan/internal/models"
)

// chronological returns period indexes ordered by (year, month)
func chronological(periods []models.LedgerPeriod) []int {
	order := make([]int, len(periods))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return periods[order[a]].Before(periods[order[b]])
	})
	return order
}

// ResolveCarryOver folds over the periods in chronological order, writing each
// period's CarryIn and Available. Every period depends on the one before it, so
// this must run over the whole sequence after any upstream change.
//
//	available = max(0, balance - savingsActual - spendingPlanned - invested + carryIn)
func ResolveCarryOver(periods []models.LedgerPeriod, investments []models.Investment) ([]models.CarryOverStep, error) {
	if len(periods) == 0 {
		return nil, invariant("resolve carry-over", ErrNoPeriods)
	}

	invested := make(map[string]int64, len(periods))
	for _, inv := range investments {
		invested[inv.PeriodID] += inv.Amount
	}

	steps := make([]models.CarryOverStep, 0, len(periods))
	var carry int64
	for _, idx := range chronological(periods) {
		p := &periods[idx]
		available := p.Balance - p.SavingsActual - p.SpendingPlanned - invested[p.ID] + carry
		if available < 0 {
			available = 0
		}

		p.CarryIn = carry
		p.Available = available
		steps = append(steps, models.CarryOverStep{
			PeriodID:  p.ID,
			CarryIn:   carry,
			Invested:  invested[p.ID],
			Available: available,
		})
		carry = available
	}
	return steps, nil
}
