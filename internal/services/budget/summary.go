package budget

import (
	"sort"
	"time"

	"budgetplan/internal/models"
)

// uncategorized labels expenses saved without a type
const uncategorized = "Sin tipo"

// balanceStatus flags a negative balance as danger and a zero or thin (<10% of
// income) balance as a warning
func balanceStatus(balance, income int64) models.BalanceStatus {
	switch {
	case balance < 0:
		return models.StatusDanger
	case balance == 0:
		return models.StatusWarn
	case float64(balance) < float64(income)*0.1:
		return models.StatusWarn
	}
	return models.StatusOK
}

// PeriodSummaries returns one overview row per period in chronological order.
// The two highest balances are marked "high" and the two lowest "low".
func PeriodSummaries(periods []models.LedgerPeriod) []models.PeriodSummary {
	order := chronological(periods)
	rows := make([]models.PeriodSummary, 0, len(periods))

	balances := make([]int64, 0, len(periods))
	for _, p := range periods {
		balances = append(balances, p.Balance)
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i] < balances[j] })
	lows := map[int64]bool{}
	highs := map[int64]bool{}
	for i, b := range balances {
		if i < 2 {
			lows[b] = true
		}
		if i >= len(balances)-2 {
			highs[b] = true
		}
	}

	for _, idx := range order {
		p := periods[idx]
		income := p.TotalIncome()
		row := models.PeriodSummary{
			PeriodID:        p.ID,
			Label:           p.Label,
			TotalIncome:     income,
			TotalExpense:    p.TotalExpense(),
			Balance:         p.Balance,
			LiquidityPct:    p.LiquidityPct,
			ExpensePct:      p.ExpensePct,
			SavingsPlanned:  p.SavingsPlanned,
			SavingsActual:   p.SavingsActual,
			SpendingPlanned: p.SpendingPlanned,
			Available:       p.Available,
			Status:          balanceStatus(p.Balance, income),
		}
		// low wins when a balance is both
		if highs[p.Balance] {
			row.Highlight = "high"
		}
		if lows[p.Balance] {
			row.Highlight = "low"
		}
		rows = append(rows, row)
	}
	return rows
}

// Payments reports paid vs total for a list of expenses
func Payments(expenses []models.ExpenseEntry) models.PaymentProgress {
	var pp models.PaymentProgress
	for _, e := range expenses {
		pp.Total += e.Amount
		if e.Paid {
			pp.Paid += e.Amount
		}
	}
	if pp.Total > 0 {
		pp.PaidPct = clampPct(float64(pp.Paid) / float64(pp.Total) * 100)
	}
	switch {
	case pp.PaidPct >= 75:
		pp.Status = models.StatusOK
	case pp.PaidPct >= 40:
		pp.Status = models.StatusWarn
	default:
		pp.Status = models.StatusDanger
	}
	return pp
}

// CategoryBreakdown totals expenses per type, largest first
func CategoryBreakdown(expenses []models.ExpenseEntry) []models.CategoryTotal {
	totals := map[string]int64{}
	var all int64
	for _, e := range expenses {
		t := e.Type
		if t == "" {
			t = uncategorized
		}
		totals[t] += e.Amount
		all += e.Amount
	}

	out := make([]models.CategoryTotal, 0, len(totals))
	for t, amount := range totals {
		ct := models.CategoryTotal{Type: t, Amount: amount}
		if all > 0 {
			ct.Pct = float64(amount) / float64(all) * 100
		}
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Summaries returns the overview rows for the built horizon
func (e *Engine) Summaries() []models.PeriodSummary {
	return PeriodSummaries(e.state.Periods)
}

// expensesOf returns the expenses of a period or the pending buffer, read-only
func (e *Engine) expensesOf(periodID string) ([]models.ExpenseEntry, error) {
	if isPending(periodID) {
		return e.state.PendingExpenses, nil
	}
	idx, err := periodIndex(e.state, "read expenses", periodID)
	if err != nil {
		return nil, err
	}
	return e.state.Periods[idx].Expenses, nil
}

// PaymentProgress reports paid vs total expenses for a period
func (e *Engine) PaymentProgress(periodID string) (models.PaymentProgress, error) {
	expenses, err := e.expensesOf(periodID)
	if err != nil {
		return models.PaymentProgress{}, err
	}
	return Payments(expenses), nil
}

// Categories reports expense totals per type for a period
func (e *Engine) Categories(periodID string) ([]models.CategoryTotal, error) {
	expenses, err := e.expensesOf(periodID)
	if err != nil {
		return nil, err
	}
	return CategoryBreakdown(expenses), nil
}

// Projections projects the investments of one period, or all of them when
// periodID is empty. "pending" selects the pending buffer.
func (e *Engine) Projections(periodID string) models.ProjectionTable {
	s := e.state
	all := append(append([]models.Investment{}, s.Investments...), s.PendingInvestments...)

	var rows []models.Investment
	switch periodID {
	case "":
		rows = all
	case Pending:
		rows = s.PendingInvestments
	default:
		for _, inv := range s.Investments {
			if inv.PeriodID == periodID {
				rows = append(rows, inv)
			}
		}
	}
	return ProjectAll(rows, all, e.now())
}

// TopInvestments returns the n largest investments across the state
func (e *Engine) TopInvestments(n int) []models.Investment {
	all := append(append([]models.Investment{}, e.state.Investments...), e.state.PendingInvestments...)
	return TopInvestments(all, n)
}

// Now returns the engine clock's current time
func (e *Engine) Now() time.Time {
	return e.now()
}
