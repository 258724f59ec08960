package budget

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"budgetplan/internal/models"
)

// HorizonMonths is the fixed length of the planning horizon
const HorizonMonths = 12

// horizonMonths returns the first day of each month in the horizon starting at start's month
func horizonMonths(start time.Time) ([]time.Time, error) {
	anchor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.MONTHLY,
		Count:   HorizonMonths,
		Dtstart: anchor,
	})
	if err != nil {
		return nil, fmt.Errorf("building month rule: %w", err)
	}
	months := rule.All()
	if len(months) != HorizonMonths {
		return nil, fmt.Errorf("month rule produced %d months, want %d", len(months), HorizonMonths)
	}
	return months, nil
}

// BuildHorizon turns the pending buffer into 12 consecutive periods starting at
// start's month. It is a one-time transition: the state is only modified when
// every step succeeds.
func BuildHorizon(s *models.BudgetState, start time.Time) error {
	if s.HorizonBuilt {
		return invariant("build horizon", ErrAlreadyBuilt)
	}
	pending := make([]models.ExpenseEntry, len(s.PendingExpenses))
	for i, e := range s.PendingExpenses {
		e.MigrateLegacy()
		pending[i] = e
	}
	if models.SumIncomes(s.PendingIncomes) == 0 && models.SumExpenses(pending) == 0 {
		return invalid("pending", ErrEmptyInput, "pending incomes and expenses sum to zero")
	}

	months, err := horizonMonths(start)
	if err != nil {
		return err
	}

	periods := make([]models.LedgerPeriod, 0, HorizonMonths)
	for _, m := range months {
		p := models.NewLedgerPeriod(m.Year(), int(m.Month())-1)
		for _, inc := range s.PendingIncomes {
			inc.ID = uuid.NewString()
			p.Incomes = append(p.Incomes, inc)
		}
		periods = append(periods, p)
	}

	for _, tmpl := range pending {
		if _, err := Distribute(tmpl, periods, 0); err != nil {
			return fmt.Errorf("distributing %q: %w", tmpl.Description, err)
		}
	}

	investments := make([]models.Investment, 0, len(s.Investments)+len(s.PendingInvestments))
	for _, inv := range s.Investments {
		investments = append(investments, inv.Clone())
	}
	for _, inv := range s.PendingInvestments {
		inv = inv.Clone()
		inv.PeriodID = periods[0].ID
		investments = append(investments, inv)
	}

	CalculateAll(periods)
	if _, err := ResolveCarryOver(periods, investments); err != nil {
		return err
	}

	// Commit
	createdAt := start
	if s.CreatedAt != nil {
		createdAt = *s.CreatedAt
	}
	s.CreatedAt = &createdAt
	s.Periods = periods
	s.Investments = investments
	s.PendingIncomes = []models.IncomeEntry{}
	s.PendingExpenses = []models.ExpenseEntry{}
	s.PendingInvestments = []models.Investment{}
	s.HorizonBuilt = true
	return nil
}
