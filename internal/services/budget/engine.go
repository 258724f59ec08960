package budget

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"budgetplan/internal/models"
)

// Pending addresses the pre-horizon buffer instead of a period
const Pending = "pending"

// bonusShare is the fraction of salary paid as the June/December bonus
const bonusShare = 0.5

// Engine applies operations to a BudgetState. It is not safe for concurrent
// use; callers serialize access and persist the state after each mutation.
type Engine struct {
	state *models.BudgetState
	now   func() time.Time

	// Allocation given to periods created by BuildHorizon
	savingsPct  float64
	spendingPct float64
}

// New creates an engine over the given state. Derived values of a built
// horizon are recomputed, so snapshots written by older versions come back
// consistent.
func New(state *models.BudgetState) *Engine {
	if state == nil {
		state = models.DefaultBudgetState()
	}
	state.EnsureDefaults()
	if state.HorizonBuilt && len(state.Periods) > 0 {
		CalculateAll(state.Periods)
		// periods are non-empty, so the fold cannot fail
		_, _ = ResolveCarryOver(state.Periods, state.Investments)
	}
	return &Engine{
		state:       state,
		now:         time.Now,
		savingsPct:  models.DefaultSavingsPct,
		spendingPct: models.DefaultSpendingPct,
	}
}

// WithAllocation sets the savings and spending percentages new periods start with
func (e *Engine) WithAllocation(savingsPct, spendingPct float64) (*Engine, error) {
	if err := validatePct("savings_pct", savingsPct); err != nil {
		return e, err
	}
	if err := validatePct("spending_pct", spendingPct); err != nil {
		return e, err
	}
	e.savingsPct = savingsPct
	e.spendingPct = spendingPct
	return e, nil
}

// WithClock overrides the time source, for tests
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// State returns the live state
func (e *Engine) State() *models.BudgetState {
	return e.state
}

// mutate runs fn against a copy of the state, recalculates, and swaps the copy
// in only if everything succeeded.
func (e *Engine) mutate(fn func(s *models.BudgetState) error) error {
	next := e.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if next.HorizonBuilt && len(next.Periods) > 0 {
		CalculateAll(next.Periods)
		if _, err := ResolveCarryOver(next.Periods, next.Investments); err != nil {
			return err
		}
	}
	*e.state = *next
	return nil
}

func isPending(periodID string) bool {
	return periodID == "" || periodID == Pending
}

// periodIndex finds a period by id on a built horizon
func periodIndex(s *models.BudgetState, op, periodID string) (int, error) {
	if !s.HorizonBuilt {
		return -1, invariant(op, ErrHorizonNotBuilt)
	}
	for i := range s.Periods {
		if s.Periods[i].ID == periodID {
			return i, nil
		}
	}
	return -1, invariant(op, ErrUnknownPeriod)
}

// incomesFor returns a pointer to the income list addressed by periodID
func incomesFor(s *models.BudgetState, op, periodID string) (*[]models.IncomeEntry, error) {
	if isPending(periodID) {
		if s.HorizonBuilt {
			return nil, invariant(op, ErrAlreadyBuilt)
		}
		return &s.PendingIncomes, nil
	}
	idx, err := periodIndex(s, op, periodID)
	if err != nil {
		return nil, err
	}
	return &s.Periods[idx].Incomes, nil
}

// expensesFor returns a pointer to the expense list addressed by periodID
func expensesFor(s *models.BudgetState, op, periodID string) (*[]models.ExpenseEntry, error) {
	if isPending(periodID) {
		if s.HorizonBuilt {
			return nil, invariant(op, ErrAlreadyBuilt)
		}
		return &s.PendingExpenses, nil
	}
	idx, err := periodIndex(s, op, periodID)
	if err != nil {
		return nil, err
	}
	return &s.Periods[idx].Expenses, nil
}

func validateIncome(entry models.IncomeEntry, allowZero bool) error {
	if strings.TrimSpace(entry.Category) == "" {
		return invalid("category", ErrInvalidCategory, "category is required")
	}
	if entry.Amount < 0 || (!allowZero && entry.Amount == 0) {
		return invalid("amount", ErrInvalidAmount, "got %d", entry.Amount)
	}
	return nil
}

func validateExpense(entry models.ExpenseEntry, allowZero bool) error {
	if strings.TrimSpace(entry.Description) == "" {
		return invalid("description", ErrInvalidDescription, "description is required")
	}
	if entry.DescriptionLength() > models.MaxDescriptionLength {
		return invalid("description", ErrInvalidDescription, "at most %d characters", models.MaxDescriptionLength)
	}
	if strings.TrimSpace(entry.Type) == "" {
		return invalid("type", ErrInvalidCategory, "expense type is required")
	}
	if entry.Amount < 0 || (!allowZero && entry.Amount == 0) {
		return invalid("amount", ErrInvalidAmount, "got %d", entry.Amount)
	}
	if entry.Recurrence.Kind == models.RecurrenceInstallment {
		return ValidateInstallments(entry.Recurrence.Installments)
	}
	return nil
}

func validatePct(field string, v float64) error {
	if v < 0 || v > 100 {
		return invalid(field, ErrInvalidPercentage, "got %g", v)
	}
	return nil
}

// BuildHorizon builds the 12-period horizon from the pending buffer starting at start's month
func (e *Engine) BuildHorizon(start time.Time) error {
	if start.IsZero() {
		start = e.now()
	}
	return e.mutate(func(s *models.BudgetState) error {
		if err := BuildHorizon(s, start); err != nil {
			return err
		}
		for i := range s.Periods {
			s.Periods[i].SavingsPct = e.savingsPct
			s.Periods[i].SpendingPct = e.spendingPct
		}
		return nil
	})
}

// AddIncome appends an income to a period, or to the pending buffer
func (e *Engine) AddIncome(periodID string, entry models.IncomeEntry) (models.IncomeEntry, error) {
	entry.Category = strings.TrimSpace(entry.Category)
	if err := validateIncome(entry, false); err != nil {
		return entry, err
	}
	entry.ID = uuid.NewString()
	err := e.mutate(func(s *models.BudgetState) error {
		list, err := incomesFor(s, "add income", periodID)
		if err != nil {
			return err
		}
		*list = append(*list, entry)
		return nil
	})
	return entry, err
}

// UpdateIncome replaces the category and amount of an existing income
func (e *Engine) UpdateIncome(periodID, entryID string, entry models.IncomeEntry) error {
	entry.Category = strings.TrimSpace(entry.Category)
	if err := validateIncome(entry, true); err != nil {
		return err
	}
	return e.mutate(func(s *models.BudgetState) error {
		list, err := incomesFor(s, "update income", periodID)
		if err != nil {
			return err
		}
		for i := range *list {
			if (*list)[i].ID == entryID {
				(*list)[i].Category = entry.Category
				(*list)[i].Amount = entry.Amount
				return nil
			}
		}
		return invariant("update income", ErrUnknownEntry)
	})
}

// RemoveIncome deletes an income
func (e *Engine) RemoveIncome(periodID, entryID string) error {
	return e.mutate(func(s *models.BudgetState) error {
		list, err := incomesFor(s, "remove income", periodID)
		if err != nil {
			return err
		}
		for i := range *list {
			if (*list)[i].ID == entryID {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return nil
			}
		}
		return invariant("remove income", ErrUnknownEntry)
	})
}

// AddExpense adds an expense template to the pending buffer, or places it into
// a built horizon starting at periodID. Inside a built horizon an expense with
// no recurrence is a one-time charge; in the pending buffer it recurs monthly.
// Returns the number of entries created.
func (e *Engine) AddExpense(periodID string, entry models.ExpenseEntry) (int, error) {
	entry.Description = strings.TrimSpace(entry.Description)
	entry.MigrateLegacy()
	if !isPending(periodID) && entry.Recurrence == (models.Recurrence{}) && entry.InstallmentCount == 0 {
		entry.Recurrence = models.OneTime()
	}
	entry = entry.Normalized()
	if err := validateExpense(entry, false); err != nil {
		return 0, err
	}

	placed := 0
	err := e.mutate(func(s *models.BudgetState) error {
		if isPending(periodID) {
			if s.HorizonBuilt {
				return invariant("add expense", ErrAlreadyBuilt)
			}
			entry.ID = uuid.NewString()
			entry.Paid = false
			s.PendingExpenses = append(s.PendingExpenses, entry)
			placed = 1
			return nil
		}
		idx, err := periodIndex(s, "add expense", periodID)
		if err != nil {
			return err
		}
		placed, err = Distribute(entry, s.Periods, idx)
		return err
	})
	return placed, err
}

// UpdateExpense edits description, type, amount and paid flag of an expense
func (e *Engine) UpdateExpense(periodID, entryID string, entry models.ExpenseEntry) error {
	entry.Description = strings.TrimSpace(entry.Description)
	entry.MigrateLegacy()
	entry.Recurrence = models.Recurrence{}
	if err := validateExpense(entry, true); err != nil {
		return err
	}
	return e.mutate(func(s *models.BudgetState) error {
		list, err := expensesFor(s, "update expense", periodID)
		if err != nil {
			return err
		}
		for i := range *list {
			if (*list)[i].ID == entryID {
				(*list)[i].Description = entry.Description
				(*list)[i].Type = entry.Type
				(*list)[i].Amount = entry.Amount
				(*list)[i].Paid = entry.Paid
				return nil
			}
		}
		return invariant("update expense", ErrUnknownEntry)
	})
}

// RemoveExpense deletes an expense
func (e *Engine) RemoveExpense(periodID, entryID string) error {
	return e.mutate(func(s *models.BudgetState) error {
		list, err := expensesFor(s, "remove expense", periodID)
		if err != nil {
			return err
		}
		for i := range *list {
			if (*list)[i].ID == entryID {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return nil
			}
		}
		return invariant("remove expense", ErrUnknownEntry)
	})
}

// SetExpensePaid marks an expense as paid or pending
func (e *Engine) SetExpensePaid(periodID, entryID string, paid bool) error {
	return e.mutate(func(s *models.BudgetState) error {
		list, err := expensesFor(s, "mark expense", periodID)
		if err != nil {
			return err
		}
		for i := range *list {
			if (*list)[i].ID == entryID {
				(*list)[i].Paid = paid
				return nil
			}
		}
		return invariant("mark expense", ErrUnknownEntry)
	})
}

// PendingAvailable is the money left in the pending buffer for investing
func PendingAvailable(s *models.BudgetState) int64 {
	available := models.SumIncomes(s.PendingIncomes) -
		models.SumExpenses(s.PendingExpenses) -
		models.SumInvestments(s.PendingInvestments)
	if available < 0 {
		return 0
	}
	return available
}

// investable is what a period's own money still allows investing:
//
//	max(0, balance - savingsActual - spendingPlanned - invested)
//
// Money carried in from earlier periods shows in Available but is not investable.
func investable(s *models.BudgetState, idx int) int64 {
	p := s.Periods[idx]
	var invested int64
	for _, inv := range s.Investments {
		if inv.PeriodID == p.ID {
			invested += inv.Amount
		}
	}
	v := p.Balance - p.SavingsActual - p.SpendingPlanned - invested
	if v < 0 {
		return 0
	}
	return v
}

// Available returns the funds a new investment in periodID may use
func (e *Engine) Available(periodID string) (int64, error) {
	if isPending(periodID) {
		if e.state.HorizonBuilt {
			return 0, invariant("available", ErrAlreadyBuilt)
		}
		return PendingAvailable(e.state), nil
	}
	idx, err := periodIndex(e.state, "available", periodID)
	if err != nil {
		return 0, err
	}
	return investable(e.state, idx), nil
}

// AddInvestment records an investment against a period (or the pending
// buffer). It is rejected when the amount exceeds what the period's own money
// still allows; carry-in from earlier periods does not count.
func (e *Engine) AddInvestment(periodID string, inv models.Investment) (models.Investment, error) {
	inv.Concept = strings.TrimSpace(inv.Concept)
	if inv.Concept == "" {
		return inv, invalid("concept", ErrInvalidCategory, "concept is required")
	}
	if inv.Amount <= 0 {
		return inv, invalid("amount", ErrInvalidAmount, "got %d", inv.Amount)
	}
	if inv.MonthlyRatePct < minMonthlyRatePct {
		return inv, invalid("monthly_rate_pct", ErrInvalidRate, "got %g", inv.MonthlyRatePct)
	}
	if inv.IsCDT() {
		if inv.MaturityDate == nil || inv.MaturityDate.IsZero() {
			return inv, invalid("maturity_date", ErrMissingMaturity, "")
		}
	} else {
		inv.MaturityDate = nil
	}
	if inv.StartDate.IsZero() {
		inv.StartDate = models.NewDate(e.now())
	}
	inv.ID = uuid.NewString()

	err := e.mutate(func(s *models.BudgetState) error {
		if isPending(periodID) {
			if s.HorizonBuilt {
				return invariant("add investment", ErrAlreadyBuilt)
			}
			if available := PendingAvailable(s); inv.Amount > available {
				return invalid("amount", ErrInsufficientFunds, "%d requested, %d available", inv.Amount, available)
			}
			inv.PeriodID = ""
			s.PendingInvestments = append(s.PendingInvestments, inv)
			return nil
		}
		idx, err := periodIndex(s, "add investment", periodID)
		if err != nil {
			return err
		}
		if available := investable(s, idx); inv.Amount > available {
			return invalid("amount", ErrInsufficientFunds, "%d requested, %d available", inv.Amount, available)
		}
		inv.PeriodID = s.Periods[idx].ID
		s.Investments = append(s.Investments, inv)
		return nil
	})
	return inv, err
}

// RemoveInvestment deletes an investment by id
func (e *Engine) RemoveInvestment(id string) error {
	return e.mutate(func(s *models.BudgetState) error {
		for i := range s.Investments {
			if s.Investments[i].ID == id {
				s.Investments = append(s.Investments[:i], s.Investments[i+1:]...)
				return nil
			}
		}
		for i := range s.PendingInvestments {
			if s.PendingInvestments[i].ID == id {
				s.PendingInvestments = append(s.PendingInvestments[:i], s.PendingInvestments[i+1:]...)
				return nil
			}
		}
		return invariant("remove investment", ErrUnknownEntry)
	})
}

// SetPercentages changes one period's savings and spending percentages
func (e *Engine) SetPercentages(periodID string, savingsPct, spendingPct float64) error {
	if err := validatePct("savings_pct", savingsPct); err != nil {
		return err
	}
	if err := validatePct("spending_pct", spendingPct); err != nil {
		return err
	}
	return e.mutate(func(s *models.BudgetState) error {
		idx, err := periodIndex(s, "set percentages", periodID)
		if err != nil {
			return err
		}
		s.Periods[idx].SavingsPct = savingsPct
		s.Periods[idx].SpendingPct = spendingPct
		return nil
	})
}

// ApplyPercentages sets the same savings and spending percentages on every period
func (e *Engine) ApplyPercentages(savingsPct, spendingPct float64) error {
	if err := validatePct("savings_pct", savingsPct); err != nil {
		return err
	}
	if err := validatePct("spending_pct", spendingPct); err != nil {
		return err
	}
	return e.mutate(func(s *models.BudgetState) error {
		if !s.HorizonBuilt {
			return invariant("apply percentages", ErrHorizonNotBuilt)
		}
		for i := range s.Periods {
			s.Periods[i].SavingsPct = savingsPct
			s.Periods[i].SpendingPct = spendingPct
		}
		return nil
	})
}

// SetSavingsActual records how much was actually saved in a period. Dropping
// below the plan withdraws a previous confirmation.
func (e *Engine) SetSavingsActual(periodID string, actual int64) error {
	if actual < 0 {
		return invalid("savings_actual", ErrInvalidAmount, "got %d", actual)
	}
	return e.mutate(func(s *models.BudgetState) error {
		idx, err := periodIndex(s, "set savings", periodID)
		if err != nil {
			return err
		}
		p := &s.Periods[idx]
		p.SavingsActual = actual
		if p.SavingsActual < p.SavingsPlanned {
			p.SavingsConfirmed = false
		}
		return nil
	})
}

// ConfirmSavings confirms or un-confirms a period's savings. raised is true
// when confirming lifted the actual savings up to the plan.
func (e *Engine) ConfirmSavings(periodID string, confirmed bool) (raised bool, err error) {
	err = e.mutate(func(s *models.BudgetState) error {
		idx, err := periodIndex(s, "confirm savings", periodID)
		if err != nil {
			return err
		}
		raised = ConfirmPeriod(&s.Periods[idx], confirmed)
		return nil
	})
	if err != nil {
		return false, err
	}
	return raised, nil
}

// SetGoal stores the savings goal, clamped to [10, 100]
func (e *Engine) SetGoal(pct float64) (float64, error) {
	clamped := ClampGoal(pct)
	err := e.mutate(func(s *models.BudgetState) error {
		s.SavingsGoalPct = clamped
		return nil
	})
	return clamped, err
}

// GoalProgress reports savings progress without changing state
func (e *Engine) GoalProgress() models.GoalProgress {
	g := TrackGoal(e.state.Periods, e.state.SavingsGoalPct)
	g.PreviousFillPct = e.state.LastBankFillPct
	return g
}

// RefreshGoal reports savings progress and remembers the completion as the
// last shown fill level
func (e *Engine) RefreshGoal() (models.GoalProgress, error) {
	g := e.GoalProgress()
	err := e.mutate(func(s *models.BudgetState) error {
		s.LastBankFillPct = g.CompletionPct
		return nil
	})
	return g, err
}

// SetBonus adds or removes the June/December bonus ("Prima"), worth half of
// the period's "Salario" income
func (e *Engine) SetBonus(periodID string, enabled bool) (models.IncomeEntry, error) {
	var bonus models.IncomeEntry
	err := e.mutate(func(s *models.BudgetState) error {
		idx, err := periodIndex(s, "set bonus", periodID)
		if err != nil {
			return err
		}
		p := &s.Periods[idx]
		if !p.BonusEligible() {
			return invalid("period", ErrBonusUnavailable, "only June and December carry a bonus")
		}

		if !enabled {
			kept := p.Incomes[:0]
			for _, inc := range p.Incomes {
				if !strings.EqualFold(inc.Category, "prima") {
					kept = append(kept, inc)
				}
			}
			p.Incomes = kept
			p.HasBonus = false
			return nil
		}

		var salary *models.IncomeEntry
		for i := range p.Incomes {
			if strings.EqualFold(p.Incomes[i].Category, "salario") {
				salary = &p.Incomes[i]
				break
			}
		}
		if salary == nil {
			return invalid("period", ErrBonusUnavailable, "add a Salario income first")
		}
		amount := roundHalfUp(float64(salary.Amount) * bonusShare)

		for i := range p.Incomes {
			if strings.EqualFold(p.Incomes[i].Category, "prima") {
				p.Incomes[i].Amount = amount
				bonus = p.Incomes[i]
				p.HasBonus = true
				return nil
			}
		}
		bonus = models.IncomeEntry{ID: uuid.NewString(), Category: "Prima", Amount: amount}
		p.Incomes = append(p.Incomes, bonus)
		p.HasBonus = true
		return nil
	})
	return bonus, err
}

// AddCategory appends a custom category to one of the lists; duplicates are ignored
func (e *Engine) AddCategory(kind models.CategoryKind, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", ErrInvalidCategory, "name is required")
	}
	if e.state.Categories(kind) == nil {
		return invalid("kind", ErrInvalidCategory, "unknown category kind %q", kind)
	}
	return e.mutate(func(s *models.BudgetState) error {
		for _, c := range s.Categories(kind) {
			if c == name {
				return nil
			}
		}
		switch kind {
		case models.CategoryIncome:
			s.IncomeCategories = append(s.IncomeCategories, name)
		case models.CategoryExpense:
			s.ExpenseTypes = append(s.ExpenseTypes, name)
		case models.CategoryInvestment:
			s.InvestmentConcepts = append(s.InvestmentConcepts, name)
		}
		return nil
	})
}

// Reset discards everything and returns to the default state
func (e *Engine) Reset() {
	*e.state = *models.DefaultBudgetState()
}
