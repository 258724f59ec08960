package models

import "time"

// StateVersion is bumped whenever the snapshot shape changes
const StateVersion = 2

const (
	MinGoalPct     = 10.0
	MaxGoalPct     = 100.0
	DefaultGoalPct = 100.0
)

// CategoryKind selects one of the user-editable category lists
type CategoryKind string

const (
	CategoryIncome     CategoryKind = "income"
	CategoryExpense    CategoryKind = "expense"
	CategoryInvestment CategoryKind = "investment"
)

var defaultIncomeCategories = []string{
	"Salario", "Rentas", "Bonos", "Honorarios", "Venta", "Intereses", "Herencias", "Dividendos",
	"Propinas", "Subsidios", "Reembolsos", "Regalías", "Consultorías", "Freelance", "Licencias",
}

var defaultExpenseTypes = []string{
	"Mercado", "Arriendo", "Servicios públicos", "Transporte", "Salud", "Educación", "Entretenimiento",
	"Deudas", "Seguros", "Impuestos", "Mascotas", "Hogar", "Ropa", "Tecnología", "Otros",
}

var defaultInvestmentConcepts = []string{
	"Fondo de inversiones", "Oro", "Finca raíz", "Acciones", "Bonos corporativos", "ETFs",
	"Criptomonedas", "CDT", "Crowdfunding", "Emprendimiento", "Dividendos", "Nu", "Lulu bank",
}

// BudgetState is the root aggregate: every period, investment and setting
type BudgetState struct {
	Version   int        `json:"version"`
	CreatedAt *time.Time `json:"created_at"`

	Periods     []LedgerPeriod `json:"periods"`
	Investments []Investment   `json:"investments"`

	SavingsGoalPct  float64 `json:"savings_goal_pct"`   // 10..100
	LastBankFillPct float64 `json:"last_bank_fill_pct"` // Completion shown last time
	HorizonBuilt    bool    `json:"horizon_built"`

	// Buffer used before the 12-period horizon exists
	PendingIncomes     []IncomeEntry  `json:"pending_incomes"`
	PendingExpenses    []ExpenseEntry `json:"pending_expenses"`
	PendingInvestments []Investment   `json:"pending_investments"`

	IncomeCategories   []string `json:"income_categories"`
	ExpenseTypes       []string `json:"expense_types"`
	InvestmentConcepts []string `json:"investment_concepts"`
}

// DefaultBudgetState returns an empty state with the stock category lists
func DefaultBudgetState() *BudgetState {
	return &BudgetState{
		Version:            StateVersion,
		Periods:            []LedgerPeriod{},
		Investments:        []Investment{},
		SavingsGoalPct:     DefaultGoalPct,
		PendingIncomes:     []IncomeEntry{},
		PendingExpenses:    []ExpenseEntry{},
		PendingInvestments: []Investment{},
		IncomeCategories:   append([]string{}, defaultIncomeCategories...),
		ExpenseTypes:       append([]string{}, defaultExpenseTypes...),
		InvestmentConcepts: append([]string{}, defaultInvestmentConcepts...),
	}
}

// Categories returns the list for the given kind
func (s *BudgetState) Categories(kind CategoryKind) []string {
	switch kind {
	case CategoryIncome:
		return s.IncomeCategories
	case CategoryExpense:
		return s.ExpenseTypes
	case CategoryInvestment:
		return s.InvestmentConcepts
	}
	return nil
}

// EnsureDefaults fills nil slices and empty category lists
func (s *BudgetState) EnsureDefaults() {
	if s.Periods == nil {
		s.Periods = []LedgerPeriod{}
	}
	if s.Investments == nil {
		s.Investments = []Investment{}
	}
	if s.PendingIncomes == nil {
		s.PendingIncomes = []IncomeEntry{}
	}
	if s.PendingExpenses == nil {
		s.PendingExpenses = []ExpenseEntry{}
	}
	if s.PendingInvestments == nil {
		s.PendingInvestments = []Investment{}
	}
	if len(s.IncomeCategories) == 0 {
		s.IncomeCategories = append([]string{}, defaultIncomeCategories...)
	}
	if len(s.ExpenseTypes) == 0 {
		s.ExpenseTypes = append([]string{}, defaultExpenseTypes...)
	}
	if len(s.InvestmentConcepts) == 0 {
		s.InvestmentConcepts = append([]string{}, defaultInvestmentConcepts...)
	}
	for i := range s.Periods {
		if s.Periods[i].Incomes == nil {
			s.Periods[i].Incomes = []IncomeEntry{}
		}
		if s.Periods[i].Expenses == nil {
			s.Periods[i].Expenses = []ExpenseEntry{}
		}
	}
}

// Clone returns a deep copy of the state
func (s *BudgetState) Clone() *BudgetState {
	c := *s
	if s.CreatedAt != nil {
		t := *s.CreatedAt
		c.CreatedAt = &t
	}
	c.Periods = make([]LedgerPeriod, len(s.Periods))
	for i, p := range s.Periods {
		c.Periods[i] = p.Clone()
	}
	c.Investments = cloneInvestments(s.Investments)
	c.PendingInvestments = cloneInvestments(s.PendingInvestments)
	c.PendingIncomes = append([]IncomeEntry{}, s.PendingIncomes...)
	c.PendingExpenses = append([]ExpenseEntry{}, s.PendingExpenses...)
	c.IncomeCategories = append([]string{}, s.IncomeCategories...)
	c.ExpenseTypes = append([]string{}, s.ExpenseTypes...)
	c.InvestmentConcepts = append([]string{}, s.InvestmentConcepts...)
	return &c
}

func cloneInvestments(invs []Investment) []Investment {
	out := make([]Investment, len(invs))
	for i, inv := range invs {
		out[i] = inv.Clone()
	}
	return out
}
