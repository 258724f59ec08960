package models

// CarryOverStep records how one period's available funds were derived
type CarryOverStep struct {
	PeriodID  string `json:"period_id"`
	CarryIn   int64  `json:"carry_in"`
	Invested  int64  `json:"invested"`
	Available int64  `json:"available"`
}

// MaturityStatus describes where a fixed-term investment is in its life
type MaturityStatus string

const (
	MaturityActive  MaturityStatus = "active"
	MaturityNear    MaturityStatus = "near_maturity" // 0..30 days left
	MaturityExpired MaturityStatus = "matured"
)

// Projection is the 12-month yield outlook for one investment
type Projection struct {
	Investment     Investment     `json:"investment"`
	MonthlyYield   int64          `json:"monthly_yield"` // Month-1 yield
	AnnualYield    int64          `json:"annual_yield"`
	EndingBalance  int64          `json:"ending_balance"`
	SharePct       float64        `json:"share_pct"` // Share of all invested money
	Status         MaturityStatus `json:"status"`
	DaysToMaturity *int           `json:"days_to_maturity,omitempty"`
}

// ProjectionTable is the projection of a set of investments plus totals
type ProjectionTable struct {
	Rows           []Projection `json:"rows"`
	TotalInvested  int64        `json:"total_invested"`
	TotalMonthly   int64        `json:"total_monthly"`
	TotalAnnual    int64        `json:"total_annual"`
	TotalWithYield int64        `json:"total_with_yield"`
	NearMaturity   int          `json:"near_maturity"`
	Matured        int          `json:"matured"`
}

// GoalProgress summarizes confirmed savings against the plan
type GoalProgress struct {
	Planned         int64   `json:"planned"`
	Saved           int64   `json:"saved"`     // All savings_actual, confirmed or not
	Confirmed       int64   `json:"confirmed"` // savings_actual of confirmed periods
	Pending         int64   `json:"pending"`   // Saved but not yet confirmed
	CompletionPct   float64 `json:"completion_pct"`
	GoalPct         float64 `json:"goal_pct"`
	GoalMarkerPct   float64 `json:"goal_marker_pct"` // Goal clamped to the fill scale
	GoalMet         bool    `json:"goal_met"`
	Reached         bool    `json:"reached"` // Full plan confirmed
	PreviousFillPct float64 `json:"previous_fill_pct"`
}

// BalanceStatus is the health flag for a period's balance
type BalanceStatus string

const (
	StatusOK     BalanceStatus = "ok"
	StatusWarn   BalanceStatus = "warn"
	StatusDanger BalanceStatus = "danger"
)

// PeriodSummary is the read-only overview row for a period
type PeriodSummary struct {
	PeriodID        string        `json:"period_id"`
	Label           string        `json:"label"`
	TotalIncome     int64         `json:"total_income"`
	TotalExpense    int64         `json:"total_expense"`
	Balance         int64         `json:"balance"`
	LiquidityPct    float64       `json:"liquidity_pct"`
	ExpensePct      float64       `json:"expense_pct"`
	SavingsPlanned  int64         `json:"savings_planned"`
	SavingsActual   int64         `json:"savings_actual"`
	SpendingPlanned int64         `json:"spending_planned"`
	Available       int64         `json:"available"`
	Status          BalanceStatus `json:"status"`
	Highlight       string        `json:"highlight,omitempty"` // "high" or "low"
}

// PaymentProgress is paid vs total expenses for a period
type PaymentProgress struct {
	Total   int64         `json:"total"`
	Paid    int64         `json:"paid"`
	PaidPct float64       `json:"paid_pct"`
	Status  BalanceStatus `json:"status"`
}

// CategoryTotal is the expense total for one expense type
type CategoryTotal struct {
	Type   string  `json:"type"`
	Amount int64   `json:"amount"`
	Pct    float64 `json:"pct"`
}
