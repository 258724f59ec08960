package budget

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"budgetplan/internal/models"
)

const (
	// ProjectionMonths is how many monthly steps a projection simulates
	ProjectionMonths = 12

	// NearMaturityDays is the window in which a CDT is flagged as about to mature
	NearMaturityDays = 30

	minMonthlyRatePct = -100.0
)

var (
	decHundred = decimal.NewFromInt(100)
	decHalf    = decimal.NewFromFloat(0.5)
)

// roundStep rounds a yield to whole currency units, halves going up
func roundStep(d decimal.Decimal) decimal.Decimal {
	return d.Add(decHalf).Floor()
}

// monthlyRate converts a percentage into a rate, floored at -100%
func monthlyRate(pct float64) decimal.Decimal {
	return decimal.NewFromFloat(math.Max(minMonthlyRatePct, pct)).Div(decHundred)
}

// DaysUntil returns whole days from now until the given date, negative once past
func DaysUntil(d models.Date, now time.Time) int {
	return int(math.Floor(d.Sub(now).Hours() / 24))
}

// MaturityStatusFor classifies an investment by days left to maturity.
// Only CDTs mature; everything else is always active.
func MaturityStatusFor(inv models.Investment, now time.Time) (models.MaturityStatus, *int) {
	if !inv.IsCDT() || inv.MaturityDate == nil || inv.MaturityDate.IsZero() {
		return models.MaturityActive, nil
	}
	days := DaysUntil(*inv.MaturityDate, now)
	switch {
	case days < 0:
		return models.MaturityExpired, &days
	case days <= NearMaturityDays:
		return models.MaturityNear, &days
	default:
		return models.MaturityActive, &days
	}
}

// Project computes the month-1 yield, 12-month yield and ending balance.
//
// Simple accrual multiplies the month-1 yield by 12. Compounding simulates 12
// monthly steps, rounding each step's yield before adding it to the running
// balance; totals therefore differ from a once-rounded closed form.
func Project(inv models.Investment, now time.Time) models.Projection {
	r := monthlyRate(inv.MonthlyRatePct)
	principal := decimal.NewFromInt(inv.Amount)
	firstMonth := roundStep(principal.Mul(r))

	var annual, ending decimal.Decimal
	if inv.Compounding {
		balance := principal
		annual = decimal.Zero
		for m := 0; m < ProjectionMonths; m++ {
			y := roundStep(balance.Mul(r))
			annual = annual.Add(y)
			balance = balance.Add(y)
		}
		ending = balance
	} else {
		annual = firstMonth.Mul(decimal.NewFromInt(ProjectionMonths))
		ending = principal.Add(annual)
	}

	status, days := MaturityStatusFor(inv, now)
	return models.Projection{
		Investment:     inv,
		MonthlyYield:   firstMonth.IntPart(),
		AnnualYield:    annual.IntPart(),
		EndingBalance:  ending.IntPart(),
		Status:         status,
		DaysToMaturity: days,
	}
}

// ProjectAll projects rows and computes totals. Share percentages are taken
// against all investments, which may be a superset of rows.
func ProjectAll(rows, all []models.Investment, now time.Time) models.ProjectionTable {
	table := models.ProjectionTable{Rows: make([]models.Projection, 0, len(rows))}

	totalAll := models.SumInvestments(all)
	if totalAll <= 0 {
		totalAll = 1
	}

	for _, inv := range rows {
		p := Project(inv, now)
		p.SharePct = clampPct(float64(inv.Amount) / float64(totalAll) * 100)

		table.TotalInvested += inv.Amount
		table.TotalMonthly += p.MonthlyYield
		table.TotalAnnual += p.AnnualYield
		switch p.Status {
		case models.MaturityNear:
			table.NearMaturity++
		case models.MaturityExpired:
			table.Matured++
		}
		table.Rows = append(table.Rows, p)
	}
	table.TotalWithYield = table.TotalInvested + table.TotalAnnual
	return table
}

// TopInvestments returns the n largest investments by amount
func TopInvestments(invs []models.Investment, n int) []models.Investment {
	sorted := make([]models.Investment, len(invs))
	copy(sorted, invs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
