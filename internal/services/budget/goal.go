package budget

import (
	"math"

	"budgetplan/internal/models"
)

// ClampGoal bounds a savings goal to [10, 100]
func ClampGoal(pct float64) float64 {
	return math.Min(models.MaxGoalPct, math.Max(models.MinGoalPct, pct))
}

// TrackGoal aggregates confirmed savings against planned savings.
// goalPct is reported as given; only the marker is bounded to the fill scale.
func TrackGoal(periods []models.LedgerPeriod, goalPct float64) models.GoalProgress {
	var g models.GoalProgress
	for _, p := range periods {
		g.Planned += p.SavingsPlanned
		g.Saved += p.SavingsActual
		if p.SavingsConfirmed {
			g.Confirmed += p.SavingsActual
		}
	}
	if g.Saved > g.Confirmed {
		g.Pending = g.Saved - g.Confirmed
	}
	if g.Planned > 0 {
		g.CompletionPct = clampPct(float64(g.Confirmed) / float64(g.Planned) * 100)
	}

	g.GoalPct = goalPct
	g.GoalMarkerPct = clampPct(goalPct)
	g.GoalMet = g.Planned > 0 && g.CompletionPct >= g.GoalMarkerPct
	g.Reached = g.Planned > 0 && g.CompletionPct >= 100
	return g
}

// ConfirmPeriod sets the confirmation flag on a period. Confirming a period
// whose actual savings fall short of the plan raises them to the plan and
// returns true so the caller can tell the user. Un-confirming leaves the
// actual savings as they are.
func ConfirmPeriod(p *models.LedgerPeriod, confirmed bool) (raised bool) {
	p.SavingsConfirmed = confirmed
	if confirmed && p.SavingsActual < p.SavingsPlanned {
		p.SavingsActual = p.SavingsPlanned
		return true
	}
	return false
}
