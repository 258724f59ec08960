package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apphttp "budgetplan/internal/http"
	"budgetplan/internal/models"
	engine "budgetplan/internal/services/budget"
)

type percentagesRequest struct {
	SavingsPct  *float64 `json:"savings_pct"`
	SpendingPct *float64 `json:"spending_pct"`
}

// decodePercentages requires both fields so an omitted one is not read as 0
func decodePercentages(r *http.Request) (float64, float64, error) {
	var req percentagesRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return 0, 0, err
	}
	if req.SavingsPct == nil {
		return 0, 0, &engine.ValidationError{Field: "savings_pct", Err: engine.ErrInvalidPercentage, Reason: "required"}
	}
	if req.SpendingPct == nil {
		return 0, 0, &engine.ValidationError{Field: "spending_pct", Err: engine.ErrInvalidPercentage, Reason: "required"}
	}
	return *req.SavingsPct, *req.SpendingPct, nil
}

func handleSetPercentages(w http.ResponseWriter, r *http.Request) {
	savings, spending, err := decodePercentages(r)
	if err != nil {
		apphttp.Error(w, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if err := e.SetPercentages(periodID, savings, spending); err != nil {
			return nil, err
		}
		return periodView(e, periodID), nil
	})
}

func handleApplyPercentages(w http.ResponseWriter, r *http.Request) {
	savings, spending, err := decodePercentages(r)
	if err != nil {
		apphttp.Error(w, err)
		return
	}
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if err := e.ApplyPercentages(savings, spending); err != nil {
			return nil, err
		}
		return e.Summaries(), nil
	})
}

type savingsRequest struct {
	Actual int64 `json:"actual"`
}

func handleSetSavings(w http.ResponseWriter, r *http.Request) {
	var req savingsRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		apphttp.Error(w, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if err := e.SetSavingsActual(periodID, req.Actual); err != nil {
			return nil, err
		}
		return periodView(e, periodID), nil
	})
}

type confirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

type confirmResponse struct {
	Raised bool `json:"raised"` // actual savings were lifted to the plan
	Period any  `json:"period"`
}

func handleConfirmSavings(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		apphttp.Error(w, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		raised, err := e.ConfirmSavings(periodID, req.Confirmed)
		if err != nil {
			return nil, err
		}
		return confirmResponse{Raised: raised, Period: periodView(e, periodID)}, nil
	})
}

type bonusRequest struct {
	Enabled bool `json:"enabled"`
}

func handleSetBonus(w http.ResponseWriter, r *http.Request) {
	var req bonusRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		apphttp.Error(w, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if _, err := e.SetBonus(periodID, req.Enabled); err != nil {
			return nil, err
		}
		return periodView(e, periodID), nil
	})
}

func handleGoal(w http.ResponseWriter, r *http.Request) {
	read(w, func(e *engine.Engine) (any, error) {
		return e.GoalProgress(), nil
	})
}

type goalRequest struct {
	GoalPct *float64 `json:"goal_pct"`
}

// handleSetGoal stores a new goal when one is given and records the current
// fill level as the last one shown
func handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := apphttp.DecodeOptionalJSON(r, &req); err != nil {
		apphttp.Error(w, err)
		return
	}
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if req.GoalPct != nil {
			if _, err := e.SetGoal(*req.GoalPct); err != nil {
				return nil, err
			}
		}
		g, err := e.RefreshGoal()
		if err != nil {
			return models.GoalProgress{}, err
		}
		return g, nil
	})
}

func handleAddInvestment(w http.ResponseWriter, r *http.Request) {
	var inv models.Investment
	if err := apphttp.DecodeJSON(r, &inv); err != nil {
		apphttp.Error(w, err)
		return
	}
	mutate(w, http.StatusCreated, func(e *engine.Engine) (any, error) {
		return e.AddInvestment(inv.PeriodID, inv)
	})
}

func handleRemoveInvestment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if err := e.RemoveInvestment(id); err != nil {
			return nil, err
		}
		return e.Projections(""), nil
	})
}
