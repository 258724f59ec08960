package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apphttp "budgetplan/internal/http"
	"budgetplan/internal/models"
	engine "budgetplan/internal/services/budget"
)

func handleAddIncome(w http.ResponseWriter, r *http.Request) {
	var entry models.IncomeEntry
	if err := apphttp.DecodeJSON(r, &entry); err != nil {
		apphttp.Error(w, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	mutate(w, http.StatusCreated, func(e *engine.Engine) (any, error) {
		return e.AddIncome(periodID, entry)
	})
}

func handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	var entry models.IncomeEntry
	if err := apphttp.DecodeJSON(r, &entry); err != nil {
		apphttp.Error(w, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	entryID := chi.URLParam(r, "entryID")
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if err := e.UpdateIncome(periodID, entryID, entry); err != nil {
			return nil, err
		}
		return periodView(e, periodID), nil
	})
}

func handleRemoveIncome(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	entryID := chi.URLParam(r, "entryID")
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if err := e.RemoveIncome(periodID, entryID); err != nil {
			return nil, err
		}
		return periodView(e, periodID), nil
	})
}

type addExpenseResponse struct {
	Placed int `json:"placed"`
	Period any `json:"period"`
}

func handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var entry models.ExpenseEntry
	if err := apphttp.DecodeJSON(r, &entry); err != nil {
		apphttp.Error(w, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	mutate(w, http.StatusCreated, func(e *engine.Engine) (any, error) {
		placed, err := e.AddExpense(periodID, entry)
		if err != nil {
			return nil, err
		}
		return addExpenseResponse{Placed: placed, Period: periodView(e, periodID)}, nil
	})
}

func handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var entry models.ExpenseEntry
	if err := apphttp.DecodeJSON(r, &entry); err != nil {
		apphttp.Error(w, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	entryID := chi.URLParam(r, "entryID")
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if err := e.UpdateExpense(periodID, entryID, entry); err != nil {
			return nil, err
		}
		return periodView(e, periodID), nil
	})
}

func handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	entryID := chi.URLParam(r, "entryID")
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if err := e.RemoveExpense(periodID, entryID); err != nil {
			return nil, err
		}
		return periodView(e, periodID), nil
	})
}

type paidRequest struct {
	Paid bool `json:"paid"`
}

func handleSetPaid(w http.ResponseWriter, r *http.Request) {
	var req paidRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		apphttp.Error(w, err)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	entryID := chi.URLParam(r, "entryID")
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if err := e.SetExpensePaid(periodID, entryID, req.Paid); err != nil {
			return nil, err
		}
		return e.PaymentProgress(periodID)
	})
}

// pendingView is the pre-horizon buffer as returned by the API
type pendingView struct {
	Incomes     []models.IncomeEntry  `json:"incomes"`
	Expenses    []models.ExpenseEntry `json:"expenses"`
	Investments []models.Investment   `json:"investments"`
	Available   int64                 `json:"available"`
}

// periodView returns the addressed period, or the pending buffer
func periodView(e *engine.Engine, periodID string) any {
	s := e.State()
	if periodID == "" || periodID == engine.Pending {
		return pendingView{
			Incomes:     s.PendingIncomes,
			Expenses:    s.PendingExpenses,
			Investments: s.PendingInvestments,
			Available:   engine.PendingAvailable(s),
		}
	}
	for _, p := range s.Periods {
		if p.ID == periodID {
			return p
		}
	}
	return nil
}
