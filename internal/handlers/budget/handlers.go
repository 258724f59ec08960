package budget

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	apphttp "budgetplan/internal/http"
	"budgetplan/internal/models"
	engine "budgetplan/internal/services/budget"
	"budgetplan/internal/services/storage"
)

// topInvestments is how many investments the projections endpoint ranks
const topInvestments = 5

var (
	store *storage.StateStore
	eng   *engine.Engine // nil while the storage is locked

	savingsPct  = models.DefaultSavingsPct
	spendingPct = models.DefaultSpendingPct
	clock       = time.Now

	// mu serializes every engine call and the save that follows it
	mu sync.Mutex
)

// Initialize sets up the budget handlers. When the storage is encrypted and
// locked the state is loaded later, on unlock.
func Initialize(s *storage.StateStore, defaultSavingsPct, defaultSpendingPct float64) error {
	mu.Lock()
	defer mu.Unlock()

	store = s
	savingsPct = defaultSavingsPct
	spendingPct = defaultSpendingPct
	eng = nil

	if !s.Storage().IsUnlocked() {
		log.Printf("Storage is encrypted and locked; unlock it via POST /api/storage/unlock")
		return nil
	}
	return loadLocked()
}

// SetClock overrides the time source used by the engine, for tests
func SetClock(now func() time.Time) {
	mu.Lock()
	defer mu.Unlock()

	clock = now
	if eng != nil {
		eng.WithClock(now)
	}
}

// Reload replaces the in-memory state with the saved snapshot
func Reload() error {
	mu.Lock()
	defer mu.Unlock()

	if !store.Storage().IsUnlocked() {
		eng = nil
		return storage.ErrLocked
	}
	return loadLocked()
}

// loadLocked reads the snapshot into a fresh engine. Callers hold mu.
func loadLocked() error {
	state, err := store.Load()
	if err != nil {
		return err
	}
	e, err := engine.New(state).WithClock(clock).WithAllocation(savingsPct, spendingPct)
	if err != nil {
		return err
	}
	eng = e
	return nil
}

// RegisterRoutes registers all budget API routes
func RegisterRoutes(r chi.Router) {
	r.Get("/state", handleState)
	r.Post("/reset", handleReset)
	r.Get("/categories/{kind}", handleCategories)
	r.Post("/categories/{kind}", handleAddCategory)
	r.Post("/horizon", handleBuildHorizon)

	r.Route("/periods/{periodID}", func(r chi.Router) {
		r.Post("/incomes", handleAddIncome)
		r.Put("/incomes/{entryID}", handleUpdateIncome)
		r.Delete("/incomes/{entryID}", handleRemoveIncome)
		r.Post("/expenses", handleAddExpense)
		r.Put("/expenses/{entryID}", handleUpdateExpense)
		r.Delete("/expenses/{entryID}", handleRemoveExpense)
		r.Put("/expenses/{entryID}/paid", handleSetPaid)
		r.Put("/percentages", handleSetPercentages)
		r.Put("/savings", handleSetSavings)
		r.Put("/confirm", handleConfirmSavings)
		r.Put("/bonus", handleSetBonus)
		r.Get("/available", handleAvailable)
		r.Get("/payments", handlePayments)
		r.Get("/categories", handlePeriodCategories)
	})
	r.Put("/percentages", handleApplyPercentages)

	r.Post("/investments", handleAddInvestment)
	r.Delete("/investments/{id}", handleRemoveInvestment)
	r.Get("/investments/projections", handleProjections)

	r.Get("/summary", handleSummary)
	r.Get("/goal", handleGoal)
	r.Put("/goal", handleSetGoal)

	r.Get("/storage", handleStorageStatus)
	r.Post("/storage/encrypt", handleEncrypt)
	r.Post("/storage/decrypt", handleDecrypt)
	r.Post("/storage/unlock", handleUnlock)
	r.Post("/storage/lock", handleLock)
}

// mutate runs fn against the engine and saves the result. If fn or the save
// fails, the in-memory state is rolled back so memory and disk stay in step;
// fn may chain several engine operations.
func mutate(w http.ResponseWriter, status int, fn func(e *engine.Engine) (any, error)) {
	mu.Lock()
	defer mu.Unlock()

	if eng == nil {
		apphttp.Error(w, storage.ErrLocked)
		return
	}
	before := eng.State().Clone()

	result, err := fn(eng)
	if err != nil {
		*eng.State() = *before
		apphttp.Error(w, err)
		return
	}
	if err := store.Save(eng.State()); err != nil {
		*eng.State() = *before
		apphttp.Error(w, err)
		return
	}
	apphttp.WriteJSON(w, status, result)
}

// read runs fn against the engine without saving
func read(w http.ResponseWriter, fn func(e *engine.Engine) (any, error)) {
	mu.Lock()
	defer mu.Unlock()

	if eng == nil {
		apphttp.Error(w, storage.ErrLocked)
		return
	}
	result, err := fn(eng)
	if err != nil {
		apphttp.Error(w, err)
		return
	}
	apphttp.WriteJSON(w, http.StatusOK, result)
}

func handleState(w http.ResponseWriter, r *http.Request) {
	read(w, func(e *engine.Engine) (any, error) {
		return e.State(), nil
	})
}

func handleReset(w http.ResponseWriter, r *http.Request) {
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		e.Reset()
		return e.State(), nil
	})
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	kind := models.CategoryKind(chi.URLParam(r, "kind"))
	read(w, func(e *engine.Engine) (any, error) {
		list := e.State().Categories(kind)
		if list == nil {
			return nil, &engine.ValidationError{Field: "kind", Err: engine.ErrInvalidCategory, Reason: string(kind)}
		}
		return list, nil
	})
}

type categoryRequest struct {
	Name string `json:"name"`
}

func handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		apphttp.Error(w, err)
		return
	}
	kind := models.CategoryKind(chi.URLParam(r, "kind"))
	mutate(w, http.StatusOK, func(e *engine.Engine) (any, error) {
		if err := e.AddCategory(kind, req.Name); err != nil {
			return nil, err
		}
		return e.State().Categories(kind), nil
	})
}

type horizonRequest struct {
	Start string `json:"start"` // YYYY-MM-DD, defaults to today
}

func handleBuildHorizon(w http.ResponseWriter, r *http.Request) {
	var req horizonRequest
	if err := apphttp.DecodeOptionalJSON(r, &req); err != nil {
		apphttp.Error(w, err)
		return
	}
	var start time.Time
	if req.Start != "" {
		d, err := models.ParseDate(req.Start)
		if err != nil {
			apphttp.Error(w, &engine.ValidationError{Field: "start", Err: err})
			return
		}
		start = d.Time
	}
	mutate(w, http.StatusCreated, func(e *engine.Engine) (any, error) {
		if err := e.BuildHorizon(start); err != nil {
			return nil, err
		}
		return e.State().Periods, nil
	})
}

func handleSummary(w http.ResponseWriter, r *http.Request) {
	read(w, func(e *engine.Engine) (any, error) {
		return e.Summaries(), nil
	})
}

func handleAvailable(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	read(w, func(e *engine.Engine) (any, error) {
		available, err := e.Available(periodID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"period_id": periodID, "available": available}, nil
	})
}

func handlePayments(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	read(w, func(e *engine.Engine) (any, error) {
		return e.PaymentProgress(periodID)
	})
}

func handlePeriodCategories(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	read(w, func(e *engine.Engine) (any, error) {
		return e.Categories(periodID)
	})
}

// projectionsResponse pairs the projection table with the largest holdings
type projectionsResponse struct {
	models.ProjectionTable
	Top []models.Investment `json:"top"`
}

func handleProjections(w http.ResponseWriter, r *http.Request) {
	periodID := r.URL.Query().Get("period")
	n := topInvestments
	if raw := r.URL.Query().Get("top"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			n = v
		}
	}
	read(w, func(e *engine.Engine) (any, error) {
		return projectionsResponse{
			ProjectionTable: e.Projections(periodID),
			Top:             e.TopInvestments(n),
		}, nil
	})
}
