package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"

	"budgetplan/internal/models"
)

// DefaultStateFile is the snapshot name inside the data directory
const DefaultStateFile = "state.json"

// StateStore persists the budget state as one JSON snapshot
type StateStore struct {
	storage  *Storage
	filename string
	mu       sync.Mutex
}

// NewStateStore creates a store for filename inside the storage's data directory
func NewStateStore(storage *Storage, filename string) *StateStore {
	if filename == "" {
		filename = DefaultStateFile
	}
	return &StateStore{storage: storage, filename: filename}
}

// Storage returns the underlying file storage
func (ss *StateStore) Storage() *Storage {
	return ss.storage
}

// Path returns the snapshot's location on disk
func (ss *StateStore) Path() string {
	return ss.storage.Path(ss.filename)
}

// Filename returns the snapshot's name inside the data directory
func (ss *StateStore) Filename() string {
	return ss.filename
}

// Load reads the snapshot, returning a default state if none has been saved
func (ss *StateStore) Load() (*models.BudgetState, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if !ss.storage.Exists(ss.filename) {
		return models.DefaultBudgetState(), nil
	}
	data, err := ss.storage.ReadFile(ss.filename)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	return ss.decode(data)
}

// decode parses a snapshot and upgrades it to the current version
func (ss *StateStore) decode(data []byte) (*models.BudgetState, error) {
	var state models.BudgetState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	var legacy legacySnapshot
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}

	if n := migrate(&state, &legacy); n > 0 {
		log.Printf("Migrated %d legacy fields in %s", n, ss.filename)
	}
	state.EnsureDefaults()
	return &state, nil
}

// Export returns the snapshot as plain JSON, decrypted if needed. With no
// snapshot saved yet the default state is exported.
func (ss *StateStore) Export() ([]byte, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if !ss.storage.Exists(ss.filename) {
		state := models.DefaultBudgetState()
		state.Version = models.StateVersion
		return json.MarshalIndent(state, "", "  ")
	}
	return ss.storage.ReadFile(ss.filename)
}

// Import replaces the snapshot with data after checking it parses. Older
// snapshot versions are upgraded before they are written.
func (ss *StateStore) Import(data []byte) (*models.BudgetState, error) {
	state, err := ss.decode(data)
	if err != nil {
		return nil, err
	}
	if err := ss.Save(state); err != nil {
		return nil, err
	}
	return state, nil
}

// Save writes the snapshot as indented JSON
func (ss *StateStore) Save(state *models.BudgetState) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	state.Version = models.StateVersion
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := ss.storage.WriteFile(ss.filename, data); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// legacySnapshot picks out fields whose absence must be told apart from zero
type legacySnapshot struct {
	SavingsGoalPct *float64 `json:"savings_goal_pct"`
	Periods        []struct {
		SavingsPct  *float64 `json:"savings_pct"`
		SpendingPct *float64 `json:"spending_pct"`
	} `json:"periods"`
}

// migrate upgrades older snapshots in place and returns how many fields changed
func migrate(state *models.BudgetState, legacy *legacySnapshot) int {
	changed := 0

	for i := range state.Periods {
		p := &state.Periods[i]
		if i < len(legacy.Periods) {
			if legacy.Periods[i].SavingsPct == nil {
				p.SavingsPct = models.DefaultSavingsPct
				changed++
			}
			if legacy.Periods[i].SpendingPct == nil {
				p.SpendingPct = models.DefaultSpendingPct
				changed++
			}
		}
		for j := range p.Expenses {
			if p.Expenses[j].MigrateLegacy() {
				changed++
			}
		}
	}
	for j := range state.PendingExpenses {
		if state.PendingExpenses[j].MigrateLegacy() {
			changed++
		}
	}

	if len(state.Periods) > 0 {
		first := state.Periods[0].ID
		for i := range state.Investments {
			if state.Investments[i].PeriodID == "" {
				state.Investments[i].PeriodID = first
				changed++
			}
		}
	}

	goal := models.DefaultGoalPct
	if legacy.SavingsGoalPct != nil {
		goal = math.Min(models.MaxGoalPct, math.Max(models.MinGoalPct, *legacy.SavingsGoalPct))
	}
	if goal != state.SavingsGoalPct {
		state.SavingsGoalPct = goal
		changed++
	}

	if state.Version < models.StateVersion {
		state.Version = models.StateVersion
		changed++
	}
	return changed
}
