package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/term"

	"budgetplan/internal/config"
	"budgetplan/internal/handlers/backup"
	budgethandlers "budgetplan/internal/handlers/budget"
	apphttp "budgetplan/internal/http"
	"budgetplan/internal/services/storage"
	"budgetplan/internal/version"
)

var (
	cfg   *config.Config
	store *storage.Storage
)

func main() {
	cfg = config.Load()

	info := version.Get()
	log.Printf("Starting %s %s on %s", version.Name, info.Version, cfg.ListenAddr)
	log.Printf("Data directory: %s", cfg.DataDirectory)
	if warning := info.Check(); warning != "" {
		log.Print(warning)
	}

	var err error
	store, err = storage.New(cfg.DataDirectory)
	if err != nil {
		log.Fatalf("Failed to open data directory: %v", err)
	}

	if store.IsEncrypted() && cfg.Password == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		pw, err := promptPassword()
		if err != nil {
			log.Fatalf("Failed to read password: %v", err)
		}
		cfg.Password = pw
	}

	if err := SetupDependencies(cfg); err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	r := SetupRouter()

	log.Printf("Server starting on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}

// promptPassword reads the encryption password from the terminal without echo
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Data directory is encrypted. Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// SetupDependencies opens the state store and initializes the handlers. An
// encrypted store is unlocked with cfg.Password when one is set; otherwise it
// stays locked until POST /api/storage/unlock.
func SetupDependencies(cfg *config.Config) error {
	if store == nil {
		s, err := storage.New(cfg.DataDirectory)
		if err != nil {
			return err
		}
		store = s
	}

	if store.IsEncrypted() && !store.IsUnlocked() && cfg.Password != "" {
		if err := store.Unlock(cfg.Password); err != nil {
			if errors.Is(err, storage.ErrWrongPassword) {
				return fmt.Errorf("unlocking %s: %w", store.BaseDir(), err)
			}
			return err
		}
		log.Printf("Storage unlocked")
	}

	states := storage.NewStateStore(store, cfg.StateFile)
	backup.Initialize(states, budgethandlers.Reload)
	return budgethandlers.Initialize(states, cfg.SavingsPct, cfg.SpendingPct)
}

// SetupRouter builds the HTTP router
func SetupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/api/health", handleHealth)
	r.Get("/api/version", handleVersion)
	r.Route("/api", func(r chi.Router) {
		budgethandlers.RegisterRoutes(r)
		backup.RegisterRoutes(r)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	apphttp.WriteJSON(w, http.StatusOK, version.Get())
}
