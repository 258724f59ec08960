// Command budget inspects and edits the budget state from the terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"budgetplan/internal/config"
	"budgetplan/internal/models"
	engine "budgetplan/internal/services/budget"
	"budgetplan/internal/services/storage"
	"budgetplan/internal/version"
)

var (
	flagDataDir   string
	flagStateFile string
)

var rootCmd = &cobra.Command{
	Use:           "budget",
	Short:         "Monthly budget planner",
	Long:          "Plan a 12-month budget: incomes, expenses, savings goals and investments.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSummary,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagStateFile, "state-file", "", "State file name inside the data directory")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies the command-line flags on top of the usual config sources
func loadConfig() *config.Config {
	cfg := config.Load()
	if flagDataDir != "" {
		cfg.DataDirectory = flagDataDir
	}
	if flagStateFile != "" {
		cfg.StateFile = flagStateFile
	}
	return cfg
}

// session is an opened state store plus the engine over its contents
type session struct {
	cfg    *config.Config
	states *storage.StateStore
	engine *engine.Engine
}

// openStore opens the data directory, unlocking it when encrypted
func openStore(cfg *config.Config) (*storage.Storage, error) {
	fs, err := storage.New(cfg.DataDirectory)
	if err != nil {
		return nil, err
	}
	if fs.IsEncrypted() {
		pw := cfg.Password
		if pw == "" {
			if pw, err = readPassword("Password: "); err != nil {
				return nil, err
			}
		}
		if err := fs.Unlock(pw); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// openSession loads the state and builds an engine over it
func openSession() (*session, error) {
	cfg := loadConfig()
	fs, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	states := storage.NewStateStore(fs, cfg.StateFile)
	state, err := states.Load()
	if err != nil {
		return nil, err
	}
	e, err := engine.New(state).WithAllocation(cfg.SavingsPct, cfg.SpendingPct)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, states: states, engine: e}, nil
}

func (s *session) save() error {
	return s.states.Save(s.engine.State())
}

func (s *session) state() *models.BudgetState {
	return s.engine.State()
}

// readPassword prompts on stderr and reads a password without echo
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password required: set BUDGET_PASSWORD or run from a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}
