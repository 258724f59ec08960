package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"budgetplan/internal/models"
)

var flagGoal float64

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show savings progress against the goal",
	RunE:  runGoal,
}

func init() {
	goalCmd.Flags().Float64Var(&flagGoal, "set", 0, "New goal as a percentage of planned savings (10-100)")
	rootCmd.AddCommand(goalCmd)
}

func runGoal(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("set") {
		if _, err := s.engine.SetGoal(flagGoal); err != nil {
			return err
		}
	}
	g, err := s.engine.RefreshGoal()
	if err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}

	renderGoal(cmd.OutOrStdout(), g)
	return nil
}

func renderGoal(w io.Writer, g models.GoalProgress) {
	fmt.Fprintf(w, "Planned:    %s\n", formatMoney(g.Planned))
	fmt.Fprintf(w, "Saved:      %s\n", formatMoney(g.Saved))
	fmt.Fprintf(w, "Confirmed:  %s\n", formatMoney(g.Confirmed))
	if g.Pending > 0 {
		fmt.Fprintf(w, "Unconfirmed: %s\n", formatMoney(g.Pending))
	}
	fmt.Fprintf(w, "Progress:   %s %.1f%% (goal %.0f%%, last %.1f%%)\n",
		progressBar(g.CompletionPct, g.GoalMarkerPct, 30), g.CompletionPct, g.GoalPct, g.PreviousFillPct)

	switch {
	case g.Reached:
		fmt.Fprintln(w, "Every planned peso is saved.")
	case g.GoalMet:
		fmt.Fprintln(w, "Goal met.")
	}
}
