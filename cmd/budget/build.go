package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"budgetplan/internal/models"
)

var flagStart string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the 12-month horizon from the pending entries",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&flagStart, "start", "", "First month as YYYY-MM-DD (default: this month)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	var start time.Time
	if flagStart != "" {
		d, err := models.ParseDate(flagStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		start = d.Time
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	if err := s.engine.BuildHorizon(start); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}

	periods := s.state().Periods
	fmt.Fprintf(cmd.OutOrStdout(), "Built %d periods: %s to %s\n",
		len(periods), periods[0].Label, periods[len(periods)-1].Label)
	renderSummaries(cmd.OutOrStdout(), s.engine.Summaries())
	return nil
}
