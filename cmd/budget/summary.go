package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"budgetplan/internal/models"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the 12-month overview",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !s.state().HorizonBuilt {
		st := s.state()
		fmt.Fprintln(out, "No horizon built yet. Pending entries:")
		fmt.Fprintf(out, "  incomes:     %d (%s)\n", len(st.PendingIncomes), formatMoney(models.SumIncomes(st.PendingIncomes)))
		fmt.Fprintf(out, "  expenses:    %d (%s)\n", len(st.PendingExpenses), formatMoney(models.SumExpenses(st.PendingExpenses)))
		fmt.Fprintf(out, "  investments: %d (%s)\n", len(st.PendingInvestments), formatMoney(models.SumInvestments(st.PendingInvestments)))
		fmt.Fprintln(out, "Run `budget build` to create the 12 periods.")
		return nil
	}

	renderSummaries(out, s.engine.Summaries())
	return nil
}

// renderSummaries prints one aligned row per period
func renderSummaries(w io.Writer, rows []models.PeriodSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tIncome\tExpenses\tBalance\tSavings\tSpending\tAvailable\tStatus\t")
	for _, r := range rows {
		marker := ""
		if r.Highlight != "" {
			marker = " (" + r.Highlight + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s%s\t\n",
			r.Label,
			formatMoney(r.TotalIncome),
			formatMoney(r.TotalExpense),
			formatMoney(r.Balance),
			formatMoney(r.SavingsPlanned),
			formatMoney(r.SpendingPlanned),
			formatMoney(r.Available),
			r.Status, marker,
		)
	}
	tw.Flush()
}
