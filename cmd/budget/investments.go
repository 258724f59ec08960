package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"budgetplan/internal/models"
)

var (
	flagPeriod string
	flagTop    int
)

var investmentsCmd = &cobra.Command{
	Use:   "investments",
	Short: "Project investment yields over 12 months",
	RunE:  runInvestments,
}

func init() {
	investmentsCmd.Flags().StringVarP(&flagPeriod, "period", "p", "", "Only investments of this period (YYYY-MM or pending)")
	investmentsCmd.Flags().IntVar(&flagTop, "top", 5, "How many of the largest investments to list")
	rootCmd.AddCommand(investmentsCmd)
}

func runInvestments(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	table := s.engine.Projections(flagPeriod)
	if len(table.Rows) == 0 {
		fmt.Fprintln(out, "No investments.")
		return nil
	}
	renderProjections(out, table)

	if flagTop > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Largest:")
		for i, inv := range s.engine.TopInvestments(flagTop) {
			fmt.Fprintf(out, "  %d. %s %s\n", i+1, inv.Concept, formatMoney(inv.Amount))
		}
	}
	return nil
}

func renderProjections(w io.Writer, t models.ProjectionTable) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Concept\tAmount\tRate\tMonthly\tAnnual\tAfter 12m\tShare\tStatus")
	for _, p := range t.Rows {
		status := string(p.Status)
		if p.DaysToMaturity != nil {
			status = fmt.Sprintf("%s (%dd)", status, *p.DaysToMaturity)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f%%\t%s\t%s\t%s\t%.1f%%\t%s\n",
			p.Investment.Concept,
			formatMoney(p.Investment.Amount),
			p.Investment.MonthlyRatePct,
			formatMoney(p.MonthlyYield),
			formatMoney(p.AnnualYield),
			formatMoney(p.EndingBalance),
			p.SharePct,
			status,
		)
	}
	fmt.Fprintf(tw, "Total\t%s\t\t%s\t%s\t%s\t\t\n",
		formatMoney(t.TotalInvested),
		formatMoney(t.TotalMonthly),
		formatMoney(t.TotalAnnual),
		formatMoney(t.TotalWithYield),
	)
	tw.Flush()

	if t.NearMaturity > 0 || t.Matured > 0 {
		fmt.Fprintf(w, "%d near maturity, %d matured\n", t.NearMaturity, t.Matured)
	}
}
