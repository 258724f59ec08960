package main

import (
	"bytes"
	"strings"
	"testing"

	"budgetplan/internal/models"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1.000"},
		{1250000, "$1.250.000"},
		{-45000, "-$45.000"},
		{100000000, "$100.000.000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatMoney(tt.in); got != tt.want {
				t.Errorf("formatMoney(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name         string
		fill, marker float64
		want         string
	}{
		{"empty", 0, 50, "[.....|....]"},
		{"half", 50, 80, "[#####...|.]"},
		{"past marker", 100, 50, "[#####|####]"},
		{"marker at end", 30, 100, "[###......|]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := progressBar(tt.fill, tt.marker, 10); got != tt.want {
				t.Errorf("progressBar(%v, %v) = %q, want %q", tt.fill, tt.marker, got, tt.want)
			}
		})
	}
}

func TestRenderSummaries(t *testing.T) {
	var buf bytes.Buffer
	renderSummaries(&buf, []models.PeriodSummary{
		{Label: "Junio 2025", TotalIncome: 3000000, TotalExpense: 1200000, Balance: 1800000, Status: models.StatusOK, Highlight: "high"},
		{Label: "Julio 2025", TotalIncome: 1000, TotalExpense: 2000, Balance: -1000, Status: models.StatusDanger},
	})

	out := buf.String()
	for _, want := range []string{"Period", "Junio 2025", "$1.800.000", "ok (high)", "-$1.000", "danger"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 3 {
		t.Errorf("got %d lines, want 3", lines)
	}
}

func TestRenderGoal(t *testing.T) {
	var buf bytes.Buffer
	renderGoal(&buf, models.GoalProgress{
		Planned: 1000, Saved: 600, Confirmed: 500, Pending: 100,
		CompletionPct: 50, GoalPct: 40, GoalMarkerPct: 40, GoalMet: true,
	})

	out := buf.String()
	for _, want := range []string{"$1.000", "Unconfirmed: $100", "50.0%", "goal 40%", "Goal met."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
