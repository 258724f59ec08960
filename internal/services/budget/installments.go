package budget

import (
	"github.com/google/uuid"

	"budgetplan/internal/models"
)

const (
	MinInstallments = 2
	MaxInstallments = 12
)

// ValidateInstallments checks an installment count is within [2, 12]
func ValidateInstallments(n int) error {
	if n < MinInstallments || n > MaxInstallments {
		return invalid("installments", ErrInvalidInstallmentCount, "got %d", n)
	}
	return nil
}

// Distribute places an expense template into periods according to its recurrence
// and returns how many entries were created.
//
// Installments put the same per-installment amount into consecutive periods
// starting at startIndex; slices that would fall past the last period are
// dropped. Recurring-monthly templates are copied into every period regardless
// of startIndex (a recurring charge, not a single one). One-time templates go
// into periods[startIndex] only.
func Distribute(template models.ExpenseEntry, periods []models.LedgerPeriod, startIndex int) (int, error) {
	if startIndex < 0 {
		return 0, invariant("distribute", ErrUnknownPeriod)
	}
	template.MigrateLegacy()
	template = template.Normalized()

	placed := 0
	switch template.Recurrence.Kind {
	case models.RecurrenceInstallment:
		n := template.Recurrence.Installments
		if err := ValidateInstallments(n); err != nil {
			return 0, err
		}
		for k := 0; k < n; k++ {
			idx := startIndex + k
			if idx >= len(periods) {
				break
			}
			entry := placedCopy(template)
			entry.InstallmentIndex = k + 1
			entry.InstallmentCount = n
			periods[idx].Expenses = append(periods[idx].Expenses, entry)
			placed++
		}

	case models.RecurrenceMonthly:
		// Intentionally every period, not just from startIndex onwards
		for i := range periods {
			periods[i].Expenses = append(periods[i].Expenses, placedCopy(template))
			placed++
		}

	default:
		if startIndex < len(periods) {
			periods[startIndex].Expenses = append(periods[startIndex].Expenses, placedCopy(template))
			placed++
		}
	}

	return placed, nil
}

func placedCopy(template models.ExpenseEntry) models.ExpenseEntry {
	entry := template
	entry.ID = uuid.NewString()
	entry.Paid = false
	entry.InstallmentIndex = 0
	entry.InstallmentCount = 0
	return entry
}

// SplitTotal divides a total into n near-equal integer installments, giving the
// remainder to the first slices. When the last slice ends up more than 1.5x the
// first, the split falls back to a rounded average with the difference absorbed
// by the last slice. n is clamped to [2, 12] and never exceeds total.
//
// The engine charges installment amounts as given and does not call this;
// it is kept for callers that start from a total.
func SplitTotal(total int64, n int) []int64 {
	if total < 0 {
		total = 0
	}
	if n < MinInstallments {
		n = MinInstallments
	}
	if n > MaxInstallments {
		n = MaxInstallments
	}
	if int64(n) > total {
		n = int(total)
		if n < MinInstallments {
			return []int64{total}
		}
	}

	base := total / int64(n)
	rest := total - base*int64(n)
	amounts := make([]int64, n)
	for i := range amounts {
		amounts[i] = base
		if int64(i) < rest {
			amounts[i]++
		}
	}

	if float64(amounts[n-1]) > float64(amounts[0])*1.5 {
		avg := roundHalfUp(float64(total) / float64(n))
		for i := range amounts {
			amounts[i] = avg
		}
		amounts[n-1] += total - avg*int64(n)
	}
	return amounts
}
