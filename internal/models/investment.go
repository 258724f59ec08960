package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// ConceptCDT is the investment concept that carries a maturity date
const ConceptCDT = "CDT"

// Date is a calendar date serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in t's location
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// ParseDate parses a YYYY-MM-DD string in the local timezone
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler; empty strings decode to the zero date
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// Accept full timestamps from older snapshots
	if len(s) > len(DateLayout) {
		t, err := time.Parse(time.RFC3339, s)
		if err == nil {
			*d = NewDate(t.In(time.Local))
			return nil
		}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Investment is money taken out of a period's available funds and put to work
type Investment struct {
	ID             string  `json:"id"`
	Concept        string  `json:"concept"`
	Amount         int64   `json:"amount"`
	MonthlyRatePct float64 `json:"monthly_rate_pct"` // e.g. 1.5 for 1.5% per month
	Compounding    bool    `json:"compounding"`
	StartDate      Date    `json:"start_date"`
	MaturityDate   *Date   `json:"maturity_date,omitempty"` // CDT only
	PeriodID       string  `json:"period_id"`               // Owning period; empty while pending
}

// IsCDT reports whether the investment is a fixed-term deposit
func (inv Investment) IsCDT() bool {
	return strings.EqualFold(inv.Concept, ConceptCDT)
}

// Clone returns a deep copy of the investment
func (inv Investment) Clone() Investment {
	c := inv
	if inv.MaturityDate != nil {
		d := *inv.MaturityDate
		c.MaturityDate = &d
	}
	return c
}

// SumInvestments totals the amounts of the given investments
func SumInvestments(invs []Investment) int64 {
	var total int64
	for _, inv := range invs {
		total += inv.Amount
	}
	return total
}
