package budget

import (
	"errors"
	"fmt"
)

// Validation sentinels: bad user input, rejected before any state change
var (
	ErrEmptyInput              = errors.New("nothing to build from: add incomes or expenses first")
	ErrInsufficientFunds       = errors.New("amount exceeds the period's available funds")
	ErrInvalidPercentage       = errors.New("percentage must be between 0 and 100")
	ErrInvalidInstallmentCount = errors.New("installment count must be between 2 and 12")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidDescription      = errors.New("invalid description")
	ErrInvalidCategory         = errors.New("invalid category")
	ErrInvalidRate             = errors.New("monthly rate must be at least -100%")
	ErrMissingMaturity         = errors.New("CDT investments need a maturity date")
	ErrBonusUnavailable        = errors.New("bonus unavailable")
)

// Invariant sentinels: API misuse, not a user mistake
var (
	ErrAlreadyBuilt    = errors.New("horizon already built")
	ErrHorizonNotBuilt = errors.New("horizon not built")
	ErrNoPeriods       = errors.New("no periods to resolve")
	ErrUnknownPeriod   = errors.New("unknown period")
	ErrUnknownEntry    = errors.New("unknown entry")
)

// ValidationError reports rejected input with a user-facing reason
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Field, e.Err, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// InvariantError reports an operation that the current state does not allow
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

func invalid(field string, err error, reason string, args ...any) error {
	return &ValidationError{Field: field, Err: err, Reason: fmt.Sprintf(reason, args...)}
}

func invariant(op string, err error) error {
	return &InvariantError{Op: op, Err: err}
}

// IsValidation reports whether err is a user input error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInvariant reports whether err is an API misuse error
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
