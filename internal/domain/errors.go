package domain

import (
	"errors"
	"fmt"
)

// ConfigNotFoundError is returned when no configuration exists for a brand.
type ConfigNotFoundError struct {
	Brand string
}

func (e ConfigNotFoundError) Error() string {
	if e.Brand == "" {
		return "config not found"
	}
	return fmt.Sprintf("config not found for brand: %s", e.Brand)
}

// Is enables errors.Is matching on ConfigNotFoundError.
func (e ConfigNotFoundError) Is(target error) bool {
	_, ok := target.(ConfigNotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*ConfigNotFoundError)
	return ok
}

// ErrConfigNotFound is the sentinel error for missing brand configuration.
var ErrConfigNotFound = ConfigNotFoundError{}

var (
	ErrLedgerNotFound = errors.New("ledger not found")
	ErrLedgerCorrupt  = errors.New("ledger corrupt")
	ErrInvalidWeek    = errors.New("invalid week label")
)
