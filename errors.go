package converter

import (
	"errors"
	"fmt"
)

var (
	// ErrSameCurrency rejects a conversion request before any I/O happens.
	ErrSameCurrency = errors.New("from and to currencies cannot be the same")
)

// RateUnavailableError means the live source failed and no fallback entry
// exists for the pair.
type RateUnavailableError struct {
	From string
	To   string
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("unable to get exchange rate for %s to %s", e.From, e.To)
}
