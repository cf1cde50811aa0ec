package rates

import (
	converter "github.com/malusev998/ledger-converter"
)

// FallbackTable is the static last-resort rate tier, consulted only when the
// live source is unavailable. It holds a small set of direct pairs and
// derives the reciprocal when only the reverse direction is tabulated.
type FallbackTable struct {
	rates map[string]float64
}

func NewFallbackTable(rates map[string]float64) *FallbackTable {
	table := make(map[string]float64, len(rates))

	for key, rate := range rates {
		table[key] = rate
	}

	return &FallbackTable{rates: table}
}

// DefaultFallbackTable covers the major pairs of the ledger's user base.
func DefaultFallbackTable() *FallbackTable {
	return NewFallbackTable(map[string]float64{
		"USD_EUR": 0.85,
		"EUR_USD": 1.18,
		"GBP_EUR": 1.15,
		"EUR_GBP": 0.87,
	})
}

// Lookup returns the rate for the pair, trying the direct key first and the
// reciprocal of the reversed key second.
func (t *FallbackTable) Lookup(pair converter.Pair) (float64, bool) {
	if rate, ok := t.rates[pair.Key()]; ok {
		return rate, true
	}

	if rate, ok := t.rates[pair.Reversed().Key()]; ok && rate != 0 {
		return 1 / rate, true
	}

	return 0, false
}
