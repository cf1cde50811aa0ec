package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	converter "github.com/malusev998/ledger-converter"
)

func TestParsePairs(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	pairs, err := parsePairs([]string{"USD_EUR", "EUR_GBP"})

	asserts.NoError(err)
	asserts.Equal([]converter.Pair{
		{From: "USD", To: "EUR"},
		{From: "EUR", To: "GBP"},
	}, pairs)

	_, err = parsePairs([]string{"USDEUR"})
	asserts.Error(err)

	_, err = parsePairs([]string{"USD_"})
	asserts.Error(err)
}

func TestPeriodFromFlags(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	now := time.Date(2023, 5, 10, 12, 0, 0, 0, time.UTC)

	period := periodFromFlags(0, 0, now)
	asserts.Equal(converter.CurrentMonth(now), period)

	period = periodFromFlags(2022, 2, now)
	asserts.Equal(time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC), period.From)
	asserts.Equal(time.Date(2022, 2, 28, 23, 59, 59, 0, time.UTC), period.To)
}
