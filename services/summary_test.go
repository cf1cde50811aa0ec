package services

import (
	"context"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/stretchr/testify/require"

	converter "github.com/malusev998/ledger-converter"
)

func TestCoordinator_Summary(t *testing.T) {
	t.Parallel()
	now := time.Date(2023, 5, 10, 12, 0, 0, 0, time.UTC)
	period := testPeriod(now)

	t.Run("NoRecords", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		coordinator, mocks := newTestCoordinator(now)
		userID := faker.UUIDHyphenated()

		mocks.records.On("FindByPeriod", userID, period).
			Return([]converter.FinancialRecord{}, nil)

		summary, err := coordinator.Summary(context.Background(), userID, period)

		asserts.NoError(err)
		asserts.False(summary.HasRecords)
		asserts.Equal(0, summary.TotalCount)
		asserts.Zero(summary.TotalAmount)
		asserts.Empty(summary.Currency)
	})

	t.Run("TotalsRoundedToTwoPlaces", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		coordinator, mocks := newTestCoordinator(now)
		userID := faker.UUIDHyphenated()

		mocks.records.On("FindByPeriod", userID, period).
			Return([]converter.FinancialRecord{
				{ID: "rec-1", UserID: userID, Amount: 10.105, Currency: "EUR", Date: now},
				{ID: "rec-2", UserID: userID, Amount: 20.10, Currency: "EUR", Date: now},
			}, nil)

		summary, err := coordinator.Summary(context.Background(), userID, period)

		asserts.NoError(err)
		asserts.True(summary.HasRecords)
		asserts.Equal(2, summary.TotalCount)
		asserts.Equal(30.21, summary.TotalAmount)
		asserts.Equal("EUR", summary.Currency)
	})
}

func TestCoordinator_History(t *testing.T) {
	t.Parallel()
	now := time.Date(2023, 5, 10, 12, 0, 0, 0, time.UTC)
	asserts := require.New(t)
	coordinator, mocks := newTestCoordinator(now)
	userID := faker.UUIDHyphenated()

	entries := []converter.AuditEntry{
		{UserID: userID, FromCurrency: "USD", ToCurrency: "EUR", ExchangeRate: 0.85, ConvertedCount: 3, Source: converter.SourceLive, Timestamp: now},
	}

	mocks.audits.On("History", userID, int64(10)).Return(entries, nil)
	mocks.audits.On("History", userID, int64(5)).Return(entries, nil)

	// Non-positive limit falls back to the default.
	result, err := coordinator.History(context.Background(), userID, 0)
	asserts.NoError(err)
	asserts.Equal(entries, result)

	result, err = coordinator.History(context.Background(), userID, 5)
	asserts.NoError(err)
	asserts.Equal(entries, result)
}
