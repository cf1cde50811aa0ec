package rates

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	converter "github.com/malusev998/ledger-converter"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchRate(ctx context.Context, from, to string) (float64, error) {
	args := m.Called(from, to)
	return args.Get(0).(float64), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolver_SameCurrencyShortCircuit(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &mockFetcher{}
	resolver := NewResolver(fetcher, Config{}, discardLogger())

	quote, err := resolver.Resolve(context.Background(), "USD", "USD")

	asserts.NoError(err)
	asserts.Equal(1.0, quote.Rate)
	asserts.Equal(converter.SourceCache, quote.Source)
	fetcher.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything)
}

func TestResolver_LiveFetchPopulatesCache(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &mockFetcher{}
	fetcher.On("FetchRate", "USD", "EUR").Return(0.85, nil).Once()
	resolver := NewResolver(fetcher, Config{}, discardLogger())

	quote, err := resolver.Resolve(context.Background(), "USD", "EUR")
	asserts.NoError(err)
	asserts.Equal(0.85, quote.Rate)
	asserts.Equal(converter.SourceLive, quote.Source)

	quote, err = resolver.Resolve(context.Background(), "USD", "EUR")
	asserts.NoError(err)
	asserts.Equal(0.85, quote.Rate)
	asserts.Equal(converter.SourceCache, quote.Source)

	fetcher.AssertNumberOfCalls(t, "FetchRate", 1)
}

func TestResolver_CacheExpiryTriggersFreshFetch(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	clock := &fakeClock{now: time.Date(2023, 5, 10, 12, 0, 0, 0, time.UTC)}
	fetcher := &mockFetcher{}
	fetcher.On("FetchRate", "USD", "EUR").Return(0.85, nil).Once()
	fetcher.On("FetchRate", "USD", "EUR").Return(0.86, nil).Once()
	resolver := NewResolverWithClock(fetcher, Config{CacheTTL: time.Hour}, discardLogger(), clock.Now)

	quote, err := resolver.Resolve(context.Background(), "USD", "EUR")
	asserts.NoError(err)
	asserts.Equal(converter.SourceLive, quote.Source)

	clock.Advance(time.Hour)

	quote, err = resolver.Resolve(context.Background(), "USD", "EUR")
	asserts.NoError(err)
	asserts.Equal(converter.SourceLive, quote.Source)
	asserts.Equal(0.86, quote.Rate)

	fetcher.AssertNumberOfCalls(t, "FetchRate", 2)
}

func TestResolver_FallbackOnFetchError(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &mockFetcher{}
	fetcher.On("FetchRate", "EUR", "USD").Return(0.0, errors.New("connection refused"))
	resolver := NewResolver(fetcher, Config{}, discardLogger())

	quote, err := resolver.Resolve(context.Background(), "EUR", "USD")

	asserts.NoError(err)
	asserts.Equal(1.18, quote.Rate)
	asserts.Equal(converter.SourceFallback, quote.Source)
}

func TestResolver_FallbackReciprocal(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &mockFetcher{}
	fetcher.On("FetchRate", "USD", "EUR").Return(0.0, errors.New("connection refused"))
	resolver := NewResolver(fetcher, Config{}, discardLogger()).
		WithFallbackTable(NewFallbackTable(map[string]float64{"EUR_USD": 1.18}))

	quote, err := resolver.Resolve(context.Background(), "USD", "EUR")

	asserts.NoError(err)
	asserts.InDelta(1/1.18, quote.Rate, 1e-9)
	asserts.Equal(converter.SourceFallback, quote.Source)
}

func TestResolver_NonPositiveRateDegradesToFallback(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &mockFetcher{}
	fetcher.On("FetchRate", "USD", "EUR").Return(0.0, nil)
	resolver := NewResolver(fetcher, Config{}, discardLogger())

	quote, err := resolver.Resolve(context.Background(), "USD", "EUR")

	asserts.NoError(err)
	asserts.Equal(0.85, quote.Rate)
	asserts.Equal(converter.SourceFallback, quote.Source)
}

func TestResolver_RateUnavailable(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &mockFetcher{}
	fetcher.On("FetchRate", "JPY", "CHF").Return(0.0, errors.New("connection refused"))
	resolver := NewResolver(fetcher, Config{}, discardLogger())

	_, err := resolver.Resolve(context.Background(), "JPY", "CHF")

	var unavailable *converter.RateUnavailableError
	asserts.ErrorAs(err, &unavailable)
	asserts.Equal("JPY", unavailable.From)
	asserts.Equal("CHF", unavailable.To)
}

func TestResolver_ResolveMany(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &mockFetcher{}
	fetcher.On("FetchRate", "USD", "EUR").Return(0.85, nil)
	fetcher.On("FetchRate", "GBP", "EUR").Return(1.15, nil)
	resolver := NewResolver(fetcher, Config{}, discardLogger())

	quotes, err := resolver.ResolveMany(context.Background(), []converter.Pair{
		{From: "USD", To: "EUR"},
		{From: "GBP", To: "EUR"},
		{From: "CHF", To: "CHF"},
	})

	asserts.NoError(err)
	asserts.Len(quotes, 3)
	asserts.Equal(0.85, quotes[0].Rate)
	asserts.Equal(1.15, quotes[1].Rate)
	asserts.Equal(1.0, quotes[2].Rate)
}

func TestResolver_ResolveManyFailsOnAnyPair(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &mockFetcher{}
	fetcher.On("FetchRate", "USD", "EUR").Return(0.85, nil)
	fetcher.On("FetchRate", "JPY", "CHF").Return(0.0, errors.New("connection refused"))
	resolver := NewResolver(fetcher, Config{}, discardLogger())

	quotes, err := resolver.ResolveMany(context.Background(), []converter.Pair{
		{From: "USD", To: "EUR"},
		{From: "JPY", To: "CHF"},
	})

	asserts.Error(err)
	asserts.Nil(quotes)
}

func TestResolver_ClearCacheAndStats(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	fetcher := &mockFetcher{}
	fetcher.On("FetchRate", "USD", "EUR").Return(0.85, nil)
	resolver := NewResolver(fetcher, Config{}, discardLogger())

	_, err := resolver.Resolve(context.Background(), "USD", "EUR")
	asserts.NoError(err)
	asserts.Equal(1, resolver.CacheStats().Entries)

	resolver.ClearCache()
	asserts.Equal(0, resolver.CacheStats().Entries)
}
