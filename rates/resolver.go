package rates

import (
	"context"
	"log/slog"
	"sync"
	"time"

	converter "github.com/malusev998/ledger-converter"
)

// DefaultFetchTimeout bounds a single live-source call.
const DefaultFetchTimeout = 5 * time.Second

type (
	Config struct {
		CacheTTL     time.Duration
		FetchTimeout time.Duration
	}

	// Resolver layers rate sources: same-currency short circuit, cache, live
	// fetch bounded by a timeout, static fallback. The cache is owned by the
	// resolver and populated only after a successful live fetch.
	Resolver struct {
		fetcher  converter.Fetcher
		cache    *Cache
		fallback *FallbackTable
		timeout  time.Duration
		logger   *slog.Logger
		now      func() time.Time
	}
)

func NewResolver(fetcher converter.Fetcher, config Config, logger *slog.Logger) *Resolver {
	return NewResolverWithClock(fetcher, config, logger, time.Now)
}

// NewResolverWithClock lets tests drive cache expiry with a fake clock.
func NewResolverWithClock(
	fetcher converter.Fetcher,
	config Config,
	logger *slog.Logger,
	now func() time.Time,
) *Resolver {
	timeout := config.FetchTimeout

	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	if now == nil {
		now = time.Now
	}

	return &Resolver{
		fetcher:  fetcher,
		cache:    NewCache(config.CacheTTL, now),
		fallback: DefaultFallbackTable(),
		timeout:  timeout,
		logger:   logger,
		now:      now,
	}
}

// WithFallbackTable replaces the default static tier.
func (r *Resolver) WithFallbackTable(table *FallbackTable) *Resolver {
	r.fallback = table
	return r
}

// Resolve returns a quote for the pair, first tier to answer wins.
//
// A same-currency request converts at parity and is reported with the cache
// source, for uniformity of the quote shape, without touching any tier.
func (r *Resolver) Resolve(ctx context.Context, from, to string) (converter.RateQuote, error) {
	if from == to {
		return converter.RateQuote{Rate: 1, FetchedAt: r.now(), Source: converter.SourceCache}, nil
	}

	pair := converter.Pair{From: from, To: to}

	if entry, ok := r.cache.Get(pair); ok {
		return converter.RateQuote{
			Rate:      entry.Rate,
			FetchedAt: entry.FetchedAt,
			Source:    converter.SourceCache,
		}, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rate, err := r.fetcher.FetchRate(fetchCtx, from, to)

	if err == nil && rate > 0 {
		r.cache.Set(pair, rate)
		r.logger.Info("fetched fresh rate", "from", from, "to", to, "rate", rate)

		return converter.RateQuote{Rate: rate, FetchedAt: r.now(), Source: converter.SourceLive}, nil
	}

	if err == nil {
		r.logger.Warn("live source returned non-positive rate", "from", from, "to", to, "rate", rate)
	} else {
		r.logger.Warn("live source failed, trying fallback", "from", from, "to", to, "error", err)
	}

	if rate, ok := r.fallback.Lookup(pair); ok {
		return converter.RateQuote{Rate: rate, FetchedAt: r.now(), Source: converter.SourceFallback}, nil
	}

	return converter.RateQuote{}, &converter.RateUnavailableError{From: from, To: to}
}

// ResolveMany resolves the pairs concurrently with per-pair semantics
// identical to Resolve. Results keep the order of the input. There is no
// cross-pair atomicity, the first error reported wins and discards the batch.
func (r *Resolver) ResolveMany(ctx context.Context, pairs []converter.Pair) ([]converter.RateQuote, error) {
	var wg sync.WaitGroup

	quotes := make([]converter.RateQuote, len(pairs))
	errs := make([]error, len(pairs))

	wg.Add(len(pairs))
	for i, pair := range pairs {
		go func(i int, pair converter.Pair) {
			defer wg.Done()
			quotes[i], errs[i] = r.Resolve(ctx, pair.From, pair.To)
		}(i, pair)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return quotes, nil
}

// ClearCache drops every cached rate.
func (r *Resolver) ClearCache() {
	r.cache.Clear()
	r.logger.Info("exchange rate cache cleared")
}

// CacheStats reports the cache entry count and oldest fetch time.
func (r *Resolver) CacheStats() CacheStats {
	return r.cache.Stats()
}
