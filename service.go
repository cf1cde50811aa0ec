package converter

import (
	"context"
)

type (
	// Fetcher is a live rate-quote source. Any failure (transport, status
	// code, missing rate in the payload) is a plain error so callers can
	// fall through to the next tier uniformly.
	Fetcher interface {
		FetchRate(ctx context.Context, from, to string) (float64, error)
	}

	// RateResolver turns a currency pair into a quote, layering cache, live
	// source and static fallback.
	RateResolver interface {
		Resolve(ctx context.Context, from, to string) (RateQuote, error)
		ResolveMany(ctx context.Context, pairs []Pair) ([]RateQuote, error)
	}

	// Converter re-denominates a user's records inside one accounting period.
	Converter interface {
		Convert(ctx context.Context, userID, from, to string, period DateRange) (ConversionResult, error)
	}
)
