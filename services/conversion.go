package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	converter "github.com/malusev998/ledger-converter"
)

// Coordinator re-denominates a user's records when the preferred currency
// changes. A single invocation resolves the rate, selects the records in the
// period still priced in the old currency, commits the recomputed values in
// one atomic batch and then fires the best-effort side effects (budget
// invalidation, audit append).
//
// Concurrent invocations for the same user are not mutually excluded. The
// last commit wins and the provenance rule still holds per record.
type Coordinator struct {
	resolver converter.RateResolver
	records  converter.RecordStorage
	budgets  converter.BudgetStorage
	audits   converter.AuditStorage
	logger   *slog.Logger
	now      func() time.Time
}

func NewCoordinator(
	resolver converter.RateResolver,
	records converter.RecordStorage,
	budgets converter.BudgetStorage,
	audits converter.AuditStorage,
	logger *slog.Logger,
) *Coordinator {
	return NewCoordinatorWithClock(resolver, records, budgets, audits, logger, time.Now)
}

// NewCoordinatorWithClock lets tests pin conversion timestamps.
func NewCoordinatorWithClock(
	resolver converter.RateResolver,
	records converter.RecordStorage,
	budgets converter.BudgetStorage,
	audits converter.AuditStorage,
	logger *slog.Logger,
	now func() time.Time,
) *Coordinator {
	return &Coordinator{
		resolver: resolver,
		records:  records,
		budgets:  budgets,
		audits:   audits,
		logger:   logger,
		now:      now,
	}
}

// Convert moves every record of the user inside the period from one currency
// to another. The returned error is non-nil only for the same-currency
// precondition, every later failure comes back as a result with
// Success false so callers always see one shape.
func (c *Coordinator) Convert(
	ctx context.Context,
	userID, from, to string,
	period converter.DateRange,
) (converter.ConversionResult, error) {
	if from == to {
		return converter.ConversionResult{}, converter.ErrSameCurrency
	}

	start := c.now()
	c.logger.Info("starting currency conversion", "userId", userID, "from", from, "to", to)

	quote, err := c.resolver.Resolve(ctx, from, to)

	if err != nil {
		return c.failure(userID, from, to, start, err), nil
	}

	c.logger.Info("exchange rate resolved", "from", from, "to", to, "rate", quote.Rate, "source", quote.Source)

	records, err := c.records.FindByCurrency(ctx, userID, from, period)

	if err != nil {
		return c.failure(userID, from, to, start, err), nil
	}

	// Nothing priced in the old currency: succeed without touching the
	// store, no audit entry either.
	if len(records) == 0 {
		return converter.ConversionResult{
			Success:      true,
			FromCurrency: from,
			ToCurrency:   to,
			ExchangeRate: quote.Rate,
			Timestamp:    start,
		}, nil
	}

	updates, convErrs := c.stageUpdates(records, quote.Rate, to)

	if len(updates) > 0 {
		if err := c.records.ApplyUpdates(ctx, updates); err != nil {
			return c.failure(userID, from, to, start, err), nil
		}
	}

	if err := c.budgets.MarkRequiresReconfiguration(ctx, userID, to); err != nil {
		c.logger.Warn("failed to reset budget after conversion", "userId", userID, "error", err)
	}

	if err := c.audits.Append(ctx, converter.AuditEntry{
		UserID:         userID,
		FromCurrency:   from,
		ToCurrency:     to,
		ExchangeRate:   quote.Rate,
		ConvertedCount: len(updates),
		Source:         quote.Source,
		Timestamp:      start,
	}); err != nil {
		c.logger.Error("failed to log conversion audit", "userId", userID, "error", err)
	}

	c.logger.Info("currency conversion completed", "userId", userID, "converted", len(updates))

	return converter.ConversionResult{
		Success:        true,
		ConvertedCount: len(updates),
		FromCurrency:   from,
		ToCurrency:     to,
		ExchangeRate:   quote.Rate,
		Timestamp:      start,
		Errors:         convErrs,
	}, nil
}

// stageUpdates recomputes each record's value at the new rate, rounded to
// two decimal places, half away from zero. The pre-conversion value becomes
// the record's provenance on its first conversion only, a record converted
// before keeps its original amount and currency untouched.
//
// A record that cannot be staged lands in the error list without aborting
// the batch.
func (c *Coordinator) stageUpdates(
	records []converter.FinancialRecord,
	rate float64,
	toCurrency string,
) ([]converter.RecordUpdate, []string) {
	rateDec := decimal.NewFromFloat(rate)
	conversionTimestamp := c.now()

	updates := make([]converter.RecordUpdate, 0, len(records))

	var errs []string

	for _, record := range records {
		if record.ID == "" {
			errs = append(errs, fmt.Sprintf("error converting record for user %s: missing record id", record.UserID))
			continue
		}

		converted, _ := decimal.NewFromFloat(record.Amount).Mul(rateDec).Round(2).Float64()

		update := converter.RecordUpdate{
			RecordID:            record.ID,
			Amount:              converted,
			Currency:            toCurrency,
			ExchangeRate:        rate,
			ConversionTimestamp: conversionTimestamp,
			UpdatedAt:           conversionTimestamp,
		}

		if !record.HasProvenance() {
			originalAmount := record.Amount
			update.OriginalAmount = &originalAmount
			update.OriginalCurrency = record.Currency
		}

		updates = append(updates, update)
	}

	return updates, errs
}

func (c *Coordinator) failure(userID, from, to string, start time.Time, err error) converter.ConversionResult {
	c.logger.Error("currency conversion failed", "userId", userID, "from", from, "to", to, "error", err)

	return converter.ConversionResult{
		Success:      false,
		FromCurrency: from,
		ToCurrency:   to,
		Timestamp:    start,
		Errors:       []string{err.Error()},
	}
}
