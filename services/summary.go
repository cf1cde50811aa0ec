package services

import (
	"context"

	"github.com/shopspring/decimal"

	converter "github.com/malusev998/ledger-converter"
)

const DefaultHistoryLimit = 10

// Summary totals the user's records inside the period, regardless of
// currency. The reported currency is the one of the first record found,
// which is the whole period's currency once a conversion went through.
func (c *Coordinator) Summary(
	ctx context.Context,
	userID string,
	period converter.DateRange,
) (converter.PeriodSummary, error) {
	records, err := c.records.FindByPeriod(ctx, userID, period)

	if err != nil {
		return converter.PeriodSummary{}, err
	}

	summary := converter.PeriodSummary{
		Period:     period,
		TotalCount: len(records),
	}

	if len(records) == 0 {
		return summary, nil
	}

	total := decimal.Zero

	for _, record := range records {
		total = total.Add(decimal.NewFromFloat(record.Amount))
	}

	summary.HasRecords = true
	summary.TotalAmount, _ = total.Round(2).Float64()
	summary.Currency = records[0].Currency

	return summary, nil
}

// History returns the user's most recent conversions, newest first.
func (c *Coordinator) History(ctx context.Context, userID string, limit int64) ([]converter.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	return c.audits.History(ctx, userID, limit)
}
