package converter

import (
	"fmt"
	"time"
)

// Source tells the caller where a resolved rate came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Pair is an ordered currency pair: Rate is units of To per one unit of From.
type Pair struct {
	From string
	To   string
}

func (p Pair) Key() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

func (p Pair) Reversed() Pair {
	return Pair{From: p.To, To: p.From}
}

// RateQuote is the result of a single rate resolution. It is never persisted
// on its own, only embedded into conversion results and audit entries.
type RateQuote struct {
	Rate      float64
	FetchedAt time.Time
	Source    Source
}

// DateRange bounds the accounting period a conversion applies to. The range is
// supplied by the caller, this package does not compute period boundaries.
type DateRange struct {
	From time.Time
	To   time.Time
}

// CurrentMonth is a convenience for callers that bill per calendar month.
func CurrentMonth(now time.Time) DateRange {
	year, month, _ := now.Date()
	from := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())

	return DateRange{
		From: from,
		To:   from.AddDate(0, 1, 0).Add(-time.Second),
	}
}

// FinancialRecord is the slice of a ledger record this package reads and
// mutates. The record itself is owned by the ledger subsystem.
//
// OriginalAmount and OriginalCurrency are the provenance of the record: the
// value it held before its first conversion. They are written exactly once
// and never overwritten by later conversions.
type FinancialRecord struct {
	ID                  string     `bson:"_id,omitempty"`
	UserID              string     `bson:"userId"`
	Amount              float64    `bson:"amount"`
	Currency            string     `bson:"currency"`
	Date                time.Time  `bson:"date"`
	OriginalAmount      *float64   `bson:"originalAmount,omitempty"`
	OriginalCurrency    string     `bson:"originalCurrency,omitempty"`
	ExchangeRate        float64    `bson:"exchangeRate,omitempty"`
	ConversionTimestamp *time.Time `bson:"conversionTimestamp,omitempty"`
	UpdatedAt           time.Time  `bson:"updatedAt"`
}

// HasProvenance reports whether the record already went through a conversion.
func (r FinancialRecord) HasProvenance() bool {
	return r.OriginalAmount != nil
}

// RecordUpdate is one staged mutation inside a conversion transaction.
// OriginalAmount is nil unless this conversion is the one capturing provenance.
type RecordUpdate struct {
	RecordID            string
	Amount              float64
	Currency            string
	ExchangeRate        float64
	ConversionTimestamp time.Time
	UpdatedAt           time.Time
	OriginalAmount      *float64
	OriginalCurrency    string
}

// ConversionResult is returned for every conversion attempt, successful or
// not, so callers always get the same shape back.
type ConversionResult struct {
	Success        bool
	ConvertedCount int
	FromCurrency   string
	ToCurrency     string
	ExchangeRate   float64
	Timestamp      time.Time
	Errors         []string
}

// AuditEntry records one completed conversion for transparency. Append-only.
type AuditEntry struct {
	ID             string    `bson:"_id,omitempty"`
	UserID         string    `bson:"userId"`
	FromCurrency   string    `bson:"fromCurrency"`
	ToCurrency     string    `bson:"toCurrency"`
	ExchangeRate   float64   `bson:"exchangeRate"`
	ConvertedCount int       `bson:"convertedCount"`
	Source         Source    `bson:"source"`
	Timestamp      time.Time `bson:"timestamp"`
	CreatedAt      time.Time `bson:"createdAt"`
}

// Budget is the slice of a budget document touched when a conversion makes
// the configured currency obsolete.
type Budget struct {
	ID       string `bson:"_id,omitempty"`
	UserID   string `bson:"userId"`
	Currency string `bson:"currency"`
	Status   string `bson:"status"`
}

// PeriodSummary aggregates a user's records inside one accounting period.
type PeriodSummary struct {
	HasRecords  bool
	TotalAmount float64
	TotalCount  int
	Currency    string
	Period      DateRange
}
