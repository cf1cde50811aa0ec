package converter

import (
	"context"
)

type (
	// RecordStorage is the ledger's record collection. ApplyUpdates must be
	// atomic: either every staged update is committed or none of them are.
	RecordStorage interface {
		FindByCurrency(ctx context.Context, userID, currency string, period DateRange) ([]FinancialRecord, error)
		FindByPeriod(ctx context.Context, userID string, period DateRange) ([]FinancialRecord, error)
		ApplyUpdates(ctx context.Context, updates []RecordUpdate) error
	}

	// BudgetStorage marks budgets as stale after their currency changed.
	// Best effort, callers log and drop the error.
	BudgetStorage interface {
		MarkRequiresReconfiguration(ctx context.Context, userID, newCurrency string) error
	}

	// AuditStorage keeps the append-only conversion history. Best effort on
	// Append, callers log and drop the error.
	AuditStorage interface {
		Append(ctx context.Context, entry AuditEntry) error
		History(ctx context.Context, userID string, limit int64) ([]AuditEntry, error)
	}
)
