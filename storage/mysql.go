package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	converter "github.com/malusev998/ledger-converter"
)

const MySQLTimeFormat = "2006-01-02 15:04:05"

type mysqlAuditStorage struct {
	db        *sql.DB
	tableName string
}

// NewMySQLAuditStorage keeps the conversion history in MySQL for ledgers
// that mirror their audit trail into a relational reporting database.
func NewMySQLAuditStorage(db *sql.DB, tableName string) converter.AuditStorage {
	return mysqlAuditStorage{
		db:        db,
		tableName: tableName,
	}
}

func (m mysqlAuditStorage) Migrate(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		from_currency CHAR(3) NOT NULL,
		to_currency CHAR(3) NOT NULL,
		exchange_rate DOUBLE NOT NULL,
		converted_count INT NOT NULL,
		source VARCHAR(16) NOT NULL,
		timestamp DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		INDEX user_created (user_id, created_at)
	);`, m.tableName))

	return err
}

func (m mysqlAuditStorage) Append(ctx context.Context, entry converter.AuditEntry) error {
	createdAt := entry.CreatedAt

	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	stmt, err := m.db.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s(id, user_id, from_currency, to_currency, exchange_rate, converted_count, source, timestamp, created_at) VALUES(?,?,?,?,?,?,?,?,?);",
		m.tableName,
	))

	if err != nil {
		return err
	}

	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		uuid.New().String(),
		entry.UserID,
		entry.FromCurrency,
		entry.ToCurrency,
		entry.ExchangeRate,
		entry.ConvertedCount,
		string(entry.Source),
		entry.Timestamp.Format(MySQLTimeFormat),
		createdAt.Format(MySQLTimeFormat),
	)

	return err
}

func (m mysqlAuditStorage) History(ctx context.Context, userID string, limit int64) ([]converter.AuditEntry, error) {
	stmt, err := m.db.PrepareContext(ctx, fmt.Sprintf(
		"SELECT id, user_id, from_currency, to_currency, exchange_rate, converted_count, source, timestamp, created_at FROM %s WHERE user_id = ? ORDER BY created_at DESC LIMIT ?;",
		m.tableName,
	))

	if err != nil {
		return nil, err
	}

	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, userID, limit)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	entries := make([]converter.AuditEntry, 0, limit)

	for rows.Next() {
		var entry converter.AuditEntry
		var source, timestamp, createdAt string

		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.FromCurrency,
			&entry.ToCurrency,
			&entry.ExchangeRate,
			&entry.ConvertedCount,
			&source,
			&timestamp,
			&createdAt,
		)

		if err != nil {
			return nil, err
		}

		entry.Source = converter.Source(source)

		if entry.Timestamp, err = time.Parse(MySQLTimeFormat, timestamp); err != nil {
			return nil, err
		}

		if entry.CreatedAt, err = time.Parse(MySQLTimeFormat, createdAt); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
