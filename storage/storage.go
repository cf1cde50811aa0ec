package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	converter "github.com/malusev998/ledger-converter"
)

type (
	Provider string

	MongoDBConfig struct {
		Collection *mongo.Collection
	}

	MySQLConfig struct {
		DB        *sql.DB
		TableName string
		Migrate   bool
	}
)

const (
	MySQL   Provider = "mysql"
	MongoDB Provider = "mongodb"
)

var ErrStorageNotFound = errors.New("storage is not found")

func ConvertToProvidersFromStringSlice(strings []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strings))

	for _, str := range strings {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "mysql":
		return MySQL, nil
	case "mongodb":
		return MongoDB, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

// NewAuditStorage builds the audit-history backend for the given provider.
// Records and budgets live in the document store only, the audit trail can
// additionally be mirrored into MySQL.
func NewAuditStorage(ctx context.Context, provider Provider, config interface{}) (converter.AuditStorage, error) {
	switch provider {
	case MySQL:
		c := config.(MySQLConfig)
		st := NewMySQLAuditStorage(c.DB, c.TableName)

		if c.Migrate {
			if err := st.(mysqlAuditStorage).Migrate(ctx); err != nil {
				return nil, err
			}
		}

		return st, nil
	case MongoDB:
		c := config.(MongoDBConfig)
		return NewMongoAuditStorage(c.Collection), nil
	}

	return nil, ErrStorageNotFound
}
