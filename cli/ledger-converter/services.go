package main

import (
	"context"
	"database/sql"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	converter "github.com/malusev998/ledger-converter"
	"github.com/malusev998/ledger-converter/fetchers"
	"github.com/malusev998/ledger-converter/rates"
	"github.com/malusev998/ledger-converter/services"
	"github.com/malusev998/ledger-converter/storage"
)

func createResolver(config *Config, logger *slog.Logger) *rates.Resolver {
	fetcher := fetchers.ExchangeRateAPIFetcher{URL: config.Rates.URL}

	return rates.NewResolver(fetcher, rates.Config{
		CacheTTL:     config.Rates.CacheTTL,
		FetchTimeout: config.Rates.FetchTimeout,
	}, logger)
}

func createAuditStorage(
	ctx context.Context,
	config *Config,
	db *mongo.Database,
	sqlDB *sql.DB,
) (converter.AuditStorage, error) {
	if config.AuditStorage == storage.MySQL {
		return storage.NewAuditStorage(ctx, storage.MySQL, storage.MySQLConfig{
			DB:        sqlDB,
			TableName: config.MySQL.Table,
			Migrate:   config.MySQL.Migrate,
		})
	}

	return storage.NewAuditStorage(ctx, storage.MongoDB, storage.MongoDBConfig{
		Collection: db.Collection(config.Mongo.Audits),
	})
}

func createCoordinator(
	resolver *rates.Resolver,
	client *mongo.Client,
	db *mongo.Database,
	audits converter.AuditStorage,
	config *Config,
	logger *slog.Logger,
) *services.Coordinator {
	return services.NewCoordinator(
		resolver,
		storage.NewMongoRecordStorage(client, db.Collection(config.Mongo.Records)),
		storage.NewMongoBudgetStorage(db.Collection(config.Mongo.Budgets)),
		audits,
		logger,
	)
}
