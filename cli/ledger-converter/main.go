package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/malusev998/ledger-converter/cli/cmd"
	"github.com/malusev998/ledger-converter/storage"
)

func main() {
	ctx := context.Background()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("LEDGER_CONVERTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error while reading in the config file: %v", err)
	}

	config, err := getConfig()

	if err != nil {
		log.Fatalf("Error in configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	mongoClient, err := mongo.NewClient(options.Client().ApplyURI(config.Mongo.URI))

	if err != nil {
		log.Fatalf("Error in mongo configuration: %v", err)
	}

	if err := mongoClient.Connect(ctx); err != nil {
		log.Fatalf("Error while connecting to mongodb: %v", err)
	}

	db := mongoClient.Database(config.Mongo.Database)

	var sqlDB *sql.DB

	if config.AuditStorage == storage.MySQL {
		sqlDB, err = sql.Open("mysql", config.MySQL.DSN)

		if err != nil {
			log.Fatalf("Error while connecting to mysql: %v", err)
		}
	}

	audits, err := createAuditStorage(ctx, config, db, sqlDB)

	if err != nil {
		log.Fatalf("Error while creating audit storage: %v", err)
	}

	resolver := createResolver(config, logger)
	coordinator := createCoordinator(resolver, mongoClient, db, audits, config, logger)

	err = cmd.Execute(&cmd.Config{
		Ctx:         ctx,
		Coordinator: coordinator,
		Resolver:    resolver,
	})

	if mongoClient.Disconnect(ctx) == nil {
		log.Println("Disconnecting from mongodb")
	}

	if sqlDB != nil && sqlDB.Close() == nil {
		log.Println("Disconnecting from SQL Database")
	}

	if err != nil {
		os.Exit(1)
	}
}
