package main

import (
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"

	"github.com/malusev998/ledger-converter/storage"
)

type (
	MongoConfig struct {
		URI      string
		Database string
		Records  string
		Budgets  string
		Audits   string
	}

	MySQLConfig struct {
		DSN     string
		Table   string
		Migrate bool
	}

	RatesConfig struct {
		URL          string
		CacheTTL     time.Duration
		FetchTimeout time.Duration
	}

	Config struct {
		AuditStorage storage.Provider
		Mongo        MongoConfig
		MySQL        MySQLConfig
		Rates        RatesConfig
	}
)

func getMysqlDSN(config map[string]string) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = config["user"]
	mysqlDriverConfig.Passwd = config["password"]
	mysqlDriverConfig.Addr = config["addr"]
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = config["db"]

	return mysqlDriverConfig.FormatDSN()
}

func getConfig() (*Config, error) {
	mongoConfig := viper.GetStringMapString("databases.mongodb")
	mysqlConfig := viper.GetStringMapString("databases.mysql")

	auditProvider := storage.MongoDB

	if str := viper.GetString("audit.storage"); str != "" {
		provider, err := storage.ConvertToProviderFromString(str)

		if err != nil {
			return nil, err
		}

		auditProvider = provider
	}

	return &Config{
		AuditStorage: auditProvider,
		Mongo: MongoConfig{
			URI:      mongoConfig["uri"],
			Database: mongoConfig["database"],
			Records:  mongoConfig["records"],
			Budgets:  mongoConfig["budgets"],
			Audits:   mongoConfig["audits"],
		},
		MySQL: MySQLConfig{
			DSN:     getMysqlDSN(mysqlConfig),
			Table:   mysqlConfig["table"],
			Migrate: viper.GetBool("migrate"),
		},
		Rates: RatesConfig{
			URL:          viper.GetString("rates.url"),
			CacheTTL:     viper.GetDuration("rates.cachettl"),
			FetchTimeout: viper.GetDuration("rates.fetchtimeout"),
		},
	}, nil
}
