package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/malusev998/ledger-converter/rates"
	"github.com/malusev998/ledger-converter/services"
)

var (
	rootCmd = &cobra.Command{
		Use:     "ledger-converter",
		Short:   "Currency normalization for the personal finance ledger",
		Version: "v1.0.0",
	}
	debug bool
)

type Config struct {
	Ctx         context.Context
	Coordinator *services.Coordinator
	Resolver    *rates.Resolver
}

func Execute(config *Config) error {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug flag")
	cobra.OnInitialize()

	rootCmd.AddCommand(
		convert(config),
		summary(config),
		rate(config),
		cache(config),
		history(config),
	)

	return rootCmd.Execute()
}
