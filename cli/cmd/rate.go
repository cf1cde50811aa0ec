package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	converter "github.com/malusev998/ledger-converter"
)

func parsePairs(args []string) ([]converter.Pair, error) {
	pairs := make([]converter.Pair, 0, len(args))

	for _, arg := range args {
		currencies := strings.Split(arg, "_")

		if len(currencies) != 2 || currencies[0] == "" || currencies[1] == "" {
			return nil, fmt.Errorf("%s is not a valid currency pair, expected FROM_TO", arg)
		}

		pairs = append(pairs, converter.Pair{From: currencies[0], To: currencies[1]})
	}

	return pairs, nil
}

func rate(config *Config) *cobra.Command {
	rateCmd := &cobra.Command{
		Use:   "rate PAIR [PAIR...]",
		Short: "Resolve exchange rates for one or more FROM_TO pairs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(cmd.OutOrStdout(), "rate ", 0)

			pairs, err := parsePairs(args)

			if err != nil {
				return err
			}

			quotes, err := config.Resolver.ResolveMany(config.Ctx, pairs)

			if err != nil {
				return err
			}

			for i, quote := range quotes {
				logger.Printf("%s: %f (source: %s)\n", pairs[i].Key(), quote.Rate, quote.Source)
			}

			return nil
		},
	}

	return rateCmd
}

func cache(config *Config) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the exchange rate cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print cache entry count and oldest fetch time",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(cmd.OutOrStdout(), "cache ", 0)
			stats := config.Resolver.CacheStats()

			if stats.Entries == 0 {
				logger.Println("Cache is empty")
				return nil
			}

			logger.Printf("%d entries, oldest fetched at %s\n", stats.Entries, stats.OldestFetch.Format("2006-01-02 15:04:05"))

			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Resolver.ClearCache()
			return nil
		},
	}

	cacheCmd.AddCommand(statsCmd, clearCmd)

	return cacheCmd
}
