package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

func history(config *Config) *cobra.Command {
	var userID string
	var limit int64

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the user's most recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(cmd.OutOrStdout(), "history ", 0)

			entries, err := config.Coordinator.History(config.Ctx, userID, limit)

			if err != nil {
				return err
			}

			if len(entries) == 0 {
				logger.Println("No conversions recorded")
				return nil
			}

			for i, entry := range entries {
				logger.Printf(
					"%d\t%s %s -> %s rate %f, %d records (source: %s)\n",
					i,
					entry.Timestamp.Format("2006-01-02 15:04:05"),
					entry.FromCurrency,
					entry.ToCurrency,
					entry.ExchangeRate,
					entry.ConvertedCount,
					entry.Source,
				)
			}

			return nil
		},
	}

	historyCmd.Flags().StringVar(&userID, "user", "", "User id to show history for")
	historyCmd.Flags().Int64Var(&limit, "limit", 10, "Maximum number of entries")
	_ = historyCmd.MarkFlagRequired("user")

	return historyCmd
}
