package cmd

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	converter "github.com/malusev998/ledger-converter"
)

func periodFromFlags(year, month int, now time.Time) converter.DateRange {
	if year == 0 || month == 0 {
		return converter.CurrentMonth(now)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())

	return converter.DateRange{
		From: from,
		To:   from.AddDate(0, 1, 0).Add(-time.Second),
	}
}

func convert(config *Config) *cobra.Command {
	var userID, from, to string
	var year, month int

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the user's records in the period to a new currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(cmd.OutOrStdout(), "convert ", 0)
			period := periodFromFlags(year, month, time.Now())

			result, err := config.Coordinator.Convert(config.Ctx, userID, from, to, period)

			if err != nil {
				return err
			}

			if !result.Success {
				return fmt.Errorf("conversion failed: %s", strings.Join(result.Errors, "; "))
			}

			logger.Printf("Converted %d records %s -> %s at rate %f\n", result.ConvertedCount, result.FromCurrency, result.ToCurrency, result.ExchangeRate)

			for _, message := range result.Errors {
				logger.Printf("WARNING: %s\n", message)
			}

			if debug {
				logger.Printf("%+v\n", result)
			}

			return nil
		},
	}

	convertCmd.Flags().StringVar(&userID, "user", "", "User id owning the records")
	convertCmd.Flags().StringVar(&from, "from", "", "Currency the records are priced in")
	convertCmd.Flags().StringVar(&to, "to", "", "Currency to convert the records to")
	convertCmd.Flags().IntVar(&year, "year", 0, "Accounting period year, defaults to the current month")
	convertCmd.Flags().IntVar(&month, "month", 0, "Accounting period month, defaults to the current month")
	_ = convertCmd.MarkFlagRequired("user")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")

	return convertCmd
}

func summary(config *Config) *cobra.Command {
	var userID string
	var year, month int

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Total the user's records in the period",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(cmd.OutOrStdout(), "summary ", 0)
			period := periodFromFlags(year, month, time.Now())

			result, err := config.Coordinator.Summary(config.Ctx, userID, period)

			if err != nil {
				return err
			}

			if !result.HasRecords {
				logger.Println("No records in the period")
				return nil
			}

			logger.Printf("%d records, total %.2f %s\n", result.TotalCount, result.TotalAmount, result.Currency)

			return nil
		},
	}

	summaryCmd.Flags().StringVar(&userID, "user", "", "User id owning the records")
	summaryCmd.Flags().IntVar(&year, "year", 0, "Accounting period year, defaults to the current month")
	summaryCmd.Flags().IntVar(&month, "month", 0, "Accounting period month, defaults to the current month")
	_ = summaryCmd.MarkFlagRequired("user")

	return summaryCmd
}
