package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/tiffin/internal/analytics"
	"github.com/Veraticus/tiffin/internal/cli"
	"github.com/Veraticus/tiffin/internal/common"
	"github.com/Veraticus/tiffin/internal/config"
	"github.com/Veraticus/tiffin/internal/model"
	"github.com/Veraticus/tiffin/internal/payments"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [chat exports...]",
		Short: "Report sales and customer insights from order messages",
		Long: `Extract orders from chat exports (or pasted text) and report top items,
trending items, low stock, retained and churned customers and reorders.

Examples:
  # Analyze an exported chat
  tiffin analyze ~/Downloads/orders-chat.txt

  # Add payment exports for revenue and payment matching
  tiffin analyze chat.txt --payments zelle.csv --payments checking.qfx

  # Analyze as of a past date with a larger stock threshold
  tiffin analyze chat.txt --reference-date 06/30/24 --stock-threshold 25

  # Paste messages instead of reading files
  tiffin analyze < messages.txt`,
		RunE: runAnalyze,
	}

	defaults := analytics.DefaultConfig()
	flags := cmd.Flags()
	flags.String("text", "", "order messages given inline")
	flags.StringSlice("payments", nil, "payment exports (.csv, .ofx, .qfx); repeatable, globs allowed")
	flags.String("reference-date", "", "anchor date for day counts (default: latest order date)")
	flags.Int("stock-threshold", defaults.StockThreshold, "units sold before an item is flagged low stock")
	flags.Int("retention-days", defaults.RetentionWindowDays, "days since last order that still count as retained")
	flags.Int("trending-days", defaults.TrendingWindowDays, "length of the recent sales window")
	flags.Int("baseline-days", defaults.TrendingBaselineDays, "length of the baseline window before it")
	flags.String("format", "table", "output format (table, json)")
	flags.Int("top", 10, "rows shown per section in table output (0 for all)")

	_ = viper.BindPFlag(config.KeyReferenceDate, flags.Lookup("reference-date"))
	_ = viper.BindPFlag(config.KeyStockThreshold, flags.Lookup("stock-threshold"))
	_ = viper.BindPFlag(config.KeyRetentionWindowDays, flags.Lookup("retention-days"))
	_ = viper.BindPFlag(config.KeyTrendingWindowDays, flags.Lookup("trending-days"))
	_ = viper.BindPFlag(config.KeyTrendingBaselineDays, flags.Lookup("baseline-days"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	text, _ := cmd.Flags().GetString("text")
	paymentPatterns, _ := cmd.Flags().GetStringSlice("payments")
	format, _ := cmd.Flags().GetString("format")
	top, _ := cmd.Flags().GetInt("top")

	if err := checkFormat(format); err != nil {
		return err
	}

	cfg, err := config.LoadAnalyticsConfig()
	if err != nil {
		return err
	}
	engine, err := analytics.NewEngine(cfg)
	if err != nil {
		return err
	}
	slog.Debug("Analytics configuration", "config", fmt.Sprintf("%+v", cfg))

	extraction, err := readOrders(cmd, args, text)
	if err != nil {
		return err
	}

	var txns []model.Transaction
	if len(paymentPatterns) > 0 {
		files, err := expandPaths(paymentPatterns)
		if err != nil {
			return err
		}
		txns, err = payments.LoadFiles(ctx, files)
		if err != nil {
			return err
		}
		slog.Info("Loaded payments", "files", len(files), "transactions", len(txns))
	}

	report := engine.Analyze(extraction.Orders, txns)

	out := cmd.OutOrStdout()
	if format == "json" {
		return cli.RenderJSON(out, report)
	}

	if err := cli.RenderExtraction(out, extraction, false); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	return cli.RenderReport(out, report, cli.ReportOptions{Top: top})
}

func checkFormat(format string) error {
	switch format {
	case "table", "json":
		return nil
	default:
		return common.NewUserError(fmt.Sprintf("unknown format %q (use table or json)", format), nil)
	}
}
