package main

import (
	"github.com/Veraticus/tiffin/internal/cli"
	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [chat exports...]",
		Short: "Show the orders extracted from chat messages",
		Long: `Extract orders from chat exports (or pasted text) and list them together
with the lines that looked like orders but could not be read.

Examples:
  tiffin parse ~/Downloads/orders-chat.txt
  tiffin parse --text "Order: 2 Naan | Name: Asha | Date: 06/27/24"
  tiffin parse chat.txt --format json`,
		RunE: runParse,
	}

	cmd.Flags().String("text", "", "order messages given inline")
	cmd.Flags().String("format", "table", "output format (table, json)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	format, _ := cmd.Flags().GetString("format")

	if err := checkFormat(format); err != nil {
		return err
	}

	extraction, err := readOrders(cmd, args, text)
	if err != nil {
		return err
	}

	if format == "json" {
		return cli.RenderJSON(cmd.OutOrStdout(), extraction)
	}
	return cli.RenderExtraction(cmd.OutOrStdout(), extraction, true)
}
