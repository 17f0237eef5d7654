package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule catalogue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		catalog := state.registry.Catalog()
		switch format {
		case "json":
			return writeJSON(cmd.OutOrStdout(), catalog)
		case "text":
			return writeRulesText(cmd.OutOrStdout(), catalog)
		}
		return fmt.Errorf("unknown format %q", format)
	},
}

func init() {
	rulesCmd.Flags().String("format", "text", "output format: text or json")
}
