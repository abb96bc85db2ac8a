package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/KaramelBytes/mhdash/internal/aggregate"
	"github.com/KaramelBytes/mhdash/internal/console"
	"github.com/KaramelBytes/mhdash/internal/utils"
	"github.com/spf13/cobra"
)

var (
	aggCondition string
	aggCountry   string
	aggXLSX      string
	aggSheet     string
	aggJSON      bool
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <file>",
	Short: "Print the dashboard aggregates for a condition/country selection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		ds, err := loadDataset(args[0], aggSheet)
		if err != nil {
			return err
		}
		sel := aggregate.Selection{Condition: aggCondition, Country: aggCountry, ConditionColumn: cfg.ConditionColumn}
		views, err := aggregate.BuildViews(ds, sel)
		if err != nil {
			return err
		}

		if aggJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(views); err != nil {
				return fmt.Errorf("encode views: %w", err)
			}
		} else {
			console.PrintViews(w, views)
		}

		if aggXLSX != "" {
			xlsx, err := utils.ExpandHome(aggXLSX)
			if err != nil {
				return err
			}
			if err := aggregate.WriteWorkbook(xlsx, views); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Fprintf(w, "✓ Wrote aggregates to %s\n", xlsx)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	aggregateCmd.Flags().StringVar(&aggCondition, "condition", aggregate.All, "mental-health condition to filter on (All for no filter)")
	aggregateCmd.Flags().StringVar(&aggCountry, "country", aggregate.All, "country to filter on (All for no filter)")
	aggregateCmd.Flags().StringVar(&aggXLSX, "xlsx", "", "optional path to write every view as an XLSX sheet")
	aggregateCmd.Flags().StringVar(&aggSheet, "sheet", "", "XLSX input: sheet name to read")
	aggregateCmd.Flags().BoolVar(&aggJSON, "json", false, "print the views as JSON instead of tables")
}
