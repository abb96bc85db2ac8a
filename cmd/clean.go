package cmd

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/mhdash/internal/cleaner"
	"github.com/KaramelBytes/mhdash/internal/console"
	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/KaramelBytes/mhdash/internal/store"
	"github.com/KaramelBytes/mhdash/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	clnOutput  string
	clnReport  string
	clnSheet   string
	clnDBURL   string
	clnDBTable string
	clnQuiet   bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Drop records with a missing mental-health condition and write the cleaned CSV",
	Long: `Compares records with and without a mental-health condition (numeric summaries,
category proportions and advisory significance tests), then drops every record whose
condition is missing. The drop policy is fixed; flagged tests are for review only.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		w := cmd.OutOrStdout()

		out := clnOutput
		if out == "" {
			out = cfg.CleanOutput
		}
		if out == "" {
			out = utils.SiblingPath(path, "_clean.csv")
		}
		out, err := utils.ExpandHome(out)
		if err != nil {
			return err
		}
		report, err := utils.ExpandHome(clnReport)
		if err != nil {
			return err
		}

		raw, err := loadDataset(path, clnSheet)
		if err != nil {
			return err
		}
		opt := cleaner.DefaultOptions()
		opt.Column = cfg.ConditionColumn
		opt.Logger = logger
		res, err := cleaner.Clean(raw, opt)
		if err != nil {
			return err
		}

		if !clnQuiet {
			console.PrintComparison(w, res.Missingness)
			console.Heading(w, "Policy: %s", cleaner.Policy)
			console.PrintSummary(w, res.Summary)
			fmt.Fprintln(w)
		}

		if err := dataset.WriteCSV(out, res.Output); err != nil {
			return fmt.Errorf("write cleaned dataset: %w", err)
		}
		fmt.Fprintf(w, "✓ Wrote cleaned dataset to %s (%d rows kept, %d dropped)\n", out, res.Output.Len(), res.Dropped)

		if report != "" {
			if err := utils.SafeWriteFile(report, []byte(res.Markdown())); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(w, "✓ Wrote report to %s\n", report)
		}

		dbURL, table := clnDBURL, clnDBTable
		if dbURL == "" {
			dbURL = cfg.DBURL
		}
		if table == "" {
			table = cfg.DBTable
		}
		if dbURL != "" {
			if err := mirror(cmd.Context(), dbURL, table, res.Output); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Mirrored %d rows to table %s\n", res.Output.Len(), table)
		}
		return nil
	},
}

func mirror(ctx context.Context, url, table string, ds *dataset.Dataset) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(ctx, url)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.WriteDataset(ctx, table, ds, dataset.SurveySchema()); err != nil {
		return fmt.Errorf("mirror to %s: %w", table, err)
	}
	logger.Info("mirrored dataset", zap.String("driver", st.Driver()), zap.String("table", table), zap.Int("rows", ds.Len()))
	return nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&clnOutput, "output", "o", "", "path for the cleaned CSV (default <file>_clean.csv or clean_output from config)")
	cleanCmd.Flags().StringVar(&clnReport, "report", "", "optional path to write the review report (Markdown)")
	cleanCmd.Flags().StringVar(&clnSheet, "sheet", "", "XLSX: sheet name to read")
	cleanCmd.Flags().StringVar(&clnDBURL, "db-url", "", "also write the cleaned dataset to this database (sqlite://path or postgres://...)")
	cleanCmd.Flags().StringVar(&clnDBTable, "db-table", "", "table name for --db-url (default from config)")
	cleanCmd.Flags().BoolVarP(&clnQuiet, "quiet", "q", false, "skip the printed review tables")
}
