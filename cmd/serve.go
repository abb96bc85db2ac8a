package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/mhdash/internal/dashboard"
	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/KaramelBytes/mhdash/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	srvAddr    string
	srvSheet   string
	srvDBURL   string
	srvDBTable string
)

var serveCmd = &cobra.Command{
	Use:   "serve [<file>]",
	Short: "Serve the interactive dashboard over a cleaned dataset",
	Long: `Loads the cleaned dataset once (from a CSV/XLSX file, or from the table written by
'clean --db-url') and serves the dashboard page and its JSON API until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := srvAddr
		if addr == "" {
			addr = cfg.ServerAddr
		}
		dbURL, table := srvDBURL, srvDBTable
		if dbURL == "" {
			dbURL = cfg.DBURL
		}
		if table == "" {
			table = cfg.DBTable
		}

		var load dashboard.Loader
		switch {
		case len(args) == 1:
			path := args[0]
			load = func(ctx context.Context) (*dataset.Dataset, error) { return loadDataset(path, srvSheet) }
		case dbURL != "":
			load = func(ctx context.Context) (*dataset.Dataset, error) {
				st, err := store.Open(ctx, dbURL)
				if err != nil {
					return nil, err
				}
				defer st.Close()
				return st.ReadDataset(ctx, table)
			}
		default:
			return errors.New("provide a cleaned dataset file or --db-url")
		}

		if cfg.GinMode != "" {
			gin.SetMode(cfg.GinMode)
		}
		srv, err := dashboard.NewServer(checked(load), cfg.ConditionColumn, logger)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, addr)
	},
}

// checked warns when the served dataset still has records without a condition.
func checked(load dashboard.Loader) dashboard.Loader {
	return func(ctx context.Context) (*dataset.Dataset, error) {
		ds, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if n, err := ds.NullCount(cfg.ConditionColumn); err == nil && n > 0 {
			logger.Warn("dataset has records without a condition; run clean first",
				zap.String("column", cfg.ConditionColumn), zap.Int("records", n))
		}
		return ds, nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default from config, :8501)")
	serveCmd.Flags().StringVar(&srvSheet, "sheet", "", "XLSX: sheet name to read")
	serveCmd.Flags().StringVar(&srvDBURL, "db-url", "", "read the dataset from this database instead of a file")
	serveCmd.Flags().StringVar(&srvDBTable, "db-table", "", "table name for --db-url (default from config)")
}
