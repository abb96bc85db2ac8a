package cmd

import (
	"github.com/KaramelBytes/mhdash/internal/explore"
	"github.com/spf13/cobra"
)

var (
	expHead  int
	expSheet string
)

var exploreCmd = &cobra.Command{
	Use:   "explore <file>",
	Short: "Show shape, column types, describe table, head and null counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0], expSheet)
		if err != nil {
			return err
		}
		head := expHead
		if !cmd.Flags().Changed("head") && cfg.HeadRows > 0 {
			head = cfg.HeadRows
		}
		rep, err := explore.Explore(ds, head)
		if err != nil {
			return err
		}
		rep.Print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().IntVar(&expHead, "head", 5, "number of leading rows to show")
	exploreCmd.Flags().StringVar(&expSheet, "sheet", "", "XLSX: sheet name to read")
}
