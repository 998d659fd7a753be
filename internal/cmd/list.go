package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkscout/linkscout/internal/core"
	"github.com/linkscout/linkscout/internal/output"
)

var (
	listQuery  string
	listLimit  int
	listOffset int
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(listFormat)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		db, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck

		var records []core.ConnectionRecord
		if listQuery != "" {
			records, err = db.ConnectionsByQuery(ctx, listQuery, listLimit)
		} else {
			records, err = db.ListConnections(ctx, listLimit, listOffset)
		}
		if err != nil {
			return err
		}

		rendered, err := output.NewFormatter(format).FormatConnections(records)
		if err != nil {
			return err
		}

		fmt.Println(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listQuery, "query", "", "Show only records from this search query")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum records to show")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Records to skip")
	listCmd.Flags().StringVar(&listFormat, "output-format", "table", "Output format: table or json")
}
