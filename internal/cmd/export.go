package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkscout/linkscout/internal/core"
	"github.com/linkscout/linkscout/internal/output"
)

var (
	exportQuery string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored connections to CSV",
	Long: `Export stored connection records as CSV, either all of them or only
those produced by a single search query. Exporting reads the local store
and never consumes the action quota.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		if exportQuery != "" {
			records, err = db.ConnectionsByQuery(ctx, exportQuery, 0)
		} else {
			records, err = db.AllConnections(ctx)
		}
		if err != nil {
			return err
		}

		formatter := &output.CSVFormatter{QueryInfo: exportQuery}
		rendered, err := formatter.FormatConnections(records)
		if err != nil {
			return err
		}

		sink, err := openSink(exportPath())
		if err != nil {
			return err
		}
		defer sink.close() // nolint:errcheck

		if _, err := fmt.Fprint(sink.writer, rendered); err != nil {
			return err
		}

		if sink.path != "-" {
			fmt.Printf("Exported %d connections to %s\n", len(records), sink.path)
		}
		return nil
	},
}

// exportPath defaults to a timestamped file in the working directory when
// no --out is given.
func exportPath() string {
	if exportOut != "" {
		return exportOut
	}
	return fmt.Sprintf("connections_%s.%s",
		time.Now().UTC().Format("20060102_150405"), outputExtension(output.FormatCSV))
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportQuery, "query", "", "Export only records from this search query")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path ('-' for stdout)")
}
