package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linkscout/linkscout/internal/auth"
	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/core"
	"github.com/linkscout/linkscout/internal/core/engine"
	"github.com/linkscout/linkscout/internal/core/store"
	"github.com/linkscout/linkscout/internal/linkedin"
	"github.com/linkscout/linkscout/internal/observability"
	"github.com/linkscout/linkscout/internal/output"
)

var (
	searchCompany   string
	searchLocation  string
	searchDegrees   []int
	searchLimit     int
	searchAccount   string
	searchFormat    string
	searchOut       string
	searchAcceptTOS bool
)

var searchCmd = &cobra.Command{
	Use:   "search KEYWORDS",
	Short: "Search connections and persist the results",
	Long: `Search people by keywords, optionally filtered by company, location,
and connection degree. Each search consumes one unit of the daily action
quota and waits out the configured spacing interval before running.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureTOSAccepted(searchAcceptTOS); err != nil {
			return err
		}

		format, err := output.ParseFormat(searchFormat)
		if err != nil {
			return err
		}

		depths, err := parseDegrees(searchDegrees)
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

		orch := newOrchestrator(cfg.Auth.AccountsFile, cfg.RateLimit, db)
		keywords := strings.Join(args, " ")

		observability.CLILogger.Debug("Starting search",
			zap.String("keywords", keywords),
			zap.String("company", searchCompany),
			zap.String("location", searchLocation),
			zap.Int("limit", searchLimit))

		records, err := orch.Execute(ctx, engine.SearchParams{
			Keywords:    keywords,
			CompanyName: searchCompany,
			Location:    searchLocation,
			Depths:      depths,
			Limit:       searchLimit,
			Account:     searchAccount,
		})
		if err != nil {
			return err
		}

		rendered, err := output.NewFormatter(format).FormatConnections(records)
		if err != nil {
			return err
		}

		sink, err := openSink(searchOut)
		if err != nil {
			return err
		}
		defer sink.close() // nolint:errcheck

		if _, err := fmt.Fprintln(sink.writer, rendered); err != nil {
			return err
		}

		if remaining, err := orch.RemainingActions(ctx); err == nil {
			fmt.Printf("Found %d connections. %d actions remaining today.\n", len(records), remaining)
		} else {
			fmt.Printf("Found %d connections.\n", len(records))
		}
		return nil
	},
}

// newOrchestrator wires the keyring, remote client, limiter, and store into
// one search pipeline.
func newOrchestrator(accountsFile string, rl config.RateLimitConfig, db *store.Store) *engine.Orchestrator {
	limiter := &engine.RateLimiter{
		Ledger: &engine.Ledger{Store: db},
		Config: rl,
	}
	return &engine.Orchestrator{
		Credentials: auth.NewCookieStore(accountsFile),
		Client:      &linkedin.Client{},
		Limiter:     limiter,
		Store:       db,
		Map:         linkedin.MapMatch,
	}
}

func parseDegrees(degrees []int) ([]core.NetworkDepth, error) {
	depths := make([]core.NetworkDepth, 0, len(degrees))
	for _, degree := range degrees {
		depth, ok := core.ParseNetworkDepth(degree)
		if !ok {
			return nil, fmt.Errorf("invalid connection degree %d (expected 1, 2, or 3)", degree)
		}
		depths = append(depths, depth)
	}
	return depths, nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchCompany, "company", "", "Filter by current company name")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "Filter by location")
	searchCmd.Flags().IntSliceVar(&searchDegrees, "degree", nil, "Connection degrees to include (1, 2, 3; repeatable)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results to fetch (default 100)")
	searchCmd.Flags().StringVar(&searchAccount, "account", "default", "Account whose credentials to use")
	searchCmd.Flags().StringVar(&searchFormat, "output-format", "table", "Output format: table or json")
	searchCmd.Flags().StringVar(&searchOut, "out", "", "Write results to a file instead of stdout")
	searchCmd.Flags().BoolVar(&searchAcceptTOS, "yes", false, "Accept the terms of service without prompting")
}
