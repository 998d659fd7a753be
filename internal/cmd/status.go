package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/ascii"
	"github.com/spf13/cobra"

	"github.com/linkscout/linkscout/internal/core/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show quota usage and stored-connection statistics",
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

		limiter := &engine.RateLimiter{
			Ledger: &engine.Ledger{Store: db},
			Config: cfg.RateLimit,
		}

		used, err := limiter.ActionsToday(ctx, "")
		if err != nil {
			return err
		}
		remaining, err := limiter.RemainingToday(ctx)
		if err != nil {
			return err
		}
		last, err := limiter.LastActionTime(ctx)
		if err != nil {
			return err
		}

		var panel strings.Builder
		panel.WriteString("Rate Limit Status\n\n")
		fmt.Fprintf(&panel, "Actions today:     %d / %d\n", used, cfg.RateLimit.MaxActionsPerDay)
		fmt.Fprintf(&panel, "Remaining:         %d\n", remaining)
		fmt.Fprintf(&panel, "Quota resets in:   %s", formatDuration(time.Until(limiter.ResetAt())))
		if last != nil {
			fmt.Fprintf(&panel, "\nLast action:       %s", last.UTC().Format("2006-01-02 15:04:05 UTC"))
		}
		if remaining < 5 {
			panel.WriteString("\n\nWarning: fewer than 5 actions remaining today.")
		}
		fmt.Println(ascii.DrawBox(panel.String(), 0))

		stats, err := db.Stats(ctx)
		if err != nil {
			return err
		}

		fmt.Println("\nStored Connections")
		fmt.Printf("  Total:             %d\n", stats.TotalConnections)
		fmt.Printf("  Unique companies:  %d\n", stats.UniqueCompanies)
		fmt.Printf("  Unique locations:  %d\n", stats.UniqueLocations)
		if len(stats.DegreeDistribution) > 0 {
			degrees := make([]int, 0, len(stats.DegreeDistribution))
			for degree := range stats.DegreeDistribution {
				degrees = append(degrees, degree)
			}
			sort.Ints(degrees)
			fmt.Println("  By degree:")
			for _, degree := range degrees {
				fmt.Printf("    %d: %d\n", degree, stats.DegreeDistribution[degree])
			}
		}
		if len(stats.SearchQueries) > 0 {
			fmt.Printf("  Queries:           %s\n", strings.Join(stats.SearchQueries, ", "))
		}
		return nil
	},
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
