package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/baseline/internal/app"
	"github.com/felixgeelhaar/baseline/internal/domain/audit"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previous runs",
	Long: `Display the runs recorded on this host, newest first.

Every run appends one JSON line to <history_dir>/runs.jsonl, which is
rotated when it grows large. history_dir defaults to <log_dir>/history.

Examples:
  baseline history                      # Show recent runs
  baseline history --limit 50           # Show more entries
  baseline history --since 7d           # Last 7 days
  baseline history --role cosmos-node   # Filter by role
  baseline history --failures           # Only unsuccessful runs
  baseline history --json               # JSON output`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyLimit    int
	historySince    string
	historyRole     string
	historyStatus   string
	historyFailures bool
	historyJSON     bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to show")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Show entries since (e.g., 1h, 7d, 2w)")
	historyCmd.Flags().StringVar(&historyRole, "role", "", "Filter by role")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Filter by status (succeeded, failed, cancelled)")
	historyCmd.Flags().BoolVar(&historyFailures, "failures", false, "Only show unsuccessful runs")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	historyCmd.Flags().StringVar(&overrideLogDir, "log-dir", "", "directory for the run log")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	logger, err := newConsoleLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	filter := audit.QueryFilter{
		Role:         historyRole,
		Status:       historyStatus,
		FailuresOnly: historyFailures,
		Limit:        historyLimit,
	}
	if historySince != "" {
		since, err := parseDuration(historySince)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = time.Now().Add(-since)
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	records, err := newBaseline(out, app.WithLogger(logger)).History(ctx, settings, filter)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if historyJSON {
		if records == nil {
			records = []audit.RunRecord{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	app.NewPrinter(out).PrintHistory(records)
	return nil
}

// parseDuration parses a duration string like "1h", "7d", "2w", "1m".
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}

	unit := s[len(s)-1]
	valueStr := s[:len(s)-1]

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return 0, err
	}

	switch unit {
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown unit: %c (use h, d, w, m)", unit)
	}
}
