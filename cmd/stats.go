package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ghtools-se/gh-archive/internal/config"
	"github.com/ghtools-se/gh-archive/internal/stats"
	"github.com/ghtools-se/gh-archive/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <repo>...",
	Short: "Collect and cache repository activity stats",
	Long: `Collect and cache GitHub repository stats (last activity timestamp).

Repos must be remote: OWNER/REPO, or REPO if DEFAULT_OWNER is set. Full
GitHub URLs are accepted. Silent on success; inspect the cache if desired.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	host, err := newHostClient(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	collector := &stats.Collector{
		Host:         host,
		Store:        db,
		DefaultOwner: cfg.DefaultOwner,
	}

	return collector.Collect(cmd.Context(), args)
}
