package cmd

import (
	"errors"

	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"github.com/ghtools-se/gh-archive/internal/config"
	"github.com/ghtools-se/gh-archive/internal/store"
	"github.com/ghtools-se/gh-archive/internal/watch"
)

var (
	flagCheckOwner string
	flagCheckOpen  bool
)

var checkCmd = &cobra.Command{
	Use:   "check [pattern]...",
	Short: "Review repositories updated since the last check",
	Long: `Walk the owner's repositories most recently updated first, stopping at
the watermark written by the previous check. Repository names are filtered
by the given regexp patterns (or CHECK_PATTERNS from the shared config).

Each hit prompts:
  n   continue to the next repository
  q   quit without moving the watermark
  w   write the watermark and quit`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&flagCheckOwner, "owner", "",
		"Owner to check (default: DEFAULT_OWNER from config)")
	checkCmd.Flags().BoolVar(&flagCheckOpen, "open", false,
		"Open each repository in the browser")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	owner := flagCheckOwner
	if owner == "" {
		owner = cfg.DefaultOwner
	}
	if owner == "" {
		return errors.New("no owner given; use --owner or set a default owner")
	}

	rawPatterns := args
	if len(rawPatterns) == 0 {
		rawPatterns = cfg.CheckPatterns
	}

	patterns, err := watch.CompilePatterns(rawPatterns)
	if err != nil {
		return err
	}

	host, err := newHostClient(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	checker := &watch.Checker{
		Host:     host,
		Store:    db,
		Patterns: patterns,
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
	}

	if flagCheckOpen {
		checker.OpenURL = browser.OpenURL
	}

	return checker.Run(cmd.Context(), owner)
}
