package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ghtools-se/gh-archive/internal/archive"
	"github.com/ghtools-se/gh-archive/internal/config"
	"github.com/ghtools-se/gh-archive/internal/gh"
	"github.com/ghtools-se/gh-archive/internal/logging"
	"github.com/ghtools-se/gh-archive/internal/ui"
)

// errReported marks errors whose message was already printed; Execute only
// turns them into a non-zero exit.
var errReported = errors.New("already reported")

var (
	flagRemote          bool
	flagSetDefaultOwner string
	flagToken           string
	flagVerbose         int
)

var rootCmd = &cobra.Command{
	Use:   "gh-archive [flags] <target>...",
	Short: "Archive one or more GitHub repositories",
	Long: `Archive one or more GitHub repositories.

Targets are local checkout paths, or with --remote, repository slugs and
glob patterns expanded against the owner's live repository listing.
Pattern expansion always shows the resolved set and asks for an exact 'Y'
before anything is archived.

Config:
  Shared config file key:
    DEFAULT_OWNER   Owner/organization used when OWNER is omitted.

Remote forms accepted:
  OWNER/REPO
  OWNER/*             (glob on repo name)
  REPO                (uses DEFAULT_OWNER if set)
  *pattern*           (uses DEFAULT_OWNER if set)
  https://github.com/OWNER/REPO
  https://github.com/OWNER/*

Examples:
  gh-archive ./myproject
  gh-archive --remote myorg/course-2024-lab1
  gh-archive --remote 'myorg/course-2024-*'   # will prompt & confirm
  gh-archive --set-default-owner myorg
  gh-archive --remote lab1                    # uses DEFAULT_OWNER if set`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(flagVerbose)
	},
	RunE: runArchive,
}

// Execute runs the CLI. Pre-flight errors print a single "error:" line;
// execution-phase failures have already printed their summary. Either way
// the process exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&flagRemote, "remote", false,
		"Treat targets as GitHub repos or patterns instead of local paths")
	rootCmd.Flags().StringVar(&flagSetDefaultOwner, "set-default-owner", "",
		"Store default OWNER/ORG in the shared config; must be used alone")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "",
		"GitHub token (default: auto-detect)")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v",
		"Increase logging verbosity")
}

func runArchive(cmd *cobra.Command, args []string) error {
	if flagSetDefaultOwner != "" {
		if flagRemote || len(args) > 0 {
			return errors.New("--set-default-owner ORG must be used alone")
		}

		return setDefaultOwner(cmd, flagSetDefaultOwner)
	}

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

	resolver := &archive.Resolver{Host: host, DefaultOwner: cfg.DefaultOwner}

	mode := "local"
	resolve := resolver.ResolveLocal
	if flagRemote {
		mode = "remote"
		resolve = resolver.ResolveRemote
	}

	plan, err := resolve(cmd.Context(), args)
	if err != nil {
		return err
	}

	if plan.NeedsConfirm {
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderReports(plan.Reports))

		if len(plan.ToArchive) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "Nothing to archive.")

			return nil
		}

		if !confirm(cmd, len(plan.ToArchive)) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Aborted by user.")

			return nil
		}
	}

	runner := &archive.Runner{Host: host, Mode: mode, Stderr: cmd.ErrOrStderr()}

	result := runner.Execute(cmd.Context(), plan.ToArchive)
	if fails := result.Failures(); len(fails) > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderFailures(fails))

		return errReported
	}

	return nil
}

func setDefaultOwner(cmd *cobra.Command, owner string) error {
	host, err := newHostClient(cmd)
	if err != nil {
		return err
	}

	if err := host.ValidateOwner(cmd.Context(), owner); err != nil {
		return fmt.Errorf("cannot read owner/org: %s", owner)
	}

	if err := config.SetDefaultOwner(owner); err != nil {
		return err
	}

	path, _ := config.Path()
	fmt.Fprintf(cmd.OutOrStdout(), "Default owner set to '%s' in %s\n", owner, path)

	return nil
}

// confirm prints the resolved count and reads one line; only an exact,
// case-sensitive "Y" proceeds.
func confirm(cmd *cobra.Command, count int) bool {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "About to archive %d repository(ies).\n", count)
	fmt.Fprint(out, "Proceed? Type 'Y' to confirm: ")

	in := bufio.NewScanner(cmd.InOrStdin())
	if !in.Scan() {
		return false
	}

	return strings.TrimSpace(in.Text()) == "Y"
}

func newHostClient(cmd *cobra.Command) (*gh.Client, error) {
	token, _, err := gh.ResolveToken(flagToken)
	if err != nil {
		return nil, err
	}

	return gh.NewClient(cmd.Context(), token), nil
}
