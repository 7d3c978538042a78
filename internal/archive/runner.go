package archive

import (
	"context"
	"fmt"
	"io"

	"github.com/ghtools-se/gh-archive/internal/giturl"
)

// Outcome classifies what happened to one target during execution.
type Outcome int

const (
	// OutcomeArchived means the archive call succeeded.
	OutcomeArchived Outcome = iota

	// OutcomeSkipped means the repository was already archived when the
	// runner got to it. Success-as-no-op, not a failure.
	OutcomeSkipped

	// OutcomeFailed means the archive call (or the status re-check before
	// it) failed for this target.
	OutcomeFailed
)

// Result is the outcome for a single target.
type Result struct {
	Slug    string
	Outcome Outcome
	Err     error
}

// RunResult accumulates per-target outcomes for one run. It is the sole
// determinant of the final exit status.
type RunResult struct {
	Results []Result
}

// Failures returns the slugs that failed, in processing order.
func (rr *RunResult) Failures() []string {
	var fails []string

	for _, res := range rr.Results {
		if res.Outcome == OutcomeFailed {
			fails = append(fails, res.Slug)
		}
	}

	return fails
}

// Runner performs the execute phase. Mode labels progress lines ("local" or
// "remote"); Stderr receives the per-target progress and failure lines.
type Runner struct {
	Host   HostClient
	Mode   string
	Stderr io.Writer
}

// Execute archives every slug in order. The archived status is re-checked
// immediately before each archive call: a repository archived out from
// under us since resolution is skipped, not failed. Per-target failures are
// recorded and execution continues; only the caller's pre-flight can abort
// a run.
func (r *Runner) Execute(ctx context.Context, slugs []string) *RunResult {
	rr := &RunResult{}

	for _, s := range slugs {
		rr.Results = append(rr.Results, r.archiveOne(ctx, s))
	}

	return rr
}

func (r *Runner) archiveOne(ctx context.Context, slug string) Result {
	repo, err := giturl.ParseSlug(slug)
	if err != nil {
		fmt.Fprintf(r.Stderr, "Archive failed: %s\n", slug)

		return Result{Slug: slug, Outcome: OutcomeFailed, Err: err}
	}

	current, err := r.Host.ViewRepository(ctx, repo.Owner, repo.Name)
	if err != nil {
		fmt.Fprintf(r.Stderr, "Archive failed: %s\n", slug)

		return Result{Slug: slug, Outcome: OutcomeFailed, Err: err}
	}

	if current.Archived {
		fmt.Fprintf(r.Stderr, "Already archived - skipping: %s\n", slug)

		return Result{Slug: slug, Outcome: OutcomeSkipped}
	}

	fmt.Fprintf(r.Stderr, "Archiving (%s): %s\n", r.Mode, slug)

	if err := r.Host.ArchiveRepository(ctx, repo.Owner, repo.Name); err != nil {
		fmt.Fprintf(r.Stderr, "Archive failed: %s\n", slug)

		return Result{Slug: slug, Outcome: OutcomeFailed, Err: err}
	}

	return Result{Slug: slug, Outcome: OutcomeArchived}
}
