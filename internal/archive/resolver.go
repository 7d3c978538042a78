// Package archive implements the archive workflow as a two-phase pipeline:
// a side-effect-free resolve phase that turns raw specifiers into a Plan,
// and an execute phase that performs the archive calls and collects
// per-target outcomes. All pre-flight validation happens during resolve, so
// a Plan that comes back without error is safe to execute in full.
package archive

import (
	"context"
	"path"
	"strings"

	"github.com/ghtools-se/gh-archive/internal/gh"
	"github.com/ghtools-se/gh-archive/internal/giturl"
)

// HostClient is the hosting-service boundary the workflow depends on.
// *gh.Client satisfies it; tests use fakes.
type HostClient interface {
	ListRepositories(ctx context.Context, owner string) ([]gh.Repository, error)
	ViewRepository(ctx context.Context, owner, name string) (gh.Repository, error)
	ArchiveRepository(ctx context.Context, owner, name string) error
	ValidateOwner(ctx context.Context, owner string) error
}

// PatternReport records what one pattern specifier contributed to the plan.
type PatternReport struct {
	Pattern string   // "owner/name-pattern" as expanded
	Matches []string // slugs, empty when nothing matched
}

// Plan is the resolved, validated set of repositories to archive. It is
// produced without side effects; nothing has been mutated when a Plan
// exists.
type Plan struct {
	// ToArchive is the deduplicated, order-stable list of slugs.
	ToArchive []string

	// Reports holds one entry per pattern specifier, in input order.
	Reports []PatternReport

	// NeedsConfirm is set when any specifier was a pattern; the caller
	// must gate execution behind an explicit confirmation.
	NeedsConfirm bool
}

// Resolver builds Plans. DefaultOwner comes from the shared config, read
// once at startup; an empty value means bare names and ownerless patterns
// fail with MissingOwnerError.
type Resolver struct {
	Host         HostClient
	DefaultOwner string
}

// ResolveRemote expands and validates remote specifiers. Specifiers are
// normalized (web/SSH prefixes stripped), then classified: wildcards make a
// pattern, a slash makes an explicit slug, anything else is a bare name
// resolved against the default owner. Every specifier is validated before
// the Plan is returned; any failure aborts with nothing mutated.
func (r *Resolver) ResolveRemote(ctx context.Context, specs []string) (*Plan, error) {
	plan := &Plan{}

	for _, raw := range specs {
		spec := giturl.Normalize(raw)

		if strings.ContainsAny(spec, "*?") {
			if err := r.expandPattern(ctx, spec, plan); err != nil {
				return nil, err
			}

			continue
		}

		if err := r.resolveSlug(ctx, spec, plan); err != nil {
			return nil, err
		}
	}

	plan.ToArchive = dedupKeepOrder(plan.ToArchive)

	return plan, nil
}

func (r *Resolver) expandPattern(ctx context.Context, spec string, plan *Plan) error {
	plan.NeedsConfirm = true

	owner, pattern, ok := strings.Cut(spec, "/")
	if !ok {
		if r.DefaultOwner == "" {
			return &MissingOwnerError{Spec: spec}
		}
		owner, pattern = r.DefaultOwner, spec
	}

	if strings.ContainsAny(owner, "*?") {
		return &InvalidOwnerError{Owner: owner}
	}

	if err := r.Host.ValidateOwner(ctx, owner); err != nil {
		return &UnknownOwnerError{Owner: owner}
	}

	repos, err := r.Host.ListRepositories(ctx, owner)
	if err != nil {
		return &UnknownOwnerError{Owner: owner}
	}

	report := PatternReport{Pattern: owner + "/" + pattern}

	for _, repo := range repos {
		if repo.Archived || !matchName(pattern, repo.Name) {
			continue
		}

		report.Matches = append(report.Matches, repo.Slug())
	}

	plan.Reports = append(plan.Reports, report)
	plan.ToArchive = append(plan.ToArchive, report.Matches...)

	return nil
}

func (r *Resolver) resolveSlug(ctx context.Context, spec string, plan *Plan) error {
	var slug giturl.Repository

	if strings.Contains(spec, "/") {
		var err error
		if slug, err = giturl.ParseSlug(spec); err != nil {
			return &UnknownRepositoryError{Slug: spec}
		}
	} else {
		if r.DefaultOwner == "" {
			return &MissingOwnerError{Spec: spec}
		}
		slug = giturl.Repository{Owner: r.DefaultOwner, Name: spec}
	}

	repo, err := r.Host.ViewRepository(ctx, slug.Owner, slug.Name)
	if err != nil {
		return &UnknownRepositoryError{Slug: slug.Slug()}
	}

	// Already-archived explicit slugs are silently excluded; asking twice
	// is not an error.
	if !repo.Archived {
		plan.ToArchive = append(plan.ToArchive, repo.Slug())
	}

	return nil
}

// ResolveLocal validates local checkout paths and maps each to its remote
// slug. All paths are validated before any archiving can begin; the first
// invalid path aborts the whole run.
func (r *Resolver) ResolveLocal(ctx context.Context, paths []string) (*Plan, error) {
	plan := &Plan{}

	for _, p := range paths {
		repo, err := giturl.DiscoverLocal(p)
		if err != nil {
			return nil, &NotARepositoryError{Path: p, Reason: "no viewable remote"}
		}

		if _, err := r.Host.ViewRepository(ctx, repo.Owner, repo.Name); err != nil {
			return nil, &NotARepositoryError{Path: p, Reason: "no viewable remote"}
		}

		plan.ToArchive = append(plan.ToArchive, repo.Slug())
	}

	plan.ToArchive = dedupKeepOrder(plan.ToArchive)

	return plan, nil
}

// matchName matches a repository name against a glob pattern where '*'
// matches any run of characters and '?' matches exactly one, case
// sensitively. Malformed patterns match nothing.
func matchName(pattern, name string) bool {
	ok, err := path.Match(pattern, name)

	return err == nil && ok
}

func dedupKeepOrder(slugs []string) []string {
	seen := make(map[string]struct{}, len(slugs))
	out := slugs[:0]

	for _, s := range slugs {
		if _, dup := seen[s]; dup {
			continue
		}

		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
