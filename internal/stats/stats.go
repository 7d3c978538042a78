// Package stats collects per-repository activity timestamps and caches
// them locally. It exists so other tooling can inspect "when was this repo
// last touched" without hitting the API; the command itself is silent on
// success.
package stats

import (
	"context"
	"strings"
	"time"

	"github.com/ghtools-se/gh-archive/internal/archive"
	"github.com/ghtools-se/gh-archive/internal/gh"
	"github.com/ghtools-se/gh-archive/internal/giturl"
	"github.com/ghtools-se/gh-archive/internal/store"
)

// RepoViewer is the slice of the hosting boundary this package needs.
type RepoViewer interface {
	ViewRepository(ctx context.Context, owner, name string) (gh.Repository, error)
}

// Collector resolves repository specifiers, fetches their last-activity
// timestamps, and writes them to the cache store.
type Collector struct {
	Host  RepoViewer
	Store *store.Store

	// DefaultOwner resolves bare names; empty means bare names fail.
	DefaultOwner string

	// Now is the clock; tests override it.
	Now func() time.Time
}

// Collect validates every specifier, then caches one entry per resolved
// slug. Validation of all specifiers happens before the first cache write,
// so a bad specifier leaves the cache untouched.
func (c *Collector) Collect(ctx context.Context, specs []string) error {
	repos := make([]gh.Repository, 0, len(specs))

	for _, raw := range specs {
		spec := giturl.Normalize(raw)

		var slug giturl.Repository

		if strings.Contains(spec, "/") {
			var err error
			if slug, err = giturl.ParseSlug(spec); err != nil {
				return &archive.UnknownRepositoryError{Slug: spec}
			}
		} else {
			if c.DefaultOwner == "" {
				return &archive.MissingOwnerError{Spec: spec}
			}
			slug = giturl.Repository{Owner: c.DefaultOwner, Name: spec}
		}

		repo, err := c.Host.ViewRepository(ctx, slug.Owner, slug.Name)
		if err != nil {
			return &archive.UnknownRepositoryError{Slug: slug.Slug()}
		}

		repos = append(repos, repo)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	fetchedAt := now().UTC()

	for _, repo := range repos {
		entry := store.StatsEntry{
			UpdatedAt: repo.UpdatedAt,
			FetchedAt: fetchedAt,
		}

		if err := c.Store.PutStats(repo.Slug(), entry); err != nil {
			return err
		}
	}

	return nil
}
