// Package watch walks an owner's repositories newest-activity-first,
// surfacing the ones updated since the persisted watermark that match the
// configured name patterns. It drives an interactive review loop.
package watch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/ghtools-se/gh-archive/internal/gh"
	"github.com/ghtools-se/gh-archive/internal/store"
)

// RepoLister is the slice of the hosting boundary this package needs.
type RepoLister interface {
	ListByRecentActivity(ctx context.Context, owner string) ([]gh.Repository, error)
}

// CompilePatterns compiles name patterns, anchoring each so it must match
// the whole repository name.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}

		out = append(out, re)
	}

	return out, nil
}

// Checker runs one review pass.
type Checker struct {
	Host  RepoLister
	Store *store.Store

	// Patterns filter repository names; empty means every name matches.
	Patterns []*regexp.Regexp

	// OpenURL, when set, opens each surfaced repository in the browser.
	OpenURL func(url string) error

	In  io.Reader
	Out io.Writer

	// Now is the clock; tests override it.
	Now func() time.Time
}

// Run walks the owner's repositories most recently updated first. Repos
// older than the watermark end the pass (and advance the watermark); the
// rest are filtered by name and offered one at a time with a
// next/quit/write prompt. Quitting without writing leaves the watermark
// where it was so the next pass sees the same repos again.
func (c *Checker) Run(ctx context.Context, owner string) error {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	start := now().UTC()

	watermark, err := c.Store.Watermark()
	if err != nil {
		return err
	}

	repos, err := c.Host.ListByRecentActivity(ctx, owner)
	if err != nil {
		return err
	}

	in := bufio.NewScanner(c.In)

	for _, repo := range repos {
		if repo.UpdatedAt.Before(watermark) {
			break
		}

		if !c.matches(repo.Name) {
			continue
		}

		fmt.Fprintf(c.Out, "Check %s (%s)\n", repo.Name, repo.HTMLURL)

		if c.OpenURL != nil {
			if err := c.OpenURL(repo.HTMLURL); err != nil {
				fmt.Fprintf(c.Out, "cannot open browser: %v\n", err)
			}
		}

		next, err := c.prompt(in, start)
		if err != nil || !next {
			return err
		}
	}

	fmt.Fprintln(c.Out, "No changes left to check.")

	return c.Store.SetWatermark(start)
}

func (c *Checker) matches(name string) bool {
	if len(c.Patterns) == 0 {
		return true
	}

	for _, re := range c.Patterns {
		if re.MatchString(name) {
			return true
		}
	}

	return false
}

// prompt asks next/quit/write until it gets a valid answer. It returns
// true to continue with the next repository.
func (c *Checker) prompt(in *bufio.Scanner, start time.Time) (bool, error) {
	for {
		fmt.Fprint(c.Out, "Continue? [n/q/w] ")

		if !in.Scan() {
			return false, in.Err()
		}

		switch in.Text() {
		case "n", "N":
			return true, nil
		case "q", "Q":
			return false, nil
		case "w", "W":
			return false, c.Store.SetWatermark(start)
		default:
			fmt.Fprintln(c.Out, "Invalid input.")
		}
	}
}
