package gh

import (
	"context"
	"time"

	"github.com/google/go-github/v82/github"
)

// listLimit caps how many repositories a single owner listing returns,
// mirroring the original tooling's fixed --limit.
const listLimit = 1000

const perPage = 100

// Repository is the boundary view of a hosted repository.
type Repository struct {
	Owner     string
	Name      string
	Archived  bool
	UpdatedAt time.Time
	HTMLURL   string
}

// Slug returns the canonical "owner/name" identifier.
func (r Repository) Slug() string {
	return r.Owner + "/" + r.Name
}

func fromAPI(r *github.Repository) Repository {
	return Repository{
		Owner:     r.GetOwner().GetLogin(),
		Name:      r.GetName(),
		Archived:  r.GetArchived(),
		UpdatedAt: r.GetUpdatedAt().Time,
		HTMLURL:   r.GetHTMLURL(),
	}
}

// ListRepositories returns the owner's repositories, archived ones
// included, in the API's default order. Listing is paginated and capped at
// a fixed limit. The org endpoint is tried first; unknown orgs fall back to
// the user endpoint so personal accounts work too.
func (c *Client) ListRepositories(ctx context.Context, owner string) ([]Repository, error) {
	return c.listRepositories(ctx, owner, "", "")
}

// ListByRecentActivity returns the owner's repositories most recently
// updated first.
func (c *Client) ListByRecentActivity(ctx context.Context, owner string) ([]Repository, error) {
	return c.listRepositories(ctx, owner, "updated", "desc")
}

func (c *Client) listRepositories(ctx context.Context, owner, sort, direction string) ([]Repository, error) {
	repos, err := c.listByOrg(ctx, owner, sort, direction)
	if err == nil {
		return repos, nil
	}
	if !IsNotFound(err) {
		return nil, apiError("list repositories", err)
	}

	repos, err = c.listByUser(ctx, owner, sort, direction)
	if err != nil {
		return nil, apiError("list repositories", err)
	}

	return repos, nil
}

func (c *Client) listByOrg(ctx context.Context, owner, sort, direction string) ([]Repository, error) {
	opt := &github.RepositoryListByOrgOptions{
		Sort:        sort,
		Direction:   direction,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []Repository

	for {
		var (
			page []*github.Repository
			resp *github.Response
		)

		err := c.withRetry(ctx, "list org repositories", func() error {
			var err error
			page, resp, err = c.api.Repositories.ListByOrg(ctx, owner, opt)
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, r := range page {
			out = append(out, fromAPI(r))
			if len(out) >= listLimit {
				return out, nil
			}
		}

		if resp.NextPage == 0 {
			return out, nil
		}

		opt.Page = resp.NextPage
	}
}

func (c *Client) listByUser(ctx context.Context, owner, sort, direction string) ([]Repository, error) {
	opt := &github.RepositoryListByUserOptions{
		Sort:        sort,
		Direction:   direction,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []Repository

	for {
		var (
			page []*github.Repository
			resp *github.Response
		)

		err := c.withRetry(ctx, "list user repositories", func() error {
			var err error
			page, resp, err = c.api.Repositories.ListByUser(ctx, owner, opt)
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, r := range page {
			out = append(out, fromAPI(r))
			if len(out) >= listLimit {
				return out, nil
			}
		}

		if resp.NextPage == 0 {
			return out, nil
		}

		opt.Page = resp.NextPage
	}
}

// ViewRepository looks up a single repository. Callers use IsNotFound to
// distinguish "does not exist / not viewable" from transport failures.
func (c *Client) ViewRepository(ctx context.Context, owner, name string) (Repository, error) {
	var repo *github.Repository

	err := c.withRetry(ctx, "view repository", func() error {
		var err error
		repo, _, err = c.api.Repositories.Get(ctx, owner, name)
		return err
	})
	if err != nil {
		return Repository{}, err
	}

	return fromAPI(repo), nil
}

// ArchiveRepository marks the repository archived. The hosting service
// treats archiving an already-archived repository as an error, so callers
// check the archived flag first.
func (c *Client) ArchiveRepository(ctx context.Context, owner, name string) error {
	return c.withRetry(ctx, "archive repository", func() error {
		_, _, err := c.api.Repositories.Edit(ctx, owner, name, &github.Repository{
			Archived: github.Ptr(true),
		})
		return err
	})
}

// ValidateOwner reports whether the owner exists and is readable, checking
// the user endpoint first and falling back to the org endpoint.
func (c *Client) ValidateOwner(ctx context.Context, owner string) error {
	err := c.withRetry(ctx, "validate owner", func() error {
		_, _, err := c.api.Users.Get(ctx, owner)
		return err
	})
	if err == nil || !IsNotFound(err) {
		return err
	}

	return c.withRetry(ctx, "validate owner", func() error {
		_, _, err := c.api.Organizations.Get(ctx, owner)
		return err
	})
}
