package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-github/v82/github"
	"github.com/rs/zerolog"
)

// newTestClient returns a Client pointed at a test server whose mux
// handlers stand in for the API.
func newTestClient(t *testing.T) (*Client, *http.ServeMux) {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := &Client{
		api:   github.NewClient(nil),
		retry: RetryConfig{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: 10 * time.Millisecond},
		log:   zerolog.Nop(),
	}
	if err := c.SetBaseURL(srv.URL + "/"); err != nil {
		t.Fatal(err)
	}

	return c, mux
}

func repoJSON(owner, name string, archived bool) map[string]any {
	return map[string]any{
		"name":      name,
		"full_name": owner + "/" + name,
		"archived":  archived,
		"owner":     map[string]any{"login": owner},
		"html_url":  "https://github.com/" + owner + "/" + name,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

func TestListRepositoriesPaginates(t *testing.T) {
	c, mux := newTestClient(t)

	mux.HandleFunc("/orgs/myorg/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(t, w, []map[string]any{repoJSON("myorg", "b", true)})
			return
		}

		w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+"/orgs/myorg/repos"))
		writeJSON(t, w, []map[string]any{repoJSON("myorg", "a", false)})
	})

	repos, err := c.ListRepositories(context.Background(), "myorg")
	if err != nil {
		t.Fatalf("ListRepositories() error = %v", err)
	}

	if len(repos) != 2 {
		t.Fatalf("got %d repos, want 2", len(repos))
	}

	if repos[0].Slug() != "myorg/a" || repos[0].Archived {
		t.Errorf("repos[0] = %+v", repos[0])
	}

	if repos[1].Slug() != "myorg/b" || !repos[1].Archived {
		t.Errorf("repos[1] = %+v", repos[1])
	}
}

func TestListRepositoriesUserFallback(t *testing.T) {
	c, mux := newTestClient(t)

	mux.HandleFunc("/orgs/someone/repos", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/users/someone/repos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []map[string]any{repoJSON("someone", "dotfiles", false)})
	})

	repos, err := c.ListRepositories(context.Background(), "someone")
	if err != nil {
		t.Fatalf("ListRepositories() error = %v", err)
	}

	if len(repos) != 1 || repos[0].Slug() != "someone/dotfiles" {
		t.Errorf("repos = %+v", repos)
	}
}

func TestViewRepositoryNotFound(t *testing.T) {
	c, mux := newTestClient(t)

	mux.HandleFunc("/repos/acme/ghost", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.ViewRepository(context.Background(), "acme", "ghost")
	if err == nil {
		t.Fatal("expected error")
	}

	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestViewRepository(t *testing.T) {
	c, mux := newTestClient(t)

	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, repoJSON("acme", "widgets", true))
	})

	repo, err := c.ViewRepository(context.Background(), "acme", "widgets")
	if err != nil {
		t.Fatalf("ViewRepository() error = %v", err)
	}

	if repo.Slug() != "acme/widgets" || !repo.Archived {
		t.Errorf("repo = %+v", repo)
	}
}

func TestArchiveRepositorySendsArchivedPatch(t *testing.T) {
	c, mux := newTestClient(t)

	var gotMethod string
	var gotBody struct {
		Archived *bool `json:"archived"`
	}

	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatal(err)
		}

		writeJSON(t, w, repoJSON("acme", "widgets", true))
	})

	if err := c.ArchiveRepository(context.Background(), "acme", "widgets"); err != nil {
		t.Fatalf("ArchiveRepository() error = %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}

	if gotBody.Archived == nil || !*gotBody.Archived {
		t.Errorf("body archived = %v, want true", gotBody.Archived)
	}
}

func TestValidateOwnerOrgFallback(t *testing.T) {
	c, mux := newTestClient(t)

	mux.HandleFunc("/users/myorg", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/orgs/myorg", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"login": "myorg"})
	})

	if err := c.ValidateOwner(context.Background(), "myorg"); err != nil {
		t.Fatalf("ValidateOwner() error = %v", err)
	}
}

func TestValidateOwnerUnknown(t *testing.T) {
	c, mux := newTestClient(t)

	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/orgs/ghost", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if err := c.ValidateOwner(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for unknown owner")
	}
}

func TestWithRetryRecoversFromRateLimit(t *testing.T) {
	c, mux := newTestClient(t)

	var calls int

	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("X-Ratelimit-Limit", "5000")
			w.Header().Set("X-Ratelimit-Remaining", "0")
			w.Header().Set("X-Ratelimit-Reset", fmt.Sprint(time.Now().Add(-time.Second).Unix()))
			w.WriteHeader(http.StatusForbidden)
			writeJSON(t, w, map[string]any{"message": "API rate limit exceeded"})

			return
		}

		writeJSON(t, w, repoJSON("acme", "widgets", false))
	})

	repo, err := c.ViewRepository(context.Background(), "acme", "widgets")
	if err != nil {
		t.Fatalf("ViewRepository() error = %v", err)
	}

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	if repo.Slug() != "acme/widgets" {
		t.Errorf("repo = %+v", repo)
	}
}

func TestWithRetryGivesUpOnOtherErrors(t *testing.T) {
	c, mux := newTestClient(t)

	var calls int

	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := c.ViewRepository(context.Background(), "acme", "widgets"); err == nil {
		t.Fatal("expected error")
	}

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on non-rate-limit errors)", calls)
	}
}
