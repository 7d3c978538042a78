// Package giturl parses GitHub repository references: owner/name slugs,
// web and SSH URLs, and the remote URLs found in a checkout's .git/config.
package giturl

import (
	"fmt"
	"net/url"
	"strings"
)

const defaultHost = "github.com"

// Repository identifies a GitHub repository by owner and name.
type Repository struct {
	Owner string
	Name  string
}

// Slug returns the canonical "owner/name" identifier.
func (r Repository) Slug() string {
	return r.Owner + "/" + r.Name
}

// webPrefixes are the URL prefixes stripped by Normalize. Anything left
// after stripping is a bare "owner/name", "name", or pattern form.
var webPrefixes = []string{
	"https://github.com/",
	"http://github.com/",
	"git@github.com:",
}

// Normalize strips the recognized GitHub web/SSH prefixes from a remote
// specifier. It does not validate what remains.
func Normalize(spec string) string {
	for _, p := range webPrefixes {
		if strings.HasPrefix(spec, p) {
			return spec[len(p):]
		}
	}

	return spec
}

// ParseSlug parses an "owner/name" string into a Repository.
func ParseSlug(s string) (Repository, error) {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("invalid repository slug %q", s)
	}

	return Repository{Owner: owner, Name: name}, nil
}

// ParseRemoteURL parses a git remote URL into a Repository. Supported forms:
//
//	https://github.com/owner/name[.git]
//	git@github.com:owner/name[.git]
//	ssh://git@github.com/owner/name[.git]
//
// Remotes pointing at other hosts are rejected.
func ParseRemoteURL(raw string) (Repository, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Repository{}, fmt.Errorf("empty remote URL")
	}

	// scp-like syntax: git@host:owner/name.git
	if !strings.Contains(raw, "://") {
		if at := strings.Index(raw, "@"); at >= 0 {
			hostPath := raw[at+1:]
			host, path, ok := strings.Cut(hostPath, ":")
			if !ok {
				return Repository{}, fmt.Errorf("invalid remote URL %q", raw)
			}
			if host != defaultHost {
				return Repository{}, fmt.Errorf("remote %q is not a github.com repository", raw)
			}

			return slugFromPath(path)
		}

		return Repository{}, fmt.Errorf("invalid remote URL %q", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Repository{}, fmt.Errorf("invalid remote URL %q: %w", raw, err)
	}

	if u.Hostname() != defaultHost {
		return Repository{}, fmt.Errorf("remote %q is not a github.com repository", raw)
	}

	return slugFromPath(u.Path)
}

func slugFromPath(path string) (Repository, error) {
	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Repository{}, fmt.Errorf("cannot derive owner/name from remote path %q", path)
	}

	return Repository{Owner: parts[0], Name: parts[1]}, nil
}
