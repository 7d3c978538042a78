package giturl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// DiscoverLocal finds the GitHub repository configured for the checkout at
// dir by reading its .git/config. The "origin" remote is preferred; if no
// origin exists the first remote with a URL is used.
func DiscoverLocal(dir string) (Repository, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Repository{}, fmt.Errorf("missing path: %s", dir)
	}

	cfgPath, err := gitConfigPath(dir)
	if err != nil {
		return Repository{}, err
	}

	remoteURL, err := remoteURLFromConfig(cfgPath)
	if err != nil {
		return Repository{}, err
	}

	repo, err := ParseRemoteURL(remoteURL)
	if err != nil {
		return Repository{}, fmt.Errorf("%s: %w", dir, err)
	}

	return repo, nil
}

// gitConfigPath locates the config file for a checkout, following the
// "gitdir:" indirection used by worktrees and submodules.
func gitConfigPath(dir string) (string, error) {
	gitPath := filepath.Join(dir, ".git")

	info, err := os.Stat(gitPath)
	if err != nil {
		return "", fmt.Errorf("not a git checkout: %s", dir)
	}

	if info.IsDir() {
		return filepath.Join(gitPath, "config"), nil
	}

	data, err := os.ReadFile(gitPath)
	if err != nil {
		return "", fmt.Errorf("not a git checkout: %s", dir)
	}

	gitDir := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(data)), "gitdir:"))
	if gitDir == "" {
		return "", fmt.Errorf("not a git checkout: %s", dir)
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(dir, gitDir)
	}

	return filepath.Join(gitDir, "config"), nil
}

func remoteURLFromConfig(path string) (string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return "", fmt.Errorf("cannot read git config %s: %w", path, err)
	}

	var fallback string

	for _, sec := range cfg.Sections() {
		if !strings.HasPrefix(sec.Name(), "remote ") || !sec.HasKey("url") {
			continue
		}

		u := sec.Key("url").String()
		if sec.Name() == `remote "origin"` {
			return u, nil
		}
		if fallback == "" {
			fallback = u
		}
	}

	if fallback == "" {
		return "", fmt.Errorf("no remote configured in %s", path)
	}

	return fallback, nil
}
