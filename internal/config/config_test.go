package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"
)

func setConfigHome(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	return dir
}

func TestLoadMissingFile(t *testing.T) {
	setConfigHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Empty(t, cfg.DefaultOwner)
	require.Empty(t, cfg.CheckPatterns)
}

func TestSetDefaultOwnerRoundTrip(t *testing.T) {
	setConfigHome(t)

	require.NoError(t, SetDefaultOwner("acme"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "acme", cfg.DefaultOwner)
}

func TestLoadSharedFormat(t *testing.T) {
	// The file is shared with sibling tools that write bare KEY=value
	// lines; both their keys and their format must survive.
	dir := setConfigHome(t)
	path := filepath.Join(dir, FileName)

	content := "SOME_OTHER_KEY=kept\nDEFAULT_OWNER=acme\nCHECK_PATTERNS=lab-.*, py-.*-i4-.*\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "acme", cfg.DefaultOwner)
	require.Equal(t, []string{"lab-.*", "py-.*-i4-.*"}, cfg.CheckPatterns)

	require.NoError(t, SetDefaultOwner("other"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "SOME_OTHER_KEY=kept")
	require.Contains(t, string(data), "DEFAULT_OWNER=other")
	require.NotContains(t, string(data), "DEFAULT_OWNER = ")
}

func TestLoadTrimsOwner(t *testing.T) {
	dir := setConfigHome(t)
	path := filepath.Join(dir, FileName)

	require.NoError(t, os.WriteFile(path, []byte("DEFAULT_OWNER=  acme  \n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "acme", cfg.DefaultOwner)
}

func TestPathUsesConfigHome(t *testing.T) {
	dir := setConfigHome(t)

	path, err := Path()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, dir), "path %q not under %q", path, dir)
	require.Equal(t, FileName, filepath.Base(path))
}
