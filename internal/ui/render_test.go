package ui

import (
	"strings"
	"testing"

	"github.com/ghtools-se/gh-archive/internal/archive"
)

func TestRenderReports(t *testing.T) {
	reports := []archive.PatternReport{
		{Pattern: "myorg/lab-*", Matches: []string{"myorg/lab-1", "myorg/lab-2"}},
		{Pattern: "myorg/zzz-*"},
	}

	out := RenderReports(reports)

	for _, want := range []string{
		"Pattern 'myorg/lab-*' will archive:",
		"myorg/lab-1",
		"myorg/lab-2",
		"Pattern 'myorg/zzz-*' matched 0 non-archived repositories.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFailures(t *testing.T) {
	out := RenderFailures([]string{"myorg/a", "myorg/b"})

	for _, want := range []string{
		"Failed to archive 2 repository(ies):",
		"myorg/a",
		"myorg/b",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
