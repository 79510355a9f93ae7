package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestBanner(t *testing.T) {
	prevNoColor := color.NoColor
	prevVersion, prevCommit, prevDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		color.NoColor = prevNoColor
		Version, GitCommit, BuildDate = prevVersion, prevCommit, prevDate
	})

	color.NoColor = true
	Version = "1.2.3"
	GitCommit = "0123456789abcdef"
	BuildDate = "2026-01-15"

	want := "coolc 1.2.3 (commit 0123456789ab, built 2026-01-15)"
	if got := Banner(); got != want {
		t.Fatalf("Banner() = %q, want %q", got, want)
	}

	GitCommit = "abc"
	BuildDate = ""
	if got := Commit(); got != "abc" {
		t.Fatalf("Commit() = %q", got)
	}
	if got := Banner(); got != "coolc 1.2.3 (commit abc)" {
		t.Fatalf("Banner() = %q", got)
	}
}
