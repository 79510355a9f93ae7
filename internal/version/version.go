package version

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Overridden at build time via -ldflags "-X coolc/internal/version.Version=...".
var (
	Version   = "0.3.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var (
	nameColor    = color.New(color.FgCyan, color.Bold)
	versionColor = color.New(color.FgGreen, color.Bold)
	metaColor    = color.New(color.Faint)
)

// Commit returns GitCommit, falling back to the VCS revision stamped by
// the Go toolchain.
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// Banner renders the one-line version string; colours follow
// color.NoColor.
func Banner() string {
	var sb strings.Builder
	sb.WriteString(nameColor.Sprint("coolc"))
	sb.WriteByte(' ')
	sb.WriteString(versionColor.Sprint(Version))
	var meta []string
	if c := Commit(); c != "" {
		if len(c) > 12 {
			c = c[:12]
		}
		meta = append(meta, "commit "+c)
	}
	if BuildDate != "" {
		meta = append(meta, "built "+BuildDate)
	}
	if len(meta) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(metaColor.Sprint(fmt.Sprintf("(%s)", strings.Join(meta, ", "))))
	}
	return sb.String()
}
