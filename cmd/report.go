package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/AnyUserName/miximage-cli/internal/manifest"
)

func printRunReport(w io.Writer, m *manifest.Manifest, manifestName string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Mode:        %s (seed %d, shift %s, remainder %s)\n", m.Mode, m.Seed, shiftName(m), m.Remainder)
	fmt.Fprintf(w, "  Profile:     %s\n", m.Profile)
	fmt.Fprintf(w, "  Images:      %d\n", m.Stats.TotalImages)
	if m.Stats.Failed > 0 {
		fmt.Fprintf(w, "  Failed:      %d\n", m.Stats.Failed)
	}
	fmt.Fprintf(w, "  Blocks:      %d\n", m.Stats.TotalBlocks)
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(m.Stats.TotalInputBytes))
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(m.Stats.TotalOutputBytes))
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintln(w)

	keys := sortedKeys(m)
	n := len(keys)
	if n > 10 {
		n = 10
	}
	if n > 0 {
		fmt.Fprintf(w, "  First %d of %d:\n", n, len(keys))
		for _, k := range keys[:n] {
			img := m.Images[k]
			fmt.Fprintf(w, "    %-40s %5dx%-5d %3dpx blocks  → %s\n",
				truncKey(k, 40), img.Source.Width, img.Source.Height,
				img.Layout.BlockSize, img.Output.Path)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  Manifest:    %s\n", manifestName)
	fmt.Fprintln(w)
}

// shiftName reads the recorded shift mode. Manifests written before the
// field existed are arithmetic.
func shiftName(m *manifest.Manifest) string {
	if m.Shift == "" {
		return "arithmetic"
	}
	return m.Shift
}

func sortedKeys(m *manifest.Manifest) []string {
	keys := make([]string, 0, len(m.Images))
	for k := range m.Images {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
