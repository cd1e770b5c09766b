package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/miximage-cli/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a scramble or unscramble run",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path, err := resolveManifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	printStats(cmd.OutOrStdout(), m)
	return nil
}

// resolveManifestPath accepts a manifest file or an output directory
// holding a plain or zstd-compressed default manifest.
func resolveManifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range []string{manifest.DefaultFileName, manifest.DefaultFileName + ".zst"} {
		p := filepath.Join(path, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s in %s", manifest.DefaultFileName, path)
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Run:              %s\n", m.RunID)
	fmt.Fprintf(w, "  Mode:             %s\n", m.Mode)
	fmt.Fprintf(w, "  Seed:             %d\n", m.Seed)
	fmt.Fprintf(w, "  Shift:            %s\n", shiftName(m))
	fmt.Fprintf(w, "  Remainder:        %s\n", m.Remainder)
	fmt.Fprintf(w, "  Profile:          %s\n", m.Profile)
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:          %d\n", m.BuildInfo.Workers)
		if m.BuildInfo.Version != "" {
			fmt.Fprintf(w, "  miximage:         %s\n", m.BuildInfo.Version)
		}
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Total images:     %d\n", s.TotalImages)
	if s.Failed > 0 {
		fmt.Fprintf(w, "  Failed:           %d\n", s.Failed)
	}
	fmt.Fprintf(w, "  Total blocks:     %d\n", s.TotalBlocks)
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Fprintf(w, "  Size ratio:       %.1f%% of input\n", ratio)
	}
	fmt.Fprintln(w)

	// Per-format breakdown.
	type formatStat struct {
		count int
		bytes int64
	}
	formats := map[string]formatStat{}
	for _, img := range m.Images {
		fs := formats[img.Output.Format]
		fs.count++
		fs.bytes += img.Output.Size
		formats[img.Output.Format] = fs
	}
	names := make([]string, 0, len(formats))
	for f := range formats {
		names = append(names, f)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "  Output formats:")
	for _, f := range names {
		fmt.Fprintf(w, "    %-6s  %4d files  %s\n", f, formats[f].count, formatBytes(formats[f].bytes))
	}
	fmt.Fprintln(w)

	// Per-block-size breakdown.
	sizes := map[int]int{}
	for _, img := range m.Images {
		sizes[img.Layout.BlockSize]++
	}
	var bs []int
	for b := range sizes {
		bs = append(bs, b)
	}
	sort.Ints(bs)
	fmt.Fprintln(w, "  Block sizes:")
	for _, b := range bs {
		fmt.Fprintf(w, "    %5dpx  %4d images\n", b, sizes[b])
	}

	// Warnings.
	var warnings []string
	for _, key := range sortedKeys(m) {
		img := m.Images[key]
		if !img.Output.Lossless {
			warnings = append(warnings, fmt.Sprintf("image %q written lossy (%s), exact recovery impossible", key, img.Output.Format))
		}
		if img.Source.Width*img.Source.Height > 0 {
			covered := img.Layout.BlocksX * img.Layout.BlockSize * img.Layout.BlocksY * img.Layout.BlockSize
			if m.Remainder == "blank" && covered < img.Source.Width*img.Source.Height {
				warnings = append(warnings, fmt.Sprintf("image %q loses its edge strip (remainder=blank)", key))
			}
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, wn := range warnings {
			fmt.Fprintf(w, "    ⚠ %s\n", wn)
		}
	}
	fmt.Fprintln(w)
}
