package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/miximage-cli/internal/hasher"
	"github.com/AnyUserName/miximage-cli/internal/manifest"
	"github.com/AnyUserName/miximage-cli/internal/scrambler"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a miximage manifest and check referenced files are intact",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	m, err := manifest.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	errs := validateManifest(m, filepath.Dir(manifestPath))
	w := cmd.OutOrStdout()

	if len(errs) == 0 {
		fmt.Fprintln(w, "  ✓ Manifest is valid")
		fmt.Fprintf(w, "  ✓ %d images, %d blocks, all files present\n", m.Stats.TotalImages, m.Stats.TotalBlocks)
		return nil
	}

	fmt.Fprintf(w, "  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}
	if m.Mode != "scramble" && m.Mode != "unscramble" {
		errs = append(errs, fmt.Sprintf("unknown mode %q", m.Mode))
	}
	if _, err := scrambler.ParseShiftMode(m.Shift); err != nil {
		errs = append(errs, fmt.Sprintf("shift: %v", err))
	}
	if _, err := scrambler.ParseRemainderPolicy(m.Remainder); err != nil {
		errs = append(errs, fmt.Sprintf("remainder: %v", err))
	}

	seenPaths := map[string]string{}
	for _, key := range sortedKeys(m) {
		img := m.Images[key]

		// The recorded layout must be the one the dimensions imply.
		layout, err := scrambler.NewLayout(img.Source.Width, img.Source.Height)
		if err != nil {
			errs = append(errs, fmt.Sprintf("image %q: %v", key, err))
		} else if img.Layout.BlockSize != layout.BlockSize || img.Layout.BlocksX != layout.BlocksX ||
			img.Layout.BlocksY != layout.BlocksY || img.Layout.Blocks != layout.Count() {
			errs = append(errs, fmt.Sprintf("image %q: layout %+v does not match %dx%d",
				key, img.Layout, img.Source.Width, img.Source.Height))
		}

		out := img.Output
		if out.Hash == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing output hash", key))
		}
		if out.Path == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing output path", key))
			continue
		}
		if other, dup := seenPaths[out.Path]; dup {
			errs = append(errs, fmt.Sprintf("image %q: output path %q also used by %q", key, out.Path, other))
		}
		seenPaths[out.Path] = key

		errs = append(errs, checkOutputFile(key, out, filepath.Join(baseDir, filepath.FromSlash(out.Path)))...)
	}

	// Verify stats consistency.
	blocks := 0
	for _, img := range m.Images {
		blocks += img.Layout.Blocks
	}
	if m.Stats.TotalImages != len(m.Images) {
		errs = append(errs, fmt.Sprintf("stats.total_images mismatch: %d != %d", m.Stats.TotalImages, len(m.Images)))
	}
	if m.Stats.TotalBlocks != blocks {
		errs = append(errs, fmt.Sprintf("stats.total_blocks mismatch: %d != %d", m.Stats.TotalBlocks, blocks))
	}

	return errs
}

func checkOutputFile(key string, out manifest.Output, path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("image %q: file not found: %s", key, out.Path)}
	}
	defer f.Close()

	var errs []string
	if info, err := f.Stat(); err == nil && out.Size > 0 && info.Size() != out.Size {
		errs = append(errs, fmt.Sprintf("image %q: size mismatch: manifest=%d, disk=%d", key, out.Size, info.Size()))
	}
	sum, err := hasher.ContentHashReader(f, len(out.Hash))
	if err != nil {
		return append(errs, fmt.Sprintf("image %q: read %s: %v", key, out.Path, err))
	}
	if out.Hash != "" && sum != out.Hash {
		errs = append(errs, fmt.Sprintf("image %q: hash mismatch: manifest=%s, disk=%s", key, out.Hash, sum))
	}
	return errs
}
