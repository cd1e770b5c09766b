// Package cmd implements the miximage command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/miximage-cli/internal/config"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string

	// cfg is loaded before every command runs.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "miximage",
	Short: "Reversible block-shuffle image obfuscation",
	Long: `miximage cuts images into square blocks, shuffles them with a fixed
seeded permutation and inverts their colors, so pictures can be shared
without being recognizable at a glance. "unscramble" restores them.

This is obfuscation, not encryption: the algorithm and the default seed
are public, and anyone can reverse it. Output is compatible with the
MixImage Android app when the default seed is used.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI with ctx, which should be cancelled on SIGINT.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./"+config.DefaultPath+" if present)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"miximage %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func setup(cmd *cobra.Command, _ []string) error {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := newLogger(os.Stderr, level)
	cmd.SetContext(withLogger(cmd.Context(), logger))

	path, explicit := configPath, configPath != ""
	if !explicit {
		path = config.DefaultPath
	}
	loaded, err := config.Load(path, explicit)
	if err != nil {
		return err
	}
	cfg = loaded
	logger.Debug("config", "path", path, "seed", cfg.Seed, "shift", cfg.Shift, "profile", cfg.Profile, "remainder", cfg.Remainder)
	return nil
}
