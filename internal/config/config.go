// Package config loads miximage defaults from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/AnyUserName/miximage-cli/internal/profile"
	"github.com/AnyUserName/miximage-cli/internal/scrambler"
)

// DefaultPath is looked up in the working directory when no --config
// flag is given. Its absence is not an error.
const DefaultPath = "miximage.toml"

// Config holds run defaults. Command-line flags override every field.
type Config struct {
	Seed             int32  `toml:"seed"`
	Shift            string `toml:"shift"`
	Profile          string `toml:"profile"`
	Workers          int    `toml:"workers"`
	Remainder        string `toml:"remainder"`
	Out              string `toml:"out"`
	ScrambleSuffix   string `toml:"scramble_suffix"`
	UnscrambleSuffix string `toml:"unscramble_suffix"`
	Manifest         string `toml:"manifest"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:             scrambler.DefaultSeed,
		Shift:            scrambler.ShiftArithmetic.String(),
		Profile:          profile.DefaultName,
		Workers:          0,
		Remainder:        scrambler.RemainderCopy.String(),
		Out:              "./miximage_out",
		ScrambleSuffix:   "-Mixed",
		UnscrambleSuffix: "-Decoded",
		Manifest:         "miximage.manifest.json",
	}
}

// Load reads path on top of the defaults. When explicit is false a
// missing file yields the defaults.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no run can use.
func (c Config) Validate() error {
	if _, err := scrambler.ParseRemainderPolicy(c.Remainder); err != nil {
		return err
	}
	if _, err := scrambler.ParseShiftMode(c.Shift); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if !profile.Known(c.Profile) {
		return fmt.Errorf("unknown profile %q (have %v)", c.Profile, profile.Names())
	}
	if c.ScrambleSuffix == c.UnscrambleSuffix {
		return fmt.Errorf("scramble and unscramble suffixes must differ, both are %q", c.ScrambleSuffix)
	}
	return nil
}

// ShiftMode returns the parsed generator shift mode.
func (c Config) ShiftMode() scrambler.ShiftMode {
	m, _ := scrambler.ParseShiftMode(c.Shift)
	return m
}

// Options returns the transform options the config describes.
func (c Config) Options() scrambler.Options {
	return scrambler.Options{Seed: c.Seed, Shift: c.ShiftMode(), Remainder: c.RemainderPolicy()}
}

// RemainderPolicy returns the parsed remainder policy.
func (c Config) RemainderPolicy() scrambler.RemainderPolicy {
	p, _ := scrambler.ParseRemainderPolicy(c.Remainder)
	return p
}
