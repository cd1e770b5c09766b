package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/miximage-cli/internal/scrambler"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "miximage.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultPath), false)
	if err != nil {
		t.Fatalf("missing implicit config: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoad_MissingExplicit(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml"), true); err == nil {
		t.Error("missing explicit config should fail")
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeFile(t, `
seed = -7
profile = "webp"
workers = 3
remainder = "blank"
shift = "logical"
scramble_suffix = ".obf"
`)
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != -7 || cfg.Profile != "webp" || cfg.Workers != 3 {
		t.Errorf("got %+v", cfg)
	}
	if cfg.RemainderPolicy() != scrambler.RemainderBlank {
		t.Errorf("remainder: %v", cfg.RemainderPolicy())
	}
	if cfg.ShiftMode() != scrambler.ShiftLogical {
		t.Errorf("shift: %v", cfg.ShiftMode())
	}
	opts := cfg.Options()
	if opts.Seed != -7 || opts.Shift != scrambler.ShiftLogical || opts.Remainder != scrambler.RemainderBlank {
		t.Errorf("options: %+v", opts)
	}
	if cfg.ScrambleSuffix != ".obf" || cfg.UnscrambleSuffix != "-Decoded" {
		t.Errorf("suffixes: %q %q", cfg.ScrambleSuffix, cfg.UnscrambleSuffix)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"bad remainder", `remainder = "fill"`, "remainder"},
		{"bad shift", `shift = "rotate"`, "shift mode"},
		{"negative workers", `workers = -1`, "workers"},
		{"unknown profile", `profile = "gif"`, "profile"},
		{"unknown key", `sed = 2`, "unknown key"},
		{"same suffix", `scramble_suffix = "-Decoded"`, "suffixes"},
		{"syntax", `seed = `, "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body), true)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
