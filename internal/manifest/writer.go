package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// New creates an empty manifest with defaults and a fresh run ID.
func New(mode, profileName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		RunID:       uuid.NewString(),
		Mode:        mode,
		Profile:     profileName,
		Images:      make(map[string]Image),
	}
}

// ComputeStats recalculates aggregate statistics from images.
// Failed is left as is; it is not derivable from Images.
func (m *Manifest) ComputeStats() {
	s := Stats{Failed: m.Stats.Failed}
	s.TotalImages = len(m.Images)
	for _, img := range m.Images {
		s.TotalInputBytes += img.Source.Size
		s.TotalOutputBytes += img.Output.Size
		s.TotalBlocks += img.Layout.Blocks
	}
	m.Stats = s
}

// Compressed reports whether path names a zstd-compressed manifest.
func Compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// WriteFile serializes the manifest to path as indented JSON, compressed
// with zstd when the path ends in ".zst".
func WriteFile(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if Compressed(path) {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a manifest written by WriteFile.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r io.Reader = bytes.NewReader(data)
	if Compressed(path) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
