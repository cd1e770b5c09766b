package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func sampleManifest() *Manifest {
	m := New("scramble", "lossless")
	m.Seed = 1
	m.Remainder = "copy"
	m.BuildInfo = &BuildInfo{Workers: 4}
	m.Images["holiday/beach"] = Image{
		Source: Source{
			Path: "holiday/beach.jpg", Width: 800, Height: 600,
			Format: "jpeg", Size: 100000, Hash: "0123456789abcdef",
			PixelHash: "fedcba9876543210",
		},
		Layout: Layout{BlockSize: 28, BlocksX: 28, BlocksY: 21, Blocks: 588},
		Output: Output{
			Format: "png", Path: "holiday/beach-Mixed.png", Size: 400000,
			Hash: "abcd1234abcd1234", PixelHash: "1111222233334444", Lossless: true,
		},
	}
	m.Stats.Failed = 2
	return m
}

func TestManifestRoundtrip(t *testing.T) {
	for _, name := range []string{DefaultFileName, DefaultFileName + ".zst"} {
		t.Run(name, func(t *testing.T) {
			m := sampleManifest()
			path := filepath.Join(t.TempDir(), name)
			if err := WriteFile(m, path); err != nil {
				t.Fatalf("write: %v", err)
			}

			m2, err := ReadFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if m2.Version != SupportedManifestVersion {
				t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
			}
			if m2.RunID != m.RunID {
				t.Errorf("run_id: got %q, want %q", m2.RunID, m.RunID)
			}
			if m2.Mode != "scramble" || m2.Profile != "lossless" || m2.Seed != 1 {
				t.Errorf("header: %+v", m2)
			}
			if m2.BuildInfo == nil || m2.BuildInfo.Workers != 4 {
				t.Error("build_info not parsed correctly")
			}
			img, ok := m2.Images["holiday/beach"]
			if !ok {
				t.Fatal("image holiday/beach missing")
			}
			if img.Layout.Blocks != 588 || !img.Output.Lossless {
				t.Errorf("image: %+v", img)
			}
			if m2.Stats.TotalImages != 1 || m2.Stats.TotalBlocks != 588 {
				t.Errorf("stats: %+v", m2.Stats)
			}
			if m2.Stats.Failed != 2 {
				t.Errorf("failed lost: %d", m2.Stats.Failed)
			}
		})
	}
}

func TestWriteFile_CompressedIsNotJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json.zst")
	if err := WriteFile(sampleManifest(), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// zstd frame magic.
	if len(data) < 4 || data[0] != 0x28 || data[1] != 0xB5 || data[2] != 0x2F || data[3] != 0xFD {
		t.Errorf("missing zstd magic: % x", data[:4])
	}
	if json.Valid(data) {
		t.Error("compressed manifest is plain JSON")
	}
}

func TestNew_RunID(t *testing.T) {
	a, b := New("scramble", "x"), New("scramble", "x")
	if _, err := uuid.Parse(a.RunID); err != nil {
		t.Errorf("run id %q: %v", a.RunID, err)
	}
	if a.RunID == b.RunID {
		t.Error("run ids repeat")
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"mode": "unscramble",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "new_flag": true },
		"images": {},
		"stats": { "total_images": 0, "new_stat": 42 }
	}`

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.Version != 1 || m.Mode != "unscramble" {
		t.Errorf("header: %+v", m)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.json")); !os.IsNotExist(err) {
		t.Errorf("got %v, want not-exist", err)
	}
}
