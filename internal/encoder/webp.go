package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// tool locates an external encoder binary once.
type tool struct {
	name string
	once sync.Once
	path string
}

func (t *tool) lookup() string {
	t.once.Do(func() {
		if p, err := exec.LookPath(t.name); err == nil {
			t.path = p
		}
	})
	return t.path
}

// runTool writes img as PNG to a temp file, runs bin with args built
// from the source and destination paths, and returns the output bytes.
func runTool(bin, ext string, img image.Image, args func(src, dst string) []string) ([]byte, error) {
	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("miximage_src_%d_*.png", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	if err := png.Encode(srcFile, img); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := srcFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp: %w", err)
	}

	dstFile, err := os.CreateTemp("", fmt.Sprintf("miximage_dst_%d_*.%s", id, ext))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	cmd := exec.Command(bin, args(srcPath, dstPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", bin, err, string(out))
	}
	return os.ReadFile(dstPath)
}

// WebPEncoder encodes lossless WebP by shelling out to cwebp.
// This approach avoids CGO while still producing optimized WebP.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	cwebp tool
}

func NewWebPEncoder() *WebPEncoder {
	return &WebPEncoder{cwebp: tool{name: "cwebp"}}
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) Available() bool   { return e.cwebp.lookup() != "" }
func (e *WebPEncoder) Lossless() bool    { return true }

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	bin := e.cwebp.lookup()
	if bin == "" {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}
	if quality <= 0 || quality > 100 {
		quality = 75
	}
	return runTool(bin, "webp", img, func(src, dst string) []string {
		return []string{
			"-lossless",
			"-exact", // keep RGB under transparent pixels
			"-q", fmt.Sprintf("%d", quality),
			"-m", "6",
			"-mt",
			"-quiet",
			src,
			"-o", dst,
		}
	})
}

// AVIFEncoder encodes lossless AVIF by shelling out to avifenc.
// Install: brew install libavif / apt install libavif-bin
type AVIFEncoder struct {
	avifenc tool
}

func NewAVIFEncoder() *AVIFEncoder {
	return &AVIFEncoder{avifenc: tool{name: "avifenc"}}
}

func (e *AVIFEncoder) Format() string    { return "avif" }
func (e *AVIFEncoder) Extension() string { return "avif" }
func (e *AVIFEncoder) Available() bool   { return e.avifenc.lookup() != "" }
func (e *AVIFEncoder) Lossless() bool    { return true }

func (e *AVIFEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	bin := e.avifenc.lookup()
	if bin == "" {
		return nil, fmt.Errorf("avifenc not found in PATH; install with: brew install libavif")
	}
	// avifenc speed: 0=slowest, 10=fastest. Higher quality buys more effort.
	speed := 6
	if quality > 80 {
		speed = 3
	}
	return runTool(bin, "avif", img, func(src, dst string) []string {
		return []string{
			"--lossless",
			"--speed", fmt.Sprintf("%d", speed),
			"-j", "all",
			src,
			dst,
		}
	})
}
