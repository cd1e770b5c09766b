package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/AnyUserName/miximage-cli/internal/encoder"
	"github.com/AnyUserName/miximage-cli/internal/hasher"
	"github.com/AnyUserName/miximage-cli/internal/manifest"
	"github.com/AnyUserName/miximage-cli/internal/scrambler"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	image manifest.Image
	err   error
}

// Transform is Scramble or Unscramble.
type Transform func(context.Context, *image.NRGBA, scrambler.Options) (*image.NRGBA, error)

// Load decodes the image file at path, see Decode.
func Load(path string) (*image.NRGBA, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads any registered image format into an NRGBA grid with a
// zero origin.
func Decode(r io.Reader) (*image.NRGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n, format, nil
	}
	return imaging.Clone(img), format, nil
}

// processImage handles a single source image: decode, transform, encode, write.
func processImage(ctx context.Context, src Source, cfg Config, enc encoder.Encoder, logger *log.Logger) processResult {
	result := processResult{key: src.Key}

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("read %s: %w", src.RelPath, err)
		return result
	}

	img, _, err := Decode(bytes.NewReader(data))
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	b := img.Bounds()
	layout, err := scrambler.NewLayout(b.Dx(), b.Dy())
	if err != nil {
		result.err = fmt.Errorf("%s: %w", src.RelPath, err)
		return result
	}

	result.image = manifest.Image{
		Source: manifest.Source{
			Path:      src.RelPath,
			Width:     b.Dx(),
			Height:    b.Dy(),
			Format:    src.Format,
			Size:      src.Size,
			Hash:      hasher.ContentHash(data, 16),
			PixelHash: hasher.PixelHash(img, 16),
		},
		Layout: manifest.Layout{
			BlockSize: layout.BlockSize,
			BlocksX:   layout.BlocksX,
			BlocksY:   layout.BlocksY,
			Blocks:    layout.Count(),
		},
	}

	opts := cfg.Options
	opts.Progress = newQuartileProgress(logger, src.Key)

	out, err := cfg.Mode.transform()(ctx, img, opts)
	if err != nil {
		result.err = fmt.Errorf("%s %s: %w", cfg.Mode, src.RelPath, err)
		return result
	}

	encoded, err := enc.Encode(out, cfg.Profile.Quality)
	if err != nil {
		result.err = fmt.Errorf("encode %s as %s: %w", src.RelPath, enc.Format(), err)
		return result
	}

	// Build filename: key<suffix>.ext
	relPath := filepath.ToSlash(fmt.Sprintf("%s%s.%s", src.Key, cfg.Suffix, enc.Extension()))
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		result.err = fmt.Errorf("create dir for %s: %w", relPath, err)
		return result
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	result.image.Output = manifest.Output{
		Format:    enc.Format(),
		Path:      relPath,
		Size:      int64(len(encoded)),
		Hash:      hasher.ContentHash(encoded, 16),
		PixelHash: hasher.PixelHash(out, 16),
		Lossless:  enc.Lossless(),
	}
	return result
}

// quartileProgress logs at debug level each time another quarter of
// the blocks is done.
type quartileProgress struct {
	logger *log.Logger
	key    string
	next   int
}

func newQuartileProgress(logger *log.Logger, key string) *quartileProgress {
	return &quartileProgress{logger: logger, key: key, next: 1}
}

func (p *quartileProgress) Update(current, total int) {
	if p.next > 4 || current*4 < total*p.next {
		return
	}
	p.logger.Debug("progress", "image", p.key, "blocks", fmt.Sprintf("%d/%d", current, total))
	for p.next <= 4 && current*4 >= total*p.next {
		p.next++
	}
}
