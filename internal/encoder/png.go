package encoder

import (
	"bytes"
	"image"
	"image/png"
)

// PNGEncoder encodes images to PNG using Go's standard library.
// Quality maps to zlib effort: 1-33 fastest, 34-66 default, 67+ best.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }
func (e *PNGEncoder) Available() bool   { return true }
func (e *PNGEncoder) Lossless() bool    { return true }

func (e *PNGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(512 * 1024)

	enc := &png.Encoder{CompressionLevel: pngLevel(quality)}
	err := enc.Encode(&buf, img)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pngLevel(quality int) png.CompressionLevel {
	switch {
	case quality <= 0:
		return png.DefaultCompression
	case quality <= 33:
		return png.BestSpeed
	case quality <= 66:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
