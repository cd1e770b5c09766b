package encoder

import (
	"bytes"
	"image"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// BMPEncoder writes uncompressed BMP via golang.org/x/image. The format
// keeps opaque pixels exactly but does not round-trip alpha, so it is not
// reported as lossless.
type BMPEncoder struct{}

func (e *BMPEncoder) Format() string    { return "bmp" }
func (e *BMPEncoder) Extension() string { return "bmp" }
func (e *BMPEncoder) Available() bool   { return true }
func (e *BMPEncoder) Lossless() bool    { return false }

func (e *BMPEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TIFFEncoder writes deflate-compressed TIFF via golang.org/x/image.
type TIFFEncoder struct{}

func (e *TIFFEncoder) Format() string    { return "tiff" }
func (e *TIFFEncoder) Extension() string { return "tiff" }
func (e *TIFFEncoder) Available() bool   { return true }
func (e *TIFFEncoder) Lossless() bool    { return true }

func (e *TIFFEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	opts := &tiff.Options{Compression: tiff.Deflate}
	if err := tiff.Encode(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
