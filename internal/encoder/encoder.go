package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "png", "webp", "jpeg").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless encoders treat quality as compression effort.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp, avifenc) may not be installed.
	Available() bool

	// Lossless reports whether decoding the output yields the exact
	// input pixels. Only lossless output can be unscrambled exactly.
	Lossless() bool

	// Extension returns the file extension without dot.
	Extension() string
}
