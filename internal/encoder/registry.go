package encoder

import (
	"fmt"
	"strings"
)

// priority is the display and fallback order of formats.
var priority = []string{"png", "webp", "avif", "tiff", "bmp", "jpeg"}

// Registry holds all available encoders keyed by format.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	return newRegistry(
		&PNGEncoder{},
		NewWebPEncoder(),
		NewAVIFEncoder(),
		&TIFFEncoder{},
		&BMPEncoder{},
		&JPEGEncoder{},
	)
}

func newRegistry(all ...Encoder) *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}
	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
// "jpg" and "tif" are accepted as aliases.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[NormalizeFormat(format)]
}

// Resolve returns the encoder for format, falling back to PNG when the
// format is unavailable (e.g. cwebp not installed).
func (r *Registry) Resolve(format string) (Encoder, error) {
	if enc := r.Get(format); enc != nil {
		return enc, nil
	}
	if enc := r.encoders["png"]; enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("no encoder for %q and no png fallback", format)
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range priority {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}

// NormalizeFormat lower-cases a format name and folds aliases.
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	switch f {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return f
}
