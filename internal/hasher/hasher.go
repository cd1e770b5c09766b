// Package hasher computes xxHash64 digests for files and decoded images.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"image"
	"io"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the xxHash64 of data as hex, truncated to hexLen
// characters when 0 < hexLen < 16.
func ContentHash(data []byte, hexLen int) string {
	return truncate(xxhash.Sum64(data), hexLen)
}

// ContentHashReader streams r through xxHash64.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(h.Sum64(), hexLen), nil
}

// PixelHash digests the pixels of img row by row, so sub-images and
// their copies hash identically. The bounds are mixed in first.
func PixelHash(img *image.NRGBA, hexLen int) string {
	b := img.Bounds()
	h := xxhash.New()
	var dims [16]byte
	binary.BigEndian.PutUint64(dims[0:], uint64(b.Dx()))
	binary.BigEndian.PutUint64(dims[8:], uint64(b.Dy()))
	h.Write(dims[:])

	rowLen := b.Dx() * 4
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		h.Write(img.Pix[i : i+rowLen])
	}
	return truncate(h.Sum64(), hexLen)
}

func truncate(sum uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
