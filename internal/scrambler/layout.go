package scrambler

import (
	"fmt"
	"image"
)

// blockDivisor scales the block edge with the image: (w+h)/blockDivisor.
const blockDivisor = 50

// Point is a block coordinate, not a pixel coordinate.
type Point struct {
	X, Y int
}

// Layout is the block grid for one image size.
type Layout struct {
	Width, Height int
	BlockSize     int
	BlocksX       int
	BlocksY       int
}

// NewLayout computes the block grid for a w×h image.
func NewLayout(w, h int) (Layout, error) {
	if w <= 0 || h <= 0 {
		return Layout{}, fmt.Errorf("%w: image is %dx%d", ErrInvalidInput, w, h)
	}
	bs := (w + h) / blockDivisor
	if bs == 0 {
		return Layout{}, fmt.Errorf("%w: %dx%d is too small for a block (w+h must be at least %d)",
			ErrInvalidInput, w, h, blockDivisor)
	}
	l := Layout{
		Width:     w,
		Height:    h,
		BlockSize: bs,
		BlocksX:   w / bs,
		BlocksY:   h / bs,
	}
	// Very thin images: the block edge exceeds the short side.
	if l.BlocksX == 0 || l.BlocksY == 0 {
		return Layout{}, fmt.Errorf("%w: %dx%d holds no %dpx block",
			ErrInvalidInput, w, h, bs)
	}
	return l, nil
}

// Count is the number of blocks.
func (l Layout) Count() int { return l.BlocksX * l.BlocksY }

// Covered is the pixel region spanned by blocks, relative to the origin.
// Pixels outside it are never moved.
func (l Layout) Covered() image.Rectangle {
	return image.Rect(0, 0, l.BlocksX*l.BlockSize, l.BlocksY*l.BlockSize)
}

// Positions enumerates block coordinates in row-major order.
func (l Layout) Positions() []Point {
	out := make([]Point, 0, l.Count())
	for y := 0; y < l.BlocksY; y++ {
		for x := 0; x < l.BlocksX; x++ {
			out = append(out, Point{X: x, Y: y})
		}
	}
	return out
}

// Shuffle returns a Fisher–Yates permutation of positions driven by
// XorRandom(seed), swapping top-down from the last index. The input is
// left untouched.
func Shuffle(positions []Point, seed int32) []Point {
	return ShuffleMode(positions, seed, ShiftArithmetic)
}

// ShuffleMode is Shuffle with an explicit generator shift mode.
func ShuffleMode(positions []Point, seed int32, mode ShiftMode) []Point {
	out := make([]Point, len(positions))
	copy(out, positions)
	rng := NewXorRandomMode(seed, mode)
	for i := len(out) - 1; i >= 1; i-- {
		// i+1 is always positive here.
		j, _ := rng.Next(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
