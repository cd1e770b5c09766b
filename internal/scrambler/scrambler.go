// Package scrambler implements the reversible block-permutation image
// obfuscation used by miximage.
//
// An image is cut into square blocks whose edge is (w+h)/50 pixels. The
// blocks are moved according to a seeded Fisher–Yates permutation and the
// whole result is color-inverted. Unscramble applies the same steps in
// reverse order. The transform is obfuscation only: the algorithm and the
// default seed are public, so anyone can undo it.
//
// Transforms hold no shared state; concurrent calls on different images
// are safe.
package scrambler

import (
	"context"
	"fmt"
	"image"
)

// DefaultSeed is the permutation seed used by the MixImage app.
const DefaultSeed int32 = 1

// RemainderPolicy selects how the output buffer is initialised, which
// decides the fate of the strip right of and below the last full block.
type RemainderPolicy int

const (
	// RemainderCopy starts the output as a copy of the input. The strip is
	// only color-inverted and the round trip is exact everywhere.
	RemainderCopy RemainderPolicy = iota
	// RemainderBlank starts the output transparent black, like drawing
	// onto a fresh canvas. The strip is lost.
	RemainderBlank
)

func (p RemainderPolicy) String() string {
	switch p {
	case RemainderCopy:
		return "copy"
	case RemainderBlank:
		return "blank"
	default:
		return fmt.Sprintf("RemainderPolicy(%d)", int(p))
	}
}

// ParseRemainderPolicy maps "copy" or "blank" to a policy.
func ParseRemainderPolicy(s string) (RemainderPolicy, error) {
	switch s {
	case "copy", "":
		return RemainderCopy, nil
	case "blank":
		return RemainderBlank, nil
	}
	return 0, fmt.Errorf("%w: unknown remainder policy %q", ErrInvalidArgument, s)
}

// Progress receives (processed blocks, total blocks) after every block.
// Implementations do their own throttling.
type Progress interface {
	Update(current, total int)
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(current, total int)

// Update calls f(current, total).
func (f ProgressFunc) Update(current, total int) { f(current, total) }

// Options tune a transform. The zero value uses seed 0; use
// DefaultOptions for the MixImage-compatible settings. Seed and Shift
// must match between Scramble and Unscramble.
type Options struct {
	Seed      int32
	Shift     ShiftMode
	Remainder RemainderPolicy
	Progress  Progress
}

// DefaultOptions returns options compatible with the MixImage app.
func DefaultOptions() Options {
	return Options{Seed: DefaultSeed, Shift: ShiftArithmetic, Remainder: RemainderCopy}
}

// Scramble moves every block of src to its permuted position and inverts
// the colors of the result. src is not modified.
func Scramble(ctx context.Context, src *image.NRGBA, opts Options) (*image.NRGBA, error) {
	layout, err := layoutFor(src)
	if err != nil {
		return nil, err
	}
	dst := newCanvas(src, opts.Remainder)
	if err := permute(ctx, src, dst, layout, opts, true); err != nil {
		return nil, err
	}
	return Invert(dst), nil
}

// Unscramble reverts Scramble: it inverts the colors of src and moves
// every block back to its canonical position. src is not modified.
func Unscramble(ctx context.Context, src *image.NRGBA, opts Options) (*image.NRGBA, error) {
	layout, err := layoutFor(src)
	if err != nil {
		return nil, err
	}
	work := Invert(src)
	dst := newCanvas(work, opts.Remainder)
	if err := permute(ctx, work, dst, layout, opts, false); err != nil {
		return nil, err
	}
	return dst, nil
}

func layoutFor(img *image.NRGBA) (Layout, error) {
	if img == nil {
		return Layout{}, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	b := img.Bounds()
	return NewLayout(b.Dx(), b.Dy())
}

func newCanvas(base *image.NRGBA, policy RemainderPolicy) *image.NRGBA {
	dst := image.NewNRGBA(base.Bounds())
	if policy == RemainderCopy {
		b := base.Bounds()
		rowLen := b.Dx() * 4
		for y := b.Min.Y; y < b.Max.Y; y++ {
			si := base.PixOffset(b.Min.X, y)
			di := dst.PixOffset(b.Min.X, y)
			copy(dst.Pix[di:di+rowLen], base.Pix[si:si+rowLen])
		}
	}
	return dst
}

// permute copies blocks between canonical and shuffled positions. With
// forward set the canonical block i lands on shuffled slot i; otherwise
// the mapping is reversed.
func permute(ctx context.Context, src, dst *image.NRGBA, l Layout, opts Options, forward bool) error {
	positions := l.Positions()
	shuffled := ShuffleMode(positions, opts.Seed, opts.Shift)
	total := len(positions)

	for i := range positions {
		// Cancellation is only honoured between blocks.
		if err := ctx.Err(); err != nil {
			return err
		}
		from, to := positions[i], shuffled[i]
		if !forward {
			from, to = to, from
		}
		copyBlock(src, dst, from, to, l.BlockSize)
		if opts.Progress != nil {
			opts.Progress.Update(i+1, total)
		}
	}
	return nil
}

func copyBlock(src, dst *image.NRGBA, from, to Point, size int) {
	sb, db := src.Bounds().Min, dst.Bounds().Min
	sx, sy := sb.X+from.X*size, sb.Y+from.Y*size
	dx, dy := db.X+to.X*size, db.Y+to.Y*size
	rowLen := size * 4
	for row := 0; row < size; row++ {
		si := src.PixOffset(sx, sy+row)
		di := dst.PixOffset(dx, dy+row)
		copy(dst.Pix[di:di+rowLen], src.Pix[si:si+rowLen])
	}
}
