package scrambler

import "errors"

var (
	// ErrInvalidInput reports an image the transform cannot partition:
	// nil, zero-area, or too small for a non-zero block size.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidArgument reports a non-positive bound passed to XorRandom.Next.
	ErrInvalidArgument = errors.New("invalid argument")
)
