package scrambler

import (
	"errors"
	"image"
	"testing"
)

func TestNewLayout(t *testing.T) {
	tests := []struct {
		w, h       int
		bs, bx, by int
		covered    image.Rectangle
	}{
		{100, 100, 4, 25, 25, image.Rect(0, 0, 100, 100)},
		{50, 1, 1, 50, 1, image.Rect(0, 0, 50, 1)},
		{123, 77, 4, 30, 19, image.Rect(0, 0, 120, 76)},
		{1920, 1080, 60, 32, 18, image.Rect(0, 0, 1920, 1080)},
		{640, 481, 22, 29, 21, image.Rect(0, 0, 638, 462)},
	}
	for _, tt := range tests {
		l, err := NewLayout(tt.w, tt.h)
		if err != nil {
			t.Fatalf("%dx%d: %v", tt.w, tt.h, err)
		}
		if l.BlockSize != tt.bs || l.BlocksX != tt.bx || l.BlocksY != tt.by {
			t.Errorf("%dx%d: got bs=%d %dx%d, want bs=%d %dx%d",
				tt.w, tt.h, l.BlockSize, l.BlocksX, l.BlocksY, tt.bs, tt.bx, tt.by)
		}
		if l.Covered() != tt.covered {
			t.Errorf("%dx%d: covered %v, want %v", tt.w, tt.h, l.Covered(), tt.covered)
		}
	}
}

func TestNewLayout_Invalid(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"10x10 too small", 10, 10},
		{"49 total", 24, 25},
		{"zero width", 0, 100},
		{"negative height", 100, -1},
		{"thinner than a block", 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLayout(tt.w, tt.h); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestPositions_RowMajor(t *testing.T) {
	l := Layout{BlockSize: 1, BlocksX: 3, BlocksY: 2}
	want := []Point{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	got := l.Positions()
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pos[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestShuffle_Golden(t *testing.T) {
	l := Layout{BlockSize: 1, BlocksX: 2, BlocksY: 2}
	got := Shuffle(l.Positions(), 1)
	want := []Point{{1, 1}, {0, 0}, {0, 1}, {1, 0}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("shuffled[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestShuffle_Bijection(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {1, 7}, {7, 1}, {25, 25}, {32, 18}} {
		l := Layout{BlockSize: 1, BlocksX: dims[0], BlocksY: dims[1]}
		pos := l.Positions()
		shuffled := Shuffle(pos, DefaultSeed)
		if len(shuffled) != len(pos) {
			t.Fatalf("%v: length changed", dims)
		}
		seen := make(map[Point]int, len(pos))
		for _, p := range shuffled {
			seen[p]++
		}
		for _, p := range pos {
			if seen[p] != 1 {
				t.Errorf("%v: %v appears %d times", dims, p, seen[p])
			}
		}
	}
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	l := Layout{BlockSize: 1, BlocksX: 5, BlocksY: 5}
	pos := l.Positions()
	_ = Shuffle(pos, DefaultSeed)
	for i, p := range l.Positions() {
		if pos[i] != p {
			t.Fatalf("input modified at %d", i)
		}
	}
}

func TestShuffle_Deterministic(t *testing.T) {
	pos := Layout{BlockSize: 1, BlocksX: 25, BlocksY: 25}.Positions()
	a := Shuffle(pos, 7)
	b := Shuffle(pos, 7)
	c := Shuffle(pos, 8)
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d", i)
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced the same permutation")
	}
}

func TestShuffleMode_Golden3x3(t *testing.T) {
	pos := Layout{BlockSize: 1, BlocksX: 3, BlocksY: 3}.Positions()
	tests := []struct {
		mode ShiftMode
		want []Point
	}{
		{ShiftArithmetic, []Point{{2, 0}, {1, 1}, {0, 1}, {0, 2}, {2, 2}, {1, 2}, {2, 1}, {1, 0}, {0, 0}}},
		{ShiftLogical, []Point{{2, 0}, {1, 1}, {1, 2}, {2, 2}, {0, 1}, {0, 2}, {2, 1}, {1, 0}, {0, 0}}},
	}
	for _, tt := range tests {
		got := ShuffleMode(pos, 1, tt.mode)
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("%v shuffled[%d]: got %v, want %v", tt.mode, i, got[i], tt.want[i])
			}
		}
	}
	plain := Shuffle(pos, 1)
	for i := range plain {
		if plain[i] != tests[0].want[i] {
			t.Fatalf("Shuffle differs from arithmetic ShuffleMode at %d", i)
		}
	}
}
