package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type fakeEncoder struct {
	format    string
	available bool
}

func (f *fakeEncoder) Format() string    { return f.format }
func (f *fakeEncoder) Extension() string { return f.format }
func (f *fakeEncoder) Available() bool   { return f.available }
func (f *fakeEncoder) Lossless() bool    { return true }

func (f *fakeEncoder) Encode(image.Image, int) ([]byte, error) {
	return nil, nil
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 20), B: 200, A: 255})
		}
	}
	return img
}

// translucentImage varies alpha by row, including fully transparent
// pixels with non-zero color.
func translucentImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), G: 255, B: uint8(y), A: uint8(y * 30)})
		}
	}
	return img
}

func samePixels(t *testing.T, name string, want *image.NRGBA, got image.Image) {
	t.Helper()
	b := want.Bounds()
	if got.Bounds() != b {
		t.Fatalf("%s: bounds %v, want %v", name, got.Bounds(), b)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(got.At(x, y)).(color.NRGBA)
			if c != want.NRGBAAt(x, y) {
				t.Fatalf("%s: pixel (%d,%d) = %+v, want %+v", name, x, y, c, want.NRGBAAt(x, y))
			}
		}
	}
}

func roundTrip(t *testing.T, enc Encoder, decode func([]byte) (image.Image, error), img *image.NRGBA) image.Image {
	t.Helper()
	data, err := enc.Encode(img, 90)
	if err != nil {
		t.Fatalf("%s encode: %v", enc.Format(), err)
	}
	out, err := decode(data)
	if err != nil {
		t.Fatalf("%s decode: %v", enc.Format(), err)
	}
	return out
}

func TestLosslessEncoders_RoundTrip(t *testing.T) {
	tests := []struct {
		enc    Encoder
		decode func([]byte) (image.Image, error)
	}{
		{&PNGEncoder{}, func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) }},
		{&TIFFEncoder{}, func(b []byte) (image.Image, error) { return tiff.Decode(bytes.NewReader(b)) }},
	}
	for _, tt := range tests {
		if !tt.enc.Lossless() {
			t.Errorf("%s: expected lossless", tt.enc.Format())
		}
		samePixels(t, tt.enc.Format()+" opaque", testImage(), roundTrip(t, tt.enc, tt.decode, testImage()))
		img := translucentImage()
		samePixels(t, tt.enc.Format()+" translucent", img, roundTrip(t, tt.enc, tt.decode, img))
	}
}

func TestBMPEncoder_OpaqueOnly(t *testing.T) {
	enc := &BMPEncoder{}
	if enc.Lossless() {
		t.Error("bmp reported lossless")
	}
	decode := func(b []byte) (image.Image, error) { return bmp.Decode(bytes.NewReader(b)) }
	samePixels(t, "bmp opaque", testImage(), roundTrip(t, enc, decode, testImage()))

	img := translucentImage()
	out := roundTrip(t, enc, decode, img)
	differ := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.NRGBAModel.Convert(out.At(x, y)).(color.NRGBA) != img.NRGBAAt(x, y) {
				differ++
			}
		}
	}
	if differ == 0 {
		t.Error("translucent pixels survived bmp; update Lossless()")
	}
}

func TestJPEGEncoder_Lossy(t *testing.T) {
	enc := &JPEGEncoder{}
	if enc.Lossless() {
		t.Error("jpeg reported lossless")
	}
	data, err := enc.Encode(testImage(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("missing JPEG SOI marker")
	}
}

func TestPNGLevel(t *testing.T) {
	tests := map[int]png.CompressionLevel{
		0:   png.DefaultCompression,
		10:  png.BestSpeed,
		50:  png.DefaultCompression,
		100: png.BestCompression,
	}
	for q, want := range tests {
		if got := pngLevel(q); got != want {
			t.Errorf("pngLevel(%d) = %v, want %v", q, got, want)
		}
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := newRegistry(
		&fakeEncoder{format: "png", available: true},
		&fakeEncoder{format: "webp", available: false},
		&fakeEncoder{format: "jpeg", available: true},
	)
	if got := r.Available(); len(got) != 2 || got[0] != "png" || got[1] != "jpeg" {
		t.Errorf("available: %v", got)
	}
	enc, err := r.Resolve("webp")
	if err != nil || enc.Format() != "png" {
		t.Errorf("webp fallback: %v, %v", enc, err)
	}
	enc, err = r.Resolve("JPG")
	if err != nil || enc.Format() != "jpeg" {
		t.Errorf("jpg alias: %v, %v", enc, err)
	}

	empty := newRegistry()
	if _, err := empty.Resolve("png"); err == nil {
		t.Error("empty registry resolved png")
	}
	if empty.String() != "no encoders available" {
		t.Errorf("String: %q", empty.String())
	}
}

func TestNormalizeFormat(t *testing.T) {
	for in, want := range map[string]string{".JPG": "jpeg", "tif": "tiff", "PNG": "png", "webp": "webp"} {
		if got := NormalizeFormat(in); got != want {
			t.Errorf("NormalizeFormat(%q) = %q, want %q", in, got, want)
		}
	}
}
