package scrambler

import "image"

// Invert returns a copy of img with every color channel replaced by
// 255-c. Alpha is preserved, so applying it twice yields the input.
func Invert(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	b := img.Bounds()
	rowLen := b.Dx() * 4
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := img.PixOffset(b.Min.X, y)
		di := out.PixOffset(b.Min.X, y)
		src := img.Pix[si : si+rowLen : si+rowLen]
		dst := out.Pix[di : di+rowLen : di+rowLen]
		for i := 0; i < rowLen; i += 4 {
			dst[i+0] = 255 - src[i+0]
			dst[i+1] = 255 - src[i+1]
			dst[i+2] = 255 - src[i+2]
			dst[i+3] = src[i+3]
		}
	}
	return out
}
