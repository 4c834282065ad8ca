package colortrack

import (
	"image"
	"math"
)

// Channel value ranges. Hue is halved into 0-179 so it fits a byte
// (the usual 8-bit HSV convention); saturation and value use 0-255.
const (
	HueRange = 180.0
	SatRange = 256.0
	ValRange = 256.0
)

// HSV is a packed image format with one byte per channel, the channels
// ordered by (H, S, V). It mirrors the layout of image.RGBA without
// the alpha byte.
type HSV struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewHSV returns a new HSV frame with the given bounds.
func NewHSV(r image.Rectangle) *HSV {
	w, h := r.Dx(), r.Dy()
	return &HSV{
		Pix:    make([]uint8, 3*w*h),
		Stride: 3 * w,
		Rect:   r,
	}
}

// NewHSVFromImage converts any standard library image into an HSV frame.
func NewHSVFromImage(src image.Image) *HSV {
	bounds := src.Bounds()
	dst := NewHSV(bounds)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			h, s, v := rgbToHSV(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			dst.Pix[i+0] = h
			dst.Pix[i+1] = s
			dst.Pix[i+2] = v
			i += 3
		}
	}
	return dst
}

// Bounds returns the bounding rectangle.
func (img *HSV) Bounds() image.Rectangle { return img.Rect }

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y).
func (img *HSV) PixOffset(x, y int) int {
	return (y-img.Rect.Min.Y)*img.Stride + (x-img.Rect.Min.X)*3
}

// HSVAt returns the three channel values at (x, y). Reading a large number
// of pixels is better done against the Pix array directly.
func (img *HSV) HSVAt(x, y int) (uint8, uint8, uint8) {
	if !(image.Point{x, y}.In(img.Rect)) {
		return 0, 0, 0
	}
	i := img.PixOffset(x, y)
	return img.Pix[i+0], img.Pix[i+1], img.Pix[i+2]
}

// SetHSV assigns the three channel values at (x, y).
func (img *HSV) SetHSV(x, y int, h, s, v uint8) {
	if !(image.Point{x, y}.In(img.Rect)) {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i+0] = h
	img.Pix[i+1] = s
	img.Pix[i+2] = v
}

// rgbToHSV maps 8-bit RGB onto (hue 0-179, saturation 0-255, value 0-255).
func rgbToHSV(r, g, b uint8) (uint8, uint8, uint8) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	max := maxFloat64(rf, maxFloat64(gf, bf))
	min := minFloat64(rf, minFloat64(gf, bf))
	delta := max - min
	if max == 0 || delta == 0 {
		return 0, 0, uint8(max)
	}
	var hue float64
	switch max {
	case rf:
		hue = 60.0 * (gf - bf) / delta
	case gf:
		hue = 120.0 + 60.0*(bf-rf)/delta
	default:
		hue = 240.0 + 60.0*(rf-gf)/delta
	}
	if hue < 0 {
		hue += 360.0
	}
	halved := math.Round(hue / 2.0)
	if halved >= HueRange {
		// hue wraps
		halved = 0
	}
	return uint8(halved), uint8(math.Round(delta / max * 255.0)), uint8(max)
}

// Mask is a single-channel binary image aligned to a frame; a pixel is
// selected when its value is nonzero.
type Mask struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewMask returns a new all-zero Mask with the given bounds.
func NewMask(r image.Rectangle) *Mask {
	w, h := r.Dx(), r.Dy()
	return &Mask{
		Pix:    make([]uint8, w*h),
		Stride: w,
		Rect:   r,
	}
}

// PixOffset returns the index of the element of Pix that corresponds to
// the pixel at (x, y).
func (m *Mask) PixOffset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x - m.Rect.Min.X)
}

// Selected reports whether (x, y) lies inside the mask and is nonzero.
func (m *Mask) Selected(x, y int) bool {
	if !(image.Point{x, y}.In(m.Rect)) {
		return false
	}
	return m.Pix[m.PixOffset(x, y)] != 0
}

// SetSelected marks or unmarks the pixel at (x, y).
func (m *Mask) SetSelected(x, y int, selected bool) {
	if !(image.Point{x, y}.In(m.Rect)) {
		return
	}
	if selected {
		m.Pix[m.PixOffset(x, y)] = 0xFF
	} else {
		m.Pix[m.PixOffset(x, y)] = 0
	}
}
