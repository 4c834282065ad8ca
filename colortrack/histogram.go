package colortrack

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Per-pixel thresholds splitting chromatic from achromatic pixels:
// hue above 10% and saturation above 20% of the 8-bit range. Pixels
// failing the test carry too little color signal to be trusted
// chromatically and are counted by intensity only.
const (
	chromaHueThreshold uint8 = 25 // int(0.1 * 255)
	chromaSatThreshold uint8 = 51 // int(0.2 * 255)
)

// HistogramParams describes the layout of the two-part color histogram:
// a 2-D chromatic histogram over two image channels concatenated with a
// 1-D achromatic histogram over a third. Parameters are fixed at
// classifier construction.
type HistogramParams struct {
	// Channels holds the image channel indices feeding the two chromatic
	// dimensions and the achromatic dimension, in that order.
	Channels []int
	// Mask optionally restricts which pixels are counted. It is stored
	// for inspection but not consulted when the initial model is built;
	// see ComputeObjectHistogram.
	Mask *Mask
	// NumBins holds the bin counts (chromatic-1, chromatic-2, achromatic).
	NumBins []int
	// Intervals holds min/max value bounds per dimension: four chromatic
	// followed by two achromatic.
	Intervals []float64
}

// DefaultHistogramParams returns the usual HSV layout: 8x8 hue-saturation
// bins plus 8 value bins over the full channel ranges.
func DefaultHistogramParams() HistogramParams {
	return HistogramParams{
		Channels:  []int{0, 1, 2},
		NumBins:   []int{8, 8, 8},
		Intervals: []float64{0, HueRange, 0, SatRange, 0, ValRange},
	}
}

// Len returns the length of histograms produced under these parameters:
// the flattened chromatic part followed by the achromatic part.
func (params HistogramParams) Len() int {
	return params.NumBins[0]*params.NumBins[1] + params.NumBins[2]
}

// Validate checks parameter shapes. A mismatch here would silently corrupt
// every frame's weights, so classifier construction fails fast on it.
func (params HistogramParams) Validate() error {
	if len(params.Channels) != 3 {
		return errors.Errorf("expected 3 channel indices, got %d", len(params.Channels))
	}
	for _, channel := range params.Channels {
		if channel < 0 || channel > 2 {
			return errors.Errorf("channel index %d out of range [0, 2]", channel)
		}
	}
	if len(params.NumBins) != 3 {
		return errors.Errorf("expected 3 bin counts, got %d", len(params.NumBins))
	}
	for _, bins := range params.NumBins {
		if bins < 1 {
			return errors.Errorf("bin count must be positive, got %d", bins)
		}
	}
	if len(params.Intervals) != 6 {
		return errors.Errorf("expected 6 interval bounds, got %d", len(params.Intervals))
	}
	for i := 0; i < len(params.Intervals); i += 2 {
		if params.Intervals[i] >= params.Intervals[i+1] {
			return errors.Errorf("interval [%f, %f) is empty", params.Intervals[i], params.Intervals[i+1])
		}
	}
	return nil
}

// ComputeObjectHistogram computes the color histogram of a bounding box.
// The color model corresponds to the method proposed in:
// Patrick Perez, Carine Hue, Jaco Vermaak and Michel Gangnet.
// Color-based probabilistic tracking. In European Conference on Computer
// Vision, pages 661-675. Springer.
//
// Pixels passing the chroma test feed the 2-D chromatic histogram; the
// rest feed the 1-D achromatic histogram. A non-nil mask replaces the
// derived achromatic mask (the chromatic split is always derived from
// the image itself). The result sums to 1, or stays all zero when the
// region contributes no counted pixels.
func ComputeObjectHistogram(img *HSV, region Rectangle, params HistogramParams, mask *Mask) []float64 {
	hist := make([]float64, params.Len())

	// Crop bounds truncate toward zero and clamp to the frame
	left := clampInt(int(region.Left()), img.Rect.Min.X, img.Rect.Max.X)
	right := clampInt(int(region.Right()), img.Rect.Min.X, img.Rect.Max.X)
	top := clampInt(int(region.Top()), img.Rect.Min.Y, img.Rect.Max.Y)
	bottom := clampInt(int(region.Bottom()), img.Rect.Min.Y, img.Rect.Max.Y)
	if right <= left || bottom <= top {
		return hist
	}

	b1, b2 := params.NumBins[1], params.NumBins[2]
	achromaticOffset := params.NumBins[0] * b1
	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			off := img.PixOffset(x, y)
			if img.Pix[off] > chromaHueThreshold && img.Pix[off+1] > chromaSatThreshold {
				i0, ok0 := binIndex(float64(img.Pix[off+params.Channels[0]]), params.Intervals[0], params.Intervals[1], params.NumBins[0])
				i1, ok1 := binIndex(float64(img.Pix[off+params.Channels[1]]), params.Intervals[2], params.Intervals[3], b1)
				if ok0 && ok1 {
					hist[i0*b1+i1]++
				}
				continue
			}
			if mask != nil && !mask.Selected(x, y) {
				continue
			}
			if i2, ok := binIndex(float64(img.Pix[off+params.Channels[2]]), params.Intervals[4], params.Intervals[5], b2); ok {
				hist[achromaticOffset+i2]++
			}
		}
	}

	if sum := floats.Sum(hist); sum > 0 {
		floats.Scale(1.0/sum, hist)
	}
	return hist
}

// binIndex maps a channel value onto a uniform bin over the half-open
// interval [low, high); values outside the interval are not counted.
func binIndex(v, low, high float64, bins int) (int, bool) {
	if v < low || v >= high {
		return 0, false
	}
	idx := int((v - low) * float64(bins) / (high - low))
	if idx >= bins {
		idx = bins - 1
	}
	return idx, true
}
