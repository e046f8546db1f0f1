package app

import "math"

// zoomFactors is the fixed ladder of font scales: Pango's named sizes
// (xx-small through xx-large, successive powers of 1.2 around 1.0)
// extended three steps in each direction, with an absolute floor and
// ceiling one step beyond those.
var zoomFactors = func() [15]float64 {
	var f [15]float64
	for i := range f {
		f[i] = math.Pow(1.2, float64(i-7))
	}
	return f
}()

// zoomEpsilon keeps float noise from treating the current scale as its
// own neighbor when stepping through the ladder.
const zoomEpsilon = 1e-6

// nextZoomFactor returns the first ladder entry above scale; ok is
// false at the top of the ladder.
func nextZoomFactor(scale float64) (float64, bool) {
	for _, f := range zoomFactors {
		if f-scale > zoomEpsilon {
			return f, true
		}
	}
	return scale, false
}

// prevZoomFactor returns the first ladder entry below scale; ok is
// false at the bottom.
func prevZoomFactor(scale float64) (float64, bool) {
	for i := len(zoomFactors) - 1; i >= 0; i-- {
		if scale-zoomFactors[i] > zoomEpsilon {
			return zoomFactors[i], true
		}
	}
	return scale, false
}

// scaledFontSize applies the zoom factor to the configured point size,
// never dropping below one point.
func scaledFontSize(base int, scale float64) int {
	size := int(math.Round(float64(base) * scale))
	if size < 1 {
		size = 1
	}
	return size
}
