// Package threshold - Adaptive threshold selection (Otsu's method) and binarization of
// intensity planes.
package threshold

import "github.com/nvr-ai/go-ebv/images"

// Histogram counts how often each 8-bit intensity occurs in a frame.
type Histogram [256]uint32

// Build resets h and accumulates every byte of a single-channel buffer.
func (h *Histogram) Build(src images.FrameBuffer) {
	*h = Histogram{}
	for _, v := range src.Pix {
		h[v]++
	}
}

// Total returns the number of pixels counted.
func (h *Histogram) Total() uint64 {
	var n uint64
	for _, c := range h {
		n += uint64(c)
	}
	return n
}

// Otsu returns the threshold K that best separates the intensities of src into the two
// classes [0,K] and [K+1,255], maximizing the between-class variance w0·w1·(mu0−mu1)².
//
// Arguments:
//   - src: Single-channel intensity buffer.
//
// Returns:
//   - uint8: The selected K. Ties resolve to the lowest K. 0 when no split separates
//     two non-empty classes (uniform or empty frame).
//
// @example
// t := threshold.Otsu(intensity)
// threshold.Binarize(intensity, binary, int(t), 2)
func Otsu(src images.FrameBuffer) uint8 {
	var h Histogram
	h.Build(src)
	return OtsuHistogram(&h)
}

// OtsuHistogram runs the split search of Otsu on a prepared histogram.
//
// A split whose lower or upper class is empty has an undefined mean. It is not a
// candidate and never replaces the current best.
func OtsuHistogram(h *Histogram) uint8 {
	var total, totalSum uint64
	for i, c := range h {
		total += uint64(c)
		totalSum += uint64(i) * uint64(c)
	}

	var (
		best  float64
		bestK int
		w0    uint64
		sum0  uint64
	)
	for k := 0; k < 255; k++ {
		w0 += uint64(h[k])
		sum0 += uint64(k) * uint64(h[k])
		w1 := total - w0
		if w0 == 0 || w1 == 0 {
			continue
		}

		mu0 := float64(sum0) / float64(w0)
		mu1 := float64(totalSum-sum0) / float64(w1)
		d := mu0 - mu1
		score := float64(w0) * float64(w1) * d * d
		if score > best {
			best = score
			bestK = k
		}
	}
	return uint8(bestK)
}
