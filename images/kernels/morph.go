// Package kernels implements the 3x3 binary morphology used to clean foreground masks.
//
// Masks follow the 0/255 convention: a set pixel is 0xFF, so the bitwise AND/OR of a
// neighbourhood is again 0 or 255. Pixels within Border of an edge are never written,
// which keeps every neighbour read inside the buffer.
package kernels

import "github.com/nvr-ai/go-ebv/images"

// Op selects the neighbourhood reduction.
type Op int

const (
	// OpErode keeps a pixel only if its whole 3x3 neighbourhood is set (bitwise AND).
	OpErode Op = iota
	// OpDilate sets a pixel if any pixel of its 3x3 neighbourhood is set (bitwise OR).
	OpDilate
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpErode:
		return "erode"
	case OpDilate:
		return "dilate"
	default:
		return "unknown"
	}
}

// Erode3x3 writes the 3x3 erosion of src into dst for every pixel at least border
// pixels away from each edge. dst's border band is left untouched.
//
// Arguments:
//   - src: Single-channel 0/255 mask.
//   - dst: Distinct single-channel buffer of the same shape.
//   - border: Excluded band width; values below 1 are raised to 1.
//
// @example
// kernels.Erode3x3(mask, scratch, 2)
// kernels.Dilate3x3(scratch, mask, 2)
func Erode3x3(src, dst images.FrameBuffer, border int) {
	apply3x3(OpErode, src.Pix, dst.Pix, src.Width, src.Height, border)
}

// Dilate3x3 writes the 3x3 dilation of src into dst for every non-border pixel.
// See Erode3x3 for the buffer contract.
func Dilate3x3(src, dst images.FrameBuffer, border int) {
	apply3x3(OpDilate, src.Pix, dst.Pix, src.Width, src.Height, border)
}

// Open3x3 erodes mask into scratch and dilates the result back into mask. The border
// bands of both buffers are zeroed, so mask holds only opened pixels afterwards.
func Open3x3(mask, scratch images.FrameBuffer, border int) {
	ClearBorder(scratch, border)
	Erode3x3(mask, scratch, border)
	ClearBorder(mask, border)
	Dilate3x3(scratch, mask, border)
}

// ClearBorder zeroes the band of f that the 3x3 operators never write.
func ClearBorder(f images.FrameBuffer, border int) {
	if border < 1 {
		border = 1
	}
	w, h := f.Width, f.Height
	border = min(border, w, h)
	for r := 0; r < h; r++ {
		row := f.Pix[r*w : (r+1)*w]
		if r < border || r >= h-border {
			clear(row)
			continue
		}
		clear(row[:border])
		clear(row[w-border:])
	}
}

func apply3x3(op Op, src, dst []byte, width, height, border int) {
	if border < 1 {
		border = 1
	}
	for r := border; r < height-border; r++ {
		above := src[(r-1)*width : r*width]
		cur := src[r*width : (r+1)*width]
		below := src[(r+1)*width : (r+2)*width]
		out := dst[r*width : (r+1)*width]

		switch op {
		case OpErode:
			for c := border; c < width-border; c++ {
				out[c] = above[c-1] & above[c] & above[c+1] &
					cur[c-1] & cur[c] & cur[c+1] &
					below[c-1] & below[c] & below[c+1]
			}
		case OpDilate:
			for c := border; c < width-border; c++ {
				out[c] = above[c-1] | above[c] | above[c+1] |
					cur[c-1] | cur[c] | cur[c+1] |
					below[c-1] | below[c] | below[c+1]
			}
		}
	}
}
