// Package change - Foreground detection by nearest colour prototype.
//
// Every pixel of the sensor frame is compared against a small fixed set of foreground
// colours. Pixels close enough to one of them become foreground and are painted with
// that prototype in a visualisation buffer. The comparison runs in one of two
// colourspaces, chosen once when the Detector is built.
package change

import (
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// ErrUnknownColorSpace is returned for a colourspace name that is not supported.
var ErrUnknownColorSpace = errors.New("unknown colorspace")

// ColorSpace selects how pixels are compared against the prototypes.
type ColorSpace int

const (
	// RGB compares raw sensor channels 1 and 2 (green and red in BGR order).
	RGB ColorSpace = iota
	// YCbCr converts each pixel to luma/chroma and compares the two chroma channels.
	YCbCr
)

// String returns the configuration name of the colourspace.
func (c ColorSpace) String() string {
	switch c {
	case RGB:
		return "rgb"
	case YCbCr:
		return "ycbcr"
	default:
		return "unknown"
	}
}

// ParseColorSpace resolves a configuration name ("rgb", "ycbcr").
func ParseColorSpace(s string) (ColorSpace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb", "bgr":
		return RGB, nil
	case "ycbcr", "yuv":
		return YCbCr, nil
	}
	return 0, errors.Wrapf(ErrUnknownColorSpace, "%q", s)
}

// Channels is the sensor channel count the colour model is defined for.
const Channels = 3

// Prototype is a reference colour in the detector's colourspace, one value per channel
// (B,G,R for RGB; Y,Cb,Cr for YCbCr).
type Prototype [Channels]uint8

// ColorModel is the immutable set of foreground prototypes.
type ColorModel struct {
	Space      ColorSpace
	Prototypes []Prototype
}

// DefaultColorModel returns the two foreground colours the device is calibrated for.
func DefaultColorModel(space ColorSpace) ColorModel {
	if space == YCbCr {
		return ColorModel{Space: YCbCr, Prototypes: []Prototype{
			{0, 128 - 10, 128 + 40},
			{0, 128 + 20, 128 - 10},
		}}
	}
	return ColorModel{Space: RGB, Prototypes: []Prototype{
		{11, 11, 87},
		{48, 29, 14},
	}}
}

// Validate checks that the model can classify anything.
func (m ColorModel) Validate() error {
	if m.Space != RGB && m.Space != YCbCr {
		return errors.Wrapf(ErrUnknownColorSpace, "%d", int(m.Space))
	}
	if len(m.Prototypes) == 0 {
		return errors.New("color model has no prototypes")
	}
	return nil
}

// ToYCbCr converts one BGR pixel to luma and chroma with the fixed BT.601 coefficients.
// Each channel is clamped to [0,255] and truncated.
//
// @example
// y, cb, cr := change.ToYCbCr(255, 255, 255) // 255, 128, 128
func ToYCbCr(b, g, r uint8) (y, cb, cr uint8) {
	bf, gf, rf := float32(b), float32(g), float32(r)
	y = clamp8(0.299*rf + 0.587*gf + 0.114*bf)
	cb = clamp8(128 - 0.169*rf - 0.331*gf + 0.500*bf)
	cr = clamp8(128 + 0.500*rf - 0.419*gf - 0.081*bf)
	return y, cb, cr
}

func clamp8(v float32) uint8 {
	return uint8(math32.Max(0, math32.Min(255, v)))
}
