// Package images - Frame buffer definitions shared by every pipeline stage.
package images

import (
	"github.com/pkg/errors"
)

// ErrShapeMismatch is returned when a buffer does not match the configured frame shape.
var ErrShapeMismatch = errors.New("frame buffer shape mismatch")

// Shape describes the fixed geometry of a frame buffer.
type Shape struct {
	// The width of the frame in pixels.
	Width int `json:"width" yaml:"width"`
	// The height of the frame in pixels.
	Height int `json:"height" yaml:"height"`
	// The number of interleaved channels per pixel (1 for masks, 3 for BGR sensor frames).
	Channels int `json:"channels" yaml:"channels"`
}

// Len returns the number of bytes a buffer of this shape occupies.
func (s Shape) Len() int {
	return s.Width * s.Height * s.Channels
}

// Plane returns the single-channel shape with the same width and height.
func (s Shape) Plane() Shape {
	return Shape{Width: s.Width, Height: s.Height, Channels: 1}
}

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	if s.Width <= 0 || s.Height <= 0 || s.Channels <= 0 {
		return errors.Errorf("invalid shape %dx%dx%d", s.Width, s.Height, s.Channels)
	}
	return nil
}

// FrameBuffer is a fixed-size, row-major byte buffer holding one image.
//
// Pixels are interleaved: the bytes of pixel (x, y) start at (y*Width+x)*Channels.
// Sensor frames use BGR channel order (0 = blue, 1 = green, 2 = red).
//
// Buffers are allocated once with NewFrameBuffer and reused across frames.
type FrameBuffer struct {
	Shape
	// Pix holds Len() bytes.
	Pix []byte
}

// NewFrameBuffer allocates a zeroed buffer for the given shape.
//
// Arguments:
//   - shape: The geometry of the buffer.
//
// Returns:
//   - FrameBuffer: The zeroed buffer.
//
// @example
// sensor := images.NewFrameBuffer(images.Shape{Width: 752, Height: 480, Channels: 3})
func NewFrameBuffer(shape Shape) FrameBuffer {
	return FrameBuffer{Shape: shape, Pix: make([]byte, shape.Len())}
}

// Clear zeroes the buffer in place.
func (f FrameBuffer) Clear() {
	clear(f.Pix)
}

// Offset returns the index of the first byte of pixel (x, y).
func (f FrameBuffer) Offset(x, y int) int {
	return (y*f.Width + x) * f.Channels
}

// Row returns the bytes of row y.
func (f FrameBuffer) Row(y int) []byte {
	stride := f.Width * f.Channels
	return f.Pix[y*stride : (y+1)*stride]
}

// At returns channel c of pixel (x, y).
func (f FrameBuffer) At(x, y, c int) uint8 {
	return f.Pix[f.Offset(x, y)+c]
}

// Set writes channel c of pixel (x, y).
func (f FrameBuffer) Set(x, y, c int, v uint8) {
	f.Pix[f.Offset(x, y)+c] = v
}

// CheckShape reports ErrShapeMismatch when the buffer does not have the expected shape
// or its backing slice has the wrong length.
func (f FrameBuffer) CheckShape(want Shape) error {
	if f.Shape != want {
		return errors.Wrapf(ErrShapeMismatch, "got %dx%dx%d, want %dx%dx%d",
			f.Width, f.Height, f.Channels, want.Width, want.Height, want.Channels)
	}
	if len(f.Pix) != want.Len() {
		return errors.Wrapf(ErrShapeMismatch, "got %d bytes, want %d", len(f.Pix), want.Len())
	}
	return nil
}

// CountNonZero returns the number of non-zero bytes in a single-channel buffer.
func (f FrameBuffer) CountNonZero() int {
	n := 0
	for _, v := range f.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}
