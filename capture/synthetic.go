package capture

import (
	"context"
	"io"

	"github.com/nvr-ai/go-ebv/images"
)

// Synthetic scene colours in BGR order. The blocks sit close to the default YCbCr
// prototypes.
var (
	SyntheticBackground = []uint8{100, 100, 100}
	SyntheticRed        = []uint8{90, 90, 160}
	SyntheticBlue       = []uint8{140, 100, 80}
)

// SyntheticSource paints a gray scene with a reddish and a bluish block moving across
// it. It needs no hardware and is the default source of the device binary.
type SyntheticSource struct {
	// Frames limits the stream length; 0 means unbounded.
	Frames  uint64
	Size    int
	Step    int
	counter uint64
	truth   [2]images.Rect
}

// NewSyntheticSource returns a source of frames blocks, each block size pixels wide.
func NewSyntheticSource(frames uint64, size int) *SyntheticSource {
	return &SyntheticSource{Frames: frames, Size: size, Step: 2}
}

func (s *SyntheticSource) Next(ctx context.Context, dst *images.FrameBuffer) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.Frames > 0 && s.counter >= s.Frames {
		return 0, io.EOF
	}
	s.counter++

	images.Fill(*dst, SyntheticBackground...)

	w, h := dst.Width, dst.Height
	size := min(s.Size, w/3, h/3)
	span := max(w-size, 1)
	x := int(s.counter*uint64(s.Step)) % span

	bx := span - 1 - x
	s.truth[0] = images.Rect{X1: x, Y1: h / 4, X2: x + size, Y2: h/4 + size}
	s.truth[1] = images.Rect{X1: bx, Y1: h / 2, X2: bx + size, Y2: h/2 + size}
	images.FillRect(*dst, s.truth[0], SyntheticRed...)
	images.FillRect(*dst, s.truth[1], SyntheticBlue...)
	return s.counter, nil
}

// Truth returns the red and blue block rectangles of the last frame, in that order.
func (s *SyntheticSource) Truth() []images.Rect {
	return s.truth[:]
}

func (s *SyntheticSource) Close() error {
	return nil
}
