package kernels

import (
	"math/rand"
	"testing"

	"github.com/nvr-ai/go-ebv/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBorder = 2

var testShape = images.Shape{Width: 48, Height: 36, Channels: 1}

// randomMask builds a reproducible 0/255 mask with the given fill density. The border
// band is cleared, as the binarizer and change detector guarantee upstream.
func randomMask(seed int64, density float64) images.FrameBuffer {
	rng := rand.New(rand.NewSource(seed))
	m := images.NewFrameBuffer(testShape)
	for y := testBorder; y < m.Height-testBorder; y++ {
		for x := testBorder; x < m.Width-testBorder; x++ {
			if rng.Float64() < density {
				m.Set(x, y, 0, 255)
			}
		}
	}
	return m
}

func erode(src images.FrameBuffer) images.FrameBuffer {
	dst := images.NewFrameBuffer(src.Shape)
	Erode3x3(src, dst, testBorder)
	return dst
}

func dilate(src images.FrameBuffer) images.FrameBuffer {
	dst := images.NewFrameBuffer(src.Shape)
	Dilate3x3(src, dst, testBorder)
	return dst
}

func TestErodeDilateMonotonicity(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		for _, density := range []float64{0.1, 0.5, 0.9} {
			x := randomMask(seed, density)
			assert.LessOrEqual(t, erode(x).CountNonZero(), x.CountNonZero(), "erode must not grow (seed %d)", seed)
			assert.GreaterOrEqual(t, dilate(x).CountNonZero(), x.CountNonZero(), "dilate must not shrink (seed %d)", seed)
		}
	}
}

func TestClosingStabilizes(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		x := randomMask(seed, 0.4)
		closed := erode(dilate(x))
		again := erode(dilate(closed))
		assert.LessOrEqual(t, again.CountNonZero(), closed.CountNonZero(), "seed %d", seed)
	}
}

func TestBorderPixelsUntouched(t *testing.T) {
	src := images.NewFrameBuffer(testShape)
	images.Fill(src, 255)

	for _, op := range []Op{OpErode, OpDilate} {
		t.Run(op.String(), func(t *testing.T) {
			dst := images.NewFrameBuffer(testShape)
			images.Fill(dst, 0x5A)
			apply3x3(op, src.Pix, dst.Pix, src.Width, src.Height, testBorder)

			for y := 0; y < dst.Height; y++ {
				for x := 0; x < dst.Width; x++ {
					inBand := x < testBorder || y < testBorder || x >= dst.Width-testBorder || y >= dst.Height-testBorder
					if inBand {
						require.Equal(t, uint8(0x5A), dst.At(x, y, 0), "border (%d,%d) written", x, y)
					} else {
						require.Equal(t, uint8(255), dst.At(x, y, 0), "interior (%d,%d)", x, y)
					}
				}
			}
		})
	}
}

func TestSinglePixelNoise(t *testing.T) {
	x := images.NewFrameBuffer(testShape)
	x.Set(10, 10, 0, 255)

	assert.Equal(t, 0, erode(x).CountNonZero(), "isolated pixel is removed by erosion")

	d := dilate(x)
	assert.Equal(t, 9, d.CountNonZero())
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			assert.Equal(t, uint8(255), d.At(10+dx, 10+dy, 0))
		}
	}
}

func TestOpenPreservesSquareBlock(t *testing.T) {
	mask := images.NewFrameBuffer(testShape)
	images.FillRect(mask, images.Rect{X1: 10, Y1: 8, X2: 30, Y2: 28}, 255)
	mask.Set(40, 30, 0, 255) // noise
	want := images.NewFrameBuffer(testShape)
	images.FillRect(want, images.Rect{X1: 10, Y1: 8, X2: 30, Y2: 28}, 255)

	scratch := images.NewFrameBuffer(testShape)
	Open3x3(mask, scratch, testBorder)

	assert.Equal(t, want.Pix, mask.Pix)
}

func TestOpenRemovesBorderBand(t *testing.T) {
	tests := []struct {
		name string
		x    int
	}{
		{"left edge", 0},
		{"interior", 10},
		{"right edge", testShape.Width - 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := images.NewFrameBuffer(testShape)
			images.FillRect(mask, images.Rect{X1: tt.x, Y1: 0, X2: tt.x + 2, Y2: testShape.Height}, 255)
			scratch := images.NewFrameBuffer(testShape)
			images.Fill(scratch, 255)

			Open3x3(mask, scratch, testBorder)

			assert.Equal(t, 0, mask.CountNonZero(), "a 2 pixel strip does not survive opening")
		})
	}
}

func TestClearBorder(t *testing.T) {
	f := images.NewFrameBuffer(testShape)
	images.Fill(f, 255)
	ClearBorder(f, testBorder)

	inner := (testShape.Width - 2*testBorder) * (testShape.Height - 2*testBorder)
	assert.Equal(t, inner, f.CountNonZero())
	assert.Equal(t, uint8(0), f.At(1, 10, 0))
	assert.Equal(t, uint8(0), f.At(testShape.Width-1, 10, 0))
	assert.Equal(t, uint8(0), f.At(10, testShape.Height-2, 0))
	assert.Equal(t, uint8(255), f.At(testBorder, testBorder, 0))
}

func BenchmarkErode3x3(b *testing.B) {
	shape := images.Shape{Width: 752, Height: 480, Channels: 1}
	src := images.NewFrameBuffer(shape)
	images.FillRect(src, images.Rect{X1: 100, Y1: 100, X2: 400, Y2: 300}, 255)
	dst := images.NewFrameBuffer(shape)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Erode3x3(src, dst, testBorder)
	}
}
