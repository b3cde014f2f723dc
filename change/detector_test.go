package change

import (
	"testing"

	"github.com/nvr-ai/go-ebv/images"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sensorShape = images.Shape{Width: 16, Height: 12, Channels: 3}

func TestToYCbCr(t *testing.T) {
	tests := []struct {
		name      string
		b, g, r   uint8
		y, cb, cr int
	}{
		{name: "white", b: 255, g: 255, r: 255, y: 255, cb: 128, cr: 128},
		{name: "black", b: 0, g: 0, r: 0, y: 0, cb: 128, cr: 128},
		{name: "reddish", b: 90, g: 90, r: 160, y: 110, cb: 116, cr: 163},
		{name: "pure blue", b: 255, g: 0, r: 0, y: 29, cb: 255, cr: 107},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			y, cb, cr := ToYCbCr(tc.b, tc.g, tc.r)
			assert.InDelta(t, tc.y, int(y), 1)
			assert.InDelta(t, tc.cb, int(cb), 1)
			assert.InDelta(t, tc.cr, int(cr), 1)
		})
	}
}

func TestParseColorSpace(t *testing.T) {
	cs, err := ParseColorSpace("YCbCr")
	require.NoError(t, err)
	assert.Equal(t, YCbCr, cs)
	assert.Equal(t, "ycbcr", cs.String())

	cs, err = ParseColorSpace(" rgb ")
	require.NoError(t, err)
	assert.Equal(t, RGB, cs)

	_, err = ParseColorSpace("hsv")
	assert.True(t, errors.Is(err, ErrUnknownColorSpace))
}

func TestNewDetectorRejectsInvalidModel(t *testing.T) {
	_, err := NewDetector(ColorModel{Space: RGB})
	assert.Error(t, err)

	_, err = NewDetector(ColorModel{Space: ColorSpace(9), Prototypes: []Prototype{{}}})
	assert.True(t, errors.Is(err, ErrUnknownColorSpace))
}

func dirtyOutputs() *Outputs {
	out := NewOutputs(sensorShape)
	images.Fill(out.Mask, 7)
	images.Fill(out.Visual, 7, 7, 7)
	images.Fill(out.Converted, 7, 7, 7)
	images.Fill(out.Scratch, 7)
	return out
}

func TestDetectRGB(t *testing.T) {
	det, err := NewDetector(DefaultColorModel(RGB))
	require.NoError(t, err)

	sensor := images.NewFrameBuffer(sensorShape)
	images.Fill(sensor, 200, 200, 200)
	sensor.Set(3, 4, 0, 11)
	sensor.Set(3, 4, 1, 11)
	sensor.Set(3, 4, 2, 87)
	// Channel 0 is excluded from the distance.
	images.FillRect(sensor, images.Rect{X1: 8, Y1: 2, X2: 9, Y2: 3}, 250, 29, 14)

	out := dirtyOutputs()
	det.Detect(sensor, out, 30)

	assert.Equal(t, 2, out.Mask.CountNonZero())
	assert.Equal(t, uint8(Foreground), out.Mask.At(3, 4, 0))
	assert.Equal(t, uint8(Foreground), out.Mask.At(8, 2, 0))
	assert.Equal(t, []byte{11, 11, 87}, out.Visual.Pix[out.Visual.Offset(3, 4):out.Visual.Offset(3, 4)+3])
	assert.Equal(t, []byte{48, 29, 14}, out.Visual.Pix[out.Visual.Offset(8, 2):out.Visual.Offset(8, 2)+3])

	assert.Equal(t, 0, out.Scratch.CountNonZero(), "scratch buffer cleared")
	assert.Equal(t, 0, out.Converted.CountNonZero(), "converted buffer unused in RGB mode")
	assert.Equal(t, uint8(0), out.Visual.At(0, 0, 0), "background left cleared")
}

func TestDetectThresholdIsStrict(t *testing.T) {
	det, err := NewDetector(DefaultColorModel(RGB))
	require.NoError(t, err)

	sensor := images.NewFrameBuffer(sensorShape)
	images.Fill(sensor, 0, 200, 200)
	sensor.Set(1, 1, 1, 11+5)
	sensor.Set(1, 1, 2, 87)

	out := NewOutputs(sensorShape)
	det.Detect(sensor, out, 5)
	assert.Equal(t, 0, out.Mask.CountNonZero(), "distance equal to threshold is rejected")

	det.Detect(sensor, out, 6)
	assert.Equal(t, 1, out.Mask.CountNonZero())
}

func TestDetectYCbCr(t *testing.T) {
	model := DefaultColorModel(YCbCr)
	det, err := NewDetector(model)
	require.NoError(t, err)
	assert.Equal(t, model, det.Model())

	sensor := images.NewFrameBuffer(sensorShape)
	images.Fill(sensor, 100, 100, 100)
	block := images.Rect{X1: 4, Y1: 3, X2: 10, Y2: 9}
	images.FillRect(sensor, block, 90, 90, 160)

	out := dirtyOutputs()
	det.Detect(sensor, out, 20)

	assert.Equal(t, block.Area(), out.Mask.CountNonZero())
	for y := block.Y1; y < block.Y2; y++ {
		for x := block.X1; x < block.X2; x++ {
			require.Equal(t, uint8(Foreground), out.Mask.At(x, y, 0))
			require.Equal(t, model.Prototypes[0][2], out.Visual.At(x, y, 2))
		}
	}

	// The converted buffer holds luma/chroma for every pixel, foreground or not.
	y, cb, cr := ToYCbCr(100, 100, 100)
	assert.Equal(t, []byte{y, cb, cr}, out.Converted.Pix[:3])
	assert.Equal(t, 0, out.Scratch.CountNonZero())
}

func TestOutputsCheck(t *testing.T) {
	assert.NoError(t, NewOutputs(sensorShape).Check(sensorShape))

	out := NewOutputs(sensorShape)
	out.Visual = images.NewFrameBuffer(sensorShape.Plane())
	err := out.Check(sensorShape)
	require.Error(t, err)
	assert.True(t, errors.Is(err, images.ErrShapeMismatch))
}

func BenchmarkDetectYCbCr(b *testing.B) {
	shape := images.Shape{Width: 752, Height: 480, Channels: 3}
	det, _ := NewDetector(DefaultColorModel(YCbCr))
	sensor := images.NewFrameBuffer(shape)
	images.Fill(sensor, 100, 100, 100)
	out := NewOutputs(shape)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		det.Detect(sensor, out, 20)
	}
}
