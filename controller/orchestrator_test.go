package controller

import (
	"errors"
	"testing"

	"github.com/nvr-ai/go-ebv/change"
	"github.com/nvr-ai/go-ebv/images"
	"github.com/nvr-ai/go-ebv/labeling"
	"github.com/nvr-ai/go-ebv/overlay"
	"github.com/nvr-ai/go-ebv/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testShape = images.Shape{Width: 80, Height: 60, Channels: 3}

// reddish converts to Cb~116, Cr~163, close to the first default YCbCr prototype.
var reddish = []uint8{90, 90, 160}

func testOptions(canvas overlay.Canvas) Options {
	return Options{
		Shape:          testShape,
		Border:         2,
		MinArea:        500,
		SizeCross:      10,
		OpenForeground: true,
		Model:          change.DefaultColorModel(change.YCbCr),
		Canvas:         canvas,
	}
}

// scene is a gray frame with a 30x30 reddish block at (20,15).
func scene() images.FrameBuffer {
	f := images.NewFrameBuffer(testShape)
	images.Fill(f, 100, 100, 100)
	images.FillRect(f, images.Rect{X1: 20, Y1: 15, X2: 50, Y2: 45}, reddish...)
	return f
}

// MockLabeler records the picture it receives and returns a fixed error.
type MockLabeler struct {
	calls   int
	values  map[byte]int
	err     error
	wrapped labeling.Labeler
}

func (m *MockLabeler) Label(pic labeling.Picture, set *labeling.RegionSet) error {
	m.calls++
	m.values = map[byte]int{}
	for _, v := range pic.Data {
		m.values[v]++
	}
	if m.err != nil {
		return m.err
	}
	return m.wrapped.Label(pic, set)
}

func TestProcessFrameEndToEnd(t *testing.T) {
	var rec overlay.Recorder
	orch, err := NewOrchestrator(testOptions(&rec), NewSession(20))
	require.NoError(t, err)

	res, err := orch.ProcessFrame(Frame{Counter: 2, Sensor: scene()})
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.False(t, res.Manual)
	assert.Equal(t, uint8(100), res.Threshold, "otsu splits the two gray levels at the lower one")
	assert.Equal(t, 1, res.Regions)
	require.Len(t, res.Objects, 1)
	assert.Equal(t, region.Object{
		ID: 1, Area: 900, Box: images.Rect{X1: 20, Y1: 15, X2: 50, Y2: 45},
		CentroidX: 34, CentroidY: 29, Color: overlay.RED,
	}, res.Objects[0])

	assert.Equal(t, []overlay.Command{
		{Kind: overlay.KindBox, X1: 20, Y1: 15, X2: 49, Y2: 44, Color: overlay.RED},
		{Kind: overlay.KindLine, X1: 24, Y1: 29, X2: 44, Y2: 29, Color: overlay.WHITE},
		{Kind: overlay.KindLine, X1: 34, Y1: 19, X2: 34, Y2: 39, Color: overlay.WHITE},
		{Kind: overlay.KindString, X1: 20, Y1: 20, Length: 17, Size: overlay.SMALL, Color: overlay.CYAN, Text: " Otsu's threshold"},
	}, rec.Commands)

	b := orch.Buffers()
	assert.Equal(t, 0, b.Binary.CountNonZero(), "no gray level is below the otsu threshold")
	assert.Equal(t, 900, b.Change.Mask.CountNonZero())
	assert.Equal(t, uint8(168), b.Change.Visual.At(30, 30, 2))
	assert.Equal(t, 900, b.Scratch.CountNonZero(), "labeller input is the remapped mask")
	assert.Equal(t, uint8(1), b.Scratch.At(30, 30, 0))
}

func TestProcessFrameManualThreshold(t *testing.T) {
	var rec overlay.Recorder
	session := NewSession(105)
	session.Reset()
	orch, err := NewOrchestrator(testOptions(&rec), session)
	require.NoError(t, err)

	res, err := orch.ProcessFrame(Frame{Counter: 5, Sensor: scene()})
	require.NoError(t, err)

	assert.True(t, res.Manual)
	assert.Equal(t, uint8(105), res.Threshold)
	// Interior background (76x56) is below 105; the block (gray 110) is not.
	assert.Equal(t, 76*56-900, orch.Buffers().Binary.CountNonZero())

	// The shared runtime threshold also admits the background as foreground.
	require.Len(t, res.Objects, 1)
	assert.Equal(t, 80*60, res.Objects[0].Area)

	last := rec.Commands[len(rec.Commands)-1]
	assert.Equal(t, "manual threshold", last.Text)
	assert.Equal(t, 16, last.Length)
}

func TestProcessFrameFirstFrameResets(t *testing.T) {
	var rec overlay.Recorder
	session := NewSession(20)
	session.ManualThreshold = true
	orch, err := NewOrchestrator(testOptions(&rec), session)
	require.NoError(t, err)

	res, err := orch.ProcessFrame(Frame{Counter: 1, Sensor: scene()})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.False(t, session.ManualThreshold)
	assert.Empty(t, rec.Commands)
	assert.Empty(t, orch.Profiler().Stats())
}

func TestProcessFrameRejectsWrongShape(t *testing.T) {
	var rec overlay.Recorder
	orch, err := NewOrchestrator(testOptions(&rec), NewSession(20))
	require.NoError(t, err)

	wrong := images.NewFrameBuffer(images.Shape{Width: 40, Height: 60, Channels: 3})
	_, err = orch.ProcessFrame(Frame{Counter: 2, Sensor: wrong})
	assert.ErrorIs(t, err, images.ErrShapeMismatch)
	assert.Empty(t, rec.Commands)
}

func TestProcessFrameOpenForeground(t *testing.T) {
	frame := scene()
	frame.Set(70, 5, 0, reddish[0])
	frame.Set(70, 5, 1, reddish[1])
	frame.Set(70, 5, 2, reddish[2])

	tests := []struct {
		name    string
		open    bool
		regions int
	}{
		{name: "opening removes isolated pixel", open: true, regions: 1},
		{name: "raw mask keeps it", open: false, regions: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(nil)
			opts.OpenForeground = tt.open
			orch, err := NewOrchestrator(opts, NewSession(20))
			require.NoError(t, err)

			res, err := orch.ProcessFrame(Frame{Counter: 2, Sensor: frame})
			require.NoError(t, err)
			assert.Equal(t, tt.regions, res.Regions)
			assert.Len(t, res.Objects, 1, "the isolated pixel never passes MinArea")
		})
	}
}

func TestProcessFrameOpeningClearsBorderBand(t *testing.T) {
	for _, x := range []int{0, 10, testShape.Width - 2} {
		frame := images.NewFrameBuffer(testShape)
		images.Fill(frame, 100, 100, 100)
		images.FillRect(frame, images.Rect{X1: x, Y1: 0, X2: x + 2, Y2: testShape.Height}, reddish...)

		opts := testOptions(nil)
		opts.MinArea = 50
		orch, err := NewOrchestrator(opts, NewSession(20))
		require.NoError(t, err)

		res, err := orch.ProcessFrame(Frame{Counter: 2, Sensor: frame})
		require.NoError(t, err)
		assert.Zero(t, orch.Buffers().Change.Mask.CountNonZero(), "strip at x=%d", x)
		assert.Zero(t, res.Regions, "strip at x=%d", x)
		assert.Empty(t, res.Objects, "strip at x=%d", x)
	}
}

func TestProcessFrameLabelerInput(t *testing.T) {
	mock := &MockLabeler{wrapped: labeling.NewRunLabeler(0)}
	opts := testOptions(nil)
	opts.Labeler = mock
	orch, err := NewOrchestrator(opts, NewSession(20))
	require.NoError(t, err)

	_, err = orch.ProcessFrame(Frame{Counter: 2, Sensor: scene()})
	require.NoError(t, err)
	assert.Equal(t, 1, mock.calls)
	assert.Equal(t, map[byte]int{0: 80*60 - 900, 1: 900}, mock.values)

	mock.err = errors.New("labeller failed")
	_, err = orch.ProcessFrame(Frame{Counter: 3, Sensor: scene()})
	assert.ErrorContains(t, err, "labeller failed")
}

func TestProcessFrameRecordsStages(t *testing.T) {
	orch, err := NewOrchestrator(testOptions(nil), NewSession(20))
	require.NoError(t, err)

	for n := uint64(2); n < 5; n++ {
		_, err := orch.ProcessFrame(Frame{Counter: n, Sensor: scene()})
		require.NoError(t, err)
	}

	counts := map[string]int64{}
	for _, s := range orch.Profiler().Stats() {
		counts[s.Name] = s.Count
	}
	for _, stage := range []string{StageLuma, StageOtsu, StageBinarize, StageMorph, StageChange, StageOpen, StageLabel, StageRegions, StageFrame} {
		assert.Equal(t, int64(3), counts[stage], stage)
	}
}

func TestNewOrchestratorValidates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{name: "two channels", mutate: func(o *Options) { o.Shape.Channels = 2 }},
		{name: "four channels", mutate: func(o *Options) { o.Shape.Channels = 4 }},
		{name: "zero width", mutate: func(o *Options) { o.Shape.Width = 0 }},
		{name: "zero border", mutate: func(o *Options) { o.Border = 0 }},
		{name: "border too wide", mutate: func(o *Options) { o.Border = 30 }},
		{name: "no prototypes", mutate: func(o *Options) { o.Model.Prototypes = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(nil)
			tt.mutate(&opts)
			_, err := NewOrchestrator(opts, NewSession(20))
			assert.Error(t, err)
		})
	}

	_, err := NewOrchestrator(testOptions(nil), nil)
	assert.Error(t, err)
}

func BenchmarkProcessFrame(b *testing.B) {
	shape := images.Shape{Width: 752, Height: 480, Channels: 3}
	frame := images.NewFrameBuffer(shape)
	images.Fill(frame, 100, 100, 100)
	images.FillRect(frame, images.Rect{X1: 100, Y1: 100, X2: 300, Y2: 250}, reddish...)

	opts := testOptions(nil)
	opts.Shape = shape
	orch, err := NewOrchestrator(opts, NewSession(20))
	require.NoError(b, err)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = orch.ProcessFrame(Frame{Counter: uint64(i + 2), Sensor: frame})
	}
}
