// Package controller - Frame orchestration: runs every pipeline stage over one sensor frame
// in a fixed order against buffers allocated once at start-up.
package controller

import (
	"github.com/nvr-ai/go-ebv/change"
	"github.com/nvr-ai/go-ebv/config"
	"github.com/nvr-ai/go-ebv/images"
	"github.com/nvr-ai/go-ebv/images/kernels"
	"github.com/nvr-ai/go-ebv/labeling"
	"github.com/nvr-ai/go-ebv/overlay"
	"github.com/nvr-ai/go-ebv/profiler"
	"github.com/nvr-ai/go-ebv/region"
	"github.com/nvr-ai/go-ebv/threshold"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Stage names recorded by the profiler.
const (
	StageLuma     = "luma"
	StageOtsu     = "otsu"
	StageBinarize = "binarize"
	StageMorph    = "morph"
	StageChange   = "change"
	StageOpen     = "open"
	StageLabel    = "label"
	StageRegions  = "regions"
	StageFrame    = "frame"
)

// Status line placement.
const (
	statusX = 20
	statusY = 20
)

// Frame is a single frame of video.
type Frame struct {
	// Counter is the 1-based frame number.
	Counter uint64
	Sensor  images.FrameBuffer
}

// FrameResult summarises one processed frame.
type FrameResult struct {
	Counter uint64
	// Skipped is set for the initialisation frame.
	Skipped bool
	// Threshold is the value the intensity plane was binarized with.
	Threshold uint8
	Manual    bool
	Regions   int
	Objects   []region.Object
}

// Options configure an Orchestrator.
type Options struct {
	Shape          images.Shape
	Border         int
	MinArea        int
	SizeCross      int
	OpenForeground bool
	Model          change.ColorModel
	// Labeler defaults to a RunLabeler.
	Labeler labeling.Labeler
	// Canvas defaults to overlay.Discard.
	Canvas overlay.Canvas
	// Profiler defaults to a fresh StageProfiler.
	Profiler *profiler.StageProfiler
	Logger   zerolog.Logger
}

// OptionsFromConfig maps a validated configuration onto orchestrator options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	shape, err := cfg.Frame.Shape()
	if err != nil {
		return Options{}, err
	}
	model, err := cfg.Pipeline.ColorModel()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Shape:          shape,
		Border:         cfg.Pipeline.Border,
		MinArea:        cfg.Pipeline.MinArea,
		SizeCross:      cfg.Pipeline.SizeCross,
		OpenForeground: cfg.Pipeline.OpenForeground,
		Model:          model,
		Logger:         zerolog.Nop(),
	}, nil
}

// Orchestrator owns the working buffers and runs the pipeline frame by frame.
// It is not safe for concurrent use.
type Orchestrator struct {
	opts      Options
	session   *Session
	buffers   *Buffers
	detector  *change.Detector
	labeler   labeling.Labeler
	regions   labeling.RegionSet
	processor *region.Processor
	canvas    overlay.Canvas
	prof      *profiler.StageProfiler
	log       zerolog.Logger
	result    FrameResult
}

// NewOrchestrator validates the options and allocates every working buffer.
//
// Arguments:
//   - opts: The frame shape, processing constants and collaborators.
//   - session: The runtime mode and threshold, shared with the UI.
//
// Returns:
//   - *Orchestrator: The orchestrator.
//   - error: If the shape, border or colour model is invalid.
//
// @example
// orch, err := controller.NewOrchestrator(opts, controller.NewSession(20))
// res, err := orch.ProcessFrame(controller.Frame{Counter: n, Sensor: sensor})
func NewOrchestrator(opts Options, session *Session) (*Orchestrator, error) {
	if err := opts.Shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "frame shape")
	}
	if opts.Shape.Channels != change.Channels {
		return nil, errors.Errorf("sensor needs %d channels, got %d", change.Channels, opts.Shape.Channels)
	}
	if opts.Border < 1 || 2*opts.Border >= opts.Shape.Width || 2*opts.Border >= opts.Shape.Height {
		return nil, errors.Errorf("border %d invalid for %dx%d", opts.Border, opts.Shape.Width, opts.Shape.Height)
	}
	if session == nil {
		return nil, errors.New("nil session")
	}

	detector, err := change.NewDetector(opts.Model)
	if err != nil {
		return nil, errors.Wrap(err, "change detector")
	}

	buffers := NewBuffers(opts.Shape)
	if err := buffers.Check(opts.Shape); err != nil {
		return nil, err
	}

	if opts.Labeler == nil {
		opts.Labeler = labeling.NewRunLabeler(opts.Shape.Width * opts.Shape.Height / 64)
	}
	if opts.Canvas == nil {
		opts.Canvas = overlay.Discard
	}
	if opts.Profiler == nil {
		opts.Profiler = profiler.New()
	}

	return &Orchestrator{
		opts:      opts,
		session:   session,
		buffers:   buffers,
		detector:  detector,
		labeler:   opts.Labeler,
		processor: region.NewProcessor(opts.MinArea, opts.SizeCross),
		canvas:    opts.Canvas,
		prof:      opts.Profiler,
		log:       opts.Logger.With().Str("component", "orchestrator").Logger(),
	}, nil
}

// Session returns the runtime state the orchestrator reads.
func (o *Orchestrator) Session() *Session { return o.session }

// Buffers returns the working buffers.
func (o *Orchestrator) Buffers() *Buffers { return o.buffers }

// Regions returns the regions of the last processed frame.
func (o *Orchestrator) Regions() *labeling.RegionSet { return &o.regions }

// Profiler returns the stage profiler.
func (o *Orchestrator) Profiler() *profiler.StageProfiler { return o.prof }

// SetCanvas replaces the overlay canvas for subsequent frames; nil discards drawing.
func (o *Orchestrator) SetCanvas(c overlay.Canvas) {
	if c == nil {
		c = overlay.Discard
	}
	o.canvas = c
}

// ProcessFrame runs the pipeline over one frame.
//
// Frame 1 only resets the session to automatic thresholding. Every later frame goes
// through intensity extraction, Otsu, binarization, erode/dilate, change detection, the
// optional opening of the foreground mask, labelling and region annotation, followed by
// the status line.
//
// Returns:
//   - *FrameResult: Owned by the orchestrator and overwritten by the next call.
//   - error: If the sensor shape is wrong or labelling fails.
func (o *Orchestrator) ProcessFrame(frame Frame) (*FrameResult, error) {
	if err := frame.Sensor.CheckShape(o.opts.Shape); err != nil {
		return nil, errors.Wrapf(err, "frame %d", frame.Counter)
	}

	res := &o.result
	*res = FrameResult{Counter: frame.Counter, Objects: res.Objects[:0]}

	if frame.Counter == 1 {
		o.session.ManualThreshold = false
		o.regions.Reset()
		res.Skipped = true
		return res, nil
	}

	defer o.prof.StartOperation(StageFrame)()

	b := o.buffers
	border := o.opts.Border

	done := o.prof.StartOperation(StageLuma)
	images.Luma(frame.Sensor, b.Gray)
	done()

	done = o.prof.StartOperation(StageOtsu)
	otsu := threshold.Otsu(b.Gray)
	done()

	t := int(otsu)
	if o.session.ManualThreshold {
		t = o.session.Threshold
	}
	done = o.prof.StartOperation(StageBinarize)
	threshold.Binarize(b.Gray, b.Binary, t, border)
	done()

	done = o.prof.StartOperation(StageMorph)
	b.Scratch.Clear()
	kernels.Erode3x3(b.Binary, b.Scratch, border)
	kernels.Dilate3x3(b.Scratch, b.Binary, border)
	done()

	done = o.prof.StartOperation(StageChange)
	o.detector.Detect(frame.Sensor, b.Change, o.session.Threshold)
	done()

	if o.opts.OpenForeground {
		done = o.prof.StartOperation(StageOpen)
		kernels.Open3x3(b.Change.Mask, b.Scratch, border)
		done()
	}

	done = o.prof.StartOperation(StageLabel)
	for i, v := range b.Change.Mask.Pix {
		if v != 0 {
			b.Scratch.Pix[i] = 1
		} else {
			b.Scratch.Pix[i] = 0
		}
	}
	err := o.labeler.Label(labeling.Picture{
		Data:   b.Scratch.Pix,
		Width:  b.Scratch.Width,
		Height: b.Scratch.Height,
		Type:   labeling.PictureBinary,
	}, &o.regions)
	done()
	if err != nil {
		return nil, errors.Wrapf(err, "frame %d: labelling", frame.Counter)
	}

	done = o.prof.StartOperation(StageRegions)
	res.Objects = append(res.Objects, o.processor.Process(frame.Sensor, &o.regions, o.canvas)...)
	done()

	text := o.session.Mode()
	o.canvas.DrawString(statusX, statusY, len(text), overlay.SMALL, overlay.CYAN, text)

	res.Threshold = uint8(t)
	res.Manual = o.session.ManualThreshold
	res.Regions = o.regions.Count()

	o.log.Debug().
		Uint64("frame", frame.Counter).
		Uint8("otsu", otsu).
		Int("threshold", t).
		Bool("manual", res.Manual).
		Int("regions", res.Regions).
		Int("objects", len(res.Objects)).
		Msg("frame processed")

	return res, nil
}
