package controller

import (
	"github.com/nvr-ai/go-ebv/change"
	"github.com/nvr-ai/go-ebv/images"
	"github.com/pkg/errors"
)

// Buffers are the working images of the pipeline, allocated once for the sensor shape.
type Buffers struct {
	// Gray is the intensity plane of the sensor frame.
	Gray images.FrameBuffer
	// Binary is the thresholded and opened intensity mask.
	Binary images.FrameBuffer
	// Scratch is the intermediate plane of every 3x3 filter and the labeller input.
	Scratch images.FrameBuffer
	// Change holds the detector outputs. Its Scratch is the same plane as Scratch.
	Change *change.Outputs
}

// NewBuffers allocates every working buffer for a sensor shape.
func NewBuffers(sensor images.Shape) *Buffers {
	plane := sensor.Plane()
	b := &Buffers{
		Gray:    images.NewFrameBuffer(plane),
		Binary:  images.NewFrameBuffer(plane),
		Scratch: images.NewFrameBuffer(plane),
	}
	b.Change = &change.Outputs{
		Mask:      images.NewFrameBuffer(plane),
		Visual:    images.NewFrameBuffer(sensor),
		Converted: images.NewFrameBuffer(sensor),
		Scratch:   b.Scratch,
	}
	return b
}

// Check verifies every buffer against the sensor shape.
func (b *Buffers) Check(sensor images.Shape) error {
	plane := sensor.Plane()
	for name, buf := range map[string]images.FrameBuffer{"gray": b.Gray, "binary": b.Binary, "scratch": b.Scratch} {
		if err := buf.CheckShape(plane); err != nil {
			return errors.Wrap(err, name)
		}
	}
	if b.Change == nil {
		return errors.New("change outputs not allocated")
	}
	return b.Change.Check(sensor)
}

// View selects one buffer for display.
type View int

// Displayable buffers, in cycling order.
const (
	ViewSensor View = iota
	ViewBinary
	ViewMask
	ViewVisual
	viewCount
)

func (v View) String() string {
	switch v {
	case ViewSensor:
		return "sensor"
	case ViewBinary:
		return "binary"
	case ViewMask:
		return "mask"
	case ViewVisual:
		return "visual"
	default:
		return "unknown"
	}
}

// Next returns the view after v, wrapping around.
func (v View) Next() View {
	return (v + 1) % viewCount
}

// Select returns the buffer shown by view v; ViewSensor returns sensor itself.
func (b *Buffers) Select(v View, sensor images.FrameBuffer) images.FrameBuffer {
	switch v {
	case ViewBinary:
		return b.Binary
	case ViewMask:
		return b.Change.Mask
	case ViewVisual:
		return b.Change.Visual
	default:
		return sensor
	}
}
