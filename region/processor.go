// Package region - Post-processing of labelled regions: size filtering, colour
// classification and overlay emission.
package region

import (
	"github.com/nvr-ai/go-ebv/images"
	"github.com/nvr-ai/go-ebv/labeling"
	"github.com/nvr-ai/go-ebv/overlay"
)

// Object is a region that passed the size filter, as it was drawn.
type Object struct {
	ID        int
	Area      int
	Box       images.Rect
	CentroidX int
	CentroidY int
	Color     overlay.Color
}

// Processor filters regions by area and annotates the survivors.
type Processor struct {
	// MinArea is exclusive: a region needs more pixels than this to be drawn.
	MinArea int
	// SizeCross is the half-length of the centroid cross arms.
	SizeCross int

	objects []Object
}

// NewProcessor returns a processor with the given limits.
func NewProcessor(minArea, sizeCross int) *Processor {
	return &Processor{MinArea: minArea, SizeCross: sizeCross}
}

// Process classifies and draws every region larger than MinArea: a bounding box in the
// region's colour, then a white horizontal and a white vertical line through the
// centroid.
//
// Arguments:
//   - sensor: The colour frame the regions were found in (at least three channels).
//   - set: The labelled regions; never modified.
//   - canvas: Receives the drawing commands.
//
// Returns:
//   - []Object: The drawn regions. The slice is reused by the next call.
//
// @example
// objs := proc.Process(sensor, &regions, canvas)
func (p *Processor) Process(sensor images.FrameBuffer, set *labeling.RegionSet, canvas overlay.Canvas) []Object {
	p.objects = p.objects[:0]
	for i := range set.Regions {
		reg := &set.Regions[i]
		if reg.Area <= p.MinArea {
			continue
		}
		color := ClassifyColor(sensor, reg)

		canvas.DrawBoundingBox(reg.Left, reg.Top, reg.Right, reg.Bottom, false, color)
		canvas.DrawLine(reg.CentroidX-p.SizeCross, reg.CentroidY, reg.CentroidX+p.SizeCross, reg.CentroidY, overlay.WHITE)
		canvas.DrawLine(reg.CentroidX, reg.CentroidY-p.SizeCross, reg.CentroidX, reg.CentroidY+p.SizeCross, overlay.WHITE)

		p.objects = append(p.objects, Object{
			ID:        reg.ID,
			Area:      reg.Area,
			Box:       reg.BBox(),
			CentroidX: reg.CentroidX,
			CentroidY: reg.CentroidY,
			Color:     color,
		})
	}
	return p.objects
}

// ClassifyColor sums the red (channel 2) and blue (channel 0) values over every pixel of
// the region's runs. The region is RED when the red sum is strictly larger, BLUE
// otherwise.
func ClassifyColor(sensor images.FrameBuffer, reg *labeling.Region) overlay.Color {
	var red, blue uint64
	for _, run := range reg.Runs {
		row := sensor.Row(run.Row)
		for c := run.StartColumn; c <= run.EndColumn; c++ {
			px := row[c*sensor.Channels:]
			blue += uint64(px[0])
			red += uint64(px[2])
		}
	}
	if red > blue {
		return overlay.RED
	}
	return overlay.BLUE
}
