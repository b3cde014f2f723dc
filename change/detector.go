package change

import (
	"github.com/nvr-ai/go-ebv/images"
	"github.com/pkg/errors"
)

// Foreground is the mask value of a classified pixel.
const Foreground = 255

// Outputs are the working buffers the detector owns for one frame.
type Outputs struct {
	// Mask receives Foreground for classified pixels (single channel).
	Mask images.FrameBuffer
	// Visual receives the matched prototype colour (sensor shape).
	Visual images.FrameBuffer
	// Converted receives the YCbCr pixels in YCbCr mode (sensor shape).
	Converted images.FrameBuffer
	// Scratch is a single-channel working plane, cleared with the others. Callers reuse it
	// for the mask opening and the labeller input.
	Scratch images.FrameBuffer
}

// NewOutputs allocates the working buffers for a sensor shape.
func NewOutputs(sensor images.Shape) *Outputs {
	return &Outputs{
		Mask:      images.NewFrameBuffer(sensor.Plane()),
		Visual:    images.NewFrameBuffer(sensor),
		Converted: images.NewFrameBuffer(sensor),
		Scratch:   images.NewFrameBuffer(sensor.Plane()),
	}
}

// Check verifies every buffer against the sensor shape.
func (o *Outputs) Check(sensor images.Shape) error {
	if err := o.Mask.CheckShape(sensor.Plane()); err != nil {
		return errors.Wrap(err, "mask")
	}
	if err := o.Visual.CheckShape(sensor); err != nil {
		return errors.Wrap(err, "visual")
	}
	if err := o.Converted.CheckShape(sensor); err != nil {
		return errors.Wrap(err, "converted")
	}
	if err := o.Scratch.CheckShape(sensor.Plane()); err != nil {
		return errors.Wrap(err, "scratch")
	}
	return nil
}

func (o *Outputs) clear() {
	o.Mask.Clear()
	o.Visual.Clear()
	o.Converted.Clear()
	o.Scratch.Clear()
}

// classifyFunc classifies every pixel of one frame into out.
type classifyFunc func(d *Detector, sensor images.FrameBuffer, out *Outputs, threshold int)

// Detector classifies sensor pixels against a ColorModel.
type Detector struct {
	model    ColorModel
	classify classifyFunc
}

// NewDetector builds a detector for the given colour model. The colourspace strategy is
// fixed here and never re-evaluated per frame.
//
// Arguments:
//   - model: The foreground prototypes and their colourspace.
//
// Returns:
//   - *Detector: The detector.
//   - error: If the model is invalid.
//
// @example
// det, err := change.NewDetector(change.DefaultColorModel(change.YCbCr))
// det.Detect(sensor, outputs, session.Threshold)
func NewDetector(model ColorModel) (*Detector, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	d := &Detector{model: model}
	switch model.Space {
	case RGB:
		d.classify = classifyRGB
	case YCbCr:
		d.classify = classifyYCbCr
	}
	return d, nil
}

// Model returns the detector's colour model.
func (d *Detector) Model() ColorModel {
	return d.model
}

// Detect clears out and classifies every pixel of sensor. A pixel becomes foreground
// when the nearest prototype (sum of absolute channel differences, channel 0 excluded)
// is closer than threshold.
//
// sensor must have exactly Channels channels and out must match its shape; the
// orchestrator checks both once at construction.
func (d *Detector) Detect(sensor images.FrameBuffer, out *Outputs, threshold int) {
	out.clear()
	d.classify(d, sensor, out, threshold)
}

// nearest returns the index and distance of the prototype closest to a pixel's
// channels 1 and 2. The first prototype wins ties.
func (d *Detector) nearest(c1, c2 uint8) (int, int) {
	minDist := 1 << 30
	minIdx := 0
	for i, p := range d.model.Prototypes {
		dist := absDiff(c1, p[1]) + absDiff(c2, p[2])
		if dist < minDist {
			minDist = dist
			minIdx = i
		}
	}
	return minIdx, minDist
}

func classifyRGB(d *Detector, sensor images.FrameBuffer, out *Outputs, threshold int) {
	ch := sensor.Channels
	n := sensor.Width * sensor.Height
	for i := 0; i < n; i++ {
		px := sensor.Pix[i*ch : i*ch+ch]
		idx, dist := d.nearest(px[1], px[2])
		if dist < threshold {
			out.Mask.Pix[i] = Foreground
			copy(out.Visual.Pix[i*ch:i*ch+3], d.model.Prototypes[idx][:])
		}
	}
}

func classifyYCbCr(d *Detector, sensor images.FrameBuffer, out *Outputs, threshold int) {
	ch := sensor.Channels
	n := sensor.Width * sensor.Height
	for i := 0; i < n; i++ {
		px := sensor.Pix[i*ch : i*ch+ch]
		y, cb, cr := ToYCbCr(px[0], px[1], px[2])
		conv := out.Converted.Pix[i*ch : i*ch+3]
		conv[0], conv[1], conv[2] = y, cb, cr

		idx, dist := d.nearest(cb, cr)
		if dist < threshold {
			out.Mask.Pix[i] = Foreground
			copy(out.Visual.Pix[i*ch:i*ch+3], d.model.Prototypes[idx][:])
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
