// Package display - OpenCV preview window and overlay rasterisation with gocv.
package display

import (
	"image"

	"github.com/nvr-ai/go-ebv/overlay"
	"gocv.io/x/gocv"
)

// fontScales maps overlay font sizes to Hershey plain scales.
var fontScales = map[overlay.FontSize]float64{
	overlay.SMALL:  1.0,
	overlay.MEDIUM: 1.4,
	overlay.LARGE:  2.0,
}

// MatCanvas draws overlay commands onto a BGR gocv.Mat.
type MatCanvas struct {
	Mat *gocv.Mat
	// Thickness is the stroke width of boxes and lines.
	Thickness int
}

// NewMatCanvas wraps mat with one-pixel strokes.
func NewMatCanvas(mat *gocv.Mat) *MatCanvas {
	return &MatCanvas{Mat: mat, Thickness: 1}
}

func (mc *MatCanvas) DrawBoundingBox(left, top, right, bottom int, filled bool, c overlay.Color) {
	thickness := mc.Thickness
	if filled {
		thickness = -1
	}
	gocv.Rectangle(mc.Mat, image.Rect(left, top, right+1, bottom+1), c.RGBA(), thickness)
}

func (mc *MatCanvas) DrawLine(x1, y1, x2, y2 int, c overlay.Color) {
	gocv.Line(mc.Mat, image.Pt(x1, y1), image.Pt(x2, y2), c.RGBA(), mc.Thickness)
}

// DrawString puts the first length bytes of text with its top-left corner at (x, y).
func (mc *MatCanvas) DrawString(x, y, length int, size overlay.FontSize, c overlay.Color, text string) {
	if length < len(text) {
		text = text[:max(length, 0)]
	}
	scale, ok := fontScales[size]
	if !ok {
		scale = fontScales[overlay.SMALL]
	}
	// PutText anchors at the baseline.
	baseline := y + int(12*scale)
	gocv.PutText(mc.Mat, text, image.Pt(x, baseline), gocv.FontHersheyPlain, scale, c.RGBA(), 1)
}
