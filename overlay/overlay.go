// Package overlay - Drawing primitives the pipeline emits on top of a frame.
//
// The pipeline never draws pixels itself. It emits commands through a Canvas, which may
// rasterise them (see the display package), record them for tests, or ignore them.
package overlay

import "fmt"

// Color is one of the fixed overlay colours.
type Color int

// Overlay colours.
const (
	RED Color = iota
	BLUE
	GREEN
	WHITE
	BLACK
	CYAN
	MAGENTA
	YELLOW
)

var colorNames = [...]string{"red", "blue", "green", "white", "black", "cyan", "magenta", "yellow"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

// BGR returns the colour as blue, green, red components.
func (c Color) BGR() (b, g, r uint8) {
	switch c {
	case RED:
		return 0, 0, 255
	case BLUE:
		return 255, 0, 0
	case GREEN:
		return 0, 255, 0
	case WHITE:
		return 255, 255, 255
	case CYAN:
		return 255, 255, 0
	case MAGENTA:
		return 255, 0, 255
	case YELLOW:
		return 0, 255, 255
	default:
		return 0, 0, 0
	}
}

// FontSize selects one of the canvas fonts.
type FontSize int

// Font sizes.
const (
	SMALL FontSize = iota
	MEDIUM
	LARGE
)

// Canvas receives overlay drawing commands. Coordinates are pixels; box corners are
// inclusive.
type Canvas interface {
	DrawBoundingBox(left, top, right, bottom int, filled bool, c Color)
	DrawLine(x1, y1, x2, y2 int, c Color)
	DrawString(x, y, length int, size FontSize, c Color, text string)
}

// Discard is a Canvas that drops every command.
var Discard Canvas = discard{}

type discard struct{}

func (discard) DrawBoundingBox(int, int, int, int, bool, Color) {}
func (discard) DrawLine(int, int, int, int, Color)               {}
func (discard) DrawString(int, int, int, FontSize, Color, string) {}
