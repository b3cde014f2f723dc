package overlay

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageCanvas rasterises overlay commands directly into an RGBA image. It is used for
// annotated snapshots where no OpenCV window is available.
type ImageCanvas struct {
	Img *image.RGBA
}

// NewImageCanvas wraps img.
func NewImageCanvas(img *image.RGBA) *ImageCanvas {
	return &ImageCanvas{Img: img}
}

// RGBA returns c as an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	b, g, r := c.BGR()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func (ic *ImageCanvas) DrawBoundingBox(left, top, right, bottom int, filled bool, c Color) {
	col := c.RGBA()
	if filled {
		for y := top; y <= bottom; y++ {
			for x := left; x <= right; x++ {
				ic.Img.SetRGBA(x, y, col)
			}
		}
		return
	}
	for x := left; x <= right; x++ {
		ic.Img.SetRGBA(x, top, col)
		ic.Img.SetRGBA(x, bottom, col)
	}
	for y := top; y <= bottom; y++ {
		ic.Img.SetRGBA(left, y, col)
		ic.Img.SetRGBA(right, y, col)
	}
}

// DrawLine draws with Bresenham's algorithm; points outside the image are dropped.
func (ic *ImageCanvas) DrawLine(x1, y1, x2, y2 int, c Color) {
	col := c.RGBA()
	dx, dy := abs(x2-x1), -abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	e := dx + dy
	for {
		ic.Img.SetRGBA(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

// DrawString renders the first length bytes of text with its top-left corner at (x, y).
// Every size uses the 7x13 fixed font.
func (ic *ImageCanvas) DrawString(x, y, length int, _ FontSize, c Color, text string) {
	if length < len(text) {
		text = text[:max(length, 0)]
	}
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  ic.Img,
		Src:  image.NewUniform(c.RGBA()),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
