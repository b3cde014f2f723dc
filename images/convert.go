// Package images - Conversion between Go images and fixed-shape frame buffers.
package images

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// FromImage writes img into dst in BGR order, resizing it to dst's width and height
// when the bounds differ. dst must have at least three channels; a single-channel dst
// receives the luma of each pixel.
//
// Arguments:
//   - img: The decoded source image (any size).
//   - dst: The destination buffer; its shape is never changed.
//
// Returns:
//   - error: If dst has an unsupported channel count.
//
// @example
// sensor := images.NewFrameBuffer(images.Shape{Width: 320, Height: 240, Channels: 3})
// err := images.FromImage(decoded, sensor)
func FromImage(img image.Image, dst FrameBuffer) error {
	if dst.Channels != 1 && dst.Channels < 3 {
		return errors.Errorf("unsupported channel count %d", dst.Channels)
	}

	b := img.Bounds()
	if b.Dx() != dst.Width || b.Dy() != dst.Height {
		img = resize.Resize(uint(dst.Width), uint(dst.Height), img, resize.Bilinear)
		b = img.Bounds()
	}

	for y := 0; y < dst.Height; y++ {
		row := dst.Row(y)
		for x := 0; x < dst.Width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			if dst.Channels == 1 {
				row[x] = color.GrayModel.Convert(color.RGBA{R: r8, G: g8, B: b8, A: 255}).(color.Gray).Y
				continue
			}
			px := row[x*dst.Channels:]
			px[0], px[1], px[2] = b8, g8, r8
		}
	}
	return nil
}

// ToRGBA renders src into dst for display or encoding. Three-or-more channel buffers are
// read as BGR; single-channel buffers are expanded to gray. dst must have src's size.
func ToRGBA(src FrameBuffer, dst *image.RGBA) error {
	if dst.Rect.Dx() != src.Width || dst.Rect.Dy() != src.Height {
		return errors.Wrapf(ErrShapeMismatch, "rgba %v for %dx%d buffer", dst.Rect, src.Width, src.Height)
	}
	if len(src.Pix) != src.Len() {
		return errors.Wrapf(ErrShapeMismatch, "buffer has %d bytes, want %d", len(src.Pix), src.Len())
	}
	for y := 0; y < src.Height; y++ {
		row := src.Row(y)
		out := dst.Pix[y*dst.Stride : y*dst.Stride+src.Width*4]
		for x := 0; x < src.Width; x++ {
			o := out[x*4 : x*4+4]
			if src.Channels == 1 {
				o[0], o[1], o[2] = row[x], row[x], row[x]
			} else {
				px := row[x*src.Channels:]
				o[0], o[1], o[2] = px[2], px[1], px[0]
			}
			o[3] = 255
		}
	}
	return nil
}

// Luma writes the BT.601 luma of a BGR buffer into a single-channel buffer of the same
// size. A single-channel src is copied unchanged.
func Luma(src, dst FrameBuffer) {
	if src.Channels == 1 {
		copy(dst.Pix, src.Pix)
		return
	}
	n := src.Width * src.Height
	for i := 0; i < n; i++ {
		px := src.Pix[i*src.Channels:]
		// Fixed-point 0.114B + 0.587G + 0.299R.
		dst.Pix[i] = uint8((uint32(px[0])*7471 + uint32(px[1])*38470 + uint32(px[2])*19595) >> 16)
	}
}
