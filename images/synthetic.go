package images

// Fill paints every pixel of f with px (one value per channel).
func Fill(f FrameBuffer, px ...uint8) {
	FillRect(f, Rect{X1: 0, Y1: 0, X2: f.Width, Y2: f.Height}, px...)
}

// FillRect paints the pixels of r (clipped to the frame) with px.
//
// @example
// images.FillRect(sensor, images.Rect{X1: 10, Y1: 10, X2: 40, Y2: 40}, 90, 90, 160)
func FillRect(f FrameBuffer, r Rect, px ...uint8) {
	x1, y1 := max(r.X1, 0), max(r.Y1, 0)
	x2, y2 := min(r.X2, f.Width), min(r.Y2, f.Height)
	for y := y1; y < y2; y++ {
		row := f.Row(y)
		for x := x1; x < x2; x++ {
			copy(row[x*f.Channels:(x+1)*f.Channels], px)
		}
	}
}
