package threshold

import "github.com/nvr-ai/go-ebv/images"

// Foreground is the value written for pixels darker than the threshold.
const Foreground = 255

// Binarize clears dst and marks every non-border pixel of src whose intensity is
// strictly below t as Foreground. Pixels within border of an edge stay 0 so that the
// 3x3 filters downstream never read outside the frame.
//
// Arguments:
//   - src: Single-channel intensity buffer.
//   - dst: Single-channel destination of the same shape; fully overwritten.
//   - t: Threshold. 0 yields an empty mask, 256 marks the whole interior.
//   - border: Width of the excluded band.
func Binarize(src, dst images.FrameBuffer, t int, border int) {
	dst.Clear()
	w := src.Width
	for r := border; r < src.Height-border; r++ {
		in := src.Pix[r*w : (r+1)*w]
		out := dst.Pix[r*w : (r+1)*w]
		for c := border; c < w-border; c++ {
			if int(in[c]) < t {
				out[c] = Foreground
			}
		}
	}
}
