package display

import (
	"github.com/nvr-ai/go-ebv/images"
	"github.com/nvr-ai/go-ebv/overlay"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FrameToMat copies a frame buffer into a new BGR Mat; single-channel buffers are
// expanded from gray. The caller closes the Mat.
func FrameToMat(buf images.FrameBuffer) (gocv.Mat, error) {
	switch buf.Channels {
	case 1:
		gray, err := gocv.NewMatFromBytes(buf.Height, buf.Width, gocv.MatTypeCV8UC1, buf.Pix)
		if err != nil {
			return gocv.NewMat(), errors.Wrap(err, "failed to wrap gray frame")
		}
		defer gray.Close()
		bgr := gocv.NewMat()
		gocv.CvtColor(gray, &bgr, gocv.ColorGrayToBGR)
		return bgr, nil
	case 3:
		mat, err := gocv.NewMatFromBytes(buf.Height, buf.Width, gocv.MatTypeCV8UC3, buf.Pix)
		if err != nil {
			return gocv.NewMat(), errors.Wrap(err, "failed to wrap BGR frame")
		}
		// Clone so drawing never touches the pipeline's buffer.
		defer mat.Close()
		return mat.Clone(), nil
	default:
		return gocv.NewMat(), errors.Errorf("cannot display %d channels", buf.Channels)
	}
}

// Window is the preview window of the device.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a named window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays buf with the recorded overlay drawn on top and polls the keyboard for
// up to delayMs milliseconds.
//
// Returns:
//   - int: The pressed key, or -1 when none was pressed.
//   - error: If the buffer cannot be displayed.
func (w *Window) Show(buf images.FrameBuffer, rec *overlay.Recorder, delayMs int) (int, error) {
	mat, err := FrameToMat(buf)
	if err != nil {
		return -1, err
	}
	defer mat.Close()

	if rec != nil {
		rec.Replay(NewMatCanvas(&mat))
	}
	w.win.IMShow(mat)
	return w.win.WaitKey(max(delayMs, 1)), nil
}

// IsOpen reports whether the user has not closed the window.
func (w *Window) IsOpen() bool {
	return w.win.IsOpen()
}

// Close closes the window.
func (w *Window) Close() error {
	return w.win.Close()
}
