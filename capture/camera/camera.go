// Package camera - OpenCV-backed frame source for capture devices and video files.
package camera

import (
	"context"
	"image"
	"io"

	"github.com/nvr-ai/go-ebv/images"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Source reads frames through gocv.VideoCapture and resizes them to the destination
// shape when the device delivers a different size.
type Source struct {
	capture *gocv.VideoCapture
	loop    bool
	file    bool
	img     gocv.Mat
	resized gocv.Mat
	counter uint64
}

// OpenDevice opens a capture device by index.
//
// @example
// src, err := camera.OpenDevice(0)
// defer src.Close()
func OpenDevice(device int) (*Source, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open capture device %d", device)
	}
	return newSource(vc, false, false), nil
}

// OpenFile opens a video file. With loop set, the file restarts at its end.
func OpenFile(path string, loop bool) (*Source, error) {
	vc, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open video %s", path)
	}
	return newSource(vc, true, loop), nil
}

func newSource(vc *gocv.VideoCapture, file, loop bool) *Source {
	return &Source{
		capture: vc,
		file:    file,
		loop:    loop,
		img:     gocv.NewMat(),
		resized: gocv.NewMat(),
	}
}

// Next reads one frame into dst, which must have three channels.
func (s *Source) Next(ctx context.Context, dst *images.FrameBuffer) (uint64, error) {
	if dst.Channels != 3 {
		return 0, errors.Errorf("camera frames are BGR, buffer has %d channels", dst.Channels)
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if ok := s.capture.Read(&s.img); !ok {
			if s.file && s.loop {
				s.capture.Set(gocv.VideoCapturePosFrames, 0)
				if ok = s.capture.Read(&s.img); ok {
					break
				}
			}
			return 0, io.EOF
		}
		if !s.img.Empty() {
			break
		}
	}

	src := s.img
	if src.Cols() != dst.Width || src.Rows() != dst.Height {
		gocv.Resize(s.img, &s.resized, image.Point{X: dst.Width, Y: dst.Height}, 0, 0, gocv.InterpolationLinear)
		src = s.resized
	}

	data, err := src.DataPtrUint8()
	if err != nil {
		return 0, errors.Wrap(err, "failed to access frame data")
	}
	if len(data) != len(dst.Pix) {
		return 0, errors.Wrapf(images.ErrShapeMismatch, "camera frame has %d bytes, buffer %d", len(data), len(dst.Pix))
	}
	copy(dst.Pix, data)

	s.counter++
	return s.counter, nil
}

// Close releases the capture device and the frame matrices.
func (s *Source) Close() error {
	s.img.Close()
	s.resized.Close()
	return s.capture.Close()
}
