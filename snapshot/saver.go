// Package snapshot - Annotated frame snapshots written as JPEG, PNG or WebP.
package snapshot

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/chai2010/webp"
	"github.com/nvr-ai/go-ebv/images"
	"github.com/nvr-ai/go-ebv/overlay"
	"github.com/pkg/errors"
)

// ErrUnsupportedFormat is returned for snapshot formats other than jpeg, png and webp.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// Saver writes frames with their overlay to disk.
type Saver struct {
	dir           string
	format        string
	jpegQuality   int
	img           *image.RGBA
	framesSaved   atomic.Uint64
	framesDropped atomic.Uint64
}

// NewSaver creates dir if needed and returns a saver for the given format.
//
// Arguments:
//   - dir: Output directory.
//   - format: "jpeg", "png" or "webp".
//   - jpegQuality: 1-100; also used as the lossy WebP quality.
//
// Returns:
//   - *Saver: The saver.
//   - error: If the directory cannot be created or the format is unknown.
func NewSaver(dir, format string, jpegQuality int) (*Saver, error) {
	switch format {
	case "jpeg", "png", "webp":
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", dir)
	}
	return &Saver{dir: dir, format: format, jpegQuality: jpegQuality}, nil
}

// Path returns the file name used for a frame counter.
func (s *Saver) Path(counter uint64) string {
	ext := s.format
	if ext == "jpeg" {
		ext = "jpg"
	}
	return filepath.Join(s.dir, fmt.Sprintf("frame_%06d.%s", counter, ext))
}

// Save renders frame, draws rec's commands on it and writes the result.
func (s *Saver) Save(counter uint64, frame images.FrameBuffer, rec *overlay.Recorder) (string, error) {
	if s.img == nil || s.img.Rect.Dx() != frame.Width || s.img.Rect.Dy() != frame.Height {
		s.img = image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	}
	if err := images.ToRGBA(frame, s.img); err != nil {
		s.framesDropped.Add(1)
		return "", errors.Wrap(err, "failed to render frame")
	}
	if rec != nil {
		rec.Replay(overlay.NewImageCanvas(s.img))
	}

	path := s.Path(counter)
	f, err := os.Create(path)
	if err != nil {
		s.framesDropped.Add(1)
		return "", errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := s.Encode(f, s.img); err != nil {
		s.framesDropped.Add(1)
		return "", errors.Wrapf(err, "failed to encode %s", path)
	}
	s.framesSaved.Add(1)
	return path, nil
}

// Encode writes img in the saver's format.
func (s *Saver) Encode(w io.Writer, img image.Image) error {
	switch s.format {
	case "png":
		return png.Encode(w, img)
	case "webp":
		return webp.Encode(w, img, &webp.Options{Quality: float32(s.jpegQuality)})
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: s.jpegQuality})
	}
}

// Saved returns the number of snapshots written.
func (s *Saver) Saved() uint64 { return s.framesSaved.Load() }

// Dropped returns the number of snapshots that failed.
func (s *Saver) Dropped() uint64 { return s.framesDropped.Load() }
