package capture

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg" // register decoders for image.Decode
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/jsummers/gobmp"
	"github.com/nvr-ai/go-ebv/images"
	"github.com/pkg/errors"
)

// ErrNoFrames is returned when a replay directory holds no readable images.
var ErrNoFrames = errors.New("no image files found")

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Frame is the frame number parsed from a "frame-N" style name, or the file's
	// position in name order when the name carries no number.
	Frame int
}

// ListImageFiles returns the image files of a directory ordered by frame number.
//
// Arguments:
//   - dir: Directory path containing image files.
//
// Returns:
//   - []ImageFile: The files, sorted.
//   - error: If the directory cannot be read.
func ListImageFiles(dir string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", dir)
	}

	var files []ImageFile
	for i, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".bmp", ".webp":
		default:
			continue
		}
		frame, ok := frameNumber(entry.Name())
		if !ok {
			frame = i
		}
		files = append(files, ImageFile{Path: filepath.Join(dir, entry.Name()), Frame: frame})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Frame < files[j].Frame
	})
	return files, nil
}

// frameNumber extracts N from names like "frame-N.ext", "frame_N.ext" or "N.ext".
func frameNumber(name string) (int, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.TrimPrefix(strings.TrimPrefix(stem, "frame-"), "frame_")
	n, err := strconv.Atoi(stem)
	return n, err == nil
}

// DecodeImage decodes JPEG, PNG, BMP or WebP data, choosing the decoder from ext.
func DecodeImage(data []byte, ext string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(ext) {
	case ".webp":
		return webp.Decode(r)
	case ".bmp":
		return gobmp.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

// DirectorySource replays the images of a directory as frames, resizing each to the
// destination shape.
type DirectorySource struct {
	files   []ImageFile
	loop    bool
	next    int
	counter uint64
}

// NewDirectorySource lists dir and prepares a replay.
//
// @example
// src, err := capture.NewDirectorySource("testdata/frames", true)
// n, err := src.Next(ctx, &sensor)
func NewDirectorySource(dir string, loop bool) (*DirectorySource, error) {
	files, err := ListImageFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNoFrames, "%s", dir)
	}
	return &DirectorySource{files: files, loop: loop}, nil
}

// Len returns the number of frames in one pass.
func (s *DirectorySource) Len() int {
	return len(s.files)
}

func (s *DirectorySource) Next(ctx context.Context, dst *images.FrameBuffer) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.next >= len(s.files) {
		if !s.loop {
			return 0, io.EOF
		}
		s.next = 0
	}

	file := s.files[s.next]
	s.next++

	data, err := os.ReadFile(file.Path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read %s", file.Path)
	}
	img, err := DecodeImage(data, filepath.Ext(file.Path))
	if err != nil {
		return 0, errors.Wrapf(err, "failed to decode %s", file.Path)
	}
	if err := images.FromImage(img, *dst); err != nil {
		return 0, errors.Wrapf(err, "failed to convert %s", file.Path)
	}

	s.counter++
	return s.counter, nil
}

func (s *DirectorySource) Close() error {
	return nil
}
