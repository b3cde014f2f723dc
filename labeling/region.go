// Package labeling - Connected-component labelling of binary masks into run-length
// described regions.
//
// A Labeler turns a {0,1} picture into a RegionSet. The set owns all of its storage:
// every Region holds its own ordered slice of Runs, and the set is reused frame after
// frame so steady-state labelling does not allocate.
package labeling

import (
	"github.com/nvr-ai/go-ebv/images"
	"github.com/pkg/errors"
)

var (
	// ErrNotBinary is returned when a picture holds a value other than 0 or 1.
	ErrNotBinary = errors.New("picture is not binary")
	// ErrUnsupportedPicture is returned for picture types the labeler cannot read.
	ErrUnsupportedPicture = errors.New("unsupported picture type")
)

// PictureType describes how the bytes of a Picture are interpreted.
type PictureType int

const (
	// PictureBinary holds one byte per pixel, each 0 or 1.
	PictureBinary PictureType = iota
	// PictureGray holds one 8-bit intensity per pixel.
	PictureGray
	// PictureBGR holds three interleaved bytes per pixel.
	PictureBGR
)

// Picture wraps a buffer with the metadata the labeler needs.
type Picture struct {
	Data   []byte
	Width  int
	Height int
	Type   PictureType
}

// Run is a maximal horizontal segment of one region within a row. Columns are inclusive.
type Run struct {
	Row         int
	StartColumn int
	EndColumn   int
}

// Len returns the number of pixels in the run.
func (r Run) Len() int {
	return r.EndColumn - r.StartColumn + 1
}

// Region is one connected component. Bounding box coordinates are inclusive.
type Region struct {
	ID        int
	Area      int
	Left      int
	Top       int
	Right     int
	Bottom    int
	CentroidX int
	CentroidY int
	// Runs cover exactly the region's pixels, ordered by row then column.
	Runs []Run
}

// BBox returns the bounding box as an exclusive-max images.Rect.
func (r *Region) BBox() images.Rect {
	return images.RectFromInclusive(r.Left, r.Top, r.Right, r.Bottom)
}

// RegionSet is the labeller's per-frame output.
type RegionSet struct {
	Regions []Region
}

// Count returns the number of regions found in the last labelled frame.
func (s *RegionSet) Count() int {
	return len(s.Regions)
}

// Reset empties the set while keeping its storage.
func (s *RegionSet) Reset() {
	s.Regions = s.Regions[:0]
}

// add appends an empty region, reusing a previous frame's run storage when possible,
// and returns its index.
func (s *RegionSet) add() int {
	n := len(s.Regions)
	if n < cap(s.Regions) {
		s.Regions = s.Regions[:n+1]
		runs := s.Regions[n].Runs[:0]
		s.Regions[n] = Region{Runs: runs}
	} else {
		s.Regions = append(s.Regions, Region{})
	}
	return n
}

// Labeler groups the set pixels of a binary picture into connected regions.
type Labeler interface {
	Label(pic Picture, set *RegionSet) error
}
