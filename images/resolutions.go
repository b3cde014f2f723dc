// Package images provides the named sensor resolutions a device can be configured with.
// The pipeline runs at exactly one of them for the lifetime of the process.
package images

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownResolution is returned when a resolution name cannot be resolved.
var ErrUnknownResolution = errors.New("unknown resolution")

// ResolutionType represents a common name for a sensor resolution.
type ResolutionType string

// Supported resolution names. WVGA752 is the native full frame of the
// 752x480 global-shutter sensors the device ships with.
const (
	ResolutionTypeQQVGA   ResolutionType = "QQVGA"
	ResolutionTypeQVGA    ResolutionType = "QVGA"
	ResolutionTypeVGA     ResolutionType = "VGA"
	ResolutionTypeWVGA752 ResolutionType = "WVGA752"
	ResolutionTypeNHD     ResolutionType = "nHD"
	ResolutionTypeHD720p  ResolutionType = "HD 720p"
)

// Pixels describes the exact dimensions of a resolution.
type Pixels struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Resolution describes a named sensor resolution.
type Resolution struct {
	Name   ResolutionType `json:"name"`
	Pixels Pixels         `json:"pixels"`
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d)", r.Name, r.Pixels.Width, r.Pixels.Height)
}

// Shape returns the frame shape of this resolution with the given channel count.
func (r Resolution) Shape(channels int) Shape {
	return Shape{Width: r.Pixels.Width, Height: r.Pixels.Height, Channels: channels}
}

var resolutions = map[ResolutionType]Resolution{
	ResolutionTypeQQVGA:   {Name: ResolutionTypeQQVGA, Pixels: Pixels{Width: 160, Height: 120}},
	ResolutionTypeQVGA:    {Name: ResolutionTypeQVGA, Pixels: Pixels{Width: 320, Height: 240}},
	ResolutionTypeVGA:     {Name: ResolutionTypeVGA, Pixels: Pixels{Width: 640, Height: 480}},
	ResolutionTypeWVGA752: {Name: ResolutionTypeWVGA752, Pixels: Pixels{Width: 752, Height: 480}},
	ResolutionTypeNHD:     {Name: ResolutionTypeNHD, Pixels: Pixels{Width: 640, Height: 360}},
	ResolutionTypeHD720p:  {Name: ResolutionTypeHD720p, Pixels: Pixels{Width: 1280, Height: 720}},
}

// GetAllResolutions returns every named resolution ordered by pixel count.
func GetAllResolutions() []Resolution {
	all := make([]Resolution, 0, len(resolutions))
	for _, res := range resolutions {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		pi := all[i].Pixels.Width * all[i].Pixels.Height
		pj := all[j].Pixels.Width * all[j].Pixels.Height
		if pi == pj {
			return all[i].Name < all[j].Name
		}
		return pi < pj
	})
	return all
}

// GetResolutionByType retrieves a specific resolution by its type.
func GetResolutionByType(t ResolutionType) (Resolution, bool) {
	res, ok := resolutions[t]
	return res, ok
}

// ParseResolution resolves either a named resolution ("VGA", case-insensitive) or an
// explicit "WIDTHxHEIGHT" string.
//
// Arguments:
//   - s: The resolution name or dimensions.
//
// Returns:
//   - Resolution: The resolved resolution.
//   - error: ErrUnknownResolution if s is neither a known name nor valid dimensions.
//
// @example
// res, _ := ParseResolution("752x480")
// shape := res.Shape(3)
func ParseResolution(s string) (Resolution, error) {
	s = strings.TrimSpace(s)
	for name, res := range resolutions {
		if strings.EqualFold(string(name), s) {
			return res, nil
		}
	}

	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Resolution{}, errors.Wrapf(ErrUnknownResolution, "%q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return Resolution{}, errors.Wrapf(ErrUnknownResolution, "bad width in %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return Resolution{}, errors.Wrapf(ErrUnknownResolution, "bad height in %q", s)
	}

	for _, res := range resolutions {
		if res.Pixels.Width == width && res.Pixels.Height == height {
			return res, nil
		}
	}
	return Resolution{Name: ResolutionType(s), Pixels: Pixels{Width: width, Height: height}}, nil
}
