package labeling

import "github.com/pkg/errors"

// labeledRun is a run together with its union-find parent.
type labeledRun struct {
	Run
	parent int
	region int
}

// RunLabeler is an 8-connected, two-pass labeller working on runs rather than pixels.
//
// The first pass extracts the runs of every row and unions each with the overlapping
// (or diagonally touching) runs of the row above. The second pass resolves every run
// to its root and accumulates the region properties. Internal scratch storage grows to
// the largest frame seen and is then reused.
//
// A RunLabeler is not safe for concurrent use.
type RunLabeler struct {
	runs []labeledRun
}

// NewRunLabeler returns a labeller with storage pre-sized for roughly runsHint runs.
func NewRunLabeler(runsHint int) *RunLabeler {
	return &RunLabeler{runs: make([]labeledRun, 0, max(runsHint, 0))}
}

// Label fills set with the connected regions of pic.
//
// Arguments:
//   - pic: A PictureBinary picture whose bytes are all 0 or 1.
//   - set: Destination; previous contents are discarded.
//
// Returns:
//   - error: ErrUnsupportedPicture, ErrNotBinary or a size mismatch. set is empty on error.
//
// @example
// labeler := labeling.NewRunLabeler(4096)
// var regions labeling.RegionSet
// err := labeler.Label(labeling.Picture{Data: bin, Width: w, Height: h, Type: labeling.PictureBinary}, &regions)
func (l *RunLabeler) Label(pic Picture, set *RegionSet) error {
	set.Reset()
	if pic.Type != PictureBinary {
		return errors.Wrapf(ErrUnsupportedPicture, "type %d", pic.Type)
	}
	if pic.Width <= 0 || pic.Height <= 0 || len(pic.Data) != pic.Width*pic.Height {
		return errors.Errorf("picture %dx%d has %d bytes", pic.Width, pic.Height, len(pic.Data))
	}

	if err := l.extract(pic); err != nil {
		return err
	}
	l.collect(set)
	return nil
}

// extract records the runs of every row and merges them with the row above.
func (l *RunLabeler) extract(pic Picture) error {
	l.runs = l.runs[:0]
	prevStart, prevEnd := 0, 0 // runs of the previous row are l.runs[prevStart:prevEnd]

	for y := 0; y < pic.Height; y++ {
		row := pic.Data[y*pic.Width : (y+1)*pic.Width]
		rowStart := len(l.runs)

		for x := 0; x < pic.Width; {
			switch row[x] {
			case 0:
				x++
				continue
			case 1:
			default:
				return errors.Wrapf(ErrNotBinary, "value %d at (%d,%d)", row[x], x, y)
			}

			start := x
			for x < pic.Width && row[x] == 1 {
				x++
			}
			idx := len(l.runs)
			l.runs = append(l.runs, labeledRun{
				Run:    Run{Row: y, StartColumn: start, EndColumn: x - 1},
				parent: idx,
			})

			for p := prevStart; p < prevEnd; p++ {
				prev := l.runs[p]
				if prev.EndColumn+1 < start || prev.StartColumn > x {
					continue
				}
				l.union(p, idx)
			}
		}

		prevStart, prevEnd = rowStart, len(l.runs)
	}
	return nil
}

// collect resolves every run to its region and accumulates area, bounds and centroid.
func (l *RunLabeler) collect(set *RegionSet) {
	for i := range l.runs {
		root := l.find(i)
		if root == i {
			l.runs[i].region = set.add()
			reg := &set.Regions[l.runs[i].region]
			reg.ID = l.runs[i].region + 1
			reg.Left, reg.Top = l.runs[i].StartColumn, l.runs[i].Row
			reg.Right, reg.Bottom = l.runs[i].EndColumn, l.runs[i].Row
		} else {
			l.runs[i].region = l.runs[root].region
		}
	}

	// Centroid sums are kept in the centroid fields until the final division.
	for i := range l.runs {
		run := l.runs[i].Run
		reg := &set.Regions[l.runs[i].region]
		n := run.Len()
		reg.Area += n
		reg.Left = min(reg.Left, run.StartColumn)
		reg.Right = max(reg.Right, run.EndColumn)
		reg.Top = min(reg.Top, run.Row)
		reg.Bottom = max(reg.Bottom, run.Row)
		reg.CentroidX += n * (run.StartColumn + run.EndColumn) / 2
		reg.CentroidY += n * run.Row
		reg.Runs = append(reg.Runs, run)
	}

	for i := range set.Regions {
		reg := &set.Regions[i]
		reg.CentroidX /= reg.Area
		reg.CentroidY /= reg.Area
	}
}

func (l *RunLabeler) find(i int) int {
	root := i
	for l.runs[root].parent != root {
		root = l.runs[root].parent
	}
	for l.runs[i].parent != root {
		next := l.runs[i].parent
		l.runs[i].parent = root
		i = next
	}
	return root
}

// union merges two run trees, keeping the lower index as the root so regions are
// numbered in scan order.
func (l *RunLabeler) union(a, b int) {
	ra, rb := l.find(a), l.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		l.runs[rb].parent = ra
	} else {
		l.runs[ra].parent = rb
	}
}
