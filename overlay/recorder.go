package overlay

import "fmt"

// Kind identifies the drawing primitive of a Command.
type Kind int

// Command kinds.
const (
	KindBox Kind = iota
	KindLine
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindLine:
		return "line"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Command is one recorded drawing call. For boxes X1,Y1..X2,Y2 is left,top..right,bottom.
type Command struct {
	Kind   Kind
	X1, Y1 int
	X2, Y2 int
	Filled bool
	Color  Color
	Size   FontSize
	Length int
	Text   string
}

// Recorder is a Canvas that keeps every command in call order. Replay forwards the
// recorded commands to another canvas, so a frame's overlay can be drawn after the
// pipeline has finished with it.
type Recorder struct {
	Commands []Command
}

// Reset drops the recorded commands and keeps the storage.
func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
}

func (r *Recorder) DrawBoundingBox(left, top, right, bottom int, filled bool, c Color) {
	r.Commands = append(r.Commands, Command{
		Kind: KindBox, X1: left, Y1: top, X2: right, Y2: bottom, Filled: filled, Color: c,
	})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 int, c Color) {
	r.Commands = append(r.Commands, Command{Kind: KindLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Color: c})
}

func (r *Recorder) DrawString(x, y, length int, size FontSize, c Color, text string) {
	r.Commands = append(r.Commands, Command{
		Kind: KindString, X1: x, Y1: y, Length: length, Size: size, Color: c, Text: text,
	})
}

// Filter returns the recorded commands of one kind.
func (r *Recorder) Filter(kind Kind) []Command {
	var out []Command
	for _, cmd := range r.Commands {
		if cmd.Kind == kind {
			out = append(out, cmd)
		}
	}
	return out
}

// Replay draws every recorded command onto dst in order.
func (r *Recorder) Replay(dst Canvas) {
	for _, cmd := range r.Commands {
		switch cmd.Kind {
		case KindBox:
			dst.DrawBoundingBox(cmd.X1, cmd.Y1, cmd.X2, cmd.Y2, cmd.Filled, cmd.Color)
		case KindLine:
			dst.DrawLine(cmd.X1, cmd.Y1, cmd.X2, cmd.Y2, cmd.Color)
		case KindString:
			dst.DrawString(cmd.X1, cmd.Y1, cmd.Length, cmd.Size, cmd.Color, cmd.Text)
		}
	}
}
