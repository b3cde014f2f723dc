package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderKeepsCallOrder(t *testing.T) {
	var rec Recorder
	rec.DrawBoundingBox(1, 2, 3, 4, false, RED)
	rec.DrawLine(0, 5, 10, 5, WHITE)
	rec.DrawString(20, 20, 16, SMALL, CYAN, "manual threshold")

	require.Len(t, rec.Commands, 3)
	assert.Equal(t, Command{Kind: KindBox, X1: 1, Y1: 2, X2: 3, Y2: 4, Color: RED}, rec.Commands[0])
	assert.Equal(t, KindLine, rec.Commands[1].Kind)
	assert.Equal(t, "manual threshold", rec.Commands[2].Text)
	assert.Equal(t, 16, rec.Commands[2].Length)
	assert.Len(t, rec.Filter(KindLine), 1)

	rec.Reset()
	assert.Empty(t, rec.Commands)
}

func TestRecorderReplay(t *testing.T) {
	var src, dst Recorder
	src.DrawBoundingBox(0, 0, 9, 9, true, BLUE)
	src.DrawString(1, 1, 2, LARGE, YELLOW, "ok")
	src.Replay(&dst)
	assert.Equal(t, src.Commands, dst.Commands)

	// Discard accepts anything.
	src.Replay(Discard)
}

func TestColor(t *testing.T) {
	assert.Equal(t, "cyan", CYAN.String())
	assert.Equal(t, "color(42)", Color(42).String())

	b, g, r := RED.BGR()
	assert.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{b, g, r})
	b, g, r = BLUE.BGR()
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{b, g, r})
}
