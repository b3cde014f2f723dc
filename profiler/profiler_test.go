package profiler

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAccumulates(t *testing.T) {
	p := New()
	p.Record("otsu", 3*time.Millisecond)
	p.Record("otsu", 1*time.Millisecond)
	p.Record("label", 5*time.Millisecond)

	stats := p.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, StageStats{
		Name: "otsu", Count: 2, Total: 4 * time.Millisecond, Min: time.Millisecond, Max: 3 * time.Millisecond,
	}, stats[0])
	assert.Equal(t, 2*time.Millisecond, stats[0].Avg())
	assert.Equal(t, "label", stats[1].Name)

	p.Reset()
	assert.Empty(t, p.Stats())
}

func TestStartOperation(t *testing.T) {
	p := New()
	clock := time.Unix(0, 0)
	p.now = func() time.Time { return clock }

	done := p.StartOperation("binarize")
	clock = clock.Add(7 * time.Microsecond)
	done()

	stats := p.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, 7*time.Microsecond, stats[0].Total)
	assert.Equal(t, int64(1), stats[0].Count)
}

func TestReportLogsEveryStage(t *testing.T) {
	p := New()
	p.Record("erode", time.Millisecond)
	p.Record("dilate", 2*time.Millisecond)

	var buf bytes.Buffer
	p.Report(zerolog.New(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"stage":"dilate"`)
	assert.Contains(t, lines[1], `"stage":"erode"`)
	assert.Contains(t, lines[2], `"message":"runtime"`)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1024*1024))
}

func TestStatsAvgZeroCount(t *testing.T) {
	assert.Zero(t, StageStats{}.Avg())
}
