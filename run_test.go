package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-ebv/config"
	"github.com/nvr-ai/go-ebv/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSyntheticWithSnapshots(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Frame = config.Frame{Resolution: "QQVGA", Channels: 3}
	cfg.Output.SnapshotDir = dir
	cfg.Output.SnapshotEvery = 2
	cfg.Output.SnapshotFormat = config.FormatPNG
	cfg.Profiler.ReportEvery = 0
	require.NoError(t, cfg.Validate())

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, config.Log{Level: "debug", Format: "json"})

	require.NoError(t, run(context.Background(), cfg, log, 4))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "frames 2 and 4 are saved")
	assert.FileExists(t, filepath.Join(dir, "frame_000004.png"))

	assert.Contains(t, buf.String(), `"message":"pipeline stopped"`)
	assert.Contains(t, buf.String(), `"frames":4`)
	assert.Contains(t, buf.String(), `"stage":"otsu"`)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Frame = config.Frame{Resolution: "QQVGA", Channels: 3}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, config.Log{Level: "info", Format: "json"})
	require.NoError(t, run(ctx, cfg, log, 0))
	assert.Contains(t, buf.String(), `"frames":0`)
}

func TestOpenSourceRejectsUnknownKind(t *testing.T) {
	_, err := openSource(config.Source{Kind: "rtsp"}, 0)
	assert.Error(t, err)
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ebv.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "init", path})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "wrote")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Pipeline.MinArea)

	rootCmd.SetArgs([]string{"config", "init", path})
	assert.Error(t, rootCmd.Execute(), "refuses to overwrite")
}
