package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nvr-ai/go-ebv/capture"
	"github.com/nvr-ai/go-ebv/capture/camera"
	"github.com/nvr-ai/go-ebv/config"
	"github.com/nvr-ai/go-ebv/controller"
	"github.com/nvr-ai/go-ebv/display"
	"github.com/nvr-ai/go-ebv/images"
	"github.com/nvr-ai/go-ebv/overlay"
	"github.com/nvr-ai/go-ebv/snapshot"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// syntheticBlockSize is the edge length of the synthetic scene's blocks.
const syntheticBlockSize = 40

// openSource builds the configured frame source.
func openSource(cfg config.Source, frames uint64) (capture.Source, error) {
	switch cfg.Kind {
	case config.SourceVideo:
		if cfg.Path != "" {
			return camera.OpenFile(cfg.Path, cfg.Loop)
		}
		return camera.OpenDevice(cfg.Device)
	case config.SourceDirectory:
		return capture.NewDirectorySource(cfg.Path, cfg.Loop)
	case config.SourceSynthetic:
		return capture.NewSyntheticSource(frames, syntheticBlockSize), nil
	default:
		return nil, errors.Errorf("unknown source kind %q", cfg.Kind)
	}
}

// run drives the capture, process and display loop until the source ends, the frame
// limit is reached, the window asks to quit or the process is interrupted.
func run(parent context.Context, cfg *config.Config, log zerolog.Logger, frames uint64) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := controller.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	rec := &overlay.Recorder{}
	opts.Canvas = rec
	opts.Logger = log

	session := controller.NewSession(cfg.Pipeline.Threshold)
	orch, err := controller.NewOrchestrator(opts, session)
	if err != nil {
		return err
	}

	src, err := openSource(cfg.Source, frames)
	if err != nil {
		return err
	}
	defer src.Close()

	var saver *snapshot.Saver
	if cfg.Output.SnapshotEvery > 0 {
		saver, err = snapshot.NewSaver(cfg.Output.SnapshotDir, cfg.Output.SnapshotFormat, cfg.Output.JPEGQuality)
		if err != nil {
			return err
		}
	}

	var win *display.Window
	if cfg.Output.Window {
		win = display.NewWindow("ebv")
		defer win.Close()
	}

	log.Info().
		Str("source", cfg.Source.Kind).
		Int("width", opts.Shape.Width).
		Int("height", opts.Shape.Height).
		Str("colorspace", opts.Model.Space.String()).
		Int("threshold", session.Threshold).
		Msg("pipeline started")

	sensor := images.NewFrameBuffer(opts.Shape)
	view := controller.ViewSensor
	reportEvery := uint64(cfg.Profiler.ReportEvery)
	snapshotEvery := uint64(cfg.Output.SnapshotEvery)

	var processed uint64
	for frames == 0 || processed < frames {
		rec.Reset()
		n, err := src.Next(ctx, &sensor)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			break
		}
		if err != nil {
			return errors.Wrap(err, "failed to read frame")
		}

		res, err := orch.ProcessFrame(controller.Frame{Counter: n, Sensor: sensor})
		if err != nil {
			return err
		}
		processed++

		if saver != nil && !res.Skipped && n%snapshotEvery == 0 {
			if path, err := saver.Save(n, sensor, rec); err != nil {
				log.Warn().Err(err).Uint64("frame", n).Msg("snapshot failed")
			} else {
				log.Debug().Str("path", path).Msg("snapshot saved")
			}
		}

		if win != nil {
			key, err := win.Show(orch.Buffers().Select(view, sensor), rec, 1)
			if err != nil {
				log.Warn().Err(err).Msg("display failed")
			}
			switch controller.HandleKey(key, session, &view) {
			case controller.KeyQuit:
				log.Info().Msg("quit requested")
				return nil
			case controller.KeyToggled, controller.KeyThreshold:
				log.Info().Bool("manual", session.ManualThreshold).Int("threshold", session.Threshold).Msg("session changed")
			case controller.KeyView:
				log.Info().Stringer("view", view).Msg("view changed")
			}
			if !win.IsOpen() {
				return nil
			}
		}

		if reportEvery > 0 && n%reportEvery == 0 {
			orch.Profiler().Report(log)
		}
	}

	orch.Profiler().Report(log)
	log.Info().Uint64("frames", processed).Msg("pipeline stopped")
	return nil
}
