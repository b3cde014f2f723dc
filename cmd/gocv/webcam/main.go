// Command webcam previews a capture device through the camera source at the
// configured resolution, with the measured frame rate as an overlay. It is used to
// check a sensor before running the pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nvr-ai/go-ebv/capture/camera"
	"github.com/nvr-ai/go-ebv/config"
	"github.com/nvr-ai/go-ebv/display"
	"github.com/nvr-ai/go-ebv/images"
	"github.com/nvr-ai/go-ebv/logger"
	"github.com/nvr-ai/go-ebv/overlay"
	"github.com/nvr-ai/go-ebv/profiler"
)

func main() {
	deviceID := flag.Int("device", 0, "capture device index")
	resolution := flag.String("resolution", string(images.ResolutionTypeWVGA752), "resolution name or WIDTHxHEIGHT")
	flag.Parse()

	log := logger.New(config.Log{Level: "info", Format: "console"})

	res, err := images.ParseResolution(*resolution)
	if err != nil {
		log.Fatal().Err(err).Msg("bad resolution")
	}

	src, err := camera.OpenDevice(*deviceID)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open device")
	}
	defer src.Close()

	window := display.NewWindow("webcam")
	defer window.Close()

	frame := images.NewFrameBuffer(res.Shape(3))
	prof := profiler.New()
	var rec overlay.Recorder

	// FPS tracking variables
	fps := 0.0
	frameCount := 0
	lastTime := time.Now()

	log.Info().Int("device", *deviceID).Stringer("resolution", res).Msg("start reading camera")
	for window.IsOpen() {
		done := prof.StartOperation("read")
		_, err := src.Next(context.Background(), &frame)
		done()
		if err != nil {
			log.Error().Err(err).Int("device", *deviceID).Msg("cannot read device")
			os.Exit(1)
		}

		frameCount++
		if elapsed := time.Since(lastTime).Seconds(); elapsed >= 1.0 {
			fps = float64(frameCount) / elapsed
			frameCount = 0
			lastTime = time.Now()
		}

		rec.Reset()
		text := fmt.Sprintf("FPS: %.2f", fps)
		rec.DrawString(10, 10, len(text), overlay.SMALL, overlay.GREEN, text)

		key, err := window.Show(frame, &rec, 1)
		if err != nil {
			log.Error().Err(err).Msg("display failed")
			os.Exit(1)
		}
		if key == 'q' || key == 27 {
			break
		}
	}
	prof.Report(log)
}
