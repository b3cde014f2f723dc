// Package capture - Frame sources feeding the pipeline: image directory replay and a
// synthetic scene generator. The OpenCV-backed camera source lives in capture/camera.
package capture

import (
	"context"

	"github.com/nvr-ai/go-ebv/images"
)

// Source delivers sensor frames.
type Source interface {
	// Next fills dst with the next frame and returns its 1-based counter. It returns
	// io.EOF when the stream has ended.
	Next(ctx context.Context, dst *images.FrameBuffer) (uint64, error)
	// Close releases the source.
	Close() error
}
