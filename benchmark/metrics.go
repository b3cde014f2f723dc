// Package benchmark - Throughput and allocation benchmarks of the frame pipeline across
// resolutions and colourspaces.
package benchmark

import (
	"time"

	"github.com/nvr-ai/go-ebv/images"
	"github.com/nvr-ai/go-ebv/profiler"
	"github.com/nvr-ai/go-ebv/region"
)

// PerformanceMetrics captures detailed performance data
type PerformanceMetrics struct {
	Scenario        Scenario              `json:"scenario"`
	Timestamp       time.Time             `json:"timestamp"`
	TotalDuration   time.Duration         `json:"total_duration"`
	FramesPerSecond float64               `json:"frames_per_second"`
	MemoryStats     MemoryMetrics         `json:"memory_stats"`
	ObjectCount     int                   `json:"object_count"`
	ErrorRate       float64               `json:"error_rate"`
	Stages          []profiler.StageStats `json:"stages"`
	Accuracy        AccuracyMetrics       `json:"accuracy"`
}

// AccuracyMetrics compares detected boxes with the synthetic ground truth.
type AccuracyMetrics struct {
	// MeanIoU is the average best IoU of every detected object against the truth boxes.
	MeanIoU float32 `json:"mean_iou"`
	// MaskChecksum is the foreground mask checksum of the repeated frame.
	MaskChecksum string `json:"mask_checksum"`
	// Deterministic reports whether processing the same frame twice gave the same mask.
	Deterministic bool `json:"deterministic"`
}

// BestIoU returns the highest IoU of box against any of truth, or 0 when truth is empty.
func BestIoU(box images.Rect, truth []images.Rect) float32 {
	var best float32
	for _, r := range truth {
		best = max(best, box.IoU(r))
	}
	return best
}

// iouTracker accumulates BestIoU over every detected object.
type iouTracker struct {
	sum   float64
	count int
}

func (t *iouTracker) add(objects []region.Object, truth []images.Rect) {
	for _, obj := range objects {
		t.sum += float64(BestIoU(obj.Box, truth))
		t.count++
	}
}

func (t *iouTracker) mean() float32 {
	if t.count == 0 {
		return 0
	}
	return float32(t.sum / float64(t.count))
}

// MemoryMetrics captures memory usage statistics
type MemoryMetrics struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	Mallocs         uint64 `json:"mallocs"`
	NumGC           uint32 `json:"num_gc"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
}

// AllocsPerFrame returns the heap allocations per measured frame.
func (m PerformanceMetrics) AllocsPerFrame() float64 {
	if m.Scenario.Iterations == 0 {
		return 0
	}
	return float64(m.MemoryStats.Mallocs) / float64(m.Scenario.Iterations)
}
