package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/nvr-ai/go-ebv/capture"
	"github.com/nvr-ai/go-ebv/change"
	"github.com/nvr-ai/go-ebv/controller"
	"github.com/nvr-ai/go-ebv/images"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Suite manages and executes benchmark scenarios
type Suite struct {
	scenarios []Scenario
	outputDir string
	log       zerolog.Logger
	mu        sync.RWMutex
	results   []PerformanceMetrics
}

// NewSuite creates a new benchmark suite writing results to outputDir.
func NewSuite(outputDir string, log zerolog.Logger) *Suite {
	return &Suite{
		outputDir: outputDir,
		log:       log.With().Str("component", "benchmark").Logger(),
	}
}

// AddScenario adds a test scenario to the benchmark suite
func (bs *Suite) AddScenario(scenario Scenario) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.scenarios = append(bs.scenarios, scenario)
}

// RunScenario executes a single benchmark scenario over synthetic frames.
//
// Arguments:
//   - ctx: Cancels the run between frames.
//   - scenario: The resolution, colourspace and frame counts.
//
// Returns:
//   - *PerformanceMetrics: Timing, allocation and per-stage figures.
//   - error: If the orchestrator cannot be built or the run is cancelled.
func (bs *Suite) RunScenario(ctx context.Context, scenario Scenario) (*PerformanceMetrics, error) {
	if scenario.Iterations <= 0 {
		return nil, errors.Errorf("scenario %s: iterations must be positive", scenario.Name)
	}

	shape := scenario.Resolution.Shape(3)
	orch, err := controller.NewOrchestrator(controller.Options{
		Shape:          shape,
		Border:         2,
		MinArea:        500,
		SizeCross:      10,
		OpenForeground: scenario.OpenForeground,
		Model:          change.DefaultColorModel(scenario.ColorSpace),
		Logger:         zerolog.Nop(),
	}, controller.NewSession(20))
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", scenario.Name)
	}

	src := capture.NewSyntheticSource(0, max(shape.Height/8, 4))
	frame := images.NewFrameBuffer(shape)
	var counter uint64
	step := func() (*controller.FrameResult, error) {
		n, err := src.Next(ctx, &frame)
		if err != nil {
			return nil, err
		}
		counter = n
		return orch.ProcessFrame(controller.Frame{Counter: n, Sensor: frame})
	}

	// Warmup runs; frame 1 is the pipeline's initialisation frame.
	for i := 0; i < scenario.WarmupRuns+1; i++ {
		if _, err := step(); err != nil {
			return nil, err
		}
	}
	orch.Profiler().Reset()

	var startMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&startMem)

	var ious iouTracker
	startTime := time.Now()
	objects, failures := 0, 0
	for i := 0; i < scenario.Iterations; i++ {
		res, err := step()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if err != nil {
			failures++
			continue
		}
		objects += len(res.Objects)
		ious.add(res.Objects, src.Truth())
	}
	totalDuration := time.Since(startTime)

	var endMem runtime.MemStats
	runtime.ReadMemStats(&endMem)

	stages := orch.Profiler().Stats()
	accuracy, err := bs.repeatFrame(orch, frame, counter)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", scenario.Name)
	}
	accuracy.MeanIoU = ious.mean()

	metrics := &PerformanceMetrics{
		Scenario:        scenario,
		Timestamp:       startTime,
		TotalDuration:   totalDuration,
		FramesPerSecond: float64(scenario.Iterations) / totalDuration.Seconds(),
		ObjectCount:     objects,
		ErrorRate:       float64(failures) / float64(scenario.Iterations),
		Stages:          stages,
		Accuracy:        accuracy,
		MemoryStats: MemoryMetrics{
			AllocBytes:      endMem.Alloc,
			TotalAllocBytes: endMem.TotalAlloc - startMem.TotalAlloc,
			Mallocs:         endMem.Mallocs - startMem.Mallocs,
			NumGC:           endMem.NumGC - startMem.NumGC,
			HeapAllocBytes:  endMem.HeapAlloc,
		},
	}

	bs.mu.Lock()
	bs.results = append(bs.results, *metrics)
	bs.mu.Unlock()
	return metrics, nil
}

// repeatFrame processes the last frame twice more and compares the mask checksums.
func (bs *Suite) repeatFrame(orch *controller.Orchestrator, frame images.FrameBuffer, counter uint64) (AccuracyMetrics, error) {
	var sums [2]string
	for i := range sums {
		if _, err := orch.ProcessFrame(controller.Frame{Counter: counter + uint64(i) + 1, Sensor: frame}); err != nil {
			return AccuracyMetrics{}, err
		}
		sums[i] = images.Checksum(orch.Buffers().Change.Mask)
	}
	return AccuracyMetrics{MaskChecksum: sums[0], Deterministic: sums[0] == sums[1]}, nil
}

// RunAllScenarios runs every added scenario in order and saves the results.
func (bs *Suite) RunAllScenarios(ctx context.Context) error {
	bs.mu.RLock()
	scenarios := make([]Scenario, len(bs.scenarios))
	copy(scenarios, bs.scenarios)
	bs.mu.RUnlock()

	for _, scenario := range scenarios {
		metrics, err := bs.RunScenario(ctx, scenario)
		if err != nil {
			return err
		}
		bs.log.Info().
			Str("scenario", scenario.Name).
			Float64("fps", metrics.FramesPerSecond).
			Float64("allocs_per_frame", metrics.AllocsPerFrame()).
			Float32("mean_iou", metrics.Accuracy.MeanIoU).
			Bool("deterministic", metrics.Accuracy.Deterministic).
			Msg("scenario completed")
	}

	_, err := bs.SaveResults()
	return err
}

// SaveResults writes the results as indented JSON and returns the file path.
func (bs *Suite) SaveResults() (string, error) {
	results := bs.GetResults()

	if err := os.MkdirAll(bs.outputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create output directory")
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	resultsFile := filepath.Join(bs.outputDir, fmt.Sprintf("benchmark_results_%s.json", timestamp))

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal results")
	}
	if err := os.WriteFile(resultsFile, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write results file")
	}

	bs.log.Info().Str("path", resultsFile).Msg("results saved")
	return resultsFile, nil
}

// GetResults returns all benchmark results
func (bs *Suite) GetResults() []PerformanceMetrics {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	results := make([]PerformanceMetrics, len(bs.results))
	copy(results, bs.results)
	return results
}
