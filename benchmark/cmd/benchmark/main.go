package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nvr-ai/go-ebv/benchmark"
	"github.com/nvr-ai/go-ebv/change"
	"github.com/nvr-ai/go-ebv/config"
	"github.com/nvr-ai/go-ebv/images"
	"github.com/nvr-ai/go-ebv/logger"
)

func main() {
	var (
		outputDir   = flag.String("output", "./benchmark_results", "Output directory for results")
		resolution  = flag.String("resolution", "", "Benchmark a single resolution (name or WIDTHxHEIGHT)")
		colorSpace  = flag.String("colorspace", "ycbcr", "Colourspace for -resolution runs (rgb or ycbcr)")
		iterations  = flag.Int("iterations", 100, "Measured frames per scenario")
		warmups     = flag.Int("warmups", 10, "Warmup frames per scenario")
		resolutions = flag.Bool("resolutions", false, "Compare every named resolution")
		timeout     = flag.Duration("timeout", 30*time.Minute, "Benchmark timeout duration")
	)
	flag.Parse()

	log := logger.New(config.Log{Level: "info", Format: "console"})
	suite := benchmark.NewSuite(*outputDir, log)

	switch {
	case *resolution != "":
		res, err := images.ParseResolution(*resolution)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid resolution")
		}
		space, err := change.ParseColorSpace(*colorSpace)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid colourspace")
		}
		suite.AddScenario(benchmark.NewScenarioBuilder(res.String()).
			WithResolution(res).
			WithColorSpace(space).
			WithIterations(*iterations).
			WithWarmupRuns(*warmups).
			Build())
	case *resolutions:
		for _, s := range benchmark.ResolutionScenarios(*iterations) {
			s.WarmupRuns = *warmups
			suite.AddScenario(s)
		}
	default:
		for _, s := range benchmark.QuickScenarios() {
			s.Iterations, s.WarmupRuns = *iterations, *warmups
			suite.AddScenario(s)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	if err := suite.RunAllScenarios(ctx); err != nil {
		log.Fatal().Err(err).Msg("benchmark execution failed")
	}

	results := suite.GetResults()
	fmt.Printf("\n=== BENCHMARK RESULTS SUMMARY (%v) ===\n", time.Since(start).Round(time.Millisecond))
	var bestFPS float64
	var bestScenario string
	for _, result := range results {
		if result.FramesPerSecond > bestFPS {
			bestFPS = result.FramesPerSecond
			bestScenario = result.Scenario.Name
		}
		fmt.Printf("  %s: %.2f FPS (%.1f allocs/frame)\n",
			result.Scenario.Name, result.FramesPerSecond, result.AllocsPerFrame())
	}
	fmt.Printf("\nBest performing scenario: %s (%.2f FPS)\n", bestScenario, bestFPS)
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "Throughput benchmark for the frame pipeline over synthetic frames.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -resolutions -iterations 200\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  %s -resolution 752x480 -colorspace rgb\n", filepath.Base(os.Args[0]))
	}
}
