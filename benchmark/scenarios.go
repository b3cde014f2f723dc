package benchmark

import (
	"github.com/nvr-ai/go-ebv/change"
	"github.com/nvr-ai/go-ebv/images"
)

// Scenario defines a specific test configuration
type Scenario struct {
	Name           string            `json:"name"`
	Resolution     images.Resolution `json:"resolution"`
	ColorSpace     change.ColorSpace `json:"color_space"`
	OpenForeground bool              `json:"open_foreground"`
	Iterations     int               `json:"iterations"`
	WarmupRuns     int               `json:"warmup_runs"`
}

// ScenarioBuilder helps build test scenarios with fluent API
type ScenarioBuilder struct {
	scenario Scenario
}

// NewScenarioBuilder creates a new scenario builder
func NewScenarioBuilder(name string) *ScenarioBuilder {
	res, _ := images.GetResolutionByType(images.ResolutionTypeWVGA752)
	return &ScenarioBuilder{
		scenario: Scenario{
			Name:           name,
			Resolution:     res,
			ColorSpace:     change.YCbCr,
			OpenForeground: true,
			Iterations:     100,
			WarmupRuns:     10,
		},
	}
}

// WithResolution sets the frame resolution
func (sb *ScenarioBuilder) WithResolution(res images.Resolution) *ScenarioBuilder {
	sb.scenario.Resolution = res
	return sb
}

// WithColorSpace sets the change-detection colourspace
func (sb *ScenarioBuilder) WithColorSpace(space change.ColorSpace) *ScenarioBuilder {
	sb.scenario.ColorSpace = space
	return sb
}

// WithOpenForeground toggles the opening of the foreground mask
func (sb *ScenarioBuilder) WithOpenForeground(open bool) *ScenarioBuilder {
	sb.scenario.OpenForeground = open
	return sb
}

// WithIterations sets the number of measured frames
func (sb *ScenarioBuilder) WithIterations(iterations int) *ScenarioBuilder {
	sb.scenario.Iterations = iterations
	return sb
}

// WithWarmupRuns sets the number of warmup frames
func (sb *ScenarioBuilder) WithWarmupRuns(warmups int) *ScenarioBuilder {
	sb.scenario.WarmupRuns = warmups
	return sb
}

// Build returns the configured test scenario
func (sb *ScenarioBuilder) Build() Scenario {
	return sb.scenario
}

// QuickScenarios runs the device resolution in both colourspaces.
func QuickScenarios() []Scenario {
	return []Scenario{
		NewScenarioBuilder("wvga-ycbcr").Build(),
		NewScenarioBuilder("wvga-rgb").WithColorSpace(change.RGB).Build(),
	}
}

// ResolutionScenarios runs every named resolution in YCbCr mode.
func ResolutionScenarios(iterations int) []Scenario {
	var out []Scenario
	for _, res := range images.GetAllResolutions() {
		out = append(out, NewScenarioBuilder(string(res.Name)).
			WithResolution(res).
			WithIterations(iterations).
			Build())
	}
	return out
}
