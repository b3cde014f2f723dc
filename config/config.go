// Package config - Device configuration loaded with viper from defaults, an optional
// YAML file and EBV_* environment variables.
package config

import (
	"os"
	"strings"

	"github.com/nvr-ai/go-ebv/change"
	"github.com/nvr-ai/go-ebv/images"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. EBV_PIPELINE_MIN_AREA.
const EnvPrefix = "EBV"

// Source kinds.
const (
	SourceVideo     = "video"
	SourceDirectory = "directory"
	SourceSynthetic = "synthetic"
)

// Snapshot formats.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Config is the complete device configuration.
type Config struct {
	Frame    Frame    `mapstructure:"frame" yaml:"frame"`
	Pipeline Pipeline `mapstructure:"pipeline" yaml:"pipeline"`
	Source   Source   `mapstructure:"source" yaml:"source"`
	Output   Output   `mapstructure:"output" yaml:"output"`
	Log      Log      `mapstructure:"log" yaml:"log"`
	Profiler Profiler `mapstructure:"profiler" yaml:"profiler"`
}

// Frame fixes the sensor geometry. A non-empty Resolution wins over Width and Height.
type Frame struct {
	Resolution string `mapstructure:"resolution" yaml:"resolution"`
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	Channels   int    `mapstructure:"channels" yaml:"channels"`
}

// Pipeline holds the processing constants and the initial runtime threshold.
type Pipeline struct {
	Border         int     `mapstructure:"border" yaml:"border"`
	MinArea        int     `mapstructure:"min_area" yaml:"min_area"`
	SizeCross      int     `mapstructure:"size_cross" yaml:"size_cross"`
	Threshold      int     `mapstructure:"threshold" yaml:"threshold"`
	ColorSpace     string  `mapstructure:"colorspace" yaml:"colorspace"`
	OpenForeground bool    `mapstructure:"open_foreground" yaml:"open_foreground"`
	Prototypes     [][]int `mapstructure:"prototypes" yaml:"prototypes"`
}

// Source selects where frames come from.
type Source struct {
	Kind   string `mapstructure:"kind" yaml:"kind"`
	Device int    `mapstructure:"device" yaml:"device"`
	Path   string `mapstructure:"path" yaml:"path"`
	Loop   bool   `mapstructure:"loop" yaml:"loop"`
}

// Output controls the preview window and annotated snapshots.
type Output struct {
	Window         bool   `mapstructure:"window" yaml:"window"`
	SnapshotDir    string `mapstructure:"snapshot_dir" yaml:"snapshot_dir"`
	SnapshotFormat string `mapstructure:"snapshot_format" yaml:"snapshot_format"`
	// SnapshotEvery saves every Nth processed frame; 0 disables snapshots.
	SnapshotEvery int `mapstructure:"snapshot_every" yaml:"snapshot_every"`
	JPEGQuality   int `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
}

// Log configures the zerolog logger.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Profiler configures stage timing reports.
type Profiler struct {
	// ReportEvery logs a timing report every N frames; 0 disables reports.
	ReportEvery int `mapstructure:"report_every" yaml:"report_every"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("frame.resolution", string(images.ResolutionTypeWVGA752))
	v.SetDefault("frame.width", 0)
	v.SetDefault("frame.height", 0)
	v.SetDefault("frame.channels", 3)

	v.SetDefault("pipeline.border", 2)
	v.SetDefault("pipeline.min_area", 500)
	v.SetDefault("pipeline.size_cross", 10)
	v.SetDefault("pipeline.threshold", 20)
	v.SetDefault("pipeline.colorspace", change.YCbCr.String())
	v.SetDefault("pipeline.open_foreground", true)
	v.SetDefault("pipeline.prototypes", [][]int{})

	v.SetDefault("source.kind", SourceSynthetic)
	v.SetDefault("source.device", 0)
	v.SetDefault("source.path", "")
	v.SetDefault("source.loop", false)

	v.SetDefault("output.window", false)
	v.SetDefault("output.snapshot_dir", "")
	v.SetDefault("output.snapshot_format", FormatJPEG)
	v.SetDefault("output.snapshot_every", 0)
	v.SetDefault("output.jpeg_quality", 90)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("profiler.report_every", 300) // every ~10s at 30 fps
}

// NewViper returns a viper instance with defaults, environment binding and, when path
// is non-empty, the YAML file at path merged in.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	return v, nil
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the configuration.
//
// Arguments:
//   - path: Optional YAML file; empty means defaults and environment only.
//
// Returns:
//   - *Config: The validated configuration.
//   - error: If the file cannot be read or a value is invalid.
//
// @example
// cfg, err := config.Load("ebv.yaml")
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// Default returns the default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Defaults always validate; environment overrides are the only way to get here.
		panic(err)
	}
	return cfg
}

// Write saves cfg as YAML.
func Write(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}

// Shape resolves the sensor frame shape.
func (f Frame) Shape() (images.Shape, error) {
	if f.Resolution != "" {
		res, err := images.ParseResolution(f.Resolution)
		if err != nil {
			return images.Shape{}, err
		}
		return res.Shape(f.Channels), nil
	}
	shape := images.Shape{Width: f.Width, Height: f.Height, Channels: f.Channels}
	return shape, shape.Validate()
}

// ColorModel builds the change-detection model. Without configured prototypes the
// defaults of the colourspace are used.
func (p Pipeline) ColorModel() (change.ColorModel, error) {
	space, err := change.ParseColorSpace(p.ColorSpace)
	if err != nil {
		return change.ColorModel{}, err
	}
	if len(p.Prototypes) == 0 {
		return change.DefaultColorModel(space), nil
	}

	model := change.ColorModel{Space: space, Prototypes: make([]change.Prototype, 0, len(p.Prototypes))}
	for i, values := range p.Prototypes {
		if len(values) != 3 {
			return change.ColorModel{}, errors.Errorf("prototype %d has %d values, want 3", i, len(values))
		}
		var proto change.Prototype
		for c, val := range values {
			if val < 0 || val > 255 {
				return change.ColorModel{}, errors.Errorf("prototype %d value %d out of range", i, val)
			}
			proto[c] = uint8(val)
		}
		model.Prototypes = append(model.Prototypes, proto)
	}
	return model, model.Validate()
}

// Validate checks every section.
func (c *Config) Validate() error {
	shape, err := c.Frame.Shape()
	if err != nil {
		return errors.Wrap(err, "frame")
	}
	if shape.Channels != change.Channels {
		return errors.Errorf("frame: channels must be %d, got %d", change.Channels, shape.Channels)
	}

	p := c.Pipeline
	if p.Border < 1 {
		return errors.Errorf("pipeline: border must be at least 1, got %d", p.Border)
	}
	if 2*p.Border >= shape.Width || 2*p.Border >= shape.Height {
		return errors.Errorf("pipeline: border %d leaves no interior in %dx%d", p.Border, shape.Width, shape.Height)
	}
	if p.MinArea < 0 {
		return errors.Errorf("pipeline: min_area must not be negative, got %d", p.MinArea)
	}
	if p.SizeCross < 0 {
		return errors.Errorf("pipeline: size_cross must not be negative, got %d", p.SizeCross)
	}
	if p.Threshold < 0 || p.Threshold > 255 {
		return errors.Errorf("pipeline: threshold must be in [0,255], got %d", p.Threshold)
	}
	if _, err := p.ColorModel(); err != nil {
		return errors.Wrap(err, "pipeline")
	}

	switch c.Source.Kind {
	case SourceVideo, SourceSynthetic:
	case SourceDirectory:
		if c.Source.Path == "" {
			return errors.New("source: directory source needs a path")
		}
	default:
		return errors.Errorf("source: unknown kind %q", c.Source.Kind)
	}

	switch c.Output.SnapshotFormat {
	case FormatJPEG, FormatPNG, FormatWebP:
	default:
		return errors.Errorf("output: unknown snapshot format %q", c.Output.SnapshotFormat)
	}
	if c.Output.SnapshotEvery < 0 {
		return errors.Errorf("output: snapshot_every must not be negative, got %d", c.Output.SnapshotEvery)
	}
	if c.Output.SnapshotEvery > 0 && c.Output.SnapshotDir == "" {
		return errors.New("output: snapshots need a snapshot_dir")
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return errors.Errorf("output: jpeg_quality must be in [1,100], got %d", c.Output.JPEGQuality)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return errors.Errorf("log: unknown format %q", c.Log.Format)
	}

	if c.Profiler.ReportEvery < 0 {
		return errors.Errorf("profiler: report_every must not be negative, got %d", c.Profiler.ReportEvery)
	}
	return nil
}
