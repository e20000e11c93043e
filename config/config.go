// Package config defines the configuration of a fill volume run and loads it from JSON files.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	dockerunits "github.com/docker/go-units"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"go.viam.com/fillvolume/bucket"
	"go.viam.com/fillvolume/estimator"
	"go.viam.com/fillvolume/units"
)

// MaxFileSize is the largest config file Load accepts.
const MaxFileSize = 1 << 20

// DefaultOutputPath is where the report is exported unless configured otherwise.
const DefaultOutputPath = "ConvexHull_pointcloud_demo_data.json"

// Bucket configures the bucket geometry, in meters.
type Bucket struct {
	Radius    float64 `json:"radius"`
	Height    float64 `json:"height"`
	FillRatio float64 `json:"fill_ratio"`
}

// Points configures how many points are sampled on each surface.
type Points struct {
	Wall        int `json:"wall"`
	Bottom      int `json:"bottom"`
	FillSurface int `json:"fill_surface"`
}

// Hull configures the estimator.
type Hull struct {
	Epsilon        float64 `json:"epsilon"`
	FillDefinition string  `json:"fill_definition"`
}

// Output configures what a run writes. Empty paths are skipped.
type Output struct {
	Path    string `json:"path"`
	PCD     string `json:"pcd"`
	LAS     string `json:"las"`
	PlotDir string `json:"plot_dir"`
	Units   string `json:"units"`
}

// Config is the full configuration of a run.
type Config struct {
	Bucket Bucket `json:"bucket"`
	Points Points `json:"points"`
	Seed   uint64 `json:"seed"`
	Hull   Hull   `json:"hull"`
	Output Output `json:"output"`
}

// Default returns the configuration of the reference scenario: a 0.1 m by 0.2 m bucket filled
// halfway.
func Default() *Config {
	return &Config{
		Bucket: Bucket{Radius: 0.1, Height: 0.2, FillRatio: 0.5},
		Points: Points{Wall: 8000, Bottom: 16000, FillSurface: 8000},
		Seed:   0,
		Hull:   Hull{FillDefinition: string(estimator.DefaultFillDefinition)},
		Output: Output{Path: DefaultOutputPath, Units: units.Liters},
	}
}

// Load reads a JSON config file. Fields the file omits keep their Default values; unknown
// fields are an error.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("config file must have .json extension, got %q", ext)
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat config file")
	}
	if info.Size() > MaxFileSize {
		return nil, errors.Errorf("config file too large: %s (max %s)",
			dockerunits.BytesSize(float64(info.Size())), dockerunits.BytesSize(MaxFileSize))
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", cleanPath)
	}
	cfg, err := FromMap(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", cleanPath)
	}
	return cfg, nil
}

// FromMap decodes attributes over the defaults and validates the result.
func FromMap(attrs map[string]interface{}) (*Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section of the config.
func (cfg *Config) Validate() error {
	if _, err := cfg.Geometry(); err != nil {
		return err
	}
	if err := cfg.Counts().Validate(); err != nil {
		return err
	}
	if err := cfg.EstimatorConfig().Validate(); err != nil {
		return err
	}
	if cfg.Output.Units != "" && !units.IsValid(cfg.Output.Units) {
		return errors.Errorf("invalid output units %q, expected one of: %s", cfg.Output.Units, units.GetValidUnitsString())
	}
	return nil
}

// Geometry returns the validated bucket geometry.
func (cfg *Config) Geometry() (bucket.Geometry, error) {
	return bucket.NewGeometry(cfg.Bucket.Radius, cfg.Bucket.Height, cfg.Bucket.FillRatio)
}

// Counts returns the configured point counts.
func (cfg *Config) Counts() bucket.Counts {
	return bucket.Counts{Wall: cfg.Points.Wall, Bottom: cfg.Points.Bottom, FillSurface: cfg.Points.FillSurface}
}

// EstimatorConfig returns the configuration of the hull estimator.
func (cfg *Config) EstimatorConfig() estimator.Config {
	return estimator.Config{
		Epsilon:        cfg.Hull.Epsilon,
		FillDefinition: estimator.FillDefinition(cfg.Hull.FillDefinition),
	}
}

// VolumeUnits returns the unit summaries are printed in.
func (cfg *Config) VolumeUnits() string {
	if cfg.Output.Units == "" {
		return units.Liters
	}
	return cfg.Output.Units
}
