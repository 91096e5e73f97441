package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the MisfitLens configuration.
type Config struct {
	Datasets DatasetsConfig `yaml:"datasets"`
	Extract  ExtractConfig  `yaml:"extract"`
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// UTMZone selects the projection zone for map coordinates.
	// Negative values mean southern hemisphere.
	UTMZone int `yaml:"utm_zone"`

	// Exclude optionally pre-configures an event exclusion filter applied
	// by `misfitlens exclude` when no flags are given.
	Exclude *ExcludeConfig `yaml:"exclude,omitempty"`
}

// DatasetsConfig locates the per-event measurement containers.
type DatasetsConfig struct {
	Path string `yaml:"path"`
	Glob string `yaml:"glob"`
}

// ExtractConfig toggles the three record extractors during ingestion.
type ExtractConfig struct {
	Windows bool `yaml:"windows"`
	Srcrcv  bool `yaml:"srcrcv"`
	Misfits bool `yaml:"misfits"`
}

// SnapshotConfig names the index snapshot written after ingestion.
type SnapshotConfig struct {
	Dir string `yaml:"dir"`
	Tag string `yaml:"tag"`
}

// ExcludeConfig mirrors the exclusion filter criteria. Times are ISO-8601
// strings, depths kilometers.
type ExcludeConfig struct {
	Coords     []float64 `yaml:"coords"` // [latMin, latMax, lonMin, lonMax]
	DepthMinKM *float64  `yaml:"depth_min_km"`
	DepthMaxKM *float64  `yaml:"depth_max_km"`
	MagMin     *float64  `yaml:"mag_min"`
	MagMax     *float64  `yaml:"mag_max"`
	Starttime  string    `yaml:"starttime"`
	Endtime    string    `yaml:"endtime"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Datasets: DatasetsConfig{
			Path: "./datasets",
			Glob: "*.json",
		},
		Extract: ExtractConfig{
			Windows: true,
			Srcrcv:  true,
			Misfits: true,
		},
		Snapshot: SnapshotConfig{
			Dir: ".",
			Tag: "misfitlens",
		},
		UTMZone: -60,
	}
}

// Load reads configuration from file, falling back to defaults.
// If configPath is empty, it looks for misfitlens.yaml in the current
// directory. File values are unmarshaled over the defaults, so any field
// the file omits keeps its default.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = "misfitlens.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// LoadFromDir loads configuration from the specified directory.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, "misfitlens.yaml"))
}

func (c *Config) validate() error {
	if c.Datasets.Glob == "" {
		return fmt.Errorf("datasets.glob must not be empty")
	}
	if c.Snapshot.Tag == "" {
		return fmt.Errorf("snapshot.tag must not be empty")
	}
	if zone := c.UTMZone; zone == 0 || zone > 60 || zone < -60 {
		return fmt.Errorf("utm_zone %d out of range [-60, 60], nonzero", zone)
	}
	if c.Exclude != nil && c.Exclude.Coords != nil && len(c.Exclude.Coords) != 4 {
		return fmt.Errorf("exclude.coords must hold [latMin, latMax, lonMin, lonMax]")
	}
	return nil
}
