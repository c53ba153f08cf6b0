// Package config loads the YAML settings shared by the geokit commands.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tingold/orb-geokit/crs"
	"github.com/tingold/orb-geokit/units"
)

// Config represents the root configuration file structure.
type Config struct {
	Caches     string     `yaml:"caches,omitempty"`     // Default geocache file
	Boundaries string     `yaml:"boundaries,omitempty"` // Default boundary file
	Output     string     `yaml:"output,omitempty"`     // Default export path
	EPSG       int        `yaml:"epsg,omitempty"`       // Working reference for filters
	Units      Units      `yaml:"units,omitempty"`
	Location   []float64  `yaml:"location,omitempty"` // [lon, lat] for nearest searches
	Server     ServerConf `yaml:"server,omitempty"`
}

// Units selects the units measures are reported in.
type Units struct {
	Length string `yaml:"length,omitempty"`
	Area   string `yaml:"area,omitempty"`
}

// ServerConf configures the demo HTTP server.
type ServerConf struct {
	Listen string `yaml:"listen,omitempty"`
	Layer  string `yaml:"layer,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		EPSG:  crs.WGS84,
		Units: Units{Length: string(units.Kilometers), Area: string(units.SquareKilometers)},
		Server: ServerConf{
			Listen: ":8080",
			Layer:  "geocaches",
		},
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Missing values keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", path)
	}

	return cfg, nil
}

// Validate checks units, reference system and location.
func (c *Config) Validate() error {
	if _, err := units.ParseLengthUnit(c.Units.Length); err != nil {
		return err
	}
	if _, err := units.ParseAreaUnit(c.Units.Area); err != nil {
		return err
	}
	if _, err := crs.Lookup(c.EPSG); err != nil {
		return err
	}
	if len(c.Location) != 0 && len(c.Location) != 2 {
		return errors.Errorf("location needs [lon, lat], got %d values", len(c.Location))
	}
	return nil
}

// LengthUnit returns the configured length unit.
func (c *Config) LengthUnit() units.LengthUnit {
	u, _ := units.ParseLengthUnit(c.Units.Length)
	return u
}

// AreaUnit returns the configured area unit.
func (c *Config) AreaUnit() units.AreaUnit {
	u, _ := units.ParseAreaUnit(c.Units.Area)
	return u
}
