// Package config handles cubetool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/octacube/internal/worldgen"
	"github.com/Faultbox/octacube/pkg/cube"
)

// Config holds all cubetool settings.
type Config struct {
	Mesh    MeshConfig    `yaml:"mesh"`
	Raycast RaycastConfig `yaml:"raycast"`
	Terrain TerrainConfig `yaml:"terrain"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	// Source is the file the config was read from, empty for defaults only.
	Source string `yaml:"-"`
}

// MeshConfig holds mesh generation settings.
type MeshConfig struct {
	MaxDepth  uint32   `yaml:"max_depth"`
	BaseDepth uint32   `yaml:"base_depth"` // vertices are scaled by 2^base_depth
	Borders   [4]uint8 `yaml:"borders"`    // below, beside lower half, beside upper half, above
	Palette   []string `yaml:"palette"`    // hex colours; empty uses HSV hues
}

// RaycastConfig holds raycast settings.
type RaycastConfig struct {
	MaxDepth uint32 `yaml:"max_depth"`
	Trace    bool   `yaml:"trace"` // print every visited node
}

// TerrainConfig holds settings for the generate command.
type TerrainConfig struct {
	Seed       int64   `yaml:"seed"`
	Depth      uint32  `yaml:"depth"`
	NoiseScale float64 `yaml:"noise_scale"`
	WaterLevel float64 `yaml:"water_level"`
	SnowLevel  float64 `yaml:"snow_level"`
	Octaves    int32   `yaml:"octaves"`
}

// OutputConfig holds file output settings.
type OutputConfig struct {
	Compress bool `yaml:"compress"` // zstd-wrap BCF output
	Workers  int  `yaml:"workers"`  // concurrent conversions
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	terrain := worldgen.DefaultParams()
	return &Config{
		Mesh: MeshConfig{
			MaxDepth:  8,
			BaseDepth: 0,
		},
		Raycast: RaycastConfig{
			MaxDepth: 16,
		},
		Terrain: TerrainConfig{
			Seed:       terrain.Seed,
			Depth:      terrain.Depth,
			NoiseScale: terrain.NoiseScale,
			WaterLevel: terrain.WaterLevel,
			SnowLevel:  terrain.SnowLevel,
			Octaves:    terrain.Octaves,
		},
		Output: OutputConfig{
			Compress: false,
			Workers:  4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Params converts the terrain settings to generator parameters.
func (t TerrainConfig) Params() worldgen.Params {
	p := worldgen.DefaultParams()
	p.Seed = t.Seed
	p.Depth = t.Depth
	p.NoiseScale = t.NoiseScale
	p.WaterLevel = t.WaterLevel
	p.SnowLevel = t.SnowLevel
	p.Octaves = t.Octaves
	return p
}

// Validate checks values that would make commands fail later.
func (c *Config) Validate() error {
	if c.Raycast.MaxDepth > cube.MaxTraversalDepth {
		return fmt.Errorf("raycast.max_depth %d exceeds %d", c.Raycast.MaxDepth, cube.MaxTraversalDepth)
	}
	if c.Output.Workers < 1 {
		return fmt.Errorf("output.workers must be at least 1, got %d", c.Output.Workers)
	}
	if err := c.Terrain.Params().Validate(); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	return nil
}
