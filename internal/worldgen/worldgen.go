// Package worldgen builds voxel terrain octrees from Perlin noise.
package worldgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/octacube/pkg/cube"
	vmath "github.com/Faultbox/octacube/pkg/math"
)

// Terrain materials. Air is the empty value.
const (
	Air uint8 = iota
	Stone
	Dirt
	Grass
	Sand
	Water
	Snow
)

// MaxDepth bounds the generated octree to 256^3 voxels.
const MaxDepth = 8

// ErrInvalidParams is returned by New for unusable parameters.
var ErrInvalidParams = errors.New("invalid terrain parameters")

// Params controls terrain generation.
type Params struct {
	Seed       int64
	Depth      uint32  // octree depth, the world is 2^Depth voxels wide
	NoiseScale float64 // noise units per voxel
	WaterLevel float64 // fraction of the height below which empty cells fill with water
	SnowLevel  float64 // fraction of the height above which surfaces are snow
	Alpha      float64
	Beta       float64
	Octaves    int32
}

// DefaultParams returns a gently rolling 64^3 landscape.
func DefaultParams() Params {
	return Params{
		Seed:       1,
		Depth:      6,
		NoiseScale: 0.05,
		WaterLevel: 0.3,
		SnowLevel:  0.8,
		Alpha:      2,
		Beta:       2,
		Octaves:    3,
	}
}

// Validate checks that p can produce a terrain.
func (p Params) Validate() error {
	switch {
	case p.Depth == 0 || p.Depth > MaxDepth:
		return fmt.Errorf("%w: depth %d outside 1..%d", ErrInvalidParams, p.Depth, MaxDepth)
	case p.NoiseScale <= 0:
		return fmt.Errorf("%w: noise scale must be positive", ErrInvalidParams)
	case p.WaterLevel < 0 || p.WaterLevel > 1:
		return fmt.Errorf("%w: water level %.2f outside 0..1", ErrInvalidParams, p.WaterLevel)
	case p.SnowLevel < 0 || p.SnowLevel > 1:
		return fmt.Errorf("%w: snow level %.2f outside 0..1", ErrInvalidParams, p.SnowLevel)
	case p.Octaves <= 0:
		return fmt.Errorf("%w: octaves must be positive", ErrInvalidParams)
	}
	return nil
}

// Generator produces terrain for a fixed set of parameters.
type Generator struct {
	params Params
	noise  *perlin.Perlin
	size   int
}

// New creates a generator.
func New(p Params) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		params: p,
		noise:  perlin.NewPerlin(p.Alpha, p.Beta, p.Octaves, p.Seed),
		size:   1 << p.Depth,
	}, nil
}

// Size returns the world width in voxels.
func (g *Generator) Size() int {
	return g.size
}

// Height returns the number of solid voxels in column (x, z), between 1 and Size.
func (g *Generator) Height(x, z int) int {
	n := g.noise.Noise2D(float64(x)*g.params.NoiseScale, float64(z)*g.params.NoiseScale)
	n = math.Min(math.Max((n+1)/2, 0), 1)
	return 1 + int(n*float64(g.size-1))
}

// Material returns the material at height y of a column whose surface is h.
func (g *Generator) Material(y, h int) uint8 {
	water := int(g.params.WaterLevel * float64(g.size))
	snow := int(g.params.SnowLevel * float64(g.size))

	switch {
	case y >= h:
		if y < water {
			return Water
		}
		return Air
	case y < h-3:
		return Stone
	case y < h-1:
		return Dirt
	case h <= water+1:
		return Sand
	case h > snow:
		return Snow
	default:
		return Grass
	}
}

// Generate builds the terrain octree. Y points up.
func (g *Generator) Generate() *cube.Cube[uint8] {
	voxels := make([]cube.Voxel[uint8], 0, g.size*g.size)
	for z := 0; z < g.size; z++ {
		for x := 0; x < g.size; x++ {
			h := g.Height(x, z)
			for y := 0; y < g.size; y++ {
				m := g.Material(y, h)
				if m == Air {
					continue
				}
				voxels = append(voxels, cube.Voxel[uint8]{
					Pos:   vmath.IVec3{X: int32(x), Y: int32(y), Z: int32(z)},
					Value: m,
				})
			}
		}
	}
	return cube.FromVoxels(voxels, g.params.Depth, Air)
}

// Palette returns hex colours for the terrain materials, starting at Stone.
func Palette() []string {
	return []string{
		"#7f7f7f", // stone
		"#8b5a2b", // dirt
		"#4caf50", // grass
		"#e6d690", // sand
		"#3f76e4", // water
		"#f5f5f5", // snow
	}
}
