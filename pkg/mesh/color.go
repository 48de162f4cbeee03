package mesh

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	vmath "github.com/Faultbox/octacube/pkg/math"
)

// ColorMapper maps a material index to an RGB colour.
type ColorMapper interface {
	Map(index uint8) vmath.Vec3
}

// HSVColorMapper uses the material index as hue in degrees.
type HSVColorMapper struct {
	Saturation float64
	Value      float64
}

// NewHSVColorMapper returns a mapper with saturation 0.8 and value 0.9.
func NewHSVColorMapper() HSVColorMapper {
	return HSVColorMapper{Saturation: 0.8, Value: 0.9}
}

// Map returns black for material 0.
func (m HSVColorMapper) Map(index uint8) vmath.Vec3 {
	if index == 0 {
		return vmath.Vec3{}
	}
	return fromColorful(colorful.Hsv(float64(index), m.Saturation, m.Value))
}

// PaletteColorMapper looks materials up in a fixed palette. Material n uses
// entry n-1, wrapping around the palette length.
type PaletteColorMapper struct {
	colors []vmath.Vec3
}

// NewPaletteColorMapper creates a mapper from RGB colours.
func NewPaletteColorMapper(colors []vmath.Vec3) *PaletteColorMapper {
	return &PaletteColorMapper{colors: colors}
}

// ParsePalette creates a mapper from hex colours such as "#a0522d".
func ParsePalette(hex []string) (*PaletteColorMapper, error) {
	colors := make([]vmath.Vec3, 0, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		colors = append(colors, fromColorful(c))
	}
	return NewPaletteColorMapper(colors), nil
}

// Len returns the palette size.
func (m *PaletteColorMapper) Len() int {
	return len(m.colors)
}

// Map returns black for material 0 and magenta when the palette is empty.
func (m *PaletteColorMapper) Map(index uint8) vmath.Vec3 {
	if len(m.colors) == 0 {
		return vmath.Vec3{X: 1, Y: 0, Z: 1}
	}
	if index == 0 {
		return vmath.Vec3{}
	}
	return m.colors[int(index-1)%len(m.colors)]
}

func fromColorful(c colorful.Color) vmath.Vec3 {
	c = c.Clamped()
	return vmath.Vec3{X: float32(c.R), Y: float32(c.G), Z: float32(c.B)}
}
