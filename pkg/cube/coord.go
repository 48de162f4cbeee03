package cube

import (
	"fmt"

	vmath "github.com/Faultbox/octacube/pkg/math"
)

// OctantIndex returns the octant index for per-axis half selectors (0 or 1).
func OctantIndex(x, y, z int) int {
	return (x & 1) | (y&1)<<1 | (z&1)<<2
}

// OctantPosition returns the per-axis half selectors of an octant.
func OctantPosition(i int) vmath.IVec3 {
	return vmath.IVec3{X: int32(i & 1), Y: int32(i>>1&1), Z: int32(i>>2&1)}
}

// OctantChar returns the path letter of an octant ('a' for 0 through 'h' for 7).
func OctantChar(i int) byte {
	return byte('a' + i&7)
}

// OctantFromChar parses a path letter. ok is false for anything outside 'a'..'h'.
func OctantFromChar(c byte) (octant int, ok bool) {
	if c < 'a' || c > 'h' {
		return 0, false
	}
	return int(c - 'a'), true
}

// MaxCoordDepth is the deepest level a CubeCoord can address with int32
// positions.
const MaxCoordDepth = 31

// CubeCoord addresses a node of the octree at a given resolution.
// Each component of Pos lies in [0, 2^Depth). Depth 0 is the root and Depth
// is at most MaxCoordDepth.
type CubeCoord struct {
	Pos   vmath.IVec3
	Depth uint32
}

// NewCoord creates a coordinate.
func NewCoord(x, y, z int32, depth uint32) CubeCoord {
	return CubeCoord{Pos: vmath.IVec3{X: x, Y: y, Z: z}, Depth: depth}
}

// Size returns the grid resolution 2^Depth.
func (c CubeCoord) Size() int64 {
	return int64(1) << c.Depth
}

// Valid reports whether Pos is inside the grid.
func (c CubeCoord) Valid() bool {
	if c.Depth > MaxCoordDepth {
		return false
	}
	size := c.Size()
	for _, v := range [3]int32{c.Pos.X, c.Pos.Y, c.Pos.Z} {
		if v < 0 || int64(v) >= size {
			return false
		}
	}
	return true
}

// Child returns the coordinate of octant i one level deeper.
func (c CubeCoord) Child(i int) CubeCoord {
	return CubeCoord{Pos: c.Pos.Shl(1).Add(OctantPosition(i)), Depth: c.Depth + 1}
}

// Parent returns the coordinate one level up. The root is its own parent.
func (c CubeCoord) Parent() CubeCoord {
	if c.Depth == 0 {
		return c
	}
	return CubeCoord{Pos: c.Pos.Shr(1), Depth: c.Depth - 1}
}

// Octant returns the index of this node within its parent.
func (c CubeCoord) Octant() int {
	return OctantIndex(int(c.Pos.X), int(c.Pos.Y), int(c.Pos.Z))
}

// Neighbor returns the coordinate offset by (dx, dy, dz) at the same depth.
// The result may lie outside the grid.
func (c CubeCoord) Neighbor(dx, dy, dz int32) CubeCoord {
	return CubeCoord{Pos: c.Pos.Add(vmath.IVec3{X: dx, Y: dy, Z: dz}), Depth: c.Depth}
}

// Path returns the octant path from the root to this node.
func (c CubeCoord) Path() []int {
	path := make([]int, c.Depth)
	for level := uint32(0); level < c.Depth; level++ {
		shift := c.Depth - 1 - level
		p := c.Pos.Shr(shift)
		path[level] = OctantIndex(int(p.X), int(p.Y), int(p.Z))
	}
	return path
}

// Bounds returns the node's extent in normalized [0,1]^3 space.
func (c CubeCoord) Bounds() vmath.AABB {
	size := 1 / float32(c.Size())
	lo := c.Pos.Vec3().Scale(size)
	return vmath.AABB{Min: lo, Max: lo.Add(vmath.Splat(size))}
}

// String returns "(x,y,z)@depth".
func (c CubeCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)@%d", c.Pos.X, c.Pos.Y, c.Pos.Z, c.Depth)
}
