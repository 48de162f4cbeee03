package cube

import (
	"math/bits"

	vmath "github.com/Faultbox/octacube/pkg/math"
)

// Voxel is a single cell of a 2^depth grid.
type Voxel[T comparable] struct {
	Pos   vmath.IVec3
	Value T
}

// FromVoxels builds an octree of the given depth from a voxel list by
// partitioning the voxels into octants level by level. Cells not listed take
// fill. When several voxels share a cell the last one wins. Voxels outside the
// grid are ignored.
func FromVoxels[T comparable](voxels []Voxel[T], depth uint32, fill T) *Cube[T] {
	size := int32(1) << depth
	in := make([]Voxel[T], 0, len(voxels))
	for _, v := range voxels {
		if v.Pos.InRange(size) {
			in = append(in, v)
		}
	}
	return fromVoxels(in, depth, fill)
}

func fromVoxels[T comparable](voxels []Voxel[T], depth uint32, fill T) *Cube[T] {
	if len(voxels) == 0 {
		return Solid(fill)
	}
	if depth == 0 {
		return Solid(voxels[len(voxels)-1].Value)
	}

	bit := depth - 1
	var parts [8][]Voxel[T]
	for _, v := range voxels {
		p := v.Pos.Shr(bit)
		i := OctantIndex(int(p.X), int(p.Y), int(p.Z))
		parts[i] = append(parts[i], v)
	}
	return Tabulate(func(i int) *Cube[T] {
		return fromVoxels(parts[i], bit, fill)
	})
}

// FromVoxelsAutoDepth picks the smallest depth whose grid holds every voxel
// with non-negative coordinates and builds the octree.
func FromVoxelsAutoDepth[T comparable](voxels []Voxel[T], fill T) (*Cube[T], uint32) {
	var maxCoord int32
	for _, v := range voxels {
		maxCoord = max(maxCoord, v.Pos.MaxComponent())
	}
	depth := uint32(bits.Len32(uint32(maxCoord)))
	return FromVoxels(voxels, depth, fill), depth
}

// ExpandOnce wraps c in a shell of border material, doubling its extent. The
// result is a 4x4x4 grid of c-sized cells whose centre 2x2x2 block holds c.
// Border cells take borders[y] where y is the cell's layer from the bottom.
func ExpandOnce[T comparable](c *Cube[T], borders [4]T) *Cube[T] {
	return Tabulate(func(outer int) *Cube[T] {
		return Tabulate(func(inner int) *Cube[T] {
			if outer^inner == 7 {
				return c.Child(outer)
			}
			y := (outer>>1&1)*2 + (inner>>1&1)
			return Solid(borders[y])
		})
	})
}

// Expand applies ExpandOnce times times.
func Expand[T comparable](c *Cube[T], borders [4]T, times int) *Cube[T] {
	for i := 0; i < times; i++ {
		c = ExpandOnce(c, borders)
	}
	return c
}

func axisMask(axes []Axis) int {
	mask := 0
	for _, a := range axes {
		mask ^= 1 << a.Index()
	}
	return mask
}

// Swap exchanges the top-level octants across each listed axis. Children are
// moved, not mirrored.
func Swap[T comparable](c *Cube[T], axes ...Axis) *Cube[T] {
	mask := axisMask(axes)
	if c.IsLeaf() || mask == 0 {
		return c
	}
	return Tabulate(func(i int) *Cube[T] { return c.Child(i ^ mask) })
}

// Mirror reflects the whole tree across each listed axis.
func Mirror[T comparable](c *Cube[T], axes ...Axis) *Cube[T] {
	mask := axisMask(axes)
	if mask == 0 {
		return c
	}
	return mirror(c, mask)
}

func mirror[T comparable](c *Cube[T], mask int) *Cube[T] {
	if c.IsLeaf() {
		return c
	}
	return Tabulate(func(i int) *Cube[T] { return mirror(c.Child(i^mask), mask) })
}

// Merge overlays b onto a: wherever b is non-empty its value wins.
func Merge[T comparable](a, b *Cube[T]) *Cube[T] {
	var zero T
	if bv, ok := b.IsSolid(); ok {
		if bv != zero {
			return b
		}
		return a
	}
	if a.IsLeaf() && b.rep == zero {
		return a
	}
	return Tabulate(func(i int) *Cube[T] { return Merge(a.Child(i), b.Child(i)) })
}

// VisitLeaves calls fn for every solid node in depth-first octant order with
// the coordinate of the node. Returning false stops the walk.
func (c *Cube[T]) VisitLeaves(fn func(leaf *Cube[T], coord CubeCoord) bool) {
	c.visitLeaves(CubeCoord{}, fn)
}

func (c *Cube[T]) visitLeaves(coord CubeCoord, fn func(*Cube[T], CubeCoord) bool) bool {
	if c.IsLeaf() {
		return fn(c, coord)
	}
	for i, ch := range c.children {
		if !ch.visitLeaves(coord.Child(i), fn) {
			return false
		}
	}
	return true
}

// Stats summarizes the shape of a tree.
type Stats[T comparable] struct {
	NodesByDepth []int
	Leaves       int
	Values       map[T]int // leaf count per value
}

// Stats walks the tree once and collects node counts.
func (c *Cube[T]) Stats() Stats[T] {
	s := Stats[T]{
		NodesByDepth: make([]int, c.height+1),
		Values:       make(map[T]int),
	}
	var walk func(n *Cube[T], d int)
	walk = func(n *Cube[T], d int) {
		s.NodesByDepth[d]++
		if n.IsLeaf() {
			s.Leaves++
			s.Values[n.value]++
			return
		}
		for _, ch := range n.children {
			walk(ch, d+1)
		}
	}
	walk(c, 0)
	return s
}

// Nodes returns the total node count.
func (s Stats[T]) Nodes() int {
	total := 0
	for _, n := range s.NodesByDepth {
		total += n
	}
	return total
}
