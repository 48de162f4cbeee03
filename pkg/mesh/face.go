package mesh

import (
	"github.com/Faultbox/octacube/pkg/cube"
	vmath "github.com/Faultbox/octacube/pkg/math"
)

// Face is one visible square of a voxel surface.
type Face[T comparable] struct {
	Coord  cube.CubeCoord // cell on the solid side of the face
	Normal cube.Axis      // outward direction
	Value  T
}

// faceCorners are unit-cube corner offsets for each face, counter-clockwise
// when viewed from outside. Indexed by cube.Axis.
var faceCorners = [6][4]vmath.Vec3{
	cube.PosX: {{X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 0, Z: 1}},
	cube.NegX: {{X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 0}},
	cube.PosY: {{X: 0, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 0}},
	cube.NegY: {{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}},
	cube.PosZ: {{X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1}, {X: 0, Y: 0, Z: 1}},
	cube.NegZ: {{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}},
}

// Corners returns the four face vertices in world units, where the whole
// octree spans 2^baseDepth.
func (f Face[T]) Corners(baseDepth uint32) [4]vmath.Vec3 {
	size := float32(uint64(1)<<baseDepth) / float32(f.Coord.Size())
	origin := f.Coord.Pos.Vec3().Scale(size)

	var out [4]vmath.Vec3
	for i, c := range faceCorners[f.Normal] {
		out[i] = origin.Add(c.Scale(size))
	}
	return out
}

// VisitFaces calls fn for every face of a non-empty voxel that borders empty
// space. Voxels are taken at maxDepth at the finest; a subdivided node there
// counts as solid with its representative value. Where a neighbour is finer
// than the voxel the face is split so only the exposed parts are reported.
//
// Cells outside the octree read from borders by height: borders[0] below it,
// borders[1] beside its lower half, borders[2] beside its upper half and
// borders[3] above it.
func VisitFaces[T comparable](c *cube.Cube[T], maxDepth uint32, borders [4]T, fn func(Face[T])) {
	w := walker[T]{
		root:     c,
		maxDepth: maxDepth,
		fn:       fn,
		below:    cube.Solid(borders[0]),
		above:    cube.Solid(borders[3]),
		lower:    cube.Solid(borders[1]),
		upper:    cube.Solid(borders[2]),
	}
	w.side = cube.Tabulate(func(i int) *cube.Cube[T] {
		if cube.OctantPosition(i).Y == 0 {
			return w.lower
		}
		return w.upper
	})
	w.visit(c, cube.CubeCoord{})
}

type walker[T comparable] struct {
	root     *cube.Cube[T]
	maxDepth uint32
	fn       func(Face[T])

	below, above *cube.Cube[T]
	lower, upper *cube.Cube[T]
	side         *cube.Cube[T] // beside the root at depth 0
}

func (w *walker[T]) visit(n *cube.Cube[T], coord cube.CubeCoord) {
	if !n.IsLeaf() && coord.Depth < w.maxDepth {
		for i, ch := range n.Children() {
			w.visit(ch, coord.Child(i))
		}
		return
	}

	var zero T
	v := n.Value()
	if v == zero {
		return
	}
	for _, axis := range cube.AllAxes {
		w.face(coord, axis, v)
	}
}

func (w *walker[T]) face(patch cube.CubeCoord, axis cube.Axis, v T) {
	d := axis.IVec3()
	nb := w.sample(patch.Neighbor(d.X, d.Y, d.Z))

	var zero T
	if nb.IsLeaf() || patch.Depth >= w.maxDepth {
		if nb.Value() == zero {
			w.fn(Face[T]{Coord: patch, Normal: axis, Value: v})
		}
		return
	}

	// finer neighbour: split the face into the four sub-cells touching it
	bit := int32(0)
	if axis.Positive() {
		bit = 1
	}
	for i := 0; i < 8; i++ {
		if cube.OctantPosition(i).Get(axis.Index()) == bit {
			w.face(patch.Child(i), axis, v)
		}
	}
}

// sample returns the node covering coord, reading borders outside the root.
func (w *walker[T]) sample(coord cube.CubeCoord) *cube.Cube[T] {
	if coord.Valid() {
		n, err := w.root.GetCube(coord)
		if err == nil {
			return n
		}
	}

	size := coord.Size()
	switch y := int64(coord.Pos.Y); {
	case y < 0:
		return w.below
	case y >= size:
		return w.above
	case coord.Depth == 0:
		return w.side
	case y < size/2:
		return w.lower
	default:
		return w.upper
	}
}
