package cube

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	vmath "github.com/Faultbox/octacube/pkg/math"
)

// Raycast errors.
var (
	ErrStartOutOfBounds = errors.New("ray origin outside the unit cube")
	ErrInvalidDirection = errors.New("ray direction is zero")
	ErrMaxDepthExceeded = errors.New("raycast exceeded maximum traversal depth")
)

// MaxTraversalDepth bounds how deep a raycast descends. Local coordinates are
// rescaled by two per level, so float32 cannot resolve anything finer.
const MaxTraversalDepth = 32

const maxTraversalSteps = 1 << 22

// Hit describes the first non-empty voxel along a ray.
type Hit[T comparable] struct {
	Position vmath.Vec3 // entry point in [0,1]^3
	Normal   Axis       // face the ray entered through
	Value    T
	Distance float32 // from the ray origin, in unit-cube lengths
	Coord    CubeCoord
}

// RaycastDebugState records the nodes a traversal visited.
type RaycastDebugState struct {
	Path            []CubeCoord
	EntryCount      int // level descents and ascents
	MaxDepthReached uint32
}

func (d *RaycastDebugState) visit(coord CubeCoord) {
	if d == nil {
		return
	}
	d.Path = append(d.Path, coord)
	d.MaxDepthReached = max(d.MaxDepthReached, coord.Depth)
}

func (d *RaycastDebugState) level() {
	if d != nil {
		d.EntryCount++
	}
}

// Raycast finds the first voxel along the ray for which isEmpty is false.
// The origin must lie in [0,1]^3. A subdivided node at maxDepth counts as
// solid when any leaf under it is non-empty, and the hit carries the first such
// value in octant order. A miss returns a nil hit and nil error.
func Raycast[T comparable](c *Cube[T], origin, dir vmath.Vec3, maxDepth uint32, isEmpty func(T) bool) (*Hit[T], error) {
	return RaycastDebug(c, origin, dir, maxDepth, isEmpty, nil)
}

// RaycastDebug is Raycast that also fills dbg when it is non-nil.
func RaycastDebug[T comparable](c *Cube[T], origin, dir vmath.Vec3, maxDepth uint32, isEmpty func(T) bool, dbg *RaycastDebugState) (*Hit[T], error) {
	if dir.IsZero() {
		return nil, ErrInvalidDirection
	}
	if !origin.InUnitCube() {
		return nil, fmt.Errorf("%w: %v", ErrStartOutOfBounds, origin)
	}
	r := raycaster[T]{
		origin:  origin,
		dir:     dir,
		limit:   maxDepth,
		isEmpty: isEmpty,
		dbg:     dbg,
	}
	return r.run(c, origin, 0, initialNormal(origin, dir))
}

// RaycastFromOutside casts a ray that may start outside the unit cube. The
// ray is clipped to the cube first; rays that never reach it miss.
func RaycastFromOutside[T comparable](c *Cube[T], origin, dir vmath.Vec3, maxDepth uint32, isEmpty func(T) bool) (*Hit[T], error) {
	if dir.IsZero() {
		return nil, ErrInvalidDirection
	}
	if origin.InUnitCube() {
		return Raycast(c, origin, dir, maxDepth, isEmpty)
	}

	ray := vmath.Ray{Origin: origin, Direction: dir}
	tNear, _, axis, hit := ray.IntersectAABB(vmath.UnitCube)
	if !hit || axis < 0 {
		return nil, nil
	}

	entry := clampUnit(ray.At(tNear))
	positive := dir.Get(axis) > 0
	entry = entry.With(axis, boundary(!positive))

	r := raycaster[T]{
		origin:  origin,
		dir:     dir,
		limit:   maxDepth,
		isEmpty: isEmpty,
	}
	return r.run(c, entry, tNear, AxisFromIndexSign(axis, !positive))
}

type frame[T comparable] struct {
	node  *Cube[T]
	coord CubeCoord
}

type raycaster[T comparable] struct {
	origin  vmath.Vec3
	dir     vmath.Vec3
	limit   uint32
	isEmpty func(T) bool
	dbg     *RaycastDebugState
}

// run walks the tree from the root. p is always local to node, t is measured
// along dir in unit-cube space.
func (r *raycaster[T]) run(root *Cube[T], p vmath.Vec3, t float32, normal Axis) (*Hit[T], error) {
	node := root
	coord := CubeCoord{}
	var stack []frame[T]

	for steps := 0; steps < maxTraversalSteps; steps++ {
		r.dbg.visit(coord)

		if node.IsLeaf() || coord.Depth >= r.limit {
			if v, ok := r.representative(node); ok {
				return r.hit(v, t, normal, coord), nil
			}

			axis, dt := r.exit(p)
			positive := r.dir.Get(axis) > 0
			p = clampUnit(p.Add(r.dir.Scale(dt))).With(axis, boundary(positive))
			t += dt * levelScale(coord.Depth)

			var ok bool
			node, coord, p, stack, ok = r.step(node, coord, p, stack, axis, positive)
			if !ok {
				return nil, nil
			}
			normal = AxisFromIndexSign(axis, !positive)
			continue
		}

		if coord.Depth >= MaxTraversalDepth {
			return nil, fmt.Errorf("%w: %d", ErrMaxDepthExceeded, coord.Depth)
		}

		oct := r.octantOf(p)
		stack = append(stack, frame[T]{node: node, coord: coord})
		p = p.Scale(2).Sub(OctantPosition(oct).Vec3())
		node = node.Child(oct)
		coord = coord.Child(oct)
		r.dbg.level()
	}
	return nil, fmt.Errorf("%w: step limit reached", ErrMaxDepthExceeded)
}

// representative returns the first leaf value in octant order that isEmpty
// rejects. ok is false when the whole subtree is empty.
func (r *raycaster[T]) representative(n *Cube[T]) (v T, ok bool) {
	if v, isLeaf := n.IsSolid(); isLeaf {
		return v, !r.isEmpty(v)
	}
	for _, ch := range n.Children() {
		if v, ok := r.representative(ch); ok {
			return v, true
		}
	}
	return v, false
}

// octantOf selects the child containing p. A component exactly on the
// midplane goes to the half the ray is moving into; zero counts as positive.
func (r *raycaster[T]) octantOf(p vmath.Vec3) int {
	var b [3]int
	for i := range b {
		switch pi := p.Get(i); {
		case pi > 0.5:
			b[i] = 1
		case pi == 0.5 && r.dir.Get(i) >= 0:
			b[i] = 1
		}
	}
	return OctantIndex(b[0], b[1], b[2])
}

// exit returns the axis whose node boundary the ray reaches first from p and
// the local distance to it. Ties go to x, then y, then z.
func (r *raycaster[T]) exit(p vmath.Vec3) (int, float32) {
	var ts [3]float32
	for i := range ts {
		d := r.dir.Get(i)
		switch {
		case d > 0:
			ts[i] = (1 - p.Get(i)) / d
		case d < 0:
			ts[i] = -p.Get(i) / d
		default:
			ts[i] = math32.Inf(1)
		}
		ts[i] = max(ts[i], 0)
	}

	switch {
	case ts[0] <= ts[1] && ts[0] <= ts[2]:
		return 0, ts[0]
	case ts[1] <= ts[2]:
		return 1, ts[1]
	default:
		return 2, ts[2]
	}
}

// step moves from a node whose boundary along axis was just reached into the
// adjacent node at the same level, climbing while the neighbour lies outside
// the current parent. ok is false when the ray leaves the root.
func (r *raycaster[T]) step(node *Cube[T], coord CubeCoord, p vmath.Vec3, stack []frame[T], axis int, positive bool) (*Cube[T], CubeCoord, vmath.Vec3, []frame[T], bool) {
	for len(stack) > 0 {
		oct := coord.Octant()
		bit := oct >> axis & 1
		parent := stack[len(stack)-1]

		if (positive && bit == 0) || (!positive && bit == 1) {
			sib := oct ^ (1 << axis)
			return parent.node.Child(sib), parent.coord.Child(sib), p.With(axis, boundary(!positive)), stack, true
		}

		p = p.Add(OctantPosition(oct).Vec3()).Scale(0.5).With(axis, boundary(positive))
		node, coord = parent.node, parent.coord
		stack = stack[:len(stack)-1]
		r.dbg.level()
		r.dbg.visit(coord)
	}
	return node, coord, p, stack, false
}

func (r *raycaster[T]) hit(v T, t float32, normal Axis, coord CubeCoord) *Hit[T] {
	return &Hit[T]{
		Position: clampUnit(r.origin.Add(r.dir.Scale(t))),
		Normal:   normal,
		Value:    v,
		Distance: t * r.dir.Length(),
		Coord:    coord,
	}
}

// initialNormal picks the face of the root the origin sits on when the ray
// points inward through it, else the face opposing the dominant direction.
func initialNormal(p, dir vmath.Vec3) Axis {
	for i := 0; i < 3; i++ {
		switch d := dir.Get(i); {
		case p.Get(i) == 0 && d > 0:
			return AxisFromIndexSign(i, false)
		case p.Get(i) == 1 && d < 0:
			return AxisFromIndexSign(i, true)
		}
	}

	a := dir.Abs()
	i := 0
	if a.Y > a.Get(i) {
		i = 1
	}
	if a.Z > a.Get(i) {
		i = 2
	}
	return AxisFromIndexSign(i, dir.Get(i) < 0)
}

func boundary(positive bool) float32 {
	if positive {
		return 1
	}
	return 0
}

func levelScale(depth uint32) float32 {
	return 1 / float32(uint64(1)<<depth)
}

func clampUnit(p vmath.Vec3) vmath.Vec3 {
	return p.Max(vmath.Vec3{}).Min(vmath.Splat(1))
}
