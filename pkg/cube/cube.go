// Package cube implements an immutable sparse voxel octree.
//
// A Cube is either solid (one value fills its whole extent) or subdivided into
// eight children, one per octant. Octants are indexed x | y<<1 | z<<2 where each
// bit selects the upper half along that axis. Nodes are never modified after
// construction: Update copies the path from the root to the target and shares
// every untouched sibling with the previous version, so a Cube may be read from
// any number of goroutines while new versions are built from it.
package cube

import (
	"errors"
	"fmt"
)

// Octree errors.
var (
	ErrCoordOutOfBounds = errors.New("coordinate out of bounds")
	ErrInvalidPath      = errors.New("invalid octant path")
)

// Cube is an octree node. The zero value of T is treated as empty space.
type Cube[T comparable] struct {
	value    T
	children *[8]*Cube[T]
	height   uint32
	rep      T
}

// Solid creates a leaf filled with v.
func Solid[T comparable](v T) *Cube[T] {
	return &Cube[T]{value: v, rep: v}
}

// Subdivided creates a node from eight children in octant order.
// Eight equal solid children collapse into a single solid node.
// A nil child is a programming error and panics.
func Subdivided[T comparable](children [8]*Cube[T]) *Cube[T] {
	for i, ch := range children {
		if ch == nil {
			panic(fmt.Sprintf("cube: nil child at octant %d", i))
		}
	}

	if v, ok := children[0].IsSolid(); ok {
		uniform := true
		for _, ch := range children[1:] {
			if w, ok := ch.IsSolid(); !ok || w != v {
				uniform = false
				break
			}
		}
		if uniform {
			return children[0]
		}
	}

	var zero T
	n := &Cube[T]{children: &children}
	for _, ch := range children {
		n.height = max(n.height, ch.height+1)
		if n.rep == zero && ch.rep != zero {
			n.rep = ch.rep
		}
	}
	return n
}

// Tabulate creates a subdivided node by calling fn for each octant.
func Tabulate[T comparable](fn func(octant int) *Cube[T]) *Cube[T] {
	var children [8]*Cube[T]
	for i := range children {
		children[i] = fn(i)
	}
	return Subdivided(children)
}

// IsSolid returns the node's value and true when it is a leaf.
func (c *Cube[T]) IsSolid() (T, bool) {
	if c.children == nil {
		return c.value, true
	}
	var zero T
	return zero, false
}

// IsLeaf reports whether the node is solid.
func (c *Cube[T]) IsLeaf() bool {
	return c.children == nil
}

// Value returns the node's representative value: the solid value for a leaf,
// otherwise the first non-empty leaf value in octant order, or the zero value
// when the whole subtree is empty.
func (c *Cube[T]) Value() T {
	return c.rep
}

// Child returns octant i. A solid node is its own child.
func (c *Cube[T]) Child(i int) *Cube[T] {
	if c.children == nil {
		return c
	}
	return c.children[i&7]
}

// Children returns the eight children. A solid node returns itself eight times.
func (c *Cube[T]) Children() [8]*Cube[T] {
	if c.children == nil {
		return [8]*Cube[T]{c, c, c, c, c, c, c, c}
	}
	return *c.children
}

// Depth returns the height of the subtree: 0 for a leaf.
func (c *Cube[T]) Depth() uint32 {
	return c.height
}

// Equal reports structural equality.
func (c *Cube[T]) Equal(other *Cube[T]) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	if c.children == nil || other.children == nil {
		return c.children == nil && other.children == nil && c.value == other.value
	}
	if c.height != other.height || c.rep != other.rep {
		return false
	}
	for i := range c.children {
		if !c.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// Get returns the value at coord. A solid node reached before coord.Depth
// answers for its whole extent.
func (c *Cube[T]) Get(coord CubeCoord) (T, error) {
	n, err := c.GetCube(coord)
	if err != nil {
		var zero T
		return zero, err
	}
	return n.rep, nil
}

// GetCube returns the subtree addressed by coord, or the solid node that
// covers it.
func (c *Cube[T]) GetCube(coord CubeCoord) (*Cube[T], error) {
	if !coord.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrCoordOutOfBounds, coord)
	}

	n := c
	for level := uint32(0); level < coord.Depth && n.children != nil; level++ {
		p := coord.Pos.Shr(coord.Depth - 1 - level)
		n = n.children[OctantIndex(int(p.X), int(p.Y), int(p.Z))]
	}
	return n, nil
}

// GetPath returns the node at the end of an octant path.
func (c *Cube[T]) GetPath(path []int) (*Cube[T], error) {
	n := c
	for _, i := range path {
		if i < 0 || i > 7 {
			return nil, fmt.Errorf("%w: octant %d", ErrInvalidPath, i)
		}
		n = n.Child(i)
	}
	return n, nil
}

// Update returns a new root with the subtree at coord replaced by value.
// Nodes along the path are rebuilt and collapsed where possible; everything
// else is shared with c.
func (c *Cube[T]) Update(coord CubeCoord, value *Cube[T]) (*Cube[T], error) {
	if !coord.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrCoordOutOfBounds, coord)
	}
	return c.UpdatePath(coord.Path(), value)
}

// UpdatePath is Update addressed by an octant path from the root.
func (c *Cube[T]) UpdatePath(path []int, value *Cube[T]) (*Cube[T], error) {
	if value == nil {
		panic("cube: nil update value")
	}
	for _, i := range path {
		if i < 0 || i > 7 {
			return nil, fmt.Errorf("%w: octant %d", ErrInvalidPath, i)
		}
	}
	return c.updatePath(path, value), nil
}

func (c *Cube[T]) updatePath(path []int, value *Cube[T]) *Cube[T] {
	if len(path) == 0 {
		return value
	}
	children := c.Children()
	children[path[0]] = children[path[0]].updatePath(path[1:], value)
	return Subdivided(children)
}

// SetVoxel sets a single cell of the 2^depth grid.
func (c *Cube[T]) SetVoxel(x, y, z int32, depth uint32, v T) (*Cube[T], error) {
	return c.Update(NewCoord(x, y, z, depth), Solid(v))
}

// String returns a compact bracketed form, e.g. "[1 0 0 0 0 0 0 [2 0 0 0 0 0 0 0]]".
func (c *Cube[T]) String() string {
	if c.children == nil {
		return fmt.Sprint(c.value)
	}
	s := "["
	for i, ch := range c.children {
		if i > 0 {
			s += " "
		}
		s += ch.String()
	}
	return s + "]"
}
