package math

import "github.com/chewxy/math32"

// Ray represents a ray in 3D space with origin and direction.
// Direction does not need to be normalized; distances along the ray are in units of its length.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point Origin + t*Direction.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// UnitCube is the normalized octree space [0,1]^3.
var UnitCube = AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// Contains reports whether p lies inside the closed box.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Extend grows the box to include p.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box using the slab method.
// Returns the entry and exit parameters and whether the ray hits the box at t >= 0.
// If the ray starts inside the box, tNear is negative.
// Axis is the slab that produced tNear (0=X, 1=Y, 2=Z), or -1 when the origin is inside.
func (r Ray) IntersectAABB(box AABB) (tNear, tFar float32, axis int, hit bool) {
	tNear = -math32.MaxFloat32
	tFar = math32.MaxFloat32
	axis = -1

	for i := 0; i < 3; i++ {
		o := r.Origin.Get(i)
		d := r.Direction.Get(i)
		lo := box.Min.Get(i)
		hi := box.Max.Get(i)

		if d == 0 {
			// Parallel to the slab: must already be between the planes
			if o < lo || o > hi {
				return 0, 0, -1, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
			axis = i
		}
		if t2 < tFar {
			tFar = t2
		}
	}

	if tFar < tNear || tFar < 0 {
		return 0, 0, -1, false
	}
	if tNear < 0 {
		axis = -1
	}
	return tNear, tFar, axis, true
}
