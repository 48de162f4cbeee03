// Package mesh turns octrees into face-culled triangle meshes.
package mesh

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/octacube/pkg/cube"
	vmath "github.com/Faultbox/octacube/pkg/math"
)

// Output holds parallel vertex arrays. Every four vertices form one quad and
// every three indices one triangle.
type Output struct {
	Positions []vmath.Vec3
	Indices   []uint32
	Normals   []vmath.Vec3
	Colors    []vmath.Vec3 // RGB in [0,1]
}

// GenerateMesh emits one quad per exposed voxel face. colorOf maps a voxel
// value to RGB, and the whole octree spans 2^baseDepth world units. See
// VisitFaces for how maxDepth and borders are interpreted. Coplanar faces
// are never merged.
func GenerateMesh[T comparable](c *cube.Cube[T], colorOf func(T) vmath.Vec3, maxDepth uint32, borders [4]T, baseDepth uint32) *Output {
	out := &Output{}
	VisitFaces(c, maxDepth, borders, func(f Face[T]) {
		out.addQuad(f.Corners(baseDepth), f.Normal.Vec3(), colorOf(f.Value))
	})
	return out
}

func (o *Output) addQuad(corners [4]vmath.Vec3, normal, color vmath.Vec3) {
	base := uint32(len(o.Positions))
	for _, p := range corners {
		o.Positions = append(o.Positions, p)
		o.Normals = append(o.Normals, normal)
		o.Colors = append(o.Colors, color)
	}
	o.Indices = append(o.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

// FaceCount returns the number of quads.
func (o *Output) FaceCount() int {
	return len(o.Positions) / 4
}

// TriangleCount returns the number of triangles.
func (o *Output) TriangleCount() int {
	return len(o.Indices) / 3
}

// Bounds returns the box enclosing every vertex. An empty mesh has a zero box.
func (o *Output) Bounds() vmath.AABB {
	if len(o.Positions) == 0 {
		return vmath.AABB{}
	}
	b := vmath.AABB{Min: o.Positions[0], Max: o.Positions[0]}
	for _, p := range o.Positions[1:] {
		b = b.Extend(p)
	}
	return b
}

// WriteOBJ writes the mesh as Wavefront OBJ with per-vertex colours.
func (o *Output) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %d vertices, %d triangles\n", len(o.Positions), o.TriangleCount())
	for i, p := range o.Positions {
		c := o.Colors[i]
		fmt.Fprintf(bw, "v %g %g %g %g %g %g\n", p.X, p.Y, p.Z, c.X, c.Y, c.Z)
	}
	for _, n := range o.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}
	for i := 0; i+2 < len(o.Indices); i += 3 {
		a, b, c := o.Indices[i]+1, o.Indices[i+1]+1, o.Indices[i+2]+1
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}

	return bw.Flush()
}
