package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vmath "github.com/Faultbox/octacube/pkg/math"
)

func mustGet(t *testing.T, c *Cube[uint8], x, y, z int32, depth uint32) uint8 {
	t.Helper()
	v, err := c.Get(NewCoord(x, y, z, depth))
	require.NoError(t, err)
	return v
}

func TestFromVoxelsMatchesSetVoxel(t *testing.T) {
	voxels := []Voxel[uint8]{
		{Pos: vmath.IVec3{X: 0, Y: 0, Z: 0}, Value: 128},
		{Pos: vmath.IVec3{X: 1, Y: 0, Z: 0}, Value: 129},
		{Pos: vmath.IVec3{X: 0, Y: 1, Z: 1}, Value: 130},
		{Pos: vmath.IVec3{X: 3, Y: 3, Z: 3}, Value: 131},
		{Pos: vmath.IVec3{X: 9, Y: 0, Z: 0}, Value: 200}, // outside a depth 2 grid
	}

	built := FromVoxels(voxels, 2, 0)

	want := Solid[uint8](0)
	for _, v := range voxels[:4] {
		var err error
		want, err = want.SetVoxel(v.Pos.X, v.Pos.Y, v.Pos.Z, 2, v.Value)
		require.NoError(t, err)
	}

	assert.True(t, built.Equal(want), "got %s want %s", built, want)
}

func TestFromVoxelsCollapses(t *testing.T) {
	var voxels []Voxel[uint8]
	for i := 0; i < 8; i++ {
		voxels = append(voxels, Voxel[uint8]{Pos: OctantPosition(i), Value: 4})
	}

	v, ok := FromVoxels(voxels, 1, 0).IsSolid()
	require.True(t, ok)
	assert.Equal(t, uint8(4), v)
}

func TestFromVoxelsAutoDepth(t *testing.T) {
	tests := []struct {
		max   int32
		depth uint32
	}{
		{0, 0},
		{1, 1},
		{3, 2},
		{4, 3},
		{15, 4},
	}

	for _, tc := range tests {
		c, depth := FromVoxelsAutoDepth([]Voxel[uint8]{{Pos: vmath.IVec3{Y: tc.max}, Value: 1}}, 0)
		assert.Equal(t, tc.depth, depth, "max coordinate %d", tc.max)
		assert.Equal(t, uint8(1), mustGet(t, c, 0, tc.max, 0, depth))
	}
}

func TestExpandOnce(t *testing.T) {
	borders := [4]uint8{10, 11, 12, 13}
	c := ExpandOnce(Solid[uint8](1), borders)

	// centre 2x2x2 block holds the original cube
	for i := 0; i < 8; i++ {
		p := OctantPosition(i).Add(vmath.IVec3{X: 1, Y: 1, Z: 1})
		assert.Equal(t, uint8(1), mustGet(t, c, p.X, p.Y, p.Z, 2))
	}

	// border cells take their Y layer's material
	assert.Equal(t, uint8(10), mustGet(t, c, 0, 0, 0, 2))
	assert.Equal(t, uint8(11), mustGet(t, c, 0, 1, 2, 2))
	assert.Equal(t, uint8(12), mustGet(t, c, 3, 2, 1, 2))
	assert.Equal(t, uint8(13), mustGet(t, c, 1, 3, 1, 2))
}

func TestExpandKeepsStructure(t *testing.T) {
	inner := Tabulate(func(i int) *Cube[uint8] { return Solid(uint8(i + 1)) })
	c := Expand(inner, [4]uint8{20, 21, 22, 23}, 2)

	// each expansion doubles the extent, so the original sits in cells [3,5)
	for i := 0; i < 8; i++ {
		p := OctantPosition(i)
		got := mustGet(t, c, 3+p.X, 3+p.Y, 3+p.Z, 3)
		assert.Equal(t, uint8(i+1), got, "octant %d", i)
	}
	assert.Equal(t, uint8(20), mustGet(t, c, 2, 2, 2, 3))
	assert.Equal(t, uint8(20), mustGet(t, c, 0, 0, 0, 3))
	assert.Equal(t, uint8(23), mustGet(t, c, 7, 7, 7, 3))
	assert.Equal(t, uint32(3), c.Depth())
}

func TestMirror(t *testing.T) {
	c, _ := Solid[uint8](0).SetVoxel(0, 1, 0, 2, 5)

	mx := Mirror(c, PosX)
	assert.Equal(t, uint8(5), mustGet(t, mx, 3, 1, 0, 2))
	assert.Equal(t, uint8(0), mustGet(t, mx, 0, 1, 0, 2))

	mxy := Mirror(c, PosX, NegY)
	assert.Equal(t, uint8(5), mustGet(t, mxy, 3, 2, 0, 2))

	assert.True(t, Mirror(mx, PosX).Equal(c), "mirroring twice restores the tree")
	assert.Same(t, c, Mirror(c, PosX, NegX), "opposite directions cancel")
}

func TestSwapIsTopLevelOnly(t *testing.T) {
	c, _ := Solid[uint8](0).SetVoxel(0, 0, 0, 2, 5)

	s := Swap(c, PosX)
	assert.Equal(t, uint8(5), mustGet(t, s, 2, 0, 0, 2))
	assert.Equal(t, uint8(0), mustGet(t, s, 3, 0, 0, 2))

	solid := Solid[uint8](3)
	assert.Same(t, solid, Swap(solid, PosZ))
}

func TestMerge(t *testing.T) {
	a, _ := Solid[uint8](0).SetVoxel(0, 0, 0, 1, 1)
	b, _ := Solid[uint8](0).SetVoxel(1, 0, 0, 1, 2)
	b, _ = b.SetVoxel(0, 0, 0, 1, 3)

	m := Merge(a, b)
	assert.Equal(t, uint8(3), mustGet(t, m, 0, 0, 0, 1), "b wins where non-empty")
	assert.Equal(t, uint8(2), mustGet(t, m, 1, 0, 0, 1))
	assert.Equal(t, uint8(0), mustGet(t, m, 1, 1, 1, 1))

	assert.Same(t, a, Merge(a, Solid[uint8](0)))
	filled := Solid[uint8](9)
	assert.Same(t, filled, Merge(a, filled))
}

func TestVisitLeaves(t *testing.T) {
	c, _ := Solid[uint8](0).SetVoxel(3, 3, 3, 2, 7)

	var coords []CubeCoord
	c.VisitLeaves(func(leaf *Cube[uint8], coord CubeCoord) bool {
		coords = append(coords, coord)
		return true
	})
	require.Len(t, coords, 15)
	assert.Equal(t, NewCoord(0, 0, 0, 1), coords[0])
	assert.Equal(t, NewCoord(3, 3, 3, 2), coords[len(coords)-1])

	visited := 0
	c.VisitLeaves(func(*Cube[uint8], CubeCoord) bool {
		visited++
		return visited < 3
	})
	assert.Equal(t, 3, visited)
}

func TestStats(t *testing.T) {
	c, _ := Solid[uint8](0).SetVoxel(3, 3, 3, 2, 7)
	s := c.Stats()

	assert.Equal(t, []int{1, 8, 8}, s.NodesByDepth)
	assert.Equal(t, 17, s.Nodes())
	assert.Equal(t, 15, s.Leaves)
	assert.Equal(t, map[uint8]int{0: 14, 7: 1}, s.Values)
}
