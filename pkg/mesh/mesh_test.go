package mesh

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/octacube/pkg/cube"
	vmath "github.com/Faultbox/octacube/pkg/math"
)

func grey(v uint8) vmath.Vec3 {
	return vmath.Splat(float32(v) / 255)
}

func TestSingleSolidVoxel(t *testing.T) {
	out := GenerateMesh(cube.Solid[uint8](255), grey, 0, [4]uint8{}, 0)

	assert.Equal(t, 6, out.FaceCount())
	assert.Len(t, out.Positions, 24)
	assert.Len(t, out.Indices, 36)
	assert.Len(t, out.Normals, 24)
	assert.Len(t, out.Colors, 24)
	for _, c := range out.Colors {
		assert.Equal(t, vmath.Splat(1), c)
	}
	assert.Equal(t, vmath.UnitCube, out.Bounds())

	seen := map[vmath.Vec3]bool{}
	for _, n := range out.Normals {
		seen[n] = true
	}
	assert.Len(t, seen, 6, "one quad per direction")
}

func TestQuadWindingFacesOutward(t *testing.T) {
	out := GenerateMesh(cube.Solid[uint8](1), grey, 0, [4]uint8{}, 0)

	for i := 0; i < len(out.Indices); i += 3 {
		a := out.Positions[out.Indices[i]]
		b := out.Positions[out.Indices[i+1]]
		c := out.Positions[out.Indices[i+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, n.Dot(out.Normals[out.Indices[i]]), float32(0), "triangle %d", i/3)
	}
}

func TestBaseDepthScalesVertices(t *testing.T) {
	out := GenerateMesh(cube.Solid[uint8](1), grey, 0, [4]uint8{}, 4)

	assert.Equal(t, vmath.AABB{Max: vmath.Splat(16)}, out.Bounds())
}

func TestEmptyCubeHasNoFaces(t *testing.T) {
	out := GenerateMesh(cube.Solid[uint8](0), grey, 3, [4]uint8{}, 0)

	assert.Zero(t, out.FaceCount())
	assert.Empty(t, out.Indices)
	assert.Equal(t, vmath.AABB{}, out.Bounds())
}

func TestAdjacentVoxelsShareHiddenFace(t *testing.T) {
	c, err := cube.Solid[uint8](0).SetVoxel(0, 0, 0, 1, 1)
	require.NoError(t, err)
	c, err = c.SetVoxel(1, 0, 0, 1, 2)
	require.NoError(t, err)

	out := GenerateMesh(c, grey, 1, [4]uint8{}, 0)
	assert.Equal(t, 10, out.FaceCount())
}

func TestBordersCullByHeight(t *testing.T) {
	tests := []struct {
		name    string
		borders [4]uint8
		faces   int
	}{
		{"all empty", [4]uint8{0, 0, 0, 0}, 6},
		{"all solid", [4]uint8{1, 1, 1, 1}, 0},
		{"bedrock below", [4]uint8{1, 0, 0, 0}, 5},
		{"sky above only", [4]uint8{1, 1, 1, 0}, 1},
		{"water beside lower half", [4]uint8{0, 1, 0, 0}, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := GenerateMesh(cube.Solid[uint8](3), grey, 2, tc.borders, 0)
			assert.Equal(t, tc.faces, out.FaceCount())
		})
	}
}

// steppedCube has a full voxel at (0,0,0)@1 and a single small voxel at
// (2,0,0)@2 touching its +X face.
func steppedCube(t *testing.T) *cube.Cube[uint8] {
	c, err := cube.Solid[uint8](0).SetVoxel(0, 0, 0, 1, 1)
	require.NoError(t, err)
	c, err = c.SetVoxel(2, 0, 0, 2, 1)
	require.NoError(t, err)
	return c
}

func TestFaceSplitAgainstFinerNeighbour(t *testing.T) {
	var faces []Face[uint8]
	VisitFaces(steppedCube(t), 2, [4]uint8{}, func(f Face[uint8]) {
		faces = append(faces, f)
	})
	assert.Len(t, faces, 13)

	var split []cube.CubeCoord
	for _, f := range faces {
		if f.Normal == cube.PosX && f.Coord.Depth == 2 && f.Coord.Pos.X == 1 {
			split = append(split, f.Coord)
		}
	}
	assert.ElementsMatch(t, []cube.CubeCoord{
		cube.NewCoord(1, 1, 0, 2),
		cube.NewCoord(1, 0, 1, 2),
		cube.NewCoord(1, 1, 1, 2),
	}, split)
}

func TestMaxDepthTreatsSubtreeAsSolid(t *testing.T) {
	out := GenerateMesh(steppedCube(t), grey, 1, [4]uint8{}, 0)
	assert.Equal(t, 10, out.FaceCount())
}

func TestFaceCorners(t *testing.T) {
	f := Face[uint8]{Coord: cube.NewCoord(1, 0, 0, 1), Normal: cube.PosX}
	corners := f.Corners(1)

	for _, c := range corners {
		assert.Equal(t, float32(2), c.X)
		assert.True(t, c.Y == 0 || c.Y == 1)
		assert.True(t, c.Z == 0 || c.Z == 1)
	}
}

func TestWriteOBJ(t *testing.T) {
	out := GenerateMesh(cube.Solid[uint8](1), grey, 0, [4]uint8{}, 0)

	var buf bytes.Buffer
	require.NoError(t, out.WriteOBJ(&buf))

	counts := map[string]int{}
	for _, line := range strings.Split(buf.String(), "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			counts[fields[0]]++
		}
	}
	assert.Equal(t, 24, counts["v"])
	assert.Equal(t, 24, counts["vn"])
	assert.Equal(t, 12, counts["f"])
	assert.Contains(t, buf.String(), "f 1//1 2//2 3//3\n")
}

func TestHSVColorMapper(t *testing.T) {
	m := NewHSVColorMapper()
	assert.Equal(t, vmath.Vec3{}, m.Map(0))

	pure := HSVColorMapper{Saturation: 1, Value: 1}
	green := pure.Map(120)
	assert.InDelta(t, 0, green.X, 1e-5)
	assert.InDelta(t, 1, green.Y, 1e-5)
	assert.InDelta(t, 0, green.Z, 1e-5)

	out := GenerateMesh(cube.Solid[uint8](120), pure.Map, 0, [4]uint8{}, 0)
	assert.Equal(t, green, out.Colors[0])
}

func TestPaletteColorMapper(t *testing.T) {
	m, err := ParsePalette([]string{"#ff0000", "#00ff00"})
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())

	assert.Equal(t, vmath.Vec3{}, m.Map(0))
	assert.Equal(t, vmath.Vec3{X: 1}, m.Map(1))
	assert.Equal(t, vmath.Vec3{Y: 1}, m.Map(2))
	assert.Equal(t, vmath.Vec3{X: 1}, m.Map(3))

	assert.Equal(t, vmath.Vec3{X: 1, Z: 1}, NewPaletteColorMapper(nil).Map(5))

	_, err = ParsePalette([]string{"#ff0000", "not a colour"})
	assert.Error(t, err)
}

var _ ColorMapper = HSVColorMapper{}
var _ ColorMapper = (*PaletteColorMapper)(nil)
