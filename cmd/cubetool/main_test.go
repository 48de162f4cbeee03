package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/octacube/internal/config"
	"github.com/Faultbox/octacube/pkg/formats"
)

func runTool(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), cfg, args, &out)
	return out.String(), err
}

func generated(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "terrain.bcf")
	out, err := runTool(t, config.Default(), "generate", "-depth", "3", path)
	require.NoError(t, err)
	assert.Contains(t, out, "8x8x8")
	return path
}

func TestUsageErrors(t *testing.T) {
	cfg := config.Default()
	for _, args := range [][]string{
		nil,
		{"bogus"},
		{"info"},
		{"convert", "a.bcf"},
		{"raycast", "a.bcf", "0", "0"},
	} {
		_, err := runTool(t, cfg, args...)
		assert.ErrorIs(t, err, errUsage, "%v", args)
	}

	out, err := runTool(t, cfg, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "Commands:")
}

func TestInfo(t *testing.T) {
	path := generated(t, t.TempDir())

	out, err := runTool(t, config.Default(), "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Depth:   3")
	assert.Contains(t, out, "Leaves by material:")
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	src := generated(t, dir)
	csm := filepath.Join(dir, "terrain.csm")
	zst := filepath.Join(dir, "terrain.bcf.zst")

	cfg := config.Default()
	cfg.Output.Workers = 2
	out, err := runTool(t, cfg, "convert", src, csm, src, zst)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, " -> "))

	want, err := formats.Load(src)
	require.NoError(t, err)
	for _, path := range []string{csm, zst} {
		got, err := formats.Load(path)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), path)
	}

	raw, err := os.ReadFile(zst)
	require.NoError(t, err)
	assert.True(t, formats.IsCompressed(raw))
}

func TestConvertMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := runTool(t, config.Default(), "convert", filepath.Join(dir, "nope.bcf"), filepath.Join(dir, "out.csm"))
	assert.Error(t, err)
}

func TestMeshWritesOBJ(t *testing.T) {
	dir := t.TempDir()
	src := generated(t, dir)
	obj := filepath.Join(dir, "terrain.obj")

	out, err := runTool(t, config.Default(), "mesh", "-terrain", "-obj", obj, src)
	require.NoError(t, err)
	assert.Contains(t, out, "Faces:")

	data, err := os.ReadFile(obj)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\nv ")
	assert.Contains(t, string(data), "\nf ")
}

func TestRaycastHitsGround(t *testing.T) {
	src := generated(t, t.TempDir())

	out, err := runTool(t, config.Default(), "raycast", src, "0.5", "1.5", "0.5", "0", "-1", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "hit material")
	assert.Contains(t, out, "+Y")

	out, err = runTool(t, config.Default(), "raycast", src, "0.5", "1.5", "0.5", "0", "1", "0")
	require.NoError(t, err)
	assert.Equal(t, "miss\n", out)
}

func TestRaycastTrace(t *testing.T) {
	src := generated(t, t.TempDir())
	cfg := config.Default()
	cfg.Raycast.Trace = true

	out, err := runTool(t, cfg, "raycast", src, "0.5", "0.99", "0.5", "0", "-1", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "visit ")
	assert.Contains(t, out, "hit material")
}
