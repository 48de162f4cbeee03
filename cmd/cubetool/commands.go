package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/octacube/internal/config"
	"github.com/Faultbox/octacube/internal/logger"
	"github.com/Faultbox/octacube/internal/worldgen"
	"github.com/Faultbox/octacube/pkg/cube"
	"github.com/Faultbox/octacube/pkg/formats"
	vmath "github.com/Faultbox/octacube/pkg/math"
	"github.com/Faultbox/octacube/pkg/mesh"
)

func isAir(v uint8) bool {
	return v == 0
}

func wantsCompression(cfg *config.Config, path string) bool {
	return cfg.Output.Compress || strings.HasSuffix(strings.ToLower(path), ".zst")
}

func cmdInfo(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: info <model>", errUsage)
	}

	path := fs.Arg(0)
	c, err := formats.Load(path)
	if err != nil {
		return err
	}
	stats := c.Stats()

	fmt.Fprintf(out, "Model:   %s\n", path)
	fmt.Fprintf(out, "Depth:   %d (%d^3 voxels)\n", c.Depth(), 1<<c.Depth())
	fmt.Fprintf(out, "Nodes:   %d\n", stats.Nodes())
	fmt.Fprintf(out, "Leaves:  %d\n", stats.Leaves)
	fmt.Fprintf(out, "BCF:     %d bytes\n", len(formats.SerializeBCF(c)))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Nodes by depth:")
	for d, n := range stats.NodesByDepth {
		fmt.Fprintf(out, "  %-3d %d\n", d, n)
	}

	type valueStat struct {
		value uint8
		count int
	}
	var values []valueStat
	for v, n := range stats.Values {
		values = append(values, valueStat{v, n})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].count != values[j].count {
			return values[i].count > values[j].count
		}
		return values[i].value < values[j].value
	})

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Leaves by material:")
	for _, s := range values {
		fmt.Fprintf(out, "  %-3d %d\n", s.value, s.count)
	}
	return nil
}

func cmdConvert(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 || fs.NArg()%2 != 0 {
		return fmt.Errorf("%w: convert <in> <out> [<in> <out>...]", errUsage)
	}

	log := logger.Named("convert")
	sizes := make([]int64, fs.NArg()/2)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Output.Workers)

	for i := 0; i < fs.NArg(); i += 2 {
		in, dst := fs.Arg(i), fs.Arg(i+1)
		idx := i / 2

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			c, err := formats.Load(in)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if err := formats.Save(dst, c, wantsCompression(cfg, dst)); err != nil {
				return fmt.Errorf("%s: %w", dst, err)
			}

			st, err := os.Stat(dst)
			if err != nil {
				return err
			}
			sizes[idx] = st.Size()
			log.Debug("converted", zap.String("in", in), zap.String("out", dst), zap.Int64("bytes", st.Size()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, size := range sizes {
		fmt.Fprintf(out, "%s -> %s (%d bytes)\n", fs.Arg(2*i), fs.Arg(2*i+1), size)
	}
	return nil
}

func colorMapper(cfg *config.Config, terrain bool) (mesh.ColorMapper, error) {
	switch {
	case terrain:
		return mesh.ParsePalette(worldgen.Palette())
	case len(cfg.Mesh.Palette) > 0:
		return mesh.ParsePalette(cfg.Mesh.Palette)
	default:
		return mesh.NewHSVColorMapper(), nil
	}
}

func cmdMesh(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("mesh", flag.ContinueOnError)
	objPath := fs.String("obj", "", "Write the mesh as Wavefront OBJ")
	terrain := fs.Bool("terrain", false, "Colour with the terrain palette")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: mesh [-obj out.obj] <model>", errUsage)
	}

	c, err := formats.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	colors, err := colorMapper(cfg, *terrain)
	if err != nil {
		return fmt.Errorf("palette: %w", err)
	}

	m := mesh.GenerateMesh(c, colors.Map, cfg.Mesh.MaxDepth, cfg.Mesh.Borders, cfg.Mesh.BaseDepth)
	b := m.Bounds()

	fmt.Fprintf(out, "Faces:     %d\n", m.FaceCount())
	fmt.Fprintf(out, "Triangles: %d\n", m.TriangleCount())
	fmt.Fprintf(out, "Vertices:  %d\n", len(m.Positions))
	fmt.Fprintf(out, "Bounds:    (%g, %g, %g) - (%g, %g, %g)\n", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)

	if *objPath == "" {
		return nil
	}

	f, err := os.Create(*objPath)
	if err != nil {
		return err
	}
	if err := m.WriteOBJ(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", *objPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote:     %s\n", *objPath)
	return nil
}

func parseVec3(args []string) (vmath.Vec3, error) {
	var v [3]float32
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return vmath.Vec3{}, fmt.Errorf("invalid number %q", s)
		}
		v[i] = float32(f)
	}
	return vmath.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func cmdRaycast(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("raycast", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 7 {
		return fmt.Errorf("%w: raycast <model> ox oy oz dx dy dz", errUsage)
	}

	c, err := formats.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	origin, err := parseVec3(fs.Args()[1:4])
	if err != nil {
		return err
	}
	dir, err := parseVec3(fs.Args()[4:7])
	if err != nil {
		return err
	}

	var hit *cube.Hit[uint8]
	if vmath.UnitCube.Contains(origin) {
		var dbg *cube.RaycastDebugState
		if cfg.Raycast.Trace {
			dbg = &cube.RaycastDebugState{}
		}
		hit, err = cube.RaycastDebug(c, origin, dir, cfg.Raycast.MaxDepth, isAir, dbg)
		if dbg != nil {
			for _, coord := range dbg.Path {
				fmt.Fprintf(out, "  visit %s\n", coord)
			}
			fmt.Fprintf(out, "  %d level changes, deepest %d\n", dbg.EntryCount, dbg.MaxDepthReached)
		}
	} else {
		logger.Named("raycast").Debug("origin outside unit cube, clipping", zap.Any("origin", origin))
		hit, err = cube.RaycastFromOutside(c, origin, dir, cfg.Raycast.MaxDepth, isAir)
	}
	if err != nil {
		return err
	}

	if hit == nil {
		fmt.Fprintln(out, "miss")
		return nil
	}
	fmt.Fprintf(out, "hit material %d at %s\n", hit.Value, hit.Coord)
	fmt.Fprintf(out, "  position (%.4f, %.4f, %.4f)\n", hit.Position.X, hit.Position.Y, hit.Position.Z)
	fmt.Fprintf(out, "  normal   %s\n", hit.Normal)
	fmt.Fprintf(out, "  distance %.4f\n", hit.Distance)
	return nil
}

func cmdGenerate(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	depth := fs.Uint("depth", 0, "Octree depth (0 keeps the configured depth)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: generate [-depth n] <out>", errUsage)
	}

	p := cfg.Terrain.Params()
	if *depth > 0 {
		p.Depth = uint32(*depth)
	}
	g, err := worldgen.New(p)
	if err != nil {
		return err
	}

	logger.Named("generate").Info("generating terrain",
		zap.Int64("seed", p.Seed),
		zap.Uint32("depth", p.Depth))

	c := g.Generate()
	dst := fs.Arg(0)
	if err := formats.Save(dst, c, wantsCompression(cfg, dst)); err != nil {
		return err
	}

	size := g.Size()
	fmt.Fprintf(out, "Generated %dx%dx%d terrain (seed %d, %d leaves) -> %s\n",
		size, size, size, p.Seed, c.Stats().Leaves, dst)
	return nil
}
