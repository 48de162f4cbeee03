// cubetool is a CLI utility for inspecting, converting, meshing and
// generating voxel octree models.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/octacube/internal/config"
	"github.com/Faultbox/octacube/internal/logger"
)

var errUsage = errors.New("usage")

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Source != "" {
		logger.Log.Debug("config loaded", zap.String("path", cfg.Source))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, config.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			printUsage(os.Stderr)
		} else {
			logger.Log.Error("command failed", zap.Error(err))
		}
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	command := args[0]
	args = args[1:]
	logger.Sugar.Debugf("running %s with config %+v", command, cfg)

	switch command {
	case "info":
		return cmdInfo(cfg, args, out)
	case "convert", "cv":
		return cmdConvert(ctx, cfg, args, out)
	case "mesh":
		return cmdMesh(cfg, args, out)
	case "raycast", "ray":
		return cmdRaycast(cfg, args, out)
	case "generate", "gen":
		return cmdGenerate(cfg, args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `cubetool - voxel octree utility

Usage:
  cubetool [global options] <command> [options]

Global options:
  -config <file>   Config file (default ./cubetool.yaml or the user config dir)
  -debug           Debug logging and raycast traces
  -log-file <file> Also write logs to a rotating file
  -max-depth <n>   Traversal depth limit for mesh and raycast
  -compress        zstd-compress BCF output
  -workers <n>     Concurrent conversions
  -seed <n>        Terrain seed

Commands:
  info <model>                         Show tree statistics
  convert <in> <out> [<in> <out>...]   Convert between .bcf, .bcf.zst and .csm
  mesh [-obj out.obj] <model>          Build a surface mesh
  raycast <model> ox oy oz dx dy dz    Cast a ray in unit-cube coordinates
  generate [-depth n] <out>            Generate Perlin terrain

Examples:
  cubetool info castle.bcf
  cubetool -compress convert castle.csm castle.bcf.zst
  cubetool mesh -obj castle.obj castle.bcf
  cubetool raycast castle.bcf 0.5 1.5 0.5 0 -1 0
  cubetool -seed 42 generate hills.bcf`)
}
