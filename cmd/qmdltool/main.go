// qmdltool inspects and converts Quake-family triangle models (QIM, MD2,
// MD2F, MDL, MD3) and the PACK archives they ship in.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/qtmdl/internal/assets"
	"github.com/Faultbox/qtmdl/internal/config"
	"github.com/Faultbox/qtmdl/internal/logger"
	"github.com/Faultbox/qtmdl/pkg/formats"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app is the state shared by every command.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	loader *formats.Loader
	search *assets.Manager
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("qmdltool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() < 1 {
		printUsage(stderr)
		return 2
	}

	command, cmdArgs := fs.Arg(0), fs.Args()[1:]
	if command == "help" {
		printUsage(stdout)
		return 0
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	a, err := newApp(cfg, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.close()

	var cmd func([]string) error
	switch command {
	case "info":
		cmd = a.cmdInfo
	case "convert":
		cmd = a.cmdConvert
	case "export":
		cmd = a.cmdExport
	case "skins":
		cmd = a.cmdSkins
	case "pak":
		cmd = a.cmdPak
	case "new":
		cmd = a.cmdNew
	case "uv":
		cmd = a.cmdUV
	case "config":
		cmd = a.cmdConfig
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 2
	}

	if err := cmd(cmdArgs); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Usage: %v\n", err)
			return 2
		}
		a.log.Debug("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newApp(cfg *config.Config, stdout, stderr io.Writer) (*app, error) {
	err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.FileConfig(), stderr)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	exts, err := cfg.TextureExtensions()
	if err != nil {
		return nil, err
	}
	placeholder, err := cfg.PlaceholderImage()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		log:    logger.Log,
		stdout: stdout,
		stderr: stderr,
		loader: &formats.Loader{
			Logger:      logger.Log,
			Extensions:  exts,
			Placeholder: placeholder,
		},
	}

	if len(cfg.Data.Paks) > 0 {
		a.search = assets.NewManager(logger.Log)
		a.search.AddDir(".")
		for _, p := range cfg.Data.Paks {
			if err := a.search.AddArchive(p); err != nil {
				a.search.Close()
				return nil, err
			}
		}
		a.loader.FS = a.search
	}
	return a, nil
}

func (a *app) close() {
	if a.search != nil {
		a.search.Close()
	}
	logger.Sync()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `qmdltool - Quake model utility

Usage:
  qmdltool [global options] <command> [options]

Commands:
  info [-frame N] <model>              Show frames, meshes, skins and bounds
  convert [-to fmt] <in> <out>         Convert between formats (writes qim, md2)
  export [-frame N] <model> <out.glb>  Export one frame as binary glTF
  skins <model> <dir>                  Write the model's skins as PNG files
  pak list <file.pak> [pattern]        List archive contents
  pak extract <file.pak> <dir> [glob]  Extract archive files
  new <out>                            Write an empty model (qim, md2)
  uv [-rect r] [-translate d] <in> <out>
                                       Move, rotate or scale texcoords
  config show|path|save [file]         Print, locate or write the config

Global options:
  -config <file>    Config file (default ./qmdltool.yaml or user config dir)
  -debug            Enable debug logging
  -log-file <file>  Also log to a rotated file
  -pak <file.pak>   Search a PACK archive for models and textures; repeat
                    for more archives, later ones taking priority

Examples:
  qmdltool info progs/player.mdl
  qmdltool -pak id1/pak0.pak info progs/ogre.mdl
  qmdltool convert models/tank/tris.md2 tank.qim
  qmdltool export -frame 10 tris.md2 tank.glb
  qmdltool uv -scale 0.5,0.5 -translate 32,0 tris.md2 half.md2`)
}
