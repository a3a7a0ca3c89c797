package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/qtmdl/internal/config"
	"github.com/Faultbox/qtmdl/pkg/export"
	"github.com/Faultbox/qtmdl/pkg/formats"
	"github.com/Faultbox/qtmdl/pkg/model"
	"github.com/Faultbox/qtmdl/pkg/pak"
)

// load decodes the model at name, using tag when set and the file extension
// otherwise.
func (a *app) load(name, tag string) (*model.Model, error) {
	f, err := pickFormat(name, tag)
	if err != nil {
		return nil, err
	}
	return a.loader.LoadFile(name, f)
}

func pickFormat(name, tag string) (formats.Format, error) {
	if tag != "" {
		return formats.ParseFormat(tag)
	}
	return formats.FormatFromPath(name)
}

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) cmdInfo(args []string) error {
	fs := newFlagSet(a, "info")
	from := fs.String("format", "", "Input format (default: by extension)")
	frame := fs.Int("frame", -1, "Also show the bounds of one animation frame")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return fmt.Errorf("%w: qmdltool info [-format fmt] [-frame N] <model>", errUsage)
	}

	m, err := a.load(fs.Arg(0), *from)
	if err != nil {
		return err
	}
	if *frame >= len(m.Frames) {
		return fmt.Errorf("frame %d out of range, model has %d", *frame, len(m.Frames))
	}

	w := a.stdout
	b := m.BoundsOfAllFrames()
	fmt.Fprintf(w, "Model:     %s\n", fs.Arg(0))
	fmt.Fprintf(w, "Frames:    %d\n", len(m.Frames))
	fmt.Fprintf(w, "Meshes:    %d\n", len(m.Meshes))
	fmt.Fprintf(w, "Skins:     %d\n", len(m.Skins))
	fmt.Fprintf(w, "Vertices:  %d\n", m.VertexCount())
	fmt.Fprintf(w, "Triangles: %d\n", m.TriangleCount())
	fmt.Fprintf(w, "Bounds:    %s\n", formatBounds(b))
	c := b.Centroid()
	fmt.Fprintf(w, "Center:    (%g, %g, %g)\n", c.X, c.Y, c.Z)
	if *frame >= 0 {
		fmt.Fprintf(w, "Frame %d:   %s %s\n", *frame, m.Frames[*frame].Name, formatBounds(m.FrameBounds(*frame)))
	}
	if n := frameGroups(m); n > 0 {
		fmt.Fprintf(w, "Groups:    %d\n", n)
	}

	if len(m.Meshes) > 1 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Meshes:")
		for i, mesh := range m.Meshes {
			fmt.Fprintf(w, "  %-3d %-16s %5d verts %5d tris\n", i, mesh.Name, len(mesh.Vertices), len(mesh.Triangles))
		}
	}
	if len(m.Skins) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Skins:")
		for i, sk := range m.Skins {
			state := "missing"
			if sk.HasPixels() {
				state = "loaded"
			}
			fmt.Fprintf(w, "  %-3d %dx%d %-8s %s\n", i, sk.Width, sk.Height, state, sk.Name)
		}
	}
	return nil
}

func formatBounds(b model.BoundingBox) string {
	return fmt.Sprintf("(%g, %g, %g) - (%g, %g, %g)",
		b.Mins.X, b.Mins.Y, b.Mins.Z, b.Maxs.X, b.Maxs.Y, b.Maxs.Z)
}

// frameGroups counts the distinct frame groups of an MDL model.
func frameGroups(m *model.Model) int {
	seen := make(map[int32]struct{})
	for _, f := range m.Frames {
		if f.Group != nil {
			seen[f.Group.Group] = struct{}{}
		}
	}
	return len(seen)
}

func (a *app) cmdConvert(args []string) error {
	const usage = "qmdltool convert [-from fmt] [-to fmt] <in> <out>"
	fs := newFlagSet(a, "convert")
	from := fs.String("from", "", "Input format (default: by extension)")
	to := fs.String("to", "", "Output format (default: by extension)")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	in, out := fs.Arg(0), fs.Arg(1)

	outFormat, err := pickFormat(out, *to)
	if err != nil {
		return err
	}
	if !outFormat.Writable() {
		return fmt.Errorf("%w: %s", formats.ErrUnwritableFormat, outFormat)
	}

	m, err := a.load(in, *from)
	if err != nil {
		return err
	}
	n, err := a.save(m, out, string(outFormat))
	if err != nil {
		return err
	}

	a.log.Info("converted", zap.String("in", in), zap.String("out", out), zap.Int("bytes", n))
	fmt.Fprintf(a.stdout, "Wrote: %s (%d bytes)\n", out, n)
	return nil
}

func (a *app) cmdExport(args []string) error {
	const usage = "qmdltool export [-format fmt] [-frame N] [-keep-z-up] [-no-textures] <model> <out.glb>"
	fs := newFlagSet(a, "export")
	from := fs.String("format", "", "Input format (default: by extension)")
	frame := fs.Int("frame", 0, "Animation frame to export")
	keepZUp := fs.Bool("keep-z-up", a.cfg.Export.KeepZUp, "Keep Z-up coordinates")
	noTextures := fs.Bool("no-textures", a.cfg.Export.NoTextures, "Do not embed skins")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	in, out := fs.Arg(0), fs.Arg(1)

	m, err := a.load(in, *from)
	if err != nil {
		return err
	}

	opts := a.cfg.ExportOptions(*frame)
	opts.KeepZUp = *keepZUp
	opts.NoTextures = *noTextures

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := export.WriteGLB(f, m, opts); err != nil {
		f.Close()
		os.Remove(out)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Wrote: %s (frame %d of %d)\n", out, opts.Frame, len(m.Frames))
	return nil
}

func (a *app) cmdSkins(args []string) error {
	const usage = "qmdltool skins [-format fmt] <model> <dir>"
	fs := newFlagSet(a, "skins")
	from := fs.String("format", "", "Input format (default: by extension)")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}

	m, err := a.load(fs.Arg(0), *from)
	if err != nil {
		return err
	}
	dir := fs.Arg(1)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	written := 0
	for i := range m.Skins {
		sk := &m.Skins[i]
		if sk.Image == nil {
			a.log.Warn("skin has no pixels", zap.Int("skin", i), zap.String("name", sk.Name))
			continue
		}
		out := filepath.Join(dir, skinFileName(i, sk.Name))
		if err := writePNG(out, sk); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Wrote: %s\n", out)
		written++
	}

	fmt.Fprintf(a.stderr, "\nWrote %d of %d skins\n", written, len(m.Skins))
	return nil
}

// skinFileName names the PNG for skin i after the texture it came from.
func skinFileName(i int, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		return fmt.Sprintf("skin%02d.png", i)
	}
	return fmt.Sprintf("skin%02d_%s.png", i, base)
}

func writePNG(out string, sk *model.Skin) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, sk.Image); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", out, err)
	}
	return f.Close()
}

func (a *app) cmdPak(args []string) error {
	const usage = "qmdltool pak list <file.pak> [pattern] | pak extract <file.pak> <dir> [glob]"
	if len(args) < 2 {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}

	archive, err := pak.Open(args[1])
	if err != nil {
		return err
	}
	defer archive.Close()

	switch args[0] {
	case "list", "ls":
		pattern := ""
		if len(args) > 2 {
			pattern = strings.ToLower(args[2])
		}
		return a.pakList(archive, pattern)
	case "extract", "x":
		if len(args) < 3 {
			return fmt.Errorf("%w: %s", errUsage, usage)
		}
		pattern := ""
		if len(args) > 3 {
			pattern = args[3]
		}
		written, err := archive.Extract(args[2], pattern)
		for _, f := range written {
			fmt.Fprintf(a.stdout, "Extracted: %s\n", f)
		}
		fmt.Fprintf(a.stderr, "\nExtracted %d files\n", len(written))
		return err
	default:
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
}

func (a *app) pakList(archive *pak.Archive, pattern string) error {
	count := 0
	for _, name := range archive.List() {
		if pattern != "" {
			matched, _ := path.Match(pattern, path.Base(name))
			if !matched && !strings.Contains(name, pattern) {
				continue
			}
		}
		e, _ := archive.Stat(name)
		fmt.Fprintf(a.stdout, "%10d  %s\n", e.Size, name)
		count++
	}
	fmt.Fprintf(a.stderr, "\n(%d files)\n", count)
	return nil
}

func (a *app) cmdConfig(args []string) error {
	const usage = "qmdltool config [show | path | save [file]]"
	action := "show"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "show":
		data, err := a.cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(data)
		return err
	case "path":
		fmt.Fprintln(a.stdout, config.DefaultPath())
		return nil
	case "save":
		var (
			path string
			err  error
		)
		switch len(args) {
		case 1:
			path, err = a.cfg.Save()
		case 2:
			path = args[1]
			err = a.cfg.SaveTo(path)
		default:
			return fmt.Errorf("%w: %s", errUsage, usage)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Wrote: %s\n", path)
		return nil
	default:
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
}
