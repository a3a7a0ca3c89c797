package main

import (
	"flag"
	"fmt"
	stdmath "math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/qtmdl/pkg/formats"
	"github.com/Faultbox/qtmdl/pkg/math"
	"github.com/Faultbox/qtmdl/pkg/model"
)

// save encodes m in the format named by tag, or by the extension of out.
func (a *app) save(m *model.Model, out, tag string) (int, error) {
	f, err := pickFormat(out, tag)
	if err != nil {
		return 0, err
	}
	if !f.Writable() {
		return 0, fmt.Errorf("%w: %s", formats.ErrUnwritableFormat, f)
	}
	data, err := a.loader.Encode(m, f)
	if err != nil {
		return 0, fmt.Errorf("encoding %s: %w", out, err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", out, err)
	}
	return len(data), nil
}

func (a *app) cmdNew(args []string) error {
	const usage = "qmdltool new [-to fmt] <out>"
	fs := newFlagSet(a, "new")
	to := fs.String("to", "", "Output format (default: by extension)")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}

	n, err := a.save(model.Blank(), fs.Arg(0), *to)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Wrote: %s (%d bytes)\n", fs.Arg(0), n)
	return nil
}

// floatsFlag parses a comma-separated list of exactly n numbers.
func floatsFlag(fs *flag.FlagSet, name string, n int, usage string) *[]float32 {
	var values []float32
	fs.Func(name, usage, func(s string) error {
		parts := strings.Split(s, ",")
		if len(parts) != n {
			return fmt.Errorf("want %d comma-separated numbers, got %q", n, s)
		}
		values = values[:0]
		for _, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
			if err != nil {
				return err
			}
			values = append(values, float32(v))
		}
		return nil
	})
	return &values
}

// uvTransform is the pixel-space matrix built from the uv command's flags:
// scale first, then rotate, then translate.
func uvTransform(translate, scale []float32, degrees float64) math.Mat4 {
	mat := math.Identity()
	if len(translate) == 2 {
		mat = mat.Mul(math.Translate(translate[0], translate[1], 0))
	}
	if degrees != 0 {
		mat = mat.Mul(math.RotateZ(float32(degrees * stdmath.Pi / 180)))
	}
	if len(scale) == 2 {
		mat = mat.Mul(math.Scale(scale[0], scale[1], 1))
	}
	return mat
}

func (a *app) cmdUV(args []string) error {
	const usage = "qmdltool uv [-format fmt] [-to fmt] [-mesh N] [-rect x0,y0,x1,y1] [-faces] " +
		"[-translate dx,dy] [-scale sx,sy] [-rotate deg] <in> <out>"
	fs := newFlagSet(a, "uv")
	from := fs.String("format", "", "Input format (default: by extension)")
	to := fs.String("to", "", "Output format (default: by extension)")
	meshIndex := fs.Int("mesh", -1, "Mesh to edit (default: all)")
	faces := fs.Bool("faces", false, "Select whole triangles instead of texcoords")
	rotate := fs.Float64("rotate", 0, "Rotation in degrees")
	rect := floatsFlag(fs, "rect", 4, "Only move texcoords inside this normalized rectangle")
	translate := floatsFlag(fs, "translate", 2, "Offset in skin pixels")
	scale := floatsFlag(fs, "scale", 2, "Scale factors")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	in, out := fs.Arg(0), fs.Arg(1)

	m, err := a.load(in, *from)
	if err != nil {
		return err
	}

	meshes := make([]int, 0, len(m.Meshes))
	switch {
	case *meshIndex < 0:
		for i := range m.Meshes {
			meshes = append(meshes, i)
		}
	case *meshIndex < len(m.Meshes):
		meshes = append(meshes, *meshIndex)
	default:
		return fmt.Errorf("mesh %d out of range, model has %d", *meshIndex, len(m.Meshes))
	}

	mode := model.UVSelectVertex
	if *faces {
		mode = model.UVSelectFace
	}
	mat := uvTransform(*translate, *scale, *rotate)

	moved := 0
	m.Mutate(func(mu *model.Mutator) {
		for _, i := range meshes {
			selectUV(mu, i, mode, *rect)
			mesh := &m.Meshes[i]
			moved += len(mesh.SelectedTexCoords(mode))

			width, height := int32(1), int32(1)
			if sk := m.SkinForMesh(i); sk != nil && sk.Width > 0 && sk.Height > 0 {
				width, height = sk.Width, sk.Height
			}
			mu.SetTexCoordPositions(i, mesh.TransformTexCoords(width, height, mat, mode))
		}
	})

	n, err := a.save(m, out, *to)
	if err != nil {
		return err
	}
	a.log.Info("texcoords transformed", zap.String("in", in), zap.Int("texcoords", moved), zap.Stringer("mode", mode))
	fmt.Fprintf(a.stdout, "Moved %d texcoords\nWrote: %s (%d bytes)\n", moved, out, n)
	return nil
}

// selectUV replaces the UV selection of a mesh with either everything or
// what lies inside rect.
func selectUV(mu *model.Mutator, mesh int, mode model.UVSelectMode, rect []float32) {
	if mode == model.UVSelectFace {
		mu.SelectNoneTrianglesUV(mesh)
		if len(rect) == 4 {
			mu.SelectRectTrianglesUV(mesh, math.NewRect(math.Vec2{X: rect[0], Y: rect[1]}, math.Vec2{X: rect[2], Y: rect[3]}), false)
		} else {
			mu.SelectAllTrianglesUV(mesh)
		}
		return
	}
	mu.SelectNoneVerticesUV(mesh)
	if len(rect) == 4 {
		mu.SelectRectVerticesUV(mesh, math.NewRect(math.Vec2{X: rect[0], Y: rect[1]}, math.Vec2{X: rect[2], Y: rect[3]}), false)
	} else {
		mu.SelectAllVerticesUV(mesh)
	}
}
