package main

import (
	"bytes"
	"encoding/binary"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/qtmdl/pkg/encoding"
	"github.com/Faultbox/qtmdl/pkg/formats"
	"github.com/Faultbox/qtmdl/pkg/math"
	"github.com/Faultbox/qtmdl/pkg/model"
)

// isolate keeps user and working-directory config files out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Chdir(dir)
	return dir
}

func quadModel() *model.Model {
	frame := model.MeshFrame{Vertices: []model.MeshFrameVertex{
		{Position: math.Vec3{X: -8, Y: -8}, Normal: math.Vec3{Z: 1}},
		{Position: math.Vec3{X: 8, Y: -8}, Normal: math.Vec3{Z: 1}},
		{Position: math.Vec3{X: 8, Y: 8}, Normal: math.Vec3{Z: 1}},
		{Position: math.Vec3{X: -8, Y: 8, Z: 4}, Normal: math.Vec3{Z: 1}},
	}}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return &model.Model{
		Frames: []model.Frame{{Name: "stand1"}, {Name: "stand2"}},
		Meshes: []model.Mesh{{
			TexCoords: []model.TexCoord{
				{Pos: math.Vec2{X: 0, Y: 0}}, {Pos: math.Vec2{X: 1, Y: 0}},
				{Pos: math.Vec2{X: 1, Y: 1}}, {Pos: math.Vec2{X: 0, Y: 1}},
			},
			Triangles: []model.Triangle{
				{Vertices: [3]uint32{0, 1, 2}, TexCoords: [3]uint32{0, 1, 2}},
				{Vertices: [3]uint32{0, 2, 3}, TexCoords: [3]uint32{0, 2, 3}},
			},
			Vertices: make([]model.Vertex, 4),
			Frames:   []model.MeshFrame{frame, frame},
		}},
		Skins:        []model.Skin{{Name: "models/quad/skin.pcx", Width: 4, Height: 4, Image: img}},
		SelectedSkin: model.Int32(0),
	}
}

func writeQIM(t *testing.T, dir string) string {
	t.Helper()
	data, err := (&formats.Loader{}).Encode(quadModel(), formats.FormatQIM)
	if err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, "quad.qim")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func runTool(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestUsage(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no args", nil, 2},
		{"help", []string{"help"}, 0},
		{"unknown command", []string{"frobnicate"}, 2},
		{"unknown flag", []string{"-nope", "info"}, 2},
		{"info without model", []string{"info"}, 2},
		{"convert missing output", []string{"convert", "a.qim"}, 2},
		{"pak without subcommand", []string{"pak"}, 2},
		{"new without output", []string{"new"}, 2},
		{"uv missing output", []string{"uv", "a.qim"}, 2},
		{"uv bad rect", []string{"uv", "-rect", "0,1", "a.qim", "b.qim"}, 2},
		{"config unknown action", []string{"config", "frobnicate"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, stderr := runTool(tt.args...); code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.code, stderr)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	dir := isolate(t)
	p := writeQIM(t, dir)

	code, out, stderr := runTool("info", p)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	for _, want := range []string{"Frames:    2", "Meshes:    1", "Triangles: 2", "Bounds:    (-8, -8, 0) - (8, 8, 4)", "loaded"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoFrame(t *testing.T) {
	dir := isolate(t)
	p := writeQIM(t, dir)

	code, out, stderr := runTool("info", "-frame", "1", p)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	for _, want := range []string{"Center:    (0, 0, 2)", "Frame 1:   stand2 (-8, -8, 0) - (8, 8, 4)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if code, _, stderr := runTool("info", "-frame", "2", p); code != 1 || !strings.Contains(stderr, "out of range") {
		t.Errorf("frame past the end: exit code = %d, stderr: %s", code, stderr)
	}
}

func TestInfoMissingFile(t *testing.T) {
	dir := isolate(t)
	code, _, stderr := runTool("info", filepath.Join(dir, "none.md2"))
	if code != 1 || !strings.Contains(stderr, "Error:") {
		t.Errorf("exit code = %d, stderr: %s", code, stderr)
	}
}

func TestConvert(t *testing.T) {
	dir := isolate(t)
	p := writeQIM(t, dir)
	out := filepath.Join(dir, "quad.md2")

	if code, _, stderr := runTool("convert", p, out); code != 0 {
		t.Fatalf("convert exit code = %d, stderr: %s", code, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("IDP2")) {
		t.Errorf("output is not an md2 file: %q", data[:4])
	}

	code, info, stderr := runTool("info", out)
	if code != 0 {
		t.Fatalf("info exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(info, "Triangles: 2") || !strings.Contains(info, "missing") {
		t.Errorf("info on converted model:\n%s", info)
	}
	if !strings.Contains(stderr, "texture not found") {
		t.Errorf("missing skin was not logged:\n%s", stderr)
	}
}

func TestConvertUnwritable(t *testing.T) {
	dir := isolate(t)
	p := writeQIM(t, dir)
	out := filepath.Join(dir, "quad.mdl")

	code, _, stderr := runTool("convert", p, out)
	if code != 1 || !strings.Contains(stderr, "cannot be written") {
		t.Errorf("exit code = %d, stderr: %s", code, stderr)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output file was created for an unwritable format")
	}
}

func TestExport(t *testing.T) {
	dir := isolate(t)
	p := writeQIM(t, dir)
	out := filepath.Join(dir, "quad.glb")

	if code, _, stderr := runTool("export", "-frame", "1", p, out); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("glTF")) {
		t.Errorf("output is not a glb file")
	}

	bad := filepath.Join(dir, "bad.glb")
	if code, _, _ := runTool("export", "-frame", "7", p, bad); code != 1 {
		t.Errorf("out of range frame exit code = %d, want 1", code)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("failed export left a file behind")
	}
}

func TestSkins(t *testing.T) {
	dir := isolate(t)
	p := writeQIM(t, dir)
	outDir := filepath.Join(dir, "skins")

	code, out, stderr := runTool("skins", p, outDir)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(outDir, "skin00_skin.png")); err != nil {
		t.Errorf("skin not written: %v\n%s", err, out)
	}
}

func TestSkinFileName(t *testing.T) {
	tests := []struct {
		i    int
		name string
		want string
	}{
		{0, "models/quad/skin.pcx", "skin00_skin.png"},
		{3, `players\male\grunt.pcx`, "skin03_grunt.png"},
		{12, "", "skin12.png"},
	}
	for _, tt := range tests {
		if got := skinFileName(tt.i, tt.name); got != tt.want {
			t.Errorf("skinFileName(%d, %q) = %q, want %q", tt.i, tt.name, got, tt.want)
		}
	}
}

// makePak builds a PACK archive holding files in order.
func makePak(files map[string][]byte, order ...string) []byte {
	var body bytes.Buffer
	var dir bytes.Buffer
	for _, name := range order {
		dir.Write(encoding.PutFixedString(name, 56))
		binary.Write(&dir, binary.LittleEndian, [2]int32{int32(12 + body.Len()), int32(len(files[name]))})
		body.Write(files[name])
	}
	var buf bytes.Buffer
	buf.WriteString("PACK")
	binary.Write(&buf, binary.LittleEndian, [2]int32{int32(12 + body.Len()), int32(dir.Len())})
	buf.Write(body.Bytes())
	buf.Write(dir.Bytes())
	return buf.Bytes()
}

func TestPak(t *testing.T) {
	dir := isolate(t)
	qim, err := os.ReadFile(writeQIM(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	pakPath := filepath.Join(dir, "pak0.pak")
	files := map[string][]byte{
		"models/quad/quad.qim": qim,
		"gfx/readme.txt":       []byte("hello"),
	}
	if err := os.WriteFile(pakPath, makePak(files, "models/quad/quad.qim", "gfx/readme.txt"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, stderr := runTool("pak", "list", pakPath)
	if code != 0 {
		t.Fatalf("list exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(out, "models/quad/quad.qim") || !strings.Contains(out, "gfx/readme.txt") {
		t.Errorf("list output:\n%s", out)
	}

	code, out, _ = runTool("pak", "list", pakPath, "*.txt")
	if code != 0 || strings.Contains(out, "quad.qim") {
		t.Errorf("filtered list output:\n%s", out)
	}

	outDir := filepath.Join(dir, "out")
	if code, _, stderr := runTool("pak", "extract", pakPath, outDir, "gfx/*"); code != 0 {
		t.Fatalf("extract exit code = %d, stderr: %s", code, stderr)
	}
	got, err := os.ReadFile(filepath.Join(outDir, "gfx", "readme.txt"))
	if err != nil || string(got) != "hello" {
		t.Errorf("extracted = %q, %v", got, err)
	}

	code, out, stderr = runTool("-pak", pakPath, "info", "models/quad/quad.qim")
	if code != 0 {
		t.Fatalf("info through pak exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(out, "Triangles: 2") {
		t.Errorf("info through pak:\n%s", out)
	}
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	p := writeQIM(t, dir)
	cfgPath := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(cfgPath, []byte("export:\n  no_textures: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if code, _, stderr := runTool("-config", cfgPath, "export", p, filepath.Join(dir, "out.glb")); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	if err := os.WriteFile(cfgPath, []byte("graphics:\n  width: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if code, _, _ := runTool("-config", cfgPath, "info", p); code != 1 {
		t.Errorf("invalid config exit code = %d, want 1", code)
	}
}

func TestNew(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "blank.qim")

	if code, _, stderr := runTool("new", out); code != 0 {
		t.Fatalf("new exit code = %d, stderr: %s", code, stderr)
	}
	code, info, stderr := runTool("info", out)
	if code != 0 {
		t.Fatalf("info exit code = %d, stderr: %s", code, stderr)
	}
	for _, want := range []string{"Frames:    1", "Meshes:    1", "Triangles: 0"} {
		if !strings.Contains(info, want) {
			t.Errorf("info on blank model missing %q:\n%s", want, info)
		}
	}

	if code, _, _ := runTool("new", filepath.Join(dir, "blank.mdl")); code != 1 {
		t.Errorf("new to mdl exit code = %d, want 1", code)
	}
}

func TestUV(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []math.Vec2
	}{
		{
			name: "translate all",
			args: []string{"-translate", "2,0"},
			want: []math.Vec2{{X: 0.5}, {X: 1.5}, {X: 1.5, Y: 1}, {X: 0.5, Y: 1}},
		},
		{
			name: "scale inside rect",
			args: []string{"-rect", "0.5,-1,2,2", "-scale", "0.5,1"},
			want: []math.Vec2{{}, {X: 0.5}, {X: 0.5, Y: 1}, {Y: 1}},
		},
		{
			name: "faces touching rect",
			args: []string{"-faces", "-rect", "-0.1,0.9,0.1,1.1", "-translate", "0,-4"},
			want: []math.Vec2{{X: 0, Y: -1}, {X: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			p := writeQIM(t, dir)
			out := filepath.Join(dir, "moved.qim")

			args := append([]string{"uv"}, tt.args...)
			code, stdout, stderr := runTool(append(args, p, out)...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr: %s", code, stderr)
			}
			if !strings.Contains(stdout, "Moved") {
				t.Errorf("stdout = %q", stdout)
			}

			m, err := (&formats.Loader{}).LoadFile(out, formats.FormatQIM)
			if err != nil {
				t.Fatal(err)
			}
			tcs := m.Meshes[0].TexCoords
			if len(tcs) != len(tt.want) {
				t.Fatalf("got %d texcoords, want %d", len(tcs), len(tt.want))
			}
			for i, want := range tt.want {
				if got := tcs[i].Pos; !near(got.X, want.X) || !near(got.Y, want.Y) {
					t.Errorf("texcoord %d = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}

func TestConfigCommand(t *testing.T) {
	dir := isolate(t)

	code, out, stderr := runTool("-debug", "config", "show")
	if code != 0 {
		t.Fatalf("show exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(out, "level: debug") || !strings.Contains(out, "no_textures: false") {
		t.Errorf("config show:\n%s", out)
	}

	code, out, _ = runTool("config", "path")
	want := filepath.Join(dir, "xdg", "qmdltool", "config.yaml")
	if code != 0 || strings.TrimSpace(out) != want {
		t.Errorf("config path = %q (exit %d), want %q", out, code, want)
	}

	if code, _, stderr := runTool("-debug", "config", "save"); code != 0 {
		t.Fatalf("save exit code = %d, stderr: %s", code, stderr)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "level: debug") {
		t.Errorf("saved config:\n%s", data)
	}
	if _, out, _ := runTool("config"); !strings.Contains(out, "level: debug") {
		t.Errorf("saved config was not picked up:\n%s", out)
	}

	custom := filepath.Join(dir, "out", "custom.yaml")
	if code, out, _ := runTool("config", "save", custom); code != 0 || !strings.Contains(out, custom) {
		t.Errorf("save to file: exit code = %d, stdout: %s", code, out)
	}
	if _, err := os.Stat(custom); err != nil {
		t.Error(err)
	}
}

func TestUVTransformOrder(t *testing.T) {
	mat := uvTransform([]float32{1, 0}, []float32{2, 2}, 90)
	got := mat.TransformVec2(math.Vec2{X: 1})
	if !near(got.X, 1) || !near(got.Y, 2) {
		t.Errorf("transform of (1, 0) = %v, want (1, 2)", got)
	}
	if !uvTransform(nil, nil, 0).IsIdentity() {
		t.Error("no flags should give the identity")
	}
}
