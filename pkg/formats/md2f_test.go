package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Faultbox/qtmdl/pkg/encoding"
	"github.com/Faultbox/qtmdl/pkg/math"
)

// makeMD2F builds a one-triangle float-variant file with the given frames,
// each holding three (position, normal) pairs.
func makeMD2F(version int32, frames map[string][3][6]float32, order []string) []byte {
	const numXYZ = 3
	h := md2fHeader{
		Ident: MD2Ident, Version: version,
		SkinWidth: 16, SkinHeight: 16,
		FrameSize: md2FrameNameSize + numXYZ*md2fVertexSize,
		NumSkins:  1, NumXYZ: numXYZ, NumST: 3, NumTris: 1,
		NumFrames: int32(len(order)),
	}
	h.OfsSkins = int32(binary.Size(h))
	h.OfsST = h.OfsSkins + 64
	h.OfsTris = h.OfsST + 3*4
	h.OfsFrames = h.OfsTris + 12
	h.OfsEnd = h.OfsFrames + h.NumFrames*h.FrameSize

	var buf bytes.Buffer
	le(&buf, &h)
	buf.Write(encoding.PutFixedString("skin.tga", 64))
	le(&buf, [3][2]int16{{0, 0}, {16, 0}, {0, 8}}, [6]int16{0, 1, 2, 0, 1, 2})
	for _, name := range order {
		buf.Write(encoding.PutFixedString(name, md2FrameNameSize))
		le(&buf, frames[name])
	}
	return buf.Bytes()
}

func TestDecodeMD2F(t *testing.T) {
	frames := map[string][3][6]float32{
		"a": {{1, 2, 3, 0, 0, 1}, {4, 5, 6, 0, 1, 0}, {7, 8, 9, 1, 0, 0}},
		"b": {{-1, -2, -3, 0, 0, -1}, {0, 0, 0, 0, -1, 0}, {0.5, 0.25, 0.125, -1, 0, 0}},
	}
	m, err := DecodeMD2F(makeMD2F(MD2FVersion, frames, []string{"a", "b"}))
	if err != nil {
		t.Fatalf("DecodeMD2F() error = %v", err)
	}

	if len(m.Frames) != 2 || m.Frames[1].Name != "b" {
		t.Fatalf("frames = %+v", m.Frames)
	}
	v := m.Meshes[0].Frames[1].Vertices[2]
	if want := (math.Vec3{X: 0.5, Y: 0.25, Z: 0.125}); v.Position != want {
		t.Errorf("position = %v, want %v", v.Position, want)
	}
	if want := (math.Vec3{X: -1}); v.Normal != want {
		t.Errorf("normal = %v, want %v", v.Normal, want)
	}
	if got, want := m.Meshes[0].TexCoords[2].Pos, (math.Vec2{X: 0, Y: 0.5}); got != want {
		t.Errorf("texcoord = %v, want %v", got, want)
	}
	if m.Skins[0].Name != "skin.tga" {
		t.Errorf("skin name = %q", m.Skins[0].Name)
	}
}

func TestDecodeMD2F_Version(t *testing.T) {
	data := makeMD2F(MD2Version, nil, nil)
	if _, err := DecodeMD2F(data); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("DecodeMD2F(version 8) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeMD2F_ImplausibleFrameTable(t *testing.T) {
	frames := map[string][3][6]float32{"a": {}}
	data := append(makeMD2F(MD2FVersion, frames, []string{"a"}), make([]byte, 1<<16)...)
	binary.LittleEndian.PutUint32(data[24:], 2000) // num_xyz
	binary.LittleEndian.PutUint32(data[36:], 1000) // num_frames

	if _, err := DecodeMD2F(data); !errors.Is(err, ErrMalformedStream) {
		t.Errorf("DecodeMD2F() error = %v, want ErrMalformedStream", err)
	}
}
