package formats

import (
	"bytes"
	"encoding/binary"
	"io/fs"

	"github.com/Faultbox/qtmdl/pkg/encoding"
)

// memFS is an in-memory FileSystem keyed by slash path.
type memFS map[string][]byte

func (m memFS) ReadFile(name string) ([]byte, error) {
	b, ok := m[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return b, nil
}

func (m memFS) Exists(name string) bool {
	_, ok := m[name]
	return ok
}

func le(buf *bytes.Buffer, values ...any) {
	for _, v := range values {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
}

type md2FixtureFrame struct {
	name      string
	scale     [3]float32
	translate [3]float32
	verts     [][4]uint8
}

// md2Fixture builds byte-quantized MD2 files laid out as header, skins,
// texcoords, triangles, frames.
type md2Fixture struct {
	ident, version int32
	skinW, skinH   int32
	numXYZ         int32
	skins          []string
	st             [][2]int16
	tris           [][6]int16
	frames         []md2FixtureFrame
}

func (f *md2Fixture) bytes() []byte {
	ident, version := f.ident, f.version
	if ident == 0 {
		ident = MD2Ident
	}
	if version == 0 {
		version = MD2Version
	}
	frameSize := int32(md2FrameHeader) + f.numXYZ*4

	h := md2Header{
		Ident: ident, Version: version,
		SkinWidth: f.skinW, SkinHeight: f.skinH,
		FrameSize: frameSize,
		NumSkins:  int32(len(f.skins)),
		NumXYZ:    f.numXYZ,
		NumST:     int32(len(f.st)),
		NumTris:   int32(len(f.tris)),
		NumFrames: int32(len(f.frames)),
	}
	h.OfsSkins = 68
	h.OfsST = h.OfsSkins + h.NumSkins*64
	h.OfsTris = h.OfsST + h.NumST*4
	h.OfsFrames = h.OfsTris + h.NumTris*12
	h.OfsGLCmds = h.OfsFrames + h.NumFrames*frameSize
	h.OfsEnd = h.OfsGLCmds

	var buf bytes.Buffer
	le(&buf, &h)
	for _, s := range f.skins {
		buf.Write(encoding.PutFixedString(s, 64))
	}
	le(&buf, f.st, f.tris)
	for _, fr := range f.frames {
		le(&buf, fr.scale, fr.translate)
		buf.Write(encoding.PutFixedString(fr.name, 16))
		le(&buf, fr.verts)
	}
	return buf.Bytes()
}

// quadMD2 is a two-triangle square with two frames and one skin.
func quadMD2() *md2Fixture {
	verts := [][4]uint8{{0, 0, 0, 5}, {2, 0, 0, 5}, {2, 2, 0, 5}, {0, 2, 0, 5}}
	return &md2Fixture{
		skinW: 64, skinH: 32,
		numXYZ: 4,
		skins:  []string{"models/test/skin.pcx"},
		st:     [][2]int16{{0, 0}, {64, 0}, {64, 32}, {0, 32}},
		tris:   [][6]int16{{0, 1, 2, 0, 1, 2}, {0, 2, 3, 0, 2, 3}},
		frames: []md2FixtureFrame{
			{name: "stand1", scale: [3]float32{1, 1, 1}, verts: verts},
			{name: "stand2", scale: [3]float32{0.5, 0.5, 0.5}, translate: [3]float32{10, 0, 0}, verts: verts},
		},
	}
}

// makePCX builds an 8-bit RLE PCX file from an already encoded body.
func makePCX(width, height, bytesPerLine int, body, palette []byte) []byte {
	h := pcxHeader{
		Manufacturer: 0x0a, Version: 5, Encoding: 1, BitsPerPixel: 8,
		XMax: uint16(width - 1), YMax: uint16(height - 1),
		ColorPlanes:  1,
		BytesPerLine: uint16(bytesPerLine),
		PaletteType:  1,
	}
	var buf bytes.Buffer
	le(&buf, &h)
	buf.Write(body)
	if palette == nil {
		palette = make([]byte, 768)
		for i := range palette {
			palette[i] = byte(i / 3)
		}
	}
	buf.Write(palette)
	return buf.Bytes()
}

// mdlFixture builds Quake 1 MDL files. Skins and frames are raw records
// appended after the header, so tests control group layout exactly.
type mdlFixture struct {
	scale, origin [3]float32
	skinW, skinH  int32
	numSkins      int32
	numVerts      int32
	numTris       int32
	numFrames     int32
	skins         []byte
	stverts       []mdlSTVert
	tris          []mdlTriangle
	frames        []byte
}

func (f *mdlFixture) bytes() []byte {
	h := mdlHeader{
		Ident: MDLIdent, Version: MDLVersion,
		Scale: f.scale, ScaleOrigin: f.origin,
		NumSkins: f.numSkins, SkinWidth: f.skinW, SkinHeight: f.skinH,
		NumVerts: f.numVerts, NumTris: f.numTris, NumFrames: f.numFrames,
	}
	var buf bytes.Buffer
	le(&buf, &h)
	buf.Write(f.skins)
	le(&buf, f.stverts, f.tris)
	buf.Write(f.frames)
	return buf.Bytes()
}

// mdlFrame encodes one frame record body: bounds, name, vertices.
func mdlFrame(name string, verts [][4]uint8) []byte {
	var buf bytes.Buffer
	le(&buf, [2][4]uint8{})
	buf.Write(encoding.PutFixedString(name, 16))
	le(&buf, verts)
	return buf.Bytes()
}

type md3FixtureSurface struct {
	name    string
	shaders []string
	tris    [][3]int32
	st      [][2]float32
	frames  [][][4]int16
}

// md3Fixture builds MD3 files laid out as header, frames, surfaces.
type md3Fixture struct {
	frames   []string
	tags     [][]md3Tag // per frame, same tag order in every frame
	surfaces []md3FixtureSurface
}

func (f *md3Fixture) bytes() []byte {
	var surfaces bytes.Buffer
	for _, s := range f.surfaces {
		numVerts := int32(len(s.st))
		sh := md3Surface{
			Ident:        MD3Ident,
			NumFrames:    int32(len(s.frames)),
			NumShaders:   int32(len(s.shaders)),
			NumVerts:     numVerts,
			NumTriangles: int32(len(s.tris)),
		}
		copy(sh.Name[:], s.name)
		sh.OfsTriangles = int32(binary.Size(sh))
		sh.OfsShaders = sh.OfsTriangles + sh.NumTriangles*12
		sh.OfsST = sh.OfsShaders + sh.NumShaders*68
		sh.OfsXYZNormals = sh.OfsST + numVerts*8
		sh.OfsEnd = sh.OfsXYZNormals + sh.NumFrames*numVerts*8

		le(&surfaces, &sh, s.tris)
		for _, name := range s.shaders {
			surfaces.Write(encoding.PutFixedString(name, 64))
			le(&surfaces, int32(0))
		}
		le(&surfaces, s.st)
		for _, fr := range s.frames {
			le(&surfaces, fr)
		}
	}

	h := md3Header{
		Ident: MD3Ident, Version: MD3Version,
		NumFrames:   int32(len(f.frames)),
		NumSurfaces: int32(len(f.surfaces)),
	}
	if len(f.tags) > 0 {
		h.NumTags = int32(len(f.tags[0]))
	}
	h.OfsFrames = int32(binary.Size(h))
	h.OfsTags = h.OfsFrames + h.NumFrames*md3FrameSize
	h.OfsSurfaces = h.OfsTags + h.NumFrames*h.NumTags*md3TagSize
	h.OfsEnd = h.OfsSurfaces + int32(surfaces.Len())

	var buf bytes.Buffer
	le(&buf, &h)
	for _, name := range f.frames {
		le(&buf, [10]float32{})
		buf.Write(encoding.PutFixedString(name, 16))
	}
	for _, frameTags := range f.tags {
		le(&buf, frameTags)
	}
	buf.Write(surfaces.Bytes())
	return buf.Bytes()
}

// triangleSurface is a one-triangle surface with the given shader.
func triangleSurface(name, shader string, numFrames int) md3FixtureSurface {
	s := md3FixtureSurface{
		name: name,
		tris: [][3]int32{{0, 1, 2}},
		st:   [][2]float32{{0, 0}, {1, 0}, {0, 1}},
	}
	if shader != "" {
		s.shaders = []string{shader}
	}
	for i := 0; i < numFrames; i++ {
		s.frames = append(s.frames, [][4]int16{{64, 0, 0, 0}, {0, 128, 0, 0}, {0, 0, -64, 0}})
	}
	return s
}
