package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	stdmath "math"

	"github.com/Faultbox/qtmdl/pkg/encoding"
	"github.com/Faultbox/qtmdl/pkg/math"
	"github.com/Faultbox/qtmdl/pkg/model"
)

// MD2 layout constants.
const (
	MD2Ident   int32 = '2'<<24 | 'P'<<16 | 'D'<<8 | 'I' // "IDP2" read little-endian
	MD2Version int32 = 8

	md2SkinNameSize  = 64
	md2FrameNameSize = 16
	md2FrameHeader   = 6*4 + md2FrameNameSize // scale, translate, name
	md2VertexSize    = 4
	md2TexCoordSize  = 4
	md2TriangleSize  = 12
)

// md2Header is the on-disk header of a byte-quantized MD2 file.
type md2Header struct {
	Ident      int32
	Version    int32
	SkinWidth  int32
	SkinHeight int32
	FrameSize  int32
	NumSkins   int32
	NumXYZ     int32
	NumST      int32
	NumTris    int32
	NumGLCmds  int32
	NumFrames  int32
	OfsSkins   int32
	OfsST      int32
	OfsTris    int32
	OfsFrames  int32
	OfsGLCmds  int32
	OfsEnd     int32
}

// md2Layout is the part of an MD2 or MD2F header the shared tables need.
type md2Layout struct {
	skinWidth, skinHeight int32
	frameSize             int32
	numSkins, numXYZ      int
	numST, numTris        int
	numFrames             int
	ofsSkins, ofsST       int64
	ofsTris, ofsFrames    int64
	frameStride           int64
}

// check rejects a layout whose tables do not fit in the file, before any of
// them is allocated.
func (l *md2Layout) check(r *binReader) {
	r.table(l.ofsSkins, l.numSkins, md2SkinNameSize, "skin")
	r.table(l.ofsST, l.numST, md2TexCoordSize, "texcoord")
	r.table(l.ofsTris, l.numTris, md2TriangleSize, "triangle")
	r.table(l.ofsFrames, l.numFrames, l.frameStride, "frame")
}

func (h *md2Header) layout(r *binReader) md2Layout {
	l := md2Layout{
		skinWidth:  h.SkinWidth,
		skinHeight: h.SkinHeight,
		frameSize:  h.FrameSize,
		numSkins:   r.count(h.NumSkins, md2SkinNameSize, "skin"),
		numXYZ:     r.count(h.NumXYZ, md2VertexSize, "vertex"),
		numST:      r.count(h.NumST, md2TexCoordSize, "texcoord"),
		numTris:    r.count(h.NumTris, md2TriangleSize, "triangle"),
		numFrames:  r.count(h.NumFrames, md2FrameHeader, "frame"),
		ofsSkins:   int64(h.OfsSkins),
		ofsST:      int64(h.OfsST),
		ofsTris:    int64(h.OfsTris),
		ofsFrames:  int64(h.OfsFrames),
	}
	l.frameStride = max(int64(l.frameSize), int64(md2FrameHeader)+int64(l.numXYZ)*md2VertexSize)
	l.check(r)
	return l
}

// DecodeMD2 reads a byte-quantized MD2 model. Skins carry only their names;
// use a Loader to resolve texture files.
func DecodeMD2(data []byte) (*model.Model, error) {
	return decodeMD2(data, nil)
}

func decodeMD2(data []byte, res *resolver) (*model.Model, error) {
	r := newBinReader(data)
	var h md2Header
	r.read(&h)
	if r.err != nil {
		return nil, r.err
	}
	if h.Ident != MD2Ident {
		return nil, fmt.Errorf("%w: md2 ident %#08x", ErrUnsupportedFormat, uint32(h.Ident))
	}
	if h.Version != MD2Version {
		return nil, fmt.Errorf("%w: md2 version %d", ErrUnsupportedFormat, h.Version)
	}

	l := h.layout(r)
	if r.err != nil {
		return nil, r.err
	}
	m, mesh := newMD2Model(l)

	for i := 0; i < l.numFrames && r.err == nil; i++ {
		r.seek(l.ofsFrames + int64(i)*l.frameStride)
		var fh struct {
			Scale     [3]float32
			Translate [3]float32
		}
		r.read(&fh)
		m.Frames[i].Name = r.name(md2FrameNameSize)

		verts := make([][4]uint8, l.numXYZ)
		r.read(verts)
		out := mesh.Frames[i].Vertices
		for j, v := range verts {
			if v[3] >= NumNormals {
				r.fail("frame %d vertex %d normal index %d", i, j, v[3])
				break
			}
			out[j] = model.MeshFrameVertex{
				Position: math.Vec3{
					X: float32(v[0])*fh.Scale[0] + fh.Translate[0],
					Y: float32(v[1])*fh.Scale[1] + fh.Translate[1],
					Z: float32(v[2])*fh.Scale[2] + fh.Translate[2],
				},
				Normal: DecodeNormal(v[3]),
			}
		}
	}

	readMD2Tables(r, l, m, res)
	if r.err != nil {
		return nil, r.err
	}
	return m, nil
}

// newMD2Model allocates the single-mesh model both MD2 variants decode into.
func newMD2Model(l md2Layout) (*model.Model, *model.Mesh) {
	m := &model.Model{
		Frames: make([]model.Frame, l.numFrames),
		Meshes: make([]model.Mesh, 1),
	}
	mesh := &m.Meshes[0]
	mesh.Vertices = make([]model.Vertex, l.numXYZ)
	mesh.Frames = make([]model.MeshFrame, l.numFrames)
	for i := range mesh.Frames {
		mesh.Frames[i].Vertices = make([]model.MeshFrameVertex, l.numXYZ)
	}
	return m, mesh
}

// readMD2Tables reads the texcoord, triangle and skin tables shared by both
// MD2 variants.
func readMD2Tables(r *binReader, l md2Layout, m *model.Model, res *resolver) {
	mesh := &m.Meshes[0]
	width := float32(max(l.skinWidth, 1))
	height := float32(max(l.skinHeight, 1))

	r.seek(l.ofsST)
	st := make([][2]int16, l.numST)
	r.read(st)
	mesh.TexCoords = make([]model.TexCoord, l.numST)
	for i, c := range st {
		mesh.TexCoords[i].Pos = math.Vec2{X: float32(c[0]) / width, Y: float32(c[1]) / height}
	}

	r.seek(l.ofsTris)
	tris := make([][6]int16, l.numTris)
	r.read(tris)
	mesh.Triangles = make([]model.Triangle, l.numTris)
	for i, t := range tris {
		for k := 0; k < 3; k++ {
			if t[k] < 0 || int(t[k]) >= l.numXYZ {
				r.fail("triangle %d vertex index %d of %d", i, t[k], l.numXYZ)
				return
			}
			if t[3+k] < 0 || int(t[3+k]) >= l.numST {
				r.fail("triangle %d texcoord index %d of %d", i, t[3+k], l.numST)
				return
			}
			mesh.Triangles[i].Vertices[k] = uint32(t[k])
			mesh.Triangles[i].TexCoords[k] = uint32(t[3+k])
		}
	}

	r.seek(l.ofsSkins)
	m.Skins = make([]model.Skin, l.numSkins)
	for i := range m.Skins {
		m.Skins[i].Name = r.name(md2SkinNameSize)
	}
	if r.err != nil {
		return
	}
	for i := range m.Skins {
		sk := &m.Skins[i]
		sk.Width, sk.Height = l.skinWidth, l.skinHeight
		res.loadSkin(sk)
	}
}

// EncodeMD2 writes m as a byte-quantized MD2 file. Only single-mesh models
// can be written; positions are quantized per frame and normals snap to the
// normal table, so the result is lossy. Nothing is written on error.
func EncodeMD2(w io.Writer, m *model.Model) error {
	if len(m.Meshes) != 1 {
		return fmt.Errorf("%w: md2 holds one mesh, model has %d", ErrUnwritableFormat, len(m.Meshes))
	}
	mesh := &m.Meshes[0]
	if len(mesh.Frames) < len(m.Frames) {
		return fmt.Errorf("%w: mesh has %d frames, model has %d", ErrUnwritableFormat, len(mesh.Frames), len(m.Frames))
	}
	if len(mesh.Vertices) > stdmath.MaxInt16 || len(mesh.TexCoords) > stdmath.MaxInt16 {
		return fmt.Errorf("%w: %d vertices and %d texcoords exceed md2 index range",
			ErrUnwritableFormat, len(mesh.Vertices), len(mesh.TexCoords))
	}
	for i, f := range m.Frames[:min(len(m.Frames), len(mesh.Frames))] {
		if len(mesh.Frames[i].Vertices) != len(mesh.Vertices) {
			return fmt.Errorf("%w: frame %q has %d vertices, mesh has %d",
				ErrUnwritableFormat, f.Name, len(mesh.Frames[i].Vertices), len(mesh.Vertices))
		}
	}

	numXYZ := int32(len(mesh.Vertices))
	h := md2Header{
		Ident:     MD2Ident,
		Version:   MD2Version,
		FrameSize: int32(md2FrameHeader) + numXYZ*md2VertexSize,
		NumSkins:  int32(len(m.Skins)),
		NumXYZ:    numXYZ,
		NumST:     int32(len(mesh.TexCoords)),
		NumTris:   int32(len(mesh.Triangles)),
		NumFrames: int32(len(m.Frames)),
	}
	if len(m.Skins) > 0 {
		h.SkinWidth, h.SkinHeight = m.Skins[0].Width, m.Skins[0].Height
	}
	h.OfsSkins = int32(binary.Size(h))
	h.OfsST = h.OfsSkins + h.NumSkins*md2SkinNameSize
	h.OfsTris = h.OfsST + h.NumST*md2TexCoordSize
	h.OfsFrames = h.OfsTris + h.NumTris*md2TriangleSize
	h.OfsGLCmds = h.OfsFrames + h.NumFrames*h.FrameSize
	h.OfsEnd = h.OfsGLCmds

	var buf bytes.Buffer
	put := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	put(&h)
	for _, sk := range m.Skins {
		buf.Write(encoding.PutFixedString(sk.Name, md2SkinNameSize))
	}
	for _, tc := range mesh.TexCoords {
		put([2]int16{
			int16(stdmath.Floor(float64(tc.Pos.X*float32(h.SkinWidth)) + 0.5)),
			int16(stdmath.Floor(float64(tc.Pos.Y*float32(h.SkinHeight)) + 0.5)),
		})
	}
	for _, t := range mesh.Triangles {
		put([6]int16{
			int16(t.Vertices[0]), int16(t.Vertices[1]), int16(t.Vertices[2]),
			int16(t.TexCoords[0]), int16(t.TexCoords[1]), int16(t.TexCoords[2]),
		})
	}
	for i, f := range m.Frames {
		frame := &mesh.Frames[i]
		b := frame.Bounds()
		scale := b.Size().Scale(1.0 / 255)
		translate := b.Mins

		put([6]float32{scale.X, scale.Y, scale.Z, translate.X, translate.Y, translate.Z})
		buf.Write(encoding.PutFixedString(f.Name, md2FrameNameSize))
		for _, v := range frame.Vertices {
			put([4]uint8{
				quantize(v.Position.X, translate.X, scale.X),
				quantize(v.Position.Y, translate.Y, scale.Y),
				quantize(v.Position.Z, translate.Z, scale.Z),
				EncodeNormal(v.Normal),
			})
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// quantize maps a coordinate into the 0..255 range of a frame axis.
func quantize(p, translate, scale float32) uint8 {
	if scale == 0 {
		return 0
	}
	q := stdmath.RoundToEven(float64((p - translate) / scale))
	return uint8(stdmath.Max(0, stdmath.Min(255, q)))
}
