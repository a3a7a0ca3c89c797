package formats

import (
	"fmt"

	"github.com/Faultbox/qtmdl/pkg/math"
	"github.com/Faultbox/qtmdl/pkg/model"
)

// MDL layout constants.
const (
	MDLIdent   int32 = 'O'<<24 | 'P'<<16 | 'D'<<8 | 'I' // "IDPO" read little-endian
	MDLVersion int32 = 6

	mdlSingle = 0
	mdlGroup  = 1

	mdlSTVertSize   = 12
	mdlTriangleSize = 16
	mdlFrameHeader  = 2*4 + md2FrameNameSize // bboxmin, bboxmax, name
)

// mdlHeader is the on-disk header of a Quake 1 alias model.
type mdlHeader struct {
	Ident          int32
	Version        int32
	Scale          [3]float32
	ScaleOrigin    [3]float32
	BoundingRadius float32
	EyePosition    [3]float32
	NumSkins       int32
	SkinWidth      int32
	SkinHeight     int32
	NumVerts       int32
	NumTris        int32
	NumFrames      int32
	SyncType       int32
	Flags          int32
	Size           float32
}

type mdlSTVert struct {
	OnSeam int32
	S, T   int32
}

type mdlTriangle struct {
	FacesFront int32
	Verts      [3]int32
}

// mdlDecoder keeps the state shared by the skin, vertex and frame passes.
type mdlDecoder struct {
	r        *binReader
	h        mdlHeader
	numVerts int
	skinSize int
	m        *model.Model
}

// DecodeMDL reads a Quake 1 alias model. Skins are stored in the file as
// palette indices into QuakePalette.
func DecodeMDL(data []byte) (*model.Model, error) {
	d := &mdlDecoder{r: newBinReader(data)}
	d.r.read(&d.h)
	if d.r.err != nil {
		return nil, d.r.err
	}
	if d.h.Ident != MDLIdent {
		return nil, fmt.Errorf("%w: mdl ident %#08x", ErrUnsupportedFormat, uint32(d.h.Ident))
	}
	if d.h.Version != MDLVersion {
		return nil, fmt.Errorf("%w: mdl version %d", ErrUnsupportedFormat, d.h.Version)
	}

	if d.h.SkinWidth <= 0 || d.h.SkinHeight <= 0 ||
		int64(d.h.SkinWidth)*int64(d.h.SkinHeight) > d.r.size() {
		if d.h.NumSkins != 0 {
			return nil, fmt.Errorf("%w: mdl skin size %dx%d", ErrMalformedStream, d.h.SkinWidth, d.h.SkinHeight)
		}
	} else {
		d.skinSize = int(d.h.SkinWidth) * int(d.h.SkinHeight)
	}
	d.numVerts = d.r.count(d.h.NumVerts, mdlSTVertSize, "vertex")
	numSkins := d.r.count(d.h.NumSkins, 4, "skin")
	numTris := d.r.count(d.h.NumTris, mdlTriangleSize, "triangle")
	numFrames := d.r.count(d.h.NumFrames, 4, "frame")

	d.m = &model.Model{Meshes: make([]model.Mesh, 1)}
	d.m.Skins = make([]model.Skin, 0, numSkins)
	d.readSkins(numSkins)
	d.readGeometry(numTris)
	d.m.Frames = make([]model.Frame, 0, numFrames)
	d.readFrames(numFrames)

	if d.r.err != nil {
		return nil, d.r.err
	}
	return d.m, nil
}

func (d *mdlDecoder) readSkin(sk *model.Skin) {
	palette := append([]byte(nil), QuakePalette[:]...)
	sk.Width, sk.Height = d.h.SkinWidth, d.h.SkinHeight
	sk.Raw = &model.PaletteData{Palette: &palette, Data: d.r.bytes(d.skinSize)}
}

// readSkins reads single skins and skin groups. A group lists all of its
// intervals before any of its pictures.
func (d *mdlDecoder) readSkins(n int) {
	r := d.r
	group := int32(0)
	for i := 0; i < n && r.err == nil; i++ {
		switch kind := r.int32(); kind {
		case mdlSingle:
			d.m.Skins = append(d.m.Skins, model.Skin{})
			d.readSkin(&d.m.Skins[len(d.m.Skins)-1])
		case mdlGroup:
			count := r.count(r.int32(), max(d.skinSize, 4), "skin group")
			start := len(d.m.Skins)
			for j := 0; j < count; j++ {
				d.m.Skins = append(d.m.Skins, model.Skin{
					Group: &model.GroupData{Group: group, Interval: r.float32()},
				})
			}
			group++
			for j := 0; j < count; j++ {
				d.readSkin(&d.m.Skins[start+j])
			}
		default:
			r.fail("skin %d type %d", i, kind)
		}
	}
}

// readGeometry reads the texcoord and triangle tables. A back-facing
// triangle that uses a seam vertex gets its own texcoord, shifted right by
// half the skin.
func (d *mdlDecoder) readGeometry(numTris int) {
	r := d.r
	mesh := &d.m.Meshes[0]
	width := float32(max(d.h.SkinWidth, 1))
	height := float32(max(d.h.SkinHeight, 1))

	st := make([]mdlSTVert, d.numVerts)
	r.read(st)
	mesh.Vertices = make([]model.Vertex, d.numVerts)
	mesh.TexCoords = make([]model.TexCoord, d.numVerts)
	for i, v := range st {
		mesh.TexCoords[i].Pos = math.Vec2{X: float32(v.S) / width, Y: float32(v.T) / height}
	}

	tris := make([]mdlTriangle, numTris)
	r.read(tris)
	if r.err != nil {
		return
	}
	mesh.Triangles = make([]model.Triangle, numTris)
	for i, t := range tris {
		out := &mesh.Triangles[i]
		for k, v := range t.Verts {
			if v < 0 || int(v) >= d.numVerts {
				r.fail("triangle %d vertex index %d of %d", i, v, d.numVerts)
				return
			}
			out.Vertices[k] = uint32(v)
			out.TexCoords[k] = uint32(v)
			if t.FacesFront == 0 && st[v].OnSeam != 0 {
				out.TexCoords[k] = uint32(len(mesh.TexCoords))
				mesh.TexCoords = append(mesh.TexCoords, model.TexCoord{
					Pos: math.Vec2{X: float32(st[v].S)/width + 0.5, Y: float32(st[v].T) / height},
				})
			}
		}
	}
}

func (d *mdlDecoder) readFrame(f *model.Frame, mf *model.MeshFrame) {
	r := d.r
	var bounds [2][4]uint8
	r.read(&bounds)
	f.Name = r.name(md2FrameNameSize)

	verts := make([][4]uint8, d.numVerts)
	r.read(verts)
	mf.Vertices = make([]model.MeshFrameVertex, d.numVerts)
	scale, origin := d.h.Scale, d.h.ScaleOrigin
	for i, v := range verts {
		if v[3] >= NumNormals {
			r.fail("frame %q vertex %d normal index %d", f.Name, i, v[3])
			return
		}
		mf.Vertices[i] = model.MeshFrameVertex{
			Position: math.Vec3{
				X: float32(v[0])*scale[0] + origin[0],
				Y: float32(v[1])*scale[1] + origin[1],
				Z: float32(v[2])*scale[2] + origin[2],
			},
			Normal: DecodeNormal(v[3]),
		}
	}
}

// readFrames reads single frames and frame groups. A group header carries
// the member count and the group bounds, then every interval, then every
// member frame.
func (d *mdlDecoder) readFrames(n int) {
	r := d.r
	mesh := &d.m.Meshes[0]
	group := int32(0)
	frameSize := mdlFrameHeader + d.numVerts*4

	for i := 0; i < n && r.err == nil; i++ {
		switch kind := r.int32(); kind {
		case mdlSingle:
			d.m.Frames = append(d.m.Frames, model.Frame{})
			mesh.Frames = append(mesh.Frames, model.MeshFrame{})
			d.readFrame(&d.m.Frames[len(d.m.Frames)-1], &mesh.Frames[len(mesh.Frames)-1])
		case mdlGroup:
			count := r.count(r.int32(), frameSize, "frame group")
			var bounds [2][4]uint8
			r.read(&bounds)
			start := len(d.m.Frames)
			for j := 0; j < count; j++ {
				d.m.Frames = append(d.m.Frames, model.Frame{
					Group: &model.GroupData{Group: group, Interval: r.float32()},
				})
				mesh.Frames = append(mesh.Frames, model.MeshFrame{})
			}
			group++
			for j := 0; j < count; j++ {
				d.readFrame(&d.m.Frames[start+j], &mesh.Frames[start+j])
			}
		default:
			r.fail("frame %d type %d", i, kind)
		}
	}
}
