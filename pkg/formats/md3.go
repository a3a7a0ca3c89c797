package formats

import (
	"fmt"
	stdmath "math"

	"github.com/Faultbox/qtmdl/pkg/encoding"
	"github.com/Faultbox/qtmdl/pkg/math"
	"github.com/Faultbox/qtmdl/pkg/model"
)

// MD3 layout constants.
const (
	MD3Ident   int32 = '3'<<24 | 'P'<<16 | 'D'<<8 | 'I' // "IDP3" read little-endian
	MD3Version int32 = 15

	md3NameSize     = 64
	md3XYZScale     = 1.0 / 64
	md3FrameSize    = 3*12 + 4 + md2FrameNameSize // bounds, origin, radius, name
	md3TriangleSize = 12
	md3STSize       = 8
	md3XYZNSize     = 8
	md3TagSize      = md3NameSize + 4*12 // name, origin, three axes
	md3SurfaceSize  = 4 + md3NameSize + 10*4
)

type md3Header struct {
	Ident       int32
	Version     int32
	Name        [md3NameSize]byte
	Flags       int32
	NumFrames   int32
	NumTags     int32
	NumSurfaces int32
	NumSkins    int32
	OfsFrames   int32
	OfsTags     int32
	OfsSurfaces int32
	OfsEnd      int32
}

// md3Surface is a surface header. Its offsets are relative to the start of
// the surface.
type md3Surface struct {
	Ident         int32
	Name          [md3NameSize]byte
	Flags         int32
	NumFrames     int32
	NumShaders    int32
	NumVerts      int32
	NumTriangles  int32
	OfsTriangles  int32
	OfsShaders    int32
	OfsST         int32
	OfsXYZNormals int32
	OfsEnd        int32
}

// md3Tag is an attachment point, stored once per tag per frame.
type md3Tag struct {
	Name   [md3NameSize]byte
	Origin [3]float32
	Axis   [3][3]float32
}

// DecodeMD3 reads a Quake 3 model. Every surface becomes a mesh, followed by
// one triangle-less mesh per tag holding a single tag vertex. Textures are
// not resolved, so every skin gets the placeholder image; use a Loader to
// resolve texture files.
func DecodeMD3(data []byte) (*model.Model, error) {
	return decodeMD3(data, nil)
}

func decodeMD3(data []byte, res *resolver) (*model.Model, error) {
	r := newBinReader(data)
	var h md3Header
	r.read(&h)
	if r.err != nil {
		return nil, r.err
	}
	if h.Ident != MD3Ident {
		return nil, fmt.Errorf("%w: md3 ident %#08x", ErrUnsupportedFormat, uint32(h.Ident))
	}
	if h.Version != MD3Version {
		return nil, fmt.Errorf("%w: md3 version %d", ErrUnsupportedFormat, h.Version)
	}

	m := &model.Model{}
	numFrames := r.count(h.NumFrames, md3FrameSize, "frame")
	r.table(int64(h.OfsFrames), numFrames, md3FrameSize, "frame")
	numTags := r.count(h.NumTags, md3TagSize, "tag")
	r.table(int64(h.OfsTags), numFrames*numTags, md3TagSize, "tag")
	if r.err != nil {
		return nil, r.err
	}

	m.Frames = make([]model.Frame, numFrames)
	r.seek(int64(h.OfsFrames))
	for i := range m.Frames {
		var header [10]float32 // bounds, origin, radius
		r.read(&header)
		m.Frames[i].Name = r.name(md2FrameNameSize)
	}

	m.Meshes = make([]model.Mesh, r.count(h.NumSurfaces, md3SurfaceSize, "surface"))
	r.seek(int64(h.OfsSurfaces))
	skinByShader := make(map[string]int32)
	for i := range m.Meshes {
		if r.err != nil {
			break
		}
		shader, ok := readMD3Surface(r, &m.Meshes[i])
		if !ok || r.err != nil {
			continue
		}
		if slot, seen := skinByShader[shader]; seen {
			m.Meshes[i].AssignedSkin = model.Int32(slot)
			continue
		}
		slot := int32(len(m.Skins))
		skinByShader[shader] = slot
		m.Meshes[i].AssignedSkin = model.Int32(slot)
		m.Skins = append(m.Skins, model.Skin{Name: shader, Width: PlaceholderSize, Height: PlaceholderSize})
	}
	readMD3Tags(r, m, int64(h.OfsTags), numTags)
	if r.err != nil {
		return nil, r.err
	}

	for i := range m.Skins {
		res.loadRasterSkin(&m.Skins[i])
	}
	return m, nil
}

// readMD3Tags appends a mesh per tag. Its one vertex is a tag point whose
// orientation comes from the first frame; each mesh frame holds the tag's
// origin and forward axis in that frame.
func readMD3Tags(r *binReader, m *model.Model, ofs int64, numTags int) {
	if numTags == 0 || len(m.Frames) == 0 {
		return
	}
	first := len(m.Meshes)
	for range numTags {
		m.Meshes = append(m.Meshes, model.Mesh{
			Vertices: make([]model.Vertex, 1),
			Frames:   make([]model.MeshFrame, len(m.Frames)),
		})
	}

	r.seek(ofs)
	tags := make([]md3Tag, numTags)
	for f := range m.Frames {
		r.read(tags)
		if r.err != nil {
			return
		}
		for t, tag := range tags {
			mesh := &m.Meshes[first+t]
			axes := [3]math.Vec3{
				{X: tag.Axis[0][0], Y: tag.Axis[0][1], Z: tag.Axis[0][2]},
				{X: tag.Axis[1][0], Y: tag.Axis[1][1], Z: tag.Axis[1][2]},
				{X: tag.Axis[2][0], Y: tag.Axis[2][1], Z: tag.Axis[2][2]},
			}
			if f == 0 {
				mesh.Name = encoding.FixedString(tag.Name[:])
				q := math.QuatFromAxes(axes)
				mesh.Vertices[0].Tag = &q
			}
			mesh.Frames[f].Vertices = []model.MeshFrameVertex{{
				Position: math.Vec3{X: tag.Origin[0], Y: tag.Origin[1], Z: tag.Origin[2]},
				Normal:   axes[0],
			}}
		}
	}
}

// readMD3Surface reads the surface at the current offset into mesh and
// leaves the reader at the next surface. It returns the surface's first
// shader name, or false when it has none.
func readMD3Surface(r *binReader, mesh *model.Mesh) (string, bool) {
	start := r.pos()
	var s md3Surface
	r.read(&s)
	mesh.Name = encoding.FixedString(s.Name[:])

	numVerts := r.count(s.NumVerts, md3STSize, "surface vertex")
	numTris := r.count(s.NumTriangles, md3TriangleSize, "surface triangle")
	numFrames := r.count(s.NumFrames, 1, "surface frame")
	r.table(start+int64(s.OfsTriangles), numTris, md3TriangleSize, "surface triangle")
	r.table(start+int64(s.OfsST), numVerts, md3STSize, "surface texcoord")
	r.table(start+int64(s.OfsXYZNormals), numFrames*numVerts, md3XYZNSize, "surface vertex frame")
	if r.err != nil {
		return "", false
	}

	r.seek(start + int64(s.OfsTriangles))
	tris := make([][3]int32, numTris)
	r.read(tris)
	mesh.Triangles = make([]model.Triangle, numTris)
	for i, t := range tris {
		for k, v := range t {
			if v < 0 || int(v) >= numVerts {
				r.fail("surface %q triangle %d index %d of %d", mesh.Name, i, v, numVerts)
				return "", false
			}
			mesh.Triangles[i].Vertices[k] = uint32(v)
			mesh.Triangles[i].TexCoords[k] = uint32(v)
		}
	}

	r.seek(start + int64(s.OfsST))
	st := make([][2]float32, numVerts)
	r.read(st)
	mesh.TexCoords = make([]model.TexCoord, numVerts)
	for i, c := range st {
		mesh.TexCoords[i].Pos = math.Vec2{X: c[0], Y: c[1]}
	}

	r.seek(start + int64(s.OfsXYZNormals))
	mesh.Vertices = make([]model.Vertex, numVerts)
	mesh.Frames = make([]model.MeshFrame, numFrames)
	xyzn := make([][4]int16, numVerts)
	for f := range mesh.Frames {
		r.read(xyzn)
		if r.err != nil {
			return "", false
		}
		verts := make([]model.MeshFrameVertex, numVerts)
		for i, v := range xyzn {
			verts[i] = model.MeshFrameVertex{
				Position: math.Vec3{
					X: float32(v[0]) * md3XYZScale,
					Y: float32(v[1]) * md3XYZScale,
					Z: float32(v[2]) * md3XYZScale,
				},
				Normal: decodeLatLong(uint16(v[3])),
			}
		}
		mesh.Frames[f].Vertices = verts
	}

	var shader string
	if s.NumShaders > 0 {
		r.seek(start + int64(s.OfsShaders))
		shader = r.name(md3NameSize)
	}
	r.seek(start + int64(s.OfsEnd))
	return shader, s.NumShaders > 0
}

// decodeLatLong unpacks an MD3 normal: latitude in the high byte and
// longitude in the low byte, each mapping 0..255 onto a full turn.
func decodeLatLong(packed uint16) math.Vec3 {
	lat := float64(packed>>8) * stdmath.Pi / 128
	lng := float64(packed&0xff) * stdmath.Pi / 128
	return math.Vec3{
		X: float32(stdmath.Cos(lat) * stdmath.Sin(lng)),
		Y: float32(stdmath.Sin(lat) * stdmath.Sin(lng)),
		Z: float32(stdmath.Cos(lng)),
	}
}
