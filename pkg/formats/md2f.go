package formats

import (
	"fmt"

	"github.com/Faultbox/qtmdl/pkg/model"
)

// MD2FVersion is the version number of the float-variant MD2 format.
const MD2FVersion int32 = 9

const md2fVertexSize = 24

// md2fHeader is the MD2 header without the GL command fields.
type md2fHeader struct {
	Ident      int32
	Version    int32
	SkinWidth  int32
	SkinHeight int32
	FrameSize  int32
	NumSkins   int32
	NumXYZ     int32
	NumST      int32
	NumTris    int32
	NumFrames  int32
	OfsSkins   int32
	OfsST      int32
	OfsTris    int32
	OfsFrames  int32
	OfsEnd     int32
}

func (h *md2fHeader) layout(r *binReader) md2Layout {
	l := md2Layout{
		skinWidth:  h.SkinWidth,
		skinHeight: h.SkinHeight,
		frameSize:  h.FrameSize,
		numSkins:   r.count(h.NumSkins, md2SkinNameSize, "skin"),
		numXYZ:     r.count(h.NumXYZ, md2fVertexSize, "vertex"),
		numST:      r.count(h.NumST, md2TexCoordSize, "texcoord"),
		numTris:    r.count(h.NumTris, md2TriangleSize, "triangle"),
		numFrames:  r.count(h.NumFrames, md2FrameNameSize, "frame"),
		ofsSkins:   int64(h.OfsSkins),
		ofsST:      int64(h.OfsST),
		ofsTris:    int64(h.OfsTris),
		ofsFrames:  int64(h.OfsFrames),
	}
	l.frameStride = max(int64(l.frameSize), int64(md2FrameNameSize)+int64(l.numXYZ)*md2fVertexSize)
	l.check(r)
	return l
}

// DecodeMD2F reads a float-variant MD2 model, whose frames store positions
// and normals as plain floats.
func DecodeMD2F(data []byte) (*model.Model, error) {
	return decodeMD2F(data, nil)
}

func decodeMD2F(data []byte, res *resolver) (*model.Model, error) {
	r := newBinReader(data)
	var h md2fHeader
	r.read(&h)
	if r.err != nil {
		return nil, r.err
	}
	if h.Ident != MD2Ident {
		return nil, fmt.Errorf("%w: md2f ident %#08x", ErrUnsupportedFormat, uint32(h.Ident))
	}
	if h.Version != MD2FVersion {
		return nil, fmt.Errorf("%w: md2f version %d", ErrUnsupportedFormat, h.Version)
	}

	l := h.layout(r)
	if r.err != nil {
		return nil, r.err
	}
	m, mesh := newMD2Model(l)

	for i := 0; i < l.numFrames && r.err == nil; i++ {
		r.seek(l.ofsFrames + int64(i)*l.frameStride)
		m.Frames[i].Name = r.name(md2FrameNameSize)

		verts := make([][6]float32, l.numXYZ)
		r.read(verts)
		out := mesh.Frames[i].Vertices
		for j, v := range verts {
			out[j].Position.X, out[j].Position.Y, out[j].Position.Z = v[0], v[1], v[2]
			out[j].Normal.X, out[j].Normal.Y, out[j].Normal.Z = v[3], v[4], v[5]
		}
	}

	readMD2Tables(r, l, m, res)
	if r.err != nil {
		return nil, r.err
	}
	return m, nil
}
