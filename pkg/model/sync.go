package model

import (
	"fmt"
	"image"

	"github.com/Faultbox/qtmdl/pkg/datasync"
	"github.com/Faultbox/qtmdl/pkg/math"
)

func vec2(v *math.Vec2) datasync.Field {
	return datasync.Group(datasync.Float32(&v.X), datasync.Float32(&v.Y))
}

func vec3(v *math.Vec3) datasync.Field {
	return datasync.Group(datasync.Float32(&v.X), datasync.Float32(&v.Y), datasync.Float32(&v.Z))
}

func quat(q *math.Quat) datasync.Field {
	return datasync.Group(
		datasync.Float32(&q.X), datasync.Float32(&q.Y),
		datasync.Float32(&q.Z), datasync.Float32(&q.W),
	)
}

// Sync implements datasync.Syncer.
func (g *GroupData) Sync(s *datasync.Stream) error {
	return s.Sync(datasync.Int32(&g.Group), datasync.Float32(&g.Interval))
}

// Sync implements datasync.Syncer.
func (f *Frame) Sync(s *datasync.Stream) error {
	return s.Sync(datasync.String(&f.Name), datasync.OptionalObject(&f.Group))
}

// Sync implements datasync.Syncer.
func (t *Triangle) Sync(s *datasync.Stream) error {
	return s.Sync(
		datasync.Array(t.Vertices[:], datasync.Uint32),
		datasync.Array(t.TexCoords[:], datasync.Uint32),
		datasync.Bool(&t.SelectedFace),
		datasync.Bool(&t.SelectedUV),
	)
}

// Sync implements datasync.Syncer.
func (v *Vertex) Sync(s *datasync.Stream) error {
	return s.Sync(datasync.Bool(&v.Selected), datasync.Optional(&v.Tag, quat))
}

// Sync implements datasync.Syncer.
func (t *TexCoord) Sync(s *datasync.Stream) error {
	return s.Sync(vec2(&t.Pos), datasync.Bool(&t.Selected))
}

// Sync implements datasync.Syncer.
func (v *MeshFrameVertex) Sync(s *datasync.Stream) error {
	return s.Sync(vec3(&v.Position), vec3(&v.Normal))
}

// Sync implements datasync.Syncer.
func (f *MeshFrame) Sync(s *datasync.Stream) error {
	return s.Sync(datasync.Objects(&f.Vertices))
}

// Sync implements datasync.Syncer.
func (m *Mesh) Sync(s *datasync.Stream) error {
	return s.Sync(
		datasync.Objects(&m.TexCoords),
		datasync.Objects(&m.Triangles),
		datasync.Objects(&m.Vertices),
		datasync.Objects(&m.Frames),
		datasync.Optional(&m.AssignedSkin, datasync.Int32),
		datasync.String(&m.Name),
	)
}

// Sync implements datasync.Syncer.
func (p *PaletteData) Sync(s *datasync.Stream) error {
	return s.Sync(datasync.Optional(&p.Palette, datasync.Bytes), datasync.Bytes(&p.Data))
}

// cookedImage is the stored form of a skin's RGBA image.
type cookedImage struct {
	Width  int32
	Height int32
	Pix    []byte
}

func newCookedImage(img *image.NRGBA) *cookedImage {
	b := img.Bounds()
	c := &cookedImage{Width: int32(b.Dx()), Height: int32(b.Dy())}
	c.Pix = make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		c.Pix = append(c.Pix, img.Pix[off:off+b.Dx()*4]...)
	}
	return c
}

func (c *cookedImage) image() (*image.NRGBA, error) {
	if c.Width < 0 || c.Height < 0 || int(c.Width)*int(c.Height)*4 != len(c.Pix) {
		return nil, fmt.Errorf("%w: image %dx%d with %d bytes", datasync.ErrMalformedStream, c.Width, c.Height, len(c.Pix))
	}
	return &image.NRGBA{
		Pix:    c.Pix,
		Stride: int(c.Width) * 4,
		Rect:   image.Rect(0, 0, int(c.Width), int(c.Height)),
	}, nil
}

// Sync implements datasync.Syncer.
func (c *cookedImage) Sync(s *datasync.Stream) error {
	return s.Sync(datasync.Int32(&c.Width), datasync.Int32(&c.Height), datasync.Bytes(&c.Pix))
}

// Sync implements datasync.Syncer.
func (sk *Skin) Sync(s *datasync.Stream) error {
	var cooked *cookedImage
	if !s.Reading() && sk.Image != nil {
		cooked = newCookedImage(sk.Image)
	}

	err := s.Sync(
		datasync.String(&sk.Name),
		datasync.Int32(&sk.Width),
		datasync.Int32(&sk.Height),
		datasync.OptionalObject(&sk.Raw),
		datasync.OptionalObject(&cooked),
		datasync.OptionalObject(&sk.Group),
	)
	if err != nil || !s.Reading() {
		return err
	}

	sk.Image = nil
	if cooked != nil {
		if sk.Image, err = cooked.image(); err != nil {
			return err
		}
	}
	return nil
}

// Sync implements datasync.Syncer. Field order here is the QIM wire order.
func (m *Model) Sync(s *datasync.Stream) error {
	return s.Sync(
		datasync.Objects(&m.Frames),
		datasync.Objects(&m.Meshes),
		datasync.Objects(&m.Skins),
		datasync.Int32(&m.SelectedFrame),
		datasync.Optional(&m.SelectedSkin, datasync.Int32),
		datasync.Bool(&m.SkinPerObject),
	)
}
