// Package export writes one animation frame of a model as a glTF 2.0 binary
// (.glb) document.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/qtmdl/pkg/model"
)

// ErrNoGeometry is returned when a model has nothing that can be exported.
var ErrNoGeometry = errors.New("model has no exportable geometry")

// ErrFrameRange is returned for a frame index outside the model.
var ErrFrameRange = errors.New("frame out of range")

// Options control the exported document.
type Options struct {
	// Frame is the animation frame to export.
	Frame int
	// KeepZUp writes positions in the model's Z-up space instead of glTF's
	// Y-up space.
	KeepZUp bool
	// NoTextures skips embedding skins and materials.
	NoTextures bool
}

// WriteGLB encodes frame opts.Frame of m as binary glTF.
func WriteGLB(w io.Writer, m *model.Model, opts Options) error {
	doc, err := Document(m, opts)
	if err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding glb: %w", err)
	}
	return nil
}

// Document builds the glTF document for one frame of m. Each mesh with
// triangles becomes a node with one primitive; every skin referenced by a
// mesh becomes a material with an embedded PNG texture.
func Document(m *model.Model, opts Options) (*gltf.Document, error) {
	if opts.Frame < 0 || opts.Frame >= len(m.Frames) {
		return nil, fmt.Errorf("%w: %d of %d", ErrFrameRange, opts.Frame, len(m.Frames))
	}

	b := &builder{
		doc:       gltf.NewDocument(),
		model:     m,
		opts:      opts,
		materials: make(map[*model.Skin]uint32),
	}
	for i := range m.Meshes {
		if err := b.addMesh(i); err != nil {
			return nil, err
		}
	}
	if len(b.doc.Meshes) == 0 {
		return nil, ErrNoGeometry
	}
	return b.doc, nil
}

type builder struct {
	doc       *gltf.Document
	model     *model.Model
	opts      Options
	materials map[*model.Skin]uint32
}

// corner is one unique vertex/texcoord pairing. glTF attributes are indexed
// together, so a vertex used with two texcoords is written twice.
type corner struct {
	vertex, texCoord uint32
}

func (b *builder) addMesh(index int) error {
	mesh := &b.model.Meshes[index]
	if len(mesh.Triangles) == 0 {
		return nil
	}
	if b.opts.Frame >= len(mesh.Frames) {
		return fmt.Errorf("%w: mesh %q has %d frames", ErrFrameRange, mesh.Name, len(mesh.Frames))
	}
	frame := mesh.Frames[b.opts.Frame]

	var (
		corners   = make(map[corner]uint32)
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
		indices   = make([]uint32, 0, len(mesh.Triangles)*3)
	)
	for t, tri := range mesh.Triangles {
		for k := 0; k < 3; k++ {
			c := corner{tri.Vertices[k], tri.TexCoords[k]}
			if int(c.vertex) >= len(frame.Vertices) || int(c.texCoord) >= len(mesh.TexCoords) {
				return fmt.Errorf("mesh %q triangle %d: index out of range", mesh.Name, t)
			}
			idx, ok := corners[c]
			if !ok {
				idx = uint32(len(positions))
				corners[c] = idx
				v := frame.Vertices[c.vertex]
				positions = append(positions, b.axis(v.Position.Array()))
				normals = append(normals, b.axis(v.Normal.Normalize().Array()))
				uv := mesh.TexCoords[c.texCoord].Pos
				uvs = append(uvs, [2]float32{uv.X, uv.Y})
			}
			indices = append(indices, idx)
		}
	}

	prim := &gltf.Primitive{
		Indices: gltf.Index(modeler.WriteIndices(b.doc, indices)),
		Attributes: map[string]uint32{
			"POSITION":   modeler.WritePosition(b.doc, positions),
			"NORMAL":     modeler.WriteNormal(b.doc, normals),
			"TEXCOORD_0": modeler.WriteTextureCoord(b.doc, uvs),
		},
	}
	if !b.opts.NoTextures {
		if sk := b.model.SkinForMesh(index); sk != nil && sk.Image != nil {
			mat, err := b.material(sk)
			if err != nil {
				return err
			}
			prim.Material = gltf.Index(mat)
		}
	}

	name := mesh.Name
	if name == "" {
		name = fmt.Sprintf("mesh%d", index)
	}
	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	meshIndex := uint32(len(b.doc.Meshes) - 1)
	b.doc.Nodes = append(b.doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(meshIndex)})
	b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, uint32(len(b.doc.Nodes)-1))
	return nil
}

// axis maps Z-up model space to glTF's Y-up space.
func (b *builder) axis(v [3]float32) [3]float32 {
	if b.opts.KeepZUp {
		return v
	}
	return [3]float32{v[0], v[2], -v[1]}
}

func (b *builder) material(sk *model.Skin) (uint32, error) {
	if idx, ok := b.materials[sk]; ok {
		return idx, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sk.Image); err != nil {
		return 0, fmt.Errorf("encoding skin %q: %w", sk.Name, err)
	}
	img, err := modeler.WriteImage(b.doc, sk.Name, "image/png", &buf)
	if err != nil {
		return 0, fmt.Errorf("embedding skin %q: %w", sk.Name, err)
	}

	// Skins are low resolution palette art; keep texels sharp.
	b.doc.Samplers = append(b.doc.Samplers, &gltf.Sampler{
		MagFilter: gltf.MagNearest,
		MinFilter: gltf.MinNearest,
		WrapS:     gltf.WrapRepeat,
		WrapT:     gltf.WrapRepeat,
	})
	b.doc.Textures = append(b.doc.Textures, &gltf.Texture{
		Name:    sk.Name,
		Sampler: gltf.Index(uint32(len(b.doc.Samplers) - 1)),
		Source:  gltf.Index(img),
	})
	b.doc.Materials = append(b.doc.Materials, &gltf.Material{
		Name:        sk.Name,
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: uint32(len(b.doc.Textures) - 1)},
		},
	})

	idx := uint32(len(b.doc.Materials) - 1)
	b.materials[sk] = idx
	return idx, nil
}
