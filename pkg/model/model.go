// Package model defines the unified in-memory representation shared by every
// model format: animation frames, meshes with per-frame vertex data, and skins.
package model

import (
	"image"

	"github.com/Faultbox/qtmdl/pkg/math"
)

// GroupData marks a frame or skin that was read from an MDL group.
type GroupData struct {
	Group    int32   // Group ID, shared by every member of one group
	Interval float32 // Display interval of this member in seconds
}

// Frame is a named animation frame. Mesh frames at the same index hold its
// vertex data.
type Frame struct {
	Name  string
	Group *GroupData
}

// Triangle references three vertices and three texcoords. The texcoord
// indices may differ from the vertex indices where a UV seam splits a vertex.
type Triangle struct {
	Vertices     [3]uint32
	TexCoords    [3]uint32
	SelectedFace bool // 3D face selection
	SelectedUV   bool // UV-space face selection
}

// Vertex is a topological vertex shared across all frames of a mesh.
type Vertex struct {
	Selected bool
	// Tag is set for orientation points; tags never appear in a triangle.
	Tag *math.Quat
}

// IsTag reports whether the vertex is a non-renderable tag point.
func (v Vertex) IsTag() bool {
	return v.Tag != nil
}

// TexCoord is a texture coordinate normalized to the skin size.
type TexCoord struct {
	Pos      math.Vec2
	Selected bool
}

// MeshFrameVertex is the position and normal of one vertex in one frame.
type MeshFrameVertex struct {
	Position math.Vec3
	Normal   math.Vec3
}

// MeshFrame holds one MeshFrameVertex per Mesh.Vertices entry, same order.
type MeshFrame struct {
	Vertices []MeshFrameVertex
}

// Mesh is one surface of a model. Any of its slices may be empty.
type Mesh struct {
	TexCoords []TexCoord
	Triangles []Triangle
	Vertices  []Vertex
	Frames    []MeshFrame
	// AssignedSkin pins the mesh to one skin regardless of the selected skin.
	AssignedSkin *int32
	Name         string
}

// PaletteData is the source form of an 8-bit skin.
type PaletteData struct {
	Palette *[]byte // 256 RGB triples; nil means the default palette
	Data    []byte  // Width*Height palette indices
}

// Skin is a texture of the model.
type Skin struct {
	Name   string
	Width  int32
	Height int32
	Raw    *PaletteData // Present for 8-bit skins only
	Image  *image.NRGBA // Cooked image, filled after load
	Group  *GroupData
}

// HasPixels reports whether the skin carries any pixel data.
func (s *Skin) HasPixels() bool {
	return s.Image != nil || s.Raw != nil
}

// Model is the complete model graph plus the editor state saved with it.
// A loaded model always has at least one frame and one mesh.
type Model struct {
	Frames []Frame
	Meshes []Mesh
	Skins  []Skin

	SelectedFrame int32  // Index into every mesh's Frames
	SelectedSkin  *int32 // nil when no skin is selected
	SkinPerObject bool   // Each mesh uses its own skin instead of the selected one
}

// Blank returns an empty model with one frame and one mesh.
func Blank() *Model {
	return &Model{
		Frames: []Frame{{Name: "Frame 1"}},
		Meshes: []Mesh{{Frames: []MeshFrame{{}}}},
	}
}

// SelectedSkinRef returns the selected skin, or nil.
func (m *Model) SelectedSkinRef() *Skin {
	if m.SelectedSkin == nil {
		return nil
	}
	i := int(*m.SelectedSkin)
	if i < 0 || i >= len(m.Skins) {
		return nil
	}
	return &m.Skins[i]
}

// SkinForMesh returns the skin a mesh is drawn with: its assigned skin when
// set, otherwise the selected skin.
func (m *Model) SkinForMesh(mesh int) *Skin {
	if a := m.Meshes[mesh].AssignedSkin; a != nil && int(*a) >= 0 && int(*a) < len(m.Skins) {
		return &m.Skins[*a]
	}
	return m.SelectedSkinRef()
}

// TriangleCount returns the number of triangles across all meshes.
func (m *Model) TriangleCount() int {
	total := 0
	for _, mesh := range m.Meshes {
		total += len(mesh.Triangles)
	}
	return total
}

// VertexCount returns the number of topological vertices across all meshes.
func (m *Model) VertexCount() int {
	total := 0
	for _, mesh := range m.Meshes {
		total += len(mesh.Vertices)
	}
	return total
}

// Int32 returns a pointer to v, for optional index fields.
func Int32(v int32) *int32 {
	return &v
}
