package model

import "github.com/Faultbox/qtmdl/pkg/math"

// UVSelectMode chooses between texcoord and triangle selection in UV space.
type UVSelectMode int

const (
	UVSelectVertex UVSelectMode = iota // Individual texcoords
	UVSelectFace                       // Whole triangles
)

// String returns a human-readable mode name.
func (m UVSelectMode) String() string {
	switch m {
	case UVSelectVertex:
		return "Vertex"
	case UVSelectFace:
		return "Face"
	default:
		return "Unknown"
	}
}

// SelectedTexCoords returns the set of texcoord indices an operation in the
// given mode affects. The returned set is owned by the caller.
func (m *Mesh) SelectedTexCoords(mode UVSelectMode) map[uint32]struct{} {
	selected := make(map[uint32]struct{})
	if mode == UVSelectFace {
		for _, tri := range m.Triangles {
			if !tri.SelectedUV {
				continue
			}
			for _, tc := range tri.TexCoords {
				selected[tc] = struct{}{}
			}
		}
		return selected
	}
	for i, tc := range m.TexCoords {
		if tc.Selected {
			selected[uint32(i)] = struct{}{}
		}
	}
	return selected
}

// TransformTexCoords returns every texcoord position, with the selected ones
// transformed by mat in pixel space of a width x height skin. The mesh is not
// modified; the result is a fresh slice.
func (m *Mesh) TransformTexCoords(width, height int32, mat math.Mat4, mode UVSelectMode) []math.Vec2 {
	out := make([]math.Vec2, len(m.TexCoords))
	for i, tc := range m.TexCoords {
		out[i] = tc.Pos
	}
	if mat.IsIdentity() {
		return out
	}

	scale := math.Vec2{X: float32(width), Y: float32(height)}
	for i := range m.SelectedTexCoords(mode) {
		if int(i) >= len(out) {
			continue
		}
		out[i] = mat.TransformVec2(out[i].Mul(scale)).Div(scale)
	}
	return out
}
