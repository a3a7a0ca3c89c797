package model

import "github.com/Faultbox/qtmdl/pkg/math"

// Mutator is the narrow mutation handle given to editor collaborators. It is
// only valid inside the function passed to Model.Mutate.
type Mutator struct {
	m *Model
}

// Mutate runs fn with a Mutator borrowing m. The handle is invalidated when fn
// returns; calling it afterwards panics.
func (m *Model) Mutate(fn func(mu *Mutator)) {
	mu := &Mutator{m: m}
	defer func() { mu.m = nil }()
	fn(mu)
}

func (mu *Mutator) model() *Model {
	if mu.m == nil {
		panic("model: Mutator used outside Model.Mutate")
	}
	return mu.m
}

func (mu *Mutator) mesh(i int) *Mesh {
	return &mu.model().Meshes[i]
}

// SetSelectedFrame selects an animation frame, clamped to the valid range.
func (mu *Mutator) SetSelectedFrame(frame int32) {
	m := mu.model()
	frame = min(frame, int32(len(m.Frames))-1)
	m.SelectedFrame = max(frame, 0)
}

// SetSelectedSkin selects a skin, or clears the selection when skin is nil.
func (mu *Mutator) SetSelectedSkin(skin *int32) {
	m := mu.model()
	if skin == nil {
		m.SelectedSkin = nil
		return
	}
	m.SelectedSkin = Int32(*skin)
}

// NextSkin selects the following skin, stopping at the last one.
func (mu *Mutator) NextSkin() {
	m := mu.model()
	if len(m.Skins) == 0 {
		m.SelectedSkin = nil
		return
	}
	cur := int32(0)
	if m.SelectedSkin != nil {
		cur = *m.SelectedSkin
	}
	m.SelectedSkin = Int32(min(int32(len(m.Skins))-1, cur+1))
}

// PreviousSkin selects the preceding skin, stopping at the first one.
func (mu *Mutator) PreviousSkin() {
	m := mu.model()
	if len(m.Skins) == 0 {
		m.SelectedSkin = nil
		return
	}
	cur := int32(0)
	if m.SelectedSkin != nil {
		cur = *m.SelectedSkin
	}
	m.SelectedSkin = Int32(max(0, cur-1))
}

// SelectRectVerticesUV selects (or with deselect, unselects) every texcoord
// of the mesh inside r.
func (mu *Mutator) SelectRectVerticesUV(mesh int, r math.Rect, deselect bool) {
	tcs := mu.mesh(mesh).TexCoords
	for i := range tcs {
		if r.Contains(tcs[i].Pos) {
			tcs[i].Selected = !deselect
		}
	}
}

// SelectRectTrianglesUV selects (or unselects) every triangle that has a
// texcoord inside r.
func (mu *Mutator) SelectRectTrianglesUV(mesh int, r math.Rect, deselect bool) {
	m := mu.mesh(mesh)
	for i := range m.Triangles {
		for _, tc := range m.Triangles[i].TexCoords {
			if int(tc) < len(m.TexCoords) && r.Contains(m.TexCoords[tc].Pos) {
				m.Triangles[i].SelectedUV = !deselect
				break
			}
		}
	}
}

// SelectAllVerticesUV selects every texcoord.
func (mu *Mutator) SelectAllVerticesUV(mesh int) {
	tcs := mu.mesh(mesh).TexCoords
	for i := range tcs {
		tcs[i].Selected = true
	}
}

// SelectAllTrianglesUV selects every triangle in UV space.
func (mu *Mutator) SelectAllTrianglesUV(mesh int) {
	tris := mu.mesh(mesh).Triangles
	for i := range tris {
		tris[i].SelectedUV = true
	}
}

// SelectNoneVerticesUV clears the texcoord selection.
func (mu *Mutator) SelectNoneVerticesUV(mesh int) {
	tcs := mu.mesh(mesh).TexCoords
	for i := range tcs {
		tcs[i].Selected = false
	}
}

// SelectNoneTrianglesUV clears the UV triangle selection.
func (mu *Mutator) SelectNoneTrianglesUV(mesh int) {
	tris := mu.mesh(mesh).Triangles
	for i := range tris {
		tris[i].SelectedUV = false
	}
}

// SelectInverseVerticesUV inverts the texcoord selection.
func (mu *Mutator) SelectInverseVerticesUV(mesh int) {
	tcs := mu.mesh(mesh).TexCoords
	for i := range tcs {
		tcs[i].Selected = !tcs[i].Selected
	}
}

// SelectInverseTrianglesUV inverts the UV triangle selection.
func (mu *Mutator) SelectInverseTrianglesUV(mesh int) {
	tris := mu.mesh(mesh).Triangles
	for i := range tris {
		tris[i].SelectedUV = !tris[i].SelectedUV
	}
}

func touches(tri *Triangle, set map[uint32]struct{}) bool {
	for _, tc := range tri.TexCoords {
		if _, ok := set[tc]; ok {
			return true
		}
	}
	return false
}

// SelectTouchingVerticesUV grows the texcoord selection by one step: every
// triangle with a selected texcoord gets all its texcoords selected.
func (mu *Mutator) SelectTouchingVerticesUV(mesh int) {
	m := mu.mesh(mesh)
	selected := m.SelectedTexCoords(UVSelectVertex)
	for i := range m.Triangles {
		if !touches(&m.Triangles[i], selected) {
			continue
		}
		for _, tc := range m.Triangles[i].TexCoords {
			if int(tc) < len(m.TexCoords) {
				m.TexCoords[tc].Selected = true
			}
		}
	}
}

// SelectTouchingTrianglesUV grows the triangle selection by one step: every
// triangle sharing a texcoord with a selected triangle gets selected.
func (mu *Mutator) SelectTouchingTrianglesUV(mesh int) {
	m := mu.mesh(mesh)
	selected := m.SelectedTexCoords(UVSelectFace)
	for i := range m.Triangles {
		if touches(&m.Triangles[i], selected) {
			m.Triangles[i].SelectedUV = true
		}
	}
}

// trianglesByTexCoord maps each texcoord index to the triangles using it.
func trianglesByTexCoord(m *Mesh) map[uint32][]int {
	adj := make(map[uint32][]int)
	for i, tri := range m.Triangles {
		for _, tc := range tri.TexCoords {
			adj[tc] = append(adj[tc], i)
		}
	}
	return adj
}

// connectedTexCoords walks the shared-texcoord graph from seeds and returns
// every texcoord and triangle reached.
func connectedTexCoords(m *Mesh, seeds map[uint32]struct{}) (map[uint32]struct{}, []bool) {
	adj := trianglesByTexCoord(m)
	reached := make(map[uint32]struct{}, len(seeds))
	tris := make([]bool, len(m.Triangles))
	queue := make([]uint32, 0, len(seeds))
	for tc := range seeds {
		reached[tc] = struct{}{}
		queue = append(queue, tc)
	}

	for len(queue) > 0 {
		tc := queue[0]
		queue = queue[1:]
		for _, t := range adj[tc] {
			if tris[t] {
				continue
			}
			tris[t] = true
			for _, next := range m.Triangles[t].TexCoords {
				if _, ok := reached[next]; !ok {
					reached[next] = struct{}{}
					queue = append(queue, next)
				}
			}
		}
	}
	return reached, tris
}

// SelectConnectedVerticesUV selects every texcoord connected to a selected
// one through shared triangles. The result equals repeating
// SelectTouchingVerticesUV until nothing changes.
func (mu *Mutator) SelectConnectedVerticesUV(mesh int) {
	m := mu.mesh(mesh)
	reached, _ := connectedTexCoords(m, m.SelectedTexCoords(UVSelectVertex))
	for tc := range reached {
		if int(tc) < len(m.TexCoords) {
			m.TexCoords[tc].Selected = true
		}
	}
}

// SelectConnectedTrianglesUV selects every triangle connected to a selected
// one through shared texcoords.
func (mu *Mutator) SelectConnectedTrianglesUV(mesh int) {
	m := mu.mesh(mesh)
	_, tris := connectedTexCoords(m, m.SelectedTexCoords(UVSelectFace))
	for i, hit := range tris {
		if hit {
			m.Triangles[i].SelectedUV = true
		}
	}
}

// SetTexCoordPositions moves the mesh's texcoords to pos, as returned by
// Mesh.TransformTexCoords. Extra entries on either side are ignored.
func (mu *Mutator) SetTexCoordPositions(mesh int, pos []math.Vec2) {
	tcs := mu.mesh(mesh).TexCoords
	for i := range min(len(tcs), len(pos)) {
		tcs[i].Pos = pos[i]
	}
}

// SyncSelectionUV copies the UV triangle selection to the 3D selection.
func (mu *Mutator) SyncSelectionUV(mesh int) {
	tris := mu.mesh(mesh).Triangles
	for i := range tris {
		tris[i].SelectedFace = tris[i].SelectedUV
	}
}

// SyncSelection3D copies the 3D triangle selection to the UV selection.
func (mu *Mutator) SyncSelection3D(mesh int) {
	tris := mu.mesh(mesh).Triangles
	for i := range tris {
		tris[i].SelectedUV = tris[i].SelectedFace
	}
}
