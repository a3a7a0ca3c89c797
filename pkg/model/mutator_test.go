package model

import (
	"reflect"
	"testing"

	"github.com/Faultbox/qtmdl/pkg/math"
)

// islandMesh has texcoords 0..9 at (i, 0). Triangles 0, 1 and 3 form a chain
// through shared texcoords; triangle 2 is a separate island.
func islandMesh() *Model {
	tcs := make([]TexCoord, 10)
	for i := range tcs {
		tcs[i].Pos = math.Vec2{X: float32(i)}
	}
	tri := func(a, b, c uint32) Triangle {
		return Triangle{Vertices: [3]uint32{a, b, c}, TexCoords: [3]uint32{a, b, c}}
	}
	return &Model{
		Frames: []Frame{{Name: "a"}, {Name: "b"}},
		Meshes: []Mesh{{
			TexCoords: tcs,
			Triangles: []Triangle{tri(0, 1, 2), tri(2, 3, 4), tri(5, 6, 7), tri(4, 8, 9)},
			Vertices:  make([]Vertex, 10),
		}},
		Skins: []Skin{{Name: "0"}, {Name: "1"}, {Name: "2"}},
	}
}

func selectedTexCoords(m *Mesh) []int {
	var out []int
	for i, tc := range m.TexCoords {
		if tc.Selected {
			out = append(out, i)
		}
	}
	return out
}

func selectedTrianglesUV(m *Mesh) []int {
	var out []int
	for i, tri := range m.Triangles {
		if tri.SelectedUV {
			out = append(out, i)
		}
	}
	return out
}

func TestMutatorSelectedFrameClamped(t *testing.T) {
	m := islandMesh()
	tests := []struct {
		in, want int32
	}{
		{1, 1},
		{5, 1},
		{-3, 0},
		{0, 0},
	}
	for _, tt := range tests {
		m.Mutate(func(mu *Mutator) { mu.SetSelectedFrame(tt.in) })
		if m.SelectedFrame != tt.want {
			t.Errorf("SetSelectedFrame(%d) = %d, want %d", tt.in, m.SelectedFrame, tt.want)
		}
	}
}

func TestMutatorSkinNavigation(t *testing.T) {
	m := islandMesh()
	m.SelectedSkin = Int32(0)

	steps := []struct {
		op   func(mu *Mutator)
		want int32
	}{
		{(*Mutator).NextSkin, 1},
		{(*Mutator).NextSkin, 2},
		{(*Mutator).NextSkin, 2},
		{(*Mutator).PreviousSkin, 1},
		{(*Mutator).PreviousSkin, 0},
		{(*Mutator).PreviousSkin, 0},
	}
	for i, s := range steps {
		m.Mutate(s.op)
		if m.SelectedSkin == nil || *m.SelectedSkin != s.want {
			t.Fatalf("step %d: selected skin = %v, want %d", i, m.SelectedSkin, s.want)
		}
	}

	m.Skins = nil
	m.Mutate(func(mu *Mutator) { mu.NextSkin() })
	if m.SelectedSkin != nil {
		t.Errorf("NextSkin with no skins selected %d", *m.SelectedSkin)
	}

	m.Mutate(func(mu *Mutator) { mu.SetSelectedSkin(Int32(4)) })
	if m.SelectedSkin == nil || *m.SelectedSkin != 4 {
		t.Errorf("SetSelectedSkin(4) = %v", m.SelectedSkin)
	}
	m.Mutate(func(mu *Mutator) { mu.SetSelectedSkin(nil) })
	if m.SelectedSkin != nil {
		t.Error("SetSelectedSkin(nil) left a selection")
	}
}

func TestMutatorInvalidAfterMutate(t *testing.T) {
	m := islandMesh()
	var leaked *Mutator
	m.Mutate(func(mu *Mutator) { leaked = mu })

	defer func() {
		if recover() == nil {
			t.Error("using a Mutator after Mutate returned did not panic")
		}
	}()
	leaked.NextSkin()
}

func TestSelectRectUV(t *testing.T) {
	m := islandMesh()
	mesh := &m.Meshes[0]
	r := math.NewRect(math.Vec2{X: 2.5, Y: 1}, math.Vec2{X: 0, Y: -1})

	m.Mutate(func(mu *Mutator) { mu.SelectRectVerticesUV(0, r, false) })
	if got, want := selectedTexCoords(mesh), []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("rect select = %v, want %v", got, want)
	}

	m.Mutate(func(mu *Mutator) {
		mu.SelectRectVerticesUV(0, math.NewRect(math.Vec2{X: 1}, math.Vec2{X: 1}), true)
	})
	if got, want := selectedTexCoords(mesh), []int{0, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("rect deselect = %v, want %v", got, want)
	}

	m.Mutate(func(mu *Mutator) { mu.SelectRectTrianglesUV(0, r, false) })
	if got, want := selectedTrianglesUV(mesh), []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("rect triangle select = %v, want %v", got, want)
	}
}

func TestSelectAllNoneInverseUV(t *testing.T) {
	m := islandMesh()
	mesh := &m.Meshes[0]
	mesh.TexCoords[3].Selected = true
	mesh.Triangles[2].SelectedUV = true

	m.Mutate(func(mu *Mutator) {
		mu.SelectInverseVerticesUV(0)
		mu.SelectInverseTrianglesUV(0)
	})
	if got := selectedTexCoords(mesh); len(got) != 9 || got[3] != 4 {
		t.Errorf("inverse texcoords = %v", got)
	}
	if got, want := selectedTrianglesUV(mesh), []int{0, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("inverse triangles = %v, want %v", got, want)
	}

	m.Mutate(func(mu *Mutator) {
		mu.SelectNoneVerticesUV(0)
		mu.SelectNoneTrianglesUV(0)
	})
	if len(selectedTexCoords(mesh)) != 0 || len(selectedTrianglesUV(mesh)) != 0 {
		t.Error("select none left a selection")
	}

	m.Mutate(func(mu *Mutator) {
		mu.SelectAllVerticesUV(0)
		mu.SelectAllTrianglesUV(0)
	})
	if len(selectedTexCoords(mesh)) != 10 || len(selectedTrianglesUV(mesh)) != 4 {
		t.Error("select all missed elements")
	}
}

func TestSelectTouchingUV(t *testing.T) {
	m := islandMesh()
	mesh := &m.Meshes[0]
	mesh.TexCoords[0].Selected = true
	mesh.Triangles[0].SelectedUV = true

	m.Mutate(func(mu *Mutator) {
		mu.SelectTouchingVerticesUV(0)
		mu.SelectTouchingTrianglesUV(0)
	})
	if got, want := selectedTexCoords(mesh), []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("touching texcoords = %v, want %v", got, want)
	}
	if got, want := selectedTrianglesUV(mesh), []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("touching triangles = %v, want %v", got, want)
	}
}

func TestSelectConnectedMatchesTouchingFixedPoint(t *testing.T) {
	connected := islandMesh()
	connected.Meshes[0].TexCoords[0].Selected = true
	connected.Meshes[0].Triangles[0].SelectedUV = true
	connected.Mutate(func(mu *Mutator) {
		mu.SelectConnectedVerticesUV(0)
		mu.SelectConnectedTrianglesUV(0)
	})

	repeated := islandMesh()
	repeated.Meshes[0].TexCoords[0].Selected = true
	repeated.Meshes[0].Triangles[0].SelectedUV = true
	for {
		before := append([]int(nil), selectedTexCoords(&repeated.Meshes[0])...)
		beforeTris := append([]int(nil), selectedTrianglesUV(&repeated.Meshes[0])...)
		repeated.Mutate(func(mu *Mutator) {
			mu.SelectTouchingVerticesUV(0)
			mu.SelectTouchingTrianglesUV(0)
		})
		if reflect.DeepEqual(before, selectedTexCoords(&repeated.Meshes[0])) &&
			reflect.DeepEqual(beforeTris, selectedTrianglesUV(&repeated.Meshes[0])) {
			break
		}
	}

	want := []int{0, 1, 2, 3, 4, 8, 9}
	if got := selectedTexCoords(&connected.Meshes[0]); !reflect.DeepEqual(got, want) {
		t.Errorf("connected texcoords = %v, want %v", got, want)
	}
	if got := selectedTexCoords(&repeated.Meshes[0]); !reflect.DeepEqual(got, want) {
		t.Errorf("touching fixed point = %v, want %v", got, want)
	}
	if got, want := selectedTrianglesUV(&connected.Meshes[0]), []int{0, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("connected triangles = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(selectedTrianglesUV(&connected.Meshes[0]), selectedTrianglesUV(&repeated.Meshes[0])) {
		t.Error("connected triangles differ from touching fixed point")
	}
}

func TestSyncSelection(t *testing.T) {
	m := islandMesh()
	mesh := &m.Meshes[0]
	mesh.Triangles[1].SelectedUV = true

	m.Mutate(func(mu *Mutator) { mu.SyncSelectionUV(0) })
	for i, tri := range mesh.Triangles {
		if tri.SelectedFace != (i == 1) {
			t.Errorf("after SyncSelectionUV triangle %d face selected = %v", i, tri.SelectedFace)
		}
	}

	mesh.Triangles[3].SelectedFace = true
	mesh.Triangles[1].SelectedFace = false
	m.Mutate(func(mu *Mutator) { mu.SyncSelection3D(0) })
	if got, want := selectedTrianglesUV(mesh), []int{3}; !reflect.DeepEqual(got, want) {
		t.Errorf("after SyncSelection3D = %v, want %v", got, want)
	}
}

func TestSetTexCoordPositions(t *testing.T) {
	m := islandMesh()
	mesh := &m.Meshes[0]
	mesh.TexCoords[1].Selected = true

	moved := mesh.TransformTexCoords(1, 1, math.Translate(0, 5, 0), UVSelectVertex)
	m.Mutate(func(mu *Mutator) { mu.SetTexCoordPositions(0, moved[:3]) })

	if got, want := mesh.TexCoords[1].Pos, (math.Vec2{X: 1, Y: 5}); got != want {
		t.Errorf("texcoord 1 = %v, want %v", got, want)
	}
	if got, want := mesh.TexCoords[0].Pos, (math.Vec2{}); got != want {
		t.Errorf("texcoord 0 = %v, want unchanged %v", got, want)
	}
	if got, want := mesh.TexCoords[9].Pos, (math.Vec2{X: 9}); got != want {
		t.Errorf("texcoord 9 = %v, want unchanged %v", got, want)
	}
	if !mesh.TexCoords[1].Selected {
		t.Error("moving texcoords cleared their selection")
	}
}
