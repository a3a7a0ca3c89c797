package model

import (
	"testing"

	"github.com/Faultbox/qtmdl/pkg/math"
)

func TestUVSelectModeString(t *testing.T) {
	tests := []struct {
		mode UVSelectMode
		want string
	}{
		{UVSelectVertex, "Vertex"},
		{UVSelectFace, "Face"},
		{UVSelectMode(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("UVSelectMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestTransformTexCoords(t *testing.T) {
	mesh := &Mesh{
		TexCoords: []TexCoord{
			{Pos: math.Vec2{X: 0.5, Y: 0.5}, Selected: true},
			{Pos: math.Vec2{X: 0.25, Y: 0.25}},
		},
		Triangles: []Triangle{{TexCoords: [3]uint32{1, 1, 1}, SelectedUV: true}},
	}

	// One pixel right on a 4x2 skin is a quarter of the width.
	mat := math.Translate(1, 0, 0)

	got := mesh.TransformTexCoords(4, 2, mat, UVSelectVertex)
	want := []math.Vec2{{X: 0.75, Y: 0.5}, {X: 0.25, Y: 0.25}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vertex mode [%d] = %v, want %v", i, got[i], want[i])
		}
	}

	got = mesh.TransformTexCoords(4, 2, mat, UVSelectFace)
	want = []math.Vec2{{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.25}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("face mode [%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if mesh.TexCoords[0].Pos != (math.Vec2{X: 0.5, Y: 0.5}) {
		t.Error("TransformTexCoords modified the mesh")
	}

	got = mesh.TransformTexCoords(4, 2, math.Identity(), UVSelectVertex)
	got[0].X = 9
	if mesh.TexCoords[0].Pos.X == 9 {
		t.Error("identity result aliases the mesh")
	}
}
