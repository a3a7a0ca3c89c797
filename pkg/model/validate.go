package model

import "fmt"

// Validate reports structural anomalies that do not prevent loading, such as
// a mesh whose frame count differs from the model's. An empty result means
// the model is consistent.
func (m *Model) Validate() []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	if len(m.Frames) == 0 {
		warn("model has no frames")
	}
	if len(m.Meshes) == 0 {
		warn("model has no meshes")
	}

	for i, mesh := range m.Meshes {
		if len(mesh.Frames) != len(m.Frames) {
			warn("mesh %d (%q) has %d frames, model has %d", i, mesh.Name, len(mesh.Frames), len(m.Frames))
		}
		for f, frame := range mesh.Frames {
			if len(frame.Vertices) != len(mesh.Vertices) {
				warn("mesh %d frame %d has %d vertices, mesh has %d", i, f, len(frame.Vertices), len(mesh.Vertices))
			}
		}
		for t, tri := range mesh.Triangles {
			for k := 0; k < 3; k++ {
				if int(tri.Vertices[k]) >= len(mesh.Vertices) {
					warn("mesh %d triangle %d vertex index %d out of range", i, t, tri.Vertices[k])
				} else if mesh.Vertices[tri.Vertices[k]].IsTag() {
					warn("mesh %d triangle %d references tag vertex %d", i, t, tri.Vertices[k])
				}
				if int(tri.TexCoords[k]) >= len(mesh.TexCoords) {
					warn("mesh %d triangle %d texcoord index %d out of range", i, t, tri.TexCoords[k])
				}
			}
		}
		if a := mesh.AssignedSkin; a != nil && (*a < 0 || int(*a) >= len(m.Skins)) {
			warn("mesh %d assigned skin %d out of range", i, *a)
		}
	}

	if s := m.SelectedSkin; s != nil && (*s < 0 || int(*s) >= len(m.Skins)) {
		warn("selected skin %d out of range", *s)
	}
	if len(m.Frames) > 0 && (m.SelectedFrame < 0 || int(m.SelectedFrame) >= len(m.Frames)) {
		warn("selected frame %d out of range", m.SelectedFrame)
	}

	return warnings
}
