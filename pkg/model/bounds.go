package model

import (
	stdmath "math"

	"github.com/Faultbox/qtmdl/pkg/math"
)

// BoundingBox is an axis-aligned box. The zero-extent empty box has
// Mins.X == +Inf.
type BoundingBox struct {
	Mins, Maxs math.Vec3
}

// EmptyBounds returns a box that any added point will replace.
func EmptyBounds() BoundingBox {
	inf := float32(stdmath.Inf(1))
	return BoundingBox{
		Mins: math.Vec3{X: inf, Y: inf, Z: inf},
		Maxs: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// CubeBounds returns a cube of the given edge length centered on the origin.
func CubeBounds(size float32) BoundingBox {
	half := size * 0.5
	return BoundingBox{
		Mins: math.Vec3{X: -half, Y: -half, Z: -half},
		Maxs: math.Vec3{X: half, Y: half, Z: half},
	}
}

// Add widens the box to contain p.
func (b *BoundingBox) Add(p math.Vec3) {
	b.Mins = b.Mins.Min(p)
	b.Maxs = b.Maxs.Max(p)
}

// Centroid returns the midpoint of the box.
func (b BoundingBox) Centroid() math.Vec3 {
	return b.Maxs.Add(b.Mins).Scale(0.5)
}

// Size returns the extent of the box on each axis.
func (b BoundingBox) Size() math.Vec3 {
	return b.Maxs.Sub(b.Mins)
}

// Empty reports whether no point was ever added: Mins.X is still +Inf.
func (b BoundingBox) Empty() bool {
	return stdmath.IsInf(float64(b.Mins.X), 1)
}

// Bounds returns the bounds of the frame's positions, or a zero-size box at
// the origin for an empty frame.
func (f *MeshFrame) Bounds() BoundingBox {
	b := EmptyBounds()
	for _, v := range f.Vertices {
		b.Add(v.Position)
	}
	if b.Empty() {
		return CubeBounds(0)
	}
	return b
}

// BoundsOfAllFrames returns the bounds of every position of every mesh frame.
func (m *Model) BoundsOfAllFrames() BoundingBox {
	b := EmptyBounds()
	for _, mesh := range m.Meshes {
		for _, frame := range mesh.Frames {
			for _, v := range frame.Vertices {
				b.Add(v.Position)
			}
		}
	}
	if b.Empty() {
		return CubeBounds(0)
	}
	return b
}

// FrameBounds returns the bounds of one animation frame across all meshes.
func (m *Model) FrameBounds(frame int) BoundingBox {
	b := EmptyBounds()
	for _, mesh := range m.Meshes {
		if frame < 0 || frame >= len(mesh.Frames) {
			continue
		}
		for _, v := range mesh.Frames[frame].Vertices {
			b.Add(v.Position)
		}
	}
	if b.Empty() {
		return CubeBounds(0)
	}
	return b
}
