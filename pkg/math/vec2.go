// Package math provides the vector, quaternion and matrix types used by the
// model graph and the UV tools.
package math

// Vec2 is a 2D vector. Texture coordinates use it in normalized [0,1] space.
type Vec2 struct {
	X, Y float32
}

// Mul returns the componentwise product.
func (v Vec2) Mul(other Vec2) Vec2 {
	return Vec2{v.X * other.X, v.Y * other.Y}
}

// Div returns the componentwise quotient. Zero components of other yield zero.
func (v Vec2) Div(other Vec2) Vec2 {
	var r Vec2
	if other.X != 0 {
		r.X = v.X / other.X
	}
	if other.Y != 0 {
		r.Y = v.Y / other.Y
	}
	return r
}

// Rect is an axis-aligned rectangle in texture space.
type Rect struct {
	Min, Max Vec2
}

// NewRect returns a rectangle spanning two corners given in any order.
func NewRect(a, b Vec2) Rect {
	return Rect{
		Min: Vec2{min(a.X, b.X), min(a.Y, b.Y)},
		Max: Vec2{max(a.X, b.X), max(a.Y, b.Y)},
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
