package math

import "math"

// Quat represents a quaternion. Tag vertices carry one as their orientation.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxes builds a quaternion from an orthonormal basis given as the
// three columns of a rotation matrix, the layout MD3 tags store.
func QuatFromAxes(axis [3]Vec3) Quat {
	m00, m01, m02 := axis[0].X, axis[0].Y, axis[0].Z
	m10, m11, m12 := axis[1].X, axis[1].Y, axis[1].Z
	m20, m21, m22 := axis[2].X, axis[2].Y, axis[2].Z

	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1))) * 2
		q = Quat{W: s / 4, X: (m12 - m21) / s, Y: (m20 - m02) / s, Z: (m01 - m10) / s}
	case m00 > m11 && m00 > m22:
		s := float32(math.Sqrt(float64(1+m00-m11-m22))) * 2
		q = Quat{W: (m12 - m21) / s, X: s / 4, Y: (m10 + m01) / s, Z: (m20 + m02) / s}
	case m11 > m22:
		s := float32(math.Sqrt(float64(1+m11-m00-m22))) * 2
		q = Quat{W: (m20 - m02) / s, X: (m10 + m01) / s, Y: s / 4, Z: (m21 + m12) / s}
	default:
		s := float32(math.Sqrt(float64(1+m22-m00-m11))) * 2
		q = Quat{W: (m01 - m10) / s, X: (m20 + m02) / s, Y: (m21 + m12) / s, Z: s / 4}
	}
	return q.Normalize()
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}
