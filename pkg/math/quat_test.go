package math

import (
	"math"
	"testing"
)

func approxQuat(a, b Quat) bool {
	const eps = 1e-5
	d := func(x, y float32) bool { return math.Abs(float64(x-y)) < eps }
	return d(a.X, b.X) && d(a.Y, b.Y) && d(a.Z, b.Z) && d(a.W, b.W)
}

func TestQuatFromAxes(t *testing.T) {
	h := float32(math.Sqrt2 / 2)
	tests := []struct {
		name string
		axes [3]Vec3
		want Quat
	}{
		{"identity", [3]Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, QuatIdentity()},
		{"quarter turn about z", [3]Vec3{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}}, Quat{Z: h, W: h}},
		{"half turn about x", [3]Vec3{{1, 0, 0}, {0, -1, 0}, {0, 0, -1}}, Quat{X: 1}},
		{"half turn about y", [3]Vec3{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}, Quat{Y: 1}},
		{"half turn about z", [3]Vec3{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}}, Quat{Z: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuatFromAxes(tt.axes); !approxQuat(got, tt.want) {
				t.Errorf("QuatFromAxes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuatNormalizeDegenerate(t *testing.T) {
	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("Normalize(zero) = %v, want identity", got)
	}
}
