package formats

import "github.com/Faultbox/qtmdl/pkg/math"

// NumNormals is the size of the precalculated normal table.
const NumNormals = 162

// Anorms is the table of unit normals that MD2 and MDL vertices index into.
var Anorms = [NumNormals]math.Vec3{
	{X: -0.525731, Y: 0, Z: 0.850651},
	{X: -0.442863, Y: 0.238856, Z: 0.864188},
	{X: -0.295242, Y: 0, Z: 0.955423},
	{X: -0.309017, Y: 0.5, Z: 0.809017},
	{X: -0.16246, Y: 0.262866, Z: 0.951056},
	{X: 0, Y: 0, Z: 1},
	{X: 0, Y: 0.850651, Z: 0.525731},
	{X: -0.147621, Y: 0.716567, Z: 0.681718},
	{X: 0.147621, Y: 0.716567, Z: 0.681718},
	{X: 0, Y: 0.525731, Z: 0.850651},
	{X: 0.309017, Y: 0.5, Z: 0.809017},
	{X: 0.525731, Y: 0, Z: 0.850651},
	{X: 0.295242, Y: 0, Z: 0.955423},
	{X: 0.442863, Y: 0.238856, Z: 0.864188},
	{X: 0.16246, Y: 0.262866, Z: 0.951056},
	{X: -0.681718, Y: 0.147621, Z: 0.716567},
	{X: -0.809017, Y: 0.309017, Z: 0.5},
	{X: -0.587785, Y: 0.425325, Z: 0.688191},
	{X: -0.850651, Y: 0.525731, Z: 0},
	{X: -0.864188, Y: 0.442863, Z: 0.238856},
	{X: -0.716567, Y: 0.681718, Z: 0.147621},
	{X: -0.688191, Y: 0.587785, Z: 0.425325},
	{X: -0.5, Y: 0.809017, Z: 0.309017},
	{X: -0.238856, Y: 0.864188, Z: 0.442863},
	{X: -0.425325, Y: 0.688191, Z: 0.587785},
	{X: -0.716567, Y: 0.681718, Z: -0.147621},
	{X: -0.5, Y: 0.809017, Z: -0.309017},
	{X: -0.525731, Y: 0.850651, Z: 0},
	{X: 0, Y: 0.850651, Z: -0.525731},
	{X: -0.238856, Y: 0.864188, Z: -0.442863},
	{X: 0, Y: 0.955423, Z: -0.295242},
	{X: -0.262866, Y: 0.951056, Z: -0.16246},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0.955423, Z: 0.295242},
	{X: -0.262866, Y: 0.951056, Z: 0.16246},
	{X: 0.238856, Y: 0.864188, Z: 0.442863},
	{X: 0.262866, Y: 0.951056, Z: 0.16246},
	{X: 0.5, Y: 0.809017, Z: 0.309017},
	{X: 0.238856, Y: 0.864188, Z: -0.442863},
	{X: 0.262866, Y: 0.951056, Z: -0.16246},
	{X: 0.5, Y: 0.809017, Z: -0.309017},
	{X: 0.850651, Y: 0.525731, Z: 0},
	{X: 0.716567, Y: 0.681718, Z: 0.147621},
	{X: 0.716567, Y: 0.681718, Z: -0.147621},
	{X: 0.525731, Y: 0.850651, Z: 0},
	{X: 0.425325, Y: 0.688191, Z: 0.587785},
	{X: 0.864188, Y: 0.442863, Z: 0.238856},
	{X: 0.688191, Y: 0.587785, Z: 0.425325},
	{X: 0.809017, Y: 0.309017, Z: 0.5},
	{X: 0.681718, Y: 0.147621, Z: 0.716567},
	{X: 0.587785, Y: 0.425325, Z: 0.688191},
	{X: 0.955423, Y: 0.295242, Z: 0},
	{X: 1, Y: 0, Z: 0},
	{X: 0.951056, Y: 0.16246, Z: 0.262866},
	{X: 0.850651, Y: -0.525731, Z: 0},
	{X: 0.955423, Y: -0.295242, Z: 0},
	{X: 0.864188, Y: -0.442863, Z: 0.238856},
	{X: 0.951056, Y: -0.16246, Z: 0.262866},
	{X: 0.809017, Y: -0.309017, Z: 0.5},
	{X: 0.681718, Y: -0.147621, Z: 0.716567},
	{X: 0.850651, Y: 0, Z: 0.525731},
	{X: 0.864188, Y: 0.442863, Z: -0.238856},
	{X: 0.809017, Y: 0.309017, Z: -0.5},
	{X: 0.951056, Y: 0.16246, Z: -0.262866},
	{X: 0.525731, Y: 0, Z: -0.850651},
	{X: 0.681718, Y: 0.147621, Z: -0.716567},
	{X: 0.681718, Y: -0.147621, Z: -0.716567},
	{X: 0.850651, Y: 0, Z: -0.525731},
	{X: 0.809017, Y: -0.309017, Z: -0.5},
	{X: 0.864188, Y: -0.442863, Z: -0.238856},
	{X: 0.951056, Y: -0.16246, Z: -0.262866},
	{X: 0.147621, Y: 0.716567, Z: -0.681718},
	{X: 0.309017, Y: 0.5, Z: -0.809017},
	{X: 0.425325, Y: 0.688191, Z: -0.587785},
	{X: 0.442863, Y: 0.238856, Z: -0.864188},
	{X: 0.587785, Y: 0.425325, Z: -0.688191},
	{X: 0.688191, Y: 0.587785, Z: -0.425325},
	{X: -0.147621, Y: 0.716567, Z: -0.681718},
	{X: -0.309017, Y: 0.5, Z: -0.809017},
	{X: 0, Y: 0.525731, Z: -0.850651},
	{X: -0.525731, Y: 0, Z: -0.850651},
	{X: -0.442863, Y: 0.238856, Z: -0.864188},
	{X: -0.295242, Y: 0, Z: -0.955423},
	{X: -0.16246, Y: 0.262866, Z: -0.951056},
	{X: 0, Y: 0, Z: -1},
	{X: 0.295242, Y: 0, Z: -0.955423},
	{X: 0.16246, Y: 0.262866, Z: -0.951056},
	{X: -0.442863, Y: -0.238856, Z: -0.864188},
	{X: -0.309017, Y: -0.5, Z: -0.809017},
	{X: -0.16246, Y: -0.262866, Z: -0.951056},
	{X: 0, Y: -0.850651, Z: -0.525731},
	{X: -0.147621, Y: -0.716567, Z: -0.681718},
	{X: 0.147621, Y: -0.716567, Z: -0.681718},
	{X: 0, Y: -0.525731, Z: -0.850651},
	{X: 0.309017, Y: -0.5, Z: -0.809017},
	{X: 0.442863, Y: -0.238856, Z: -0.864188},
	{X: 0.16246, Y: -0.262866, Z: -0.951056},
	{X: 0.238856, Y: -0.864188, Z: -0.442863},
	{X: 0.5, Y: -0.809017, Z: -0.309017},
	{X: 0.425325, Y: -0.688191, Z: -0.587785},
	{X: 0.716567, Y: -0.681718, Z: -0.147621},
	{X: 0.688191, Y: -0.587785, Z: -0.425325},
	{X: 0.587785, Y: -0.425325, Z: -0.688191},
	{X: 0, Y: -0.955423, Z: -0.295242},
	{X: 0, Y: -1, Z: 0},
	{X: 0.262866, Y: -0.951056, Z: -0.16246},
	{X: 0, Y: -0.850651, Z: 0.525731},
	{X: 0, Y: -0.955423, Z: 0.295242},
	{X: 0.238856, Y: -0.864188, Z: 0.442863},
	{X: 0.262866, Y: -0.951056, Z: 0.16246},
	{X: 0.5, Y: -0.809017, Z: 0.309017},
	{X: 0.716567, Y: -0.681718, Z: 0.147621},
	{X: 0.525731, Y: -0.850651, Z: 0},
	{X: -0.238856, Y: -0.864188, Z: -0.442863},
	{X: -0.5, Y: -0.809017, Z: -0.309017},
	{X: -0.262866, Y: -0.951056, Z: -0.16246},
	{X: -0.850651, Y: -0.525731, Z: 0},
	{X: -0.716567, Y: -0.681718, Z: -0.147621},
	{X: -0.716567, Y: -0.681718, Z: 0.147621},
	{X: -0.525731, Y: -0.850651, Z: 0},
	{X: -0.5, Y: -0.809017, Z: 0.309017},
	{X: -0.238856, Y: -0.864188, Z: 0.442863},
	{X: -0.262866, Y: -0.951056, Z: 0.16246},
	{X: -0.864188, Y: -0.442863, Z: 0.238856},
	{X: -0.809017, Y: -0.309017, Z: 0.5},
	{X: -0.688191, Y: -0.587785, Z: 0.425325},
	{X: -0.681718, Y: -0.147621, Z: 0.716567},
	{X: -0.442863, Y: -0.238856, Z: 0.864188},
	{X: -0.587785, Y: -0.425325, Z: 0.688191},
	{X: -0.309017, Y: -0.5, Z: 0.809017},
	{X: -0.147621, Y: -0.716567, Z: 0.681718},
	{X: -0.425325, Y: -0.688191, Z: 0.587785},
	{X: -0.16246, Y: -0.262866, Z: 0.951056},
	{X: 0.442863, Y: -0.238856, Z: 0.864188},
	{X: 0.16246, Y: -0.262866, Z: 0.951056},
	{X: 0.309017, Y: -0.5, Z: 0.809017},
	{X: 0.147621, Y: -0.716567, Z: 0.681718},
	{X: 0, Y: -0.525731, Z: 0.850651},
	{X: 0.425325, Y: -0.688191, Z: 0.587785},
	{X: 0.587785, Y: -0.425325, Z: 0.688191},
	{X: 0.688191, Y: -0.587785, Z: 0.425325},
	{X: -0.955423, Y: 0.295242, Z: 0},
	{X: -0.951056, Y: 0.16246, Z: 0.262866},
	{X: -1, Y: 0, Z: 0},
	{X: -0.850651, Y: 0, Z: 0.525731},
	{X: -0.955423, Y: -0.295242, Z: 0},
	{X: -0.951056, Y: -0.16246, Z: 0.262866},
	{X: -0.864188, Y: 0.442863, Z: -0.238856},
	{X: -0.951056, Y: 0.16246, Z: -0.262866},
	{X: -0.809017, Y: 0.309017, Z: -0.5},
	{X: -0.864188, Y: -0.442863, Z: -0.238856},
	{X: -0.951056, Y: -0.16246, Z: -0.262866},
	{X: -0.809017, Y: -0.309017, Z: -0.5},
	{X: -0.681718, Y: 0.147621, Z: -0.716567},
	{X: -0.681718, Y: -0.147621, Z: -0.716567},
	{X: -0.850651, Y: 0, Z: -0.525731},
	{X: -0.688191, Y: 0.587785, Z: -0.425325},
	{X: -0.587785, Y: 0.425325, Z: -0.688191},
	{X: -0.425325, Y: 0.688191, Z: -0.587785},
	{X: -0.425325, Y: -0.688191, Z: -0.587785},
	{X: -0.587785, Y: -0.425325, Z: -0.688191},
	{X: -0.688191, Y: -0.587785, Z: -0.425325},
}

// DecodeNormal returns the table normal for index i. The caller validates i.
func DecodeNormal(i uint8) math.Vec3 {
	return Anorms[i]
}

// EncodeNormal returns the index of the table normal closest to v, the one
// with the largest dot product. The first entry wins ties.
func EncodeNormal(v math.Vec3) uint8 {
	best := 0
	bestDot := v.Dot(Anorms[0])
	for i := 1; i < NumNormals; i++ {
		if d := v.Dot(Anorms[i]); d > bestDot {
			best, bestDot = i, d
		}
	}
	return uint8(best)
}
