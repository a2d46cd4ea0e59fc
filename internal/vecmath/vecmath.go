// Package vecmath provides the small set of vector/matrix primitives
// the software rendering pipeline needs, playing the role the teacher
// fills with github.com/go-gl/mathgl/mgl32 — but in float64 and with
// no OpenGL coupling, since the core never touches a GPU context.
package vecmath

import "math"

// Vec3 is a 3-component vector.
type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Length() float64 {
	return math.Sqrt(a.Dot(a))
}

func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// Vec4 is a homogeneous 4-component vector.
type Vec4 struct{ X, Y, Z, W float64 }

// Mat4 is a 4x4 matrix indexed [row][column]; multiplication treats
// vectors as columns.
type Mat4 [4][4]float64

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul multiplies two matrices, returning m * other.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// MulVec4 applies m to a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// MulPoint applies m to a point (w=1) and returns the xyz result.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	r := m.MulVec4(Vec4{v.X, v.Y, v.Z, 1})
	return Vec3{r.X, r.Y, r.Z}
}

// Translate builds a translation matrix.
func Translate(t Vec3) Mat4 {
	m := Identity()
	m[0][3] = t.X
	m[1][3] = t.Y
	m[2][3] = t.Z
	return m
}

// Scale builds a non-uniform scale matrix.
func Scale(s Vec3) Mat4 {
	m := Identity()
	m[0][0] = s.X
	m[1][1] = s.Y
	m[2][2] = s.Z
	return m
}

// RotateX builds a rotation matrix around the X axis, angle in degrees.
func RotateX(deg float64) Mat4 {
	r := deg * math.Pi / 180
	s, c := math.Sin(r), math.Cos(r)
	m := Identity()
	m[1][1], m[1][2] = c, -s
	m[2][1], m[2][2] = s, c
	return m
}

// RotateY builds a rotation matrix around the Y axis, angle in degrees.
func RotateY(deg float64) Mat4 {
	r := deg * math.Pi / 180
	s, c := math.Sin(r), math.Cos(r)
	m := Identity()
	m[0][0], m[0][2] = c, s
	m[2][0], m[2][2] = -s, c
	return m
}

// RotateZ builds a rotation matrix around the Z axis, angle in degrees.
func RotateZ(deg float64) Mat4 {
	r := deg * math.Pi / 180
	s, c := math.Sin(r), math.Cos(r)
	m := Identity()
	m[0][0], m[0][1] = c, -s
	m[1][0], m[1][1] = s, c
	return m
}

// RotateAxis builds a rotation matrix around an arbitrary named axis
// ("x", "y", or "z"), angle in degrees. Unknown axes yield identity.
func RotateAxis(axis string, deg float64) Mat4 {
	switch axis {
	case "x":
		return RotateX(deg)
	case "y":
		return RotateY(deg)
	case "z":
		return RotateZ(deg)
	default:
		return Identity()
	}
}

// RotateAbout rotates around axis at origin: translate(-origin) then
// rotate then translate(origin).
func RotateAbout(axis string, deg float64, origin Vec3) Mat4 {
	return Translate(origin).Mul(RotateAxis(axis, deg)).Mul(Translate(origin.Scale(-1)))
}

// Ortho builds an orthographic projection mapping
// [left,right]x[bottom,top]x[near,far] to the canonical [-1,1]^3 cube.
func Ortho(left, right, bottom, top, near, far float64) Mat4 {
	m := Identity()
	m[0][0] = 2 / (right - left)
	m[1][1] = 2 / (top - bottom)
	m[2][2] = -2 / (far - near)
	m[0][3] = -(right + left) / (right - left)
	m[1][3] = -(top + bottom) / (top - bottom)
	m[2][3] = -(far + near) / (far - near)
	return m
}
