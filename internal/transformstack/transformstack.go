// Package transformstack implements the Transform Stack: named
// camera/view matrices plus Minecraft's GUI display transform and a
// small perspective z-shear, composed into a single matrix that maps
// model space to the orthographic pixel-space the rasterizer expects.
//
// The chained-matrix composition style (Ident, then a sequence of
// .Mul(...) calls) is adapted from the teacher's
// internal/graphics/renderables/playermodel.RenderInventoryPlayer,
// generalized from mgl32.Mat4/float32 to the package-local float64
// vecmath.Mat4 since there is no GPU context to hand the result to.
package transformstack

import (
	"mcrender/internal/vecmath"
	"mcrender/pkg/blockmodel"
)

// View names a built-in camera angle.
type View int

const (
	ViewFront View = iota
	ViewIsometricNE
	ViewIsometricNW
	ViewIsometricSE
	ViewIsometricSW
	ViewGUI
)

// Minecraft's canonical inventory display angles and scale.
const (
	GUIRotationX = 30.0
	GUIRotationY = 225.0
	GUIScale     = 0.625
)

var viewAngles = map[View]struct{ Yaw, Pitch float64 }{
	ViewFront:       {Yaw: 0, Pitch: 0},
	ViewIsometricNE: {Yaw: 45, Pitch: 30},
	ViewIsometricNW: {Yaw: -45, Pitch: 30},
	ViewIsometricSE: {Yaw: 135, Pitch: 30},
	ViewIsometricSW: {Yaw: -135, Pitch: 30},
	ViewGUI:         {Yaw: GUIRotationY, Pitch: GUIRotationX},
}

// Options parameterizes Build. Display is the model's "gui" display
// transform, nil when absent. PerspectiveAmount must be in [0,0.25].
type Options struct {
	View              View
	Display           *blockmodel.Display
	UseGUITransform   bool
	PerspectiveAmount float64
	Size              int
}

// Build composes the full model-space-to-pixel-space matrix: view
// yaw/pitch, optional GUI display transform, optional perspective
// shear, then an orthographic projection into [-1,1] clip space
// (pixel conversion is a separate step via ToPixel, matching the
// rasterizer's own screen-space bounding-box pass).
func Build(opts Options) vecmath.Mat4 {
	angles := viewAngles[opts.View]

	m := vecmath.Identity()
	m = m.Mul(vecmath.RotateY(angles.Yaw))
	m = m.Mul(vecmath.RotateX(angles.Pitch))

	if opts.View == ViewGUI {
		if opts.UseGUITransform && opts.Display != nil {
			m = m.Mul(displayTransform(*opts.Display))
		} else {
			m = m.Mul(defaultGUITransform())
		}
	} else if opts.UseGUITransform && opts.Display != nil {
		m = m.Mul(displayTransform(*opts.Display))
	}

	if opts.PerspectiveAmount > 0 {
		m = m.Mul(shear(opts.PerspectiveAmount))
	}

	proj := vecmath.Ortho(-0.75, 0.75, -0.75, 0.75, -10, 10)
	return proj.Mul(m)
}

// defaultGUITransform applies Minecraft's canonical inventory pose
// when a model declares no explicit "gui" display block.
func defaultGUITransform() vecmath.Mat4 {
	m := vecmath.Identity()
	m = m.Mul(vecmath.RotateY(GUIRotationY))
	m = m.Mul(vecmath.RotateX(GUIRotationX))
	m = m.Mul(vecmath.Scale(vecmath.Vec3{X: GUIScale, Y: GUIScale, Z: GUIScale}))
	return m
}

// displayTransform converts a model JSON display block (translation in
// 1/16ths, rotation in degrees, scale) into a matrix.
func displayTransform(d blockmodel.Display) vecmath.Mat4 {
	m := vecmath.Identity()
	m = m.Mul(vecmath.Translate(vecmath.Vec3{
		X: float64(d.Translation[0]) / 16,
		Y: float64(d.Translation[1]) / 16,
		Z: float64(d.Translation[2]) / 16,
	}))
	m = m.Mul(vecmath.RotateZ(float64(d.Rotation[2])))
	m = m.Mul(vecmath.RotateY(float64(d.Rotation[1])))
	m = m.Mul(vecmath.RotateX(float64(d.Rotation[0])))
	scale := d.Scale
	if scale == [3]float32{} {
		scale = [3]float32{1, 1, 1}
	}
	m = m.Mul(vecmath.Scale(vecmath.Vec3{X: float64(scale[0]), Y: float64(scale[1]), Z: float64(scale[2])}))
	return m
}

// shear builds a small z-dependent x/y shear approximating perspective
// without a full projective divide, per spec's "small perspective
// z-shear" contract.
func shear(amount float64) vecmath.Mat4 {
	m := vecmath.Identity()
	m[0][2] = amount
	m[1][2] = -amount
	return m
}

// ToPixel converts a point already transformed by Build's matrix
// (clip space, roughly [-1,1] in x/y) into pixel coordinates for an
// image of the given size, flipping y since pixel row 0 is the top.
func ToPixel(clip vecmath.Vec3, size int) (x, y float64) {
	x = (clip.X*0.5 + 0.5) * float64(size)
	y = (1 - (clip.Y*0.5 + 0.5)) * float64(size)
	return x, y
}
