// Package mesh implements the Mesh Builder: converting a resolved
// model.Instance into textured triangles in model space.
//
// Per-element rotation and per-face quad construction follow the
// teacher's internal/graphics/renderables/items.BuildItemMesh (origin-
// centered rotation matrix, per-direction corner ordering), generalized
// to: arbitrary auto-UV (spec §6 formulas, the teacher only consumes
// explicit UVs), 90-degree face UV rotation, and the winding-correction
// rule from spec §4.6 invariants.
package mesh

import (
	"mcrender/internal/model"
	"mcrender/internal/vecmath"
	"mcrender/pkg/blockmodel"
)

// Vertex is a model-space position with a UV in the model's native
// [0,16] texture-unit space (converted to pixel coordinates against
// the bound texture's actual dimensions at raster time).
type Vertex struct {
	Pos  vecmath.Vec3
	U, V float64
}

// Triangle is one textured, shaded triangle in model space.
type Triangle struct {
	V [3]Vertex

	TextureID    string
	ElementIndex int
	FaceDir      string
	Tinted       bool
	TintIndex    int // -1 when Tinted is false
	Shaded       bool
}

// Priority returns the rendering priority used by the rasterizer's
// sort comparator: tinted geometry paints after untinted (spec §4.6).
func (t Triangle) Priority() int {
	if t.Tinted {
		return 1
	}
	return 0
}

var faceNormals = map[string]vecmath.Vec3{
	"up":    {X: 0, Y: 1, Z: 0},
	"down":  {X: 0, Y: -1, Z: 0},
	"north": {X: 0, Y: 0, Z: -1},
	"south": {X: 0, Y: 0, Z: 1},
	"west":  {X: -1, Y: 0, Z: 0},
	"east":  {X: 1, Y: 0, Z: 0},
}

// Build converts every element of inst into two triangles per
// declared face.
func Build(inst *model.Instance) []Triangle {
	var out []Triangle
	for elemIdx, elem := range inst.Elements {
		out = append(out, buildElement(elemIdx, elem)...)
	}
	return out
}

func buildElement(elemIdx int, elem blockmodel.Element) []Triangle {
	var rot *vecmath.Mat4
	if elem.Rotation != nil {
		origin := vecmath.Vec3{
			X: float64(elem.Rotation.Origin[0])/16 - 0.5,
			Y: float64(elem.Rotation.Origin[1])/16 - 0.5,
			Z: float64(elem.Rotation.Origin[2])/16 - 0.5,
		}
		m := vecmath.RotateAbout(elem.Rotation.Axis, float64(elem.Rotation.Angle), origin)
		rot = &m
		// Rescale is parsed but never applied.
	}

	from := normalize(elem.From)
	to := normalize(elem.To)

	var triangles []Triangle
	for _, dir := range blockmodel.FaceDirections {
		face, ok := elem.Faces[dir]
		if !ok {
			continue
		}
		corners := faceCorners(dir, from, to)
		if rot != nil {
			for i := range corners {
				corners[i] = rot.MulPoint(corners[i])
			}
		}

		uvRect := faceUV(dir, elem, face)
		uvs := rotateUV(uvRect, face.Rotation)

		tinted := face.TintIndex != nil
		tintIdx := -1
		if tinted {
			tintIdx = *face.TintIndex
		}
		shaded := elem.Shade == nil || *elem.Shade

		verts := [4]Vertex{
			{Pos: corners[0], U: uvs[0][0], V: uvs[0][1]},
			{Pos: corners[1], U: uvs[1][0], V: uvs[1][1]},
			{Pos: corners[2], U: uvs[2][0], V: uvs[2][1]},
			{Pos: corners[3], U: uvs[3][0], V: uvs[3][1]},
		}
		fixWinding(&verts, expectedNormal(dir, rot))

		mk := func(a, b, c int) Triangle {
			return Triangle{
				V:            [3]Vertex{verts[a], verts[b], verts[c]},
				TextureID:    face.Texture,
				ElementIndex: elemIdx,
				FaceDir:      dir,
				Tinted:       tinted,
				TintIndex:    tintIdx,
				Shaded:       shaded,
			}
		}
		triangles = append(triangles, mk(0, 1, 2), mk(0, 2, 3))
	}
	return triangles
}

func normalize(c [3]float32) vecmath.Vec3 {
	return vecmath.Vec3{X: float64(c[0])/16 - 0.5, Y: float64(c[1])/16 - 0.5, Z: float64(c[2])/16 - 0.5}
}

// faceCorners returns the four corners of a face quad in the
// direction-specific order the UV mapping expects, matching the
// winding the teacher's BuildItemMesh uses per direction.
func faceCorners(dir string, from, to vecmath.Vec3) [4]vecmath.Vec3 {
	x1, y1, z1 := from.X, from.Y, from.Z
	x2, y2, z2 := to.X, to.Y, to.Z
	switch dir {
	case "north": // -Z
		return [4]vecmath.Vec3{{x2, y2, z1}, {x2, y1, z1}, {x1, y1, z1}, {x1, y2, z1}}
	case "south": // +Z
		return [4]vecmath.Vec3{{x1, y2, z2}, {x1, y1, z2}, {x2, y1, z2}, {x2, y2, z2}}
	case "west": // -X
		return [4]vecmath.Vec3{{x1, y2, z1}, {x1, y1, z1}, {x1, y1, z2}, {x1, y2, z2}}
	case "east": // +X
		return [4]vecmath.Vec3{{x2, y2, z2}, {x2, y1, z2}, {x2, y1, z1}, {x2, y2, z1}}
	case "up": // +Y
		return [4]vecmath.Vec3{{x1, y2, z1}, {x1, y2, z2}, {x2, y2, z2}, {x2, y2, z1}}
	case "down": // -Y
		return [4]vecmath.Vec3{{x1, y1, z2}, {x1, y1, z1}, {x2, y1, z1}, {x2, y1, z2}}
	}
	return [4]vecmath.Vec3{}
}

// faceUV returns the declared UV rect or the spec §6 auto-UV formula.
func faceUV(dir string, elem blockmodel.Element, face blockmodel.Face) [4]float32 {
	if face.HasExplicitUV() {
		return face.UV
	}
	from, to := elem.From, elem.To
	switch dir {
	case "south":
		return [4]float32{from[0], from[1], to[0], to[1]}
	case "north":
		return [4]float32{16 - to[0], from[1], 16 - from[0], to[1]}
	case "east":
		return [4]float32{from[2], from[1], to[2], to[1]}
	case "west":
		return [4]float32{16 - to[2], from[1], 16 - from[2], to[1]}
	case "up":
		return [4]float32{from[0], 16 - to[2], to[0], 16 - from[2]}
	case "down":
		return [4]float32{from[0], from[2], to[0], to[2]}
	}
	return [4]float32{0, 0, 16, 16}
}

// rotateUV maps a UV rect onto a face's four position corners (in the
// same order faceCorners emits them), rotating which texture corner
// lands on which position corner in 90-degree steps. A rotation of 0
// pairs position corner i with texture corner i; each further step
// advances that pairing by one corner around the rect, so 90, 180, and
// 270 are all visibly distinct from each other and from 0.
func rotateUV(rect [4]float32, rotation int) [4][2]float64 {
	u1, v1, u2, v2 := float64(rect[0]), float64(rect[1]), float64(rect[2]), float64(rect[3])
	corners := [4][2]float64{{u1, v1}, {u1, v2}, {u2, v2}, {u2, v1}}

	steps := ((rotation / 90) % 4 + 4) % 4
	var out [4][2]float64
	for i := range out {
		out[i] = corners[(i+steps)%4]
	}
	return out
}

// expectedNormal returns the face's outward normal after applying the
// element's rotation, if any.
func expectedNormal(dir string, rot *vecmath.Mat4) vecmath.Vec3 {
	n := faceNormals[dir]
	if rot == nil {
		return n
	}
	origin := vecmath.Vec3{}
	rotated := rot.MulPoint(n).Sub(rot.MulPoint(origin))
	return rotated
}

// fixWinding swaps vertex/UV indices 1<->3 when the quad's actual
// normal points opposite the expected outward normal, so the texture
// is never mirrored (spec §4.6).
func fixWinding(verts *[4]Vertex, expected vecmath.Vec3) {
	edge1 := verts[1].Pos.Sub(verts[0].Pos)
	edge2 := verts[2].Pos.Sub(verts[0].Pos)
	actual := edge1.Cross(edge2)
	if actual.Dot(expected) < 0 {
		verts[1], verts[3] = verts[3], verts[1]
	}
}
