package mesh

import (
	"math"
	"testing"

	"mcrender/internal/model"
	"mcrender/internal/vecmath"
	"mcrender/pkg/blockmodel"
)

func fullCubeInstance(texture string) *model.Instance {
	faces := map[string]blockmodel.Face{}
	for _, dir := range blockmodel.FaceDirections {
		faces[dir] = blockmodel.Face{Texture: texture}
	}
	return &model.Instance{
		Elements: []blockmodel.Element{
			{From: [3]float32{0, 0, 0}, To: [3]float32{16, 16, 16}, Faces: faces},
		},
	}
}

func TestBuildFullCubeProducesTwelveTriangles(t *testing.T) {
	inst := fullCubeInstance("minecraft:block/stone")
	tris := Build(inst)
	if len(tris) != 12 {
		t.Fatalf("expected 12 triangles (6 faces x 2), got %d", len(tris))
	}
	for _, tr := range tris {
		if tr.TextureID != "minecraft:block/stone" {
			t.Errorf("unexpected texture id %q", tr.TextureID)
		}
	}
}

func TestBuildCorrectsWindingToFaceOutward(t *testing.T) {
	inst := fullCubeInstance("minecraft:block/stone")
	tris := Build(inst)
	for _, tr := range tris {
		e1 := tr.V[1].Pos.Sub(tr.V[0].Pos)
		e2 := tr.V[2].Pos.Sub(tr.V[0].Pos)
		normal := e1.Cross(e2)
		expected := faceNormals[tr.FaceDir]
		if normal.Dot(expected) <= 0 {
			t.Errorf("face %s: triangle winds inward (normal=%v expected=%v)", tr.FaceDir, normal, expected)
		}
	}
}

func TestAutoUVMatchesDeclaredUVWhenGiven(t *testing.T) {
	faces := map[string]blockmodel.Face{
		"south": {Texture: "minecraft:block/stone", UV: [4]float32{2, 2, 10, 10}},
	}
	inst := &model.Instance{Elements: []blockmodel.Element{
		{From: [3]float32{0, 0, 0}, To: [3]float32{16, 16, 16}, Faces: faces},
	}}
	tris := Build(inst)
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles for a single face, got %d", len(tris))
	}
	for _, tr := range tris {
		for _, v := range tr.V {
			if v.U < 2 || v.U > 10 || v.V < 2 || v.V > 10 {
				t.Errorf("vertex UV (%v,%v) outside declared rect", v.U, v.V)
			}
		}
	}
}

func TestAutoUVFallsBackToElementExtentWhenUnset(t *testing.T) {
	faces := map[string]blockmodel.Face{
		"up": {Texture: "minecraft:block/stone"},
	}
	inst := &model.Instance{Elements: []blockmodel.Element{
		{From: [3]float32{0, 0, 0}, To: [3]float32{16, 16, 16}, Faces: faces},
	}}
	tris := Build(inst)
	for _, tr := range tris {
		for _, v := range tr.V {
			if v.U < 0 || v.U > 16 || v.V < 0 || v.V > 16 {
				t.Errorf("auto UV (%v,%v) outside [0,16]", v.U, v.V)
			}
		}
	}
}

func TestTintIndexPropagatesFromFace(t *testing.T) {
	idx := 0
	faces := map[string]blockmodel.Face{
		"north": {Texture: "minecraft:block/grass_top", TintIndex: &idx},
	}
	inst := &model.Instance{Elements: []blockmodel.Element{
		{From: [3]float32{0, 0, 0}, To: [3]float32{16, 16, 16}, Faces: faces},
	}}
	tris := Build(inst)
	for _, tr := range tris {
		if !tr.Tinted || tr.TintIndex != 0 {
			t.Errorf("expected tinted triangle with index 0, got tinted=%v index=%d", tr.Tinted, tr.TintIndex)
		}
		if tr.Priority() != 1 {
			t.Errorf("tinted triangle should have priority 1, got %d", tr.Priority())
		}
	}
}

func TestUntintedTrianglesHavePriorityZero(t *testing.T) {
	inst := fullCubeInstance("minecraft:block/stone")
	for _, tr := range Build(inst) {
		if tr.Priority() != 0 {
			t.Errorf("untinted triangle should have priority 0, got %d", tr.Priority())
		}
	}
}

func TestRotateUVZeroPairsCornersInOrder(t *testing.T) {
	rect := [4]float32{1, 2, 9, 14}
	want := [4][2]float64{{1, 2}, {1, 14}, {9, 14}, {9, 2}}
	if got := rotateUV(rect, 0); got != want {
		t.Errorf("0-degree rotation should pair corners in declared order, got %v want %v", got, want)
	}
}

func TestRotateUVFullTurnIsIdentity(t *testing.T) {
	rect := [4]float32{1, 2, 9, 14}
	if got, want := rotateUV(rect, 360), rotateUV(rect, 0); got != want {
		t.Errorf("360-degree rotation should equal 0-degree, got %v want %v", got, want)
	}
}

func TestRotateUVAllFourStepsAreDistinct(t *testing.T) {
	rect := [4]float32{0, 0, 4, 8}
	seen := map[[4][2]float64]int{}
	for _, deg := range []int{0, 90, 180, 270} {
		seen[rotateUV(rect, deg)]++
	}
	if len(seen) != 4 {
		t.Errorf("expected all four rotation steps to produce distinct corner orderings, got %d distinct out of 4", len(seen))
	}
}

func TestRotateUV180ShiftsCornersByTwo(t *testing.T) {
	rect := [4]float32{0, 0, 4, 8}
	zero := rotateUV(rect, 0)
	want := [4][2]float64{zero[2], zero[3], zero[0], zero[1]}
	if got := rotateUV(rect, 180); got != want {
		t.Errorf("180-degree rotation should shift corner pairing by two, got %v want %v", got, want)
	}
}

func TestElementRotationPreservesDistanceFromOrigin(t *testing.T) {
	faces := map[string]blockmodel.Face{"north": {Texture: "minecraft:block/log"}}
	inst := &model.Instance{Elements: []blockmodel.Element{
		{
			From:     [3]float32{4, 0, 4},
			To:       [3]float32{12, 16, 12},
			Rotation: &blockmodel.Rotation{Origin: [3]float32{8, 8, 8}, Angle: 22.5, Axis: "y"},
			Faces:    faces,
		},
	}}
	tris := Build(inst)
	// The pivot (8,8,8) normalizes to the origin; every corner of the
	// unrotated north face sits at (±0.25, ±0.5, -0.25) from it.
	origin := vecmath.Vec3{X: 0, Y: 0, Z: 0}
	want := math.Sqrt(0.25*0.25 + 0.5*0.5 + 0.25*0.25)
	for _, tr := range tris {
		for _, v := range tr.V {
			dist := v.Pos.Sub(origin).Length()
			if math.Abs(dist-want) > 1e-6 {
				t.Errorf("rotated vertex distance from pivot = %v, want %v", dist, want)
			}
		}
	}
}

func TestShadeDefaultsTrueWhenUnset(t *testing.T) {
	inst := fullCubeInstance("minecraft:block/stone")
	for _, tr := range Build(inst) {
		if !tr.Shaded {
			t.Errorf("expected default shade=true")
		}
	}
}

func TestShadeFalseDisablesShading(t *testing.T) {
	shade := false
	faces := map[string]blockmodel.Face{"up": {Texture: "minecraft:block/stone"}}
	inst := &model.Instance{Elements: []blockmodel.Element{
		{From: [3]float32{0, 0, 0}, To: [3]float32{16, 16, 16}, Shade: &shade, Faces: faces},
	}}
	for _, tr := range Build(inst) {
		if tr.Shaded {
			t.Errorf("expected shade=false to propagate")
		}
	}
}
