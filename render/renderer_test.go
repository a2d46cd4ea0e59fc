package render

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mcrender/internal/config"
	"mcrender/internal/logging"
	"mcrender/internal/nbt"
	"mcrender/pkg/blockmodel"
)

// writeFixtureAssets lays out a minimal vanilla-shaped assets tree
// under a temp directory: one full-cube item model textured with a
// single solid-color 16x16 PNG.
func writeFixtureAssets(t *testing.T, c color.RGBA) string {
	t.Helper()
	root := t.TempDir()

	modelsDir := filepath.Join(root, "models", "item")
	texturesDir := filepath.Join(root, "textures", "item")
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		t.Fatalf("mkdir models: %v", err)
	}
	if err := os.MkdirAll(texturesDir, 0o755); err != nil {
		t.Fatalf("mkdir textures: %v", err)
	}

	model := blockmodel.Model{
		Textures: map[string]string{"all": "minecraft:item/widget"},
		Elements: []blockmodel.Element{{
			From: [3]float32{0, 0, 0},
			To:   [3]float32{16, 16, 16},
			Faces: map[string]blockmodel.Face{
				"down":  {Texture: "#all"},
				"up":    {Texture: "#all"},
				"north": {Texture: "#all"},
				"south": {Texture: "#all"},
				"west":  {Texture: "#all"},
				"east":  {Texture: "#all"},
			},
		}},
	}
	modelJSON, err := json.Marshal(model)
	if err != nil {
		t.Fatalf("marshal model: %v", err)
	}
	if err := os.WriteFile(filepath.Join(modelsDir, "widget.json"), modelJSON, 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(filepath.Join(texturesDir, "widget.png"))
	if err != nil {
		t.Fatalf("create texture: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode texture: %v", err)
	}

	return root
}

func testRenderer(t *testing.T, assetsPath string) *Renderer {
	t.Helper()
	cfg := config.Default()
	cfg.AssetsPath = assetsPath
	r, err := New(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRenderItemProducesNonEmptyImage(t *testing.T) {
	root := writeFixtureAssets(t, color.RGBA{R: 200, G: 50, B: 50, A: 255})
	r := testRenderer(t, root)

	result, err := r.RenderItem("minecraft:widget", RenderOptions{Size: 32})
	if err != nil {
		t.Fatalf("RenderItem: %v", err)
	}
	if result.Image.Bounds().Dx() != 32 || result.Image.Bounds().Dy() != 32 {
		t.Fatalf("expected a 32x32 image, got %v", result.Image.Bounds())
	}

	var anyOpaque bool
	b := result.Image.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !anyOpaque; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := result.Image.At(x, y).RGBA(); a > 0 {
				anyOpaque = true
				break
			}
		}
	}
	if !anyOpaque {
		t.Errorf("expected at least one opaque pixel in the rendered cube")
	}
}

func TestRenderItemIsDeterministic(t *testing.T) {
	root := writeFixtureAssets(t, color.RGBA{R: 10, G: 200, B: 30, A: 255})
	r := testRenderer(t, root)

	opts := RenderOptions{Size: 24}
	a, err := r.RenderItem("minecraft:widget", opts)
	if err != nil {
		t.Fatalf("RenderItem (1): %v", err)
	}
	b, err := r.RenderItem("minecraft:widget", opts)
	if err != nil {
		t.Fatalf("RenderItem (2): %v", err)
	}

	if a.ResourceID.Canonical != b.ResourceID.Canonical {
		t.Fatalf("expected identical resource ids, got %q vs %q", a.ResourceID.Canonical, b.ResourceID.Canonical)
	}
	if !imagesEqual(a.Image, b.Image) {
		t.Errorf("expected identical pixels across repeated renders of the same input")
	}
}

func TestRenderBlockUsesBlockModelConvention(t *testing.T) {
	root := t.TempDir()
	modelsDir := filepath.Join(root, "models", "block")
	texturesDir := filepath.Join(root, "textures", "block")
	os.MkdirAll(modelsDir, 0o755)
	os.MkdirAll(texturesDir, 0o755)

	model := blockmodel.Model{
		Textures: map[string]string{"all": "minecraft:block/dirt"},
		Elements: []blockmodel.Element{{
			From:  [3]float32{0, 0, 0},
			To:    [3]float32{16, 16, 16},
			Faces: map[string]blockmodel.Face{"up": {Texture: "#all"}},
		}},
	}
	modelJSON, _ := json.Marshal(model)
	os.WriteFile(filepath.Join(modelsDir, "dirt.json"), modelJSON, 0o644)

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	f, _ := os.Create(filepath.Join(texturesDir, "dirt.png"))
	png.Encode(f, img)
	f.Close()

	r := testRenderer(t, root)
	result, err := r.RenderBlock("minecraft:dirt", RenderOptions{Size: 16})
	if err != nil {
		t.Fatalf("RenderBlock: %v", err)
	}
	if result.ResourceID.ModelPath != "minecraft:block/dirt" {
		t.Errorf("expected model path minecraft:block/dirt, got %s", result.ResourceID.ModelPath)
	}
}

func TestRenderItemFromNBTDecodesItemID(t *testing.T) {
	root := writeFixtureAssets(t, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	r := testRenderer(t, root)

	item := nbt.Compound{"id": nbt.String("minecraft:widget"), "count": nbt.Int(1)}
	result, err := r.RenderItemFromNBT(item, RenderOptions{Size: 16})
	if err != nil {
		t.Fatalf("RenderItemFromNBT: %v", err)
	}
	if result.ResourceID.ModelPath != "minecraft:item/widget" {
		t.Errorf("expected default item model path, got %s", result.ResourceID.ModelPath)
	}
}

func TestRenderItemFromNBTRejectsMissingID(t *testing.T) {
	root := writeFixtureAssets(t, color.RGBA{A: 255})
	r := testRenderer(t, root)

	_, err := r.RenderItemFromNBT(nbt.Compound{}, RenderOptions{})
	if err == nil {
		t.Fatalf("expected an error for a compound with no id")
	}
}

func TestComputeResourceIDMatchesRenderItem(t *testing.T) {
	root := writeFixtureAssets(t, color.RGBA{R: 9, G: 9, B: 9, A: 255})
	r := testRenderer(t, root)

	opts := RenderOptions{Size: 20}
	id, err := r.ComputeResourceID("minecraft:widget", opts)
	if err != nil {
		t.Fatalf("ComputeResourceID: %v", err)
	}
	result, err := r.RenderItem("minecraft:widget", opts)
	if err != nil {
		t.Fatalf("RenderItem: %v", err)
	}
	if id.Canonical != result.ResourceID.Canonical {
		t.Errorf("expected ComputeResourceID to match RenderItem's resource id without painting, got %q vs %q", id.Canonical, result.ResourceID.Canonical)
	}
}

func TestDebugResolveModelReportsTexturesUsed(t *testing.T) {
	root := writeFixtureAssets(t, color.RGBA{A: 255})
	r := testRenderer(t, root)

	info, err := r.DebugResolveModel("minecraft:widget", RenderOptions{})
	if err != nil {
		t.Fatalf("DebugResolveModel: %v", err)
	}
	if info.ModelPath != "minecraft:item/widget" {
		t.Errorf("expected item/widget model path, got %s", info.ModelPath)
	}
	if len(info.Textures) != 1 || info.Textures[0] != "minecraft:item/widget" {
		t.Errorf("expected exactly the one bound texture, got %v", info.Textures)
	}
	if info.SourcePack != "vanilla" {
		t.Errorf("expected vanilla source pack with no packs registered, got %s", info.SourcePack)
	}
}

func TestRenderItemRejectsEmptyID(t *testing.T) {
	root := writeFixtureAssets(t, color.RGBA{A: 255})
	r := testRenderer(t, root)
	if _, err := r.RenderItem("", RenderOptions{}); err == nil {
		t.Errorf("expected an error for an empty item id")
	}
}

func TestRenderItemUnknownModelProducesModelParseError(t *testing.T) {
	root := writeFixtureAssets(t, color.RGBA{A: 255})
	r := testRenderer(t, root)

	_, err := r.RenderItem("minecraft:does_not_exist", RenderOptions{})
	if err == nil {
		t.Fatalf("expected an error for an unresolvable model")
	}
	var renderErr *Error
	if !asRenderError(err, &renderErr) {
		t.Fatalf("expected a *render.Error, got %T: %v", err, err)
	}
	if renderErr.Kind != ErrModelParseError {
		t.Errorf("expected ErrModelParseError, got %v", renderErr.Kind)
	}
}

func asRenderError(err error, target **Error) bool {
	if e, ok := err.(*Error); ok {
		*target = e
		return true
	}
	return false
}

func imagesEqual(a, b *image.RGBA) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if a.At(x, y) != b.At(x, y) {
				return false
			}
		}
	}
	return true
}
