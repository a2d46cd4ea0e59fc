package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mcrender/internal/assets"
)

func writeSolidPNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func newTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	root := t.TempDir()
	reg := assets.New(nil)
	t.Cleanup(func() { reg.Close() })
	if err := reg.Add("minecraft", root, "vanilla", true); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return New(reg, nil), root
}

func TestGetLoadsAndCachesByResourceID(t *testing.T) {
	repo, root := newTestRepo(t)
	writeSolidPNG(t, filepath.Join(root, "textures/item/stick.png"), color.RGBA{R: 200, G: 10, B: 10, A: 255})

	first := repo.Get("minecraft:item/stick")
	second := repo.Get("minecraft:item/stick")
	if first != second {
		t.Errorf("expected Get to return the cached *Asset on the second call")
	}
	if first.Width != 16 || first.Height != 16 {
		t.Errorf("unexpected dimensions %dx%d", first.Width, first.Height)
	}
}

func TestGetMissingResourceReturnsMissingSentinel(t *testing.T) {
	repo, _ := newTestRepo(t)
	asset := repo.Get("minecraft:item/does_not_exist")
	if asset.ResourceID != MissingTextureID {
		t.Errorf("expected the missingno sentinel, got %q", asset.ResourceID)
	}
}

func TestGetTintedCachesByTintKey(t *testing.T) {
	repo, root := newTestRepo(t)
	writeSolidPNG(t, filepath.Join(root, "textures/block/grass_top.png"), color.RGBA{R: 255, G: 255, B: 255, A: 255})

	tint := RGB{R: 0.5, G: 1, B: 0.2}
	first := repo.GetTinted("minecraft:block/grass_top", tint, 1.0, BlendDefault)
	second := repo.GetTinted("minecraft:block/grass_top", tint, 1.0, BlendDefault)
	if first != second {
		t.Errorf("expected GetTinted to cache by (resourceID, tint, strength, blend)")
	}

	differentStrength := repo.GetTinted("minecraft:block/grass_top", tint, 0.5, BlendDefault)
	if differentStrength == first {
		t.Errorf("expected a different strength to produce a distinct cached asset")
	}
}

func TestGetTintedZeroStrengthReturnsUntintedAsset(t *testing.T) {
	repo, root := newTestRepo(t)
	writeSolidPNG(t, filepath.Join(root, "textures/block/stone.png"), color.RGBA{R: 128, G: 128, B: 128, A: 255})

	base := repo.Get("minecraft:block/stone")
	tinted := repo.GetTinted("minecraft:block/stone", RGB{R: 1, G: 0, B: 0}, 0, BlendDefault)
	if base != tinted {
		t.Errorf("expected strength<=0 to return the untinted base asset")
	}
}

func TestInjectRawBypassesNamespaceResolution(t *testing.T) {
	repo, _ := newTestRepo(t)
	pix := image.NewRGBA(image.Rect(0, 0, 8, 8))
	repo.InjectRaw("skull:custom-skin-1", pix)

	got := repo.Get("skull:custom-skin-1")
	if got.ResourceID != "skull:custom-skin-1" || got.Width != 8 {
		t.Errorf("expected the injected asset to be returned as-is, got %+v", got)
	}
}

func TestInvalidateForcesReloadOfThatTexture(t *testing.T) {
	repo, root := newTestRepo(t)
	path := filepath.Join(root, "textures/item/stick.png")
	writeSolidPNG(t, path, color.RGBA{R: 1, G: 1, B: 1, A: 255})

	before := repo.Get("minecraft:item/stick")
	writeSolidPNG(t, path, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	repo.Invalidate("minecraft", "textures/item/stick.png")
	after := repo.Get("minecraft:item/stick")

	if before == after {
		t.Errorf("expected Invalidate to drop the cached entry so Get reloads from disk")
	}
	if after.Pix.RGBAAt(0, 0).R != 200 {
		t.Errorf("expected the reloaded pixel data to reflect the updated file")
	}
}

func TestInvalidateAlsoEvictsTintedVariants(t *testing.T) {
	repo, root := newTestRepo(t)
	path := filepath.Join(root, "textures/block/grass_top.png")
	writeSolidPNG(t, path, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	tint := RGB{R: 0.5, G: 1, B: 0.2}
	before := repo.GetTinted("minecraft:block/grass_top", tint, 1.0, BlendDefault)

	repo.Invalidate("minecraft", "textures/block/grass_top.png")

	after := repo.GetTinted("minecraft:block/grass_top", tint, 1.0, BlendDefault)
	if before == after {
		t.Errorf("expected Invalidate to also evict tinted variants derived from the changed file")
	}
}

func TestInvalidateIgnoresNonTexturePaths(t *testing.T) {
	repo, root := newTestRepo(t)
	path := filepath.Join(root, "textures/item/stick.png")
	writeSolidPNG(t, path, color.RGBA{R: 1, G: 1, B: 1, A: 255})
	before := repo.Get("minecraft:item/stick")

	repo.Invalidate("minecraft", "models/item/stick.json")

	after := repo.Get("minecraft:item/stick")
	if before != after {
		t.Errorf("expected a non-texture path to leave the texture cache untouched")
	}
}

func TestAnimationMetaForReportsFalseWhenNoMcmeta(t *testing.T) {
	repo, root := newTestRepo(t)
	writeSolidPNG(t, filepath.Join(root, "textures/block/stone.png"), color.RGBA{R: 1, G: 1, B: 1, A: 255})

	if _, ok := repo.AnimationMetaFor("minecraft:block/stone"); ok {
		t.Errorf("expected no animation metadata for a plain texture")
	}
}
