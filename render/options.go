package render

import (
	"image"
	"image/color"

	"mcrender/internal/fingerprint"
	"mcrender/internal/itemdata"
	"mcrender/internal/texture"
	"mcrender/internal/transformstack"
)

// RenderOptions is the shared options record every entry point takes,
// matching spec.md §3's RenderOptions entity.
type RenderOptions struct {
	// Size is the output image's width and height in pixels. Zero
	// falls back to the renderer's configured default size.
	Size int

	View              transformstack.View
	UseGUITransform   bool
	PerspectiveAmount float64
	Background        *color.RGBA

	// PackIDs selects which registered packs participate, deepest
	// priority first. Empty means the renderer's configured defaults.
	PackIDs []string

	// ItemData supplies pre-decoded item state for RenderItem; unused
	// by RenderBlock and the *FromNBT entry points, which derive it
	// themselves.
	ItemData *itemdata.RenderData

	// BiomeTint, when non-nil, applies a biome-approximated tint to
	// faces carrying tint index 0 instead of the item's own tint.
	BiomeTint *texture.BiomeKind
}

func (o RenderOptions) sizeOrDefault(def int) int {
	if o.Size > 0 {
		return o.Size
	}
	return def
}

// Warning records a non-fatal, fidelity-degrading condition
// encountered during a render (spec §7: these never fail the call).
type Warning struct {
	Kind    string
	Message string
}

// Result is the outcome of a single-frame render.
type Result struct {
	Image      *image.RGBA
	ResourceID fingerprint.ResourceID
	Warnings   []Warning
}

// AnimatedFrame is one frame of an AnimatedResult.
type AnimatedFrame struct {
	Image      *image.RGBA
	DurationMS int
}

// AnimatedResult is the outcome of an animated render.
type AnimatedResult struct {
	Frames         []AnimatedFrame
	LoopDurationMS int
	ResourceID     fingerprint.ResourceID
	Warnings       []Warning
}

// ModelDebugInfo is returned by DebugResolveModel, the reflection-free
// stand-in for the original's reflection-based benchmark probe (spec
// §9).
type ModelDebugInfo struct {
	ModelPath  string
	Textures   []string
	SourcePack string
}
