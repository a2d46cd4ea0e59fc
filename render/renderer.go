// Package render is the Public Render API: the Renderer type that owns
// every sub-component (registry, textures, models, selector, skulls)
// and the entry points (RenderBlock, RenderItem, RenderItemFromNBT,
// RenderAnimatedItemFromNBT, ComputeResourceID, DebugResolveModel)
// that drive the Resolving -> Binding -> Meshing -> Rasterizing ->
// Done pipeline.
//
// Renderer plays the role the teacher's
// internal/graphics/renderer.Renderer fills (owns sub-components,
// exposes a small Render-shaped surface) but holds software-only
// state: no gl.Enable calls, safe for concurrent RenderBlock/RenderItem
// calls per spec §5.
package render

import (
	"fmt"
	"image"
	"time"

	"mcrender/internal/animation"
	"mcrender/internal/assets"
	"mcrender/internal/config"
	"mcrender/internal/fingerprint"
	"mcrender/internal/itemdata"
	"mcrender/internal/logging"
	"mcrender/internal/mesh"
	"mcrender/internal/model"
	"mcrender/internal/profiling"
	"mcrender/internal/raster"
	"mcrender/internal/selector"
	"mcrender/internal/skull"
	"mcrender/internal/texture"
	"mcrender/internal/transformstack"
	"mcrender/pkg/blockmodel"
)

// Renderer owns the asset registry, texture repository, model
// resolver, item selector, and skull resolver for one independent
// rendering context. Multiple Renderer instances never share state
// (spec §9, "global caches").
type Renderer struct {
	cfg *config.RendererConfig
	log *logging.Logger

	registry *assets.Registry
	textures *texture.Repository
	models   *model.Resolver
	selector *selector.Registry
	skulls   *skull.Resolver
	prof     *profiling.Profiler
}

// New constructs a Renderer from cfg, registering the vanilla asset
// root, any configured packs, and an optional custom-data overlay.
// A nil cfg falls back to config.Default().
func New(cfg *config.RendererConfig, log *logging.Logger) (*Renderer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.Discard()
	}

	registry := assets.New(log)
	if err := registry.Add("minecraft", cfg.AssetsPath, "vanilla", true); err != nil {
		return nil, newError(ErrIOError, "could not register vanilla asset root", err)
	}

	for _, pack := range cfg.Packs {
		if _, err := registry.RegisterPack(pack.Path); err != nil {
			return nil, newError(ErrIOError, fmt.Sprintf("could not register pack %s", pack.Path), err)
		}
	}

	if cfg.CustomDataPath != "" {
		if err := registry.RegisterCustomData(cfg.CustomDataPath); err != nil {
			log.Warnf("could not register customdata overlay %s: %v", cfg.CustomDataPath, err)
		}
	}

	textures := texture.New(registry, log)
	models := model.New(registry, log)
	registry.OnChange(textures.Invalidate)
	registry.OnChange(models.Invalidate)

	return &Renderer{
		cfg:      cfg,
		log:      log,
		registry: registry,
		textures: textures,
		models:   models,
		selector: selector.New(),
		skulls:   skull.NewResolver(log),
		prof:     profiling.New(),
	}, nil
}

// Selector exposes the item model selector registry so callers can
// register selector trees before rendering items.
func (r *Renderer) Selector() *selector.Registry { return r.selector }

// ProfileSnapshot returns the accumulated per-stage timing breakdown
// since the last ResetProfile call.
func (r *Renderer) ProfileSnapshot() map[string]time.Duration { return r.prof.Snapshot() }

// ProfileSummary formats the n slowest tracked stages.
func (r *Renderer) ProfileSummary(n int) string { return r.prof.TopN(n) }

// ResetProfile clears the accumulated timing breakdown.
func (r *Renderer) ResetProfile() { r.prof.Reset() }

// Close stops any background resources (the asset watcher).
func (r *Renderer) Close() error { return r.registry.Close() }

func (r *Renderer) packStack(opts RenderOptions) ([]string, error) {
	ids := opts.PackIDs
	if len(ids) == 0 {
		ids = r.cfg.DefaultPackIDs
	}
	if err := assets.PackStack(ids).Validate(r.registry); err != nil {
		return nil, newError(ErrOptionsInvalid, "pack_ids", err)
	}
	return ids, nil
}

func (r *Renderer) packEntries(ids []string) []fingerprint.PackEntry {
	entries := make([]fingerprint.PackEntry, len(ids))
	for i, id := range ids {
		entries[i] = fingerprint.PackEntry{ID: id, Version: r.registry.PackVersion(id)}
	}
	return entries
}

// resolvedModel is the flattened, render-ready shape of either an
// ordinary resolved model or a synthesized skull head.
type resolvedModel struct {
	Elements     []blockmodel.Element
	Display      map[string]blockmodel.Display
	TexturesUsed []string
}

func (r *Renderer) resolve(modelPath, packStackHash string, data *itemdata.RenderData) (*resolvedModel, []Warning, error) {
	inst, err := r.models.Resolve(modelPath, packStackHash)
	if err != nil {
		return nil, nil, newError(ErrModelParseError, modelPath, err)
	}

	if !inst.IsBuiltinEntity {
		return &resolvedModel{Elements: inst.Elements, Display: inst.Display, TexturesUsed: inst.TexturesUsed}, nil, nil
	}

	var warnings []Warning
	skinID, ok := r.resolveSkullSkin(data)
	if !ok {
		warnings = append(warnings, Warning{Kind: "SkinDecodeError", Message: "could not decode profile skin, substituted default"})
	}
	return &resolvedModel{
		Elements:     skull.BuildHeadElements(skinID, true),
		TexturesUsed: []string{skinID},
	}, warnings, nil
}

// resolveSkullSkin fetches and injects a skull's skin into the texture
// repository, returning the synthetic resource id it was registered
// under.
func (r *Renderer) resolveSkullSkin(data *itemdata.RenderData) (string, bool) {
	if data == nil || data.Profile == nil || data.Profile.SkinURL == "" {
		id := "mcrender:synthetic/skull_default"
		r.injectSkinOnce(id, skull.DefaultSteveSkin())
		return id, true
	}

	img, ok := r.skulls.Resolve(contextBackground(), data.Profile.SkinURL)
	id := "mcrender:synthetic/skull_" + shortHash(data.Profile.SkinURL)
	r.injectSkinOnce(id, img)
	return id, ok
}

func (r *Renderer) injectSkinOnce(id string, img *image.RGBA) {
	// texture.Repository.Get is idempotent-safe to call before
	// injecting since InjectRaw unconditionally overwrites; checking
	// first avoids re-registering on every render call for the same
	// skin.
	if existing := r.textures.Get(id); existing != nil && existing.ResourceID == id && existing.Pix == img {
		return
	}
	r.textures.InjectRaw(id, img)
}

// paint runs the shared mesh -> transform -> raster pipeline every
// entry point funnels through once it has a resolvedModel. frameOf is
// consulted per texture id to pick which animation frame to sample;
// a nil frameOf always samples frame 0 (the static-render case).
func (r *Renderer) paint(modelPath string, rm *resolvedModel, data *itemdata.RenderData, opts RenderOptions, size int, frameOf map[string]int) (*image.RGBA, error) {
	defer r.prof.Track("render.paint")()

	instance := &model.Instance{ModelPath: modelPath, Elements: rm.Elements}
	meshDone := r.prof.Track("mesh.Build")
	triangles := mesh.Build(instance)
	meshDone()

	var display *blockmodel.Display
	if gui, ok := rm.Display["gui"]; ok {
		display = &gui
	}
	viewMatrix := transformstack.Build(transformstack.Options{
		View:              opts.View,
		Display:           display,
		UseGUITransform:   opts.UseGUITransform,
		PerspectiveAmount: opts.PerspectiveAmount,
		Size:              size,
	})

	rasterTriangles := make([]raster.Triangle, 0, len(triangles))
	for _, tri := range triangles {
		asset := r.sampleAsset(tri.TextureID, tri.TintIndex, tri.Tinted, data, opts)
		src := frameSource(asset, frameOf[tri.TextureID])

		var verts [3]raster.Vertex
		for i, v := range tri.V {
			clip := viewMatrix.MulPoint(v.Pos)
			x, y := transformstack.ToPixel(clip, size)
			verts[i] = raster.Vertex{X: x, Y: y, Z: clip.Z, U: v.U, V: v.V}
		}
		rasterTriangles = append(rasterTriangles, raster.Triangle{
			V:            verts,
			Texture:      src,
			ElementIndex: tri.ElementIndex,
			FaceDir:      tri.FaceDir,
			Tinted:       tri.Tinted,
			Shaded:       tri.Shaded,
		})
	}

	defer r.prof.Track("raster.Render")()
	return raster.Render(rasterTriangles, size, opts.Background), nil
}

// animationTimelines looks up the AnimationMeta for every texture a
// resolved model binds, for handing to the animation sequencer.
func (r *Renderer) animationTimelines(rm *resolvedModel) []animation.Timeline {
	timelines := make([]animation.Timeline, 0, len(rm.TexturesUsed))
	for _, id := range rm.TexturesUsed {
		meta, _ := r.textures.AnimationMetaFor(id)
		timelines = append(timelines, animation.Timeline{ResourceID: id, Meta: meta})
	}
	return timelines
}

func (r *Renderer) sampleAsset(textureID string, tintIndex int, tinted bool, data *itemdata.RenderData, opts RenderOptions) *texture.Asset {
	if !tinted {
		return r.textures.Get(textureID)
	}
	if data != nil {
		if t, ok := data.TintIndexOverrides[tintIndex]; ok {
			return r.textures.GetTinted(textureID, texture.RGB{R: t.R, G: t.G, B: t.B}, 1.0, texture.BlendDefault)
		}
	}
	if tintIndex == 0 {
		if opts.BiomeTint != nil {
			return r.textures.GetBiomeTinted(textureID, *opts.BiomeTint)
		}
		if data != nil && data.HasLayer0Tint && !data.DisableDefaultLayer0Tint {
			return r.textures.GetTinted(textureID, texture.RGB{R: data.Layer0Tint.R, G: data.Layer0Tint.G, B: data.Layer0Tint.B}, 1.0, texture.BlendDefault)
		}
	}
	return r.textures.Get(textureID)
}
