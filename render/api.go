package render

import (
	"fmt"

	"mcrender/internal/animation"
	"mcrender/internal/fingerprint"
	"mcrender/internal/itemdata"
	"mcrender/internal/nbt"
)

// RenderBlock renders a block state's default model. blockID is a
// namespaced identifier such as "minecraft:stone"; it is resolved
// against the "<namespace>:block/<name>" convention the same way item
// ids default to "item/<name>" (spec §4.4).
func (r *Renderer) RenderBlock(blockID string, opts RenderOptions) (*Result, error) {
	if blockID == "" {
		return nil, newError(ErrInvalidItemID, "block id is empty", nil)
	}
	modelPath := blockModelPath(blockID)
	return r.renderResolved(blockID, modelPath, nil, opts)
}

// RenderItem renders an item using the pre-decoded opts.ItemData. The
// item's model path is resolved through the selector tree registered
// for its id, falling back to the "item/<name>" convention.
func (r *Renderer) RenderItem(itemID string, opts RenderOptions) (*Result, error) {
	if itemID == "" {
		return nil, newError(ErrInvalidItemID, "item id is empty", nil)
	}
	data := opts.ItemData
	if data == nil {
		data = itemdata.NewRenderData(itemID)
	}
	modelPath := r.selector.Resolve(itemID, data)
	return r.renderResolved(itemID, modelPath, data, opts)
}

// RenderItemFromNBT decodes item per spec §6's NBT shape and renders
// it, equivalent to calling itemdata.FromNBT followed by RenderItem.
// A malformed "minecraft:profile" textures payload does not fail the
// render: it surfaces as a SkinDecodeError warning and the item renders
// with the default skin (spec §7).
func (r *Renderer) RenderItemFromNBT(item nbt.Compound, opts RenderOptions) (*Result, error) {
	data, err := itemdata.FromNBT(item)
	if err != nil {
		return nil, newError(ErrInvalidItemID, "could not decode item nbt", err)
	}
	opts.ItemData = data
	modelPath := r.selector.Resolve(data.ItemID, data)

	result, err := r.renderResolved(data.ItemID, modelPath, data, opts)
	if err != nil {
		return nil, err
	}
	if data.ProfileDecodeFailed {
		result.Warnings = append(profileDecodeWarnings(), result.Warnings...)
	}
	return result, nil
}

// renderResolved is the shared body of RenderBlock/RenderItem/
// RenderItemFromNBT once an item id, model path, and (possibly nil)
// item data are in hand: resolve the pack stack, resolve the model,
// paint it, and fingerprint the result.
func (r *Renderer) renderResolved(itemID, modelPath string, data *itemdata.RenderData, opts RenderOptions) (*Result, error) {
	packIDs, err := r.packStack(opts)
	if err != nil {
		return nil, err
	}
	packHash := fingerprint.PackStackHash(r.packEntries(packIDs))

	rm, warnings, err := r.resolve(modelPath, packHash, data)
	if err != nil {
		return nil, err
	}

	size := opts.sizeOrDefault(r.cfg.DefaultSize)
	img, err := r.paint(modelPath, rm, data, opts, size, nil)
	if err != nil {
		return nil, err
	}

	resID, err := r.fingerprint(itemID, modelPath, rm, data, packIDs)
	if err != nil {
		return nil, newError(ErrIOError, "could not compute resource id", err)
	}

	return &Result{Image: img, ResourceID: resID, Warnings: warnings}, nil
}

// RenderAnimatedItemFromNBT renders every composite frame an item's
// bound textures cycle through over one shared loop, per spec §4.10's
// Animation Orchestrator.
func (r *Renderer) RenderAnimatedItemFromNBT(item nbt.Compound, opts RenderOptions) (*AnimatedResult, error) {
	data, err := itemdata.FromNBT(item)
	if err != nil {
		return nil, newError(ErrInvalidItemID, "could not decode item nbt", err)
	}
	opts.ItemData = data
	modelPath := r.selector.Resolve(data.ItemID, data)

	packIDs, err := r.packStack(opts)
	if err != nil {
		return nil, err
	}
	packHash := fingerprint.PackStackHash(r.packEntries(packIDs))

	rm, warnings, err := r.resolve(modelPath, packHash, data)
	if err != nil {
		return nil, err
	}
	if data.ProfileDecodeFailed {
		warnings = append(profileDecodeWarnings(), warnings...)
	}

	seq := animation.NewSequencer(r.animationTimelines(rm))
	size := opts.sizeOrDefault(r.cfg.DefaultSize)

	frames := make([]AnimatedFrame, 0, len(seq.Frames()))
	for _, cf := range seq.Frames() {
		img, err := r.paint(modelPath, rm, data, opts, size, cf.FrameIndex)
		if err != nil {
			return nil, err
		}
		frames = append(frames, AnimatedFrame{Image: img, DurationMS: cf.DurationMS})
	}

	resID, err := r.fingerprint(data.ItemID, modelPath, rm, data, packIDs)
	if err != nil {
		return nil, newError(ErrIOError, "could not compute resource id", err)
	}

	return &AnimatedResult{
		Frames:         frames,
		LoopDurationMS: seq.LoopDurationMS(),
		ResourceID:     resID,
		Warnings:       warnings,
	}, nil
}

// ComputeResourceID computes an item's fingerprint without rendering
// any pixels, for cache-key lookups ahead of an actual render.
func (r *Renderer) ComputeResourceID(itemID string, opts RenderOptions) (fingerprint.ResourceID, error) {
	if itemID == "" {
		return fingerprint.ResourceID{}, newError(ErrInvalidItemID, "item id is empty", nil)
	}
	data := opts.ItemData
	if data == nil {
		data = itemdata.NewRenderData(itemID)
	}
	modelPath := r.selector.Resolve(itemID, data)

	packIDs, err := r.packStack(opts)
	if err != nil {
		return fingerprint.ResourceID{}, err
	}
	packHash := fingerprint.PackStackHash(r.packEntries(packIDs))

	rm, _, err := r.resolve(modelPath, packHash, data)
	if err != nil {
		return fingerprint.ResourceID{}, err
	}
	resID, err := r.fingerprint(itemID, modelPath, rm, data, packIDs)
	if err != nil {
		return fingerprint.ResourceID{}, newError(ErrIOError, "could not compute resource id", err)
	}
	return resID, nil
}

// DebugResolveModel exposes what model and textures an item resolves
// to without rendering, the reflection-free stand-in spec §9 calls
// for in place of the original's benchmark-time reflection probe.
func (r *Renderer) DebugResolveModel(itemID string, opts RenderOptions) (ModelDebugInfo, error) {
	if itemID == "" {
		return ModelDebugInfo{}, newError(ErrInvalidItemID, "item id is empty", nil)
	}
	data := opts.ItemData
	if data == nil {
		data = itemdata.NewRenderData(itemID)
	}
	modelPath := r.selector.Resolve(itemID, data)

	packIDs, err := r.packStack(opts)
	if err != nil {
		return ModelDebugInfo{}, err
	}
	packHash := fingerprint.PackStackHash(r.packEntries(packIDs))

	rm, _, err := r.resolve(modelPath, packHash, data)
	if err != nil {
		return ModelDebugInfo{}, err
	}

	source := "vanilla"
	if len(packIDs) > 0 {
		source = packIDs[len(packIDs)-1]
	}
	return ModelDebugInfo{ModelPath: modelPath, Textures: rm.TexturesUsed, SourcePack: source}, nil
}

func (r *Renderer) fingerprint(itemID, modelPath string, rm *resolvedModel, data *itemdata.RenderData, packIDs []string) (fingerprint.ResourceID, error) {
	in := fingerprint.Input{
		ItemID:     itemID,
		ModelPath:  modelPath,
		TextureIDs: rm.TexturesUsed,
		PackStack:  r.packEntries(packIDs),
	}
	if data != nil {
		in.Tints = buildFingerprintTints(data)
		in.CustomData = data.CustomData
		in.ConsultedKeys = data.ConsultedKeys
	}
	return fingerprint.Compute(in)
}

// buildFingerprintTints merges an item's per-index tint overrides with
// its default layer-0 tint (when active) into the map the
// fingerprinter renders as "tints=layerN:hex,...".
func buildFingerprintTints(data *itemdata.RenderData) map[int]itemdata.Tint {
	tints := make(map[int]itemdata.Tint, len(data.TintIndexOverrides)+1)
	for idx, t := range data.TintIndexOverrides {
		tints[idx] = t
	}
	if _, overridden := tints[0]; !overridden && data.HasLayer0Tint && !data.DisableDefaultLayer0Tint {
		tints[0] = data.Layer0Tint
	}
	return tints
}

func profileDecodeWarnings() []Warning {
	return []Warning{{Kind: "SkinDecodeError", Message: "minecraft:profile textures payload was malformed, substituted default skin"}}
}

func blockModelPath(blockID string) string {
	for i := 0; i < len(blockID); i++ {
		if blockID[i] == ':' {
			return fmt.Sprintf("%s:block/%s", blockID[:i], blockID[i+1:])
		}
	}
	return "minecraft:block/" + blockID
}
