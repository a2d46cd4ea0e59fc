// Package model implements the Model Resolver: loading block/item
// model JSON, following parent chains, merging element lists and
// texture slot maps, and flattening the result into a ModelInstance
// with fully-expanded texture references.
//
// The parent-merge and #slot-expansion algorithms are adapted from
// the teacher's pkg/blockmodel.Loader, generalized with an explicit
// visited set so that malformed cyclic data degrades to a sentinel
// instead of recursing forever (spec §9, "cyclic model/texture
// references").
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"mcrender/internal/assets"
	"mcrender/internal/logging"
	"mcrender/pkg/blockmodel"
)

// GeneratedParent and BuiltinEntityParent name the two special model
// parents the spec calls out: "item/generated" synthesizes planar
// elements from layer textures, and "builtin/entity" hands off to the
// Skull Renderer.
const (
	GeneratedParent     = "item/generated"
	BuiltinEntityParent = "builtin/entity"
)

// Instance is the flattened, render-ready form of a model: elements
// with texture references fully expanded to concrete resource ids.
type Instance struct {
	ModelPath        string
	Elements         []blockmodel.Element
	Display          map[string]blockmodel.Display
	AmbientOcclusion bool
	IsBuiltinEntity  bool
	BuiltinEntityRef string // e.g. "minecraft:player_head" hint passed through
	// TexturesUsed is the sorted, de-duplicated set of concrete
	// texture resource ids referenced by Elements' faces.
	TexturesUsed []string
}

type cacheKey struct {
	modelPath     string
	packStackHash string
}

// Resolver loads and flattens models, memoizing by (model path, pack
// stack hash).
type Resolver struct {
	registry *assets.Registry
	log      *logging.Logger

	mu    sync.RWMutex
	cache map[cacheKey]*Instance
	// raw caches the parent-merged-but-slot-unresolved blockmodel.Model
	// per (model path, pack stack hash): raw JSON content depends on
	// which file won namespace resolution, which depends on the pack
	// stack, so raw is keyed the same way as cache.
	raw map[cacheKey]*blockmodel.Model
}

// New creates a Model Resolver over registry.
func New(registry *assets.Registry, log *logging.Logger) *Resolver {
	if log == nil {
		log = logging.Discard()
	}
	return &Resolver{
		registry: registry,
		log:      log,
		cache:    make(map[cacheKey]*Instance),
		raw:      make(map[cacheKey]*blockmodel.Model),
	}
}

// Resolve loads modelPath (e.g. "minecraft:block/cube_all" or
// "block/cube_all", namespace defaulting to minecraft) and flattens
// it into an Instance, memoized per (modelPath, packStackHash).
func (r *Resolver) Resolve(modelPath, packStackHash string) (*Instance, error) {
	key := cacheKey{modelPath, packStackHash}

	r.mu.RLock()
	if inst, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return inst, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, ok := r.cache[key]; ok {
		return inst, nil
	}

	raw, err := r.loadMerged(modelPath, packStackHash, make(map[string]bool))
	if err != nil {
		return nil, err
	}

	inst := flatten(modelPath, raw)
	r.cache[key] = inst
	return inst, nil
}

// Invalidate drops every cached Instance and merged-but-unresolved
// Model whose model path matches the file at (namespace,
// relativePath), across every pack stack hash. Registered with
// assets.Registry.OnChange. Non-model paths (relativePath not under
// "models/" with a ".json" suffix) are ignored. A changed model file
// can also be a parent of other cached models, but those only
// reference it by path at load time, not by a tracked dependency edge,
// so they are left cached until explicitly re-resolved; spec §4.3's
// invalidation contract only promises the edited model itself reloads.
func (r *Resolver) Invalidate(namespace, relativePath string) {
	const prefix, suffix = "models/", ".json"
	if !strings.HasPrefix(relativePath, prefix) || !strings.HasSuffix(relativePath, suffix) {
		return
	}
	id := namespace + ":" + strings.TrimSuffix(strings.TrimPrefix(relativePath, prefix), suffix)

	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.cache {
		if normalizeModelPath(key.modelPath) == id {
			delete(r.cache, key)
		}
	}
	for key := range r.raw {
		if normalizeModelPath(key.modelPath) == id {
			delete(r.raw, key)
		}
	}
}

// loadMerged loads modelPath and recursively merges its parent chain,
// collapsing cycles to a default cube with missingno faces and no
// parent (spec: "substitute a default cube with missing-texture
// sentinel faces"). The caller holds r.mu for writing.
func (r *Resolver) loadMerged(modelPath, packStackHash string, visited map[string]bool) (*blockmodel.Model, error) {
	normalized := normalizeModelPath(modelPath)
	if visited[normalized] {
		r.log.Warnf("model parent cycle detected at %s, substituting default cube", normalized)
		return defaultCubeModel(), nil
	}
	visited[normalized] = true

	key := cacheKey{normalized, packStackHash}
	if m, ok := r.raw[key]; ok {
		return m, nil
	}

	model, err := r.loadModelJSON(normalized)
	if err != nil {
		return nil, fmt.Errorf("model parse error for %s: %w", normalized, err)
	}

	if model.Parent != "" && model.Parent != BuiltinEntityParent {
		parent, err := r.loadMerged(model.Parent, packStackHash, visited)
		if err != nil {
			return nil, err
		}
		mergeParent(model, parent)
	}

	r.raw[key] = model
	return model, nil
}

func (r *Resolver) loadModelJSON(modelPath string) (*blockmodel.Model, error) {
	ns, path := assets.SplitResourceID(modelPath)
	relPath := "models/" + path + ".json"

	found, ok := r.registry.Resolve(ns, relPath)
	if !ok {
		return nil, fmt.Errorf("model file not found: %s:%s", ns, relPath)
	}

	data, err := os.ReadFile(found)
	if err != nil {
		return nil, err
	}

	var m blockmodel.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// mergeParent applies spec §4.3's bottom-up merge: child texture slots
// override parent's, child elements replace parent's wholesale when
// present, display transforms inherit slot-wise.
func mergeParent(child, parent *blockmodel.Model) {
	if child.AmbientOcclusion == nil {
		child.AmbientOcclusion = parent.AmbientOcclusion
	}
	if len(child.Elements) == 0 {
		child.Elements = cloneElements(parent.Elements)
	}
	if child.Textures == nil {
		child.Textures = make(map[string]string)
	}
	for key, val := range parent.Textures {
		if _, ok := child.Textures[key]; !ok {
			child.Textures[key] = val
		}
	}
	if child.Display == nil {
		child.Display = make(map[string]blockmodel.Display)
	}
	for key, val := range parent.Display {
		if _, ok := child.Display[key]; !ok {
			child.Display[key] = val
		}
	}
	if child.Parent == "" {
		child.Parent = parent.Parent
	}
}

func cloneElements(elems []blockmodel.Element) []blockmodel.Element {
	out := make([]blockmodel.Element, len(elems))
	for i, e := range elems {
		ne := e
		ne.Faces = make(map[string]blockmodel.Face, len(e.Faces))
		for dir, face := range e.Faces {
			ne.Faces[dir] = face
		}
		out[i] = ne
	}
	return out
}

// flatten expands texture slot references and produces a ready
// Instance, synthesizing elements for item/generated and flagging
// builtin/entity per spec §4.3.
func flatten(modelPath string, m *blockmodel.Model) *Instance {
	inst := &Instance{
		ModelPath: modelPath,
		Display:   m.Display,
	}
	if m.AmbientOcclusion != nil {
		inst.AmbientOcclusion = *m.AmbientOcclusion
	} else {
		inst.AmbientOcclusion = true
	}

	if m.Parent == BuiltinEntityParent {
		inst.IsBuiltinEntity = true
		return inst
	}

	elements := m.Elements
	if isGeneratedFamily(modelPath, m) && len(elements) == 0 {
		elements = synthesizeGeneratedElements(m)
	}

	inst.Elements = make([]blockmodel.Element, len(elements))
	textureSet := make(map[string]struct{})
	for i, e := range elements {
		ne := e
		ne.Faces = make(map[string]blockmodel.Face, len(e.Faces))
		for dir, face := range e.Faces {
			resolved := resolveSlot(face.Texture, m.Textures)
			face.Texture = resolved
			ne.Faces[dir] = face
			if !strings.HasPrefix(resolved, "#") {
				textureSet[resolved] = struct{}{}
			}
		}
		inst.Elements[i] = ne
	}

	inst.TexturesUsed = sortedKeys(textureSet)
	return inst
}

func isGeneratedFamily(modelPath string, m *blockmodel.Model) bool {
	return normalizeModelPath(modelPath) == normalizeModelPath(GeneratedParent) || m.Parent == GeneratedParent
}

// synthesizeGeneratedElements builds one paper-thin planar quad per
// layerN texture, ascending N, per spec §4.3.
func synthesizeGeneratedElements(m *blockmodel.Model) []blockmodel.Element {
	var layers []string
	for key := range m.Textures {
		if strings.HasPrefix(key, "layer") {
			layers = append(layers, key)
		}
	}
	sort.Slice(layers, func(i, j int) bool {
		ni, erri := strconv.Atoi(strings.TrimPrefix(layers[i], "layer"))
		nj, errj := strconv.Atoi(strings.TrimPrefix(layers[j], "layer"))
		if erri == nil && errj == nil && ni != nj {
			return ni < nj
		}
		return layers[i] < layers[j]
	})

	var elements []blockmodel.Element
	for i, key := range layers {
		depth := float32(7.5) + float32(i)*0.1
		tint := -1
		if i == 0 {
			// Layer 0 never tints by default (disable-default handled
			// by the caller via RenderOptions); other layers default
			// to tint index 1 to mirror vanilla's dyed-overlay items.
		} else {
			idx := 1
			tint = idx
		}
		var tintPtr *int
		if tint >= 0 {
			tintPtr = &tint
		}
		texRef := "#" + key
		elements = append(elements, blockmodel.Element{
			From: [3]float32{0, 0, depth},
			To:   [3]float32{16, 16, depth},
			Faces: map[string]blockmodel.Face{
				"north": {Texture: texRef, TintIndex: tintPtr},
				"south": {Texture: texRef, TintIndex: tintPtr},
			},
		})
	}
	return elements
}

// resolveSlot expands "#slot" chains to a concrete ns:path id,
// collapsing cycles (bounded iteration, spec-mandated) to missingno.
func resolveSlot(ref string, slots map[string]string) string {
	seen := make(map[string]bool)
	for strings.HasPrefix(ref, "#") {
		if seen[ref] {
			return "minecraft:missingno"
		}
		seen[ref] = true
		key := strings.TrimPrefix(ref, "#")
		next, ok := slots[key]
		if !ok {
			return "minecraft:missingno"
		}
		ref = next
	}
	if ref == "" {
		return "minecraft:missingno"
	}
	if !strings.Contains(ref, ":") {
		ref = "minecraft:" + ref
	}
	return ref
}

func normalizeModelPath(p string) string {
	ns, path := assets.SplitResourceID(p)
	return ns + ":" + path
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func defaultCubeModel() *blockmodel.Model {
	return &blockmodel.Model{
		Textures: map[string]string{"all": "minecraft:missingno"},
		Elements: []blockmodel.Element{{
			From: [3]float32{0, 0, 0},
			To:   [3]float32{16, 16, 16},
			Faces: map[string]blockmodel.Face{
				"down": {Texture: "#all"}, "up": {Texture: "#all"},
				"north": {Texture: "#all"}, "south": {Texture: "#all"},
				"west": {Texture: "#all"}, "east": {Texture: "#all"},
			},
		}},
	}
}
