// Package selector implements the Item Registry / Model Selector: a
// deterministic, depth-first decision tree mapping an item id plus its
// render data to a concrete model path.
//
// The Leaf/Branch split mirrors the sum-type style the teacher uses
// for BlockStateVariants' single-vs-array JSON shape
// (pkg/blockmodel.BlockStateVariants), generalized from a JSON-shape
// discriminator to a selection-tree discriminator.
package selector

import "mcrender/internal/itemdata"

// Node is a selector tree node: exactly one of the two shapes is
// meaningful, discriminated by IsLeaf.
type Node struct {
	IsLeaf bool

	// Leaf
	ModelPath string

	// Branch
	Predicate Predicate
	Then      *Node
	Else      *Node
}

// Leaf builds a terminal node resolving directly to modelPath.
func Leaf(modelPath string) *Node { return &Node{IsLeaf: true, ModelPath: modelPath} }

// Branch builds a decision node: when predicate matches, evaluation
// continues down then, else else.
func Branch(predicate Predicate, then, els *Node) *Node {
	return &Node{Predicate: predicate, Then: then, Else: els}
}

// Predicate is evaluated against an item's render data. It must record
// any RenderData field it inspects via data.MarkConsulted so the
// Resource Fingerprinter can include only fields that actually
// influenced selection (spec §4.9).
type Predicate func(data *itemdata.RenderData) bool

// CustomDataEquals matches when CustomData[key] is a string tag equal
// to want.
func CustomDataEquals(key, want string) Predicate {
	return func(data *itemdata.RenderData) bool {
		data.MarkConsulted(key)
		if !data.HasCustomData {
			return false
		}
		val, ok := data.CustomData.GetString(key)
		return ok && val == want
	}
}

// DamageInRange matches when Damage is within [lo, hi] inclusive.
func DamageInRange(lo, hi int) Predicate {
	return func(data *itemdata.RenderData) bool {
		data.MarkConsulted("minecraft:damage")
		if !data.HasDamage {
			return false
		}
		return data.Damage >= lo && data.Damage <= hi
	}
}

// HasProfile matches when the item carries a skull profile.
func HasProfile() Predicate {
	return func(data *itemdata.RenderData) bool {
		data.MarkConsulted("minecraft:profile")
		return data.Profile != nil
	}
}

// TintIndexInRange matches when a tint override exists for some index
// within [lo, hi].
func TintIndexInRange(lo, hi int) Predicate {
	return func(data *itemdata.RenderData) bool {
		data.MarkConsulted("tint_index")
		for idx := range data.TintIndexOverrides {
			if idx >= lo && idx <= hi {
				return true
			}
		}
		return false
	}
}

// Evaluate walks the tree depth-first and returns the first matching
// leaf's model path. ok is false when no leaf was reached (spec:
// SelectorUnresolved, not fatal).
func Evaluate(root *Node, data *itemdata.RenderData) (string, bool) {
	node := root
	for node != nil {
		if node.IsLeaf {
			return node.ModelPath, true
		}
		if node.Predicate(data) {
			node = node.Then
		} else {
			node = node.Else
		}
	}
	return "", false
}

// Registry maps item ids to selector trees (or, absent a tree, a
// default model path).
type Registry struct {
	selectors map[string]*Node
	defaults  map[string]string
}

// New creates an empty selector registry.
func New() *Registry {
	return &Registry{
		selectors: make(map[string]*Node),
		defaults:  make(map[string]string),
	}
}

// RegisterSelector attaches a selector tree to itemID.
func (r *Registry) RegisterSelector(itemID string, root *Node) {
	r.selectors[itemID] = root
}

// RegisterDefault attaches a default model path to itemID, used when
// no selector is registered or the selector doesn't resolve.
func (r *Registry) RegisterDefault(itemID, modelPath string) {
	r.defaults[itemID] = modelPath
}

// Resolve returns the model path for itemID given data. When no
// selector is registered, or evaluation fails to reach a leaf, it
// falls back to the registered default, then to "item/<name>".
func (r *Registry) Resolve(itemID string, data *itemdata.RenderData) string {
	if root, ok := r.selectors[itemID]; ok {
		if path, ok := Evaluate(root, data); ok {
			return path
		}
	}
	if def, ok := r.defaults[itemID]; ok {
		return def
	}
	return DefaultModelPath(itemID)
}

// DefaultModelPath derives "item/<name>" (namespace-qualified) from an
// item id, the convention spec §4.4 names for items without a
// selector.
func DefaultModelPath(itemID string) string {
	ns, name := splitID(itemID)
	return ns + ":item/" + name
}

func splitID(id string) (namespace, name string) {
	for i := 0; i < len(id); i++ {
		if id[i] == ':' {
			return id[:i], id[i+1:]
		}
	}
	return "minecraft", id
}
