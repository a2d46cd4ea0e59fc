// Package blockmodel defines the JSON shape of Minecraft block and
// item models: the raw, still-slot-indirected form loaded from disk
// before internal/model flattens parent chains into a ModelInstance.
package blockmodel

import "encoding/json"

// Model is one model JSON document, parent-unresolved.
type Model struct {
	Parent           string             `json:"parent"`
	AmbientOcclusion *bool              `json:"ambientocclusion"`
	Textures         map[string]string  `json:"textures"`
	Elements         []Element          `json:"elements"`
	Display          map[string]Display `json:"display"`
	Overrides        []Override         `json:"overrides"`
}

// Element is one cuboid (From/To in [-16,32]^3; no range check is
// applied) with an optional rotation and a face map keyed by direction
// name.
type Element struct {
	From     [3]float32      `json:"from"`
	To       [3]float32      `json:"to"`
	Rotation *Rotation       `json:"rotation"`
	Shade    *bool           `json:"shade"`
	Faces    map[string]Face `json:"faces"`
}

// Rotation rotates an Element about Origin by Angle degrees around
// Axis. Angle must be one of the values in ValidAngles; Rescale is
// parsed but never applied (spec open question).
type Rotation struct {
	Origin  [3]float32 `json:"origin"`
	Angle   float32    `json:"angle"`
	Axis    string     `json:"axis"`
	Rescale bool       `json:"rescale"`
}

// ValidAngles enumerates the angles Minecraft element rotations allow.
var ValidAngles = [5]float32{-45, -22.5, 0, 22.5, 45}

// ValidAngle reports whether angle is one of the five values
// Minecraft element rotations permit.
func ValidAngle(angle float32) bool {
	for _, a := range ValidAngles {
		if a == angle {
			return true
		}
	}
	return false
}

// FaceDirections lists the six face keys a Faces map may use, in the
// canonical order the mesh builder emits triangles.
var FaceDirections = [6]string{"down", "up", "north", "south", "west", "east"}

// Face is one textured quad of an Element, in the direction it's
// keyed under in Element.Faces.
type Face struct {
	UV        [4]float32 `json:"uv"`
	Texture   string     `json:"texture"`
	CullFace  string     `json:"cullface"`
	Rotation  int        `json:"rotation"`
	TintIndex *int       `json:"tintindex"`
}

// HasExplicitUV reports whether the face declared a UV rect, as
// opposed to requiring the auto-UV formula from spec §6.
func (f Face) HasExplicitUV() bool {
	return f.UV != [4]float32{}
}

type Display struct {
	Rotation    [3]float32 `json:"rotation"`
	Translation [3]float32 `json:"translation"`
	Scale       [3]float32 `json:"scale"`
}

type Override struct {
	Predicate map[string]float32 `json:"predicate"`
	Model     string             `json:"model"`
}

// BlockState defines the blockstate JSON structure. It maps variants of a block to their corresponding models.
type BlockState struct {
	// Variants is a map of variant names to a list of models.
	Variants map[string]BlockStateVariants `json:"variants"`
}

// BlockStateVariants is a custom type to handle the fact that the "variants" field can contain either a single object or an array of objects.
type BlockStateVariants []Variant

func (v *BlockStateVariants) UnmarshalJSON(data []byte) error {
	// First, try to unmarshal as an array
	var variants []Variant
	if err := json.Unmarshal(data, &variants); err == nil {
		*v = variants
		return nil
	}

	// If that fails, try to unmarshal as a single object
	var singleVariant Variant
	if err := json.Unmarshal(data, &singleVariant); err != nil {
		return err
	}

	*v = []Variant{singleVariant}
	return nil
}

type Variant struct {
	Model string `json:"model"`
}
