// Package itemdata translates the NBT item compound shape described
// in spec §6 into the renderer's internal ItemRenderData, including
// the legacy 1.8.9 ExtraAttributes lift.
package itemdata

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"mcrender/internal/nbt"
)

// Tint is an RGB triple in [0,1], as spec §3 requires for
// ItemRenderData.Tints.
type Tint struct{ R, G, B float64 }

// SkullProfile is the decoded "minecraft:profile" component.
type SkullProfile struct {
	ID        string
	SkinURL   string
	HasTextures bool
}

// RenderData is the flattened per-item rendering input the Item
// Registry and Skull Renderer consume.
type RenderData struct {
	ItemID   string
	Count    int
	Damage   int
	HasDamage bool

	CustomData nbt.Compound
	HasCustomData bool

	Layer0Tint    Tint
	HasLayer0Tint bool

	TintIndexOverrides map[int]Tint

	Profile   *SkullProfile
	DisableDefaultLayer0Tint bool

	// ProfileDecodeFailed records that a "minecraft:profile" component
	// was present but its base64/JSON textures payload could not be
	// decoded. Profile is left nil in that case; callers render with
	// the default skin and surface a SkinDecodeError warning instead of
	// failing the whole render (spec §7).
	ProfileDecodeFailed bool

	// ConsultedKeys records which custom_data keys actually
	// influenced item model selection, for the Resource Fingerprinter
	// (spec §4.9: "Only item-data fields that actually influenced
	// selection ... are included").
	ConsultedKeys map[string]bool
}

// NewRenderData returns an empty RenderData for itemID.
func NewRenderData(itemID string) *RenderData {
	return &RenderData{ItemID: itemID, ConsultedKeys: make(map[string]bool)}
}

// MarkConsulted records that key influenced selection.
func (d *RenderData) MarkConsulted(key string) {
	if d.ConsultedKeys == nil {
		d.ConsultedKeys = make(map[string]bool)
	}
	d.ConsultedKeys[key] = true
}

// FromNBT builds a RenderData from a caller-provided item compound
// matching spec §6's NBT shape, lifting legacy
// tag.ExtraAttributes.id into custom_data.id when custom_data has no
// id of its own.
func FromNBT(item nbt.Compound) (*RenderData, error) {
	id, ok := item.GetString("id")
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid item id: missing or empty")
	}

	data := NewRenderData(id)

	if count, ok := item.GetInt("Count"); ok {
		data.Count = int(count)
	} else {
		data.Count = 1
	}

	components, _ := item.GetCompound("components")

	if customData, ok := components.GetCompound("minecraft:custom_data"); ok {
		data.CustomData = customData
		data.HasCustomData = true
	}

	if legacyTag, ok := item.GetCompound("tag"); ok {
		if extra, ok := legacyTag.GetCompound("ExtraAttributes"); ok {
			if legacyID, ok := extra.GetString("id"); ok {
				if _, has := data.CustomData["id"]; !has {
					if data.CustomData == nil {
						data.CustomData = make(nbt.Compound)
					}
					data.CustomData["id"] = nbt.String(legacyID)
					data.HasCustomData = true
				}
			}
		}
	}

	if dyed, ok := components.GetCompound("minecraft:dyed_color"); ok {
		if rgbInt, ok := dyed.GetInt("rgb"); ok {
			data.Layer0Tint = tintFromRGBInt(int64(rgbInt))
			data.HasLayer0Tint = true
		}
	}

	if dmg, ok := components.GetInt("minecraft:damage"); ok {
		data.Damage = int(dmg)
		data.HasDamage = true
	}

	if profileCompound, ok := components.GetCompound("minecraft:profile"); ok {
		profile, err := decodeProfile(profileCompound)
		if err != nil {
			data.ProfileDecodeFailed = true
		} else {
			data.Profile = profile
		}
	}

	return data, nil
}

func tintFromRGBInt(v int64) Tint {
	r := float64((v>>16)&0xFF) / 255
	g := float64((v>>8)&0xFF) / 255
	b := float64(v&0xFF) / 255
	return Tint{r, g, b}
}

type texturesPayload struct {
	Textures struct {
		Skin struct {
			URL string `json:"url"`
		} `json:"SKIN"`
	} `json:"textures"`
}

// decodeProfile extracts the base64-encoded "textures" property of a
// minecraft:profile component and pulls out the SKIN url.
func decodeProfile(profile nbt.Compound) (*SkullProfile, error) {
	out := &SkullProfile{}
	if id, ok := profile.GetString("id"); ok {
		out.ID = id
	}

	props, ok := profile.GetList("properties")
	if !ok {
		return out, nil
	}

	for _, prop := range props {
		if prop.Kind != nbt.KindCompound {
			continue
		}
		name, _ := prop.Compound.GetString("name")
		if name != "textures" {
			continue
		}
		value, _ := prop.Compound.GetString("value")
		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("profile textures not valid base64: %w", err)
		}
		var payload texturesPayload
		if err := json.Unmarshal(decoded, &payload); err != nil {
			return nil, fmt.Errorf("profile textures not valid json: %w", err)
		}
		if payload.Textures.Skin.URL != "" {
			out.SkinURL = payload.Textures.Skin.URL
			out.HasTextures = true
		}
	}
	return out, nil
}
