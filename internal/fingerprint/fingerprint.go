// Package fingerprint implements the Resource Fingerprinter: combining
// a model path, its resolved textures, tints, selection-relevant
// custom data, and the active pack stack into a stable resource id.
//
// Stable JSON relies on encoding/json's built-in sorted-map-key
// marshaling rather than a third-party canonical-JSON library — see
// DESIGN.md's standard-library justification for this package.
package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"mcrender/internal/itemdata"
	"mcrender/internal/nbt"
)

// PackEntry is one pack's identity, in priority order, for hashing.
type PackEntry struct {
	ID      string
	Version string
}

// packHashPrefixLen bounds the SHA-1 hex digest to a short, still
// collision-resistant-enough-for-caching prefix.
const packHashPrefixLen = 12

// PackStackHash hashes entries (already in priority order) into a
// short SHA-1 prefix, or "vanilla" for an empty stack.
func PackStackHash(entries []PackEntry) string {
	if len(entries) == 0 {
		return "vanilla"
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.ID + ":" + e.Version
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	hexSum := hex.EncodeToString(sum[:])
	if len(hexSum) > packHashPrefixLen {
		return hexSum[:packHashPrefixLen]
	}
	return hexSum
}

// ResourceID is the fingerprinter's output.
type ResourceID struct {
	Canonical     string
	PackStackHash string
	ModelPath     string
	Textures      []string
}

// Input collects everything the canonical string needs.
type Input struct {
	ItemID        string
	ModelPath     string
	TextureIDs    []string
	Tints         map[int]itemdata.Tint
	CustomData    nbt.Compound
	ConsultedKeys map[string]bool
	PackStack     []PackEntry
}

// Compute builds the canonical string and pack-stack hash for in.
func Compute(in Input) (ResourceID, error) {
	packHash := PackStackHash(in.PackStack)

	textures := append([]string(nil), in.TextureIDs...)
	sort.Strings(textures)

	tintPart, err := tintsString(in.Tints)
	if err != nil {
		return ResourceID{}, err
	}

	customJSON, err := stableCustomData(in.CustomData, in.ConsultedKeys)
	if err != nil {
		return ResourceID{}, fmt.Errorf("fingerprint: stable customdata json: %w", err)
	}

	canonical := fmt.Sprintf(
		"%s|model=%s|tex=%s|tints=%s|customdata=%s|pack=%s",
		in.ItemID, in.ModelPath, strings.Join(textures, ","), tintPart, customJSON, packHash,
	)

	return ResourceID{
		Canonical:     canonical,
		PackStackHash: packHash,
		ModelPath:     in.ModelPath,
		Textures:      textures,
	}, nil
}

func tintsString(tints map[int]itemdata.Tint) (string, error) {
	if len(tints) == 0 {
		return "", nil
	}
	indices := make([]int, 0, len(tints))
	for idx := range tints {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	parts := make([]string, len(indices))
	for i, idx := range indices {
		t := tints[idx]
		parts[i] = fmt.Sprintf("layer%d:%s", idx, tintHex(t))
	}
	return strings.Join(parts, ","), nil
}

func tintHex(t itemdata.Tint) string {
	to8 := func(v float64) int {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return int(v*255 + 0.5)
	}
	return fmt.Sprintf("%02x%02x%02x", to8(t.R), to8(t.G), to8(t.B))
}

// stableCustomData marshals only the consulted keys of data, using
// encoding/json's sorted-map-key output for determinism, per spec
// §4.9's "only item-data fields that actually influenced selection".
func stableCustomData(data nbt.Compound, consulted map[string]bool) (string, error) {
	if len(consulted) == 0 || len(data) == 0 {
		return "{}", nil
	}
	filtered := make(map[string]interface{}, len(consulted))
	for key := range consulted {
		if tag, ok := data[key]; ok {
			filtered[key] = tagToJSON(tag)
		}
	}
	out, err := json.Marshal(filtered)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func tagToJSON(t nbt.Tag) interface{} {
	switch t.Kind {
	case nbt.KindByte:
		return t.Byte
	case nbt.KindShort:
		return t.Short
	case nbt.KindInt:
		return t.Int
	case nbt.KindLong:
		return t.Long
	case nbt.KindFloat:
		return t.Float
	case nbt.KindDouble:
		return t.Double
	case nbt.KindString:
		return t.Str
	case nbt.KindByteArray:
		return t.ByteArray
	case nbt.KindIntArray:
		return t.IntArray
	case nbt.KindLongArray:
		return t.LongArray
	case nbt.KindList:
		items := make([]interface{}, len(t.List))
		for i, e := range t.List {
			items[i] = tagToJSON(e)
		}
		return items
	case nbt.KindCompound:
		m := make(map[string]interface{}, len(t.Compound))
		for k, v := range t.Compound {
			m[k] = tagToJSON(v)
		}
		return m
	}
	return nil
}
