// Package skull implements the Skull Renderer: projecting a 64x64 (or
// 64x32 legacy) player-skin image onto a cube with Minecraft's
// canonical head UV layout, plus resolving a skin from a profile's
// textures URL.
//
// The per-face UV rectangle layout is adapted from the teacher's
// internal/graphics/renderables/playermodel.addBox, which lays out a
// box's six faces left-to-right along a 64-wide skin strip; here it's
// specialized to the 8x8x8 head region only and driven off an
// Element's From/To rather than hardcoded pixel offsets, so it also
// serves the slightly-enlarged hat layer.
package skull

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"mcrender/internal/logging"
	"mcrender/pkg/blockmodel"
)

// HatLayerScale enlarges the hat-layer cube relative to the base head,
// per spec §4.5 ("+12.5%").
const HatLayerScale = 1.125

// Rotation is a yaw/pitch/roll triple in degrees.
type Rotation struct{ Yaw, Pitch, Roll float64 }

// BuildHeadElements returns the base-head element and, when
// includeHat is true, the enlarged hat-layer element, both with faces
// referencing the given skin texture resource id via the canonical
// head UV rectangles.
func BuildHeadElements(skinResourceID string, includeHat bool) []blockmodel.Element {
	elements := []blockmodel.Element{headElement(skinResourceID, 0, 0, 0, 8, false)}
	if includeHat {
		// Centered enlargement: grow symmetrically about the head's
		// center so the hat layer encloses the base head.
		grown := 8 * HatLayerScale
		offset := (grown - 8) / 2
		elements = append(elements, headElement(skinResourceID, -offset, -offset, -offset, grown, true))
	}
	return elements
}

func headElement(skinResourceID string, ox, oy, oz, size float64, isHatLayer bool) blockmodel.Element {
	from := [3]float32{float32(4 + ox), float32(4 + oy), float32(4 + oz)}
	to := [3]float32{float32(4+ox) + float32(size), float32(4+oy) + float32(size), float32(4+oz) + float32(size)}

	faces := map[string]blockmodel.Face{}
	uvOffset := 0
	if isHatLayer {
		uvOffset = 32 // hat layer lives in the skin's second UV row
	}
	for dir, uv := range headUVRects(uvOffset) {
		// headUVRects is in 64px skin space; face UVs are in [0,16] units.
		faces[dir] = blockmodel.Face{Texture: skinResourceID, UV: [4]float32{uv[0] / 4, uv[1] / 4, uv[2] / 4, uv[3] / 4}}
	}
	return blockmodel.Element{From: from, To: to, Faces: faces}
}

// headUVRects returns the canonical 8x8 head UV rectangle per face,
// in 0..64 pixel space, offset vertically by rowOffset (0 for the base
// layer, 32 for the hat overlay layer).
func headUVRects(rowOffset int) map[string][4]float32 {
	o := float32(rowOffset)
	return map[string][4]float32{
		"up":    {8, o + 0, 16, o + 8},
		"down":  {16, o + 0, 24, o + 8},
		"north": {8, o + 8, 16, o + 16}, // front
		"south": {24, o + 8, 32, o + 16},
		"west":  {0, o + 8, 8, o + 16},
		"east":  {16, o + 8, 24, o + 16},
	}
}

// Resolver fetches and caches player skins by URL, single-flighting
// concurrent requests for the same key (spec §5: "guarded by a
// per-key single-flight map to prevent duplicate downloads").
type Resolver struct {
	client *http.Client
	log    *logging.Logger

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]*image.RGBA

	// Fetch overrides the HTTP fetch for tests/offline use; when nil,
	// Resolver.client is used.
	Fetch func(ctx context.Context, url string) ([]byte, error)
}

// NewResolver creates a skin resolver with a 5-second HTTP timeout.
func NewResolver(log *logging.Logger) *Resolver {
	if log == nil {
		log = logging.Discard()
	}
	return &Resolver{
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log,
		cache:  make(map[string]*image.RGBA),
	}
}

// Resolve fetches (or returns from cache) the skin at url. On any
// failure it logs a warning and returns the default Steve skin,
// matching the SkinDecodeError disposition in spec §7 (never fatal).
func (r *Resolver) Resolve(ctx context.Context, url string) (*image.RGBA, bool) {
	if url == "" {
		return DefaultSteveSkin(), false
	}

	r.mu.RLock()
	if img, ok := r.cache[url]; ok {
		r.mu.RUnlock()
		return img, true
	}
	r.mu.RUnlock()

	result, err, _ := r.group.Do(url, func() (interface{}, error) {
		data, err := r.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return toRGBA(img), nil
	})
	if err != nil {
		r.log.Warnf("skin decode error for %s, substituting default skin: %v", url, err)
		return DefaultSteveSkin(), false
	}

	rgba := result.(*image.RGBA)
	r.mu.Lock()
	r.cache[url] = rgba
	r.mu.Unlock()
	return rgba, true
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	if r.Fetch != nil {
		return r.Fetch(ctx, url)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching skin", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

var (
	steveOnce sync.Once
	steveSkin *image.RGBA
)

// DefaultSteveSkin returns a flat skin-tone 64x64 placeholder used
// whenever no profile is present or skin decoding fails.
func DefaultSteveSkin() *image.RGBA {
	steveOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 64, 64))
		skinTone := color.RGBA{R: 0xC6, G: 0x8F, B: 0x66, A: 0xFF}
		for y := 0; y < 64; y++ {
			for x := 0; x < 64; x++ {
				img.SetRGBA(x, y, skinTone)
			}
		}
		steveSkin = img
	})
	return steveSkin
}
