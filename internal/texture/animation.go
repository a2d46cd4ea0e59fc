package texture

import (
	"encoding/json"
	"fmt"
	"os"
)

// AnimationFrame is one entry of an animated texture's frame table.
type AnimationFrame struct {
	Index    int
	Duration int // in ticks, 1 tick = 50ms
}

// AnimationMeta describes how to cycle a texture's horizontal strips
// (stacked frames of FrameHeight rows each) over time.
type AnimationMeta struct {
	FrameHeight int
	Frames      []AnimationFrame
	Interpolate bool
}

// mcmetaFile mirrors Minecraft's ".mcmeta" sidecar JSON shape.
type mcmetaFile struct {
	Animation struct {
		FrameTime   int   `json:"frametime"`
		Interpolate bool  `json:"interpolate"`
		Frames      []any `json:"frames"`
		Width       int   `json:"width"`
		Height      int   `json:"height"`
	} `json:"animation"`
}

func loadAnimationMeta(path string) (*AnimationMeta, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var raw mcmetaFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	defaultDuration := raw.Animation.FrameTime
	if defaultDuration <= 0 {
		defaultDuration = 1
	}

	meta := &AnimationMeta{Interpolate: raw.Animation.Interpolate}
	if len(raw.Animation.Frames) == 0 {
		return nil, false
	}
	for _, f := range raw.Animation.Frames {
		switch v := f.(type) {
		case float64:
			meta.Frames = append(meta.Frames, AnimationFrame{Index: int(v), Duration: defaultDuration})
		case map[string]any:
			idx, _ := v["index"].(float64)
			dur := defaultDuration
			if d, ok := v["time"].(float64); ok && d > 0 {
				dur = int(d)
			}
			meta.Frames = append(meta.Frames, AnimationFrame{Index: int(idx), Duration: dur})
		}
	}
	if len(meta.Frames) == 0 {
		return nil, false
	}
	return meta, true
}

// Validate checks the frame-height-divides-image-height and
// frame-indices-are-valid invariants given the parent texture's
// dimensions. The frame height is inferred as height/frameCount, where
// frameCount is the highest frame index plus one, falling back to
// square frames (frame height = width) when that does not divide the
// image height. The mcmeta's own width/height fields are not consulted.
func (m *AnimationMeta) Validate(width, height int) error {
	maxIndex := 0
	for _, f := range m.Frames {
		if f.Index > maxIndex {
			maxIndex = f.Index
		}
		if f.Duration < 1 {
			return fmt.Errorf("frame duration must be >=1 tick, got %d", f.Duration)
		}
	}

	frameCount := maxIndex + 1
	if width <= 0 || height%frameCount != 0 {
		// Fall back to treating the texture as square frames, the
		// common case for vanilla animated block textures.
		frameCount = height / width
		if frameCount <= 0 || height%width != 0 {
			return fmt.Errorf("frame height does not divide image height")
		}
		m.FrameHeight = width
	} else {
		m.FrameHeight = height / frameCount
	}

	for _, f := range m.Frames {
		if f.Index < 0 || f.Index*m.FrameHeight >= height {
			return fmt.Errorf("frame index %d out of range", f.Index)
		}
	}
	return nil
}

// TotalDurationTicks sums the animation's frame durations.
func (m *AnimationMeta) TotalDurationTicks() int {
	total := 0
	for _, f := range m.Frames {
		total += f.Duration
	}
	return total
}
