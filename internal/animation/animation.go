// Package animation implements the Animation Orchestrator: given the
// AnimationMeta of every texture bound to a model, produces a lazy,
// finite, restartable sequence of composite frames, each naming the
// active per-texture frame index and a duration running until the
// next discontinuity across any source animation.
package animation

import (
	"sort"

	"mcrender/internal/texture"
)

// msPerTick is Minecraft's tick-to-millisecond conversion (20 ticks/s).
const msPerTick = 50

// Timeline binds a resource id to its (possibly nil) animation
// metadata.
type Timeline struct {
	ResourceID string
	Meta       *texture.AnimationMeta
}

// CompositeFrame names the active frame index per animated texture and
// how long, in milliseconds, that combination holds before the next
// discontinuity.
type CompositeFrame struct {
	FrameIndex map[string]int
	DurationMS int
}

// Sequencer produces the composite frame timeline for one model's
// bound textures. It is lazy (frames are computed once at
// construction, not per source pixel), finite (covers exactly one
// loop), and restartable via Reset.
type Sequencer struct {
	timelines []Timeline
	frames    []CompositeFrame
	cursor    int
}

// NewSequencer computes the full composite-frame timeline for
// timelines. When none of them animate, the result is a single frame
// with a placeholder duration (there is no "forever" duration in the
// Frame data model, which requires duration>=50ms).
func NewSequencer(timelines []Timeline) *Sequencer {
	s := &Sequencer{timelines: timelines}
	s.frames = buildFrames(timelines)
	return s
}

// Next returns the next composite frame and advances the cursor,
// wrapping to the start after the last frame (the sequence is an
// infinite loop of a finite frame list).
func (s *Sequencer) Next() CompositeFrame {
	f := s.frames[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.frames)
	return f
}

// Reset rewinds the sequencer to its first frame.
func (s *Sequencer) Reset() {
	s.cursor = 0
}

// Frames returns the full, finite frame list for one loop.
func (s *Sequencer) Frames() []CompositeFrame {
	return s.frames
}

// LoopDurationMS returns the total duration of one full loop.
func (s *Sequencer) LoopDurationMS() int {
	total := 0
	for _, f := range s.frames {
		total += f.DurationMS
	}
	return total
}

const staticPlaceholderDurationMS = 1000

func buildFrames(timelines []Timeline) []CompositeFrame {
	totals := make(map[string]int, len(timelines))
	var animated []Timeline
	for _, tl := range timelines {
		if tl.Meta == nil || len(tl.Meta.Frames) == 0 {
			continue
		}
		total := tl.Meta.TotalDurationTicks() * msPerTick
		if total <= 0 {
			continue
		}
		totals[tl.ResourceID] = total
		animated = append(animated, tl)
	}

	if len(animated) == 0 {
		frame := CompositeFrame{FrameIndex: map[string]int{}, DurationMS: staticPlaceholderDurationMS}
		for _, tl := range timelines {
			frame.FrameIndex[tl.ResourceID] = 0
		}
		return []CompositeFrame{frame}
	}

	loop := 1
	for _, total := range totals {
		loop = lcm(loop, total)
	}

	boundarySet := map[int]bool{0: true}
	for _, tl := range animated {
		total := totals[tl.ResourceID]
		reps := loop / total
		for rep := 0; rep < reps; rep++ {
			cum := rep * total
			for _, f := range tl.Meta.Frames {
				boundarySet[cum] = true
				cum += f.Duration * msPerTick
			}
		}
	}

	boundaries := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		boundaries = append(boundaries, b)
	}
	sort.Ints(boundaries)

	frames := make([]CompositeFrame, 0, len(boundaries))
	for i, start := range boundaries {
		end := loop
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		}
		indices := make(map[string]int, len(timelines))
		for _, tl := range timelines {
			indices[tl.ResourceID] = activeFrameIndex(tl.Meta, start)
		}
		frames = append(frames, CompositeFrame{FrameIndex: indices, DurationMS: end - start})
	}
	return frames
}

// activeFrameIndex returns the frame index meta shows at time t (ms)
// into its own repeating cycle; a nil or static meta is always 0.
func activeFrameIndex(meta *texture.AnimationMeta, t int) int {
	if meta == nil || len(meta.Frames) == 0 {
		return 0
	}
	total := meta.TotalDurationTicks() * msPerTick
	if total <= 0 {
		return meta.Frames[0].Index
	}
	tt := t % total
	cum := 0
	for _, f := range meta.Frames {
		d := f.Duration * msPerTick
		if tt < cum+d {
			return f.Index
		}
		cum += d
	}
	return meta.Frames[len(meta.Frames)-1].Index
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}
