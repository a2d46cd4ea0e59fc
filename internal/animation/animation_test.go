package animation

import (
	"reflect"
	"testing"

	"mcrender/internal/texture"
)

func meta(frames ...texture.AnimationFrame) *texture.AnimationMeta {
	return &texture.AnimationMeta{Frames: frames}
}

func TestStaticTexturesYieldSingleFrame(t *testing.T) {
	seq := NewSequencer([]Timeline{{ResourceID: "minecraft:block/stone"}})
	frames := seq.Frames()
	if len(frames) != 1 {
		t.Fatalf("expected exactly one frame for static textures, got %d", len(frames))
	}
	if frames[0].DurationMS < 50 {
		t.Errorf("frame duration must satisfy the >=50ms invariant, got %d", frames[0].DurationMS)
	}
}

func TestSingleAnimatedTextureProducesOneFramePerEntry(t *testing.T) {
	m := meta(
		texture.AnimationFrame{Index: 0, Duration: 2},
		texture.AnimationFrame{Index: 1, Duration: 2},
	)
	seq := NewSequencer([]Timeline{{ResourceID: "minecraft:block/lava_flow", Meta: m}})
	frames := seq.Frames()
	if len(frames) != 2 {
		t.Fatalf("expected 2 composite frames, got %d", len(frames))
	}
	if frames[0].DurationMS != 100 || frames[1].DurationMS != 100 {
		t.Errorf("expected 2-tick (100ms) frames, got %v", frames)
	}
	if frames[0].FrameIndex["minecraft:block/lava_flow"] != 0 {
		t.Errorf("expected frame 0 active first")
	}
	if frames[1].FrameIndex["minecraft:block/lava_flow"] != 1 {
		t.Errorf("expected frame 1 active second")
	}
}

func TestLoopDurationIsLCMOfTotals(t *testing.T) {
	a := meta(texture.AnimationFrame{Index: 0, Duration: 2}, texture.AnimationFrame{Index: 1, Duration: 2}) // total 4 ticks
	b := meta(texture.AnimationFrame{Index: 0, Duration: 3})                                                // total 3 ticks
	seq := NewSequencer([]Timeline{
		{ResourceID: "a", Meta: a},
		{ResourceID: "b", Meta: b},
	})
	// lcm(4,3) = 12 ticks = 600ms
	if got := seq.LoopDurationMS(); got != 600 {
		t.Errorf("expected loop duration 600ms, got %d", got)
	}
}

func TestSequencerIsRestartable(t *testing.T) {
	m := meta(texture.AnimationFrame{Index: 0, Duration: 1}, texture.AnimationFrame{Index: 1, Duration: 1})
	seq := NewSequencer([]Timeline{{ResourceID: "x", Meta: m}})
	first := seq.Next()
	seq.Next()
	seq.Reset()
	again := seq.Next()
	if again.DurationMS != first.DurationMS || !reflect.DeepEqual(again.FrameIndex, first.FrameIndex) {
		t.Errorf("expected Reset to rewind to the first frame, got %v vs %v", first, again)
	}
}

func TestSequencerLoopsForever(t *testing.T) {
	m := meta(texture.AnimationFrame{Index: 0, Duration: 1}, texture.AnimationFrame{Index: 1, Duration: 1})
	seq := NewSequencer([]Timeline{{ResourceID: "x", Meta: m}})
	seq.Next()
	seq.Next()
	third := seq.Next()
	if third.FrameIndex["x"] != 0 {
		t.Errorf("expected the sequence to wrap back to frame 0, got %d", third.FrameIndex["x"])
	}
}

func TestMixedAnimatedAndStaticTexturesBothAppearInEveryFrame(t *testing.T) {
	animated := meta(texture.AnimationFrame{Index: 0, Duration: 1}, texture.AnimationFrame{Index: 1, Duration: 1})
	seq := NewSequencer([]Timeline{
		{ResourceID: "animated", Meta: animated},
		{ResourceID: "static"},
	})
	for _, f := range seq.Frames() {
		if _, ok := f.FrameIndex["static"]; !ok {
			t.Errorf("expected static texture to appear in every composite frame")
		}
		if f.FrameIndex["static"] != 0 {
			t.Errorf("static texture should always report frame index 0")
		}
	}
}
