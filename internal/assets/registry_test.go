package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path, contents string) {
	t.Helper()
	mustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestResolvePrefersLastAddedRootForANamespace(t *testing.T) {
	vanilla := t.TempDir()
	override := t.TempDir()
	mustWriteFile(t, filepath.Join(vanilla, "textures/item/stick.png"), "vanilla")
	mustWriteFile(t, filepath.Join(override, "textures/item/stick.png"), "override")

	r := New(nil)
	defer r.Close()
	if err := r.Add("minecraft", vanilla, "vanilla", true); err != nil {
		t.Fatalf("Add vanilla: %v", err)
	}
	if err := r.Add("minecraft", override, "pack1", false); err != nil {
		t.Fatalf("Add override: %v", err)
	}

	got, ok := r.Resolve("minecraft", "textures/item/stick.png")
	if !ok {
		t.Fatalf("expected a resolved path")
	}
	if got != filepath.Join(override, "textures/item/stick.png") {
		t.Errorf("expected the override root to win, got %s", got)
	}
}

func TestResolveFallsBackToMinecraftWhenNamespaceHasNoRoots(t *testing.T) {
	vanilla := t.TempDir()
	mustWriteFile(t, filepath.Join(vanilla, "textures/item/stick.png"), "vanilla")

	r := New(nil)
	defer r.Close()
	if err := r.Add("minecraft", vanilla, "vanilla", true); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, ok := r.Resolve("customns", "textures/item/stick.png")
	if !ok || got != filepath.Join(vanilla, "textures/item/stick.png") {
		t.Errorf("expected fallback to the minecraft root, got %s ok=%v", got, ok)
	}
}

func TestResolveMissingFileReturnsFalse(t *testing.T) {
	vanilla := t.TempDir()
	mustMkdirAll(t, vanilla)

	r := New(nil)
	defer r.Close()
	if err := r.Add("minecraft", vanilla, "vanilla", true); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, ok := r.Resolve("minecraft", "textures/item/does_not_exist.png"); ok {
		t.Errorf("expected Resolve to report false for a missing file")
	}
}

func TestSplitResourceIDDefaultsNamespaceToMinecraft(t *testing.T) {
	ns, path := SplitResourceID("stick")
	if ns != "minecraft" || path != "stick" {
		t.Errorf("expected (minecraft, stick), got (%s, %s)", ns, path)
	}
	ns, path = SplitResourceID("custom:stick")
	if ns != "custom" || path != "stick" {
		t.Errorf("expected (custom, stick), got (%s, %s)", ns, path)
	}
}

func TestMatchChangedPathMapsAbsolutePathBackToNamespaceAndRelativePath(t *testing.T) {
	vanilla := t.TempDir()
	mustWriteFile(t, filepath.Join(vanilla, "textures/item/stick.png"), "vanilla")

	r := New(nil)
	defer r.Close()
	if err := r.Add("minecraft", vanilla, "vanilla", true); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ns, rel, _, ok := r.matchChangedPath(filepath.Join(vanilla, "textures/item/stick.png"))
	if !ok || ns != "minecraft" || rel != "textures/item/stick.png" {
		t.Errorf("expected (minecraft, textures/item/stick.png, true), got (%s, %s, %v)", ns, rel, ok)
	}
}

func TestMatchChangedPathOutsideAnyRootReportsFalse(t *testing.T) {
	vanilla := t.TempDir()
	mustMkdirAll(t, vanilla)

	r := New(nil)
	defer r.Close()
	if err := r.Add("minecraft", vanilla, "vanilla", true); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, _, _, ok := r.matchChangedPath(filepath.Join(t.TempDir(), "unrelated.png")); ok {
		t.Errorf("expected a path outside every root to not match")
	}
}

func TestNotifyChangeDispatchesToEveryRegisteredListener(t *testing.T) {
	vanilla := t.TempDir()
	mustWriteFile(t, filepath.Join(vanilla, "textures/item/stick.png"), "vanilla")

	r := New(nil)
	defer r.Close()
	if err := r.Add("minecraft", vanilla, "vanilla", true); err != nil {
		t.Fatalf("Add: %v", err)
	}

	var gotA, gotB struct{ ns, rel string }
	r.OnChange(func(ns, rel string) { gotA.ns, gotA.rel = ns, rel })
	r.OnChange(func(ns, rel string) { gotB.ns, gotB.rel = ns, rel })

	r.notifyChange(filepath.Join(vanilla, "textures/item/stick.png"))

	if gotA.ns != "minecraft" || gotA.rel != "textures/item/stick.png" {
		t.Errorf("listener A did not receive the change, got %+v", gotA)
	}
	if gotB.ns != "minecraft" || gotB.rel != "textures/item/stick.png" {
		t.Errorf("listener B did not receive the change, got %+v", gotB)
	}
}

func TestNotifyChangeForUnmatchedPathCallsNoListener(t *testing.T) {
	vanilla := t.TempDir()
	mustMkdirAll(t, vanilla)

	r := New(nil)
	defer r.Close()
	if err := r.Add("minecraft", vanilla, "vanilla", true); err != nil {
		t.Fatalf("Add: %v", err)
	}

	called := false
	r.OnChange(func(ns, rel string) { called = true })
	r.notifyChange(filepath.Join(t.TempDir(), "unrelated.png"))
	if called {
		t.Errorf("expected no listener call for a path outside every registered root")
	}
}
