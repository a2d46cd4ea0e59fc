// Package assets implements the Asset Namespace Registry: a
// deterministic, priority-ordered lookup of asset files across the
// vanilla tree, custom-data overlays, and registered texture packs.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"mcrender/internal/logging"
)

// NamespaceRoot is one (namespace, directory) priority entry.
type NamespaceRoot struct {
	Namespace string
	Path      string
	SourceID  string
	IsVanilla bool
}

// ChangeListener is notified when a watched file under a registered
// namespace root changes. namespace and relativePath match the shape
// callers pass to Resolve (e.g. "minecraft", "textures/item/foo.png").
type ChangeListener func(namespace, relativePath string)

// Registry holds the ordered roots per namespace. Vanilla roots are
// inserted first; every later Add appends. Registry is safe for
// concurrent reads; Add/OnChange take a write lock.
type Registry struct {
	mu    sync.RWMutex
	roots map[string][]NamespaceRoot

	watcher      *fsnotify.Watcher
	watchers     map[string]struct{}
	packVersions map[string]string
	listeners    []ChangeListener
	log          *logging.Logger
}

// New creates an empty registry. log may be nil, in which case a
// discarding logger is used.
func New(log *logging.Logger) *Registry {
	if log == nil {
		log = logging.Discard()
	}
	return &Registry{
		roots:        make(map[string][]NamespaceRoot),
		watchers:     make(map[string]struct{}),
		packVersions: make(map[string]string),
		log:          log,
	}
}

// OnChange registers fn to be called for every filesystem change
// detected under a watched namespace root. Callers (the texture
// repository, the model resolver) use this to evict their own caches;
// the registry itself caches nothing beyond the root list.
func (r *Registry) OnChange(fn ChangeListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Add registers a namespace root. Vanilla roots should be added
// before any overlay/pack roots for the same namespace so that the
// override-first/fallback-first ordering contract holds.
func (r *Registry) Add(namespace, path, sourceID string, isVanilla bool) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("asset root does not exist: %s", path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots[namespace] = append(r.roots[namespace], NamespaceRoot{
		Namespace: namespace,
		Path:      path,
		SourceID:  sourceID,
		IsVanilla: isVanilla,
	})

	r.watchDirLocked(path)
	return nil
}

// ResolveRoots returns the roots registered for a namespace, falling
// back to "minecraft" roots when none are registered and
// fallbackToMinecraft is set.
func (r *Registry) ResolveRoots(namespace string, fallbackToMinecraft bool) []NamespaceRoot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roots := r.roots[namespace]
	if len(roots) == 0 && fallbackToMinecraft && namespace != "minecraft" {
		roots = r.roots["minecraft"]
	}
	out := make([]NamespaceRoot, len(roots))
	copy(out, roots)
	return out
}

// EnumerateCandidates returns every absolute path that could hold
// relativePath in namespace, ordered by priority. preferOverrides
// iterates tail-first (highest-priority overlay first); otherwise the
// vanilla root comes first.
func (r *Registry) EnumerateCandidates(namespace, relativePath string, preferOverrides bool) []string {
	roots := r.ResolveRoots(namespace, true)
	if preferOverrides {
		reversed := make([]NamespaceRoot, len(roots))
		for i, root := range roots {
			reversed[len(roots)-1-i] = root
		}
		roots = reversed
	}

	out := make([]string, 0, len(roots))
	for _, root := range roots {
		out = append(out, filepath.Join(root.Path, relativePath))
	}
	return out
}

// Resolve finds the first existing file for relativePath under
// namespace, override-first. Returns ("", false) if none exist.
func (r *Registry) Resolve(namespace, relativePath string) (string, bool) {
	for _, candidate := range r.EnumerateCandidates(namespace, relativePath, true) {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// SplitResourceID splits "namespace:path" into its parts, defaulting
// the namespace to "minecraft" when omitted.
func SplitResourceID(id string) (namespace, path string) {
	if idx := strings.IndexByte(id, ':'); idx >= 0 {
		return id[:idx], id[idx+1:]
	}
	return "minecraft", id
}

// watchDirLocked watches root and every directory below it at the time
// of the call; directories created later are not watched.
func (r *Registry) watchDirLocked(root string) {
	if r.watcher == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			r.log.Warnf("asset watch disabled: %v", err)
			return
		}
		r.watcher = w
		go r.watchLoop()
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if _, already := r.watchers[path]; already {
			return nil
		}
		if err := r.watcher.Add(path); err != nil {
			r.log.Warnf("could not watch asset dir %s: %v", path, err)
			return nil
		}
		r.watchers[path] = struct{}{}
		return nil
	})
}

func (r *Registry) watchLoop() {
	for {
		select {
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			r.log.Debugf("asset change detected: %s", ev.Name)
			r.notifyChange(ev.Name)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.Warnf("asset watcher error: %v", err)
		}
	}
}

// notifyChange maps an absolute changed path back to the namespace
// root it falls under and dispatches (namespace, relativePath) to
// every registered ChangeListener.
func (r *Registry) notifyChange(absPath string) {
	ns, relPath, listeners, ok := r.matchChangedPath(absPath)
	if !ok {
		return
	}
	for _, fn := range listeners {
		fn(ns, relPath)
	}
}

func (r *Registry) matchChangedPath(absPath string) (namespace, relPath string, listeners []ChangeListener, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for ns, roots := range r.roots {
		for _, root := range roots {
			rel, err := filepath.Rel(root.Path, absPath)
			if err != nil || strings.HasPrefix(rel, "..") {
				continue
			}
			return ns, filepath.ToSlash(rel), r.listeners, true
		}
	}
	return "", "", nil, false
}

// Close stops the filesystem watcher, if one was started.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}
