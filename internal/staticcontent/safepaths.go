package staticcontent

import (
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/siteframe/internal/domain"
)

// SafePaths is the set of trusted root directories files may be served from.
//
// Entries are cleaned on insert. Relative entries stay relative and are
// resolved against the application base directory on every check, so the
// same registry works for any base directory handed to a resolver.
//
// Reads never lock: they load an immutable snapshot. Add copies the current
// snapshot, appends, and publishes the copy, so readers always observe a
// consistent list even when roots are added after start-up.
type SafePaths struct {
	mu    sync.Mutex // serialises writers
	roots atomic.Pointer[[]string]
}

// NewSafePaths creates a registry seeded with roots
func NewSafePaths(roots ...string) (*SafePaths, error) {
	s := &SafePaths{}
	empty := []string{}
	s.roots.Store(&empty)

	for _, root := range roots {
		if err := s.Add(root); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add registers a trusted root. Filesystem roots are refused because trusting
// them would trust everything.
func (s *SafePaths) Add(root string) error {
	if strings.TrimSpace(root) == "" {
		return domain.WrapUnsafeRoot("<empty>", nil)
	}
	if strings.ContainsRune(root, 0) {
		return domain.WrapUnsafeRoot("<contains NUL>", nil)
	}

	clean := filepath.Clean(root)
	if filepath.IsAbs(clean) && isFilesystemRoot(clean) {
		return domain.WrapUnsafeRoot(clean, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := *s.roots.Load()
	for _, existing := range current {
		if existing == clean {
			return nil
		}
	}

	next := make([]string, len(current), len(current)+1)
	copy(next, current)
	next = append(next, clean)
	s.roots.Store(&next)

	return nil
}

// Roots returns a copy of the registered roots in insertion order
func (s *SafePaths) Roots() []string {
	current := *s.roots.Load()
	out := make([]string, len(current))
	copy(out, current)
	return out
}

// Len returns the number of registered roots
func (s *SafePaths) Len() int {
	return len(*s.roots.Load())
}

// Contains reports whether path lies inside at least one trusted root.
// path must already be absolute and clean. A relative root that resolves to
// a filesystem root is skipped.
func (s *SafePaths) Contains(path, baseDir string) bool {
	for _, root := range *s.roots.Load() {
		resolved, err := resolveAgainst(root, baseDir)
		if err != nil || isFilesystemRoot(resolved) {
			continue
		}
		if within(resolved, path) {
			return true
		}
	}
	return false
}

// resolveAgainst returns an absolute, clean form of path, joining relative
// paths onto baseDir first.
func resolveAgainst(path, baseDir string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return filepath.Abs(path)
}

// within reports whether path equals root or sits below it. Both must be
// absolute and clean. The check works on whole segments so "/safe-evil" is
// not inside "/safe".
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}

func isFilesystemRoot(path string) bool {
	return filepath.Dir(path) == path
}
