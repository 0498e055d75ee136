package domain

import (
	"strings"
)

// ============================================================================
// Value Objects
// ============================================================================

// VirtualPrefix represents a validated URL virtual-directory prefix such as
// "css" or "assets/css". It always holds at least one segment.
type VirtualPrefix struct {
	segments []string
}

// NewVirtualPrefix normalises and validates a virtual directory prefix.
// Backslashes are treated as separators, empty and "." segments are dropped.
func NewVirtualPrefix(prefix string) (*VirtualPrefix, error) {
	if strings.ContainsRune(prefix, 0) {
		return nil, WrapInvalidConvention("virtual prefix contains a NUL byte", nil)
	}

	segments := SplitPath(prefix)
	if len(segments) == 0 {
		// An empty or "/" prefix would turn every URL on the site into a file lookup
		return nil, WrapInvalidConvention("virtual prefix cannot be empty or the site root", nil)
	}

	for _, segment := range segments {
		if segment == ".." {
			return nil, WrapInvalidConvention("virtual prefix cannot contain '..'", nil)
		}
	}

	return &VirtualPrefix{segments: segments}, nil
}

// String returns the prefix in "/a/b" form
func (p *VirtualPrefix) String() string {
	return "/" + strings.Join(p.segments, "/")
}

// Match reports whether path starts with the prefix on segment boundaries and
// returns the remaining raw segments. Comparison is case-insensitive so that
// "/CSS/site.css" is served by a "css" convention.
func (p *VirtualPrefix) Match(path string) ([]string, bool) {
	segments := SplitPath(path)
	if len(segments) < len(p.segments) {
		return nil, false
	}

	for i, segment := range p.segments {
		if !strings.EqualFold(segment, segments[i]) {
			return nil, false
		}
	}

	return segments[len(p.segments):], true
}

// Equals checks if two prefixes name the same virtual directory
func (p *VirtualPrefix) Equals(other *VirtualPrefix) bool {
	if other == nil || len(other.segments) != len(p.segments) {
		return false
	}
	for i := range p.segments {
		if !strings.EqualFold(p.segments[i], other.segments[i]) {
			return false
		}
	}
	return true
}

// SplitPath splits a URL path into segments. Both '/' and '\' separate
// segments; empty and "." segments are dropped, ".." is kept so callers can
// detect traversal.
func SplitPath(path string) []string {
	fields := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	segments := make([]string, 0, len(fields))
	for _, field := range fields {
		if field == "." {
			continue
		}
		segments = append(segments, field)
	}
	return segments
}
