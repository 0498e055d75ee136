package staticcontent

import (
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultContentType = "application/octet-stream"

// MimeTypes maps file extensions to content types. Overrides are fixed at
// construction and are consulted before the platform table.
type MimeTypes struct {
	overrides map[string]string
}

// NewMimeTypes builds a table from extension overrides. Keys may be given
// with or without the leading dot and in any case.
func NewMimeTypes(overrides map[string]string) *MimeTypes {
	m := &MimeTypes{overrides: make(map[string]string, len(overrides))}
	for ext, contentType := range overrides {
		ext = normalizeExtension(ext)
		if ext == "" || contentType == "" {
			continue
		}
		m.overrides[ext] = contentType
	}
	return m
}

// Lookup returns the content type registered for ext or "" when unknown
func (m *MimeTypes) Lookup(ext string) string {
	ext = normalizeExtension(ext)
	if ext == "" {
		return ""
	}
	if m != nil {
		if contentType, ok := m.overrides[ext]; ok {
			return contentType
		}
	}
	return mime.TypeByExtension(ext)
}

// Sniff detects a content type from the leading bytes of r
func Sniff(r io.Reader) string {
	detected, err := mimetype.DetectReader(r)
	if err != nil || detected == nil {
		return defaultContentType
	}
	return detected.String()
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
