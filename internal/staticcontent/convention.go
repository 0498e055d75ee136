// Package staticcontent maps URL virtual directories to directories on disk.
//
// A convention pairs a virtual prefix ("css", "assets/img") with a physical
// root. For a request under the prefix the remainder of the path is joined
// onto the root, canonicalised, and checked twice before anything is opened:
// it must stay inside the convention's own root and inside at least one of
// the trusted roots in SafePaths. Both checks compare whole path segments.
//
// Resolution has three outcomes:
//
//	(*FileResponse, nil)  the file exists and may be served
//	(nil, nil)            soft miss, let the next resolver or handler run
//	(nil, err)            configuration, security or I/O failure
//
// Security failures carry domain.ErrSecurityViolation and must be answered
// with a plain not found; the attempted path belongs in server logs only.
package staticcontent

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/siteframe/internal/domain"
)

// Resolver answers a request with a file, a soft miss, or an error
type Resolver interface {
	Resolve(r *http.Request, baseDir string) (*FileResponse, error)
}

// ResolverFunc adapts a function to the Resolver interface
type ResolverFunc func(r *http.Request, baseDir string) (*FileResponse, error)

// Resolve calls f(r, baseDir)
func (f ResolverFunc) Resolve(r *http.Request, baseDir string) (*FileResponse, error) {
	return f(r, baseDir)
}

// DirectoryConvention serves files below PhysicalRoot for URLs below Prefix
type DirectoryConvention struct {
	prefix     *domain.VirtualPrefix
	root       string
	extensions map[string]bool
	safe       *SafePaths
	opts       ResponseOptions
}

// NewDirectoryConvention validates a directory mapping and registers its
// physical root in safe. An empty physicalRoot means the base directory.
// When allowedExtensions is non-empty only files with those extensions are
// served; anything else is a soft miss.
func NewDirectoryConvention(safe *SafePaths, opts ResponseOptions, virtualPrefix, physicalRoot string, allowedExtensions ...string) (*DirectoryConvention, error) {
	if safe == nil {
		return nil, domain.WrapInvalidConvention("no safe path registry", nil)
	}

	prefix, err := domain.NewVirtualPrefix(virtualPrefix)
	if err != nil {
		return nil, err
	}

	if physicalRoot == "" {
		physicalRoot = "."
	}
	if err := safe.Add(physicalRoot); err != nil {
		return nil, err
	}

	var extensions map[string]bool
	if len(allowedExtensions) > 0 {
		extensions = make(map[string]bool, len(allowedExtensions))
		for _, ext := range allowedExtensions {
			if ext = normalizeExtension(ext); ext != "" {
				extensions[ext] = true
			}
		}
	}

	return &DirectoryConvention{
		prefix:     prefix,
		root:       filepath.Clean(physicalRoot),
		extensions: extensions,
		safe:       safe,
		opts:       opts,
	}, nil
}

// Prefix returns the normalised virtual prefix
func (c *DirectoryConvention) Prefix() string {
	return c.prefix.String()
}

// PhysicalRoot returns the root as configured (possibly relative)
func (c *DirectoryConvention) PhysicalRoot() string {
	return c.root
}

// Resolve implements Resolver
func (c *DirectoryConvention) Resolve(r *http.Request, baseDir string) (*FileResponse, error) {
	if !isReadMethod(r.Method) {
		return nil, nil
	}

	remainder, ok := c.prefix.Match(r.URL.Path)
	if !ok {
		return nil, nil
	}
	if strings.ContainsRune(r.URL.Path, 0) {
		return nil, domain.WrapSecurityViolation("request path contains a NUL byte")
	}

	root, err := resolveAgainst(c.root, baseDir)
	if err != nil {
		return nil, domain.WrapFileSystem("resolve root "+c.root, err)
	}
	if isFilesystemRoot(root) {
		return nil, domain.WrapSecurityViolation("convention root resolves to a filesystem root")
	}

	candidate := filepath.Join(append([]string{root}, remainder...)...)
	if !within(root, candidate) {
		return nil, domain.WrapSecurityViolation("path " + candidate + " escapes root " + root)
	}
	if !c.safe.Contains(candidate, baseDir) {
		return nil, domain.WrapSecurityViolation("path " + candidate + " is outside the trusted roots")
	}

	return lookup(candidate, root, c.extensions, c.opts)
}

// FileConvention serves a single file for a single URL, e.g. /favicon.ico
type FileConvention struct {
	requested []string
	content   string
	safe      *SafePaths
	opts      ResponseOptions
}

// NewFileConvention maps requestedPath to contentPath and registers the
// directory holding contentPath in safe
func NewFileConvention(safe *SafePaths, opts ResponseOptions, requestedPath, contentPath string) (*FileConvention, error) {
	if safe == nil {
		return nil, domain.WrapInvalidConvention("no safe path registry", nil)
	}

	requested := domain.SplitPath(requestedPath)
	if len(requested) == 0 {
		return nil, domain.WrapInvalidConvention("requested file cannot be the site root", nil)
	}
	for _, segment := range requested {
		if segment == ".." {
			return nil, domain.WrapInvalidConvention("requested file cannot contain '..'", nil)
		}
	}

	content := filepath.Clean(strings.TrimSpace(contentPath))
	if contentPath == "" || content == "." {
		return nil, domain.WrapInvalidConvention("content file is required", nil)
	}
	if err := safe.Add(filepath.Dir(content)); err != nil {
		return nil, err
	}

	return &FileConvention{
		requested: requested,
		content:   content,
		safe:      safe,
		opts:      opts,
	}, nil
}

// Resolve implements Resolver
func (c *FileConvention) Resolve(r *http.Request, baseDir string) (*FileResponse, error) {
	if !isReadMethod(r.Method) {
		return nil, nil
	}

	segments := domain.SplitPath(r.URL.Path)
	if len(segments) != len(c.requested) {
		return nil, nil
	}
	for i := range segments {
		if !strings.EqualFold(segments[i], c.requested[i]) {
			return nil, nil
		}
	}

	candidate, err := resolveAgainst(c.content, baseDir)
	if err != nil {
		return nil, domain.WrapFileSystem("resolve "+c.content, err)
	}
	if !c.safe.Contains(candidate, baseDir) {
		return nil, domain.WrapSecurityViolation("path " + candidate + " is outside the trusted roots")
	}

	return lookup(candidate, filepath.Dir(candidate), nil, c.opts)
}

// lookup turns a contained candidate path into a response. Missing files,
// directories and disallowed extensions are soft misses.
func lookup(candidate, root string, extensions map[string]bool, opts ResponseOptions) (*FileResponse, error) {
	info, err := os.Stat(candidate)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, nil
		}
		return nil, domain.WrapFileSystem("stat "+candidate, err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}
	if extensions != nil && !extensions[normalizeExtension(filepath.Ext(candidate))] {
		return nil, nil
	}

	// The lexical checks passed; make sure no link on the way leads out
	linked, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return nil, domain.WrapFileSystem("eval symlinks "+candidate, err)
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		realRoot = root
	}
	if !within(realRoot, linked) {
		return nil, domain.WrapSecurityViolation("path " + candidate + " links outside root " + root)
	}

	return newFileResponse(candidate, info, opts), nil
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
