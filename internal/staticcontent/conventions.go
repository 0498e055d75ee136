package staticcontent

import (
	"net/http"
	"sync"
	"sync/atomic"
)

// Conventions is the ordered list of resolvers consulted for every GET/HEAD
// request before normal routing. The first resolver that returns a file wins.
//
// The list is normally assembled during start-up. Registering afterwards is
// supported: writers copy the list under a mutex and publish the copy, and
// Resolve works on whatever snapshot it loaded first.
//
// Usage:
//
//	safe, _ := staticcontent.NewSafePaths()
//	conventions := staticcontent.NewConventions(safe, staticcontent.ResponseOptions{})
//	if _, err := conventions.AddDirectory("css", "Resources/Assets/Styles"); err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := conventions.Resolve(req, baseDir)
type Conventions struct {
	safe      *SafePaths
	opts      ResponseOptions
	mu        sync.Mutex // serialises writers
	resolvers atomic.Pointer[[]Resolver]
}

// NewConventions creates an empty convention list backed by safe
func NewConventions(safe *SafePaths, opts ResponseOptions) *Conventions {
	c := &Conventions{safe: safe, opts: opts}
	empty := []Resolver{}
	c.resolvers.Store(&empty)
	return c
}

// AddDirectory registers a directory convention. See NewDirectoryConvention.
func (c *Conventions) AddDirectory(virtualPrefix, physicalRoot string, allowedExtensions ...string) (*DirectoryConvention, error) {
	convention, err := NewDirectoryConvention(c.safe, c.opts, virtualPrefix, physicalRoot, allowedExtensions...)
	if err != nil {
		return nil, err
	}
	c.Add(convention)
	return convention, nil
}

// AddFile registers a single-file convention. See NewFileConvention.
func (c *Conventions) AddFile(requestedPath, contentPath string) (*FileConvention, error) {
	convention, err := NewFileConvention(c.safe, c.opts, requestedPath, contentPath)
	if err != nil {
		return nil, err
	}
	c.Add(convention)
	return convention, nil
}

// Add appends any resolver to the end of the list
func (c *Conventions) Add(resolver Resolver) {
	if resolver == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := *c.resolvers.Load()
	next := make([]Resolver, len(current), len(current)+1)
	copy(next, current)
	next = append(next, resolver)
	c.resolvers.Store(&next)
}

// Len returns the number of registered resolvers
func (c *Conventions) Len() int {
	return len(*c.resolvers.Load())
}

// SafePaths returns the registry the conventions register their roots in
func (c *Conventions) SafePaths() *SafePaths {
	return c.safe
}

// Resolve folds over the resolvers in registration order. A file from any
// resolver ends the fold, and so does any error: the chain fails closed
// rather than letting a later convention answer a rejected path.
func (c *Conventions) Resolve(r *http.Request, baseDir string) (*FileResponse, error) {
	for _, resolver := range *c.resolvers.Load() {
		resp, err := resolver.Resolve(r, baseDir)
		if err != nil {
			return nil, err
		}
		if resp != nil {
			return resp, nil
		}
	}
	return nil, nil
}
