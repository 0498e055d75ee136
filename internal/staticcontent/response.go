package staticcontent

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/siteframe/internal/domain"
)

// ResponseOptions controls the headers attached to resolved files
type ResponseOptions struct {
	// CacheMaxAge is written as "public, max-age=N". Zero disables caching.
	CacheMaxAge time.Duration

	// MimeTypes resolves content types by extension. Nil uses the platform table.
	MimeTypes *MimeTypes
}

// FileResponse is a resolved static file. The file itself is opened only when
// the body is written and is closed before Serve or WriteTo return.
type FileResponse struct {
	Path        string
	ContentType string // empty when the extension is unknown; sniffed on Serve
	Size        int64
	ModTime     time.Time
	Headers     http.Header
}

func newFileResponse(path string, info os.FileInfo, opts ResponseOptions) *FileResponse {
	headers := make(http.Header)
	if opts.CacheMaxAge > 0 {
		headers.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int64(opts.CacheMaxAge/time.Second)))
	} else {
		headers.Set("Cache-Control", "no-cache")
	}
	headers.Set("ETag", fmt.Sprintf(`W/"%x-%x"`, info.ModTime().UnixNano(), info.Size()))

	return &FileResponse{
		Path:        path,
		ContentType: opts.MimeTypes.Lookup(filepath.Ext(path)),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Headers:     headers,
	}
}

// Serve writes the file to w honouring conditional and range requests
func (f *FileResponse) Serve(w http.ResponseWriter, r *http.Request) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return domain.WrapFileSystem("open "+f.Path, err)
	}
	defer file.Close()

	contentType := f.ContentType
	if contentType == "" {
		contentType = Sniff(file)
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return domain.WrapFileSystem("seek "+f.Path, err)
		}
	}

	header := w.Header()
	for key, values := range f.Headers {
		header[key] = append([]string(nil), values...)
	}
	header.Set("Content-Type", contentType)

	http.ServeContent(w, r, filepath.Base(f.Path), f.ModTime, file)
	return nil
}

// WriteTo streams the exact file contents to w
func (f *FileResponse) WriteTo(w io.Writer) (int64, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return 0, domain.WrapFileSystem("open "+f.Path, err)
	}
	defer file.Close()

	n, err := io.Copy(w, file)
	if err != nil {
		return n, domain.WrapFileSystem("read "+f.Path, err)
	}
	return n, nil
}
