package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siteframe/internal/config"
	"github.com/siteframe/internal/domain"
	"github.com/siteframe/internal/staticcontent"
	"github.com/siteframe/internal/validation"
)

// BuildConventions registers the configured directories and files, in order
func BuildConventions(cfg *config.Config) (*staticcontent.Conventions, error) {
	safe, err := staticcontent.NewSafePaths(cfg.Static.SafePaths...)
	if err != nil {
		return nil, err
	}

	conventions := staticcontent.NewConventions(safe, staticcontent.ResponseOptions{
		CacheMaxAge: cfg.Static.CacheMaxAge,
		MimeTypes:   staticcontent.NewMimeTypes(cfg.Static.MimeTypes),
	})

	for _, dir := range cfg.Static.Directories {
		for _, ext := range dir.Extensions {
			if err := validation.ValidateExtension(ext); err != nil {
				return nil, domain.WrapInvalidConvention("extension "+ext+" for /"+dir.Prefix, err)
			}
		}
		if _, err := conventions.AddDirectory(dir.Prefix, dir.Root, dir.Extensions...); err != nil {
			return nil, err
		}
		slog.Debug("Registered static directory", "prefix", dir.Prefix, "root", dir.Root)
	}

	for _, file := range cfg.Static.Files {
		if _, err := conventions.AddFile(file.Path, file.File); err != nil {
			return nil, err
		}
		slog.Debug("Registered static file", "path", file.Path, "file", file.File)
	}

	return conventions, nil
}

// staticContentMiddleware answers GET/HEAD requests matched by a convention
// before routing. Soft misses fall through to the router.
func staticContentMiddleware(conventions *staticcontent.Conventions, baseDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := conventions.Resolve(c.Request, baseDir)
		if err != nil {
			if domain.IsSecurityViolation(err) {
				// The attempted path stays in the server log only
				slog.WarnContext(c.Request.Context(), "Blocked static content request",
					"path", c.Request.URL.Path,
					"remote_addr", c.Request.RemoteAddr,
					"error", err,
				)
				c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: domain.PublicMessage(err)})
				return
			}
			slog.ErrorContext(c.Request.Context(), "Static content lookup failed", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: domain.PublicMessage(err)})
			return
		}

		if resp == nil {
			c.Next()
			return
		}

		if err := resp.Serve(c.Writer, c.Request); err != nil {
			slog.ErrorContext(c.Request.Context(), "Failed to serve static file", "path", c.Request.URL.Path, "error", err)
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: domain.PublicMessage(err)})
				return
			}
		}
		c.Abort()
	}
}
