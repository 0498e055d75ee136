package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/auth"
	"github.com/go-pkgz/auth/avatar"
	"github.com/go-pkgz/auth/token"
	"github.com/siteframe/internal/config"
	"github.com/siteframe/internal/constants"
	"github.com/siteframe/internal/db"
	"github.com/siteframe/internal/domain"
	"github.com/siteframe/internal/formsauth"
	"github.com/siteframe/internal/staticcontent"
)

// Server wraps the HTTP server
type Server struct {
	config      *config.Config
	database    *db.DB
	conventions *staticcontent.Conventions
	forms       *formsauth.Authenticator
	engine      *gin.Engine
	authService *auth.Service
}

// NewServer creates a new HTTP server. Invalid static conventions are
// reported as configuration errors.
func NewServer(cfg *config.Config, database *db.DB) (*Server, error) {
	// Set Gin mode based on environment
	switch cfg.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	if database == nil {
		return nil, domain.WrapConfigInvalid("database", errors.New("user store is required"))
	}

	conventions, err := BuildConventions(cfg)
	if err != nil {
		return nil, err
	}

	forms, err := formsauth.New(formsauth.Config{
		Secret:        cfg.Auth.JWTSecret,
		CookieName:    cfg.Auth.CookieName,
		CookieDomain:  cfg.Auth.CookieDomain,
		LoginPath:     cfg.Auth.LoginPath,
		TokenDuration: cfg.Auth.TokenDuration,
		Issuer:        constants.TokenIssuer,
		SecureCookies: cfg.Auth.SecureCookie,
	}, database)
	if err != nil {
		return nil, err
	}

	engine := gin.Default()

	// Middleware - order matters
	engine.Use(securityHeadersMiddleware())
	engine.Use(corsMiddleware(cfg))
	engine.Use(cacheControlMiddleware())
	engine.Use(loggerMiddleware())
	engine.Use(jsonBodyLimitMiddleware(maxBodySize))
	engine.Use(staticContentMiddleware(conventions, cfg.BaseDir))

	// Request body size limit
	engine.MaxMultipartMemory = maxBodySize

	var authService *auth.Service
	if cfg.Auth.Enabled && cfg.Auth.GitHub.Enabled() {
		authService = initAuthService(cfg)
	}

	server := &Server{
		config:      cfg,
		database:    database,
		conventions: conventions,
		forms:       forms,
		engine:      engine,
		authService: authService,
	}

	server.setupRoutes()

	return server, nil
}

// initAuthService initializes go-pkgz/auth with GitHub OAuth
func initAuthService(cfg *config.Config) *auth.Service {
	// Determine base URL - must include /auth since we mount at /auth/*
	baseURL := cfg.Auth.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	opts := auth.Opts{
		SecretReader: token.SecretFunc(func(id string) (string, error) {
			return cfg.Auth.JWTSecret, nil
		}),
		TokenDuration:  cfg.Auth.TokenDuration,
		CookieDuration: constants.OAuthCookieDuration,
		Issuer:         constants.ServiceName,
		URL:            baseURL + "/auth", // Include /auth prefix for callback URLs
		AvatarStore:    avatar.NewNoOp(),  // No avatar storage
		SecureCookies:  cfg.Auth.SecureCookie,
		DisableXSRF:    true, // Disable for API usage
		Validator: token.ValidatorFunc(func(_ string, claims token.Claims) bool {
			if claims.User == nil {
				slog.Warn("JWT validation failed: no user in claims")
				return false
			}

			// If no whitelist is configured, reject all access (fail-secure)
			if len(cfg.Auth.GitHub.AllowedUsers) == 0 {
				slog.Warn("GitHub auth enabled but no allowed users configured - rejecting access", "username", claims.User.Name)
				return false
			}

			// GitHub usernames are case-insensitive
			username := strings.ToLower(claims.User.Name)
			for _, allowedUser := range cfg.Auth.GitHub.AllowedUsers {
				if username == strings.ToLower(allowedUser) {
					return true
				}
			}

			slog.Warn("Unauthorized GitHub user attempted access", "username", username, "allowedUsers", len(cfg.Auth.GitHub.AllowedUsers))
			return false
		}),
	}

	authService := auth.NewService(opts)
	authService.AddProvider("github", cfg.Auth.GitHub.ClientID, cfg.Auth.GitHub.ClientSecret)

	return authService
}

const maxBodySize = 1 << 20 // 1MB max request body

// Handler returns the root handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Conventions returns the static content conventions consulted before routing
func (s *Server) Conventions() *staticcontent.Conventions {
	return s.conventions
}

// Run starts the HTTP server and shuts it down gracefully once ctx is done
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.ServerAddress
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:           addr,
		Handler:        s.engine,
		ReadTimeout:    constants.ServerReadTimeout,
		WriteTimeout:   constants.ServerWriteTimeout,
		IdleTimeout:    constants.ServerIdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "address", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
