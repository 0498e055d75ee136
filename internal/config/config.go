package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	ServerAddress string
	Environment   string
	BaseDir       string // application base directory; relative static roots resolve against it
	DatabasePath  string
	Static        StaticConfig
	Auth          AuthConfig
	CORS          CORSConfig
}

// StaticConfig holds the static content conventions
type StaticConfig struct {
	Directories     []DirectoryConfig `yaml:"directories"`
	Files           []FileConfig      `yaml:"files"`
	SafePaths       []string          `yaml:"safe_paths"`
	MimeTypes       map[string]string `yaml:"mime_types"`
	CacheMaxAge     time.Duration     `yaml:"-"`
	ConventionsFile string            `yaml:"-"`
}

// DirectoryConfig maps a virtual directory to a physical one
type DirectoryConfig struct {
	Prefix     string   `yaml:"prefix"`
	Root       string   `yaml:"root"`
	Extensions []string `yaml:"extensions"`
}

// FileConfig maps a single URL to a single file
type FileConfig struct {
	Path string `yaml:"path"`
	File string `yaml:"file"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Enabled        bool
	JWTSecret      string
	CookieName     string
	CookieDomain   string
	SecureCookie   bool
	TokenDuration  time.Duration
	LoginPath      string
	LogoutRedirect string
	BaseURL        string // Base URL for OAuth callbacks (e.g., http://localhost:8080)
	GitHub         GitHubOAuthConfig
}

// GitHubOAuthConfig holds GitHub OAuth configuration
type GitHubOAuthConfig struct {
	ClientID     string
	ClientSecret string
	AllowedUsers []string
}

// Enabled reports whether GitHub login is configured
func (g GitHubOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

const (
	defaultJWTSecret = "change-me-in-production-secret-key"
	minSecretLength  = 32
)

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	baseDir := getEnv("APP_BASE_DIR", "")
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		baseDir = cwd
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_BASE_DIR: %w", err)
	}

	cacheMaxAge, err := getEnvDuration("STATIC_CACHE_MAX_AGE", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	tokenDuration, err := getEnvDuration("AUTH_TOKEN_DURATION", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	directories, err := parseDirectories(getEnv("STATIC_DIRS", "css=Content/css,js=Content/js,img=Content/img"))
	if err != nil {
		return nil, err
	}
	files, err := parseFiles(getEnv("STATIC_FILES", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		BaseDir:       baseDir,
		DatabasePath:  getEnv("DATABASE_PATH", "./data/siteframe.db"),
		Static: StaticConfig{
			Directories:     directories,
			Files:           files,
			SafePaths:       parseCommaSeparatedList(getEnv("STATIC_SAFE_PATHS", "")),
			MimeTypes:       map[string]string{},
			CacheMaxAge:     cacheMaxAge,
			ConventionsFile: getEnv("STATIC_CONVENTIONS_FILE", ""),
		},
		Auth: AuthConfig{
			Enabled:        getEnv("AUTH_ENABLED", "false") == "true",
			JWTSecret:      getEnv("JWT_SECRET", defaultJWTSecret),
			CookieName:     getEnv("AUTH_COOKIE_NAME", "_siteframe_auth"),
			CookieDomain:   getEnv("AUTH_COOKIE_DOMAIN", ""),
			SecureCookie:   getEnv("AUTH_SECURE_COOKIE", "false") == "true",
			TokenDuration:  tokenDuration,
			LoginPath:      getEnv("AUTH_LOGIN_PATH", "/login"),
			LogoutRedirect: getEnv("AUTH_LOGOUT_REDIRECT", "/"),
			BaseURL:        getEnv("AUTH_BASE_URL", "http://localhost:8080"),
			GitHub: GitHubOAuthConfig{
				ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
				ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
				AllowedUsers: parseCommaSeparatedList(os.Getenv("GITHUB_ALLOWED_USERS")),
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: parseCommaSeparatedList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://localhost:8080")),
		},
	}

	if cfg.Static.ConventionsFile != "" {
		if err := cfg.Static.MergeFile(cfg.Static.ConventionsFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings that would make the server unsafe to start
func (c *Config) Validate() error {
	if c.Auth.Enabled && c.Environment == "production" {
		if c.Auth.JWTSecret == defaultJWTSecret || len(c.Auth.JWTSecret) < minSecretLength {
			return fmt.Errorf("JWT_SECRET must be set to at least %d characters in production", minSecretLength)
		}
	}
	if !strings.HasPrefix(c.Auth.LoginPath, "/") {
		return fmt.Errorf("AUTH_LOGIN_PATH must start with /: %q", c.Auth.LoginPath)
	}
	return nil
}

// MergeFile appends the conventions from a YAML file. Entries from the file
// are tried after the ones taken from the environment.
func (s *StaticConfig) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read conventions file: %w", err)
	}

	var file StaticConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse conventions file %s: %w", path, err)
	}

	s.Directories = append(s.Directories, file.Directories...)
	s.Files = append(s.Files, file.Files...)
	s.SafePaths = append(s.SafePaths, file.SafePaths...)
	if s.MimeTypes == nil {
		s.MimeTypes = map[string]string{}
	}
	for ext, contentType := range file.MimeTypes {
		s.MimeTypes[ext] = contentType
	}
	return nil
}

// parseDirectories parses "prefix=root,prefix=root"
func parseDirectories(s string) ([]DirectoryConfig, error) {
	pairs, err := parsePairs("STATIC_DIRS", s)
	if err != nil {
		return nil, err
	}
	result := make([]DirectoryConfig, 0, len(pairs))
	for _, pair := range pairs {
		result = append(result, DirectoryConfig{Prefix: pair[0], Root: pair[1]})
	}
	return result, nil
}

// parseFiles parses "/url=file,/url=file"
func parseFiles(s string) ([]FileConfig, error) {
	pairs, err := parsePairs("STATIC_FILES", s)
	if err != nil {
		return nil, err
	}
	result := make([]FileConfig, 0, len(pairs))
	for _, pair := range pairs {
		result = append(result, FileConfig{Path: pair[0], File: pair[1]})
	}
	return result, nil
}

func parsePairs(name, s string) ([][2]string, error) {
	items := parseCommaSeparatedList(s)
	result := make([][2]string, 0, len(items))
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid %s entry %q: expected key=value", name, item)
		}
		result = append(result, [2]string{key, value})
	}
	return result, nil
}

// parseCommaSeparatedList splits a comma-separated string into a slice
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return []string{}
	}

	items := strings.Split(s, ",")
	result := make([]string, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}

	return result
}

// getEnvDuration accepts Go durations ("90s", "24h") or whole seconds
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
