package validation

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		shouldErr bool
	}{
		// Valid names
		{"valid simple name", "alice", false},
		{"valid with numbers", "alice42", false},
		{"valid with dot", "alice.smith", false},
		{"valid mixed", "Alice_Smith-2", false},

		// Invalid names - reserved
		{"reserved admin", "admin", true},
		{"reserved admin uppercase", "ADMIN", true},
		{"reserved root", "root", true},
		{"reserved dot", ".", true},

		// Invalid names - length
		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},

		// Invalid names - special chars
		{"starts with dot", ".alice", true},
		{"starts with hyphen", "-alice", true},
		{"slash", "alice/bob", true},
		{"spaces", "alice smith", true},
		{"special characters", "alice@example", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.shouldErr && err == nil {
				t.Errorf("expected error but got none for username: %s", tt.username)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error for valid username %s: %v", tt.username, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		shouldErr bool
	}{
		{"valid", "correct horse", false},
		{"exactly minimum", "12345678", false},
		{"too short", "short", true},
		{"whitespace only", "          ", true},
		{"too long", strings.Repeat("p", 73), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.shouldErr && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateExtension(t *testing.T) {
	tests := []struct {
		ext       string
		shouldErr bool
	}{
		{".css", false},
		{".woff2", false},
		{"css", true},
		{".", true},
		{".tar.gz", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			err := ValidateExtension(tt.ext)
			if tt.shouldErr && err == nil {
				t.Errorf("expected error but got none for extension: %q", tt.ext)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error for extension %q: %v", tt.ext, err)
			}
		})
	}
}

func TestIsLocalURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{"root", "/", true},
		{"path", "/account/settings", true},
		{"path with query", "/search?q=go", true},
		{"empty", "", false},
		{"relative", "account", false},
		{"absolute http", "http://evil.example/", false},
		{"scheme relative", "//evil.example/", false},
		{"backslash", "/\\evil.example", false},
		{"header injection", "/ok\r\nSet-Cookie: x=y", false},
		{"javascript", "javascript:alert(1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLocalURL(tt.target); got != tt.want {
				t.Errorf("IsLocalURL(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}

	if err := ValidateReturnURL("https://evil.example"); err == nil {
		t.Error("expected ValidateReturnURL to reject an absolute URL")
	}
}
