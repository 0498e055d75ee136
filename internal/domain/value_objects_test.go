package domain

import (
	"reflect"
	"testing"
)

func TestNewVirtualPrefix(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		want      string
		shouldErr bool
	}{
		{"simple", "css", "/css", false},
		{"leading slash", "/css", "/css", false},
		{"trailing slash", "css/", "/css", false},
		{"nested", "css/sub", "/css/sub", false},
		{"duplicate names", "css/css", "/css/css", false},
		{"dotted folder", "css/Sub.folder", "/css/Sub.folder", false},
		{"backslashes", `css\sub`, "/css/sub", false},
		{"dot segment dropped", "./css/./sub", "/css/sub", false},
		{"double slashes", "//css//sub//", "/css/sub", false},

		{"empty", "", "", true},
		{"root", "/", "", true},
		{"only dots", "./.", "", true},
		{"traversal", "css/../..", "", true},
		{"nul byte", "css\x00", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, err := NewVirtualPrefix(tt.prefix)
			if tt.shouldErr {
				if err == nil {
					t.Fatalf("expected error for prefix %q", tt.prefix)
				}
				if !IsConfigurationError(err) {
					t.Errorf("expected configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for prefix %q: %v", tt.prefix, err)
			}
			if prefix.String() != tt.want {
				t.Errorf("String() = %q, want %q", prefix.String(), tt.want)
			}
		})
	}
}

func TestVirtualPrefix_Match(t *testing.T) {
	tests := []struct {
		name          string
		prefix        string
		path          string
		wantRemainder []string
		wantOK        bool
	}{
		{"exact file", "css", "/css/styles.css", []string{"styles.css"}, true},
		{"case insensitive", "css", "/CSS/styles.css", []string{"styles.css"}, true},
		{"nested prefix", "css/sub", "/css/sub/styles.css", []string{"styles.css"}, true},
		{"deeper remainder", "css", "/css/a/b/c.css", []string{"a", "b", "c.css"}, true},
		{"traversal kept", "css", "/css/../../etc/passwd", []string{"..", "..", "etc", "passwd"}, true},
		{"prefix only", "css", "/css", []string{}, true},
		{"substring is not a match", "css", "/cssx/styles.css", nil, false},
		{"other directory", "css", "/js/app.js", nil, false},
		{"shorter than prefix", "css/sub", "/css", nil, false},
		{"file named like the prefix", "css", "/styles.css", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, err := NewVirtualPrefix(tt.prefix)
			if err != nil {
				t.Fatalf("NewVirtualPrefix(%q): %v", tt.prefix, err)
			}

			remainder, ok := prefix.Match(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(remainder, tt.wantRemainder) {
				t.Errorf("Match(%q) remainder = %#v, want %#v", tt.path, remainder, tt.wantRemainder)
			}
		})
	}
}

func TestVirtualPrefix_Equals(t *testing.T) {
	a, _ := NewVirtualPrefix("css/sub")
	b, _ := NewVirtualPrefix("/CSS/Sub/")
	c, _ := NewVirtualPrefix("css")

	if !a.Equals(b) {
		t.Error("expected prefixes differing only by case and slashes to be equal")
	}
	if a.Equals(c) {
		t.Error("expected prefixes of different depth to differ")
	}
	if a.Equals(nil) {
		t.Error("expected nil prefix not to be equal")
	}
}
