package paths

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "src/a.txt", "src/a.txt"},
		{"leading slash", "/src/a.txt", "src/a.txt"},
		{"many leading slashes", "///src/a.txt", "src/a.txt"},
		{"backslashes", `src\sub\a.txt`, "src/sub/a.txt"},
		{"dot segments", "./src/./a.txt", "src/a.txt"},
		{"double slashes", "src//a.txt", "src/a.txt"},
		{"trailing slash", "src/a/", "src/a"},
		{"surrounding space", "  src/a.txt  ", "src/a.txt"},
		{"single file", "README.md", "README.md"},
		{"unicode", "docs/héllo.md", "docs/héllo.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"only slash", "/"},
		{"only dot", "."},
		{"only dots and slashes", "././"},
		{"parent escape", "../etc/passwd"},
		{"embedded parent", "src/../../etc"},
		{"trailing parent", "src/.."},
		{"drive letter", `C:\Windows`},
		{"colon", "a:b"},
		{"nul byte", "src/a\x00.txt"},
		{"control byte", "src/a\x01.txt"},
		{"newline", "src/a\n.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(tt.input); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Normalize(%q) = %v, want ErrInvalidPath", tt.input, err)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"src/a.txt", "/a//b/./c", `a\b`, "  x/y "}
	for _, in := range inputs {
		once, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", once, err)
		}
		if once != twice {
			t.Errorf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}
