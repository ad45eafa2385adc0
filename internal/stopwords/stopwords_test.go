package stopwords

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	input := "# header comment\nthe\nand\r\nof\n"
	set, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}

	tests := []struct {
		token string
		want  bool
	}{
		{"the", true},
		{"and", true},
		{"of", true},
		{"# header comment", false},
		{"bomb", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := set.Contains(tt.token); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}

	if set.Len() != 3 {
		t.Errorf("Len() = %d, want 3", set.Len())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stopwords.txt")
	if err := os.WriteFile(path, []byte("a\nan\n"), 0o644); err != nil {
		t.Fatalf("failed to write stopwords file: %v", err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !set.Contains("an") {
		t.Error("expected loaded set to contain \"an\"")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestNilSet(t *testing.T) {
	var set *Set
	if set.Contains("the") {
		t.Error("nil set should contain nothing")
	}
	if set.Len() != 0 {
		t.Errorf("nil set Len() = %d, want 0", set.Len())
	}
}
