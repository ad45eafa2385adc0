package counter

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestWordCounter(t *testing.T) {
	counter := NewWordCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"single word", "hello", 1},
		{"multiple words", "hello world test", 3},
		{"whitespace handling", "  hello \n\t world  ", 2},
		{"unicode words", "café naïve résumé", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := counter.Count(tt.text)
			if result != tt.expected {
				t.Errorf("WordCounter.Count(%q) = %d, want %d", tt.text, result, tt.expected)
			}
		})
	}

	if counter.Name() != "words" {
		t.Errorf("WordCounter.Name() = %q, want %q", counter.Name(), "words")
	}
}

func TestCharCounter(t *testing.T) {
	counter := NewCharCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"single char", "a", 1},
		{"multiple chars", "hello", 5},
		{"unicode chars", "café", 4},
		{"whitespace included", "a b", 3},
		{"cyrillic", "оружие", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := counter.Count(tt.text)
			if result != tt.expected {
				t.Errorf("CharCounter.Count(%q) = %d, want %d", tt.text, result, tt.expected)
			}
		})
	}
}

func TestTokenCounter(t *testing.T) {
	counter, err := NewTokenCounter()
	if err != nil {
		// the encoding is fetched on first use
		t.Skipf("cl100k_base encoding unavailable: %v", err)
	}

	if got := counter.Count(""); got != 0 {
		t.Errorf("TokenCounter.Count(\"\") = %d, want 0", got)
	}
	// exact counts depend on the encoding version
	for _, text := range []string{"hello world", "Hello, world!"} {
		if got := counter.Count(text); got <= 0 {
			t.Errorf("TokenCounter.Count(%q) = %d, want a positive count", text, got)
		}
	}
	if counter.Name() != "tokens (cl100k_base)" {
		t.Errorf("TokenCounter.Name() = %q, want %q", counter.Name(), "tokens (cl100k_base)")
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		input   string
		want    Unit
		wantErr bool
	}{
		{"tokens", Tokens, false},
		{"words", Words, false},
		{"characters", Characters, false},
		{"pages", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUnit(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownUnit) {
					t.Errorf("ParseUnit(%q) error = %v, want ErrUnknownUnit", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseUnit(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		unit         Unit
		expectedName string
	}{
		{Words, "words"},
		{Characters, "characters"},
	}

	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			counter, err := New(tt.unit)
			if err != nil {
				t.Fatalf("New(%v) unexpected error: %v", tt.unit, err)
			}
			if counter.Name() != tt.expectedName {
				t.Errorf("New(%v).Name() = %q, want %q", tt.unit, counter.Name(), tt.expectedName)
			}
		})
	}

	if _, err := New(Unit(999)); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("New(999) error = %v, want ErrUnknownUnit", err)
	}
	if Unit(999).String() != "unknown" {
		t.Errorf("Unit(999).String() = %q, want unknown", Unit(999).String())
	}
}

func TestCountDebugLog(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	tests := []struct {
		counter Counter
		text    string
		want    []string
	}{
		{NewWordCounter(), "ammo, rifles", []string{`msg="Word count calculated"`, "textLength=12", "wordCount=2"}},
		{NewCharCounter(), "ammo", []string{`msg="Character count calculated"`, "textLength=4", "charCount=4"}},
		{NewWordCounter(), "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.counter.Name()+"/"+tt.text, func(t *testing.T) {
			buf.Reset()
			tt.counter.Count(tt.text)
			got := buf.String()
			if tt.want == nil && got != "" {
				t.Errorf("Count(%q) logged %q, want nothing", tt.text, got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Count(%q) log = %q, missing %q", tt.text, got, w)
				}
			}
		})
	}
}
