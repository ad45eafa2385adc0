package wordgroup

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/chriscorrea/atol/internal/counter"
	"github.com/chriscorrea/atol/internal/wordcount"
)

func newGrouper(t *testing.T, opts Options) *Grouper {
	t.Helper()
	g, err := New(opts)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return g
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		text string
		want []string
	}{
		{
			name: "lowercased, short tokens dropped",
			opts: Options{PageSize: 10},
			text: "Rifles, AMMO & a scope café",
			want: []string{"rifles", "ammo", "scope", "café"},
		},
		{
			name: "tokens start with a letter",
			opts: Options{PageSize: 10},
			text: "glock19 2024 -- x",
			want: []string{"glock19"},
		},
		{
			name: "stemming",
			opts: Options{PageSize: 10, Stem: true},
			text: "running runs",
			want: []string{"run", "run"},
		},
		{
			name: "empty",
			opts: Options{PageSize: 10},
			text: "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newGrouper(t, tt.opts).Tokens(tt.text)
			if err != nil {
				t.Fatalf("Tokens() unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokens(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokensProse(t *testing.T) {
	g := newGrouper(t, Options{PageSize: 10, Tokenizer: Prose})

	got, err := g.Tokens("We ship rifles worldwide!")
	if err != nil {
		t.Fatalf("Tokens() unexpected error: %v", err)
	}
	for _, want := range []string{"we", "ship", "rifles", "worldwide"} {
		if !slices.Contains(got, want) {
			t.Errorf("Tokens() = %q, missing %q", got, want)
		}
	}
	if slices.Contains(got, "!") {
		t.Errorf("Tokens() = %q, punctuation kept", got)
	}
}

func TestGroup(t *testing.T) {
	g := newGrouper(t, Options{PageSize: 3, Counter: counter.NewWordCounter()})

	got, err := g.Group("gun ammo gun\n\nGUN knife")
	if err != nil {
		t.Fatalf("Group() unexpected error: %v", err)
	}

	want := []wordcount.Record{
		{Word: "gun", Count: 3, Pages: 2, Ratio: 0.6},
		{Word: "ammo", Count: 1, Pages: 1, Ratio: 0.2},
		{Word: "knife", Count: 1, Pages: 1, Ratio: 0.2},
	}
	if len(got) != len(want) {
		t.Fatalf("Group() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].Word != want[i].Word || got[i].Count != want[i].Count || got[i].Pages != want[i].Pages ||
			math.Abs(got[i].Ratio-want[i].Ratio) > 1e-9 {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGroupEmpty(t *testing.T) {
	g := newGrouper(t, Options{PageSize: 150})
	for _, text := range []string{"", "  \n ", "a b c !"} {
		got, err := g.Group(text)
		if err != nil {
			t.Fatalf("Group(%q) unexpected error: %v", text, err)
		}
		if len(got) != 0 {
			t.Errorf("Group(%q) = %+v, want no records", text, got)
		}
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Options{PageSize: 0}); err == nil {
		t.Error("New() with zero page size should fail")
	}
	if _, err := New(Options{PageSize: 5, Tokenizer: Tokenizer(7)}); !errors.Is(err, ErrUnknownTokenizer) {
		t.Errorf("New() error = %v, want ErrUnknownTokenizer", err)
	}
}

func TestParseTokenizer(t *testing.T) {
	tests := []struct {
		input   string
		want    Tokenizer
		wantErr bool
	}{
		{"simple", Simple, false},
		{"prose", Prose, false},
		{"nltk", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTokenizer(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownTokenizer) {
					t.Errorf("ParseTokenizer(%q) error = %v, want ErrUnknownTokenizer", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseTokenizer(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
			}
		})
	}
}
