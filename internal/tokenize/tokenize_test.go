package tokenize

import (
	"slices"
	"strings"
	"testing"
)

func TestWhitespaceTokenizer(t *testing.T) {
	tok := NewWhitespace()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty string", "", []string{}},
		{"stems words", "Fixed bugs", []string{"fix", "bug"}},
		{"keeps repeats", "bug bug", []string{"bug", "bug"}},
		{"drops words with digits", "bump v1.2 now", []string{"bump", "now"}},
		{"drops links", "see https://example.com and http://x.org", []string{"see", "and"}},
		{"trims edge punctuation", `'tests' bug, run:`, []string{"test", "bug", "run"}},
		{"any whitespace", "run\n\ttests   now", []string{"run", "test", "now"}},
		{"leading whitespace", "  bug", []string{"bug"}},
		{"punctuation only", ". , :", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}

	if tok.Name() != "whitespace" {
		t.Errorf("Name() = %q, want %q", tok.Name(), "whitespace")
	}
}

func TestProseTokenizer(t *testing.T) {
	tok := NewProse()

	got := tok.Tokenize("Running tests, now!")
	if want := []string{"run", "test", "now"}; !slices.Equal(got, want) {
		t.Errorf("Tokenize() = %q, want %q", got, want)
	}
	if got := tok.Tokenize("   "); len(got) != 0 {
		t.Errorf("Tokenize(blank) = %q, want empty", got)
	}
	if got := tok.Tokenize("build 42 failed"); slices.Contains(got, "42") {
		t.Errorf("Tokenize() = %q, numbers should be dropped", got)
	}
	if tok.Name() != "prose" {
		t.Errorf("Name() = %q, want %q", tok.Name(), "prose")
	}
}

func TestBPETokenizer(t *testing.T) {
	tok, err := NewBPE()
	if err != nil {
		// the encoding is downloaded on first use
		t.Skipf("cl100k_base encoding unavailable: %v", err)
	}

	if got := tok.Tokenize(""); len(got) != 0 {
		t.Errorf("Tokenize(\"\") = %q, want empty", got)
	}
	got := tok.Tokenize("Fix the parser crash")
	if len(got) == 0 {
		t.Fatal("Tokenize() returned no tokens")
	}
	for _, w := range got {
		if strings.TrimSpace(w) != w || w == "" || strings.ToLower(w) != w {
			t.Errorf("Tokenize() produced untrimmed or mixed-case token %q", w)
		}
	}
	if tok.Name() != "bpe (cl100k_base)" {
		t.Errorf("Name() = %q", tok.Name())
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"", Whitespace, false},
		{"whitespace", Whitespace, false},
		{"Prose", Prose, false},
		{" bpe ", BPE, false},
		{"lancaster", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMethod(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMethod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMethodString(t *testing.T) {
	tests := []struct {
		method   Method
		expected string
	}{
		{Whitespace, "whitespace"},
		{Prose, "prose"},
		{BPE, "bpe"},
		{Method(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.method.String(); got != tt.expected {
				t.Errorf("Method(%d).String() = %q, want %q", int(tt.method), got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, method := range []Method{Whitespace, Prose} {
		t.Run(method.String(), func(t *testing.T) {
			tok, err := New(method)
			if err != nil {
				t.Fatalf("New(%v) unexpected error: %v", method, err)
			}
			if tok.Name() != method.String() {
				t.Errorf("New(%v).Name() = %q", method, tok.Name())
			}
		})
	}

	if _, err := New(Method(42)); err == nil {
		t.Error("New(42) expected error, got nil")
	}
}
