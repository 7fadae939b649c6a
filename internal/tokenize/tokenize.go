// Package tokenize provides the word tokenizers used to build review vocabularies.
//
// Every tokenizer turns free review text into an ordered list of words; repeated
// words are kept because the text model counts them. Three strategies exist:
//   - Whitespace: whitespace splitting with light punctuation trimming and English
//     stemming (the default, matching how TIE datasets are conventionally prepared)
//   - Prose: linguistic word tokenization via prose, followed by stemming
//   - BPE: cl100k_base byte-pair tokens, useful for non-English or code-heavy text
//
// Usage Example:
//
//	tok, err := tokenize.New(tokenize.Whitespace)
//	words := tok.Tokenize("Fixed bugs in 2 tests.")
//	// [fix bug in test]
package tokenize

import (
	"fmt"
	"strings"
)

// Tokenizer splits text into words.
type Tokenizer interface {
	// Tokenize returns the words of text in order, repeats included.
	Tokenize(text string) []string

	// Name identifies the strategy (stored in model snapshots)
	Name() string
}

// Method selects a tokenization strategy.
type Method int

const (
	// Whitespace splits on whitespace and stems (default)
	Whitespace Method = iota
	// Prose uses the prose word tokenizer and stems
	Prose
	// BPE uses tiktoken's cl100k_base encoding
	BPE
)

// String returns the string representation of the method.
func (m Method) String() string {
	switch m {
	case Whitespace:
		return "whitespace"
	case Prose:
		return "prose"
	case BPE:
		return "bpe"
	default:
		return "unknown"
	}
}

// ParseMethod resolves a method from its name (case-insensitive).
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "whitespace":
		return Whitespace, nil
	case "prose":
		return Prose, nil
	case "bpe":
		return BPE, nil
	default:
		return 0, fmt.Errorf("unknown tokenizer %q (want whitespace, prose or bpe)", name)
	}
}

// New creates a Tokenizer for the given method.
// Returns an error if the tokenizer cannot be initialized (e.g., the BPE encoding fails to load).
func New(method Method) (Tokenizer, error) {
	switch method {
	case Whitespace:
		return NewWhitespace(), nil
	case Prose:
		return NewProse(), nil
	case BPE:
		return NewBPE()
	default:
		return nil, fmt.Errorf("unknown tokenizer method %d", int(method))
	}
}
