package tokenize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// BPETokenizer splits text into cl100k_base byte-pair tokens.
type BPETokenizer struct {
	encoding *tiktoken.Tiktoken
}

// NewBPE creates a new BPETokenizer w/ cl100k_base encoding
func NewBPE() (Tokenizer, error) {
	slog.Debug("Initializing BPE tokenizer with cl100k_base encoding")

	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cl100k_base encoding: %w", err)
	}

	return &BPETokenizer{encoding: encoding}, nil
}

// Tokenize returns the lowercased, trimmed text of each token; whitespace-only tokens are dropped.
func (bt *BPETokenizer) Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}

	// nil params mean no special tokens allowed/disallowed
	ids := bt.encoding.Encode(text, nil, nil)
	words := make([]string, 0, len(ids))
	for _, id := range ids {
		w := strings.ToLower(strings.TrimSpace(bt.encoding.Decode([]int{id})))
		if w != "" {
			words = append(words, w)
		}
	}

	slog.Debug("BPE tokenization", "textLength", len(text), "tokens", len(ids), "words", len(words))
	return words
}

// Name returns the name of this tokenizer.
func (bt *BPETokenizer) Name() string {
	return "bpe (cl100k_base)"
}
