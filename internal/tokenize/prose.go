package tokenize

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// ProseTokenizer uses prose's rule-based word tokenizer, which splits contractions
// and punctuation more carefully than whitespace splitting.
type ProseTokenizer struct{}

// NewProse creates a new ProseTokenizer instance.
func NewProse() Tokenizer {
	return &ProseTokenizer{}
}

// Tokenize returns the stemmed words of text. Punctuation and tokens with digits are dropped.
func (pt *ProseTokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	// only tokenization is needed; tagging, segmentation and NER are expensive
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		slog.Debug("Prose tokenization failed, falling back to whitespace", "error", err)
		return NewWhitespace().Tokenize(text)
	}

	var words []string
	for _, tok := range doc.Tokens() {
		if !hasLetter(tok.Text) || hasDigit(tok.Text) || !isUseful(tok.Text) {
			continue
		}
		if w := stem(tok.Text); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Name returns the name of this tokenizer.
func (pt *ProseTokenizer) Name() string {
	return "prose"
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
