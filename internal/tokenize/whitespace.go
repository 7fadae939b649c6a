package tokenize

import (
	"log/slog"
	"regexp"
	"strings"
)

// whitespaceRegex is compiled once at package initialization
var whitespaceRegex = regexp.MustCompile(`\s+`)

// edgePunctuation is trimmed once from each end of a word.
const edgePunctuation = `.,:'"`

// WhitespaceTokenizer splits on whitespace, drops words containing digits or URLs,
// trims one punctuation character from each end and stems what remains.
type WhitespaceTokenizer struct{}

// NewWhitespace creates a new WhitespaceTokenizer instance.
func NewWhitespace() Tokenizer {
	return &WhitespaceTokenizer{}
}

// Tokenize returns the stemmed words of text.
func (wt *WhitespaceTokenizer) Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}

	var words []string
	for _, raw := range whitespaceRegex.Split(text, -1) {
		if raw == "" || !isUseful(raw) {
			continue
		}
		if w := stem(trimEdges(raw)); w != "" {
			words = append(words, w)
		}
	}

	slog.Debug("Whitespace tokenization", "textLength", len(text), "words", len(words))
	return words
}

// Name returns the name of this tokenizer.
func (wt *WhitespaceTokenizer) Name() string {
	return "whitespace"
}

// isUseful filters out numbers, versions, hashes and links.
func isUseful(word string) bool {
	if hasDigit(word) {
		return false
	}
	return !strings.Contains(word, "http://") && !strings.Contains(word, "https://")
}

// trimEdges removes at most one punctuation character from each end.
func trimEdges(word string) string {
	if word != "" && strings.ContainsRune(edgePunctuation, rune(word[len(word)-1])) {
		word = word[:len(word)-1]
	}
	if word != "" && strings.ContainsRune(edgePunctuation, rune(word[0])) {
		word = word[1:]
	}
	return word
}
