package tokenize

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// stem lowercases and stems an English word.
func stem(word string) string {
	word = strings.ToLower(word)
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil {
		// if stemming fails, use the original word
		return word
	}
	return stemmed
}

// hasDigit reports whether s contains an ASCII or Unicode digit.
func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
