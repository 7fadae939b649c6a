// Package dataset loads code review datasets and derives the vocabulary and reviewer
// roster a TIE model is built over.
//
// A dataset is a JSON array of review records, oldest first:
//
//	[{"id": 1, "uploaded-time": "2015-01-05 10:12:00", "textual-content": "Fix crash",
//	  "changed-files": ["src/a.c"], "reviewers": [{"id": 1000}]}, ...]
package dataset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chriscorrea/tie/internal/tie"

	json "github.com/goccy/go-json"
)

// Load reads every review from a source (see Open).
func Load(ctx context.Context, source string) ([]tie.Review, error) {
	rc, err := Open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reviews, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reviews from %q: %w", source, err)
	}

	slog.Debug("Loaded dataset", "source", source, "reviews", len(reviews))
	return reviews, nil
}

// Decode parses a JSON array of reviews.
func Decode(r io.Reader) ([]tie.Review, error) {
	var reviews []tie.Review
	if err := json.NewDecoder(bufio.NewReader(r)).Decode(&reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// LoadReview reads a single review object from a source.
func LoadReview(ctx context.Context, source string) (tie.Review, error) {
	rc, err := Open(ctx, source)
	if err != nil {
		return tie.Review{}, err
	}
	defer rc.Close()

	var r tie.Review
	if err := json.NewDecoder(rc).Decode(&r); err != nil {
		return tie.Review{}, fmt.Errorf("failed to decode review from %q: %w", source, err)
	}
	return r, nil
}

// Roster lists every reviewer id in order of first appearance.
func Roster(reviews []tie.Review) []string {
	seen := make(map[tie.ID]bool)
	var roster []string
	for _, r := range reviews {
		for _, ref := range r.Reviewers {
			if seen[ref.ID] {
				continue
			}
			seen[ref.ID] = true
			roster = append(roster, string(ref.ID))
		}
	}
	return roster
}

// Vocabulary lists every word the tokenizer produces over all review texts,
// in order of first appearance.
func Vocabulary(reviews []tie.Review, tok tie.Tokenizer) []string {
	seen := make(map[string]bool)
	var words []string
	for _, r := range reviews {
		for _, w := range tok.Tokenize(r.TextualContent) {
			if seen[w] {
				continue
			}
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}
