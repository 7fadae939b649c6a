// Package tie implements the TIE reviewer recommendation model.
//
// TIE ("text and file location") ranks candidate reviewers for a code change by
// combining two signals:
//   - a per-reviewer bag-of-words model over review descriptions (Naive-Bayes style)
//   - a time-windowed file path similarity against reviews each reviewer handled before
//
// The model is incremental: reviews are ingested one at a time in upload order with
// Update, and Recommend can be called for an unseen review at any point in between.
//
// Usage Example:
//
//	model, err := tie.New(words, reviewers, tie.DefaultConfig())
//	if err != nil { ... }
//	_ = model.Update(previousReview)
//	ranked, err := model.Recommend(newReview, 10)
//
// A Model is not safe for concurrent use; callers must serialize access.
package tie

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	// DefaultAlpha weighs the text score against the path score.
	DefaultAlpha = 0.7
	// DefaultWindowDays is the number of days of history used for path scores.
	DefaultWindowDays = 100
	// TimeLayout is the only accepted format for uploaded times.
	TimeLayout = "2006-01-02 15:04:05"
)

// Tokenizer splits review text into words.
type Tokenizer interface {
	Tokenize(text string) []string
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(text string) []string

// Tokenize calls f(text).
func (f TokenizerFunc) Tokenize(text string) []string {
	return f(text)
}

// spaceTokenizer splits on single spaces; the fallback when no tokenizer is configured.
type spaceTokenizer struct{}

func (spaceTokenizer) Tokenize(text string) []string {
	return strings.Split(text, " ")
}

func (spaceTokenizer) Name() string {
	return "spaces"
}

// Config holds the immutable parameters of a Model.
type Config struct {
	Alpha      float64        // weight of the normalized text score, in [0,1]
	WindowDays int            // path score history window in days
	Tokenizer  Tokenizer      // nil splits on single spaces
	CacheSize  int            // similarity cache capacity; 0 keeps every pair
	Location   *time.Location // zone for parsing uploaded times; nil means UTC
}

// DefaultConfig returns the recommended parameters: alpha 0.7 over a 100-day window.
func DefaultConfig() Config {
	return Config{
		Alpha:      DefaultAlpha,
		WindowDays: DefaultWindowDays,
		Location:   time.UTC,
	}
}

// Model is the incremental TIE recommender. All state is owned by the value;
// independent models can coexist.
type Model struct {
	cfg       Config
	words     *index
	reviewers *index
	history   []submission
	text      []textCounts // indexed by reviewer code
	sims      pairCache
}

// New creates an empty model over a fixed vocabulary and reviewer roster.
// Duplicate words or reviewers keep the code of their first occurrence.
func New(words, reviewers []string, cfg Config) (*Model, error) {
	if !(cfg.Alpha >= 0 && cfg.Alpha <= 1) {
		return nil, fmt.Errorf("%w: alpha %v outside [0,1]", ErrInvalidConfig, cfg.Alpha)
	}
	if cfg.WindowDays < 0 {
		return nil, fmt.Errorf("%w: negative window of %d days", ErrInvalidConfig, cfg.WindowDays)
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("%w: negative cache size %d", ErrInvalidConfig, cfg.CacheSize)
	}
	if cfg.Tokenizer == nil {
		cfg.Tokenizer = spaceTokenizer{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	sims, err := newPairCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	m := &Model{
		cfg:       cfg,
		words:     newIndex(words),
		reviewers: newIndex(reviewers),
		sims:      sims,
	}
	m.text = make([]textCounts, m.reviewers.len())
	for i := range m.text {
		m.text[i] = newTextCounts()
	}

	slog.Debug("Created TIE model",
		"words", m.words.len(),
		"reviewers", m.reviewers.len(),
		"alpha", cfg.Alpha,
		"windowDays", cfg.WindowDays,
		"cacheSize", cfg.CacheSize)
	return m, nil
}

// Update ingests a review that carries its actual reviewers.
//
// The review is rejected as a whole, before any state changes, when a reviewer
// is not in the roster, the uploaded time is malformed or older than the latest
// ingested review, or no known word survives tokenization.
func (m *Model) Update(r Review) error {
	sub, err := m.transform(r, true)
	if err != nil {
		return err
	}
	if len(sub.Words) == 0 {
		return fmt.Errorf("%w: review %q", ErrEmptyContent, r.ID)
	}
	if n := len(m.history); n > 0 && sub.Uploaded < m.history[n-1].Uploaded {
		return fmt.Errorf("%w: review %q uploaded at %s, latest ingested is %s",
			ErrHistoryOrder, r.ID, r.UploadedTime,
			time.Unix(m.history[n-1].Uploaded, 0).In(m.cfg.Location).Format(TimeLayout))
	}

	for _, code := range sub.Reviewers {
		m.text[code].add(sub.Words)
	}
	m.history = append(m.history, sub)

	slog.Debug("Ingested review", "id", sub.ID, "words", len(sub.Words), "files", len(sub.Files), "reviewers", len(sub.Reviewers))
	return nil
}

// Config returns the parameters the model was built with.
func (m *Model) Config() Config {
	return m.cfg
}

// Stats summarizes model state.
type Stats struct {
	Words       int
	Reviewers   int
	History     int
	CachedPairs int
	FirstUpload time.Time
	LastUpload  time.Time
}

// Stats reports the sizes of the model's structures.
func (m *Model) Stats() Stats {
	s := Stats{
		Words:       m.words.len(),
		Reviewers:   m.reviewers.len(),
		History:     len(m.history),
		CachedPairs: m.sims.len(),
	}
	if n := len(m.history); n > 0 {
		s.FirstUpload = time.Unix(m.history[0].Uploaded, 0).In(m.cfg.Location)
		s.LastUpload = time.Unix(m.history[n-1].Uploaded, 0).In(m.cfg.Location)
	}
	return s
}

// Roster returns the reviewer ids in code order.
func (m *Model) Roster() []string {
	return append([]string(nil), m.reviewers.items...)
}
