package tie

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

const (
	snapshotFormat  = "tie-model"
	snapshotVersion = 1
)

// snapshot is the persisted form of a Model.
type snapshot struct {
	Format     string       `json:"format"`
	Version    int          `json:"version"`
	Alpha      float64      `json:"alpha"`
	WindowDays int          `json:"window-days"`
	CacheSize  int          `json:"cache-size"`
	Location   string       `json:"location"`
	Tokenizer  string       `json:"tokenizer,omitempty"`
	Vocabulary []string     `json:"vocabulary"`
	Roster     []string     `json:"roster"`
	History    []submission `json:"history"`
	Reviewers  []textCounts `json:"reviewers"`
	Cache      []cacheEntry `json:"cache"`
}

// tokenizerName returns the Name of tokenizers that have one.
func tokenizerName(t Tokenizer) string {
	if n, ok := t.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}

// Save writes the complete model state to w.
func (m *Model) Save(w io.Writer) error {
	snap := snapshot{
		Format:     snapshotFormat,
		Version:    snapshotVersion,
		Alpha:      m.cfg.Alpha,
		WindowDays: m.cfg.WindowDays,
		CacheSize:  m.cfg.CacheSize,
		Location:   m.cfg.Location.String(),
		Tokenizer:  tokenizerName(m.cfg.Tokenizer),
		Vocabulary: m.words.items,
		Roster:     m.reviewers.items,
		History:    m.history,
		Reviewers:  m.text,
		Cache:      m.sims.entries(),
	}
	if snap.History == nil {
		snap.History = []submission{}
	}

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// SaveFile writes the model to path, replacing any existing file.
func (m *Model) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file %q: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	if err := m.Save(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write model file %q: %w", path, err)
	}
	return f.Close()
}

// Load restores a model written by Save. The tokenizer is not persisted and must
// be supplied again; nil selects the single-space splitter. A tokenizer whose
// Name differs from the saved one is accepted with a warning.
//
// Input that is not a well-formed snapshot fails with ErrSnapshotType.
func Load(r io.Reader, tokenizer Tokenizer) (*Model, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var snap snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotType, err)
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after snapshot", ErrSnapshotType)
	}
	if snap.Format != snapshotFormat {
		return nil, fmt.Errorf("%w: format %q", ErrSnapshotType, snap.Format)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrSnapshotType, snap.Version)
	}

	loc, err := time.LoadLocation(snap.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: location %q: %v", ErrSnapshotType, snap.Location, err)
	}

	m, err := New(snap.Vocabulary, snap.Roster, Config{
		Alpha:      snap.Alpha,
		WindowDays: snap.WindowDays,
		Tokenizer:  tokenizer,
		CacheSize:  snap.CacheSize,
		Location:   loc,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotType, err)
	}
	if err := m.restore(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotType, err)
	}

	if name := tokenizerName(m.cfg.Tokenizer); snap.Tokenizer != "" && name != snap.Tokenizer {
		slog.Warn("Tokenizer differs from the one the model was saved with", "saved", snap.Tokenizer, "current", name)
	}

	slog.Debug("Loaded TIE model", "history", len(m.history), "cachedPairs", m.sims.len())
	return m, nil
}

// LoadFile restores a model from a file written by SaveFile.
func LoadFile(path string, tokenizer Tokenizer) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file %q: %w", path, err)
	}
	defer f.Close()

	return Load(bufio.NewReader(f), tokenizer)
}

// restore validates the snapshot body against the freshly built model and adopts it.
func (m *Model) restore(snap *snapshot) error {
	if m.words.len() != len(snap.Vocabulary) {
		return fmt.Errorf("vocabulary contains duplicates")
	}
	if m.reviewers.len() != len(snap.Roster) {
		return fmt.Errorf("roster contains duplicates")
	}
	if len(snap.Reviewers) != len(snap.Roster) {
		return fmt.Errorf("%d reviewer models for %d reviewers", len(snap.Reviewers), len(snap.Roster))
	}

	for i := range snap.History {
		sub := &snap.History[i]
		if i > 0 && sub.Uploaded < snap.History[i-1].Uploaded {
			return fmt.Errorf("history is not sorted at review %q", sub.ID)
		}
		for _, w := range sub.Words {
			if w < 0 || w >= m.words.len() {
				return fmt.Errorf("review %q has word code %d out of range", sub.ID, w)
			}
		}
		seen := make(map[int]bool, len(sub.Reviewers))
		for _, r := range sub.Reviewers {
			if r < 0 || r >= m.reviewers.len() {
				return fmt.Errorf("review %q has reviewer code %d out of range", sub.ID, r)
			}
			if seen[r] {
				return fmt.Errorf("review %q lists reviewer code %d twice", sub.ID, r)
			}
			seen[r] = true
		}
	}

	for i := range snap.Reviewers {
		tc := &snap.Reviewers[i]
		if tc.Words == nil {
			tc.Words = make(map[int]int)
		}
		tc.total = 0
		for w, c := range tc.Words {
			if w < 0 || w >= m.words.len() || c < 0 {
				return fmt.Errorf("reviewer %q has invalid word count %d:%d", snap.Roster[i], w, c)
			}
			tc.total += c
		}
	}

	m.history = snap.History
	m.text = snap.Reviewers
	for _, e := range snap.Cache {
		m.sims.put(e.pairKey, e.Score)
	}
	return nil
}
