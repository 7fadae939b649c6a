package evaluate

import (
	"fmt"
	"io"
	"math"
	"os"

	json "github.com/goccy/go-json"

	"github.com/chriscorrea/tie/internal/tie"
)

// Result is the recorded recommendation for one review.
type Result struct {
	ReviewID tie.ID   `json:"review-id"`
	Result   []string `json:"result"`
}

// Metrics are running accuracy figures, each in [0,1].
type Metrics struct {
	Evaluated int
	Top1      float64
	Top3      float64
	Top5      float64
	Top10     float64
	MRR       float64
}

// Report is the outcome of an evaluation run.
type Report struct {
	Results []Result
	Metrics Metrics
	Skipped int // reviews not ingested for lack of known words
}

// reportJSON is the results document layout; accuracies are rounded to two decimals.
type reportJSON struct {
	Results []Result `json:"recommendation-results"`
	Top10   float64  `json:"top10-accuracy"`
	Top5    float64  `json:"top5-accuracy"`
	Top3    float64  `json:"top3-accuracy"`
	Top1    float64  `json:"top1-accuracy"`
	MRR     float64  `json:"mrr"`
}

// MarshalJSON encodes the report as a results document.
func (r Report) MarshalJSON() ([]byte, error) {
	results := r.Results
	if results == nil {
		results = []Result{}
	}
	return json.Marshal(reportJSON{
		Results: results,
		Top10:   round2(r.Metrics.Top10),
		Top5:    round2(r.Metrics.Top5),
		Top3:    round2(r.Metrics.Top3),
		Top1:    round2(r.Metrics.Top1),
		MRR:     round2(r.Metrics.MRR),
	})
}

// Write encodes the report to w.
func (r *Report) Write(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteFile writes the report to path, replacing any existing file.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := r.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
