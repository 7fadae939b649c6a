// Package evaluate replays a review dataset through a TIE model and measures how well
// it predicts the actual reviewers.
//
// Reviews are consumed in pairs: the first review of a pair is ingested, the model
// then recommends reviewers for the second one, and finally the second review is
// ingested too. Every prediction is scored with top-k accuracy and reciprocal rank.
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chriscorrea/tie/internal/tie"
)

const (
	// DefaultRecommendCount is how many reviewers are ranked per prediction.
	DefaultRecommendCount = 1000
	// DefaultTopK is how many recommended ids are kept in the report per review.
	DefaultTopK = 10

	// missRank is the rank given to a prediction that names none of the actual reviewers.
	missRank = 100_000_000
)

// cutoffs are the list prefixes accuracy is measured on.
var cutoffs = [...]int{1, 3, 5, 10}

// Options tune an evaluation run.
type Options struct {
	MaxReviews     int // stop after this many reviews; 0 means all
	RecommendCount int // ranked list length per prediction; 0 means DefaultRecommendCount
	TopK           int // recorded prefix length; 0 means DefaultTopK

	// Progress, when set, is called after every evaluated pair with the number of
	// reviews consumed so far and the number that will be consumed in total.
	Progress func(done, total int)
}

func (o Options) withDefaults() Options {
	if o.RecommendCount <= 0 {
		o.RecommendCount = DefaultRecommendCount
	}
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	return o
}

// Run evaluates model against reviews, which must be sorted by upload time.
//
// Reviews the model rejects for having no known words are skipped with a warning.
// Any other model error aborts the run. The model keeps every ingested review,
// so it can be saved afterwards.
func Run(ctx context.Context, model *tie.Model, reviews []tie.Review, opts Options) (*Report, error) {
	if model == nil {
		return nil, errors.New("evaluate: nil model")
	}
	opts = opts.withDefaults()

	limit := len(reviews)
	if opts.MaxReviews > 0 && opts.MaxReviews < limit {
		limit = opts.MaxReviews
	}

	report := &Report{Results: []Result{}}
	var acc accumulator

	slog.Debug("Starting evaluation", "reviews", len(reviews), "limit", limit, "recommendCount", opts.RecommendCount)

	for i := 0; i < limit && i+1 < len(reviews); i += 2 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("evaluation interrupted after %d reviews: %w", i, err)
		}

		current, next := reviews[i], reviews[i+1]
		if err := ingest(model, current, &report.Skipped); err != nil {
			return nil, err
		}

		ranked, err := model.Recommend(next, opts.RecommendCount)
		if err != nil {
			return nil, fmt.Errorf("failed to recommend reviewers for review %q: %w", next.ID, err)
		}

		top := prefix(ranked, opts.TopK)
		report.Results = append(report.Results, Result{ReviewID: next.ID, Result: top})

		actual := actualReviewers(next)
		acc.add(ranked, actual)
		report.Metrics = acc.metrics()

		slog.Info("Evaluated review",
			"progress", fmt.Sprintf("%d/%d", i+1, len(reviews)),
			"id", next.ID,
			"recommended", top,
			"actual", actual)
		slog.Info("Running accuracy",
			"top10", report.Metrics.Top10,
			"top5", report.Metrics.Top5,
			"top3", report.Metrics.Top3,
			"top1", report.Metrics.Top1,
			"mrr", report.Metrics.MRR)

		if err := ingest(model, next, &report.Skipped); err != nil {
			return nil, err
		}

		if opts.Progress != nil {
			opts.Progress(min(i+2, limit), limit)
		}
	}

	slog.Debug("Finished evaluation", "evaluated", report.Metrics.Evaluated, "skipped", report.Skipped)
	return report, nil
}

// ingest updates the model, counting reviews without known words as skipped.
func ingest(model *tie.Model, r tie.Review, skipped *int) error {
	err := model.Update(r)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tie.ErrEmptyContent):
		slog.Warn("Skipping review without known words", "id", r.ID)
		*skipped++
		return nil
	default:
		return fmt.Errorf("failed to ingest review %q: %w", r.ID, err)
	}
}

func actualReviewers(r tie.Review) []string {
	ids := make([]string, len(r.Reviewers))
	for i, ref := range r.Reviewers {
		ids[i] = string(ref.ID)
	}
	return ids
}

func prefix(ids []string, n int) []string {
	if n > len(ids) {
		n = len(ids)
	}
	return append([]string{}, ids[:n]...)
}

// accumulator sums hits and reciprocal ranks over all predictions.
type accumulator struct {
	predicted int
	hits      [len(cutoffs)]int
	rrSum     float64
}

func (a *accumulator) add(ranked, actual []string) {
	a.predicted++

	isActual := make(map[string]bool, len(actual))
	for _, id := range actual {
		isActual[id] = true
	}

	rank := missRank
	for k, id := range ranked {
		if isActual[id] {
			rank = k
			break
		}
	}
	a.rrSum += 1 / float64(rank+1)

	for c, cutoff := range cutoffs {
		if rank < cutoff {
			a.hits[c]++
		}
	}
}

func (a *accumulator) metrics() Metrics {
	if a.predicted == 0 {
		return Metrics{}
	}
	n := float64(a.predicted)
	return Metrics{
		Evaluated: a.predicted,
		Top1:      float64(a.hits[0]) / n,
		Top3:      float64(a.hits[1]) / n,
		Top5:      float64(a.hits[2]) / n,
		Top10:     float64(a.hits[3]) / n,
		MRR:       a.rrSum / n,
	}
}
