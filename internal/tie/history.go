package tie

import (
	"log/slog"
	"sort"
)

const secondsPerDay = 24 * 60 * 60

// window locates the ingested reviews uploaded strictly between start and end.
//
// It returns the smallest index uploaded after start and the largest index uploaded
// before end, found by binary search over the time-sorted history. ok is false
// when no review is newer than start or none is older than end. lo > hi means the
// window is empty.
func (m *Model) window(start, end int64) (lo, hi int, ok bool) {
	n := len(m.history)
	lo = sort.Search(n, func(i int) bool {
		return m.history[i].Uploaded > start
	})
	hi = sort.Search(n, func(i int) bool {
		return m.history[i].Uploaded >= end
	}) - 1
	if lo == n || hi < 0 {
		return 0, 0, false
	}
	return lo, hi, true
}

// pathScores computes the path score of every reviewer for a submission.
//
// A reviewer's path score is the summed similarity between the submission and the
// reviews in the preceding WindowDays that the reviewer took part in. The reviews
// considered are indices [lo, hi) of the window, so the latest review before the
// submission's upload time does not contribute. Every reviewer scores 0 when the
// window is invalid.
func (m *Model) pathScores(sub *submission) []float64 {
	scores := make([]float64, m.reviewers.len())

	end := sub.Uploaded
	start := end - int64(m.cfg.WindowDays)*secondsPerDay
	lo, hi, ok := m.window(start, end)
	if !ok {
		slog.Debug("Empty history window", "id", sub.ID, "start", start, "end", end)
		return scores
	}

	for i := lo; i < hi; i++ {
		old := &m.history[i]
		c := m.similarity(old, sub)
		// reviewer codes are unique per submission, so each review counts once
		for _, r := range old.Reviewers {
			scores[r] += c
		}
	}

	slog.Debug("Path scores computed", "id", sub.ID, "windowStart", lo, "windowEnd", hi)
	return scores
}
