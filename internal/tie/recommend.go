package tie

import (
	"log/slog"
	"sort"
)

// zeroSumEpsilon replaces a zero score total during normalization.
const zeroSumEpsilon = 1e-15

// Score is the breakdown of one reviewer's rank.
type Score struct {
	Reviewer string
	Text     float64 // raw text score
	Path     float64 // raw path score
	NormText float64 // Text divided by the sum over all reviewers
	NormPath float64 // Path divided by the sum over all reviewers
	Fused    float64 // Alpha*NormText + (1-Alpha)*NormPath
}

// Scores ranks every roster member for a review, best first.
//
// The review's reviewers field is ignored. Both raw scores are normalized into
// distributions over the roster before fusion; when a score is 0 for everyone
// its total is taken as 1e-15, so those components stay 0. Ties keep roster
// order, which makes the result deterministic for a given model state.
func (m *Model) Scores(r Review) ([]Score, error) {
	sub, err := m.transform(r, false)
	if err != nil {
		return nil, err
	}

	paths := m.pathScores(&sub)
	scores := make([]Score, m.reviewers.len())
	var textSum, pathSum float64
	for code := range scores {
		text := m.textScore(&sub, code)
		scores[code] = Score{
			Reviewer: m.reviewers.item(code),
			Text:     text,
			Path:     paths[code],
		}
		textSum += text
		pathSum += paths[code]
	}

	if textSum == 0 {
		textSum = zeroSumEpsilon
	}
	if pathSum == 0 {
		pathSum = zeroSumEpsilon
	}

	alpha := m.cfg.Alpha
	for i := range scores {
		s := &scores[i]
		s.NormText = s.Text / textSum
		s.NormPath = s.Path / pathSum
		s.Fused = s.NormText*alpha + s.NormPath*(1-alpha)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Fused > scores[j].Fused
	})

	slog.Debug("Scored reviewers", "id", r.ID, "reviewers", len(scores), "textSum", textSum, "pathSum", pathSum)
	return scores, nil
}

// Recommend returns up to maxCount reviewer ids for a review, best first.
// A model with no history returns the first maxCount roster entries.
func (m *Model) Recommend(r Review, maxCount int) ([]string, error) {
	scores, err := m.Scores(r)
	if err != nil {
		return nil, err
	}

	if maxCount < 0 {
		maxCount = 0
	}
	if maxCount > len(scores) {
		maxCount = len(scores)
	}

	ranked := make([]string, maxCount)
	for i := range ranked {
		ranked[i] = scores[i].Reviewer
	}
	return ranked, nil
}
