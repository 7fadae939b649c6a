package tie

import "strings"

// maxSimilarityFiles caps how many changed files of each review are compared.
const maxSimilarityFiles = 500

// similarity scores the file path overlap of two reviews.
//
// Every pair of files contributes the share of path segments they have in common,
// relative to the longer path; the sum is damped by the number of pairs + 1.
// Reviews without changed files score 0. Results are memoized under the ordered
// pair (a.ID, b.ID).
func (m *Model) similarity(a, b *submission) float64 {
	key := pairKey{A: a.ID, B: b.ID}
	if score, ok := m.sims.get(key); ok {
		return score
	}

	filesA := truncateFiles(a.Files)
	filesB := truncateFiles(b.Files)
	if len(filesA) == 0 || len(filesB) == 0 {
		return 0
	}

	segmentsB := make([]map[string]struct{}, len(filesB))
	for i, f := range filesB {
		segmentsB[i] = pathSegments(f)
	}

	var sum float64
	for _, f1 := range filesA {
		s1 := pathSegments(f1)
		for _, s2 := range segmentsB {
			sum += segmentOverlap(s1, s2)
		}
	}

	score := sum / float64(len(filesA)*len(filesB)+1)
	m.sims.put(key, score)
	return score
}

func truncateFiles(files []string) []string {
	if len(files) > maxSimilarityFiles {
		return files[:maxSimilarityFiles]
	}
	return files
}

// pathSegments returns the set of '/'-separated segments of a path.
func pathSegments(path string) map[string]struct{} {
	parts := strings.Split(path, "/")
	set := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		set[p] = struct{}{}
	}
	return set
}

// segmentOverlap is |s1 ∩ s2| / max(|s1|, |s2|).
func segmentOverlap(s1, s2 map[string]struct{}) float64 {
	small, large := s1, s2
	if len(small) > len(large) {
		small, large = large, small
	}

	common := 0
	for seg := range small {
		if _, ok := large[seg]; ok {
			common++
		}
	}
	return float64(common) / float64(len(large))
}
