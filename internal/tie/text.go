package tie

// fallbackWordCount stands in for the count of a word a reviewer has never seen.
const fallbackWordCount = 1e-9

// textCounts is the bag-of-words model of one reviewer.
type textCounts struct {
	Submissions int         `json:"submissions"`
	Words       map[int]int `json:"words"` // vocabulary code -> occurrences
	total       int         // sum of Words
}

func newTextCounts() textCounts {
	return textCounts{Words: make(map[int]int)}
}

func (tc *textCounts) add(words []int) {
	tc.Submissions++
	for _, w := range words {
		tc.Words[w]++
	}
	tc.total += len(words)
}

// textScore estimates how well a reviewer's past reviews explain the submission's words:
//
//	P(reviewer) * prod_w count(reviewer, w) / (total(reviewer) + 1)
//
// where P(reviewer) is the share of ingested reviews the reviewer took part in.
// Returns 0 while history is empty. The plain product may underflow to 0 for
// long descriptions; ties are then broken by roster order in Recommend.
func (m *Model) textScore(sub *submission, reviewer int) float64 {
	if len(m.history) == 0 {
		return 0
	}

	tc := &m.text[reviewer]
	denom := float64(tc.total + 1)
	product := 1.0
	for _, w := range sub.Words {
		count := fallbackWordCount
		if c, ok := tc.Words[w]; ok {
			count = float64(c)
		}
		product *= count / denom
	}

	return float64(tc.Submissions) / float64(len(m.history)) * product
}
