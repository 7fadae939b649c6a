package tie

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// ID is an opaque identifier. In JSON it may be a string or a number.
type ID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Review is a raw code review record as found in review datasets.
// UploadedTime uses TimeLayout. Reviewers are only required for Update.
type Review struct {
	ID             ID            `json:"id"`
	UploadedTime   string        `json:"uploaded-time"`
	TextualContent string        `json:"textual-content"`
	ChangedFiles   []string      `json:"changed-files"`
	Reviewers      []ReviewerRef `json:"reviewers,omitempty"`
}

// ReviewerRef names one reviewer of a review.
type ReviewerRef struct {
	ID ID `json:"id"`
}

// submission is the indexed form of a Review kept in history.
type submission struct {
	ID        ID       `json:"id"`
	Uploaded  int64    `json:"uploaded"` // unix seconds
	Words     []int    `json:"words"`    // vocabulary codes, repeats kept
	Files     []string `json:"files"`
	Reviewers []int    `json:"reviewers,omitempty"`
}

// transform converts a raw review into its indexed form. Reviewers are resolved
// only when withReviewers is set, so recommendation queries never fail on them.
func (m *Model) transform(r Review, withReviewers bool) (submission, error) {
	sub := submission{
		ID:    r.ID,
		Files: r.ChangedFiles,
	}

	for _, word := range m.cfg.Tokenizer.Tokenize(r.TextualContent) {
		if code, ok := m.words.code(word); ok {
			sub.Words = append(sub.Words, code)
		}
	}

	if withReviewers {
		seen := make(map[int]bool, len(r.Reviewers))
		for _, ref := range r.Reviewers {
			code, ok := m.reviewers.code(string(ref.ID))
			if !ok {
				return submission{}, fmt.Errorf("%w: %q in review %q", ErrUnknownReviewer, ref.ID, r.ID)
			}
			if seen[code] {
				continue
			}
			seen[code] = true
			sub.Reviewers = append(sub.Reviewers, code)
		}
	}

	uploaded, err := time.ParseInLocation(TimeLayout, r.UploadedTime, m.cfg.Location)
	// the parser also accepts fractional seconds after the layout's seconds field
	if err == nil && len(r.UploadedTime) != len(TimeLayout) {
		err = fmt.Errorf("unexpected trailing characters")
	}
	if err != nil {
		return submission{}, fmt.Errorf("%w: %q in review %q", ErrTimeFormat, r.UploadedTime, r.ID)
	}
	sub.Uploaded = uploaded.Unix()

	return sub, nil
}
