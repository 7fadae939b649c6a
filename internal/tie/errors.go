package tie

import "errors"

// Errors returned by the model. They are wrapped with context, so compare with errors.Is.
var (
	// ErrUnknownReviewer is returned when a reviewer id is not in the roster.
	ErrUnknownReviewer = errors.New("unknown reviewer")
	// ErrEmptyContent is returned by Update when no vocabulary word survives tokenization.
	ErrEmptyContent = errors.New("review has no known words")
	// ErrTimeFormat is returned when an uploaded time does not match TimeLayout.
	ErrTimeFormat = errors.New("invalid uploaded time")
	// ErrHistoryOrder is returned by Update when a review is older than the latest ingested one.
	ErrHistoryOrder = errors.New("review is older than ingested history")
	// ErrSnapshotType is returned by Load when the input is not a tie model snapshot.
	ErrSnapshotType = errors.New("not a tie model snapshot")
	// ErrInvalidConfig is returned by New for out-of-range parameters.
	ErrInvalidConfig = errors.New("invalid model configuration")
)
