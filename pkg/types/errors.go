package types

import "errors"

var (
	// ErrInvalidScore is returned when a result score leaves [0,1].
	ErrInvalidScore = errors.New("score out of range [0,1]")
	// ErrUnknownContentType is returned for content types outside the enum.
	ErrUnknownContentType = errors.New("unknown content type")
)

// ValidateScore checks the score bound invariant for a result.
func (r *ScoredResult) ValidateScore() error {
	if r.Score < 0 || r.Score > 1 {
		return ErrInvalidScore
	}
	return nil
}
