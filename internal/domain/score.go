package domain

import "errors"

// ErrInvalidScore is returned when a review score is outside the known set.
var ErrInvalidScore = errors.New("invalid review score")

// Score represents the outcome of reviewing a card.
type Score string

// Review scores, from best to worst:
//   - ScoreGood: the card was recalled; the spacing interval doubles.
//   - ScorePoor: the card was barely recalled; the interval plateaus.
//   - ScoreFail: the card was not recalled; the interval progression resets.
const (
	ScoreGood Score = "good"
	ScorePoor Score = "poor"
	ScoreFail Score = "fail"
)

// Valid reports whether the score is one of the known review outcomes.
func (s Score) Valid() bool {
	switch s {
	case ScoreGood, ScorePoor, ScoreFail:
		return true
	default:
		return false
	}
}

// ParseScore converts a raw string into a Score.
// Returns ErrInvalidScore if the string is not a known outcome.
func ParseScore(raw string) (Score, error) {
	s := Score(raw)
	if !s.Valid() {
		return "", ErrInvalidScore
	}
	return s, nil
}
