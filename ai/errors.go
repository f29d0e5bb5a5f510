package ai

import "errors"

var (
	// ErrScoringUnavailable is returned by scorers that have no external
	// scoring service behind them.
	ErrScoringUnavailable = errors.New("answer scoring unavailable")

	// ErrScoreCountMismatch is returned when a scoring service responds
	// with a different number of scores than candidates sent.
	ErrScoreCountMismatch = errors.New("score count does not match candidate count")
)
