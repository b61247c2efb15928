package engine

import "errors"

var (
	// ErrRuleViolation reports an action outside the legal set for the
	// current state. The state is left unchanged.
	ErrRuleViolation = errors.New("rule violation")

	// ErrInvalidAction reports an action index that does not decode to a
	// currently legal action.
	ErrInvalidAction = errors.New("invalid action")

	// ErrEmptyDeck signals that the draw pile is exhausted.
	ErrEmptyDeck = errors.New("deck is empty")

	// ErrNoLegalActions is returned if a non-terminal state has no legal
	// action. Take or StopAttack is always available, so this indicates a
	// corrupted state.
	ErrNoLegalActions = errors.New("no legal actions")

	// ErrGameOver reports an action applied to a finished game.
	ErrGameOver = errors.New("game is already over")

	// ErrBadSnapshot reports a snapshot that cannot be parsed or violates
	// the state invariants.
	ErrBadSnapshot = errors.New("bad snapshot")
)
