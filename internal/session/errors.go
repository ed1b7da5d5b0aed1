package session

import "errors"

var (
	// ErrNoActiveQuiz indicates an operation was attempted before Load
	// succeeded, or after the session completed.
	ErrNoActiveQuiz = errors.New("session: no active quiz")

	// ErrNoSelection indicates Advance was called before the current
	// question had a recorded answer. A caller error.
	ErrNoSelection = errors.New("session: current question has no selected answer")

	// ErrIndexOutOfRange indicates the question index left the valid
	// range. Defensive; unreachable under correct use.
	ErrIndexOutOfRange = errors.New("session: question index out of range")

	// ErrInvalidLabel indicates SelectAnswer received a label outside A-D.
	ErrInvalidLabel = errors.New("session: selected label is not one of A, B, C, D")
)
