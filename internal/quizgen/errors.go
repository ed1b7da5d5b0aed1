package quizgen

import "fmt"

// ErrNetwork indicates the transport to the completion endpoint failed,
// including non-success HTTP status, timeouts, and cancellation.
type ErrNetwork struct {
	Err error
}

func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("quiz generation: network failure: %v", e.Err)
}

func (e *ErrNetwork) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the transport succeeded but the response
// envelope or message content was missing or not parseable as JSON.
type ErrInvalidResponse struct {
	Err error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("quiz generation: invalid response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrSchemaViolation indicates the content parsed as JSON but fails the
// question/option/answer-label contract. The entire result is discarded;
// there is no auto-correction, dropping of bad questions, or padding.
type ErrSchemaViolation struct {
	Reason string
}

func (e *ErrSchemaViolation) Error() string {
	return fmt.Sprintf("quiz generation: schema violation: %s", e.Reason)
}
