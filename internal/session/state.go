package session

import "github.com/abhinav/readquiz/internal/quiz"

// Phase is the lifecycle phase of a session.
type Phase int

const (
	// PhaseLoading is the initial phase: no quiz adopted yet. Load
	// failures leave the session here, retryable.
	PhaseLoading Phase = iota

	// PhaseInProgress means a quiz is active and answers are being collected.
	PhaseInProgress

	// PhaseCompleted is terminal: all questions answered and scored.
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseInProgress:
		return "in-progress"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

// State is an immutable snapshot of the session state machine.
type State struct {
	Phase         Phase
	QuestionIndex int
	Answers       map[string]quiz.Label
	Score         int
}

// inProgress returns a fresh InProgress(0, {}) state.
func inProgress() State {
	return State{
		Phase:   PhaseInProgress,
		Answers: make(map[string]quiz.Label),
	}
}

// clone copies the state so callers can't mutate internal maps.
func (st State) clone() State {
	answers := make(map[string]quiz.Label, len(st.Answers))
	for k, v := range st.Answers {
		answers[k] = v
	}
	st.Answers = answers
	return st
}
