package quizgen

import (
	"fmt"

	"github.com/abhinav/readquiz/internal/quiz"
)

// validateOutput checks the decoded model output against the quiz contract
// and converts it into domain questions. Validation is atomic: any
// violation discards the entire result.
func validateOutput(raw quizOutput) ([]quiz.Question, *ErrSchemaViolation) {
	if len(raw.Questions) != quiz.QuestionCount {
		return nil, &ErrSchemaViolation{
			Reason: fmt.Sprintf("expected %d questions, got %d", quiz.QuestionCount, len(raw.Questions)),
		}
	}

	seen := make(map[string]bool, quiz.QuestionCount)
	out := make([]quiz.Question, 0, quiz.QuestionCount)

	for i, q := range raw.Questions {
		if q.ID == "" {
			return nil, &ErrSchemaViolation{Reason: fmt.Sprintf("question %d: id is empty", i+1)}
		}
		if seen[q.ID] {
			return nil, &ErrSchemaViolation{Reason: fmt.Sprintf("question %d: duplicate id %q", i+1, q.ID)}
		}
		seen[q.ID] = true

		if q.Question == "" {
			return nil, &ErrSchemaViolation{Reason: fmt.Sprintf("question %d: prompt is empty", i+1)}
		}
		if q.Explanation == "" {
			return nil, &ErrSchemaViolation{Reason: fmt.Sprintf("question %d: explanation is empty", i+1)}
		}

		if len(q.Options) != quiz.OptionCount {
			return nil, &ErrSchemaViolation{
				Reason: fmt.Sprintf("question %d: expected %d options, got %d", i+1, quiz.OptionCount, len(q.Options)),
			}
		}

		opts := make(map[quiz.Label]string, quiz.OptionCount)
		for _, label := range quiz.Labels {
			text, ok := q.Options[string(label)]
			if !ok {
				return nil, &ErrSchemaViolation{Reason: fmt.Sprintf("question %d: missing option %s", i+1, label)}
			}
			if text == "" {
				return nil, &ErrSchemaViolation{Reason: fmt.Sprintf("question %d: option %s is empty", i+1, label)}
			}
			opts[label] = text
		}

		correct, ok := quiz.ParseLabel(q.CorrectAnswer)
		if !ok {
			return nil, &ErrSchemaViolation{
				Reason: fmt.Sprintf("question %d: correctAnswer %q is not one of A, B, C, D", i+1, q.CorrectAnswer),
			}
		}

		out = append(out, quiz.Question{
			ID:            q.ID,
			Prompt:        q.Question,
			Options:       opts,
			CorrectAnswer: correct,
			Explanation:   q.Explanation,
		})
	}

	return out, nil
}
