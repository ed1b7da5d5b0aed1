package quizgen

import (
	"github.com/abhinav/readquiz/internal/llm"
	"github.com/abhinav/readquiz/internal/quiz"
)

// QuizSchema defines the JSON schema for quiz generation responses:
// a single object with exactly five questions, each carrying four
// options labeled A-D, one correct label, and a short explanation.
var QuizSchema = &llm.Schema{
	Name:        "article-quiz",
	Description: "A five-question multiple-choice quiz about one article",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"minItems":    quiz.QuestionCount,
				"maxItems":    quiz.QuestionCount,
				"description": "Exactly 5 questions covering the article",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Short unique identifier for this question, e.g. q1",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the reader",
						},
						"options": map[string]any{
							"type":        "object",
							"description": "Exactly four answer options keyed A through D",
							"properties": map[string]any{
								"A": map[string]any{"type": "string"},
								"B": map[string]any{"type": "string"},
								"C": map[string]any{"type": "string"},
								"D": map[string]any{"type": "string"},
							},
							"required":             []any{"A", "B", "C", "D"},
							"additionalProperties": false,
						},
						"correctAnswer": map[string]any{
							"type":        "string",
							"enum":        []any{"A", "B", "C", "D"},
							"description": "The label of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences explaining why the answer is correct",
						},
					},
					"required":             []any{"id", "question", "options", "correctAnswer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
