package quizgen

import (
	"fmt"
	"strings"

	"github.com/abhinav/readquiz/internal/quiz"
)

const systemPrompt = `You are a quiz writer creating comprehension quizzes for readers of long-form articles.

Rules:
- Generate exactly 5 multiple-choice questions about the given article.
- Every question must be answerable from the article text alone. Do not rely on outside knowledge.
- Each question has exactly 4 options labeled A, B, C, D, with exactly one correct option.
- Distractors must be plausible statements a careless reader might believe, not random noise.
- Cover different parts of the article; do not ask two questions about the same sentence.
- Keep each question prompt under 200 characters and each option under 120 characters.
- The explanation states in one or two sentences why the correct option is right.
- Respond with a single JSON object matching the requested schema. No prose outside the JSON.`

// buildUserMessage constructs the deterministic user message embedding the
// article's title and full content. Same article in, same prompt out.
func buildUserMessage(article quiz.Article) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\n", article.Title)
	b.WriteString("\nArticle:\n")
	b.WriteString(article.Content)
	b.WriteString("\n\nWrite the 5-question quiz for this article.")

	return b.String()
}
