package quiz

import "time"

// Attempt is the immutable record of one completed quiz-taking session.
// Created exactly once per completed session; never mutated.
type Attempt struct {
	ID             string
	UserID         string
	QuizID         string
	ArticleID      string
	Score          int
	TotalQuestions int
	Answers        map[string]Label // question ID → selected label
	CompletedAt    time.Time
}

// ScorePercent returns the attempt's score as a percentage (0-100).
func (a Attempt) ScorePercent() float64 {
	return ScorePercent(a.Score, a.TotalQuestions)
}

// Statistics holds derived per-user rollups. Recomputed from the attempt
// history on demand; a cache, not a source of truth.
type Statistics struct {
	UserID                string
	TotalAttempted        int
	AverageScorePercent   float64
	CompletionRatePercent float64
	TopicScores           map[string]float64
	LastUpdated           time.Time
}

// Score counts the questions whose recorded answer matches the correct
// label. Unanswered questions count as wrong.
func Score(questions []Question, answers map[string]Label) int {
	score := 0
	for _, q := range questions {
		if answers[q.ID] == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// ScorePercent converts a score / total pair into a percentage.
// Returns 0 when total is 0 rather than dividing by zero.
func ScorePercent(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
