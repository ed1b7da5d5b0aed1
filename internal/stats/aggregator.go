// Package stats derives per-user rollups from the attempt history.
// Statistics are a recomputed view, never independently authored.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/abhinav/readquiz/internal/articles"
	"github.com/abhinav/readquiz/internal/quiz"
	"github.com/abhinav/readquiz/internal/store"
)

// TopicResolver maps an article to its topic tags. Optional extension
// point: with no resolver, TopicScores stays empty.
type TopicResolver interface {
	TopicsFor(ctx context.Context, articleID string) ([]string, error)
}

// Aggregator computes per-user statistics from stored attempts.
type Aggregator struct {
	repo   store.QuizRepository
	topics TopicResolver
}

// New creates an Aggregator. topics may be nil.
func New(repo store.QuizRepository, topics TopicResolver) *Aggregator {
	return &Aggregator{repo: repo, topics: topics}
}

// ComputeStatistics recomputes the user's rollups from their full attempt
// history and overwrites the cached statistics document.
//
// CompletionRatePercent is the percentage of attempts with score > 0. That
// formula conflates non-zero performance with completion, but it is the
// observed behavior; changing its meaning is a product decision.
func (a *Aggregator) ComputeStatistics(ctx context.Context, userID string) (*quiz.Statistics, error) {
	attempts, err := a.repo.AttemptsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load attempts for %s: %w", userID, err)
	}

	stats := &quiz.Statistics{
		UserID:      userID,
		TopicScores: map[string]float64{},
		LastUpdated: time.Now().UTC(),
	}

	stats.TotalAttempted = len(attempts)
	if len(attempts) > 0 {
		var pctSum float64
		nonZero := 0
		for _, at := range attempts {
			pctSum += at.ScorePercent()
			if at.Score > 0 {
				nonZero++
			}
		}
		stats.AverageScorePercent = pctSum / float64(len(attempts))
		stats.CompletionRatePercent = float64(nonZero) / float64(len(attempts)) * 100
	}

	if a.topics != nil {
		topicScores, err := a.computeTopicScores(ctx, attempts)
		if err != nil {
			return nil, err
		}
		stats.TopicScores = topicScores
	}

	if err := a.repo.UpsertStatistics(ctx, stats); err != nil {
		return nil, fmt.Errorf("cache statistics for %s: %w", userID, err)
	}
	return stats, nil
}

// computeTopicScores groups attempts by article tag and averages the score
// percentage within each group.
func (a *Aggregator) computeTopicScores(ctx context.Context, attempts []*quiz.Attempt) (map[string]float64, error) {
	sums := map[string]float64{}
	counts := map[string]int{}

	for _, at := range attempts {
		tags, err := a.topics.TopicsFor(ctx, at.ArticleID)
		if err != nil {
			return nil, fmt.Errorf("resolve topics for article %s: %w", at.ArticleID, err)
		}
		for _, tag := range tags {
			sums[tag] += at.ScorePercent()
			counts[tag]++
		}
	}

	out := make(map[string]float64, len(sums))
	for tag, sum := range sums {
		out[tag] = sum / float64(counts[tag])
	}
	return out, nil
}

// ArticleTopics adapts an article store into a TopicResolver using the
// article's tags.
type ArticleTopics struct {
	Articles articles.Store
}

func (r ArticleTopics) TopicsFor(ctx context.Context, articleID string) ([]string, error) {
	article, err := r.Articles.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return article.Tags, nil
}
