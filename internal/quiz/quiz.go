package quiz

import (
	"time"

	"github.com/google/uuid"
)

// QuestionCount is the fixed number of questions in every quiz.
const QuestionCount = 5

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// Label identifies one of the four answer options of a question.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
)

// Labels lists the valid option labels in display order.
var Labels = [OptionCount]Label{LabelA, LabelB, LabelC, LabelD}

// ParseLabel converts a raw string into a Label.
// Returns false if the string is not one of A, B, C, D.
func ParseLabel(s string) (Label, bool) {
	switch Label(s) {
	case LabelA, LabelB, LabelC, LabelD:
		return Label(s), true
	}
	return "", false
}

// Question is a single multiple-choice item.
// Options always carries exactly the key set {A, B, C, D} and
// CorrectAnswer is always one of those keys; both are enforced at
// generation time and again when decoding from the store.
type Question struct {
	ID            string
	Prompt        string
	Options       map[Label]string
	CorrectAnswer Label
	Explanation   string
}

// ArticleSnapshot captures the article metadata embedded in a quiz so the
// quiz can be rendered without re-fetching the article.
type ArticleSnapshot struct {
	ID           string
	Title        string
	ThumbnailRef string
}

// Article is the source document a quiz is generated from.
// Provided by the external article store.
type Article struct {
	ID           string
	Title        string
	Content      string
	Tags         []string
	ThumbnailRef string
}

// Snapshot returns the embeddable metadata for this article.
func (a Article) Snapshot() ArticleSnapshot {
	return ArticleSnapshot{ID: a.ID, Title: a.Title, ThumbnailRef: a.ThumbnailRef}
}

// Quiz is a generated set of QuestionCount multiple-choice questions tied
// to one source article. Immutable after creation.
type Quiz struct {
	ID              string
	SourceArticleID string
	Title           string
	Questions       []Question
	CreatedAt       time.Time
	Article         ArticleSnapshot
}

// NewID returns a fresh unique identifier.
func NewID() string {
	return uuid.NewString()
}
