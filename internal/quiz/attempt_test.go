package quiz

import (
	"math"
	"testing"
)

func sampleQuestions() []Question {
	opts := func() map[Label]string {
		return map[Label]string{
			LabelA: "first", LabelB: "second", LabelC: "third", LabelD: "fourth",
		}
	}
	return []Question{
		{ID: "q1", Prompt: "one?", Options: opts(), CorrectAnswer: LabelA, Explanation: "a"},
		{ID: "q2", Prompt: "two?", Options: opts(), CorrectAnswer: LabelB, Explanation: "b"},
		{ID: "q3", Prompt: "three?", Options: opts(), CorrectAnswer: LabelC, Explanation: "c"},
		{ID: "q4", Prompt: "four?", Options: opts(), CorrectAnswer: LabelD, Explanation: "d"},
		{ID: "q5", Prompt: "five?", Options: opts(), CorrectAnswer: LabelA, Explanation: "a"},
	}
}

func TestScore(t *testing.T) {
	questions := sampleQuestions()

	tests := []struct {
		name    string
		answers map[string]Label
		want    int
	}{
		{"all correct", map[string]Label{"q1": LabelA, "q2": LabelB, "q3": LabelC, "q4": LabelD, "q5": LabelA}, 5},
		{"all wrong", map[string]Label{"q1": LabelB, "q2": LabelA, "q3": LabelA, "q4": LabelA, "q5": LabelB}, 0},
		{"partial", map[string]Label{"q1": LabelA, "q2": LabelB, "q3": LabelA, "q4": LabelA, "q5": LabelB}, 2},
		{"unanswered count as wrong", map[string]Label{"q1": LabelA}, 1},
		{"empty answers", map[string]Label{}, 0},
		{"nil answers", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(questions, tt.answers)
			if got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > len(questions) {
				t.Errorf("Score() = %d outside 0..%d", got, len(questions))
			}
		})
	}
}

func TestScorePercent(t *testing.T) {
	tests := []struct {
		score, total int
		want         float64
	}{
		{8, 10, 80.0},
		{0, 10, 0.0},
		{5, 5, 100.0},
		{1, 3, 100.0 / 3},
		{0, 0, 0.0}, // no division-by-zero fault
	}

	for _, tt := range tests {
		got := ScorePercent(tt.score, tt.total)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ScorePercent(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestParseLabel(t *testing.T) {
	for _, valid := range []string{"A", "B", "C", "D"} {
		label, ok := ParseLabel(valid)
		if !ok || string(label) != valid {
			t.Errorf("ParseLabel(%q) = (%q, %v), want valid", valid, label, ok)
		}
	}
	for _, invalid := range []string{"", "a", "E", "AB", "1"} {
		if _, ok := ParseLabel(invalid); ok {
			t.Errorf("ParseLabel(%q) accepted invalid label", invalid)
		}
	}
}
