package store

import (
	"encoding/json"

	"github.com/abhinav/readquiz/internal/quiz"
)

// blobVersion is the current version of the question/answer blob contract.
// Bump when the wire shape changes; decode rejects unknown versions.
const blobVersion = 1

// questionsBlob is the storage representation of a question list.
type questionsBlob struct {
	Version   int              `json:"version"`
	Questions []questionRecord `json:"questions"`
}

type questionRecord struct {
	ID            string            `json:"id"`
	Prompt        string            `json:"prompt"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correctAnswer"`
	Explanation   string            `json:"explanation"`
}

// answersBlob is the storage representation of an attempt's answer map.
type answersBlob struct {
	Version int               `json:"version"`
	Answers map[string]string `json:"answers"`
}

func encodeQuestions(questions []quiz.Question) (string, error) {
	blob := questionsBlob{Version: blobVersion}
	for _, q := range questions {
		opts := make(map[string]string, len(q.Options))
		for label, text := range q.Options {
			opts[string(label)] = text
		}
		blob.Questions = append(blob.Questions, questionRecord{
			ID:            q.ID,
			Prompt:        q.Prompt,
			Options:       opts,
			CorrectAnswer: string(q.CorrectAnswer),
			Explanation:   q.Explanation,
		})
	}

	raw, err := json.Marshal(blob)
	if err != nil {
		return "", &EncodingError{Entity: "questions", Err: err}
	}
	return string(raw), nil
}

// decodeQuestions validates the whole blob before constructing any domain
// object. Any missing or malformed field fails the entire read.
func decodeQuestions(raw string) ([]quiz.Question, error) {
	var blob questionsBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, &DecodingError{Entity: "questions", Reason: "not valid JSON: " + err.Error()}
	}
	if blob.Version != blobVersion {
		return nil, &DecodingError{Entity: "questions", Field: "version", Reason: "unsupported blob version"}
	}
	if len(blob.Questions) == 0 {
		return nil, &DecodingError{Entity: "questions", Field: "questions", Reason: "empty question list"}
	}

	out := make([]quiz.Question, 0, len(blob.Questions))
	for _, rec := range blob.Questions {
		if rec.ID == "" {
			return nil, &DecodingError{Entity: "questions", Field: "id", Reason: "missing"}
		}
		if rec.Prompt == "" {
			return nil, &DecodingError{Entity: "questions", Field: "prompt", Reason: "missing"}
		}
		if rec.Explanation == "" {
			return nil, &DecodingError{Entity: "questions", Field: "explanation", Reason: "missing"}
		}
		if len(rec.Options) != quiz.OptionCount {
			return nil, &DecodingError{Entity: "questions", Field: "options", Reason: "option count is not 4"}
		}

		opts := make(map[quiz.Label]string, quiz.OptionCount)
		for _, label := range quiz.Labels {
			text, ok := rec.Options[string(label)]
			if !ok || text == "" {
				return nil, &DecodingError{Entity: "questions", Field: "options." + string(label), Reason: "missing"}
			}
			opts[label] = text
		}

		correct, ok := quiz.ParseLabel(rec.CorrectAnswer)
		if !ok {
			return nil, &DecodingError{Entity: "questions", Field: "correctAnswer", Reason: "not one of A, B, C, D"}
		}

		out = append(out, quiz.Question{
			ID:            rec.ID,
			Prompt:        rec.Prompt,
			Options:       opts,
			CorrectAnswer: correct,
			Explanation:   rec.Explanation,
		})
	}
	return out, nil
}

func encodeAnswers(answers map[string]quiz.Label) (string, error) {
	blob := answersBlob{Version: blobVersion, Answers: make(map[string]string, len(answers))}
	for qid, label := range answers {
		blob.Answers[qid] = string(label)
	}

	raw, err := json.Marshal(blob)
	if err != nil {
		return "", &EncodingError{Entity: "answers", Err: err}
	}
	return string(raw), nil
}

func decodeAnswers(raw string) (map[string]quiz.Label, error) {
	var blob answersBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, &DecodingError{Entity: "answers", Reason: "not valid JSON: " + err.Error()}
	}
	if blob.Version != blobVersion {
		return nil, &DecodingError{Entity: "answers", Field: "version", Reason: "unsupported blob version"}
	}

	out := make(map[string]quiz.Label, len(blob.Answers))
	for qid, raw := range blob.Answers {
		if qid == "" {
			return nil, &DecodingError{Entity: "answers", Field: "questionId", Reason: "missing"}
		}
		label, ok := quiz.ParseLabel(raw)
		if !ok {
			return nil, &DecodingError{Entity: "answers", Field: qid, Reason: "selected label is not one of A, B, C, D"}
		}
		out[qid] = label
	}
	return out, nil
}

func encodeTopicScores(scores map[string]float64) (string, error) {
	if scores == nil {
		scores = map[string]float64{}
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		return "", &EncodingError{Entity: "topicScores", Err: err}
	}
	return string(raw), nil
}

func decodeTopicScores(raw string) (map[string]float64, error) {
	scores := map[string]float64{}
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, &DecodingError{Entity: "topicScores", Reason: "not valid JSON: " + err.Error()}
	}
	return scores, nil
}
