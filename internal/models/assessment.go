// internal/models/assessment.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type AssessmentResponse struct {
	Catalyst string  `json:"catalyst"`
	Answers  Answers `json:"answers"`
}

// Answers maps question id to the raw answer value (number, numeric
// string or anything else a client sent; scoring decides validity).
type Answers map[string]interface{}

// AnswerItem is the list form sent by the questionnaire frontend.
type AnswerItem struct {
	QuestionID string      `json:"question_id"`
	Value      interface{} `json:"value,omitempty"`
	Score      interface{} `json:"score,omitempty"`
	Notes      *string     `json:"notes,omitempty"`
}

// UnmarshalJSON accepts {"q1": 5} as well as
// [{"question_id": "q1", "value": "5"}] or [{"question_id": "q1", "score": 5}].
// In the list form a later entry for the same question wins.
func (a *Answers) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Answers{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		m := map[string]interface{}{}
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return err
		}
		*a = Answers(m)
		return nil
	case '[':
		var items []AnswerItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		out := make(Answers, len(items))
		for i, item := range items {
			if item.QuestionID == "" {
				return fmt.Errorf("answers[%d]: question_id is required", i)
			}
			if item.Value != nil {
				out[item.QuestionID] = item.Value
			} else {
				out[item.QuestionID] = item.Score
			}
		}
		*a = out
		return nil
	default:
		return fmt.Errorf("answers must be an object or a list")
	}
}

type CategoryScore struct {
	NormalizedScore   float64 `json:"normalized_score"`
	Tier              string  `json:"tier"`
	QuestionsAnswered int     `json:"questions_answered"`
	TotalQuestions    int     `json:"total_questions"`
}

type AssessmentReport struct {
	OverallScore       float64                  `json:"overall_score"`
	OverallTier        string                   `json:"overall_tier"`
	PriorityCategories []string                 `json:"priority_categories"`
	CategoryScores     map[string]CategoryScore `json:"category_scores"`
	// CategoryOrder is the configuration order of the categories.
	CategoryOrder []string `json:"category_order"`
}
