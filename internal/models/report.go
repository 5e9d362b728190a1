// internal/models/report.go
package models

type Recommendation struct {
	Category string  `json:"category"`
	Tier     string  `json:"tier"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

type Recommendations struct {
	Items []Recommendation `json:"items"`
	// Markdown uses only "### heading" lines and **bold** spans.
	Markdown string `json:"markdown"`
}

type CategoryDetail struct {
	Score             float64 `json:"score"`
	Tier              string  `json:"tier"`
	QuestionsAnswered int     `json:"questions_answered"`
	TotalQuestions    int     `json:"total_questions"`
}

// TransportReport is the /assess response body and the payload /export-pdf renders.
type TransportReport struct {
	OverallScore       float64                   `json:"overall_score"`
	OverallTier        string                    `json:"overall_tier"`
	PriorityCategories []string                  `json:"priority_categories"`
	CategoryDetails    map[string]CategoryDetail `json:"category_details"`
	Recommendations    string                    `json:"recommendations"`
	TierDistribution   map[string]int            `json:"tier_distribution"`
}
