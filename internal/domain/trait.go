package domain

import "time"

// TraitDefinition is one row of the per-user trait registry. Average and
// StandardDeviation are population statistics seeded from the catalog and
// periodically re-estimated; TotalRawScore accumulates across one initial
// questionnaire submission and is reset (to nil) before each resubmission.
type TraitDefinition struct {
	ID                string
	UserID            string
	Name              string
	Average           float64
	StandardDeviation float64
	TotalRawScore     *int
	TScore            *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TraitScore is the ranking view of a trait.
type TraitScore struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	TScore float64 `json:"t_score"`
}

// TraitRanking holds the top/bottom five candidate strengths and weaknesses.
type TraitRanking struct {
	Strengths  []TraitScore `json:"strengths"`
	Weaknesses []TraitScore `json:"weaknesses"`
}

// ChosenTrait records the single strength or weakness a user committed to
// working on for one development plan. Version guards concurrent updates.
type ChosenTrait struct {
	ID                string
	UserID            string
	DevelopmentPlanID string
	TraitType         TraitType
	Name              string
	TraitID           string
	TScore            float64
	FormID            string
	PracticeID        string
	StartDate         *time.Time
	EndDate           *time.Time
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
