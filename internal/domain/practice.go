package domain

import "time"

// Practice is one candidate action-practice recommended for a chosen trait.
// A complete set is exactly five rows; recomputation replaces the set.
type Practice struct {
	ID            string
	UserID        string
	ChosenTraitID string
	Name          string
	Score         float64
	IsRecommended bool
	CreatedAt     time.Time
}

// ChosenPractice is the practice a user committed to for one sprint of one
// chosen trait. One row per (plan, chosen trait, sprint); saves upsert.
type ChosenPractice struct {
	ID                string
	UserID            string
	ChosenTraitID     string
	Name              string
	PracticeID        string
	FormID            string
	SprintNumber      int
	SprintID          string
	DevelopmentPlanID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PersonalPracticeCategory is the recommended mind-body practice category
// for one development plan.
type PersonalPracticeCategory struct {
	ID                string
	UserID            string
	DevelopmentPlanID string
	Name              string
	ChosenFormID      *string
	CreatedAt         time.Time
}

type ChosenPersonalPractice struct {
	ID         string
	UserID     string
	CategoryID string
	Name       string
	IsFavorite bool
	CreatedAt  time.Time
}

// PendingAction is an AI-generated draft action awaiting user confirmation.
type PendingAction struct {
	ID        string
	UserID    string
	Category  string
	Action    string
	CreatedAt time.Time
}
