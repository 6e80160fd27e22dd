package domain

import "time"

// DevelopmentPlan is the per-user container for one run of the program:
// a chosen strength/weakness pair and up to two sprints over a 4-week window.
type DevelopmentPlan struct {
	ID               string
	UserID           string
	StartDate        time.Time
	EndDate          time.Time
	ChosenStrengthID *string
	ChosenWeaknessID *string
	IsFinished       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Sprint is a numbered execution period within a development plan. The
// practice form IDs link to the per-sprint strength/weakness practice forms
// and are reset when the owning trait selection is invalidated.
type Sprint struct {
	ID                      string
	UserID                  string
	DevelopmentPlanID       string
	Number                  int
	StartDate               time.Time
	EndDate                 time.Time
	IsFinished              bool
	StrengthPracticeFormID  *string
	WeaknessPracticeFormID  *string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
