package domain

import "time"

type Form struct {
	ID           string
	UserID       string
	Name         string
	Kind         FormKind
	SprintNumber *int
	CreatedAt    time.Time
}

type Question struct {
	ID        string
	FormID    string
	Text      string
	Rank      int
	Category  string
	CreatedAt time.Time
}

// Option is one selectable answer for a question. For initial questionnaire
// questions the option carries the trait name its selection maps to.
type Option struct {
	ID         string
	QuestionID string
	Text       string
	TraitName  string
	Points     int
}

// Answer is the stored response for one question on one form. Answers are
// keyed by (form, question): a resubmission updates in place.
type Answer struct {
	ID         string
	FormID     string
	QuestionID string
	UserID     string
	TraitName  string
	Value      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
