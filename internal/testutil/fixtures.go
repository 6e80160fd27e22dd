package testutil

import (
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
	"github.com/google/uuid"
)

// User options
type UserOption func(*domain.User)

func WithName(first, last string) UserOption {
	return func(u *domain.User) {
		u.FirstName = first
		u.LastName = last
	}
}

func WithCompany(company, jobTitle string) UserOption {
	return func(u *domain.User) {
		u.Company = company
		u.JobTitle = jobTitle
	}
}

func NewTestUser(email string, opts ...UserOption) *domain.User {
	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// TraitDefinition options
type TraitOption func(*domain.TraitDefinition)

func WithPopulationStats(average, std float64) TraitOption {
	return func(t *domain.TraitDefinition) {
		t.Average = average
		t.StandardDeviation = std
	}
}

func WithRawScore(raw int) TraitOption {
	return func(t *domain.TraitDefinition) {
		t.TotalRawScore = &raw
	}
}

func WithTScore(score float64) TraitOption {
	return func(t *domain.TraitDefinition) {
		t.TScore = &score
	}
}

func NewTestTrait(userID, name string, opts ...TraitOption) *domain.TraitDefinition {
	now := time.Now().UTC()
	t := &domain.TraitDefinition{
		ID:                uuid.New().String(),
		UserID:            userID,
		Name:              name,
		Average:           3.0,
		StandardDeviation: 1.5,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Plan options
type PlanOption func(*domain.DevelopmentPlan)

func WithPlanWindow(start, end time.Time) PlanOption {
	return func(p *domain.DevelopmentPlan) {
		p.StartDate = start
		p.EndDate = end
	}
}

func WithPlanFinished() PlanOption {
	return func(p *domain.DevelopmentPlan) {
		p.IsFinished = true
	}
}

func NewTestPlan(userID string, opts ...PlanOption) *domain.DevelopmentPlan {
	now := time.Now().UTC()
	p := &domain.DevelopmentPlan{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 28),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
