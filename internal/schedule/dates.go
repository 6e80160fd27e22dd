// Package schedule computes the temporal layout of a development plan:
// the 4-week plan window, the two sprint windows inside it, the colleague
// feedback touchpoints, and weekly progress-check form naming.
package schedule

import (
	"fmt"
	"time"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

const (
	// PlanWeeks is the program length. The program was redefined from a
	// 12-week cycle to 4 weeks; the colleague schedule still iterates the
	// legacy 12 weekly buckets for schema compatibility.
	PlanWeeks   = 4
	SprintWeeks = 2

	legacyBuckets   = 12
	maxProgressWeek = 6
)

// PlanWindow returns the start/end span of a plan created at now.
func PlanWindow(now time.Time) (start, end time.Time) {
	start = now.UTC()
	return start, start.AddDate(0, 0, PlanWeeks*7)
}

// FirstSprintWindow returns sprint 1's span: the first two weeks of the plan.
func FirstSprintWindow(planStart time.Time) (start, end time.Time) {
	return planStart, planStart.AddDate(0, 0, SprintWeeks*7)
}

// NextSprintWindow returns the span of the sprint following one that ended at
// prevEnd. It begins one second after the previous sprint and absorbs the
// remainder of the plan, so it is not necessarily exactly two weeks.
func NextSprintWindow(prevEnd, planEnd time.Time) (start, end time.Time) {
	return prevEnd.Add(time.Second), planEnd
}

// ColleagueSchedule is the set of colleague-message touchpoints for a plan.
// Buckets holds all 12 nominal weekly bucket starts over [start, end); only
// the first (initial invite) and last (final survey, week 4 of the actual
// program) are surfaced to callers.
type ColleagueSchedule struct {
	Buckets [legacyBuckets]time.Time
}

// ComputeColleagueSchedule divides the plan window into 12 nominal one-week
// buckets.
func ComputeColleagueSchedule(planStart, planEnd time.Time) ColleagueSchedule {
	span := planEnd.Sub(planStart)
	var s ColleagueSchedule
	for i := 0; i < legacyBuckets; i++ {
		s.Buckets[i] = planStart.Add(span * time.Duration(i) / legacyBuckets)
	}
	return s
}

// InitialInvite is when colleagues are first invited to give feedback.
func (s ColleagueSchedule) InitialInvite() time.Time {
	return s.Buckets[0]
}

// FinalSurvey is when the closing colleague survey goes out.
func (s ColleagueSchedule) FinalSurvey() time.Time {
	return s.Buckets[legacyBuckets-1]
}

// ProgressWeek returns the 1-based week number of today within a sprint,
// clamped to a maximum of 6.
func ProgressWeek(sprintStart, today time.Time) int {
	days := int(today.Sub(sprintStart).Hours() / 24)
	if days < 0 {
		days = 0
	}
	week := days/7 + 1
	if week > maxProgressWeek {
		week = maxProgressWeek
	}
	return week
}

// ProgressFormName builds the weekly progress-check form name, e.g.
// "1_PROGRESS_STRENGTH_WEEK_2".
func ProgressFormName(sprintNumber int, traitType domain.TraitType, sprintStart, today time.Time) string {
	return fmt.Sprintf("%d_PROGRESS_%s_WEEK_%d", sprintNumber, traitType.Label(), ProgressWeek(sprintStart, today))
}
