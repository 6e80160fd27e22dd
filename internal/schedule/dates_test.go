package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

var planStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestPlanWindow_FourWeeks(t *testing.T) {
	start, end := PlanWindow(planStart)
	assert.Equal(t, planStart, start)
	assert.Equal(t, planStart.AddDate(0, 0, 28), end)
}

func TestFirstSprintWindow_FirstTwoWeeks(t *testing.T) {
	start, end := FirstSprintWindow(planStart)
	assert.Equal(t, planStart, start)
	assert.Equal(t, planStart.AddDate(0, 0, 14), end)
}

func TestNextSprintWindow_StartsOneSecondAfterPrevious(t *testing.T) {
	_, planEnd := PlanWindow(planStart)
	_, firstEnd := FirstSprintWindow(planStart)

	start, end := NextSprintWindow(firstEnd, planEnd)

	assert.Equal(t, firstEnd.Add(time.Second), start)
	assert.Equal(t, planEnd, end)
}

func TestColleagueSchedule_TwelveBucketsOverWindow(t *testing.T) {
	planEnd := planStart.AddDate(0, 0, 28)
	s := ComputeColleagueSchedule(planStart, planEnd)

	assert.Equal(t, planStart, s.Buckets[0])
	for i := 1; i < len(s.Buckets); i++ {
		assert.True(t, s.Buckets[i].After(s.Buckets[i-1]))
		assert.True(t, s.Buckets[i].Before(planEnd))
	}
	assert.Equal(t, planStart, s.InitialInvite())
	assert.Equal(t, s.Buckets[11], s.FinalSurvey())
}

func TestProgressWeek(t *testing.T) {
	cases := []struct {
		name string
		days int
		want int
	}{
		{"first day", 0, 1},
		{"day six", 6, 1},
		{"day seven rolls over", 7, 2},
		{"week four", 21, 4},
		{"clamped at six", 70, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			today := planStart.AddDate(0, 0, tc.days)
			assert.Equal(t, tc.want, ProgressWeek(planStart, today))
		})
	}
}

func TestProgressWeek_BeforeSprintStart(t *testing.T) {
	assert.Equal(t, 1, ProgressWeek(planStart, planStart.AddDate(0, 0, -3)))
}

func TestProgressFormName(t *testing.T) {
	today := planStart.AddDate(0, 0, 8)
	assert.Equal(t, "1_PROGRESS_STRENGTH_WEEK_2",
		ProgressFormName(1, domain.TraitStrength, planStart, today))
	assert.Equal(t, "2_PROGRESS_WEAKNESS_WEEK_1",
		ProgressFormName(2, domain.TraitWeakness, planStart, planStart))
}
