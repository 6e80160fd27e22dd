package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

func TestRecommendPractices_LowestExtentFirstRankAscending(t *testing.T) {
	candidates := []Candidate{
		{QuestionID: "q1", Extent: domain.ExtentNotAtAll, Rank: 3},
		{QuestionID: "q2", Extent: domain.ExtentSmall, Rank: 1},
		{QuestionID: "q3", Extent: domain.ExtentModerate, Rank: 2},
		{QuestionID: "q4", Extent: domain.ExtentFullest, Rank: 4},
		{QuestionID: "q5", Extent: domain.ExtentFullest, Rank: 5},
		{QuestionID: "q6", Extent: domain.ExtentFullest, Rank: 6},
		{QuestionID: "q7", Extent: domain.ExtentFullest, Rank: 7},
		{QuestionID: "q8", Extent: domain.ExtentFullest, Rank: 8},
		{QuestionID: "q9", Extent: domain.ExtentFullest, Rank: 9},
		{QuestionID: "q10", Extent: domain.ExtentFullest, Rank: 10},
	}

	got := RecommendPractices(candidates, RecommendLimit)

	require.Len(t, got, 5)
	// Weakest self-ratings come first, rank ascending within the bucket;
	// the moderate answer outranks every large/fullest one.
	assert.Equal(t, "q2", got[0].QuestionID)
	assert.Equal(t, "q1", got[1].QuestionID)
	assert.Equal(t, "q3", got[2].QuestionID)
	assert.Equal(t, "q4", got[3].QuestionID)
	assert.Equal(t, "q5", got[4].QuestionID)
}

func TestRecommendPractices_StopsAtLimitWithinFirstBucket(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 8; i++ {
		candidates = append(candidates, Candidate{
			QuestionID: string(rune('a' + i)),
			Extent:     domain.ExtentNotAtAll,
			Rank:       8 - i,
		})
	}

	got := RecommendPractices(candidates, RecommendLimit)

	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Rank, got[i].Rank)
	}
	assert.Equal(t, 1, got[0].Rank)
}

func TestRecommendPractices_FewerThanLimit(t *testing.T) {
	candidates := []Candidate{
		{QuestionID: "q1", Extent: domain.ExtentLarge, Rank: 2},
		{QuestionID: "q2", Extent: domain.ExtentModerate, Rank: 1},
	}

	got := RecommendPractices(candidates, RecommendLimit)

	require.Len(t, got, 2)
	assert.Equal(t, "q2", got[0].QuestionID)
	assert.Equal(t, "q1", got[1].QuestionID)
}

func TestRecommendPractices_Empty(t *testing.T) {
	assert.Empty(t, RecommendPractices(nil, RecommendLimit))
}
