package scoring

import (
	"sort"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/domain"
)

// RecommendLimit is the size of a complete practice recommendation set.
const RecommendLimit = 5

// Candidate is one answered follow-up question considered for recommendation.
type Candidate struct {
	QuestionID string
	Name       string
	Extent     domain.Extent
	Rank       int
}

// RecommendPractices selects up to limit candidates, preferring the lowest
// self-rated extents first: all Not-at-All and Small-Extent answers sorted by
// ascending rank, topped up from Moderate, then from Large and Fullest
// combined. The practices the user rates themselves weakest on are the
// improvement targets.
func RecommendPractices(candidates []Candidate, limit int) []Candidate {
	buckets := [3][]Candidate{}
	for _, c := range candidates {
		switch c.Extent {
		case domain.ExtentNotAtAll, domain.ExtentSmall:
			buckets[0] = append(buckets[0], c)
		case domain.ExtentModerate:
			buckets[1] = append(buckets[1], c)
		default:
			buckets[2] = append(buckets[2], c)
		}
	}

	var selected []Candidate
	for _, bucket := range buckets {
		if len(selected) >= limit {
			break
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Rank < bucket[j].Rank
		})
		for _, c := range bucket {
			if len(selected) >= limit {
				break
			}
			selected = append(selected, c)
		}
	}
	return selected
}
