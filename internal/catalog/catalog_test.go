package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraitStats_EighteenTraitsWithPositiveStats(t *testing.T) {
	stats, err := TraitStats()
	require.NoError(t, err)
	require.Len(t, stats, 18)

	seen := map[string]bool{}
	for _, s := range stats {
		assert.NotEmpty(t, s.Name)
		assert.False(t, seen[s.Name], "duplicate trait %q", s.Name)
		seen[s.Name] = true
		assert.Greater(t, s.Average, 0.0, "trait %q", s.Name)
		assert.Greater(t, s.StandardDeviation, 0.0, "trait %q", s.Name)
	}
}

func TestStatFor(t *testing.T) {
	stat, ok := StatFor("Adaptability")
	require.True(t, ok)
	assert.Equal(t, "Adaptability", stat.Name)

	_, ok = StatFor("Not A Trait")
	assert.False(t, ok)
}

func TestKnownTrait(t *testing.T) {
	assert.True(t, KnownTrait("Vision"))
	assert.False(t, KnownTrait(""))
	assert.False(t, KnownTrait("vision")) // names are case sensitive
}

func TestQuestionsFor_RankedBank(t *testing.T) {
	stats, err := TraitStats()
	require.NoError(t, err)

	withBank := 0
	for _, s := range stats {
		bank, err := QuestionsFor(s.Name)
		require.NoError(t, err)
		if len(bank) == 0 {
			continue
		}
		withBank++
		ranks := map[int]bool{}
		for _, q := range bank {
			assert.NotEmpty(t, q.Text)
			assert.Positive(t, q.Rank)
			assert.False(t, ranks[q.Rank], "duplicate rank %d for %q", q.Rank, s.Name)
			ranks[q.Rank] = true
		}
	}
	assert.Positive(t, withBank, "at least one trait needs follow-up questions")
}

func TestQuestionsFor_UnknownTraitIsEmptyNotError(t *testing.T) {
	bank, err := QuestionsFor("Not A Trait")
	require.NoError(t, err)
	assert.Empty(t, bank)
}
