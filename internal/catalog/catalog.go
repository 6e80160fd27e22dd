// Package catalog provides the static lookup tables the core reads at
// trait-creation and form-creation time: the per-trait population
// statistics seed (18 traits) and the trait follow-up question bank.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed data/trait_stats.json data/trait_questions.json
var dataFS embed.FS

// TraitStat is the population seed for one trait.
type TraitStat struct {
	Name              string  `json:"name"`
	Average           float64 `json:"average"`
	StandardDeviation float64 `json:"standard_deviation"`
}

// BankQuestion is one ranked follow-up question for a trait. The text doubles
// as the practice name when the question is selected as a recommendation.
type BankQuestion struct {
	Rank int    `json:"rank"`
	Text string `json:"text"`
}

var (
	loadOnce   sync.Once
	loadErr    error
	traitStats []TraitStat
	statsByName map[string]TraitStat
	questionBank map[string][]BankQuestion
)

func load() error {
	loadOnce.Do(func() {
		raw, err := dataFS.ReadFile("data/trait_stats.json")
		if err != nil {
			loadErr = fmt.Errorf("reading trait stats: %w", err)
			return
		}
		if err := json.Unmarshal(raw, &traitStats); err != nil {
			loadErr = fmt.Errorf("parsing trait stats: %w", err)
			return
		}
		statsByName = make(map[string]TraitStat, len(traitStats))
		for _, s := range traitStats {
			statsByName[s.Name] = s
		}

		raw, err = dataFS.ReadFile("data/trait_questions.json")
		if err != nil {
			loadErr = fmt.Errorf("reading question bank: %w", err)
			return
		}
		if err := json.Unmarshal(raw, &questionBank); err != nil {
			loadErr = fmt.Errorf("parsing question bank: %w", err)
			return
		}
	})
	return loadErr
}

// TraitStats returns the seed statistics for all traits, in file order.
func TraitStats() ([]TraitStat, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return traitStats, nil
}

// StatFor returns the seed statistics for one trait name.
func StatFor(name string) (TraitStat, bool) {
	if err := load(); err != nil {
		return TraitStat{}, false
	}
	s, ok := statsByName[name]
	return s, ok
}

// KnownTrait reports whether name is one of the seeded traits.
func KnownTrait(name string) bool {
	_, ok := StatFor(name)
	return ok
}

// QuestionsFor returns the ranked follow-up questions for a trait. Not all
// traits have follow-ups defined; a nil slice is a valid result.
func QuestionsFor(traitName string) ([]BankQuestion, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return questionBank[traitName], nil
}
