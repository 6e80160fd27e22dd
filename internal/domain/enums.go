package domain

import "fmt"

type TraitType string

const (
	TraitStrength TraitType = "strength"
	TraitWeakness TraitType = "weakness"
)

// Label returns the uppercase wire form used in form names ("STRENGTH"/"WEAKNESS").
func (t TraitType) Label() string {
	if t == TraitStrength {
		return "STRENGTH"
	}
	return "WEAKNESS"
}

type FormKind string

const (
	FormInitial  FormKind = "initial"
	FormTrait    FormKind = "trait"
	FormPractice FormKind = "practice"
	FormProgress FormKind = "progress"
	FormMindBody FormKind = "mind_body"
)

// InitialQuestionsFormName is the per-user form that holds the one-time
// initial questionnaire answers.
const InitialQuestionsFormName = "1_INITIAL_QUESTIONS"

// MindBodyFormName holds the mind-body (personal practice) questionnaire.
const MindBodyFormName = "MIND_BODY_QUESTIONS"

// Extent is the five-point ordinal self-rating scale used in follow-up
// trait questionnaires. Lower values indicate weaker self-rating, which
// drives practice recommendation (gaps are the improvement targets).
type Extent int

const (
	ExtentNotAtAll Extent = iota
	ExtentSmall
	ExtentModerate
	ExtentLarge
	ExtentFullest
)

var extentLabels = [...]string{
	"Not at All",
	"To a Small Extent",
	"To a Moderate Extent",
	"To a Large Extent",
	"To the Fullest Extent",
}

func (e Extent) String() string {
	if e < ExtentNotAtAll || e > ExtentFullest {
		return fmt.Sprintf("Extent(%d)", int(e))
	}
	return extentLabels[e]
}

func (e Extent) Valid() bool {
	return e >= ExtentNotAtAll && e <= ExtentFullest
}

// ParseExtent maps an answer label to its ordinal level.
func ParseExtent(label string) (Extent, error) {
	for i, l := range extentLabels {
		if l == label {
			return Extent(i), nil
		}
	}
	return 0, fmt.Errorf("unknown extent label %q", label)
}

// MaxSprints is the number of sprints a development plan runs through.
const MaxSprints = 2
