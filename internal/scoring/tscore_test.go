package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTScore_Formula(t *testing.T) {
	// (raw - avg)/std * 10 + 50
	assert.InDelta(t, 60.0, TScore(4, 3.0, 1.0), 1e-9)
	assert.InDelta(t, 40.0, TScore(2, 3.0, 1.0), 1e-9)
	assert.InDelta(t, 50.0, TScore(3, 3.0, 1.0), 1e-9)
	assert.InDelta(t, 55.0, TScore(4, 3.0, 2.0), 1e-9)
}

func TestTScore_NegativeDeviationFromMean(t *testing.T) {
	got := TScore(0, 4.5, 1.5)
	assert.InDelta(t, 20.0, got, 1e-9)
}

func TestTScore_ZeroStdIsNeutral(t *testing.T) {
	// No spread means no standardisation: the trait sits at the midpoint.
	assert.Equal(t, 50.0, TScore(7, 3.0, 0))
	assert.Equal(t, 50.0, TScore(0, 0, 0))
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]int{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 2.0, std, 1e-9)
}

func TestMeanStd_Empty(t *testing.T) {
	mean, std := MeanStd(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)
}

func TestMeanStd_SingleValue(t *testing.T) {
	mean, std := MeanStd([]int{6})
	assert.InDelta(t, 6.0, mean, 1e-9)
	assert.Zero(t, std)
}
