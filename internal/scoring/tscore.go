// Package scoring holds the pure computation behind the trait registry:
// T-score standardisation, population statistics estimation, and the
// extent-based practice recommendation algorithm.
package scoring

// TScore standardises a raw trait score against population statistics.
// Formula: (raw - average) / standardDeviation * 10 + 50.
// A standard deviation of 0 yields the population mean offset (50) rather
// than a division error; the seed data controls the deviation, so a zero is
// treated as "no spread" and the trait sits at the neutral midpoint.
func TScore(raw int, average, standardDeviation float64) float64 {
	if standardDeviation == 0 {
		return 50
	}
	return (float64(raw)-average)/standardDeviation*10 + 50
}
