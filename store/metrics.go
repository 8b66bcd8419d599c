package store

import "math"

// AffinityCap is the upper bound for Affinity.
const AffinityCap = 10000

// Affinity derives the capped affinity metric from an accumulated volume:
// vol × 2e-6, capped at AffinityCap, rounded to two decimals.
func Affinity(vol float64) float64 {
	a := vol * 0.00001 * 0.2
	if a > AffinityCap {
		a = AffinityCap
	}
	return round2(a)
}

// Steep derives the uncapped steep metric from an accumulated volume:
// vol × 0.005, rounded to two decimals.
func Steep(vol float64) float64 {
	return round2(vol * 0.005)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundVol keeps accumulated volumes at two decimals, matching the precision
// the bot hands out per session.
func roundVol(v float64) float64 {
	return round2(v)
}
