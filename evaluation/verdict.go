package evaluation

import (
	"math"

	"go.viam.com/iso17123/measurement"
	"go.viam.com/iso17123/stattest"
)

// Procedure is the ISO 17123-9 test procedure variant.
type Procedure int

const (
	// Simplified uses a single scan per station.
	Simplified Procedure = iota
	// Full uses three scans per station.
	Full
)

// Repetitions returns the number of scans per station the procedure requires.
func (p Procedure) Repetitions() int {
	if p == Full {
		return measurement.MaxRepetitions
	}
	return 1
}

func (p Procedure) String() string {
	if p == Full {
		return "full"
	}
	return "simplified"
}

// MaxDeviation returns the maximum permissible deviation of a delta at confidence level
// 1 - alpha: Φ⁻¹(1 - α/2)·2·u_T, divided by √3 for the full procedure.
func MaxDeviation(proc Procedure, alpha, uT float64) float64 {
	maxDev := stattest.TwoSidedZ(alpha) * 2 * uT
	if proc == Full {
		maxDev /= math.Sqrt(3)
	}
	return maxDev
}

// Verdict classifies the deltas against the maximum permissible deviation.
type Verdict struct {
	MaxDeviation float64
	// Checks holds |delta| <= MaxDeviation for every pair.
	Checks [measurement.NumPairs]bool
	// Passed is true when every check passed.
	Passed bool
}

// Judge compares every delta with maxDev.
func Judge(deltas [measurement.NumPairs]float64, maxDev float64) Verdict {
	v := Verdict{MaxDeviation: maxDev, Passed: true}
	for _, pair := range measurement.Pairs {
		v.Checks[pair] = math.Abs(deltas[pair]) <= maxDev
		v.Passed = v.Passed && v.Checks[pair]
	}
	return v
}
