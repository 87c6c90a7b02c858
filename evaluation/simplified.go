// Package evaluation runs the simplified and full test procedures of ISO 17123-9 on a table of
// target coordinates and derives the pass/fail verdict.
package evaluation

import (
	"go.viam.com/iso17123/distance"
	"go.viam.com/iso17123/logging"
	"go.viam.com/iso17123/measurement"
)

// SimplifiedResult is the outcome of the simplified test procedure.
type SimplifiedResult struct {
	Alpha float64
	// UT is the caller supplied target-centre uncertainty in metres.
	UT float64

	Distances *distance.Result
	Deltas    [measurement.NumPairs]float64
	Verdict
}

// EvaluateSimplified runs the simplified test procedure on repetition 1 of both stations.
func EvaluateSimplified(
	coords measurement.Coordinates,
	alpha, uT float64,
	logger logging.Logger,
) (*SimplifiedResult, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}
	if !(uT > 0) {
		return nil, &InvalidParameterError{"u_t", uT, "must be positive"}
	}
	if err := measurement.Require(coords, Simplified.Repetitions()); err != nil {
		return nil, err
	}

	d, err := distance.Compute(coords, Simplified.Repetitions())
	if err != nil {
		return nil, err
	}
	res := &SimplifiedResult{
		Alpha:     alpha,
		UT:        uT,
		Distances: d,
		Deltas:    d.Deltas(),
	}
	res.Verdict = Judge(res.Deltas, MaxDeviation(Simplified, alpha, uT))

	logger.Debugw("simplified test procedure evaluated",
		"alpha", alpha, "u_t", uT, "deltas", res.Deltas, "max_dev", res.MaxDeviation, "passed", res.Passed)
	return res, nil
}
