package evaluation

import (
	"go.viam.com/iso17123/distance"
	"go.viam.com/iso17123/logging"
	"go.viam.com/iso17123/measurement"
	"go.viam.com/iso17123/residual"
	"go.viam.com/iso17123/stattest"
	"go.viam.com/iso17123/uncertainty"
)

// FullResult is the outcome of the full test procedure.
type FullResult struct {
	Alpha float64
	Case  uncertainty.Case

	// Distances holds the single distances of every repetition and their means.
	Distances *distance.Result
	Deltas    [measurement.NumPairs]float64
	Residuals *residual.Stats

	Std01     float64
	Std02     float64
	StdPooled float64
	// Homogeneous is false when the stations' standard deviations differ significantly.
	Homogeneous bool

	UISOTLS float64
	UT      float64
	// ManufacturerConsistent is set for case A only. It reports whether u_ISO_TLS is consistent
	// with u_ms according to the chi-squared test.
	ManufacturerConsistent *bool

	Verdict
}

// EvaluateFull runs the full test procedure on repetitions 1..3 of both stations using the
// given uncertainty case.
func EvaluateFull(
	coords measurement.Coordinates,
	alpha float64,
	uCase uncertainty.Case,
	logger logging.Logger,
) (*FullResult, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}
	if err := uncertainty.Validate(uCase); err != nil {
		return nil, &InvalidParameterError{"case", uCase, err.Error()}
	}
	if err := measurement.Require(coords, Full.Repetitions()); err != nil {
		return nil, err
	}

	d, err := distance.Compute(coords, Full.Repetitions())
	if err != nil {
		return nil, err
	}
	stats, err := residual.Aggregate(d, alpha)
	if err != nil {
		return nil, err
	}

	res := &FullResult{
		Alpha:       alpha,
		Case:        uCase,
		Distances:   d,
		Deltas:      d.Deltas(),
		Residuals:   stats,
		Std01:       stats.Stations[measurement.S1].Std0,
		Std02:       stats.Stations[measurement.S2].Std0,
		StdPooled:   stats.Std0,
		Homogeneous: stats.Homogeneous,
		UISOTLS:     stats.UISOTLS,
		UT:          uCase.TotalUncertainty(stats.UISOTLS),
	}
	if caseA, ok := uCase.(uncertainty.CaseA); ok {
		consistent := stattest.ChiSquared(stats.StdMean0, caseA.UMS, alpha, residual.CombinedDegreesOfFreedom)
		res.ManufacturerConsistent = &consistent
	}
	res.Verdict = Judge(res.Deltas, MaxDeviation(Full, alpha, res.UT))

	logger.Debugw("residuals aggregated",
		"omega_1", stats.Stations[measurement.S1].Omega,
		"omega_2", stats.Stations[measurement.S2].Omega,
		"std_0_1", res.Std01,
		"std_0_2", res.Std02,
		"homogeneous", res.Homogeneous,
		"std_0", res.StdPooled,
		"omega_dist", stats.OmegaDist,
		"std_mean_0", stats.StdMean0)
	if !res.Homogeneous {
		logger.Warnw("stations have significantly different standard deviations",
			"std_0_1", res.Std01, "std_0_2", res.Std02, "alpha", alpha)
	}
	logger.Debugw("full test procedure evaluated",
		"case", uCase.String(), "u_iso_tls", res.UISOTLS, "u_t", res.UT,
		"max_dev", res.MaxDeviation, "passed", res.Passed)
	return res, nil
}
