// Package residual reduces the repeated distances of the full test procedure to the
// experimental standard deviations of ISO 17123-9 §8.3.
package residual

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/iso17123/distance"
	"go.viam.com/iso17123/measurement"
	"go.viam.com/iso17123/stattest"
)

// Degrees of freedom of the full test procedure. They are properties of the fixed
// 2-station, 6-pair, 3-repetition design and are not derived from the number of residuals.
const (
	// StationDegreesOfFreedom divides a station's sum of squared residuals.
	StationDegreesOfFreedom = 12
	// CombinedDegreesOfFreedom divides the sum of squared residuals against the cross-station
	// mean distances: 36 observations minus 6 pair means.
	CombinedDegreesOfFreedom = 30
)

// Residuals is one residual per target pair and repetition.
type Residuals [measurement.NumPairs][measurement.MaxRepetitions]float64

// SumOfSquares returns the sum of the squared residuals.
func (r *Residuals) SumOfSquares() float64 {
	var sum float64
	for _, pair := range measurement.Pairs {
		sum += floats.Dot(r[pair][:], r[pair][:])
	}
	return sum
}

// Station holds the dispersion of a single station's repetitions.
type Station struct {
	// Residuals are Mean(pair) - Single(pair, rep).
	Residuals Residuals
	// Omega is the sum of squared residuals.
	Omega float64
	// Std0 is √(Omega / StationDegreesOfFreedom).
	Std0 float64
}

// Stats is the outcome of the residual decomposition.
type Stats struct {
	Stations [measurement.NumStations]Station

	// Homogeneous reports whether the F-test accepted equal dispersion of both stations.
	Homogeneous bool
	// Std0 combines the station deviations: root mean square when Homogeneous, arithmetic mean
	// otherwise.
	Std0 float64

	// MeanDistances are the cross-station means (Mean(S1) + Mean(S2)) / 2 per pair.
	MeanDistances [measurement.NumPairs]float64
	// MeanResiduals are MeanDistances(pair) - Single(station, pair, rep).
	MeanResiduals [measurement.NumStations]Residuals
	// OmegaDist is the sum of the squared MeanResiduals.
	OmegaDist float64
	// StdMean0 is √(OmegaDist / CombinedDegreesOfFreedom).
	StdMean0 float64
	// UISOTLS is the ISO standard uncertainty of a point, StdMean0 / √2.
	UISOTLS float64
}

// Aggregate decomposes full procedure distances into residuals and runs the F-test at
// significance level alpha to decide how the station deviations are combined.
func Aggregate(d *distance.Result, alpha float64) (*Stats, error) {
	if d.Repetitions != measurement.MaxRepetitions {
		return nil, errors.Errorf("residual decomposition needs %d repetitions, got %d",
			measurement.MaxRepetitions, d.Repetitions)
	}
	for _, station := range measurement.Stations {
		for _, pair := range measurement.Pairs {
			if n := len(d.Single[station][pair]); n != measurement.MaxRepetitions {
				return nil, errors.Errorf("residual decomposition needs %d distances of %s at %s, got %d",
					measurement.MaxRepetitions, pair, station, n)
			}
		}
	}

	stats := &Stats{}
	for _, station := range measurement.Stations {
		st := &stats.Stations[station]
		for _, pair := range measurement.Pairs {
			for rep, single := range d.Single[station][pair] {
				st.Residuals[pair][rep] = d.Mean[station][pair] - single
			}
		}
		st.Omega = st.Residuals.SumOfSquares()
		st.Std0 = math.Sqrt(st.Omega / StationDegreesOfFreedom)
	}

	s1, s2 := stats.Stations[measurement.S1].Std0, stats.Stations[measurement.S2].Std0
	stats.Homogeneous = stattest.FTest(s1, s2, alpha, StationDegreesOfFreedom, StationDegreesOfFreedom)
	if stats.Homogeneous {
		stats.Std0 = math.Sqrt((s1*s1 + s2*s2) / 2)
	} else {
		stats.Std0 = (s1 + s2) / 2
	}

	for _, pair := range measurement.Pairs {
		stats.MeanDistances[pair] = (d.Mean[measurement.S1][pair] + d.Mean[measurement.S2][pair]) / 2
	}
	for _, station := range measurement.Stations {
		for _, pair := range measurement.Pairs {
			for rep, single := range d.Single[station][pair] {
				stats.MeanResiduals[station][pair][rep] = stats.MeanDistances[pair] - single
			}
		}
		stats.OmegaDist += stats.MeanResiduals[station].SumOfSquares()
	}
	stats.StdMean0 = math.Sqrt(stats.OmegaDist / CombinedDegreesOfFreedom)
	stats.UISOTLS = stats.StdMean0 / math.Sqrt2

	return stats, nil
}
