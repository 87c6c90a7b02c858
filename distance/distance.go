// Package distance computes the inter-target distances observed from each station.
package distance

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/iso17123/measurement"
)

// Between returns the Euclidean distance between two target centres.
func Between(a, b r3.Vector) float64 {
	return b.Sub(a).Norm()
}

// Result holds the distances of every target pair per station.
type Result struct {
	// Repetitions is the number of scans each station contributed.
	Repetitions int
	// Single holds one distance per repetition, in repetition order.
	Single [measurement.NumStations][measurement.NumPairs][]float64
	// Mean is the average of Single. With one repetition it equals that repetition's distance.
	Mean [measurement.NumStations][measurement.NumPairs]float64
}

// Compute derives the pair distances for repetitions 1..repetitions of both stations.
func Compute(coords measurement.Coordinates, repetitions int) (*Result, error) {
	if repetitions < 1 || repetitions > measurement.MaxRepetitions {
		return nil, errors.Errorf("repetitions must be between 1 and %d, got %d", measurement.MaxRepetitions, repetitions)
	}
	res := &Result{Repetitions: repetitions}
	for _, station := range measurement.Stations {
		for _, pair := range measurement.Pairs {
			i, j := pair.Targets()
			single := make([]float64, 0, repetitions)
			for rep := measurement.Repetition(1); int(rep) <= repetitions; rep++ {
				a, err := coords.Lookup(station, rep, i)
				if err != nil {
					return nil, err
				}
				b, err := coords.Lookup(station, rep, j)
				if err != nil {
					return nil, err
				}
				single = append(single, Between(a, b))
			}
			res.Single[station][pair] = single
			res.Mean[station][pair] = stat.Mean(single, nil)
		}
	}
	return res, nil
}

// Deltas returns Mean(S1, pair) - Mean(S2, pair) for every pair.
func (r *Result) Deltas() [measurement.NumPairs]float64 {
	var deltas [measurement.NumPairs]float64
	for _, pair := range measurement.Pairs {
		deltas[pair] = r.Mean[measurement.S1][pair] - r.Mean[measurement.S2][pair]
	}
	return deltas
}
