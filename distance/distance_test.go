package distance

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/iso17123/measurement"
	"go.viam.com/iso17123/testutils"
)

func TestBetween(t *testing.T) {
	a := r3.Vector{X: 1, Y: 2, Z: 3}
	b := r3.Vector{X: 4, Y: 6, Z: 3}
	test.That(t, Between(a, b), test.ShouldEqual, 5.0)
	test.That(t, Between(b, a), test.ShouldEqual, Between(a, b))
	test.That(t, Between(a, a), test.ShouldEqual, 0.0)
}

func TestComputeSimplified(t *testing.T) {
	base := testutils.UnitTargets()
	table := testutils.Table(t, [measurement.NumStations][]measurement.Scan{
		{base},
		{testutils.Translate(base, r3.Vector{X: 0.0001})},
	})

	res, err := Compute(table, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Repetitions, test.ShouldEqual, 1)

	expected := [measurement.NumPairs]float64{1, 1, 1, math.Sqrt2, math.Sqrt2, math.Sqrt2}
	for _, station := range measurement.Stations {
		for _, pair := range measurement.Pairs {
			test.That(t, res.Single[station][pair], test.ShouldHaveLength, 1)
			test.That(t, res.Mean[station][pair], test.ShouldEqual, res.Single[station][pair][0])
			test.That(t, res.Mean[station][pair], test.ShouldAlmostEqual, expected[pair], 1e-12)
		}
	}
	for _, delta := range res.Deltas() {
		test.That(t, delta, test.ShouldAlmostEqual, 0, 1e-12)
	}
}

func TestComputeFull(t *testing.T) {
	base := testutils.FieldTargets()
	const noise = 0.002
	table := testutils.Table(t, [measurement.NumStations][]measurement.Scan{
		testutils.NoisyRepetitions(base, noise),
		testutils.NoisyRepetitions(base, noise),
	})

	res, err := Compute(table, 3)
	test.That(t, err, test.ShouldBeNil)
	for _, station := range measurement.Stations {
		for _, pair := range measurement.Pairs {
			single := res.Single[station][pair]
			test.That(t, single, test.ShouldHaveLength, 3)
			test.That(t, res.Mean[station][pair], test.ShouldAlmostEqual, (single[0]+single[1]+single[2])/3, 1e-12)
		}
	}
	// Identical stations produce exactly zero deltas.
	test.That(t, res.Deltas(), test.ShouldResemble, [measurement.NumPairs]float64{})

	// T1-T3 does not involve the perturbed targets.
	t1t3 := res.Single[measurement.S1][measurement.T1T3]
	test.That(t, t1t3[0], test.ShouldEqual, t1t3[1])
	test.That(t, t1t3[1], test.ShouldEqual, t1t3[2])
}

func TestComputeTriangleInequality(t *testing.T) {
	base := testutils.FieldTargets()
	table := testutils.Table(t, [measurement.NumStations][]measurement.Scan{{base}, {base}})
	res, err := Compute(table, 1)
	test.That(t, err, test.ShouldBeNil)

	dist := func(a, b measurement.Target) float64 {
		pair, err := measurement.PairOf(a, b)
		test.That(t, err, test.ShouldBeNil)
		return res.Mean[measurement.S1][pair]
	}
	for _, i := range measurement.Targets {
		for _, j := range measurement.Targets {
			for _, k := range measurement.Targets {
				if i == j || j == k || i == k {
					continue
				}
				test.That(t, dist(i, k), test.ShouldBeLessThanOrEqualTo, dist(i, j)+dist(j, k)+1e-12)
			}
		}
	}
}

func TestComputeMissing(t *testing.T) {
	base := testutils.UnitTargets()
	table := testutils.Table(t, [measurement.NumStations][]measurement.Scan{{base}, {base, base}})

	_, err := Compute(table, 3)
	var missing *measurement.MissingMeasurementError
	test.That(t, errors.As(err, &missing), test.ShouldBeTrue)
	test.That(t, missing.Station, test.ShouldEqual, measurement.S1)
	test.That(t, missing.Repetition, test.ShouldEqual, measurement.Repetition(2))

	_, err = Compute(table, 0)
	test.That(t, err, test.ShouldNotBeNil)
}
