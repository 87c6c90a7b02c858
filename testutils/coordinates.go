package testutils

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/iso17123/measurement"
)

// UnitTargets is the target layout T1=(0,0,0), T2=(1,0,0), T3=(0,1,0), T4=(0,0,1).
func UnitTargets() measurement.Scan {
	return measurement.Scan{
		measurement.T1: {X: 0, Y: 0, Z: 0},
		measurement.T2: {X: 1, Y: 0, Z: 0},
		measurement.T3: {X: 0, Y: 1, Z: 0},
		measurement.T4: {X: 0, Y: 0, Z: 1},
	}
}

// FieldTargets is a layout at typical test-field scale, in metres.
func FieldTargets() measurement.Scan {
	return measurement.Scan{
		measurement.T1: {X: 12.0, Y: -4.0, Z: 0.5},
		measurement.T2: {X: 18.5, Y: 3.0, Z: 1.8},
		measurement.T3: {X: 9.0, Y: 11.5, Z: 0.9},
		measurement.T4: {X: 24.0, Y: 8.0, Z: 3.2},
	}
}

// Translate returns a copy of scan with every target moved by offset.
func Translate(scan measurement.Scan, offset r3.Vector) measurement.Scan {
	out := make(measurement.Scan, len(scan))
	for target, coord := range scan {
		out[target] = coord.Add(offset)
	}
	return out
}

// Move returns a copy of scan with a single target moved by offset.
func Move(scan measurement.Scan, target measurement.Target, offset r3.Vector) measurement.Scan {
	out := Translate(scan, r3.Vector{})
	out[target] = out[target].Add(offset)
	return out
}

// Table builds a coordinate table from per-station scans, where scans[station][i] is
// repetition i+1.
func Table(tb testing.TB, scans [measurement.NumStations][]measurement.Scan) *measurement.Table {
	tb.Helper()
	table := measurement.NewTable()
	for _, station := range measurement.Stations {
		for idx, scan := range scans[station] {
			test.That(tb, table.SetScan(station, measurement.Repetition(idx+1), scan), test.ShouldBeNil)
		}
	}
	return table
}

// NoisyRepetitions returns three scans of base where T2 is shifted along X by -noise, 0 and
// +noise and T4 along Z by +noise, 0 and -noise.
func NoisyRepetitions(base measurement.Scan, noise float64) []measurement.Scan {
	scans := make([]measurement.Scan, 0, measurement.MaxRepetitions)
	for _, k := range []float64{-1, 0, 1} {
		scan := Move(base, measurement.T2, r3.Vector{X: k * noise})
		scan = Move(scan, measurement.T4, r3.Vector{Z: -k * noise})
		scans = append(scans, scan)
	}
	return scans
}
