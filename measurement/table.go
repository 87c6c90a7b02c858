package measurement

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Coordinates gives access to observed target centres keyed by station, repetition and target.
type Coordinates interface {
	Lookup(station Station, rep Repetition, target Target) (r3.Vector, error)
}

// Table is an in-memory coordinate table for the fixed observation design. The zero value is an
// empty table ready for use.
type Table struct {
	coords  [NumStations][MaxRepetitions][NumTargets]r3.Vector
	present [NumStations][MaxRepetitions][NumTargets]bool
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Set stores the coordinate of a target. Every key may only be set once.
func (t *Table) Set(station Station, rep Repetition, target Target, coord r3.Vector) error {
	if err := checkKey(station, rep, target); err != nil {
		return err
	}
	if t.present[station][rep.index()][target] {
		return &DuplicateMeasurementError{station, rep, target}
	}
	t.coords[station][rep.index()][target] = coord
	t.present[station][rep.index()][target] = true
	return nil
}

// SetScan stores the coordinates of one complete scan of a station.
func (t *Table) SetScan(station Station, rep Repetition, scan Scan) error {
	for _, target := range Targets {
		coord, ok := scan[target]
		if !ok {
			return &MissingMeasurementError{station, rep, target}
		}
		if err := t.Set(station, rep, target, coord); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the coordinate of a target or a *MissingMeasurementError.
func (t *Table) Lookup(station Station, rep Repetition, target Target) (r3.Vector, error) {
	if err := checkKey(station, rep, target); err != nil {
		return r3.Vector{}, err
	}
	if !t.present[station][rep.index()][target] {
		return r3.Vector{}, &MissingMeasurementError{station, rep, target}
	}
	return t.coords[station][rep.index()][target], nil
}

// Require checks that every station has all four targets for repetitions 1..repetitions and
// returns the first missing key in station, repetition, target order.
func Require(coords Coordinates, repetitions int) error {
	if repetitions < 1 || repetitions > MaxRepetitions {
		return errors.Errorf("repetitions must be between 1 and %d, got %d", MaxRepetitions, repetitions)
	}
	for _, station := range Stations {
		for rep := Repetition(1); int(rep) <= repetitions; rep++ {
			for _, target := range Targets {
				if _, err := coords.Lookup(station, rep, target); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkKey(station Station, rep Repetition, target Target) error {
	if !station.Valid() {
		return errors.Errorf("invalid station %v", station)
	}
	if !rep.Valid() {
		return errors.Errorf("invalid repetition %d", rep)
	}
	if !target.Valid() {
		return errors.Errorf("invalid target %v", target)
	}
	return nil
}
