package measurement

import "fmt"

// A MissingMeasurementError is returned when the coordinate of a target that the chosen test
// procedure requires was never observed.
type MissingMeasurementError struct {
	Station    Station
	Repetition Repetition
	Target     Target
}

func (e *MissingMeasurementError) Error() string {
	return fmt.Sprintf("missing measurement for station %v, repetition %d, target %v", e.Station, e.Repetition, e.Target)
}

// A DuplicateMeasurementError is returned when a coordinate is set twice for the same key.
type DuplicateMeasurementError struct {
	Station    Station
	Repetition Repetition
	Target     Target
}

func (e *DuplicateMeasurementError) Error() string {
	return fmt.Sprintf("duplicate measurement for station %v, repetition %d, target %v", e.Station, e.Repetition, e.Target)
}
