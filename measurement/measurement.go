// Package measurement defines the fixed observation design of an ISO 17123-9 field test: two
// stations, four targets, the six target pairs and the repetitions scanned at each station.
package measurement

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// NumStations, NumTargets and NumPairs describe the fixed 2-station, 4-target design.
const (
	NumStations = 2
	NumTargets  = 4
	NumPairs    = NumTargets * (NumTargets - 1) / 2

	// MaxRepetitions is the number of scans per station in the full test procedure.
	MaxRepetitions = 3
)

// A Station is one of the two instrument setups.
type Station int

// The two stations.
const (
	S1 Station = iota
	S2
)

// Stations lists every station in evaluation order.
var Stations = [NumStations]Station{S1, S2}

func (s Station) String() string {
	if s < 0 || s >= NumStations {
		return fmt.Sprintf("Station(%d)", int(s))
	}
	return fmt.Sprintf("S%d", int(s)+1)
}

// Valid reports whether s is S1 or S2.
func (s Station) Valid() bool {
	return s >= 0 && s < NumStations
}

// ParseStation parses "S1" or "S2" (case-insensitive).
func ParseStation(label string) (Station, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "S1":
		return S1, nil
	case "S2":
		return S2, nil
	}
	return 0, errors.Errorf("unknown station %q", label)
}

// A Target is one of the four reference targets.
type Target int

// The four targets.
const (
	T1 Target = iota
	T2
	T3
	T4
)

// Targets lists every target in order.
var Targets = [NumTargets]Target{T1, T2, T3, T4}

func (t Target) String() string {
	if t < 0 || t >= NumTargets {
		return fmt.Sprintf("Target(%d)", int(t))
	}
	return fmt.Sprintf("T%d", int(t)+1)
}

// Valid reports whether t is one of T1..T4.
func (t Target) Valid() bool {
	return t >= 0 && t < NumTargets
}

// ParseTarget parses a target label such as "T3" (case-insensitive).
func ParseTarget(label string) (Target, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "T1":
		return T1, nil
	case "T2":
		return T2, nil
	case "T3":
		return T3, nil
	case "T4":
		return T4, nil
	}
	return 0, errors.Errorf("unknown target %q", label)
}

// A Pair is an unordered combination of two distinct targets.
type Pair int

// The six target pairs, in the order used for every report.
const (
	T1T2 Pair = iota
	T1T3
	T1T4
	T2T3
	T2T4
	T3T4
)

// Pairs lists every target pair in order.
var Pairs = [NumPairs]Pair{T1T2, T1T3, T1T4, T2T3, T2T4, T3T4}

var pairTargets = [NumPairs][2]Target{
	{T1, T2},
	{T1, T3},
	{T1, T4},
	{T2, T3},
	{T2, T4},
	{T3, T4},
}

// Targets returns the two targets of the pair, lower index first.
func (p Pair) Targets() (Target, Target) {
	ts := pairTargets[p]
	return ts[0], ts[1]
}

// Valid reports whether p is one of the six pairs.
func (p Pair) Valid() bool {
	return p >= 0 && p < NumPairs
}

func (p Pair) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Pair(%d)", int(p))
	}
	i, j := p.Targets()
	return i.String() + "-" + j.String()
}

// DeltaLabel returns the name a pair's delta carries in exported results, e.g. "delta_1_2".
func (p Pair) DeltaLabel() string {
	i, j := p.Targets()
	return fmt.Sprintf("delta_%d_%d", int(i)+1, int(j)+1)
}

// PairOf returns the pair made of targets a and b in either order.
func PairOf(a, b Target) (Pair, error) {
	if a > b {
		a, b = b, a
	}
	for _, p := range Pairs {
		if pairTargets[p] == [2]Target{a, b} {
			return p, nil
		}
	}
	return 0, errors.Errorf("no target pair for %v and %v", a, b)
}

// A Repetition is the 1-based index of a scan pass at a station.
type Repetition int

// Valid reports whether r is within 1..MaxRepetitions.
func (r Repetition) Valid() bool {
	return r >= 1 && r <= MaxRepetitions
}

func (r Repetition) index() int {
	return int(r) - 1
}
