// Package uncertainty selects the total target-centre uncertainty u_T of the full test
// procedure according to the three cases of ISO 17123-9 §8.5.1.
package uncertainty

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/iso17123/utils"
)

// A Case is one of CaseA, CaseB or CaseC. Each variant carries exactly the externally supplied
// uncertainty that its combination rule needs.
type Case interface {
	fmt.Stringer
	// Letter returns "A", "B" or "C".
	Letter() string
	// TotalUncertainty combines the instrument uncertainty u_ISO_TLS with the case's external
	// uncertainty into u_T.
	TotalUncertainty(uISO float64) float64

	validate() error
}

// CaseA uses the manufacturer specified target-centre uncertainty: u_T = u_ms.
type CaseA struct {
	UMS float64
}

// CaseB combines the instrument uncertainty with a target-centre uncertainty derived from other
// sources: u_T = √(u_ISO_TLS² + u_p²).
type CaseB struct {
	UP float64
}

// CaseC uses the instrument uncertainty alone: u_T = u_ISO_TLS. It is CaseB with u_p = 0.
type CaseC struct{}

// Letter returns "A".
func (CaseA) Letter() string { return "A" }

// Letter returns "B".
func (CaseB) Letter() string { return "B" }

// Letter returns "C".
func (CaseC) Letter() string { return "C" }

// TotalUncertainty returns u_ms.
func (c CaseA) TotalUncertainty(float64) float64 {
	return c.UMS
}

// TotalUncertainty returns √(uISO² + u_p²).
func (c CaseB) TotalUncertainty(uISO float64) float64 {
	return math.Sqrt(utils.Square(uISO) + utils.Square(c.UP))
}

// TotalUncertainty returns √(uISO² + 0²), which is uISO for any non-negative input.
func (c CaseC) TotalUncertainty(uISO float64) float64 {
	return CaseB{}.TotalUncertainty(uISO)
}

func (c CaseA) String() string {
	return fmt.Sprintf("case A, u_ms = %v", c.UMS)
}

func (c CaseB) String() string {
	return fmt.Sprintf("case B, u_p = %v", c.UP)
}

func (CaseC) String() string {
	return "case C"
}

func (c CaseA) validate() error {
	if !(c.UMS > 0) {
		return errors.Errorf("case A: u_ms must be positive, got %v", c.UMS)
	}
	return nil
}

func (c CaseB) validate() error {
	if !(c.UP > 0) {
		return errors.Errorf("case B: u_p must be positive, got %v", c.UP)
	}
	return nil
}

func (CaseC) validate() error {
	return nil
}

// Validate checks that c is set and that the uncertainty it carries is positive.
func Validate(c Case) error {
	if c == nil {
		return errors.New("an uncertainty case (A, B or C) is required")
	}
	return c.validate()
}

// An UnknownCaseError is returned by Parse for a letter other than A, B or C.
type UnknownCaseError struct {
	Letter string
}

func (e *UnknownCaseError) Error() string {
	return fmt.Sprintf("invalid uncertainty case %q, must be A, B or C (see ISO 17123-9 §8.5.1)", e.Letter)
}

// Parse builds the case named by letter (case-insensitive "a", "b" or "c"). ums is only used for
// case A and up only for case B. The returned case is validated.
func Parse(letter string, ums, up float64) (Case, error) {
	var c Case
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "A":
		c = CaseA{UMS: ums}
	case "B":
		c = CaseB{UP: up}
	case "C":
		c = CaseC{}
	default:
		return nil, &UnknownCaseError{Letter: letter}
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}
