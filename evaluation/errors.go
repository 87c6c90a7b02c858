package evaluation

import "fmt"

// An InvalidParameterError is returned when a parameter of an evaluation is outside of its
// domain. It is always detected before any coordinate is read.
type InvalidParameterError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

func validateAlpha(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return &InvalidParameterError{"alpha", alpha, "must be strictly between 0 and 1"}
	}
	return nil
}
