// Package report renders the result of an evaluation run to the console and exports it as CSV,
// PDF and XLSX.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"go.viam.com/iso17123/config"
	"go.viam.com/iso17123/evaluation"
	"go.viam.com/iso17123/measurement"
	"go.viam.com/iso17123/uncertainty"
	"go.viam.com/iso17123/utils"
)

// DatetimeFormat is the layout of the evaluation time in exports.
const DatetimeFormat = "2006-01-02 15:04"

// A Record is the flattened result of one evaluation run together with the metadata of the test.
// All lengths are in metres.
type Record struct {
	ID          uuid.UUID
	Procedure   evaluation.Procedure
	EvaluatedAt time.Time
	Metadata    config.Metadata

	Alpha float64
	UT    float64
	// Case is nil for the simplified procedure.
	Case uncertainty.Case

	// The following are only set by the full procedure.
	UISOTLS                float64
	Std01                  float64
	Std02                  float64
	Homogeneous            bool
	ManufacturerConsistent *bool

	Deltas [measurement.NumPairs]float64
	evaluation.Verdict
}

// FromSimplified builds the record of a simplified test procedure run.
func FromSimplified(res *evaluation.SimplifiedResult, md config.Metadata, evaluatedAt time.Time) *Record {
	return &Record{
		ID:          uuid.New(),
		Procedure:   evaluation.Simplified,
		EvaluatedAt: evaluatedAt,
		Metadata:    md,
		Alpha:       res.Alpha,
		UT:          res.UT,
		Homogeneous: true,
		Deltas:      res.Deltas,
		Verdict:     res.Verdict,
	}
}

// FromFull builds the record of a full test procedure run.
func FromFull(res *evaluation.FullResult, md config.Metadata, evaluatedAt time.Time) *Record {
	return &Record{
		ID:                     uuid.New(),
		Procedure:              evaluation.Full,
		EvaluatedAt:            evaluatedAt,
		Metadata:               md,
		Alpha:                  res.Alpha,
		UT:                     res.UT,
		Case:                   res.Case,
		UISOTLS:                res.UISOTLS,
		Std01:                  res.Std01,
		Std02:                  res.Std02,
		Homogeneous:            res.Homogeneous,
		ManufacturerConsistent: res.ManufacturerConsistent,
		Deltas:                 res.Deltas,
		Verdict:                res.Verdict,
	}
}

// TestProcedure labels the procedure, e.g. "simplified" or "full (case A, u_ms = 0.002)".
func (r *Record) TestProcedure() string {
	if r.Procedure != evaluation.Full || r.Case == nil {
		return r.Procedure.String()
	}
	return fmt.Sprintf("%s (%s)", r.Procedure, r.Case)
}

// Millimetres formats a length given in metres as millimetres rounded to three decimals.
func Millimetres(metres float64) string {
	rounded, err := stats.Round(utils.MillimetresFromMetres(metres), 3)
	if err != nil {
		// NaN input
		return strconv.FormatFloat(metres, 'f', -1, 64)
	}
	if rounded == 0 {
		// drop the sign of -0
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
