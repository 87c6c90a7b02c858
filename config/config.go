// Package config defines the configuration of an evaluation run and the metadata that is
// attached to its reports.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/iso17123/evaluation"
	"go.viam.com/iso17123/measurement"
	"go.viam.com/iso17123/uncertainty"
	"go.viam.com/iso17123/utils"
)

// Procedure names used in configuration files and on the command line.
const (
	ProcedureFull       = "full"
	ProcedureSimplified = "simplified"
)

// PlotFormats are the file extensions a deltas plot can be written as.
var PlotFormats = []string{".png", ".svg", ".pdf"}

// DefaultAlpha is the significance level used when none is configured.
const DefaultAlpha = 0.05

// Config describes one evaluation run. Uncertainties are given in millimetres, the unit
// used on instrument data sheets, and converted to metres by the accessor methods.
type Config struct {
	Procedure     string `json:"procedure"`
	DataDirectory string `json:"data_directory"`
	Format        string `json:"format,omitempty"`
	// Order selects and orders the files of the data directory by their index in sorted order.
	Order []int   `json:"order,omitempty"`
	Alpha float64 `json:"alpha,omitempty"`

	// UT is the target-centre uncertainty of the simplified procedure.
	UT float64 `json:"u_t,omitempty"`
	// Case is the uncertainty case of the full procedure: "A", "B" or "C".
	Case string  `json:"case,omitempty"`
	UMS  float64 `json:"u_ms,omitempty"`
	UP   float64 `json:"u_p,omitempty"`

	MetadataPath string `json:"metadata,omitempty"`
	CSVPath      string `json:"csv,omitempty"`
	PDFPath      string `json:"pdf,omitempty"`
	XLSXPath     string `json:"xlsx,omitempty"`
	PlotPath     string `json:"plot,omitempty"`

	Debug bool `json:"debug,omitempty"`
}

// ApplyDefaults fills unset optional fields. Alpha is not one of them: a zero alpha is
// invalid, and the readers start from DefaultAlpha instead.
func (c *Config) ApplyDefaults() {
	if c.Format == "" {
		c.Format = measurement.FormatLeica
	}
	c.Procedure = strings.ToLower(strings.TrimSpace(c.Procedure))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
}

// TestProcedure returns the configured procedure.
func (c *Config) TestProcedure() (evaluation.Procedure, error) {
	switch strings.ToLower(c.Procedure) {
	case ProcedureFull:
		return evaluation.Full, nil
	case ProcedureSimplified:
		return evaluation.Simplified, nil
	case "":
		return 0, errors.Errorf("specify the %s or %s test procedure", ProcedureFull, ProcedureSimplified)
	default:
		return 0, errors.Errorf("invalid test procedure %q, must be %s or %s", c.Procedure, ProcedureFull, ProcedureSimplified)
	}
}

// UTMetres returns the simplified procedure's target-centre uncertainty in metres.
func (c *Config) UTMetres() float64 {
	return utils.MetresFromMillimetres(c.UT)
}

// UncertaintyCase returns the full procedure's uncertainty case with values in metres.
func (c *Config) UncertaintyCase() (uncertainty.Case, error) {
	return uncertainty.Parse(c.Case, utils.MetresFromMillimetres(c.UMS), utils.MetresFromMillimetres(c.UP))
}

// Validate returns every problem of the configuration combined into a single error.
func (c *Config) Validate(path string) error {
	var errs error
	fieldErr := func(field string, err error) {
		errs = multierr.Append(errs, utils.NewConfigValidationError(fmt.Sprintf("%s.%s", path, field), err))
	}

	proc, procErr := c.TestProcedure()
	if procErr != nil {
		fieldErr("procedure", procErr)
	}

	if c.DataDirectory == "" {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "data_directory"))
	} else if info, err := os.Stat(c.DataDirectory); err != nil {
		fieldErr("data_directory", errors.Wrap(err, "invalid data directory"))
	} else if !info.IsDir() {
		fieldErr("data_directory", errors.Errorf("%q is not a directory", c.DataDirectory))
	}

	if !isSupportedFormat(c.Format) {
		fieldErr("format", errors.Errorf("unsupported format %q, supported formats are: %s",
			c.Format, strings.Join(measurement.SupportedFormats, ", ")))
	}

	seen := map[int]bool{}
	for _, idx := range c.Order {
		if idx < 0 {
			fieldErr("order", errors.Errorf("file index %d must not be negative", idx))
		}
		if seen[idx] {
			fieldErr("order", errors.Errorf("file index %d listed twice", idx))
		}
		seen[idx] = true
	}

	if !(c.Alpha > 0 && c.Alpha < 1) {
		fieldErr("alpha", errors.Errorf("invalid confidence interval %v, must be between 0 and 1", c.Alpha))
	}

	if procErr == nil {
		switch proc {
		case evaluation.Simplified:
			if !(c.UT > 0) {
				fieldErr("u_t", errors.Errorf("the simplified test procedure needs a positive u_t (in mm), got %v", c.UT))
			}
		case evaluation.Full:
			if _, err := c.UncertaintyCase(); err != nil {
				fieldErr("case", err)
			}
		}
	}

	if c.PlotPath != "" && !lo.Contains(PlotFormats, strings.ToLower(filepath.Ext(c.PlotPath))) {
		fieldErr("plot", errors.Errorf("unsupported plot format %q, supported formats are: %s",
			filepath.Ext(c.PlotPath), strings.Join(PlotFormats, ", ")))
	}

	if c.MetadataPath != "" {
		if _, err := os.Stat(c.MetadataPath); err != nil {
			fieldErr("metadata", errors.Wrap(err, "invalid path to metadata information"))
		}
	}
	return errs
}

func isSupportedFormat(format string) bool {
	return lo.ContainsBy(measurement.SupportedFormats, func(f string) bool {
		return strings.EqualFold(f, format)
	})
}
