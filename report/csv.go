package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/iso17123/evaluation"
)

// CSVHeader is the header row of a results file.
var CSVHeader = []string{
	"device", "manufacturer", "serial_number", "FW_version", "operator",
	"datetime_test", "datetime_eval", "temp", "humidity", "pressure",
	"u_TLS_ISO", "passed", "alpha", "u_t", "test_procedure", "comment",
}

// CSVRow returns the row of r in CSVHeader order. u_TLS_ISO is empty for the simplified procedure.
func CSVRow(r *Record) []string {
	var uISO string
	if r.Procedure == evaluation.Full {
		uISO = formatFloat(r.UISOTLS)
	}
	md := r.Metadata
	return []string{
		md.Device, md.Manufacturer, md.SerialNumber, md.FWVersion, md.Operator,
		md.Datetime, r.EvaluatedAt.Format(DatetimeFormat), md.Temp, md.Humidity, md.Pressure,
		uISO, strconv.FormatBool(r.Passed), formatFloat(r.Alpha), formatFloat(r.UT),
		r.TestProcedure(), md.Comment,
	}
}

// AppendCSV appends r to the results file at path. Missing parent directories and the file
// itself are created; a new or empty file gets the header row first.
func AppendCSV(path string, r *Record) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.Wrap(err, "failed to create results directory")
		}
	}
	//nolint:gosec
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return errors.Wrap(err, "failed to open results file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(CSVHeader); err != nil {
			return err
		}
	}
	if err := w.Write(CSVRow(r)); err != nil {
		return err
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "failed to write results to %q", path)
}
