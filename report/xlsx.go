package report

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"go.viam.com/iso17123/measurement"
)

const (
	summarySheet = "Summary"
	deltasSheet  = "Deltas"
)

// WriteXLSX writes r to a workbook at path with a summary sheet holding the CSV columns and a
// deltas sheet holding every pair's delta, in metres, and check.
func WriteXLSX(path string, r *Record) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}

	// the default sheet becomes the summary
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	row := CSVRow(r)
	for i, key := range CSVHeader {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(summarySheet, labelCell, key); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, labelCell, labelCell, headerStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, valueCell, row[i]); err != nil {
			return err
		}
	}
	if err := f.SetCellValue(summarySheet, "A18", "id"); err != nil {
		return err
	}
	if err := f.SetCellValue(summarySheet, "B18", r.ID.String()); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 24); err != nil {
		return err
	}

	if _, err := f.NewSheet(deltasSheet); err != nil {
		return errors.Wrap(err, "failed to create sheet")
	}
	header := []interface{}{"pair", "delta", "max_dev", "passed"}
	if err := f.SetSheetRow(deltasSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(deltasSheet, "A1", "D1", headerStyle); err != nil {
		return err
	}
	for i, pair := range measurement.Pairs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{pair.DeltaLabel(), r.Deltas[pair], r.MaxDeviation, r.Checks[pair]}
		if err := f.SetSheetRow(deltasSheet, cell, &values); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %q", path)
	}
	return nil
}
