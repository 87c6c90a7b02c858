package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/pkg/errors"

	"go.viam.com/iso17123/evaluation"
	"go.viam.com/iso17123/measurement"
	"go.viam.com/iso17123/uncertainty"
)

const (
	pdfMargin     = 15.0
	pdfLineHeight = 6.0
	pdfLabelWidth = 45.0
	pdfValueWidth = 40.0
)

type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p *pdfReport) section(title string) {
	p.pdf.Ln(pdfLineHeight / 2)
	p.pdf.SetFont("Helvetica", "B", 13)
	p.pdf.CellFormat(0, pdfLineHeight+2, p.tr(title), "", 1, "L", false, 0, "")
	p.pdf.SetFont("Helvetica", "", 10)
}

func (p *pdfReport) row(label, value string) {
	p.pdf.SetFont("Helvetica", "B", 10)
	p.pdf.CellFormat(pdfLabelWidth, pdfLineHeight, p.tr(label), "", 0, "L", false, 0, "")
	p.pdf.SetFont("Helvetica", "", 10)
	p.pdf.CellFormat(0, pdfLineHeight, p.tr(value), "", 1, "L", false, 0, "")
}

// marker draws a filled square in the colour of the check result.
func (p *pdfReport) marker(passed bool) {
	x, y := p.pdf.GetXY()
	if passed {
		p.pdf.SetFillColor(0, 160, 0)
	} else {
		p.pdf.SetFillColor(200, 0, 0)
	}
	p.pdf.Rect(x+1, y+1.5, 3, 3, "F")
	p.pdf.Ln(pdfLineHeight)
}

// WritePDF writes the test report of r to path. ".pdf" is appended when path has another
// extension.
func WritePDF(path string, r *Record) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		path += ".pdf"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("ISO 17123-9 test report", true)
	pdf.AddPage()
	p := &pdfReport{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "ISO 17123-9 test report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, pdfLineHeight, r.EvaluatedAt.Format(DatetimeFormat), "", 1, "C", false, 0, "")

	md := r.Metadata
	p.section("Device Information")
	p.row("Device:", md.Device)
	p.row("Manufacturer:", md.Manufacturer)
	p.row("Serial Number:", md.SerialNumber)
	p.row("Firmware Version:", md.FWVersion)

	p.section("Operator Information")
	p.row("Operator:", md.Operator)
	p.row("Date of Scans:", md.Datetime)

	p.section("Environmental Conditions")
	p.row("Temperature:", md.Temp)
	p.row("Humidity:", md.Humidity)
	p.row("Pressure:", md.Pressure)

	p.section("Comment")
	pdf.MultiCell(0, pdfLineHeight, p.tr(md.Comment), "", "L", false)

	if r.Procedure == evaluation.Full {
		p.section("Test Performance")
		p.row("u_TLS_ISO:", Millimetres(r.UISOTLS)+"mm")
		switch c := r.Case.(type) {
		case uncertainty.CaseA:
			p.row("u_ms:", Millimetres(c.UMS)+"mm")
		case uncertainty.CaseB:
			p.row("u_p:", Millimetres(c.UP)+"mm")
		}
		if !r.Homogeneous {
			p.row("std_0_1:", Millimetres(r.Std01)+"mm")
			p.row("std_0_2:", Millimetres(r.Std02)+"mm")
		}
	} else {
		p.section("TLS uncertainty")
		p.row("u_T:", Millimetres(r.UT)+"mm")
	}

	p.section("Results")
	p.row("Test procedure:", r.TestProcedure())
	p.row(fmt.Sprintf("Max deviation (alpha=%v):", r.Alpha), Millimetres(r.MaxDeviation)+"mm")
	for _, pair := range measurement.Pairs {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(pdfLabelWidth, pdfLineHeight, pair.DeltaLabel()+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(pdfValueWidth/2, pdfLineHeight, Millimetres(r.Deltas[pair])+"mm", "", 0, "R", false, 0, "")
		p.marker(r.Checks[pair])
	}
	verdict := "failed"
	if r.Passed {
		verdict = "passed"
	}
	p.row("Verdict:", verdict)
	p.row("Report ID:", r.ID.String())

	if err := pdf.OutputFileAndClose(path); err != nil {
		return errors.Wrapf(err, "failed to write pdf report %q", path)
	}
	return nil
}
