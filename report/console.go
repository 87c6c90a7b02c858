package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"go.viam.com/iso17123/evaluation"
	"go.viam.com/iso17123/measurement"
)

const marker = "■"

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	warnColor = color.New(color.Bold, color.FgYellow)
)

// Check renders the pass/fail marker of one delta.
func Check(passed bool) string {
	if passed {
		return passColor.Sprint(marker)
	}
	return failColor.Sprint(marker)
}

// DeltaTable renders the deltas of r in millimetres together with their markers.
func DeltaTable(r *Record) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Pair", "Delta [mm]", "Check"})
	for _, pair := range measurement.Pairs {
		t.AppendRow(table.Row{pair.DeltaLabel(), Millimetres(r.Deltas[pair]), Check(r.Checks[pair])})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	return t.Render()
}

// Print writes the console report of r to w.
func Print(w io.Writer, r *Record) error {
	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format+"\n", args...)
		}
	}

	printf("Results (%s test procedure)", r.Procedure)
	if r.Procedure == evaluation.Full {
		if !r.Homogeneous {
			if err == nil {
				_, err = warnColor.Fprintln(w, "S1 and S2 have significantly different std deviations!")
			}
			printf("std_0_1: %smm", Millimetres(r.Std01))
			printf("std_0_2: %smm", Millimetres(r.Std02))
		}
		printf("Standard uncertainty of the TLS for a point: %smm", Millimetres(r.UISOTLS))
		if r.ManufacturerConsistent != nil && !*r.ManufacturerConsistent {
			printf("u_ISO_TLS is not consistent with the manufacturer specified uncertainty")
		}
	}
	printf("Allowed max deviation with alpha=%v: %smm", r.Alpha, Millimetres(r.MaxDeviation))
	printf("%s", DeltaTable(r))
	if r.Passed {
		printf("Test %s", passColor.Sprint("passed"))
	} else {
		printf("Test %s", failColor.Sprint("failed"))
	}
	return err
}
