package cli

import (
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/iso17123/config"
	"go.viam.com/iso17123/evaluation"
	"go.viam.com/iso17123/report"
)

// clk provides the evaluation time of a run.
var clk clock.Clock = clock.New()

// SimplifiedAction runs the simplified test procedure.
func SimplifiedAction(c *cli.Context) error {
	return runProcedure(c, evaluation.Simplified)
}

// FullAction runs the full test procedure.
func FullAction(c *cli.Context) error {
	return runProcedure(c, evaluation.Full)
}

// configFromContext reads the config file given by --config, if any, and overrides its values
// with the flags set on the command line. It returns the config and the name to report
// validation errors under.
func configFromContext(c *cli.Context, proc evaluation.Procedure) (*config.Config, string, error) {
	cfg := &config.Config{}
	source, fromFile := "flags", false
	if path := c.Path(FlagConfig); path != "" {
		var err error
		if cfg, err = config.Read(path); err != nil {
			return nil, "", errors.Wrapf(err, "failed to read config %q", path)
		}
		source, fromFile = path, true
	}

	cfg.Procedure = proc.String()
	if dir := c.Args().First(); dir != "" {
		cfg.DataDirectory = dir
	}
	if c.IsSet(FlagFormat) || cfg.Format == "" {
		cfg.Format = c.String(FlagFormat)
	}
	if c.IsSet(FlagOrder) {
		cfg.Order = c.IntSlice(FlagOrder)
	}
	if c.IsSet(FlagAlpha) || !fromFile {
		cfg.Alpha = c.Float64(FlagAlpha)
	}
	setString := func(flag string, dst *string) {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	setPath := func(flag string, dst *string) {
		if c.IsSet(flag) {
			*dst = c.Path(flag)
		}
	}
	setFloat := func(flag string, dst *float64) {
		if c.IsSet(flag) {
			*dst = c.Float64(flag)
		}
	}
	setPath(FlagMetadata, &cfg.MetadataPath)
	setPath(FlagCSV, &cfg.CSVPath)
	setPath(FlagPDF, &cfg.PDFPath)
	setPath(FlagXLSX, &cfg.XLSXPath)
	setPath(FlagPlot, &cfg.PlotPath)
	switch proc {
	case evaluation.Simplified:
		setFloat(FlagUT, &cfg.UT)
	case evaluation.Full:
		setString(FlagCase, &cfg.Case)
		setFloat(FlagUMS, &cfg.UMS)
		setFloat(FlagUP, &cfg.UP)
	}
	cfg.ApplyDefaults()
	return cfg, source, nil
}

func runProcedure(c *cli.Context, proc evaluation.Procedure) error {
	logger := loggerFrom(c)
	cfg, source, err := configFromContext(c, proc)
	if err != nil {
		return err
	}
	if err := cfg.Validate(source); err != nil {
		return err
	}

	names, err := ListDataFiles(cfg.DataDirectory)
	if err != nil {
		return err
	}
	names, err = SelectFiles(names, cfg.Order)
	if err != nil {
		return err
	}
	files, err := AssignFiles(proc, cfg.DataDirectory, names)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "Files to be used in the following order:")
	for i, f := range files {
		printf(c.App.Writer, "[%d] %s (%s, set %d)", i, filepath.Base(f.Path), f.Station, f.Repetition)
	}
	table, err := LoadTable(cfg.Format, files)
	if err != nil {
		return err
	}

	var md config.Metadata
	if cfg.MetadataPath != "" {
		if md, err = config.ReadMetadata(cfg.MetadataPath, logger); err != nil {
			return err
		}
	} else if cfg.CSVPath != "" || cfg.PDFPath != "" || cfg.XLSXPath != "" {
		warningf(c.App.ErrWriter, "no metadata file given, device and operator fields of the exports are left empty")
	}

	var rec *report.Record
	switch proc {
	case evaluation.Simplified:
		res, err := evaluation.EvaluateSimplified(table, cfg.Alpha, cfg.UTMetres(), logger)
		if err != nil {
			return err
		}
		rec = report.FromSimplified(res, md, clk.Now())
	case evaluation.Full:
		uCase, err := cfg.UncertaintyCase()
		if err != nil {
			return err
		}
		res, err := evaluation.EvaluateFull(table, cfg.Alpha, uCase, logger)
		if err != nil {
			return err
		}
		rec = report.FromFull(res, md, clk.Now())
	}

	if err := report.Print(c.App.Writer, rec); err != nil {
		return err
	}
	return export(c, cfg, rec)
}

func export(c *cli.Context, cfg *config.Config, rec *report.Record) error {
	for _, out := range []struct {
		kind  string
		path  string
		write func(string, *report.Record) error
	}{
		{"csv", cfg.CSVPath, report.AppendCSV},
		{"pdf", cfg.PDFPath, report.WritePDF},
		{"xlsx", cfg.XLSXPath, report.WriteXLSX},
		{"plot", cfg.PlotPath, report.WritePlot},
	} {
		if out.path == "" {
			continue
		}
		if err := out.write(out.path, rec); err != nil {
			failuref(c.App.ErrWriter, "writing %s export failed", out.kind)
			return err
		}
		successf(c.App.Writer, "%s export written to %s", out.kind, out.path)
	}
	if rec.Passed {
		infof(c.App.Writer, "test %s passed (report id %s)", rec.TestProcedure(), rec.ID)
	} else {
		infof(c.App.Writer, "test %s failed (report id %s)", rec.TestProcedure(), rec.ID)
	}
	return nil
}
