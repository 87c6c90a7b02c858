// Package cli contains the iso17123 command line application.
package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/iso17123/config"
	"go.viam.com/iso17123/logging"
	"go.viam.com/iso17123/measurement"
)

// Flags.
const (
	FlagConfig   = "config"
	FlagDebug    = "debug"
	FlagLogFile  = "log-file"
	FlagFormat   = "format"
	FlagOrder    = "order"
	FlagAlpha    = "alpha"
	FlagUT       = "u-t"
	FlagCase     = "case"
	FlagUMS      = "u-ms"
	FlagUP       = "u-p"
	FlagMetadata = "metadata"
	FlagCSV      = "csv"
	FlagPDF      = "pdf"
	FlagXLSX     = "xlsx"
	FlagPlot     = "plot"
)

const (
	loggerKey  = "logger"
	logFileKey = "log-file"
)

var commonFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  FlagFormat,
		Value: measurement.FormatLeica,
		Usage: "format of the coordinate files",
	},
	&cli.IntSliceFlag{
		Name:  FlagOrder,
		Usage: "file index and order of files to be used, S1 (set 1-3) -> S2 (set 1-3), example: 0,3",
	},
	&cli.Float64Flag{
		Name:  FlagAlpha,
		Value: config.DefaultAlpha,
		Usage: "significance level of the statistical tests",
	},
	&cli.PathFlag{
		Name:  FlagMetadata,
		Usage: "YAML `FILE` with information about the device, operator and environment",
	},
	&cli.PathFlag{
		Name:  FlagCSV,
		Usage: "append the results to the CSV `FILE`, created if missing",
	},
	&cli.PathFlag{
		Name:  FlagPDF,
		Usage: "write a PDF report to `FILE`",
	},
	&cli.PathFlag{
		Name:  FlagXLSX,
		Usage: "write the results to the XLSX `FILE`",
	},
	&cli.PathFlag{
		Name:  FlagPlot,
		Usage: "plot the deltas against the allowed maximum deviation to `FILE` (.png, .svg or .pdf)",
	},
}

func withCommonFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, commonFlags...)
}

var app = &cli.App{
	Name:            "iso17123",
	Usage:           "evaluate terrestrial laser scanner tests according to ISO 17123-9 (chapters 7.5 and 8.3)",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.PathFlag{
			Name:    FlagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    FlagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.PathFlag{
			Name:  FlagLogFile,
			Usage: "additionally write logs to `FILE`",
		},
	},
	Before: func(c *cli.Context) error {
		logger := logging.NewBlankLogger("iso17123")
		logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
		logger.SetLevel(logging.INFO)
		if c.Bool(FlagDebug) {
			logger.SetLevel(logging.DEBUG)
		}
		if c.App.Metadata == nil {
			c.App.Metadata = map[string]interface{}{}
		}
		delete(c.App.Metadata, logFileKey)
		if path := c.Path(FlagLogFile); path != "" {
			appender, closer := logging.NewFileAppender(path)
			logger.AddAppender(appender)
			c.App.Metadata[logFileKey] = closer
		}
		c.App.Metadata[loggerKey] = logger
		logging.ReplaceGlobal(logger)
		return nil
	},
	After: func(c *cli.Context) error {
		if closer, ok := c.App.Metadata[logFileKey].(io.Closer); ok {
			return closer.Close()
		}
		return nil
	},
	Commands: []*cli.Command{
		{
			Name:      config.ProcedureSimplified,
			Usage:     "run the simplified test procedure on one scan per station",
			ArgsUsage: "<data-directory>",
			UsageText: fmt.Sprintf("iso17123 %s --%s <mm> [other options] <data-directory>",
				config.ProcedureSimplified, FlagUT),
			Flags: withCommonFlags(
				&cli.Float64Flag{
					Name:  FlagUT,
					Usage: "uncertainty quantity u_t for a target's centre (in mm)",
				},
			),
			Action: SimplifiedAction,
		},
		{
			Name:      config.ProcedureFull,
			Usage:     "run the full test procedure on three scans per station",
			ArgsUsage: "<data-directory>",
			UsageText: fmt.Sprintf("iso17123 %s --%s A|B|C [other options] <data-directory>",
				config.ProcedureFull, FlagCase),
			Flags: withCommonFlags(
				&cli.StringFlag{
					Name:  FlagCase,
					Usage: "uncertainty case: A (manufacturer specified), B (other sources) or C (instrument only)",
				},
				&cli.Float64Flag{
					Name:  FlagUMS,
					Usage: "manufacturer specified target centre uncertainty for case A (in mm)",
				},
				&cli.Float64Flag{
					Name:  FlagUP,
					Usage: "derived target centre uncertainty from other sources for case B (in mm)",
				},
			),
			Action: FullAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}

func loggerFrom(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerKey].(logging.Logger); ok {
		return logger
	}
	return logging.Global()
}
