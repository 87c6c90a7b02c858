// Package main is the iso17123 command itself.
package main

import (
	"os"

	"go.viam.com/iso17123/cli"
	"go.viam.com/iso17123/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logger := logging.NewBlankLogger("iso17123")
		logger.AddAppender(logging.NewWriterAppender(os.Stderr))
		logger.Error(err)
		//nolint:errcheck
		logger.Sync()
		os.Exit(1)
	}
}
