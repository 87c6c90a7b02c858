package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/iso17123/measurement"
)

// WriteLeicaFile writes scan as a Leica target list into dir and returns its path.
func WriteLeicaFile(tb testing.TB, dir, name string, scan measurement.Scan) string {
	tb.Helper()
	var sb strings.Builder
	sb.WriteString("T,X,Y,Z\n")
	for _, target := range measurement.Targets {
		coord, ok := scan[target]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%v,%.10f,%.10f,%.10f\n", target, coord.X, coord.Y, coord.Z)
	}
	path := filepath.Join(dir, name)
	test.That(tb, os.WriteFile(path, []byte(sb.String()), 0o600), test.ShouldBeNil)
	return path
}
