package cli

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/iso17123/evaluation"
	"go.viam.com/iso17123/logging"
	"go.viam.com/iso17123/measurement"
	"go.viam.com/iso17123/report"
	"go.viam.com/iso17123/testutils"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"iso17123"}, args...))
	return out.String(), errOut.String(), err
}

func writeSimplifiedData(t *testing.T, shift r3.Vector) string {
	t.Helper()
	dir := t.TempDir()
	base := testutils.FieldTargets()
	testutils.WriteLeicaFile(t, dir, "s1.csv", base)
	testutils.WriteLeicaFile(t, dir, "s2.csv", testutils.Translate(base, shift))
	return dir
}

func writeFullData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	base := testutils.FieldTargets()
	scans := [measurement.NumStations][]measurement.Scan{
		testutils.NoisyRepetitions(base, 0.001),
		testutils.NoisyRepetitions(testutils.Translate(base, r3.Vector{X: 1.5, Z: -0.2}), 0.001),
	}
	for _, station := range measurement.Stations {
		for i, scan := range scans[station] {
			testutils.WriteLeicaFile(t, dir, fmt.Sprintf("%s_set%d.csv", station, i+1), scan)
		}
	}
	return dir
}

func TestListAndSelectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.csv", "a.csv", "b.csv"} {
		test.That(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600), test.ShouldBeNil)
	}
	test.That(t, os.Mkdir(filepath.Join(dir, "nested"), 0o750), test.ShouldBeNil)

	names, err := ListDataFiles(dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, names, test.ShouldResemble, []string{"a.csv", "b.csv", "c.csv"})

	selected, err := SelectFiles(names, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, selected, test.ShouldResemble, names)

	selected, err = SelectFiles(names, []int{2, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, selected, test.ShouldResemble, []string{"c.csv", "a.csv"})

	_, err = SelectFiles(names, []int{3})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "file index 3 out of range")

	_, err = ListDataFiles(filepath.Join(dir, "missing"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAssignFiles(t *testing.T) {
	files, err := AssignFiles(evaluation.Full, "data", []string{"a", "b", "c", "d", "e", "f"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, files, test.ShouldHaveLength, 6)
	test.That(t, files[0], test.ShouldResemble, ScanFile{filepath.Join("data", "a"), measurement.S1, 1})
	test.That(t, files[2], test.ShouldResemble, ScanFile{filepath.Join("data", "c"), measurement.S1, 3})
	test.That(t, files[3], test.ShouldResemble, ScanFile{filepath.Join("data", "d"), measurement.S2, 1})
	test.That(t, files[5], test.ShouldResemble, ScanFile{filepath.Join("data", "f"), measurement.S2, 3})

	files, err = AssignFiles(evaluation.Simplified, "data", []string{"a", "b"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, files[1], test.ShouldResemble, ScanFile{filepath.Join("data", "b"), measurement.S2, 1})

	_, err = AssignFiles(evaluation.Full, "data", []string{"a", "b"})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "did not find 6 files for full test procedure, got 2")
}

func TestLoadTable(t *testing.T) {
	dir := writeSimplifiedData(t, r3.Vector{Y: 1})
	files, err := AssignFiles(evaluation.Simplified, dir, []string{"s1.csv", "s2.csv"})
	test.That(t, err, test.ShouldBeNil)

	table, err := LoadTable(measurement.FormatLeica, files)
	test.That(t, err, test.ShouldBeNil)
	coord, err := table.Lookup(measurement.S2, 1, measurement.T3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, coord.Y, test.ShouldAlmostEqual, 12.5)

	_, err = LoadTable("faro", files)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSimplifiedCommand(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 5, 2, 10, 15, 0, 0, time.UTC))
	clk = mock
	defer func() { clk = clock.New() }()

	dir := writeSimplifiedData(t, r3.Vector{X: 4, Y: -2})
	results := filepath.Join(t.TempDir(), "results.csv")

	out, errOut, err := runApp(t, "simplified", "--u-t", "1", "--csv", results, dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "[0] s1.csv (S1, set 1)")
	test.That(t, out, test.ShouldContainSubstring, "[1] s2.csv (S2, set 1)")
	test.That(t, out, test.ShouldContainSubstring, "Results (simplified test procedure)")
	test.That(t, out, test.ShouldContainSubstring, "Allowed max deviation with alpha=0.05: 3.92mm")
	test.That(t, out, test.ShouldContainSubstring, "Test passed")
	test.That(t, out, test.ShouldContainSubstring, "csv export written to")
	test.That(t, errOut, test.ShouldContainSubstring, "no metadata file given")

	//nolint:gosec
	f, err := os.Open(results)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rows, test.ShouldHaveLength, 2)
	test.That(t, rows[0], test.ShouldResemble, report.CSVHeader)
	test.That(t, rows[1][6], test.ShouldEqual, "2024-05-02 10:15")
	test.That(t, rows[1][11], test.ShouldEqual, "true")
	test.That(t, rows[1][13], test.ShouldEqual, "0.001")
	test.That(t, rows[1][14], test.ShouldEqual, "simplified")
}

func TestSimplifiedCommandOrder(t *testing.T) {
	dir := writeSimplifiedData(t, r3.Vector{})
	base := testutils.FieldTargets()
	testutils.WriteLeicaFile(t, dir, "s3.csv", testutils.Move(base, measurement.T4, r3.Vector{X: 0.05}))

	_, _, err := runApp(t, "simplified", "--u-t", "1", dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "did not find 2 files")

	out, _, err := runApp(t, "simplified", "--u-t", "1", "--order", "2,0", dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "[0] s3.csv (S1, set 1)")
	test.That(t, out, test.ShouldContainSubstring, "Test failed")
}

func TestSimplifiedCommandValidation(t *testing.T) {
	dir := writeSimplifiedData(t, r3.Vector{})

	_, _, err := runApp(t, "simplified", dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "u_t")

	_, _, err = runApp(t, "simplified", "--u-t", "1", "--alpha", "1.5")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "data_directory")
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid confidence interval 1.5")

	out, _, err := runApp(t, "simplified", "--u-t", "2", "--alpha", "0", dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid confidence interval 0")
	test.That(t, out, test.ShouldNotContainSubstring, "Test passed")
}

func TestFullCommand(t *testing.T) {
	dir := writeFullData(t)
	metadata := filepath.Join(t.TempDir(), "metadata.yaml")
	test.That(t, os.WriteFile(metadata, []byte("metadata:\n  device: P50\n  operator: M. Example\n"), 0o600),
		test.ShouldBeNil)
	outDir := t.TempDir()

	logFile := filepath.Join(outDir, "iso17123.log")
	out, errOut, err := runApp(t, "--debug", "--log-file", logFile, "full", "--case", "b", "--u-p", "0.5",
		"--metadata", metadata,
		"--pdf", filepath.Join(outDir, "report"),
		"--xlsx", filepath.Join(outDir, "report.xlsx"),
		"--plot", filepath.Join(outDir, "deltas.png"),
		dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "[2] S1_set3.csv (S1, set 3)")
	test.That(t, out, test.ShouldContainSubstring, "[5] S2_set3.csv (S2, set 3)")
	test.That(t, out, test.ShouldContainSubstring, "Results (full test procedure)")
	test.That(t, out, test.ShouldContainSubstring, "Standard uncertainty of the TLS for a point")
	test.That(t, out, test.ShouldContainSubstring, "full (case B, u_p = 0.0005)")
	test.That(t, errOut, test.ShouldContainSubstring, "metadata keys missing")
	test.That(t, errOut, test.ShouldContainSubstring, "full test procedure evaluated")
	test.That(t, logging.Global().GetLevel(), test.ShouldEqual, logging.DEBUG)

	logged, err := os.ReadFile(logFile)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(logged), test.ShouldContainSubstring, "full test procedure evaluated")

	for _, name := range []string{"report.pdf", "report.xlsx", "deltas.png"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
	}
}

func TestFullCommandConfigFile(t *testing.T) {
	dir := writeFullData(t)
	cfgPath := filepath.Join(t.TempDir(), "iso.json")
	test.That(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`{
		"procedure": "simplified",
		"data_directory": %q,
		"case": "A",
		"u_ms": 2,
		"alpha": 0.1
	}`, dir)), 0o600), test.ShouldBeNil)

	out, errOut, err := runApp(t, "--config", cfgPath, "full")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Allowed max deviation with alpha=0.1")
	test.That(t, out, test.ShouldContainSubstring, "full (case A, u_ms = 0.002)")
	test.That(t, errOut, test.ShouldNotContainSubstring, "full test procedure evaluated")

	// flags override the file
	out, _, err = runApp(t, "--config", cfgPath, "full", "--case", "C", "--alpha", "0.05")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Allowed max deviation with alpha=0.05")
	test.That(t, out, test.ShouldContainSubstring, "full (case C)")

	_, _, err = runApp(t, "--config", filepath.Join(t.TempDir(), "missing.json"), "full")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to read config")
}

func TestFullCommandMissingCase(t *testing.T) {
	dir := writeFullData(t)
	_, _, err := runApp(t, "full", dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid uncertainty case")
}
