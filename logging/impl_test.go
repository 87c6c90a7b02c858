package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"go.viam.com/test"
)

// assertLogMatches will fuzzy match log lines. Notably, this checks the time format, but ignores
// the exact time. And it expects a match on the filename, but the exact line number can be wrong.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualTrimmed := strings.TrimSuffix(output, "\n")
	actualParts := strings.Split(actualTrimmed, "\t")
	expectedParts := strings.Split(expected, "\t")
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))
	// Use the length of the first string as a weak verification of checking that the result looks like a date.
	test.That(t, len(actualParts[0]), test.ShouldEqual, len(expectedParts[0]))
	// Log level.
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])
	// Logger name.
	test.That(t, actualParts[2], test.ShouldEqual, expectedParts[2])

	// Filename:line_number.
	actualFilename, actualLineNumber, found := strings.Cut(actualParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, found := strings.Cut(expectedParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLineNumber)
	test.That(t, err, test.ShouldBeNil)

	// Log message.
	test.That(t, actualParts[4], test.ShouldEqual, expectedParts[4])
	if len(actualParts) == 5 {
		return
	}

	expectedMap := make(map[string]any)
	err = json.Unmarshal([]byte(expectedParts[5]), &expectedMap)
	test.That(t, err, test.ShouldBeNil)

	actualMap := make(map[string]any)
	err = json.Unmarshal([]byte(actualParts[5]), &actualMap)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, actualMap, test.ShouldResemble, expectedMap)
}

func TestConsoleFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("iso")
	logger.AddAppender(NewWriterAppender(&buf))

	logger.Info("info message")
	assertLogMatches(t, &buf,
		`2023-10-30T09:12:09.459Z	INFO	iso	logging/impl_test.go:67	info message`)

	logger.Debugf("omega %v", 3)
	assertLogMatches(t, &buf,
		`2023-10-30T09:12:09.459Z	DEBUG	iso	logging/impl_test.go:71	omega 3`)

	logger.Warnw("stations differ", "std_0_1", 0.5, "homogeneous", false)
	assertLogMatches(t, &buf,
		`2023-10-30T09:12:09.459Z	WARN	iso	logging/impl_test.go:75	stations differ	{"std_0_1":0.5,"homogeneous":false}`)

	logger.Errorw("unpaired", "key")
	assertLogMatches(t, &buf,
		`2023-10-30T09:12:09.459Z	ERROR	iso	logging/impl_test.go:79	unpaired	{"key":"unpaired log key"}`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("iso")
	logger.AddAppender(NewWriterAppender(&buf))
	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)

	logger.Debug("dropped")
	logger.Info("dropped")
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	logger.Warn("kept")
	test.That(t, buf.String(), test.ShouldContainSubstring, "kept")
}

func TestSublogger(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	sub := logger.Sublogger("full").Sublogger("residual")

	sub.Infow("aggregated", "omega", 1.5)
	entries := observed.All()
	test.That(t, entries, test.ShouldHaveLength, 1)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "full.residual")
	test.That(t, entries[0].ContextMap()["omega"], test.ShouldEqual, 1.5)

	test.That(t, observed.FilterMessage("aggregated").Len(), test.ShouldEqual, 1)
	test.That(t, logger.Sync(), test.ShouldBeNil)
}

func TestAsZap(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	logger.AsZap().Infow("through zap", "pair", "T1-T2")
	test.That(t, observed.FilterMessage("through zap").Len(), test.ShouldEqual, 1)
}

func TestLevelFromString(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected Level
		err      bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"Warn", WARN, false},
		{"warning", WARN, false},
		{"error", ERROR, false},
		{"verbose", DEBUG, true},
	} {
		t.Run(tc.input, func(t *testing.T) {
			level, err := LevelFromString(tc.input)
			if tc.err {
				test.That(t, err, test.ShouldNotBeNil)
				return
			}
			test.That(t, err, test.ShouldBeNil)
			test.That(t, level, test.ShouldEqual, tc.expected)
			test.That(t, level.AsZap().String(), test.ShouldEqual, strings.ToLower(tc.expected.String()))
		})
	}
}

func TestFileAppender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iso17123.log")
	appender, closer := NewFileAppender(path)
	logger := NewBlankLogger("iso")
	logger.AddAppender(appender)

	logger.Infow("written to file", "u_t", 0.002)
	test.That(t, closer.Close(), test.ShouldBeNil)

	content, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(content), test.ShouldContainSubstring, "INFO\tiso\t")
	test.That(t, string(content), test.ShouldContainSubstring, `written to file	{"u_t":0.002}`)
}

func TestReplaceGlobal(t *testing.T) {
	previous := Global()
	t.Cleanup(func() { ReplaceGlobal(previous) })

	logger := NewBlankLogger("replaced")
	logger.SetLevel(WARN)
	ReplaceGlobal(logger)
	test.That(t, Global(), test.ShouldEqual, logger)
	test.That(t, Global().GetLevel(), test.ShouldEqual, WARN)
}
