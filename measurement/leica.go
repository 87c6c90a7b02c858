package measurement

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// A Scan holds the target centres extracted from one scan pass.
type Scan map[Target]r3.Vector

// FormatLeica is the target list export written by Leica scanner software: one header row
// followed by "T,X,Y,Z" rows.
const FormatLeica = "leica"

// SupportedFormats lists the coordinate file formats ReadScanFile understands.
var SupportedFormats = []string{FormatLeica}

// ReadScanFile reads a coordinate file of the given format.
func ReadScanFile(format, path string) (Scan, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		//nolint:errcheck
		f.Close()
	}()

	switch strings.ToLower(format) {
	case FormatLeica:
		scan, err := ReadLeica(f)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q", path)
		}
		return scan, nil
	default:
		return nil, errors.Errorf("unsupported format %q, supported formats are: %s",
			format, strings.Join(SupportedFormats, ", "))
	}
}

// ReadLeica parses a Leica target list. Rows whose label is not one of T1..T4 are ignored, so
// exports that contain additional points can be used unchanged.
func ReadLeica(r io.Reader) (Scan, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty coordinate file")
		}
		return nil, errors.Wrap(err, "reading header")
	}

	scan := Scan{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if len(record) < 4 {
			return nil, errors.Errorf("line %d: expected 4 columns (T, X, Y, Z), got %d", line, len(record))
		}
		target, err := ParseTarget(record[0])
		if err != nil {
			continue
		}
		if _, ok := scan[target]; ok {
			return nil, errors.Errorf("line %d: target %v listed twice", line, target)
		}
		var xyz [3]float64
		for i := range xyz {
			xyz[i], err = strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: column %d", line, i+2)
			}
		}
		scan[target] = r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}
	return scan, nil
}
