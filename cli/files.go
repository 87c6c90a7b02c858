package cli

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/iso17123/evaluation"
	"go.viam.com/iso17123/measurement"
)

// A ScanFile is a coordinate file together with the station and repetition it was measured in.
type ScanFile struct {
	Path       string
	Station    measurement.Station
	Repetition measurement.Repetition
}

// ListDataFiles returns the names of the regular files in dir in sorted order.
func ListDataFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list data directory")
	}
	names := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return entry.Name(), entry.Type().IsRegular()
	})
	sort.Strings(names)
	return names, nil
}

// SelectFiles picks files by their index. An empty order keeps every file in its order.
func SelectFiles(files []string, order []int) ([]string, error) {
	if len(order) == 0 {
		return files, nil
	}
	selected := make([]string, 0, len(order))
	for _, idx := range order {
		if idx < 0 || idx >= len(files) {
			return nil, errors.Errorf("file index %d out of range, the data directory holds %d files", idx, len(files))
		}
		selected = append(selected, files[idx])
	}
	return selected, nil
}

// AssignFiles maps files to the scans of proc: S1 repetitions first, then S2.
func AssignFiles(proc evaluation.Procedure, dir string, files []string) ([]ScanFile, error) {
	reps := proc.Repetitions()
	if want := measurement.NumStations * reps; len(files) != want {
		return nil, errors.Errorf("did not find %d files for %s test procedure, got %d", want, proc, len(files))
	}
	assigned := make([]ScanFile, 0, len(files))
	for i, name := range files {
		assigned = append(assigned, ScanFile{
			Path:       filepath.Join(dir, name),
			Station:    measurement.Stations[i/reps],
			Repetition: measurement.Repetition(i%reps + 1),
		})
	}
	return assigned, nil
}

// LoadTable reads every file and collects its targets into a coordinate table.
func LoadTable(format string, files []ScanFile) (*measurement.Table, error) {
	table := measurement.NewTable()
	for _, f := range files {
		scan, err := measurement.ReadScanFile(format, f.Path)
		if err != nil {
			return nil, err
		}
		if err := table.SetScan(f.Station, f.Repetition, scan); err != nil {
			return nil, errors.Wrapf(err, "file %q", f.Path)
		}
	}
	return table, nil
}
