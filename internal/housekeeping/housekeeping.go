// Package housekeeping removes per-unit build logs that carry no information
// after a run.
package housekeeping

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/buildall/internal/unit"
)

// Clean removes build logs in dir that the current run no longer references
// (keep holds the log paths named by this run's outcomes). Referenced logs
// survive even when empty, so reports never point at a missing file.
// It returns the removed paths, sorted. Files not matching the log naming
// pattern are never touched.
func Clean(fs afero.Fs, dir string, keep []string) ([]string, error) {
	matches, err := afero.Glob(fs, filepath.Join(dir, unit.LogGlob))
	if err != nil {
		return nil, fmt.Errorf("cannot list build logs: %w", err)
	}

	referenced := make(map[string]bool, len(keep))
	for _, p := range keep {
		if p != "" {
			referenced[filepath.Clean(p)] = true
		}
	}

	var removed []string
	var firstErr error
	for _, path := range matches {
		info, err := fs.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if referenced[filepath.Clean(path)] {
			continue
		}
		if err := fs.Remove(path); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("cannot remove %s: %w", path, err)
			}
			continue
		}
		removed = append(removed, path)
	}
	sort.Strings(removed)
	return removed, firstErr
}
