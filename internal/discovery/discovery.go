// Package discovery finds build units: directories holding a marker file
// directly inside a container directory (<any>/<container>/<unit>/<marker>).
package discovery

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	buildallerrors "github.com/AndreyAkinshin/buildall/internal/errors"
	"github.com/AndreyAkinshin/buildall/internal/unit"
)

var errNotDir = errors.New("not a directory")

// Options controls which marker files qualify as build units.
type Options struct {
	Marker    string   // File name that marks a unit, e.g. CMakeLists.txt
	Container string   // Name of the directory that holds units, e.g. examples
	SourceDir string   // Unit sub-directory whose marker is never a unit itself, e.g. main
	Exclude   []string // Substrings of the root-relative path that disqualify a candidate
}

// Discoverer walks a file tree looking for build units.
type Discoverer struct {
	fs     afero.Fs
	opts   Options
	logger *slog.Logger
}

// New creates a Discoverer over fs. A nil logger discards diagnostics.
func New(fs afero.Fs, opts Options, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Discoverer{fs: fs, opts: opts, logger: logger}
}

// Discover returns every unit below root, deduplicated and sorted by display name.
// A missing or unreadable root is an error; unreadable sub-directories are
// logged and skipped.
func (d *Discoverer) Discover(root string) ([]unit.Unit, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, buildallerrors.Discovery(root, err)
	}
	info, err := d.fs.Stat(absRoot)
	if err != nil {
		return nil, buildallerrors.Discovery(root, err)
	}
	if !info.IsDir() {
		return nil, buildallerrors.Discovery(root, &os.PathError{Op: "discover", Path: absRoot, Err: errNotDir})
	}

	seen := make(map[string]bool)
	var units []unit.Unit

	err = afero.Walk(d.fs, absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			d.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if path != absRoot && d.excluded(rel) {
				d.logger.Debug("excluded directory", "path", rel)
				return filepath.SkipDir
			}
			return nil
		}

		if !d.isMarker(path, rel) {
			return nil
		}

		dir := filepath.Dir(path)
		if seen[dir] {
			return nil
		}
		u, err := unit.New(absRoot, dir)
		if err != nil {
			d.logger.Warn("skipping unit", "path", dir, "error", err)
			return nil
		}
		seen[dir] = true
		units = append(units, u)
		return nil
	})
	if err != nil {
		return nil, buildallerrors.Discovery(root, err)
	}

	slices.SortFunc(units, func(a, b unit.Unit) int {
		return strings.Compare(a.Rel, b.Rel)
	})
	return units, nil
}

// isMarker reports whether the file at path marks a unit.
func (d *Discoverer) isMarker(path, rel string) bool {
	if filepath.Base(path) != d.opts.Marker {
		return false
	}
	dir := filepath.Dir(path)
	if filepath.Base(filepath.Dir(dir)) != d.opts.Container {
		return false
	}
	if d.opts.SourceDir != "" && filepath.Base(dir) == d.opts.SourceDir {
		return false
	}
	return !d.excluded(rel)
}

func (d *Discoverer) excluded(rel string) bool {
	for _, pattern := range d.opts.Exclude {
		if pattern != "" && strings.Contains(rel, pattern) {
			return true
		}
	}
	return false
}
