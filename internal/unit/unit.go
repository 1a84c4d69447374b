// Package unit defines the data shared by discovery, execution and reporting:
// the build unit itself, the immutable outcome of building it, and the naming
// strategies used to label units and their log files.
package unit

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Unit is one independently buildable project directory.
// Units are created by discovery and never modified afterwards.
type Unit struct {
	Dir string // Absolute directory containing the marker file
	Rel string // Slash-separated path relative to the scanned root; the display name
}

// New creates a unit for dir, deriving its display name relative to root.
func New(root, dir string) (Unit, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Unit{}, err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return Unit{}, err
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil {
		return Unit{}, err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Unit{}, fmt.Errorf("%s is outside of %s", absDir, absRoot)
	}
	return Unit{Dir: absDir, Rel: filepath.ToSlash(rel)}, nil
}

// Name returns the last element of the unit's path.
func (u Unit) Name() string {
	return path.Base(u.Rel)
}

func (u Unit) String() string {
	return u.Rel
}
