package unit

import (
	"path"
	"strings"
)

// Log file naming. Every per-unit log is named LogPrefix + <parts> + LogSuffix
// so housekeeping can find them with LogGlob.
const (
	LogPrefix = "build_log_"
	LogSuffix = ".txt"
	LogGlob   = LogPrefix + "*" + LogSuffix
)

// Namer derives human-facing labels and log file names for units.
// Discovery knows nothing about naming; callers inject a Namer into the
// executor and reporter instead.
type Namer interface {
	Label(u Unit) string
	LogName(u Unit) string
}

// ComponentNamer labels a unit as "<component>/<example>", where component is
// the directory two levels above the unit (components/<component>/examples/<example>).
type ComponentNamer struct{}

func (ComponentNamer) parts(u Unit) []string {
	name := u.Name()
	component := path.Base(path.Dir(path.Dir(u.Rel)))
	if component == "." || component == "/" {
		return []string{name}
	}
	return []string{component, name}
}

func (n ComponentNamer) Label(u Unit) string {
	return strings.Join(n.parts(u), "/")
}

func (n ComponentNamer) LogName(u Unit) string {
	return logName(n.parts(u))
}

// PathNamer uses every element of the unit's relative path. Names never
// collide, at the cost of longer log file names.
type PathNamer struct{}

func (PathNamer) Label(u Unit) string {
	return u.Rel
}

func (PathNamer) LogName(u Unit) string {
	return logName(strings.Split(u.Rel, "/"))
}

// Naming strategy identifiers accepted in configuration.
const (
	NamingComponent = "component"
	NamingPath      = "path"
)

// NamerFor returns the naming strategy registered under name.
func NamerFor(name string) (Namer, bool) {
	switch name {
	case "", NamingComponent:
		return ComponentNamer{}, true
	case NamingPath:
		return PathNamer{}, true
	default:
		return nil, false
	}
}

func logName(parts []string) string {
	clean := make([]string, len(parts))
	for i, p := range parts {
		clean[i] = sanitize(p)
	}
	return LogPrefix + strings.Join(clean, "_") + LogSuffix
}

// sanitize replaces characters that are awkward in file names.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '.' || r == '_':
			return r
		default:
			return '-'
		}
	}, s)
}
