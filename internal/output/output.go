// Package output provides formatted console output for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// Writer handles CLI output formatting.
// A Writer may be shared by the scheduler's dispatcher and collector, so
// every write is serialized.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

// New creates a new Writer with default settings.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal(),
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.quiet = quiet
}

// SetColor forces color on or off.
func (w *Writer) SetColor(color bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.color = color
}

// Quiet reports whether informational output is suppressed.
func (w *Writer) Quiet() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.quiet
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	w.Print(format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	w.Error(format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Success prints a success message.
func (w *Writer) Success(format string, args ...interface{}) {
	if w.color {
		w.Println(green+format+reset, args...)
	} else {
		w.Println(format, args...)
	}
}

// Warning prints a warning message.
func (w *Writer) Warning(format string, args ...interface{}) {
	if w.color {
		w.Errorln(yellow+"warning: "+format+reset, args...)
	} else {
		w.Errorln("warning: "+format, args...)
	}
}

// Section prints a section header.
func (w *Writer) Section(title string) {
	if w.quiet {
		return
	}
	if w.color {
		w.Print("\n%s=== %s ===%s\n", bold, title, reset)
	} else {
		w.Print("\n=== %s ===\n", title)
	}
}

// List prints a list of items.
func (w *Writer) List(items []string) {
	for _, item := range items {
		w.Println("  - %s", item)
	}
}

// Table prints a borderless table. Rows shorter than headers are padded.
func (w *Writer) Table(headers []string, rows [][]string) {
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(headers)
	for _, row := range rows {
		padded := make([]string, len(headers))
		copy(padded, row)
		table.Append(padded)
	}
	table.Render()
	w.Print("%s", buf.String())
}

// UnitStart announces that a unit was dispatched.
func (w *Writer) UnitStart(label, path string) {
	if w.quiet {
		return
	}
	if w.color {
		w.Println("%sBuilding:%s %s", blue, reset, label)
		w.Println("  %sPath: %s%s", dim, path, reset)
	} else {
		w.Println("Building: %s", label)
		w.Println("  Path: %s", path)
	}
}

// UnitSuccess prints a completed unit with its progress counter.
func (w *Writer) UnitSuccess(done, total int, label, duration string) {
	if w.quiet {
		return
	}
	if w.color {
		w.Println("%s[%d/%d]%s %s %s✓ SUCCESS%s (%s)", cyan, done, total, reset, label, green, reset, duration)
	} else {
		w.Println("[%d/%d] %s SUCCESS (%s)", done, total, label, duration)
	}
}

// UnitFailed prints a failed unit with its progress counter, error and log path.
func (w *Writer) UnitFailed(done, total int, label, status, duration, errMsg, logPath string) {
	if w.color {
		w.Errorln("%s[%d/%d]%s %s %s✗ %s%s (%s)", cyan, done, total, reset, label, red, status, reset, duration)
	} else {
		w.Errorln("[%d/%d] %s %s (%s)", done, total, label, status, duration)
	}
	if errMsg != "" {
		w.Errorln("    Error: %s", errMsg)
	}
	if logPath != "" {
		w.Errorln("    Log: %s", logPath)
	}
}

// LogTail prints the trailing lines of a unit log, indented.
func (w *Writer) LogTail(lines []string) {
	if len(lines) == 0 {
		return
	}
	w.Errorln("    Last %d lines of log:", len(lines))
	for _, line := range lines {
		w.Errorln("      %s", line)
	}
}

// ErrorPrefix prints an error message with buildall prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%sbuildall:%s %s", red, reset, msg)
	} else {
		w.Errorln("buildall: %s", msg)
	}
}

// WarningSimple prints a warning message with a colored prefix only.
func (w *Writer) WarningSimple(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%swarning:%s %s", yellow, reset, msg)
	} else {
		w.Errorln("warning: %s", msg)
	}
}

// SummaryHeader prints a summary section header.
func (w *Writer) SummaryHeader(title string) {
	if w.color {
		w.Print("\n%s=== %s ===%s\n\n", bold+cyan, title, reset)
	} else {
		w.Print("\n=== %s ===\n\n", title)
	}
}

// SummaryItem prints a labeled summary item with value.
func (w *Writer) SummaryItem(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s", dim, label, reset, value)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryPassed prints a passed/success items summary.
func (w *Writer) SummaryPassed(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s%s%s", dim, label, reset, green, value, reset)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryFailed prints a failed items summary.
func (w *Writer) SummaryFailed(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s%s%s", dim, label, reset, red, value, reset)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryAction prints an action item with status indicator, name, duration, and optional error.
func (w *Writer) SummaryAction(name string, success bool, duration string, errMsg string) {
	var line string
	if w.color {
		if success {
			line = fmt.Sprintf("    %s✓%s %s %s%s%s", green, reset, name, dim, duration, reset)
		} else {
			line = fmt.Sprintf("    %s✗%s %s %s%s%s", red, reset, name, dim, duration, reset)
			if errMsg != "" {
				line += fmt.Sprintf("  %s(%s)%s", dim, errMsg, reset)
			}
		}
	} else {
		if success {
			line = fmt.Sprintf("    + %s %s", name, duration)
		} else {
			line = fmt.Sprintf("    x %s %s", name, duration)
			if errMsg != "" {
				line += fmt.Sprintf("  (%s)", errMsg)
			}
		}
	}
	w.Println("%s", line)
}

// SummarySectionLabel prints a label for a summary section (e.g., "Failed Builds:").
func (w *Writer) SummarySectionLabel(label string) {
	if w.color {
		w.Println("  %s%s%s", dim, label, reset)
	} else {
		w.Println("  %s", label)
	}
}

// FinalSuccess prints a final success message.
func (w *Writer) FinalSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Print("\n%s%s%s\n", green, msg, reset)
	} else {
		w.Print("\n%s\n", msg)
	}
}

// FinalFailure prints a final failure message.
func (w *Writer) FinalFailure(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Print("\n%s%s%s\n", red, msg, reset)
	} else {
		w.Print("\n%s\n", msg)
	}
}

// Hint prints a hint message for the user.
func (w *Writer) Hint(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", dim, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// isTerminal returns true if stdout is a terminal and NO_COLOR is unset.
func isTerminal() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)
