package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

// newTestWriter creates a Writer with captured output for testing.
func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	w := NewWithWriters(stdout, stderr, false)
	return w, stdout, stderr
}

func TestNew(t *testing.T) {
	w := New()
	if w == nil {
		t.Fatal("New() returned nil")
	}
	if w.out == nil {
		t.Error("out writer is nil")
	}
	if w.err == nil {
		t.Error("err writer is nil")
	}
}

func TestNew_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if w := New(); w.color {
		t.Error("New() with NO_COLOR set enabled color")
	}
}

func TestWriter_SetQuiet(t *testing.T) {
	w, _, _ := newTestWriter()

	w.SetQuiet(true)
	if !w.quiet {
		t.Error("SetQuiet(true) did not set quiet")
	}

	w.SetQuiet(false)
	if w.quiet {
		t.Error("SetQuiet(false) did not unset quiet")
	}
}

func TestWriter_Println(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Println("hello %s", "world")

	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("Println() = %q, want %q", got, "hello world\n")
	}
}

func TestWriter_Errorln(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.Errorln("error %d", 42)

	if got := stderr.String(); got != "error 42\n" {
		t.Errorf("Errorln() = %q, want %q", got, "error 42\n")
	}
}

func TestWriter_Info(t *testing.T) {
	tests := []struct {
		name   string
		quiet  bool
		expect string
	}{
		{"normal mode", false, "info message\n"},
		{"quiet mode", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()
			w.SetQuiet(tt.quiet)

			w.Info("info %s", "message")

			if got := stdout.String(); got != tt.expect {
				t.Errorf("Info() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_Warning(t *testing.T) {
	tests := []struct {
		name   string
		color  bool
		expect string
	}{
		{"without color", false, "warning: caution\n"},
		{"with color", true, "\033[33mwarning: caution\033[0m\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, stderr := newTestWriter()
			w.SetColor(tt.color)

			w.Warning("caution")

			if got := stderr.String(); got != tt.expect {
				t.Errorf("Warning() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_Section(t *testing.T) {
	tests := []struct {
		name   string
		quiet  bool
		color  bool
		expect string
	}{
		{"normal without color", false, false, "\n=== Build ===\n"},
		{"normal with color", false, true, "\n\033[1m=== Build ===\033[0m\n"},
		{"quiet mode", true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()
			w.SetQuiet(tt.quiet)
			w.SetColor(tt.color)

			w.Section("Build")

			if got := stdout.String(); got != tt.expect {
				t.Errorf("Section() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_UnitSuccess(t *testing.T) {
	tests := []struct {
		name   string
		quiet  bool
		expect string
	}{
		{"normal", false, "[2/5] gps/basic SUCCESS (1.5s)\n"},
		{"quiet mode", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()
			w.SetQuiet(tt.quiet)

			w.UnitSuccess(2, 5, "gps/basic", "1.5s")

			if got := stdout.String(); got != tt.expect {
				t.Errorf("UnitSuccess() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_UnitFailed(t *testing.T) {
	w, _, stderr := newTestWriter()
	// Failures are shown even in quiet mode.
	w.SetQuiet(true)

	w.UnitFailed(3, 5, "gps/basic", "TIMEOUT", "300.0s", "build timeout after 300s", "build_log_gps_basic.txt")

	want := "[3/5] gps/basic TIMEOUT (300.0s)\n" +
		"    Error: build timeout after 300s\n" +
		"    Log: build_log_gps_basic.txt\n"
	if got := stderr.String(); got != want {
		t.Errorf("UnitFailed() = %q, want %q", got, want)
	}
}

func TestWriter_LogTail(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.LogTail([]string{"ninja: build stopped", "error: 1"})

	got := stderr.String()
	if !strings.Contains(got, "Last 2 lines of log:") {
		t.Errorf("LogTail() = %q, want header", got)
	}
	if !strings.Contains(got, "      ninja: build stopped\n") {
		t.Errorf("LogTail() = %q, want indented line", got)
	}
}

func TestWriter_LogTail_Empty(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.LogTail(nil)

	if got := stderr.String(); got != "" {
		t.Errorf("LogTail(nil) = %q, want empty", got)
	}
}

func TestWriter_List(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.List([]string{"item1", "item2", "item3"})

	expected := "  - item1\n  - item2\n  - item3\n"
	if got := stdout.String(); got != expected {
		t.Errorf("List() = %q, want %q", got, expected)
	}
}

func TestWriter_Table(t *testing.T) {
	w, stdout, _ := newTestWriter()

	headers := []string{"Unit", "Status", "Duration"}
	rows := [][]string{
		{"gps/examples/basic", "SUCCESS", "1.2s"},
		{"rtc/examples/alarm", "FAILED", "0.4s"},
	}

	w.Table(headers, rows)

	output := stdout.String()
	for _, want := range []string{"Unit", "Status", "Duration", "gps/examples/basic", "FAILED", "---"} {
		if !strings.Contains(output, want) {
			t.Errorf("Table() output missing %q:\n%s", want, output)
		}
	}
}

func TestWriter_Table_RowShorterThanHeaders(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Table([]string{"A", "B", "C"}, [][]string{{"1", "2"}})

	if !strings.Contains(stdout.String(), "1") {
		t.Error("Table() should handle short rows gracefully")
	}
}

func TestWriter_SummaryAction(t *testing.T) {
	tests := []struct {
		name    string
		success bool
		errMsg  string
		expect  string
	}{
		{"success", true, "", "    + gps/basic 1.0s\n"},
		{"failure with error", false, "build failed with exit code 2", "    x gps/basic 1.0s  (build failed with exit code 2)\n"},
		{"failure without error", false, "", "    x gps/basic 1.0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()

			w.SummaryAction("gps/basic", tt.success, "1.0s", tt.errMsg)

			if got := stdout.String(); got != tt.expect {
				t.Errorf("SummaryAction() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWriter_FinalMessages(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.FinalSuccess("All %d units built successfully.", 3)
	w.FinalFailure("%d unit(s) failed to build.", 1)

	want := "\nAll 3 units built successfully.\n\n1 unit(s) failed to build.\n"
	if got := stdout.String(); got != want {
		t.Errorf("final messages = %q, want %q", got, want)
	}
}

func TestWriter_ErrorPrefix(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.ErrorPrefix("cannot read %s", "config")

	if got := stderr.String(); got != "buildall: cannot read config\n" {
		t.Errorf("ErrorPrefix() = %q", got)
	}
}

func TestWriter_ConcurrentWrites(t *testing.T) {
	w, stdout, _ := newTestWriter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Println("line")
		}()
	}
	wg.Wait()

	if got := strings.Count(stdout.String(), "line\n"); got != 50 {
		t.Errorf("got %d complete lines, want 50", got)
	}
}
