package housekeeping

import (
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestClean(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/repo/build_log_gps_basic.txt": "error: undefined reference\n",
		"/repo/build_log_gps_nmea.txt":  "",
		"/repo/build_log_rtc_alarm.txt": "",
		"/repo/build_log_old_gone.txt":  "stale output\n",
		"/repo/notes.txt":               "",
		"/repo/build_report.json":       "{}",
	})

	removed, err := Clean(fs, "/repo", []string{"/repo/build_log_gps_basic.txt", "/repo/build_log_gps_nmea.txt"})
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	want := []string{"/repo/build_log_old_gone.txt", "/repo/build_log_rtc_alarm.txt"}
	if !reflect.DeepEqual(removed, want) {
		t.Errorf("Clean() removed %v, want %v", removed, want)
	}
	for _, kept := range []string{
		"/repo/build_log_gps_basic.txt",
		"/repo/build_log_gps_nmea.txt",
		"/repo/notes.txt",
		"/repo/build_report.json",
	} {
		if ok, _ := afero.Exists(fs, kept); !ok {
			t.Errorf("%s was removed", kept)
		}
	}
}

func TestClean_NothingToDo(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/repo", 0755); err != nil {
		t.Fatal(err)
	}

	removed, err := Clean(fs, "/repo", nil)
	if err != nil || len(removed) != 0 {
		t.Errorf("Clean() = %v, %v, want nothing removed", removed, err)
	}
}

func TestClean_RemoveFailure(t *testing.T) {
	t.Parallel()
	base := afero.NewMemMapFs()
	writeFiles(t, base, map[string]string{"/repo/build_log_a_b.txt": ""})

	_, err := Clean(afero.NewReadOnlyFs(base), "/repo", nil)
	if err == nil {
		t.Error("Clean() error = nil, want error on read-only fs")
	}
}
