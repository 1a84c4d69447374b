// Package integration contains integration tests for buildall.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/buildall/internal/cli"
	"github.com/AndreyAkinshin/buildall/internal/config"
	"github.com/AndreyAkinshin/buildall/internal/discovery"
	"github.com/AndreyAkinshin/buildall/internal/executor"
	"github.com/AndreyAkinshin/buildall/internal/report"
	"github.com/AndreyAkinshin/buildall/internal/scheduler"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

func discoverFixtures(t *testing.T) []string {
	t.Helper()
	cfg := config.Default()
	d := discovery.New(afero.NewOsFs(), discovery.Options{
		Marker:    cfg.Marker,
		Container: cfg.Container,
		SourceDir: cfg.SourceDir,
		Exclude:   cfg.Exclude,
	}, nil)
	units, err := d.Discover(fixturesDir())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	rels := make([]string, len(units))
	for i, u := range units {
		rels[i] = u.Rel
	}
	return rels
}

func TestDiscoverFixtures(t *testing.T) {
	t.Parallel()
	want := []string{
		"components/gps/examples/basic",
		"components/gps/examples/nmea",
		"components/rtc/examples/alarm",
	}
	if got := discoverFixtures(t); !reflect.DeepEqual(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestPipeline_SequentialMatchesParallel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("build scripts use sh")
	}
	t.Parallel()

	cfg := config.Default()
	d := discovery.New(afero.NewOsFs(), discovery.Options{
		Marker: cfg.Marker, Container: cfg.Container, SourceDir: cfg.SourceDir, Exclude: cfg.Exclude,
	}, nil)
	units, err := d.Discover(fixturesDir())
	if err != nil {
		t.Fatal(err)
	}

	build := func(concurrency int) *report.Report {
		e := executor.New(afero.NewOsFs(), executor.Options{
			Command: []string{"sh", "-c", "sleep 0.2; test -f main/main.c"},
			Jobs:    1,
			JobsEnv: cfg.JobsEnv,
			Timeout: 10 * time.Second,
			LogDir:  t.TempDir(),
		}, nil)
		started := time.Now()
		outcomes := scheduler.New(e, scheduler.Options{Concurrency: concurrency}, nil).Run(context.Background(), units)
		return report.New(outcomes, started, time.Since(started), concurrency, 1)
	}

	seq := build(1)
	par := build(3)

	if seq.Summary.Failed != 0 || par.Summary.Failed != 0 {
		t.Fatalf("failures: sequential %d, parallel %d", seq.Summary.Failed, par.Summary.Failed)
	}
	for i := range seq.Outcomes {
		if seq.Outcomes[i].Unit != par.Outcomes[i].Unit {
			t.Errorf("outcome %d differs: %v vs %v", i, seq.Outcomes[i].Unit, par.Outcomes[i].Unit)
		}
	}
	if eff := seq.Summary.Efficiency(); eff < 80 || eff > 101 {
		t.Errorf("sequential efficiency = %.1f%%, want about 100%%", eff)
	}
	if eff := par.Summary.Efficiency(); eff <= 120 {
		t.Errorf("parallel efficiency = %.1f%%, want above 100%%", eff)
	}
}

func TestCLI_FixtureRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("build scripts use sh")
	}
	logDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "buildall.yaml")
	cfg := "command: [sh, -c, 'test -f main/main.c']\n" +
		"log_dir: " + logDir + "\n" +
		"prerequisites:\n  skip: true\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if code := cli.Run([]string{fixturesDir(), "--config", cfgPath, "-q", "-p", "2"}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "build_log_") {
			t.Errorf("log %s left behind after successful run", e.Name())
		}
	}
}
