// Package cli provides the buildall command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	buildallerrors "github.com/AndreyAkinshin/buildall/internal/errors"
	"github.com/AndreyAkinshin/buildall/internal/output"
)

// Version is set at build time.
var Version = "dev"

// CLI holds the parsed command line. Numeric options are pointers so an
// unset flag can fall back to the configuration file.
type CLI struct {
	Root        string           `arg:"" optional:"" type:"path" default:"." help:"Directory to scan for build units. Logs and reports are written here by default."`
	Clean       bool             `short:"c" help:"Remove each unit's build directory before building."`
	Verbose     bool             `short:"v" xor:"verbosity" help:"Keep every log, show the tail of failed logs, and print diagnostics."`
	Quiet       bool             `short:"q" xor:"verbosity" help:"Only print failures and the final summary."`
	Jobs        *int             `short:"j" placeholder:"N" help:"Compile jobs per build (default: CPU count)."`
	Parallel    *int             `short:"p" placeholder:"N" help:"Units built at the same time (default: 1)."`
	Timeout     *int             `short:"t" placeholder:"SEC" help:"Per-unit timeout in seconds (default: 300)."`
	JSONReport  bool             `name:"json-report" help:"Write build_report.json to the scanned root directory (not the working directory)."`
	HTMLReport  bool             `name:"html-report" help:"Write build_report.html to the scanned root directory (not the working directory)."`
	MetricsFile string           `name:"metrics-file" type:"path" placeholder:"PATH" help:"Write Prometheus metrics in textfile format."`
	Config      string           `type:"path" placeholder:"PATH" help:"Configuration file (default: <root>/.buildall.yaml)."`
	EnvFile     string           `name:"env-file" type:"path" placeholder:"PATH" help:"Dotenv file merged into the build environment."`
	SkipChecks  bool             `name:"skip-checks" help:"Skip the toolchain prerequisite check."`
	NoColor     bool             `name:"no-color" help:"Disable colored output."`
	Version     kong.VersionFlag `help:"Print version and exit."`
}

// exitSignal carries kong's requested exit code out of Parse.
type exitSignal int

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr, output.New())
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, out *output.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("buildall"),
		kong.Description("Discover and build every example project below a directory."),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": "buildall " + Version},
		kong.Exit(func(code int) { panic(exitSignal(code)) }),
	)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return buildallerrors.ExitRuntimeError
	}

	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(exitSignal)
			if !ok {
				panic(r)
			}
			code = int(sig)
		}
	}()

	if _, err := parser.Parse(args); err != nil {
		out.ErrorPrefix("%v", err)
		return buildallerrors.ExitConfigError
	}

	a := &app{cli: &cli, out: out, stderr: stderr, fs: afero.NewOsFs()}
	return a.run(ctx)
}

// fail prints a fatal error and returns its exit code.
func (a *app) fail(err error) int {
	a.out.ErrorPrefix("%v", err)
	return buildallerrors.GetExitCode(err)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
