// Command registerosd registers DataExplorer as the handler of .osd
// files, or unregisters it when no installation path is given.
//
// Exits with 740 if the registry requires elevation.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dataexplorer/winhelper"
	"github.com/dataexplorer/winhelper/assoc"
)

// ERROR_ELEVATION_REQUIRED
const exitElevationRequired = 740

// newStore returns the registry changed when no snapshot is given.
var newStore = func() winhelper.Store { return winhelper.System{} }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := assoc.DataExplorer
	var (
		shared  string
		check   bool
		regFile string
		verbose bool
	)

	flags := flag.NewFlagSet("registerosd", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] [install-base-path]\n", flags.Name())
		flags.PrintDefaults()
	}
	flags.StringVar(&a.Extension, "ext", a.Extension, "owned file extension")
	flags.StringVar(&a.ProgID, "progid", a.ProgID, "ProgID of the extension")
	flags.StringVar(&a.Executable, "exe", a.Executable, "application executable name")
	flags.StringVar(&shared, "shared", strings.Join(a.Shared, ","), "comma separated extensions whose Open With lists are shared")
	flags.BoolVar(&check, "check", true, "validate the application executable")
	flags.StringVar(&regFile, "reg", "", "apply to a .reg snapshot and print the result instead of the registry")
	flags.BoolVar(&verbose, "v", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	a.Shared = nil
	for _, ext := range strings.Split(shared, ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			a.Shared = append(a.Shared, ext)
		}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store := newStore()
	var snapshot *winhelper.Registry
	if regFile != "" {
		reg, err := winhelper.ParseRegistryFile(regFile)
		if err != nil {
			fmt.Fprintln(stderr, "failed to read registry snapshot:", err)
			return 1
		}
		store, snapshot = reg, reg
	}

	r := assoc.New(store, a)
	r.Logger = logger
	r.CheckExecutable = check

	var err error
	if path := flags.Arg(0); len(path) > 5 {
		fmt.Fprintf(stdout, "register(%s)\n", path)
		err = r.Register(path)
	} else {
		fmt.Fprintln(stdout, "unregister()")
		err = r.Unregister()
	}

	switch {
	case errors.Is(err, assoc.ErrElevationRequired):
		fmt.Fprintln(stdout, err)
		return exitElevationRequired
	case err != nil:
		// Reported, but an installer must not fail on it.
		fmt.Fprintln(stdout, err)
		return 0
	}

	if snapshot != nil {
		if err := snapshot.Export(stdout); err != nil {
			fmt.Fprintln(stderr, "failed to export registry snapshot:", err)
			return 1
		}
	}
	return 0
}
