// Command winhelper runs the native operations used by DataExplorer.
// Results and diagnostics are printed to standard output.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/dataexplorer/winhelper/shell"
)

func main() {
	var verbose bool
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] link|target|ports|apppath [args...]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "  link <lnk> <target> <arguments> <workdir> <icon> <index> <description>")
		fmt.Fprintln(os.Stderr, "  target <lnk>")
		fmt.Fprintln(os.Stderr, "  ports")
		fmt.Fprintln(os.Stderr, "  apppath <progid>")
		flag.PrintDefaults()
	}
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	b := shell.New()
	b.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(b, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
}

func run(b *shell.Bridge, args []string, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("missing command")
	}

	cmd, args := args[0], args[1:]
	want := map[string]int{"link": 7, "target": 1, "ports": 0, "apppath": 1}
	n, ok := want[cmd]
	if !ok {
		return fmt.Errorf("unknown command %q", cmd)
	}
	if len(args) != n {
		return fmt.Errorf("%s: expected %d arguments, got %d", cmd, n, len(args))
	}

	switch cmd {
	case "link":
		index, err := strconv.Atoi(args[5])
		if err != nil {
			return fmt.Errorf("link: icon index: %w", err)
		}
		msg, err := b.CreateOrInspectShortcut(args[0], shell.Shortcut{
			Target:      args[1],
			Arguments:   args[2],
			WorkingDir:  args[3],
			IconPath:    args[4],
			IconIndex:   index,
			Description: args[6],
		})
		if err != nil {
			msg = shell.Diagnostic(err)
		}
		fmt.Fprintln(w, msg)
	case "target":
		target, err := b.ShortcutTarget(args[0])
		if err != nil {
			target = shell.Diagnostic(err)
		}
		fmt.Fprintln(w, target)
	case "ports":
		for _, r := range b.SerialPortRecords() {
			fmt.Fprintln(w, r)
		}
	case "apppath":
		fmt.Fprintln(w, b.ApplicationPath(args[0]))
	}
	return nil
}
