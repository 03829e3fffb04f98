package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dataexplorer/winhelper"
	"github.com/dataexplorer/winhelper/shell"
)

type platform struct {
	created map[string]shell.Shortcut
}

func (p *platform) ResolveShortcut(linkPath string) (shell.Shortcut, error) {
	if s, ok := p.created[linkPath]; ok {
		return s, nil
	}
	return shell.Shortcut{}, &shell.Error{Code: shell.CodeLoad, Path: linkPath}
}

func (p *platform) CreateShortcut(linkPath string, s shell.Shortcut) error {
	p.created[linkPath] = s
	return nil
}

func (p *platform) ListSerialDevices() ([]shell.SerialDevice, error) {
	return nil, errors.New("no devices")
}

func TestRun(t *testing.T) {
	p := &platform{created: make(map[string]shell.Shortcut)}
	b := &shell.Bridge{
		Platform: p,
		Registry: winhelper.NewRegistry(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, tt := range []struct {
		args []string
		out  string
	}{
		{[]string{"target", "DataExplorer.lnk"}, "GDE_MSGE0042; IPersistFile Load Error\n"},
		{[]string{"link", "DataExplorer.lnk", `C:\DataExplorer\DataExplorer.exe`, "", `C:\DataExplorer`, "", "0", "DataExplorer"}, "\n"},
		{[]string{"target", "DataExplorer.lnk"}, "C:\\DataExplorer\\DataExplorer.exe\n"},
		{[]string{"ports"}, "GDE_MSGW0035; (err=no devices)\n"},
		{[]string{"apppath", "Google Earth.kmlfile"}, "\n"},
	} {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			var out bytes.Buffer
			if err := run(b, tt.args, &out); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.String() != tt.out {
				t.Fatalf("expected %q, got %q", tt.out, out.String())
			}
		})
	}

	for _, args := range [][]string{
		nil,
		{"foo"},
		{"target"},
		{"link", "a", "b", "c", "d", "e", "x", "g"},
	} {
		if err := run(b, args, io.Discard); err == nil {
			t.Errorf("expected usage error for %q", args)
		}
	}
}
