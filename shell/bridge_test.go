package shell

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"testing"

	"github.com/dataexplorer/winhelper"
)

type fakePlatform struct {
	links   map[string]Shortcut
	devices []SerialDevice
	err     error

	// linkErr, if set, is returned for every link.
	linkErr error
}

func (p *fakePlatform) ResolveShortcut(linkPath string) (Shortcut, error) {
	if p.linkErr != nil {
		return Shortcut{}, p.linkErr
	}
	s, ok := p.links[linkPath]
	if !ok {
		return s, &Error{Code: CodeLoad, Path: linkPath, Err: fs.ErrNotExist}
	}
	return s, nil
}

func (p *fakePlatform) CreateShortcut(linkPath string, s Shortcut) error {
	if p.links == nil {
		p.links = make(map[string]Shortcut)
	}
	p.links[linkPath] = s
	return nil
}

func (p *fakePlatform) ListSerialDevices() ([]SerialDevice, error) {
	return p.devices, p.err
}

func testBridge(p *fakePlatform) *Bridge {
	return &Bridge{
		Platform: p,
		Registry: winhelper.NewRegistry(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestShortcutTarget(t *testing.T) {
	dir := t.TempDir()
	p := &fakePlatform{links: map[string]Shortcut{
		"exe.lnk":   {Target: filepath.Join(dir, "DataExplorer.exe")},
		"dir.lnk":   {Target: dir},
		"empty.lnk": {},
	}}
	b := testBridge(p)

	for _, tt := range []struct {
		link string
		code Code
	}{
		{"missing.lnk", CodeLoad},
		{"dir.lnk", CodeIsDirectory},
		{"empty.lnk", CodeGetPath},
	} {
		t.Run(tt.link, func(t *testing.T) {
			target, err := b.ShortcutTarget(tt.link)
			if target != "" {
				t.Errorf("expected no target, got %s", target)
			}
			if d := Diagnostic(err); !strings.HasPrefix(d, string(tt.code)+"; ") {
				t.Fatalf("expected %s diagnostic, got %q", tt.code, d)
			}
		})
	}

	target, err := b.ShortcutTarget("exe.lnk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != p.links["exe.lnk"].Target {
		t.Fatalf("unexpected target %s", target)
	}
}

func TestCreateOrInspectShortcut(t *testing.T) {
	p := &fakePlatform{}
	b := testBridge(p)
	s := Shortcut{
		Target:      `C:\Program Files\DataExplorer\DataExplorer.exe`,
		WorkingDir:  `C:\Program Files\DataExplorer`,
		IconPath:    `C:\Program Files\DataExplorer\DataExplorer.exe`,
		Description: "DataExplorer",
	}

	msg, err := b.CreateOrInspectShortcut("DataExplorer.lnk", s)
	if err != nil || msg != "" {
		t.Fatalf("expected shortcut creation, got %q %v", msg, err)
	}
	if p.links["DataExplorer.lnk"] != s {
		t.Fatalf("expected created shortcut, got %v", p.links)
	}

	msg, err = b.CreateOrInspectShortcut("DataExplorer.lnk", Shortcut{Target: "Other.exe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != s.Target {
		t.Fatalf("expected existing target, got %s", msg)
	}
}

func TestStatLink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "DataExplorer.lnk")
	if err := os.WriteFile(link, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := statLink(link); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var e *Error
	err := statLink(filepath.Join(dir, "missing.lnk"))
	if !errors.As(err, &e) || e.Code != CodeLoad || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected %s for a missing link, got %v", CodeLoad, err)
	}

	if runtime.GOOS == "windows" {
		return
	}
	// A file used as a directory fails with ENOTDIR.
	err = statLink(filepath.Join(link, "nested.lnk"))
	if !errors.As(err, &e) || e.Code != CodeGetPath {
		t.Fatalf("expected %s for an inaccessible link, got %v", CodeGetPath, err)
	}
}

func TestCreateOrInspectUnreadable(t *testing.T) {
	denied := &Error{Code: CodeGetPath, Path: "DataExplorer.lnk", Err: fs.ErrPermission}
	p := &fakePlatform{linkErr: denied}
	b := testBridge(p)

	_, err := b.CreateOrInspectShortcut("DataExplorer.lnk", Shortcut{Target: "DataExplorer.exe"})
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if len(p.links) != 0 {
		t.Fatalf("expected unreadable link to be kept, got %v", p.links)
	}
}

func TestSerialPorts(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		records := testBridge(&fakePlatform{}).SerialPortRecords()
		if records == nil || len(records) != 0 {
			t.Fatalf("expected empty records, got %#v", records)
		}
	})

	t.Run("devices", func(t *testing.T) {
		records := testBridge(&fakePlatform{devices: []SerialDevice{
			{"FTDI", "USB Serial Port (COM3)"},
			{"", "Communications Port (COM1)"},
		}}).SerialPortRecords()
		if len(records) != 2 || records[0] != "FTDI;USB Serial Port (COM3)" || records[1] != ";Communications Port (COM1)" {
			t.Fatalf("unexpected records %q", records)
		}
	})

	t.Run("limit", func(t *testing.T) {
		p := &fakePlatform{}
		for i := range MaxSerialPorts + 10 {
			p.devices = append(p.devices, SerialDevice{"", "COM" + strconv.Itoa(i)})
		}
		if records := testBridge(p).SerialPortRecords(); len(records) != MaxSerialPorts {
			t.Fatalf("expected %d records, got %d", MaxSerialPorts, len(records))
		}
	})

	t.Run("failure", func(t *testing.T) {
		b := testBridge(&fakePlatform{err: syscall.Errno(0xd)})
		records := b.SerialPortRecords()
		if len(records) != 1 || records[0] != "GDE_MSGW0035; (err=d)" {
			t.Fatalf("expected one diagnostic record, got %q", records)
		}

		_, err := b.SerialPorts()
		var e *Error
		if !errors.As(err, &e) || e.Code != CodeDeviceEnum {
			t.Fatalf("expected device enumeration error, got %v", err)
		}
	})
}

func TestApplicationPath(t *testing.T) {
	const name = "Google Earth.kmlfile"
	b := testBridge(&fakePlatform{})

	if path := b.ApplicationPath(name); path != "" {
		t.Fatalf("expected no path, got %s", path)
	}

	reg, err := winhelper.ParseRegistry(strings.NewReader(machineOnlyData))
	if err != nil {
		t.Fatal(err)
	}
	b.Registry = reg
	exp := `"C:\Program Files\Google\Google Earth\client\googleearth.exe" "%1"`
	if path := b.ApplicationPath(name); path != exp {
		t.Fatalf("expected machine fallback, got %s", path)
	}

	// A command key without a default value is skipped.
	reg.ClassesRoot.Add(name + `\shell\Open\command`).SetValue("Other", "foo")
	if path := b.ApplicationPath(name); path != exp {
		t.Fatalf("expected machine fallback, got %s", path)
	}

	reg.ClassesRoot.Add(name+`\shell\open\command`).SetValue("", "classes")
	if path := b.ApplicationPath(name); path != "classes" {
		t.Fatalf("expected classes root path, got %s", path)
	}
}

const machineOnlyData = `Windows Registry Editor Version 5.00

[HKEY_LOCAL_MACHINE\SOFTWARE\Classes\Google Earth.kmlfile\shell\Open\command]
@="\"C:\\Program Files\\Google\\Google Earth\\client\\googleearth.exe\" \"%1\""
`
