package main

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dataexplorer/winhelper"
)

const snapshot = `Windows Registry Editor Version 5.00

[HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Explorer\FileExts\.lov\OpenWithList]
"a"="LogView.exe"
"MRUList"="a"
`

func writeSnapshot(t *testing.T, data string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "snapshot.reg")
	if err := os.WriteFile(name, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestRun(t *testing.T) {
	name := writeSnapshot(t, snapshot)

	t.Run("register", func(t *testing.T) {
		var out bytes.Buffer
		code := run([]string{"-reg", name, "-check=false", `C:\DataExplorer`}, &out, io.Discard)
		if code != 0 {
			t.Fatalf("unexpected exit code %d: %s", code, out.String())
		}
		for _, want := range []string{
			`register(C:\DataExplorer)`,
			`[HKEY_CLASSES_ROOT\.osd]`,
			`@="\"C:\\DataExplorer\\DataExplorer.exe\" \"%1\""`,
			`"MRUList"="ab"`,
		} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("expected output to contain %s", want)
			}
		}
		if t.Failed() {
			t.Log(out.String())
		}
	})

	t.Run("unregister", func(t *testing.T) {
		var out bytes.Buffer
		if code := run([]string{"-reg", name, "C:"}, &out, io.Discard); code != 0 {
			t.Fatalf("unexpected exit code %d", code)
		}
		if !strings.HasPrefix(out.String(), "unregister()\n") || strings.Contains(out.String(), ".osd") {
			t.Fatalf("unexpected output %s", out.String())
		}
	})

	t.Run("overrides", func(t *testing.T) {
		var out bytes.Buffer
		code := run([]string{"-reg", name, "-check=false",
			"-ext", ".osx", "-progid", "Foo.Bar", "-exe", "Foo.exe", "-shared", "",
			`C:\Program Files\Foo`}, &out, io.Discard)
		if code != 0 {
			t.Fatalf("unexpected exit code %d", code)
		}
		if !strings.Contains(out.String(), `[HKEY_CLASSES_ROOT\.osx]`) || strings.Contains(out.String(), `"b"="Foo.exe"`) {
			t.Fatalf("unexpected output %s", out.String())
		}
	})

	t.Run("invalid path", func(t *testing.T) {
		var out bytes.Buffer
		if code := run([]string{"-reg", name, `C:\"Data"`}, &out, io.Discard); code != 0 {
			t.Fatalf("expected reported error to exit 0, got %d", code)
		}
		if !strings.Contains(out.String(), "invalid application path") {
			t.Fatalf("expected reported error, got %s", out.String())
		}
	})

	t.Run("bad snapshot", func(t *testing.T) {
		if code := run([]string{"-reg", writeSnapshot(t, "REGEDIT4\n")}, io.Discard, io.Discard); code != 1 {
			t.Fatalf("expected exit code 1, got %d", code)
		}
	})
}

// deniedStore is a registry in which no key may be created.
type deniedStore struct {
	*winhelper.Registry
}

func (deniedStore) CreateKey(path string) (winhelper.Key, error) {
	return nil, &winhelper.PathError{Op: "create", Path: path, Err: fs.ErrPermission}
}

func TestRunDenied(t *testing.T) {
	reg := winhelper.NewRegistry()
	system := newStore
	newStore = func() winhelper.Store { return deniedStore{reg} }
	t.Cleanup(func() { newStore = system })

	var out bytes.Buffer
	code := run([]string{"-check=false", `C:\DataExplorer`}, &out, io.Discard)
	if code != exitElevationRequired {
		t.Fatalf("expected exit code %d, got %d", exitElevationRequired, code)
	}
	if !strings.Contains(out.String(), "elevation required") {
		t.Fatalf("expected elevation error on stdout, got %s", out.String())
	}
}
