package winhelper

import (
	"bytes"
	"testing"
)

func TestRegistryExport(t *testing.T) {
	reg := NewRegistry()
	reg.CurrentUser = testdata()
	buf := new(bytes.Buffer) // error cannot occur here

	if err := reg.Export(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x := buf.String(); x != userExported {
		t.Errorf("data unexportable")
		t.Log(x)
	}

	t.Run("reversible", func(t *testing.T) {
		parsed, err := ParseRegistry(buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !parsed.Equal(reg) {
			t.Errorf("expected equal match, got %s", registryKeyJSON(parsed.CurrentUser))
		}
	})

	t.Run("key", func(t *testing.T) {
		buf.Reset()
		k := NewRegistryKey(`HKCU\Foo`)
		k.SetValue("", ExpandableString(""))
		if err := k.Export(buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if x := buf.String(); x != keyExported {
			t.Errorf("data unexportable")
			t.Log(x)
		}
	})

	t.Run("unhandled", func(t *testing.T) {
		k := NewRegistryKey(`HKCU\Foo`)
		k.SetValue("", 1)
		if err := k.Export(buf); err == nil {
			t.Fatal("expected unhandled data type error")
		}
	})
}

const userExported = `Windows Registry Editor Version 5.00

[HKEY_CURRENT_USER]
@=""
"Value A"="\"C:\\Foo\" -help"

[HKEY_CURRENT_USER\Foo]
"Value B"=hex:de,ad,be,ef,00,00
"Value C"=dword:deadbeef
"Value D"=hex(7):43,00,3a,00,5c,00,46,00,6f,00,6f,00,00,00,43,00,3a,00,5c,00,\
  42,00,61,00,72,00,00,00,00,00
"Value E"=hex(2):25,00,41,00,50,00,50,00,44,00,41,00,54,00,41,00,25,00,5c,00,\
  46,00,6f,00,6f,00,00,00

[HKEY_CURRENT_USER\Foo\Bar]
"Value F"=hex(b):ef,be,ad,de,00,00,00,00
"Value G"=dword:00000001

[HKEY_CURRENT_USER\Foo\Bar\Baz]
"Value L"=hex:

[HKEY_CURRENT_USER\Foo\Quz]
`

const keyExported = `Windows Registry Editor Version 5.00

[HKEY_CURRENT_USER\Foo]
@=hex(2):00,00
`
