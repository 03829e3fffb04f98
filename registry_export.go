package winhelper

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
)

const headerExport = `Windows Registry Editor Version 5.00`

// Export writes the regedit export of every non-empty hive in r to w.
func (r *Registry) Export(w io.Writer) error {
	if _, err := io.WriteString(w, headerExport+"\n"); err != nil {
		return err
	}
	for _, h := range r.Hives() {
		if len(h.Values) == 0 && len(h.Subkeys) == 0 {
			continue
		}
		if err := h.export(w); err != nil {
			return err
		}
	}
	return nil
}

// Export writes the regedit export of k and its subkeys to w.
func (k *RegistryKey) Export(w io.Writer) error {
	if _, err := io.WriteString(w, headerExport+"\n"); err != nil {
		return err
	}
	return k.export(w)
}

func (k *RegistryKey) export(w io.Writer) error {
	// Keys without values are only written if they are leaves, as
	// parents are implied by their subkeys.
	if len(k.Values) > 0 || len(k.Subkeys) == 0 {
		if _, err := fmt.Fprintf(w, "\n[%s]\n", k.Path()); err != nil {
			return err
		}
	}
	for _, v := range k.Values {
		err := v.export(w)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	for _, sk := range k.Subkeys {
		err := sk.export(w)
		if err != nil {
			return err
		}
	}
	return nil
}

func (rv RegistryValue) export(w io.Writer) error {
	var payload []byte
	var (
		err error
		pos int
	)

	if rv.Name != "" {
		pos, err = io.WriteString(w, strconv.Quote(rv.Name)+"=")
	} else {
		pos, err = io.WriteString(w, `@=`)
	}
	if err != nil {
		return err
	}
	// Add now as this will only be used when printing hex(n),
	// and any other case is disallowed.
	pos += 6

	switch d := rv.Data.(type) {
	case string:
		_, err = io.WriteString(w, quote(d))
	case ExpandableString:
		_, err = io.WriteString(w, `hex(2):`)
		payload = encodeW(string(d) + "\x00")
	case []string:
		_, err = io.WriteString(w, `hex(7):`)
		payload = encodeW(strings.Join(d, "\x00") + "\x00\x00")
	case uint32:
		_, err = fmt.Fprintf(w, "dword:%08x", d)
	case uint64:
		_, err = io.WriteString(w, "hex(b):")
		payload = make([]byte, 8)
		binary.LittleEndian.PutUint64(payload, d)
	case []byte:
		_, err = io.WriteString(w, "hex:")
		payload = d
		pos -= 3 // hex:
	default:
		return fmt.Errorf("winhelper: unhandled registry value type: %T", d)
	}
	if err != nil {
		return err
	}

	for i, byte := range payload {
		_, err := fmt.Fprintf(w, "%02x", byte)
		pos += 3
		if i < len(payload)-1 && err == nil {
			_, err = io.WriteString(w, ",")
			if pos+1 > 76 && err == nil {
				_, err = io.WriteString(w, "\\\n  ")
				pos = 2
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// regedit only escapes backslashes and quotes.
var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

func encodeW(s string) []byte {
	buf := bytes.Buffer{}
	_ = binary.Write(&buf, binary.LittleEndian, utf16.Encode([]rune(s)))
	return buf.Bytes()
}
