package winhelper

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Import parses the regedit export read from r and applies it to the
// Registry. Sections of the form [-path] delete the key, and values
// with the data - are deleted from their key.
func (r *Registry) Import(rd io.Reader) error {
	scanner := bufio.NewScanner(rd)
	scanner.Scan()
	// regedit writes UTF-16 by default; only the UTF-8 form is
	// supported, though a BOM is tolerated.
	header := strings.TrimPrefix(scanner.Text(), "\ufeff")
	if strings.TrimSpace(header) != headerExport {
		return fmt.Errorf("winhelper: expected registry header, got %q", header)
	}

	var subkey *RegistryKey
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		switch line[0] {
		case ';':
			continue
		case '[':
			i := strings.LastIndexByte(line, ']')
			if i <= 0 {
				return strconv.ErrSyntax
			}
			path := line[1:i]
			if p, ok := strings.CutPrefix(path, "-"); ok {
				subkey = nil
				if err := r.DeleteKey(p); err != nil && !errors.Is(err, ErrNotExist) {
					return err
				}
				continue
			}
			k, err := r.CreateKey(path)
			if err != nil {
				return err
			}
			subkey = k.(*RegistryKey)
		case '"', '@':
			if subkey == nil {
				return errors.New("winhelper: value without key")
			}
		bytescan:
			if line[len(line)-1] == '\\' {
				line = line[:len(line)-1]
				// read ahead to obtain all multiline bytes, necessary
				// to perform little/big endian serialization
				for scanner.Scan() {
					line += strings.TrimSpace(scanner.Text())
					goto bytescan
				}
			}

			name, raw, err := cutName(line)
			if err != nil {
				return err
			}
			if raw == "-" {
				subkey.DeleteValue(name)
				continue
			}

			data, err := parseData(raw)
			if err != nil {
				return fmt.Errorf("parse %s: %w", valueLabel(name), err)
			}

			subkey.SetValue(name, data)
		}
	}

	return scanner.Err()
}

// cutName splits a value line into its name and raw data.
func cutName(line string) (name, raw string, err error) {
	if rest, ok := strings.CutPrefix(line, "@="); ok {
		return "", rest, nil
	}

	// find the closing quote, skipping escaped characters
	for i := 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			if i+1 >= len(line) || line[i+1] != '=' {
				return "", "", strconv.ErrSyntax
			}
			name, err := strconv.Unquote(line[:i+1])
			if err != nil {
				return "", "", fmt.Errorf("value name: %w", err)
			}
			return name, line[i+2:], nil
		}
	}
	return "", "", strconv.ErrSyntax
}

func parseData(value string) (RegistryData, error) {
	if len(value) == 0 {
		return nil, errors.New("expected data")
	}
	if value[0] == '"' {
		s, err := strconv.Unquote(value)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	i := strings.IndexByte(value, ':')
	if i <= 0 {
		return nil, strconv.ErrSyntax
	}

	prefix, data := value[:i], value[i+1:]
	if prefix == "dword" {
		v, err := strconv.ParseUint(data, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("dword: %w", err)
		}
		return uint32(v), nil
	}

	if !strings.HasPrefix(prefix, "hex") {
		return nil, fmt.Errorf("unhandled data type: %s", prefix)
	}

	hex, err := parseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("hex: %w", err)
	}
	switch prefix {
	case "hex", "hex(0)", "hex(3)":
		// REG_NONE is folded into REG_BINARY, both are only used
		// as opaque markers here.
		return hex, nil
	case "hex(1)":
		s, err := decodeW(hex)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "hex(2)":
		s, err := decodeW(hex)
		if err != nil {
			return nil, err
		}
		return ExpandableString(s), nil
	case "hex(4)":
		if len(hex) != 4 {
			return nil, fmt.Errorf("hex(4): expected 4 bytes, got %d", len(hex))
		}
		return binary.LittleEndian.Uint32(hex), nil
	case "hex(7)":
		s, err := decodeW(hex)
		if err != nil {
			return nil, err
		}
		v := strings.Split(s, "\x00")
		return v[:len(v)-1], nil // foo\0bar\0 -> [foo, bar, ""]
	case "hex(b)":
		if len(hex) != 8 {
			return nil, fmt.Errorf("hex(b): expected 8 bytes, got %d", len(hex))
		}
		return binary.LittleEndian.Uint64(hex), nil
	}
	return nil, fmt.Errorf("unsupported hex type: %s", prefix)
}

func parseBytes(s string) ([]byte, error) {
	byteStrs := strings.Split(s, ",")
	buf := []byte{}

	for _, byteStr := range byteStrs {
		byteStr = strings.TrimSpace(byteStr)
		if byteStr == "" {
			continue
		}
		b, err := strconv.ParseUint(byteStr, 16, 8)
		if err != nil {
			return nil, err
		}
		buf = append(buf, byte(b))
	}
	return buf, nil
}

// gist.github.com/juergenhoetzel/2d9447cdf5c5b30278adfa7e22ec660e
func decodeW(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", errors.New("odd length UTF-16 data")
	}
	if len(b) == 0 {
		return "", nil
	}
	ints := make([]uint16, len(b)/2)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &ints); err != nil {
		return "", err
	}
	if ints[len(ints)-1] == 0 {
		// remove NULL terminator (if present)
		ints = ints[:len(ints)-1]
	}
	return string(utf16.Decode(ints)), nil
}
