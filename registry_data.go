package winhelper

import (
	"fmt"
)

// ExpandableString is REG_EXPAND_SZ data, a string that may reference
// environment variables such as %APPDATA%.
type ExpandableString string

// RegistryData represents a RegistryValue's data.
//
// Known registry types and their Go types:
//   - REG_SZ = string
//   - REG_EXPAND_SZ aka hex(2) = [ExpandableString]
//   - REG_MULTI_SZ aka hex(7) = []string
//   - REG_DWORD = uint32
//   - REG_QWORD aka hex(b) = uint64
//   - REG_BINARY aka hex = []byte
//
// A zero length []byte is used as a presence marker, such as the
// ProgID entries of an OpenWithProgids key.
type RegistryData any

// StringData returns data as a string if it holds REG_SZ or
// REG_EXPAND_SZ data.
func StringData(data RegistryData) (string, bool) {
	switch d := data.(type) {
	case string:
		return d, true
	case ExpandableString:
		return string(d), true
	}
	return "", false
}

func checkData(data RegistryData) error {
	switch data.(type) {
	case string, ExpandableString, []string, uint32, uint64, []byte:
		return nil
	}
	return fmt.Errorf("winhelper: unhandled registry value type: %T", data)
}
