// The winhelper package models the Windows registry for the DataExplorer
// native helpers.
//
// Business logic works against the narrow [Store] and [Key] interfaces,
// which are implemented by the in-memory [Registry] (seeded from regedit
// .reg text) and by [System], the registry of the running Windows host.
package winhelper

import (
	"errors"
	"strings"
)

var (
	ErrNotExist    = errors.New("registry key or value does not exist")
	ErrInvalidPath = errors.New("invalid registry path")
	ErrUnsupported = errors.New("registry not available on this platform")
)

const (
	ClassesRoot  = "HKEY_CLASSES_ROOT"
	LocalMachine = "HKEY_LOCAL_MACHINE"
	CurrentUser  = "HKEY_CURRENT_USER"
	Users        = "HKEY_USERS"
)

var hives = map[string]string{
	"HKCR":       ClassesRoot,
	ClassesRoot:  ClassesRoot,
	"HKLM":       LocalMachine,
	LocalMachine: LocalMachine,
	"HKCU":       CurrentUser,
	CurrentUser:  CurrentUser,
	"HKU":        Users,
	Users:        Users,
}

// Store is a registry whose keys can be opened, created and deleted by
// absolute path, such as `HKEY_CURRENT_USER\Software\Classes`.
//
// Missing keys are reported with an error matching [ErrNotExist], and
// insufficient privileges with an error matching [fs.ErrPermission].
type Store interface {
	// OpenKey opens the existing key at path.
	OpenKey(path string) (Key, error)

	// CreateKey opens the key at path, creating it and any
	// missing parents.
	CreateKey(path string) (Key, error)

	// DeleteKey removes the key at path including all of its subkeys.
	DeleteKey(path string) error
}

// Key is an opened registry key. The value name may be empty to
// specify the (Default) value.
type Key interface {
	SubkeyNames() ([]string, error)
	ValueNames() ([]string, error)
	Get(name string) (RegistryData, error)
	Set(name string, data RegistryData) error
	Remove(name string) error
	Close() error
}

// SplitPath splits an absolute registry path into its hive and the
// path relative to it. Hive aliases such as HKCU are expanded.
func SplitPath(path string) (hive, rel string, err error) {
	path = strings.Trim(path, `\`)
	head, rel, _ := strings.Cut(path, `\`)
	hive, ok := hives[strings.ToUpper(head)]
	if !ok {
		return "", "", &PathError{Path: path, Err: ErrInvalidPath}
	}
	return hive, rel, nil
}

// Join joins registry path elements with backslashes.
func Join(elem ...string) string {
	var parts []string
	for _, e := range elem {
		if e = strings.Trim(e, `\`); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, `\`)
}

// Exists reports whether the key at path can be opened in s.
func Exists(s Store, path string) (bool, error) {
	k, err := s.OpenKey(path)
	if errors.Is(err, ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, k.Close()
}

// PathError records the registry path an operation failed on.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Op == "" {
		return e.Path + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }
