//go:build windows

package winhelper

import (
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/sys/windows/registry"
)

// System is the [Store] of the running host's registry.
type System struct{}

var systemHives = map[string]registry.Key{
	ClassesRoot:  registry.CLASSES_ROOT,
	LocalMachine: registry.LOCAL_MACHINE,
	CurrentUser:  registry.CURRENT_USER,
	Users:        registry.USERS,
}

// OpenKey implements [Store].
func (System) OpenKey(path string) (Key, error) {
	hive, rel, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	k, err := registry.OpenKey(systemHives[hive], rel, registry.READ|registry.SET_VALUE)
	if errors.Is(err, fs.ErrPermission) {
		// Fall back to read-only access, writes will report the
		// denial themselves.
		k, err = registry.OpenKey(systemHives[hive], rel, registry.READ)
	}
	if err != nil {
		return nil, systemError("open", path, err)
	}
	return &systemKey{k: k, path: path}, nil
}

// CreateKey implements [Store].
func (System) CreateKey(path string) (Key, error) {
	hive, rel, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	k, _, err := registry.CreateKey(systemHives[hive], rel, registry.ALL_ACCESS)
	if err != nil {
		return nil, systemError("create", path, err)
	}
	return &systemKey{k: k, path: path}, nil
}

// DeleteKey implements [Store].
func (System) DeleteKey(path string) error {
	hive, rel, err := SplitPath(path)
	if err != nil {
		return err
	}
	if rel == "" {
		return &PathError{Op: "delete", Path: path, Err: ErrInvalidPath}
	}
	if err := deleteTree(systemHives[hive], rel); err != nil {
		return systemError("delete", path, err)
	}
	return nil
}

// registry.DeleteKey will not delete keys that have subkeys.
func deleteTree(root registry.Key, path string) error {
	k, err := registry.OpenKey(root, path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return err
	}
	names, err := k.ReadSubKeyNames(-1)
	k.Close()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := deleteTree(root, path+`\`+name); err != nil {
			return err
		}
	}
	return registry.DeleteKey(root, path)
}

func systemError(op, path string, err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		err = ErrNotExist
	}
	return &PathError{Op: op, Path: path, Err: err}
}

type systemKey struct {
	k    registry.Key
	path string
}

func (sk *systemKey) SubkeyNames() ([]string, error) {
	names, err := sk.k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, systemError("list", sk.path, err)
	}
	return names, nil
}

func (sk *systemKey) ValueNames() ([]string, error) {
	names, err := sk.k.ReadValueNames(-1)
	if err != nil {
		return nil, systemError("list", sk.path, err)
	}
	return names, nil
}

func (sk *systemKey) Get(name string) (RegistryData, error) {
	label := sk.path + `\` + valueLabel(name)

	n, typ, err := sk.k.GetValue(name, nil)
	if err != nil {
		return nil, systemError("get", label, err)
	}

	var data RegistryData
	switch typ {
	case registry.SZ:
		data, _, err = sk.k.GetStringValue(name)
	case registry.EXPAND_SZ:
		var s string
		s, _, err = sk.k.GetStringValue(name)
		data = ExpandableString(s)
	case registry.MULTI_SZ:
		data, _, err = sk.k.GetStringsValue(name)
	case registry.DWORD, registry.QWORD:
		var v uint64
		v, _, err = sk.k.GetIntegerValue(name)
		if typ == registry.DWORD {
			data = uint32(v)
		} else {
			data = v
		}
	default:
		buf := make([]byte, n)
		_, _, err = sk.k.GetValue(name, buf)
		data = buf
	}
	if err != nil {
		return nil, systemError("get", label, err)
	}
	return data, nil
}

func (sk *systemKey) Set(name string, data RegistryData) error {
	var err error
	switch d := data.(type) {
	case string:
		err = sk.k.SetStringValue(name, d)
	case ExpandableString:
		err = sk.k.SetExpandStringValue(name, string(d))
	case []string:
		err = sk.k.SetStringsValue(name, d)
	case uint32:
		err = sk.k.SetDWordValue(name, d)
	case uint64:
		err = sk.k.SetQWordValue(name, d)
	case []byte:
		err = sk.k.SetBinaryValue(name, d)
	default:
		return fmt.Errorf("winhelper: unhandled registry value type: %T", d)
	}
	if err != nil {
		return systemError("set", sk.path+`\`+valueLabel(name), err)
	}
	return nil
}

func (sk *systemKey) Remove(name string) error {
	if err := sk.k.DeleteValue(name); err != nil {
		return systemError("remove", sk.path+`\`+valueLabel(name), err)
	}
	return nil
}

func (sk *systemKey) Close() error {
	return sk.k.Close()
}
