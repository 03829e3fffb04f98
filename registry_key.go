package winhelper

import (
	"reflect"
	"slices"
	"strings"
)

// RegistryKey represents an in-memory registry key with its known
// values and subkeys. Key and value names are matched case-insensitively,
// as done by Windows.
//
// It is not reccomended to iterate over the Subkeys field to modify it,
// use [RegistryKey.Add] and [RegistryKey.Delete].
type RegistryKey struct {
	Name    string
	Values  []RegistryValue
	Subkeys []*RegistryKey

	parent *RegistryKey
}

// RegistryValue represents a known registry key's value pairs.
//
// The (Default) key will have the name as empty.
type RegistryValue struct {
	Name string
	Data RegistryData
}

// NewRegistryKey creates a registry key and its parents based
// on the absolute registry path.
func NewRegistryKey(path string) *RegistryKey {
	hive, rel, err := SplitPath(path)
	if err != nil {
		hive, rel, _ = strings.Cut(path, `\`)
	}
	parent := RegistryKey{Name: hive}
	return parent.Add(rel)
}

// Value finds the registry value with the given name in k. If it is
// not found, nil will be returned.
func (k *RegistryKey) Value(name string) *RegistryValue {
	for i, v := range k.Values {
		if strings.EqualFold(v.Name, name) {
			return &k.Values[i]
		}
	}
	return nil
}

// SetValue sets a named value in k with the specified data. The name may be
// an empty string to specify the (Default) key.
//
// If the named value already exists in k, only the data will be set, otherwise
// a new value will be added to k with the given name and data.
func (k *RegistryKey) SetValue(name string, data RegistryData) *RegistryValue {
	if v := k.Value(name); v != nil {
		v.Data = data
		return v
	}
	k.Values = append(k.Values, RegistryValue{name, data})
	return &k.Values[len(k.Values)-1]
}

// DeleteValue removes the named value from k, reporting whether
// it was present.
func (k *RegistryKey) DeleteValue(name string) bool {
	for i, v := range k.Values {
		if strings.EqualFold(v.Name, name) {
			k.Values = slices.Delete(k.Values, i, i+1)
			return true
		}
	}
	return false
}

// Add will find the registry key located at path, relative to k,
// and creates any parent key if necesary.
func (k *RegistryKey) Add(path string) *RegistryKey {
	return k.queryPath(path, true)
}

// Parent returns k's parent registry key. The parent can be nil
// if k is a root registry key such as HKEY_CURRENT_USER.
func (k *RegistryKey) Parent() *RegistryKey {
	return k.parent
}

// Root returns k's root registry key (greatest parent).
func (k *RegistryKey) Root() (parent *RegistryKey) {
	for cur := k; cur != nil; cur = cur.parent {
		parent = cur
	}
	return
}

// Path returns the path to itself up to the root registry key.
func (k *RegistryKey) Path() string {
	if k.parent == nil {
		return k.Name
	}
	return k.parent.Path() + `\` + k.Name
}

// Query finds the given registry key path relative to k. nil will be returned
// if no key was found.
func (k *RegistryKey) Query(path string) *RegistryKey {
	return k.queryPath(path, false)
}

// Delete removes the named registry key path relative to k along with
// all of its subkeys. If the key was found in k, true will be returned.
// k itself cannot be deleted.
func (k *RegistryKey) Delete(path string) bool {
	query := k.Query(path)
	if query == nil || query == k {
		return false
	}

	parent := query.parent
	i := slices.Index(parent.Subkeys, query)
	if i < 0 {
		panic("winhelper: subkey successfully traversed but is missing in parent")
	}
	parent.Subkeys = slices.Delete(parent.Subkeys, i, i+1)
	query.parent = nil
	return true
}

func (k *RegistryKey) queryPath(path string, create bool) *RegistryKey {
	current := k
segment:
	for _, segment := range strings.Split(path, `\`) {
		if segment == "" {
			continue
		}
		// Iterate backwards as the most recently added key would
		// be last, useful in parsing.
		for _, subkey := range slices.Backward(current.Subkeys) {
			if strings.EqualFold(subkey.Name, segment) {
				current = subkey
				continue segment
			}
		}
		if !create {
			return nil
		}
		current.Subkeys = append(current.Subkeys, &RegistryKey{
			Name:   segment,
			parent: current,
		})
		current = current.Subkeys[len(current.Subkeys)-1]
	}
	return current
}

// SubkeyNames implements [Key].
func (k *RegistryKey) SubkeyNames() ([]string, error) {
	names := make([]string, 0, len(k.Subkeys))
	for _, sk := range k.Subkeys {
		names = append(names, sk.Name)
	}
	return names, nil
}

// ValueNames implements [Key], returning the names of k's values in
// the order they were added.
func (k *RegistryKey) ValueNames() ([]string, error) {
	names := make([]string, 0, len(k.Values))
	for _, v := range k.Values {
		names = append(names, v.Name)
	}
	return names, nil
}

// Get implements [Key].
func (k *RegistryKey) Get(name string) (RegistryData, error) {
	v := k.Value(name)
	if v == nil {
		return nil, &PathError{Op: "get", Path: k.Path() + `\` + valueLabel(name), Err: ErrNotExist}
	}
	return v.Data, nil
}

// Set implements [Key].
func (k *RegistryKey) Set(name string, data RegistryData) error {
	if err := checkData(data); err != nil {
		return err
	}
	k.SetValue(name, data)
	return nil
}

// Remove implements [Key].
func (k *RegistryKey) Remove(name string) error {
	if !k.DeleteValue(name) {
		return &PathError{Op: "remove", Path: k.Path() + `\` + valueLabel(name), Err: ErrNotExist}
	}
	return nil
}

// Close implements [Key]. In-memory keys hold no resources.
func (k *RegistryKey) Close() error {
	return nil
}

// This is preferred over [reflect.DeepEqual] as there are private pointer
// properties.
func (k *RegistryKey) Equal(b *RegistryKey) bool {
	if k == nil || b == nil {
		return k == b
	}
	if k.Name != b.Name {
		return false
	}
	if len(k.Values) != len(b.Values) {
		return false
	}
	for i := range k.Values {
		if !reflect.DeepEqual(k.Values[i], b.Values[i]) {
			return false
		}
	}
	if len(k.Subkeys) != len(b.Subkeys) {
		return false
	}
	for i := range k.Subkeys {
		if !k.Subkeys[i].Equal(b.Subkeys[i]) {
			return false
		}
	}
	return true
}

func valueLabel(name string) string {
	if name == "" {
		return "(Default)"
	}
	return name
}
