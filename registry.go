package winhelper

import (
	"io"
	"os"
)

// Registry is an in-memory [Store] holding a key tree for each hive.
// It is used as an offline copy of a registry, such as for dry runs
// and tests.
//
// Registry is not safe for concurrent use.
type Registry struct {
	ClassesRoot *RegistryKey
	Machine     *RegistryKey
	CurrentUser *RegistryKey
	Users       *RegistryKey
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		ClassesRoot: &RegistryKey{Name: ClassesRoot},
		Machine:     &RegistryKey{Name: LocalMachine},
		CurrentUser: &RegistryKey{Name: CurrentUser},
		Users:       &RegistryKey{Name: Users},
	}
}

// ParseRegistry returns a Registry seeded with the regedit export read from r.
func ParseRegistry(r io.Reader) (*Registry, error) {
	reg := NewRegistry()
	if err := reg.Import(r); err != nil {
		return nil, err
	}
	return reg, nil
}

// ParseRegistryFile is a helper for ParseRegistry to parse from a registry file.
func ParseRegistryFile(name string) (*Registry, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRegistry(f)
}

// Hives returns the root keys of r.
func (r *Registry) Hives() []*RegistryKey {
	return []*RegistryKey{r.ClassesRoot, r.Machine, r.CurrentUser, r.Users}
}

func (r *Registry) hive(name string) *RegistryKey {
	for _, h := range r.Hives() {
		if h.Name == name {
			return h
		}
	}
	panic("winhelper: unknown hive " + name)
}

// Query finds the registry key located at the absolute path. If the named
// registry key is not found, nil will be returned.
func (r *Registry) Query(path string) *RegistryKey {
	hive, rel, err := SplitPath(path)
	if err != nil {
		return nil
	}
	return r.hive(hive).Query(rel)
}

// OpenKey implements [Store].
func (r *Registry) OpenKey(path string) (Key, error) {
	if _, _, err := SplitPath(path); err != nil {
		return nil, err
	}
	k := r.Query(path)
	if k == nil {
		return nil, &PathError{Op: "open", Path: path, Err: ErrNotExist}
	}
	return k, nil
}

// CreateKey implements [Store].
func (r *Registry) CreateKey(path string) (Key, error) {
	hive, rel, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	return r.hive(hive).Add(rel), nil
}

// DeleteKey implements [Store]. Hive roots cannot be deleted.
func (r *Registry) DeleteKey(path string) error {
	hive, rel, err := SplitPath(path)
	if err != nil {
		return err
	}
	if rel == "" {
		return &PathError{Op: "delete", Path: path, Err: ErrInvalidPath}
	}
	if !r.hive(hive).Delete(rel) {
		return &PathError{Op: "delete", Path: path, Err: ErrNotExist}
	}
	return nil
}

// Equal reports whether every hive of r matches b.
func (r *Registry) Equal(b *Registry) bool {
	for _, h := range r.Hives() {
		if !h.Equal(b.hive(h.Name)) {
			return false
		}
	}
	return true
}
