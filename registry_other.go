//go:build !windows

package winhelper

// System is the [Store] of the running host's registry. It is only
// available on Windows; elsewhere every operation fails with
// [ErrUnsupported].
type System struct{}

func (System) OpenKey(path string) (Key, error) {
	return nil, &PathError{Op: "open", Path: path, Err: ErrUnsupported}
}

func (System) CreateKey(path string) (Key, error) {
	return nil, &PathError{Op: "create", Path: path, Err: ErrUnsupported}
}

func (System) DeleteKey(path string) error {
	return &PathError{Op: "delete", Path: path, Err: ErrUnsupported}
}
