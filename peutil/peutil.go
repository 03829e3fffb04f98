// Package peutil inspects Portable Executable images.
package peutil

import (
	"debug/pe"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/folbricht/pefile"
)

var (
	ErrNotExecutable      = errors.New("not an executable image")
	ErrMalformedResources = errors.New("malformed resource directory")
)

// RT_GROUP_ICON, as named by pefile.
const groupIcon = "14/"

// File represents a PE file. It wraps a pe.File to provide access to more
// headers and elements.
type File struct {
	*pe.File

	r      io.ReaderAt
	closer io.Closer
}

// Open opens the named PE file
func Open(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	p, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.closer = f
	return p, nil
}

// New initializes a File from a ReaderAt
func New(r io.ReaderAt) (*File, error) {
	p, err := pe.NewFile(r)
	if err != nil {
		return nil, err
	}
	return &File{File: p, r: r}, nil
}

// Close closes the File, and the underlying file if it was
// opened with Open.
func (f *File) Close() error {
	err := f.File.Close()
	if f.closer != nil {
		if cerr := f.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Executable reports whether f is an executable image that is
// not a DLL.
func (f *File) Executable() bool {
	c := f.FileHeader.Characteristics
	return c&pe.IMAGE_FILE_EXECUTABLE_IMAGE != 0 && c&pe.IMAGE_FILE_DLL == 0
}

// Resources returns the resources embedded within f. An image
// without a resource section has no resources.
func (f *File) Resources() (rs []pefile.Resource, err error) {
	if f.Section(".rsrc") == nil {
		return nil, nil
	}

	p, err := pefile.New(f.r)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	// pefile does not bounds check the resource directory.
	defer func() {
		if r := recover(); r != nil {
			rs, err = nil, fmt.Errorf("%w: %v", ErrMalformedResources, r)
		}
	}()
	return p.GetResources()
}

// IconGroups returns the names of the icon group resources in f,
// such as "14/1". A group is listed once regardless of the languages
// it is available in. The first icon group is the one Windows shows
// for the file, and is referred to by an icon location index of 0.
func (f *File) IconGroups() ([]string, error) {
	rs, err := f.Resources()
	if err != nil {
		return nil, err
	}

	var groups []string
	for _, r := range rs {
		if !strings.HasPrefix(r.Name, groupIcon) {
			continue
		}
		// 14/<name>/<language>
		name := r.Name
		if i := strings.LastIndexByte(name, '/'); i > len(groupIcon) {
			name = name[:i]
		}
		if !slices.Contains(groups, name) {
			groups = append(groups, name)
		}
	}
	return groups, nil
}

// CheckExecutable returns an error matching ErrNotExecutable if the
// named file is not an executable image.
func CheckExecutable(name string) error {
	r, err := os.Open(name)
	if err != nil {
		return err
	}
	defer r.Close()

	f, err := New(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotExecutable, err)
	}
	defer f.Close()

	if !f.Executable() {
		return ErrNotExecutable
	}
	return nil
}
