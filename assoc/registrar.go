package assoc

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dataexplorer/winhelper"
	"github.com/dataexplorer/winhelper/peutil"
)

// Registrar registers and unregisters an Association in a registry.
type Registrar struct {
	Store       winhelper.Store
	Association Association

	// Logger is used to report progress and skipped steps. If nil,
	// slog.Default is used.
	Logger *slog.Logger

	// CheckExecutable enables validating the Executable as a PE
	// image during registration, if it is present.
	CheckExecutable bool
}

// New returns a Registrar for the association a within s.
func New(s winhelper.Store, a Association) *Registrar {
	return &Registrar{Store: s, Association: a}
}

func (r *Registrar) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// setDefault sets the default value of the key at path, creating it
// if necessary.
func (r *Registrar) setDefault(path, data string) error {
	k, err := r.Store.CreateKey(path)
	if err != nil {
		return err
	}
	defer k.Close()

	r.log().Debug("assoc: Setting key", "path", path, "data", data)
	return k.Set("", data)
}

// remove deletes the key at path if it exists.
func (r *Registrar) remove(path string) error {
	err := r.Store.DeleteKey(path)
	if errors.Is(err, winhelper.ErrNotExist) {
		return nil
	}
	if err == nil {
		r.log().Info("assoc: Deleted key", "path", path)
	}
	return err
}

// recreate deletes the key at path if it exists, and sets the default
// value of its open command.
func (r *Registrar) recreate(path, command string) error {
	if err := r.remove(path); err != nil {
		return err
	}
	return r.setDefault(openCommand(path), command)
}

// contents returns the names of the values and subkeys in the key
// at path, and whether it exists.
func (r *Registrar) contents(path string) (exists bool, values, subkeys []string, err error) {
	k, err := r.Store.OpenKey(path)
	if errors.Is(err, winhelper.ErrNotExist) {
		return false, nil, nil, nil
	}
	if err != nil {
		return false, nil, nil, err
	}
	defer k.Close()

	values, err = k.ValueNames()
	if err != nil {
		return true, nil, nil, err
	}
	subkeys, err = k.SubkeyNames()
	return true, values, subkeys, err
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func cleanBasePath(basePath string) (string, error) {
	if strings.ContainsFunc(basePath, func(r rune) bool {
		return r == '"' || unicode.IsControl(r)
	}) {
		return "", ErrInvalidPath
	}
	basePath = strings.TrimRight(strings.TrimSpace(basePath), `\/`)
	if basePath == "" {
		return "", ErrInvalidPath
	}
	return basePath, nil
}

func (r *Registrar) checkExecutable(basePath string) error {
	name := filepath.Join(basePath, r.Association.Executable)
	if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
		r.log().Warn("assoc: Executable not found, registering anyway", "path", name)
		return nil
	}
	if err := peutil.CheckExecutable(name); err != nil {
		return err
	}

	f, err := peutil.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	icons, err := f.IconGroups()
	if err != nil {
		r.log().Warn("assoc: Could not read executable resources", "path", name, "err", err)
	} else if len(icons) == 0 {
		r.log().Warn("assoc: Executable has no icon", "path", name)
	}
	return nil
}
