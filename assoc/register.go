package assoc

import (
	"errors"
	"fmt"

	"github.com/dataexplorer/winhelper"
)

// Register registers the Association for the Executable installed
// within basePath. Registering again with the same basePath leaves
// the registry unchanged.
//
// If the registry denies access, an error matching ErrElevationRequired
// is returned at once. Steps that were already made are not undone.
func (r *Registrar) Register(basePath string) error {
	return elevate(r.register(basePath))
}

func (r *Registrar) register(basePath string) error {
	a := &r.Association
	if err := a.Validate(); err != nil {
		return err
	}

	dir, err := cleanBasePath(basePath)
	if err != nil {
		return fmt.Errorf("%w: %q", err, basePath)
	}
	basePath = dir
	if r.CheckExecutable {
		if err := r.checkExecutable(basePath); err != nil {
			return err
		}
	}
	command := a.Command(basePath)
	r.log().Info("assoc: Registering", "extension", a.Extension, "command", command)

	ext, progID := a.classes(ClassesRoot)
	if err := r.setDefault(ext, a.ProgID); err != nil {
		return err
	}
	if err := r.setDefault(progID, a.ProgID); err != nil {
		return err
	}
	if err := r.setDefault(openCommand(a.application(winhelper.Join(ClassesRoot, "Applications"))), command); err != nil {
		return err
	}

	// The machine ProgID is recreated to drop any stale verbs.
	ext, progID = a.classes(MachineClasses)
	if err := r.setDefault(ext, a.ProgID); err != nil {
		return err
	}
	if err := r.recreate(progID, command); err != nil {
		return err
	}
	if err := r.setDefault(progID, a.ProgID); err != nil {
		return err
	}

	if err := r.recreate(a.application(UserApplications), command); err != nil {
		return err
	}

	if err := r.registerFileExt(); err != nil {
		return err
	}

	for _, shared := range a.Shared {
		if err := r.registerShared(shared); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registrar) registerFileExt() error {
	a := &r.Association
	path := winhelper.Join(FileExts, a.Extension)
	if err := r.remove(path); err != nil {
		return err
	}

	k, err := r.Store.CreateKey(winhelper.Join(path, "OpenWithList"))
	if err != nil {
		return err
	}
	defer k.Close()

	var l OpenWithList
	if _, err := l.Add(a.Executable); err != nil {
		return err
	}
	if err := l.Save(k); err != nil {
		return err
	}

	return r.addProgID(winhelper.Join(path, "OpenWithProgids"))
}

func (r *Registrar) addProgID(path string) error {
	k, err := r.Store.CreateKey(path)
	if err != nil {
		return err
	}
	defer k.Close()

	names, err := k.ValueNames()
	if err != nil {
		return err
	}
	if contains(names, r.Association.ProgID) {
		return nil
	}
	r.log().Debug("assoc: Adding ProgID", "path", path, "progid", r.Association.ProgID)
	return k.Set(r.Association.ProgID, []byte{})
}

func (r *Registrar) registerShared(ext string) error {
	a := &r.Association
	path := winhelper.Join(FileExts, ext)
	exists, err := winhelper.Exists(r.Store, path)
	if err != nil {
		return err
	}
	if !exists {
		r.log().Debug("assoc: Shared extension not present", "extension", ext)
		return nil
	}

	k, err := r.Store.CreateKey(winhelper.Join(path, "OpenWithList"))
	if err != nil {
		return err
	}
	defer k.Close()

	l, err := LoadOpenWithList(k)
	if err != nil {
		return err
	}
	if name, ok := l.Find(a.Executable); ok {
		r.log().Debug("assoc: Already in shared list", "extension", ext, "slot", name)
	} else {
		name, err := l.Add(a.Executable)
		switch {
		case errors.Is(err, ErrListFull):
			r.log().Warn("assoc: Shared list is full, skipping", "extension", ext, "err", err)
		case err != nil:
			return err
		default:
			r.log().Info("assoc: Adding to shared list", "extension", ext, "slot", name)
			if err := l.Save(k); err != nil {
				return err
			}
		}
	}

	return r.addProgID(winhelper.Join(path, "OpenWithProgids"))
}
