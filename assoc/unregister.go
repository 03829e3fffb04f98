package assoc

import (
	"errors"

	"github.com/dataexplorer/winhelper"
)

// Unregister removes every key owned by the Association, and its
// entries in the lists of shared extensions.
//
// A shared extension key is deleted entirely only if the Association
// was its sole occupant. Entries of other applications are never
// removed.
func (r *Registrar) Unregister() error {
	return elevate(r.unregister())
}

func (r *Registrar) unregister() error {
	a := &r.Association
	if err := a.Validate(); err != nil {
		return err
	}
	r.log().Info("assoc: Unregistering", "extension", a.Extension)

	hkcrExt, hkcrProgID := a.classes(ClassesRoot)
	hklmExt, hklmProgID := a.classes(MachineClasses)

	for _, path := range []string{
		hkcrExt,
		hkcrProgID,
		a.application(winhelper.Join(ClassesRoot, "Applications")),
		hklmExt,
		hklmProgID,
		a.application(UserApplications),
		winhelper.Join(FileExts, a.Extension),
	} {
		if err := r.remove(path); err != nil {
			return err
		}
	}

	for _, shared := range a.Shared {
		if err := r.unregisterShared(shared); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registrar) unregisterShared(ext string) error {
	a := &r.Association
	path := winhelper.Join(FileExts, ext)
	listPath := winhelper.Join(path, "OpenWithList")
	progidsPath := winhelper.Join(path, "OpenWithProgids")

	exists, values, subkeys, err := r.contents(path)
	if err != nil || !exists {
		return err
	}

	k, err := r.Store.OpenKey(listPath)
	if errors.Is(err, winhelper.ErrNotExist) {
		k = nil
	} else if err != nil {
		return err
	}
	l := new(OpenWithList)
	var listSubkeys []string
	if k != nil {
		l, err = LoadOpenWithList(k)
		if err == nil {
			listSubkeys, err = k.SubkeyNames()
		}
		if err != nil {
			k.Close()
			return err
		}
	}
	name, found := l.Find(a.Executable)

	_, progids, progidsSubkeys, err := r.contents(progidsPath)
	if err != nil {
		if k != nil {
			k.Close()
		}
		return err
	}

	sole := found && len(l.Names()) == 1 && len(listSubkeys) == 0 &&
		len(values) == 0 &&
		len(progidsSubkeys) == 0 &&
		(len(progids) == 0 || len(progids) == 1 && contains(progids, a.ProgID))
	for _, sk := range subkeys {
		if !contains([]string{"OpenWithList", "OpenWithProgids"}, sk) {
			sole = false
		}
	}

	if found && !sole {
		l.Remove(name)
		r.log().Info("assoc: Removing from shared list", "extension", ext, "slot", name, "mru", l.MRU())
		err = l.Save(k)
	}
	if k != nil {
		if cerr := k.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}

	if sole {
		r.log().Info("assoc: Sole occupant of shared extension", "extension", ext)
		return r.remove(path)
	}

	if !contains(progids, a.ProgID) {
		return nil
	}
	pk, err := r.Store.OpenKey(progidsPath)
	if err != nil {
		return err
	}
	defer pk.Close()

	r.log().Debug("assoc: Removing ProgID", "path", progidsPath, "progid", a.ProgID)
	if err := pk.Remove(a.ProgID); err != nil && !errors.Is(err, winhelper.ErrNotExist) {
		return err
	}
	return nil
}
