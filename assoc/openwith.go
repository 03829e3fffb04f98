package assoc

import (
	"errors"
	"slices"
	"strings"

	"github.com/dataexplorer/winhelper"
)

// MRUList is the OpenWithList value holding the slot letters in
// most-recently-used order.
const MRUList = "MRUList"

const slots = "abcdefgh"

// Capacity is the number of slots in an OpenWithList.
const Capacity = len(slots)

type entry struct {
	name string
	exe  string
}

// OpenWithList is the set of applications listed in an extension's
// OpenWithList key. Applications occupy the named slots a through h,
// the order of which is kept in MRUList.
//
// The zero value is an empty list.
type OpenWithList struct {
	entries []entry
	mru     []byte

	added   []string
	removed []string
}

// LoadOpenWithList reads the OpenWithList stored in k.
//
// The MRU order is normalized: letters without a slot are dropped
// and occupied slots missing from it are appended in letter order.
func LoadOpenWithList(k winhelper.Key) (*OpenWithList, error) {
	names, err := k.ValueNames()
	if err != nil {
		return nil, err
	}

	var l OpenWithList
	var mru string
	for _, name := range names {
		data, err := k.Get(name)
		if err != nil {
			return nil, err
		}
		s, _ := winhelper.StringData(data)
		if strings.EqualFold(name, MRUList) {
			mru = s
			continue
		}
		l.entries = append(l.entries, entry{name, s})
	}

	for i := range len(mru) {
		c := mru[i]
		if l.occupied(c) && !slices.Contains(l.mru, c) {
			l.mru = append(l.mru, c)
		}
	}
	for i := range len(slots) {
		c := slots[i]
		if l.occupied(c) && !slices.Contains(l.mru, c) {
			l.mru = append(l.mru, c)
		}
	}
	return &l, nil
}

func slot(name string) (byte, bool) {
	if len(name) != 1 {
		return 0, false
	}
	c := strings.ToLower(name)[0]
	return c, strings.IndexByte(slots, c) >= 0
}

func (l *OpenWithList) occupied(c byte) bool {
	return slices.ContainsFunc(l.entries, func(e entry) bool {
		s, ok := slot(e.name)
		return ok && s == c
	})
}

func (l *OpenWithList) index(name string) int {
	return slices.IndexFunc(l.entries, func(e entry) bool {
		return strings.EqualFold(e.name, name)
	})
}

// Find returns the name of the value listing exe.
func (l *OpenWithList) Find(exe string) (string, bool) {
	for _, e := range l.entries {
		if strings.EqualFold(e.exe, exe) {
			return e.name, true
		}
	}
	return "", false
}

// Add lists exe in the lowest free slot and appends the slot to the
// MRU order, returning the slot's name. ErrListFull is returned if
// every slot is occupied.
func (l *OpenWithList) Add(exe string) (string, error) {
	for i := range len(slots) {
		c := slots[i]
		if l.occupied(c) {
			continue
		}
		name := string(c)
		l.entries = append(l.entries, entry{name, exe})
		l.mru = append(l.mru, c)
		l.added = append(l.added, name)
		l.removed = slices.DeleteFunc(l.removed, func(r string) bool {
			return strings.EqualFold(r, name)
		})
		return name, nil
	}
	return "", ErrListFull
}

// Remove removes the named value from the list, and its slot from
// the MRU order. The order of the remaining slots is kept.
func (l *OpenWithList) Remove(name string) bool {
	i := l.index(name)
	if i < 0 {
		return false
	}
	name = l.entries[i].name
	l.entries = slices.Delete(l.entries, i, i+1)
	if c, ok := slot(name); ok {
		l.mru = slices.DeleteFunc(l.mru, func(m byte) bool { return m == c })
	}
	l.added = slices.DeleteFunc(l.added, func(a string) bool {
		return strings.EqualFold(a, name)
	})
	l.removed = append(l.removed, name)
	return true
}

// MRU returns the MRUList value of l.
func (l *OpenWithList) MRU() string {
	return string(l.mru)
}

// Len returns the number of occupied slots.
func (l *OpenWithList) Len() int {
	return len(l.mru)
}

// Names returns the names of every value in the list other than
// MRUList, including values that are not slots.
func (l *OpenWithList) Names() []string {
	names := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		names = append(names, e.name)
	}
	return names
}

// Save writes the changes made to l into k, which is expected to be
// the key l was loaded from.
func (l *OpenWithList) Save(k winhelper.Key) error {
	for _, name := range l.removed {
		if err := k.Remove(name); err != nil && !errors.Is(err, winhelper.ErrNotExist) {
			return err
		}
	}
	for _, name := range l.added {
		if err := k.Set(name, l.entries[l.index(name)].exe); err != nil {
			return err
		}
	}
	if err := k.Set(MRUList, l.MRU()); err != nil {
		return err
	}
	l.added, l.removed = nil, nil
	return nil
}
