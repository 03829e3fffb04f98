package shell

import (
	"github.com/dataexplorer/winhelper"
)

var applicationClasses = []string{
	winhelper.ClassesRoot,
	winhelper.LocalMachine + `\SOFTWARE\Classes`,
}

// ApplicationPath returns the open command registered for the named
// ProgID or class, such as "Google Earth.kmlfile". An empty string is
// returned if no command is registered.
func (b *Bridge) ApplicationPath(name string) string {
	for _, classes := range applicationClasses {
		path := winhelper.Join(classes, name, `shell\Open\command`)
		k, err := b.Registry.OpenKey(path)
		if err != nil {
			b.log().Debug("shell: No open command", "path", path, "err", err)
			continue
		}

		data, err := k.Get("")
		k.Close()
		if err != nil {
			b.log().Debug("shell: No open command", "path", path, "err", err)
			continue
		}
		if s, ok := winhelper.StringData(data); ok && s != "" {
			return s
		}
	}
	return ""
}
