// Package assoc registers an application as the handler of a file
// extension in the Windows registry, and shares the Open With lists
// of extensions owned by cooperating applications.
package assoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dataexplorer/winhelper"
)

// Registry locations touched by a Registrar.
const (
	ClassesRoot      = winhelper.ClassesRoot
	MachineClasses   = winhelper.LocalMachine + `\SOFTWARE\Classes`
	UserApplications = winhelper.CurrentUser + `\Software\Classes\Applications`
	FileExts         = winhelper.CurrentUser + `\Software\Microsoft\Windows\CurrentVersion\Explorer\FileExts`
)

// Association describes the file extension owned by an application.
type Association struct {
	// Extension is the owned file extension, including the leading dot.
	Extension string

	// ProgID is the class the extension is mapped to.
	ProgID string

	// Executable is the file name of the application within its
	// installation directory.
	Executable string

	// Shared lists the extensions of cooperating applications. Their
	// Open With lists are patched to include the Executable, but the
	// keys themselves are not owned.
	Shared []string
}

// DataExplorer is the association of DataExplorer's .osd files.
var DataExplorer = Association{
	Extension:  ".osd",
	ProgID:     "DataExplorer.DataExplorerFileExtension",
	Executable: "DataExplorer.exe",
	Shared:     []string{".lov"},
}

// Validate reports whether every field of a can be used as a registry
// key name.
func (a *Association) Validate() error {
	if !strings.HasPrefix(a.Extension, ".") {
		return errors.New("assoc: extension must begin with a dot")
	}
	for _, name := range append([]string{a.Extension, a.ProgID, a.Executable}, a.Shared...) {
		if name == "" || strings.ContainsAny(name, `\"`) {
			return fmt.Errorf("assoc: invalid key name %q", name)
		}
	}
	return nil
}

// Command returns the shell open command for the Executable installed
// within basePath.
func (a *Association) Command(basePath string) string {
	return `"` + basePath + `\` + a.Executable + `" "%1"`
}

func (a *Association) classes(root string) (ext, progID string) {
	return winhelper.Join(root, a.Extension), winhelper.Join(root, a.ProgID)
}

func (a *Association) application(root string) string {
	return winhelper.Join(root, a.Executable)
}

func openCommand(key string) string {
	return winhelper.Join(key, `shell\open\command`)
}
