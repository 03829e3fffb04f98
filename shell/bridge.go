// Package shell implements the native operations of DataExplorer on
// Windows: shell links, serial port enumeration, and application
// lookup.
//
// Operations return an [*Error] with a stable Code on failure, which
// [Diagnostic] turns into the strings DataExplorer matches on.
package shell

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dataexplorer/winhelper"
	"github.com/dataexplorer/winhelper/peutil"
)

// MaxSerialPorts is the maximum amount of serial port records returned.
const MaxSerialPorts = 256

// Bridge runs the native operations against a Platform and registry.
type Bridge struct {
	Platform Platform
	Registry winhelper.Store

	// Logger is used to report warnings. If nil, slog.Default is used.
	Logger *slog.Logger
}

// New returns a Bridge for the running host.
func New() *Bridge {
	return &Bridge{
		Platform: Native(),
		Registry: winhelper.System{},
	}
}

func (b *Bridge) log() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// CreateOrInspectShortcut returns the target of the existing shell link
// at linkPath. If the link cannot be loaded, it is created from s and
// an empty string is returned.
func (b *Bridge) CreateOrInspectShortcut(linkPath string, s Shortcut) (string, error) {
	target, err := b.ShortcutTarget(linkPath)
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeLoad {
		return target, err
	}

	b.checkIcon(s)
	b.log().Info("shell: Creating shortcut", "path", linkPath, "target", s.Target)
	if err := b.Platform.CreateShortcut(linkPath, s); err != nil {
		return "", err
	}
	return "", nil
}

// ShortcutTarget returns the resolved target path of the shell link
// at linkPath.
func (b *Bridge) ShortcutTarget(linkPath string) (string, error) {
	s, err := b.Platform.ResolveShortcut(linkPath)
	if err != nil {
		return "", err
	}
	if s.Target == "" {
		return "", &Error{Code: CodeGetPath, Path: linkPath}
	}
	if !utf8.ValidString(s.Target) {
		return "", &Error{Code: CodeEncoding, Path: linkPath}
	}
	if fi, err := os.Stat(s.Target); err == nil && fi.IsDir() {
		return "", &Error{Code: CodeIsDirectory, Path: s.Target}
	}
	return s.Target, nil
}

// statLink reports a missing link with CodeLoad, which callers treat
// as a link that can be created. Any other failure to access the link
// is reported with CodeGetPath.
func statLink(linkPath string) error {
	_, err := os.Stat(linkPath)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return &Error{Code: CodeLoad, Path: linkPath, Err: err}
	}
	return &Error{Code: CodeGetPath, Path: linkPath, Err: err}
}

// checkIcon warns if the icon of s cannot be shown.
func (b *Bridge) checkIcon(s Shortcut) {
	switch strings.ToLower(filepath.Ext(s.IconPath)) {
	case ".exe", ".dll":
	default:
		return
	}

	f, err := peutil.Open(s.IconPath)
	if errors.Is(err, fs.ErrNotExist) {
		b.log().Warn("shell: Shortcut icon not found", "path", s.IconPath)
		return
	} else if err != nil {
		b.log().Warn("shell: Shortcut icon is not a PE image", "path", s.IconPath, "err", err)
		return
	}
	defer f.Close()

	groups, err := f.IconGroups()
	if err != nil {
		b.log().Warn("shell: Could not read icon resources", "path", s.IconPath, "err", err)
		return
	}
	if s.IconIndex < 0 || s.IconIndex >= len(groups) {
		b.log().Warn("shell: Shortcut icon index out of range",
			"path", s.IconPath, "index", s.IconIndex, "icons", len(groups))
	}
}

// SerialPorts returns the records of the present serial port devices,
// formatted as "<manufacturer>;<friendly-name>".
func (b *Bridge) SerialPorts() ([]string, error) {
	devices, err := b.Platform.ListSerialDevices()
	if err != nil {
		var e *Error
		if !errors.As(err, &e) {
			err = &Error{Code: CodeDeviceEnum, Err: err}
		}
		return nil, err
	}

	if len(devices) > MaxSerialPorts {
		b.log().Warn("shell: Too many serial ports, truncating", "count", len(devices))
		devices = devices[:MaxSerialPorts]
	}

	records := make([]string, 0, len(devices))
	for _, d := range devices {
		records = append(records, d.String())
	}
	return records, nil
}

// SerialPortRecords is SerialPorts with a failure returned as a single
// diagnostic record.
func (b *Bridge) SerialPortRecords() []string {
	records, err := b.SerialPorts()
	if err != nil {
		return []string{Diagnostic(err)}
	}
	return records
}
