//go:build !windows

package shell

import (
	"errors"
	"strings"

	"go.bug.st/serial/enumerator"
)

var errNoCOM = errors.New("COM is only available on Windows")

type native struct{}

// Native returns the Platform of the running host. Shell links are
// not supported; serial devices are listed with go.bug.st/serial.
func Native() Platform {
	return native{}
}

func (native) ResolveShortcut(linkPath string) (Shortcut, error) {
	return Shortcut{}, &Error{Code: CodeCOMInit, Path: linkPath, Err: errNoCOM}
}

func (native) CreateShortcut(linkPath string, _ Shortcut) error {
	return &Error{Code: CodeCOMInit, Path: linkPath, Err: errNoCOM}
}

func (native) ListSerialDevices() ([]SerialDevice, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, &Error{Code: CodeDeviceEnum, Err: err}
	}

	devices := make([]SerialDevice, 0, len(ports))
	for _, p := range ports {
		var mfg string
		if p.IsUSB && p.VID != "" {
			mfg = "USB VID " + strings.ToUpper(p.VID)
		}
		name := p.Name
		if p.Product != "" {
			name = p.Product + " (" + p.Name + ")"
		}
		devices = append(devices, SerialDevice{Manufacturer: mfg, FriendlyName: name})
	}
	return devices, nil
}
