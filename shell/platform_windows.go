//go:build windows

package shell

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"golang.org/x/sys/windows"
)

// GUID_DEVINTERFACE_COMPORT
var comPortInterface = windows.GUID{
	Data1: 0x86e0d1e0,
	Data2: 0x8089,
	Data3: 0x11d0,
	Data4: [8]byte{0x9c, 0xe4, 0x08, 0x00, 0x3e, 0x30, 0x1f, 0x73},
}

type native struct{}

// Native returns the Platform of the running host, backed by COM
// and SetupAPI.
func Native() Platform {
	return native{}
}

// withShell calls fn with a WScript.Shell object, within an
// initialized COM apartment.
func withShell(fn func(wshell *ole.IDispatch) error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED|ole.COINIT_SPEED_OVER_MEMORY); err != nil {
		// S_FALSE, already initialized on this thread
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != 0x00000001 {
			return &Error{Code: CodeCOMInit, Err: err}
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return &Error{Code: CodeCreateInstance, Err: err}
	}
	defer unknown.Release()

	wshell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return &Error{Code: CodeQueryInterface, Err: err}
	}
	defer wshell.Release()

	return fn(wshell)
}

func getString(disp *ole.IDispatch, name string) (string, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return "", err
	}
	defer v.Clear()
	return v.ToString(), nil
}

func (native) ResolveShortcut(linkPath string) (Shortcut, error) {
	var s Shortcut
	// WScript.Shell returns an empty shortcut for missing files
	// rather than failing to load them.
	if err := statLink(linkPath); err != nil {
		return s, err
	}

	err := withShell(func(wshell *ole.IDispatch) error {
		v, err := oleutil.CallMethod(wshell, "CreateShortcut", linkPath)
		if err != nil {
			return &Error{Code: CodeLoad, Path: linkPath, Err: err}
		}
		link := v.ToIDispatch()
		defer link.Release()

		s.Target, err = getString(link, "TargetPath")
		if err != nil {
			return &Error{Code: CodeGetPath, Path: linkPath, Err: err}
		}

		var icon string
		for _, p := range []struct {
			name string
			dst  *string
		}{
			{"Arguments", &s.Arguments},
			{"WorkingDirectory", &s.WorkingDir},
			{"Description", &s.Description},
			{"IconLocation", &icon},
		} {
			if *p.dst, err = getString(link, p.name); err != nil {
				return fmt.Errorf("shell: get %s: %w", p.name, err)
			}
		}

		if i := strings.LastIndexByte(icon, ','); i >= 0 {
			s.IconPath = icon[:i]
			s.IconIndex, _ = strconv.Atoi(icon[i+1:])
		} else {
			s.IconPath = icon
		}
		return nil
	})
	return s, err
}

func (native) CreateShortcut(linkPath string, s Shortcut) error {
	return withShell(func(wshell *ole.IDispatch) error {
		v, err := oleutil.CallMethod(wshell, "CreateShortcut", linkPath)
		if err != nil {
			return &Error{Code: CodeCreateInstance, Path: linkPath, Err: err}
		}
		link := v.ToIDispatch()
		defer link.Release()

		type property struct{ name, value string }
		props := []property{
			{"TargetPath", s.Target},
			{"Arguments", s.Arguments},
			{"WorkingDirectory", s.WorkingDir},
			{"Description", s.Description},
		}
		if s.IconPath != "" {
			props = append(props, property{"IconLocation", fmt.Sprintf("%s,%d", s.IconPath, s.IconIndex)})
		}
		for _, p := range props {
			if _, err := oleutil.PutProperty(link, p.name, p.value); err != nil {
				return fmt.Errorf("shell: set %s: %w", p.name, err)
			}
		}

		if _, err := oleutil.CallMethod(link, "Save"); err != nil {
			return fmt.Errorf("shell: save %s: %w", linkPath, err)
		}
		return nil
	})
}

func (native) ListSerialDevices() ([]SerialDevice, error) {
	devInfo, err := windows.SetupDiGetClassDevsEx(
		&comPortInterface,
		"",
		0,
		windows.DIGCF_PRESENT|windows.DIGCF_DEVICEINTERFACE,
		0,
		"",
	)
	if err != nil {
		return nil, &Error{Code: CodeDeviceEnum, Err: err}
	}
	defer func() {
		_ = windows.SetupDiDestroyDeviceInfoList(devInfo)
	}()

	var devices []SerialDevice
	for i := 0; ; i++ {
		data, err := windows.SetupDiEnumDeviceInfo(devInfo, i)
		if errors.Is(err, windows.ERROR_NO_MORE_ITEMS) {
			break
		}
		if err != nil {
			return nil, &Error{Code: CodeDeviceEnum, Err: err}
		}

		devices = append(devices, SerialDevice{
			Manufacturer: deviceProperty(devInfo, data, windows.SPDRP_MFG),
			FriendlyName: deviceProperty(devInfo, data, windows.SPDRP_FRIENDLYNAME),
		})
	}
	return devices, nil
}

// deviceProperty returns the string registry property of a device, or
// an empty string if it is not set.
func deviceProperty(devInfo windows.DevInfo, data *windows.DevInfoData, prop windows.SPDRP) string {
	v, err := windows.SetupDiGetDeviceRegistryProperty(devInfo, data, prop)
	if err != nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	}
	return ""
}
