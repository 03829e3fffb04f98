package shell

// Shortcut is the content of a shell link.
type Shortcut struct {
	Target      string
	Arguments   string
	WorkingDir  string
	IconPath    string
	IconIndex   int
	Description string
}

// SerialDevice is a present device exposing a serial port.
type SerialDevice struct {
	Manufacturer string
	FriendlyName string
}

// String returns the record form of d, "<manufacturer>;<friendly-name>".
func (d SerialDevice) String() string {
	return d.Manufacturer + ";" + d.FriendlyName
}

// Platform provides the operating system services used by a Bridge.
//
// Failures are reported as an [*Error] carrying the Code of the
// failed step.
type Platform interface {
	// ResolveShortcut loads the shell link at linkPath. If the link
	// cannot be loaded, the error has the code CodeLoad.
	ResolveShortcut(linkPath string) (Shortcut, error)

	// CreateShortcut saves s as a new shell link at linkPath.
	CreateShortcut(linkPath string, s Shortcut) error

	// ListSerialDevices returns the present serial port devices.
	ListSerialDevices() ([]SerialDevice, error)
}
