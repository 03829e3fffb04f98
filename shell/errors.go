package shell

import (
	"errors"
	"fmt"
	"syscall"
)

// Code is the stable identifier of a diagnostic, matched on by the
// DataExplorer application.
type Code string

const (
	CodeCreateInstance Code = "GDE_MSGE0040"
	CodeQueryInterface Code = "GDE_MSGE0041"
	CodeLoad           Code = "GDE_MSGE0042"
	CodeIsDirectory    Code = "GDE_MSGE0043"
	CodeGetPath        Code = "GDE_MSGE0044"
	CodeCOMInit        Code = "GDE_MSGE0045"
	CodeEncoding       Code = "GDE_MSGE0046"
	CodeDeviceEnum     Code = "GDE_MSGW0035"
)

var messages = map[Code]string{
	CodeCreateInstance: "CoCreateInstance Error",
	CodeQueryInterface: "QueryInterface Error",
	CodeLoad:           "IPersistFile Load Error",
	CodeIsDirectory:    "is a directory!",
	CodeGetPath:        "failed!",
	CodeCOMInit:        "Could not open the COM library",
	CodeEncoding:       "WideCharToMultiByte failed!",
	CodeDeviceEnum:     "Build a list of all devices that are present in the system",
}

// Error is a failed platform operation.
type Error struct {
	Code Code
	Path string
	Err  error
}

func (e *Error) Error() string {
	return string(e.Code) + "; " + e.message()
}

func (e *Error) message() string {
	msg := messages[e.Code]
	switch e.Code {
	case CodeIsDirectory:
		return fmt.Sprintf("%q %s", e.Path, msg)
	case CodeGetPath:
		return fmt.Sprintf("GetPath(%s) %s", e.Path, msg)
	case CodeDeviceEnum:
		var errno syscall.Errno
		if errors.As(e.Err, &errno) {
			return fmt.Sprintf("(err=%x)", uintptr(errno))
		}
		return fmt.Sprintf("(err=%v)", e.Err)
	}
	if e.Err != nil {
		return msg + " - " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Diagnostic returns the string form of err handed to DataExplorer,
// "<code>; <message>" for an [Error].
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
