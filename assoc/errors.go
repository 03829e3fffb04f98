package assoc

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dataexplorer/winhelper/peutil"
)

var (
	// ErrElevationRequired is returned when the registry denied access,
	// and the operation needs to be run with administrator privileges.
	ErrElevationRequired = errors.New("elevation required")

	ErrInvalidPath   = errors.New("invalid application path")
	ErrNotExecutable = peutil.ErrNotExecutable
	ErrListFull      = errors.New("open with list is full")
)

func elevate(err error) error {
	if err != nil && errors.Is(err, fs.ErrPermission) && !errors.Is(err, ErrElevationRequired) {
		return fmt.Errorf("%w: %w", ErrElevationRequired, err)
	}
	return err
}
