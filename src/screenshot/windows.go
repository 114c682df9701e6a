package screenshot

import (
	"context"
	"errors"
)

// ErrWindowsUnsupported is returned by window listers on platforms without
// an implementation. Providers treat it as "no windows", not as a failure.
var ErrWindowsUnsupported = errors.New("window enumeration is not supported on this platform")

// WindowLister enumerates top-level application windows.
type WindowLister interface {
	ListWindows(ctx context.Context) ([]WindowInfo, error)
}
