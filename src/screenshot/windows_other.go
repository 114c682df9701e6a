//go:build !linux

package screenshot

import "context"

type unsupportedLister struct{}

// NewWindowLister returns a lister that always reports ErrWindowsUnsupported.
func NewWindowLister() WindowLister { return unsupportedLister{} }

func (unsupportedLister) ListWindows(ctx context.Context) ([]WindowInfo, error) {
	return nil, ErrWindowsUnsupported
}
