// Package overlay shows a frozen snapshot full screen and lets the user pick
// a crop rectangle on it.
package overlay

import (
	"context"
	"errors"

	"screen-cropper/src/cropper"
)

// ErrSelectorUsed is returned by a second Select on a one-shot selector.
var ErrSelectorUsed = errors.New("selector already used")

// Selector runs one interactive selection over a session. The call blocks
// until the user commits or cancels, or ctx is done, and must be made from
// the main goroutine. cancelled is true when no selection was committed; the
// committed rectangle is read back from the session.
type Selector interface {
	Select(ctx context.Context, s *cropper.Session) (cancelled bool, err error)
}
