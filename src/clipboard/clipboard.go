// Package clipboard puts crop results on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var ErrUnavailable = errors.New("clipboard unavailable")

var (
	writeMu  sync.Mutex
	initOnce sync.Once
	initErr  error
)

// Init prepares the clipboard. It is safe to call more than once; the first
// result is kept.
func Init() error {
	initOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			initErr = fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	})
	return initErr
}

// WriteImage puts PNG-encoded image data on the clipboard.
func WriteImage(png []byte) error {
	return write(clipboard.FmtImage, png)
}

// Write puts text on the clipboard.
func Write(text string) error {
	return write(clipboard.FmtText, []byte(text))
}

// write is mutex-guarded to prevent corruption under parallel writes.
func write(f clipboard.Format, data []byte) error {
	if err := Init(); err != nil {
		return err
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(f, data)
	return nil
}
