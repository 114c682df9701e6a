// Package hotkey listens for a global key combination.
package hotkey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	gohook "github.com/robotn/gohook"
)

var ErrInvalidHotkey = errors.New("invalid hotkey")

// Listen registers hotkeyConfig (e.g. "Ctrl+Alt+S") and calls callback every
// time the full combination goes down, until ctx is done. The hook runs in
// its own goroutine; callback must not block.
func Listen(ctx context.Context, hotkeyConfig string, callback func()) error {
	c, err := newCombo(hotkeyConfig, keyNameToRawcodes)
	if err != nil {
		return err
	}
	logger.Infof(ctx, "hotkey listener configured for: %s", hotkeyConfig)

	evChan := gohook.Start()
	if evChan == nil {
		return errors.New("gohook.Start() returned nil channel")
	}
	var stopOnce sync.Once
	stop := func() { stopOnce.Do(gohook.End) }

	go func() {
		<-ctx.Done()
		stop()
	}()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf(ctx, "PANIC in hotkey goroutine: %v", r)
			}
		}()
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				logger.Tracef(ctx, "key down: rawcode=%d keychar=%v", ev.Rawcode, ev.Keychar)
				if c.press(ev.Rawcode) {
					logger.Debugf(ctx, "hotkey %s activated", hotkeyConfig)
					if callback != nil {
						callback()
					}
				}
			case gohook.KeyUp:
				c.release(ev.Rawcode)
			}
		}
		logger.Debugf(ctx, "hotkey event channel closed")
	}()
	return nil
}

// combo tracks which keys of one combination are held.
type combo struct {
	mu   sync.Mutex
	keys []comboKey
}

type comboKey struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

func newCombo(hotkeyConfig string, rawcodes func(string) []uint16) (*combo, error) {
	names := parseHotkey(hotkeyConfig)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrInvalidHotkey, hotkeyConfig)
	}
	c := &combo{}
	for _, name := range names {
		codes := rawcodes(name)
		if len(codes) == 0 {
			return nil, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidHotkey, name, hotkeyConfig)
		}
		c.keys = append(c.keys, comboKey{name: name, rawcodes: codes})
	}
	return c, nil
}

// press marks rawcode as held and reports whether the whole combination is
// now down. A completed combination resets, so holding it fires once.
func (c *combo) press(rawcode uint16) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(rawcode, true)
	for _, k := range c.keys {
		if !k.pressed {
			return false
		}
	}
	for i := range c.keys {
		c.keys[i].pressed = false
	}
	return true
}

func (c *combo) release(rawcode uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(rawcode, false)
}

func (c *combo) set(rawcode uint16, pressed bool) {
	for i := range c.keys {
		for _, rc := range c.keys[i].rawcodes {
			if rc == rawcode {
				c.keys[i].pressed = pressed
				break
			}
		}
	}
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+q" to normalized key
// names.
func parseHotkey(hotkeyConfig string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(hotkeyConfig), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			part = "ctrl"
		case "win", "super", "meta":
			part = "cmd"
		}
		keys = append(keys, part)
	}
	return keys
}
