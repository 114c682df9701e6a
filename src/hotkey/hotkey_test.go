package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualKeyCodes(t *testing.T) {
	tests := []struct {
		keyName  string
		expected []uint16
	}{
		{"ctrl", []uint16{162, 163}},
		{"alt", []uint16{164, 165}},
		{"shift", []uint16{160, 161}},
		{"cmd", []uint16{91, 92}},
		{"q", []uint16{81}},
		{"S", []uint16{83}},
		{"0", []uint16{48}},
		{"9", []uint16{57}},
		{"f1", []uint16{112}},
		{"f12", []uint16{123}},
		{"f24", []uint16{135}},
		{"space", []uint16{32}},
		{"return", []uint16{13}},
		{"escape", []uint16{27}},
		{"prtsc", []uint16{44}},
		{"unknown", nil},
	}
	for _, tt := range tests {
		t.Run(tt.keyName, func(t *testing.T) {
			assert.Equal(t, tt.expected, lookup(vkCodes, tt.keyName))
		})
	}
}

func TestX11Keysyms(t *testing.T) {
	assert.Equal(t, []uint16{0xffe3, 0xffe4}, lookup(x11Keysyms, "ctrl"))
	assert.Equal(t, []uint16{'s', 'S'}, lookup(x11Keysyms, "s"))
	assert.Equal(t, []uint16{0xffbe}, lookup(x11Keysyms, "f1"))
	assert.Equal(t, []uint16{0xffd5}, lookup(x11Keysyms, "f24"))
	assert.Equal(t, []uint16{0xff1b}, lookup(x11Keysyms, "esc"))
	assert.Nil(t, lookup(x11Keysyms, "unknown"))
}

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Ctrl+Alt+S", []string{"ctrl", "alt", "s"}},
		{"Ctrl+Shift+O", []string{"ctrl", "shift", "o"}},
		{"control + alt + e", []string{"ctrl", "alt", "e"}},
		{"Alt+F4", []string{"alt", "f4"}},
		{"Ctrl+Win+E", []string{"ctrl", "cmd", "e"}},
		{"Super+Alt+T", []string{"cmd", "alt", "t"}},
		{"PrtSc", []string{"prtsc"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseHotkey(tt.input))
		})
	}
}

func TestComboFiresOncePerPress(t *testing.T) {
	c, err := newCombo("Ctrl+Shift+S", func(name string) []uint16 { return lookup(vkCodes, name) })
	require.NoError(t, err)

	const lctrl, rshift, s, x = 162, 161, 83, 88
	assert.False(t, c.press(lctrl))
	assert.False(t, c.press(x))
	assert.False(t, c.press(rshift))
	assert.True(t, c.press(s))

	// still held: the combination was consumed
	assert.False(t, c.press(s))

	c.release(s)
	assert.False(t, c.press(s))
	assert.False(t, c.press(lctrl))
	assert.True(t, c.press(rshift))
}

func TestComboReleaseBreaksCombination(t *testing.T) {
	c, err := newCombo("Alt+F9", func(name string) []uint16 { return lookup(vkCodes, name) })
	require.NoError(t, err)

	assert.False(t, c.press(164))
	c.release(164)
	assert.False(t, c.press(120))
	assert.True(t, c.press(165))
}

func TestInvalidHotkeys(t *testing.T) {
	for _, in := range []string{"", "Ctrl+Banana", "+"} {
		_, err := newCombo(in, func(name string) []uint16 { return lookup(vkCodes, name) })
		assert.ErrorIs(t, err, ErrInvalidHotkey, in)
	}
}
