package hotkey

import (
	"runtime"
	"strconv"
	"strings"
)

// keyNameToRawcodes maps a key name to the rawcodes gohook reports for it on
// this platform: virtual key codes on Windows, X11 keysyms elsewhere.
func keyNameToRawcodes(keyName string) []uint16 {
	if runtime.GOOS == "windows" {
		return lookup(vkCodes, keyName)
	}
	return lookup(x11Keysyms, keyName)
}

func lookup(table map[string][]uint16, keyName string) []uint16 {
	return table[strings.ToLower(strings.TrimSpace(keyName))]
}

// vkCodes lists Windows virtual key codes. Modifiers map to both the left
// and the right variant.
var vkCodes = buildTable(
	map[string][]uint16{
		"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
		"alt":   {164, 165}, // VK_LMENU, VK_RMENU
		"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
		"cmd":   {91, 92},   // VK_LWIN, VK_RWIN

		"space":     {32},
		"enter":     {13},
		"esc":       {27},
		"tab":       {9},
		"backspace": {8},
		"delete":    {46},
		"insert":    {45},
		"home":      {36},
		"end":       {35},
		"pageup":    {33},
		"pagedown":  {34},
		"left":      {37},
		"up":        {38},
		"right":     {39},
		"down":      {40},

		"printscreen": {44},
	},
	func(letter int) []uint16 { return []uint16{uint16('A' + letter)} },
	func(digit int) []uint16 { return []uint16{uint16('0' + digit)} },
	func(fn int) []uint16 { return []uint16{uint16(111 + fn)} }, // VK_F1 is 112
)

// x11Keysyms lists X11 keysyms. Letters match both cases since the shift
// state changes the reported symbol.
var x11Keysyms = buildTable(
	map[string][]uint16{
		"ctrl":  {0xffe3, 0xffe4},
		"alt":   {0xffe9, 0xffea},
		"shift": {0xffe1, 0xffe2},
		"cmd":   {0xffeb, 0xffec},

		"space":     {0x20},
		"enter":     {0xff0d},
		"esc":       {0xff1b},
		"tab":       {0xff09},
		"backspace": {0xff08},
		"delete":    {0xffff},
		"insert":    {0xff63},
		"home":      {0xff50},
		"end":       {0xff57},
		"pageup":    {0xff55},
		"pagedown":  {0xff56},
		"left":      {0xff51},
		"up":        {0xff52},
		"right":     {0xff53},
		"down":      {0xff54},

		"printscreen": {0xff61},
	},
	func(letter int) []uint16 { return []uint16{uint16('a' + letter), uint16('A' + letter)} },
	func(digit int) []uint16 { return []uint16{uint16('0' + digit)} },
	func(fn int) []uint16 { return []uint16{uint16(0xffbd + fn)} }, // XK_F1 is 0xffbe
)

var aliases = map[string]string{
	"return": "enter",
	"escape": "esc",
	"del":    "delete",
	"ins":    "insert",
	"pgup":   "pageup",
	"pgdn":   "pagedown",
	"prtsc":  "printscreen",
	"print":  "printscreen",
}

func buildTable(named map[string][]uint16, letter, digit, fn func(int) []uint16) map[string][]uint16 {
	t := make(map[string][]uint16, len(named)+len(aliases)+26+10+24)
	for k, v := range named {
		t[k] = v
	}
	for alias, name := range aliases {
		t[alias] = named[name]
	}
	for i := 0; i < 26; i++ {
		t[string(rune('a'+i))] = letter(i)
	}
	for i := 0; i < 10; i++ {
		t[strconv.Itoa(i)] = digit(i)
	}
	for i := 1; i <= 24; i++ {
		t["f"+strconv.Itoa(i)] = fn(i)
	}
	return t
}
