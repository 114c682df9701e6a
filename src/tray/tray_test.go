package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconPNG(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(iconPNG()))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(iconSize, iconSize), img.Bounds().Size())
	_, _, _, a := img.At(3, 3).RGBA()
	assert.NotZero(t, a)
	_, _, _, a = img.At(iconSize/2, iconSize/2).RGBA()
	assert.Zero(t, a)
}

func TestIcoFromPNG(t *testing.T) {
	data := iconPNG()
	ico := icoFromPNG(data, iconSize)

	le := binary.LittleEndian
	assert.Equal(t, uint16(1), le.Uint16(ico[2:4]))
	assert.Equal(t, uint16(1), le.Uint16(ico[4:6]))
	assert.Equal(t, byte(iconSize), ico[6])
	assert.Equal(t, uint32(len(data)), le.Uint32(ico[14:18]))
	assert.Equal(t, uint32(22), le.Uint32(ico[18:22]))
	assert.Equal(t, data, ico[22:])
}

func TestTooltip(t *testing.T) {
	tr := New(Config{Hotkey: "Ctrl+Alt+S"})
	assert.Equal(t, "Screen Cropper - Press Ctrl+Alt+S to capture", tr.tooltip())
	tr.SetBusy(true)
	assert.Equal(t, "Screen Cropper - capturing...", tr.tooltip())
	assert.Equal(t, "Plain", New(Config{Title: "Plain"}).tooltip())
}
