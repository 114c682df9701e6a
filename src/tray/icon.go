package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

const iconSize = 32

var (
	frameColor  = color.RGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	cornerColor = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// platformIcon is PNG data, wrapped in an ICO container on Windows.
func platformIcon() []byte {
	data := iconPNG()
	if runtime.GOOS == "windows" {
		return icoFromPNG(data, iconSize)
	}
	return data
}

// iconPNG draws a dashed selection frame with solid crop corners.
func iconPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	const lo, hi = 5, iconSize - 6
	for i := lo; i <= hi; i++ {
		if (i/3)%2 == 0 {
			img.SetRGBA(i, lo, frameColor)
			img.SetRGBA(i, hi, frameColor)
			img.SetRGBA(lo, i, frameColor)
			img.SetRGBA(hi, i, frameColor)
		}
	}
	for i := 0; i < 7; i++ {
		for _, w := range []int{0, 1} {
			img.SetRGBA(lo-2+i, lo-2+w, cornerColor)
			img.SetRGBA(lo-2+w, lo-2+i, cornerColor)
			img.SetRGBA(hi+2-i, hi+2-w, cornerColor)
			img.SetRGBA(hi+2-w, hi+2-i, cornerColor)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// icoFromPNG wraps one PNG image in a single-entry ICO file.
func icoFromPNG(data []byte, size int) []byte {
	const headerLen, entryLen = 6, 16
	var buf bytes.Buffer
	le := binary.LittleEndian
	dim := uint8(size)
	if size >= 256 {
		dim = 0
	}
	// header: reserved, type icon, image count
	_ = binary.Write(&buf, le, [3]uint16{0, 1, 1})
	// entry: width, height, palette, reserved, planes, bpp, size, offset
	buf.Write([]byte{dim, dim, 0, 0})
	_ = binary.Write(&buf, le, [2]uint16{1, 32})
	_ = binary.Write(&buf, le, [2]uint32{uint32(len(data)), headerLen + entryLen})
	buf.Write(data)
	return buf.Bytes()
}
