package clipboard

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.design/x/clipboard"
)

func TestWriteImage(t *testing.T) {
	if err := Init(); err != nil {
		t.Skipf("no clipboard in this environment: %v", err)
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	require.NoError(t, WriteImage(buf.Bytes()))

	got := clipboard.Read(clipboard.FmtImage)
	if got == nil {
		t.Skip("clipboard did not keep the image")
	}
	img, err := png.Decode(bytes.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4, 3), img.Bounds().Size())
}

func TestInitIsSticky(t *testing.T) {
	first := Init()
	assert.Equal(t, first, Init())
	if first != nil {
		assert.ErrorIs(t, Write("text"), ErrUnavailable)
	}
}
