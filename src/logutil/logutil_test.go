package logutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingFileKeepsArchives(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	w := openRotating(path, 1, 2)

	for _, line := range []string{"first\n", "second\n", "third\n", "fourth\n"} {
		_, err := w.Write([]byte(line))
		require.NoError(t, err)
		require.NoError(t, w.Rotate())
		// archive names carry millisecond timestamps
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, b)

	// archive cleanup runs in the background
	require.Eventually(t, func() bool {
		archives, err := filepath.Glob(filepath.Join(dir, "test-*.log"))
		return err == nil && len(archives) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, logger.LevelInfo)
	ctx := logger.CtxWithLogger(context.Background(), l)

	logger.Debugf(ctx, "hidden %d", 1)
	logger.Infof(ctx, "shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
}

func TestSetupWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	ctx, closeFn := Setup(context.Background(), Options{FileLogging: true, Dir: dir, Level: logger.LevelDebug})
	logger.Debugf(ctx, "written to file")
	closeFn()

	b, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(b), "written to file")
}
