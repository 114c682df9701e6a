package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-cropper/src/config"
	"screen-cropper/src/cropper"
	"screen-cropper/src/geometry"
	"screen-cropper/src/output"
	"screen-cropper/src/overlay"
	"screen-cropper/src/screenshot"
	"screen-cropper/src/session"
	"screen-cropper/src/singleinstance"
)

var envKeys = []string{
	config.EnvPathEnvVar, config.ConfigPathEnvVar,
	"AUTO_BOUNDING", "SELECTION_MODE", "MASK_COLOR", "HANDLE_TOLERANCE",
	"INCLUDE_WINDOWS", "OUTPUT_DIR", "COPY_TO_CLIPBOARD", "ENABLE_FILE_LOGGING",
	"LOG_LEVEL", "HOTKEY", "SINGLEINSTANCE_PORT_START", "SINGLEINSTANCE_PORT_END",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

type fakeProvider struct{}

func (fakeProvider) CaptureAll(context.Context, bool) (*screenshot.Snapshot, error) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 80))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return screenshot.NewSnapshot([]screenshot.DisplayInfo{
		{Name: "left", X: -100, Width: 100, Height: 80, ScaleFactor: 1, Image: img},
		{Name: "right", Width: 100, Height: 80, ScaleFactor: 1, Image: image.NewRGBA(image.Rect(0, 0, 100, 80))},
	}, nil)
}

type scriptedSelector []cropper.FrameInput

func (s scriptedSelector) Select(_ context.Context, sess *cropper.Session) (bool, error) {
	for _, in := range s {
		out, err := sess.Update(in)
		if err != nil {
			return false, err
		}
		if out.Outcome != cropper.OutcomeContinue {
			return out.Outcome == cropper.OutcomeCancelled, nil
		}
	}
	return true, nil
}

func at(x, y float64) *geometry.Point {
	p := geometry.Pt(x, y)
	return &p
}

var drawAndConfirm = scriptedSelector{
	{PointerPressedAt: at(90, 10)},
	{PointerDraggedAt: at(110, 30)},
	{PointerReleased: true},
	{ConfirmRequested: true},
}

var escape = scriptedSelector{{CancelRequested: true}}

func testApp(sel overlay.Selector) *app {
	return &app{
		newProvider: func() screenshot.Provider { return fakeProvider{} },
		newSelector: func() overlay.Selector { return sel },
	}
}

func execute(t *testing.T, a *app, args ...string) ([]byte, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.Bytes(), err
}

func savedFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "crop-*.png"))
	require.NoError(t, err)
	return matches
}

func TestExitCode(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 0, exitCode(&stderr, nil))
	assert.Equal(t, 3, exitCode(&stderr, session.ErrSelectionCancelled))
	assert.Empty(t, stderr.String())

	assert.Equal(t, 1, exitCode(&stderr, errors.New("boom")))
	assert.Equal(t, "Error: boom\n", stderr.String())
}

func TestCaptureSavesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out, err := execute(t, testApp(drawAndConfirm), "capture", "--output-dir", dir, "--print-path")
	require.NoError(t, err)

	files := savedFiles(t, dir)
	require.Len(t, files, 1)
	assert.Equal(t, files[0]+"\n", string(out))
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, output.IsPNG(data))
}

func TestRootCommandCapturesToStdout(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out, err := execute(t, testApp(drawAndConfirm), "--stdout", "--output-dir", dir)
	require.NoError(t, err)
	assert.True(t, output.IsPNG(out))
	assert.Empty(t, savedFiles(t, dir))
}

func TestCaptureJSON(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out, err := execute(t, testApp(drawAndConfirm), "capture", "--json", "--output-dir", dir)
	require.NoError(t, err)

	var res captureResult
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, captureResult{X: -10, Y: 10, Width: 20, Height: 20, Path: res.Path, Bytes: res.Bytes}, res)
	assert.Equal(t, dir, filepath.Dir(res.Path))
	assert.Positive(t, res.Bytes)
}

func TestCaptureCancelled(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := execute(t, testApp(escape), "capture", "--output-dir", dir)
	assert.ErrorIs(t, err, session.ErrSelectionCancelled)
	assert.Empty(t, savedFiles(t, dir))
}

func TestCaptureOutputFlagsExclusive(t *testing.T) {
	clearEnv(t)
	_, err := execute(t, testApp(drawAndConfirm), "capture", "--stdout", "--json")
	assert.Error(t, err)
}

func TestCaptureFlagOverrides(t *testing.T) {
	opts := captureOptions{mode: "selection", windows: true}
	cmd := newCaptureCmd(testApp(drawAndConfirm))
	require.NoError(t, cmd.ParseFlags([]string{"--windows", "--mode", "selection"}))

	lo := opts.loadOptions(cmd)
	assert.Equal(t, "selection", lo.SelectionModeOverride)
	require.NotNil(t, lo.IncludeWindowsOverride)
	assert.True(t, *lo.IncludeWindowsOverride)
	assert.Nil(t, lo.CopyToClipboardOverride)
}

func TestChildArgs(t *testing.T) {
	a := testApp(nil)
	assert.Equal(t, []string{"capture"}, a.childArgs())

	a.root = rootOptions{configPath: "/etc/crop.yaml", logLevel: "debug"}
	assert.Equal(t, []string{"capture", "--config", "/etc/crop.yaml", "--log-level", "debug"}, a.childArgs())
}

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("loopback unavailable in this environment: %v", err)
	}
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return port
}

func usePort(t *testing.T, port int) {
	t.Helper()
	t.Setenv("SINGLEINSTANCE_PORT_START", strconv.Itoa(port))
	t.Setenv("SINGLEINSTANCE_PORT_END", strconv.Itoa(port))
}

func TestTriggerWithoutResident(t *testing.T) {
	clearEnv(t)
	usePort(t, freePort(t))

	_, err := execute(t, testApp(drawAndConfirm), "trigger")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resident instance")
}

func TestTriggerFallsBackToLocalCapture(t *testing.T) {
	clearEnv(t)
	usePort(t, freePort(t))
	t.Setenv("OUTPUT_DIR", t.TempDir())

	out, err := execute(t, testApp(drawAndConfirm), "trigger", "--fallback", "--stdout")
	require.NoError(t, err)
	assert.True(t, output.IsPNG(out))
}

// serveOnce answers one trigger with payload.
func serveOnce(t *testing.T, payload []byte) {
	t.Helper()
	port := freePort(t)
	usePort(t, port)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv := singleinstance.NewServer(singleinstance.PortRange{Start: port, End: port})
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	go func() {
		conn, err := srv.Next(ctx)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.RespondSuccess(payload)
	}()
}

func TestTriggerDelegatesToResident(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	data, err := output.EncodePNG(img)
	require.NoError(t, err)

	t.Run("stdout", func(t *testing.T) {
		clearEnv(t)
		serveOnce(t, data)
		out, err := execute(t, testApp(nil), "trigger", "--stdout")
		require.NoError(t, err)
		assert.Equal(t, data, out)
	})

	t.Run("path", func(t *testing.T) {
		clearEnv(t)
		serveOnce(t, []byte("/tmp/crop-20260101-000000.png"))
		out, err := execute(t, testApp(nil), "trigger")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/crop-20260101-000000.png\n", string(out))
	})

	t.Run("not a png", func(t *testing.T) {
		clearEnv(t)
		serveOnce(t, []byte("garbage"))
		_, err := execute(t, testApp(nil), "trigger", "--stdout")
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		clearEnv(t)
		serveOnce(t, nil)
		_, err := execute(t, testApp(nil), "trigger")
		assert.ErrorIs(t, err, session.ErrSelectionCancelled)
	})
}
