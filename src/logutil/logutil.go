// Package logutil sets up the process logger.
package logutil

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	xlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/sirupsen/logrus"
)

const (
	LogFileName = "screen_cropper.log"
	maxSizeMB   = 10
	maxArchives = 3
)

type Options struct {
	// FileLogging writes to LogFileName in Dir with size-based rotation.
	FileLogging bool
	Dir         string
	Level       logger.Level
	// Verbose mirrors the log to stderr. Without it and without file
	// logging the log is discarded, which keeps stdout and stderr clean for
	// piping.
	Verbose bool
}

// Setup builds the logger, installs it as logger.Default and as the output
// of the standard log package, and returns ctx carrying it. The returned
// func closes the log file.
func Setup(ctx context.Context, opts Options) (context.Context, func()) {
	var out io.Writer = io.Discard
	if opts.Verbose {
		out = os.Stderr
	}
	closeFn := func() {}
	if opts.FileLogging {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		w := openRotating(filepath.Join(dir, LogFileName), maxSizeMB, maxArchives)
		if opts.Verbose {
			out = io.MultiWriter(os.Stderr, w)
		} else {
			out = w
		}
		closeFn = func() { _ = w.Close() }
	}

	l := New(out, opts.Level)
	logger.Default = func() logger.Logger { return l }
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	return logger.CtxWithLogger(ctx, l), closeFn
}

// New returns a logrus-backed logger writing text lines to out.
func New(out io.Writer, level logger.Level) logger.Logger {
	ll := xlogrus.DefaultLogrusLogger()
	ll.SetOutput(out)
	ll.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	ll.SetLevel(xlogrus.LevelToLogrus(level))
	return xlogrus.New(ll).WithLevel(level)
}
