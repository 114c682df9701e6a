// Command screencrop captures every display, lets the user select a region
// and saves, copies or prints the cropped PNG.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"

	"screen-cropper/src/config"
	"screen-cropper/src/logutil"
	"screen-cropper/src/overlay"
	"screen-cropper/src/resident"
	"screen-cropper/src/screenshot"
	"screen-cropper/src/session"
)

type rootOptions struct {
	configPath string
	logLevel   string
	verbose    bool
}

// app holds the collaborators a capture needs, so tests can swap them.
type app struct {
	root        rootOptions
	newProvider func() screenshot.Provider
	newSelector func() overlay.Selector
}

func newApp() *app {
	return &app{
		newProvider: func() screenshot.Provider { return screenshot.NewProvider() },
		newSelector: func() overlay.Selector { return overlay.NewSelector() },
	}
}

func main() {
	os.Exit(exitCode(os.Stderr, runWithArgs(context.Background(), newApp(), os.Args)))
}

func runWithArgs(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		args = []string{"screencrop"}
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(args[1:])
	return cmd.ExecuteContext(ctx)
}

// exitCode reports err on w and maps it to the process exit status.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, session.ErrSelectionCancelled):
		return resident.ExitCodeCancelled
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}
}

func newRootCmd(a *app) *cobra.Command {
	capture := newCaptureCmd(a)
	cmd := &cobra.Command{
		Use:           "screencrop",
		Short:         "Select a region of the screen and save it as PNG",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          capture.RunE,
	}
	cmd.Flags().AddFlagSet(capture.Flags())

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.root.configPath, "config", "", "Path to the YAML config file")
	pf.StringVar(&a.root.logLevel, "log-level", "", "Log level: trace, debug, info, warning, error")
	pf.BoolVarP(&a.root.verbose, "verbose", "v", false, "Log to stderr")

	cmd.AddCommand(capture, newResidentCmd(a), newTriggerCmd(a))
	return cmd
}

// setup loads the configuration and the logger. The returned func flushes
// and closes the log.
func (a *app) setup(ctx context.Context, opts config.LoadOptions) (context.Context, *config.Config, func(), error) {
	opts.ConfigPath = a.root.configPath
	opts.LogLevelOverride = a.root.logLevel
	cfg, err := config.LoadWithOptions(opts)
	if err != nil {
		return ctx, nil, func() {}, fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, closeLog := logutil.Setup(ctx, logutil.Options{
		FileLogging: cfg.EnableFileLogging,
		Dir:         logDir(),
		Level:       cfg.LogLevel,
		Verbose:     a.root.verbose,
	})
	for _, w := range cfg.Warnings {
		logger.Warnf(ctx, "config: %s", w)
	}
	if cfg.ConfigFile != "" {
		logger.Debugf(ctx, "config: read %s", cfg.ConfigFile)
	}
	if cfg.EnvFile != "" {
		logger.Debugf(ctx, "config: read %s", cfg.EnvFile)
	}
	return ctx, cfg, func() {
		belt.Flush(ctx)
		closeLog()
	}, nil
}

// logDir is the executable's directory, where the log file lives.
func logDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
