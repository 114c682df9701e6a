package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"screen-cropper/src/config"
	"screen-cropper/src/hotkey"
	"screen-cropper/src/resident"
	"screen-cropper/src/singleinstance"
	"screen-cropper/src/tray"
)

type residentOptions struct {
	noTray   bool
	noHotkey bool
}

func newResidentCmd(a *app) *cobra.Command {
	opts := &residentOptions{}
	cmd := &cobra.Command{
		Use:   "resident",
		Short: "Stay in the background and capture on hotkey, tray click or trigger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runResident(cmd.Context(), *opts)
		},
	}
	cmd.Flags().BoolVar(&opts.noTray, "no-tray", false, "Do not show the tray icon")
	cmd.Flags().BoolVar(&opts.noHotkey, "no-hotkey", false, "Do not listen for the global hotkey")
	return cmd
}

// childArgs are the flags a capture child inherits from the resident.
func (a *app) childArgs() []string {
	args := []string{resident.CaptureCommand}
	if a.root.configPath != "" {
		args = append(args, "--config", a.root.configPath)
	}
	if a.root.logLevel != "" {
		args = append(args, "--log-level", a.root.logLevel)
	}
	return args
}

func (a *app) runResident(ctx context.Context, opts residentOptions) error {
	ctx, cfg, done, err := a.setup(ctx, config.LoadOptions{})
	defer done()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ports := cfg.Ports()
	if port, ok := singleinstance.DetectResidentPort(ctx, ports); ok {
		return fmt.Errorf("another resident instance is already running on port %d", port)
	}
	srv := singleinstance.NewServer(ports)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to claim single-instance port: %w", err)
	}
	logger.Infof(ctx, "resident: listening on 127.0.0.1:%d", srv.Port())

	launcher, err := resident.NewProcessLauncher()
	if err != nil {
		_ = srv.Close()
		return err
	}
	launcher.Args = a.childArgs()
	if a.root.verbose {
		launcher.Stderr = os.Stderr
	}

	r := &resident.Resident{Launcher: launcher, Server: srv}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var t *tray.Tray
	if !opts.noTray {
		t = tray.New(tray.Config{
			Hotkey:    cfg.Hotkey,
			OnCapture: func() { r.TriggerAsync(ctx, "tray") },
			OnExit:    cancel,
		})
		r.OnBusy = t.SetBusy
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.Run(gctx)
	})
	if !opts.noHotkey {
		g.Go(func() error {
			logger.Infof(gctx, "resident: hotkey %s", cfg.Hotkey)
			if err := hotkey.Listen(gctx, cfg.Hotkey, func() { r.TriggerAsync(gctx, "hotkey") }); err != nil {
				logger.Errorf(gctx, "resident: hotkey disabled: %v", err)
			}
			return nil
		})
	}

	if t != nil {
		g.Go(func() error {
			<-gctx.Done()
			t.Quit()
			return nil
		})
		t.Run()
		cancel()
	} else {
		<-gctx.Done()
	}

	err = g.Wait()
	logger.Infof(ctx, "resident: stopped")
	return err
}
