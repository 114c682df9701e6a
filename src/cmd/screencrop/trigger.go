package main

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"

	"screen-cropper/src/config"
	"screen-cropper/src/session"
	"screen-cropper/src/singleinstance"
)

type triggerOptions struct {
	stdout   bool
	fallback bool
}

func newTriggerCmd(a *app) *cobra.Command {
	opts := &triggerOptions{}
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Ask the running resident to capture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTrigger(cmd.Context(), cmd, *opts)
		},
	}
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Write the PNG to stdout instead of printing the saved path")
	cmd.Flags().BoolVar(&opts.fallback, "fallback", false, "Capture in this process when no resident is running")
	return cmd
}

func (a *app) runTrigger(ctx context.Context, cmd *cobra.Command, opts triggerOptions) error {
	logCtx, cfg, done, err := a.setup(ctx, config.LoadOptions{})
	if err != nil {
		done()
		return err
	}

	ports := cfg.Ports()
	delegated, payload, err := singleinstance.NewClient(ports).TryCapture(logCtx, opts.stdout)
	if err == nil && !delegated && opts.fallback {
		logger.Infof(logCtx, "trigger: no resident on ports %s, capturing here", ports)
		done()
		return a.runCapture(ctx, cmd, captureOptions{stdout: opts.stdout, printPath: !opts.stdout})
	}
	defer done()

	switch {
	case err != nil:
		return err
	case !delegated:
		return fmt.Errorf("no resident instance on ports %s", ports)
	case len(payload) == 0:
		return session.ErrSelectionCancelled
	}

	logger.Debugf(logCtx, "trigger: resident returned %d bytes", len(payload))
	out := cmd.OutOrStdout()
	if opts.stdout {
		return writePNG(out, payload)
	}
	_, err = fmt.Fprintln(out, string(payload))
	return err
}
