package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"

	"screen-cropper/src/clipboard"
	"screen-cropper/src/config"
	"screen-cropper/src/output"
	"screen-cropper/src/resident"
	"screen-cropper/src/session"
)

type captureOptions struct {
	stdout     bool
	printPath  bool
	jsonOutput bool
	mode       string
	outputDir  string
	windows    bool
	clipboard  bool
}

// captureResult is the --json output.
type captureResult struct {
	Path   string `json:"path,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
}

func newCaptureCmd(a *app) *cobra.Command {
	opts := &captureOptions{}
	cmd := &cobra.Command{
		Use:   resident.CaptureCommand,
		Short: "Capture once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCapture(cmd.Context(), cmd, *opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.stdout, "stdout", false, "Write the PNG to stdout instead of a file")
	f.BoolVar(&opts.printPath, "print-path", false, "Print only the saved file path")
	f.BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	f.StringVar(&opts.mode, "mode", "", "Selection mode: outside (dim around the selection) or selection (tint it)")
	f.StringVar(&opts.outputDir, "output-dir", "", "Directory for saved crops")
	f.BoolVar(&opts.windows, "windows", false, "Also collect window metadata")
	f.BoolVar(&opts.clipboard, "clipboard", false, "Copy the crop to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("stdout", "print-path", "json")
	return cmd
}

func (o captureOptions) loadOptions(cmd *cobra.Command) config.LoadOptions {
	lo := config.LoadOptions{
		SelectionModeOverride: o.mode,
		OutputDirOverride:     o.outputDir,
	}
	if cmd.Flags().Changed("windows") {
		v := o.windows
		lo.IncludeWindowsOverride = &v
	}
	if cmd.Flags().Changed("clipboard") {
		v := o.clipboard
		lo.CopyToClipboardOverride = &v
	}
	return lo
}

func (a *app) runCapture(ctx context.Context, cmd *cobra.Command, opts captureOptions) error {
	ctx, cfg, done, err := a.setup(ctx, opts.loadOptions(cmd))
	defer done()
	if err != nil {
		return err
	}
	enableDPIAwareness(ctx)

	out := cmd.OutOrStdout()
	var targets session.Targets
	if opts.stdout {
		targets = append(targets, session.StdoutTarget{Writer: out})
	} else {
		targets = append(targets, session.FileTarget{Dir: cfg.OutputDir})
	}
	if cfg.CopyToClipboard {
		if err := clipboard.Init(); err != nil {
			logger.Warnf(ctx, "clipboard disabled: %v", err)
		} else {
			targets = append(targets, session.ClipboardTarget{})
		}
	}

	res, err := session.Execute(ctx, session.Options{
		Provider:       a.newProvider(),
		Selector:       a.newSelector(),
		Config:         cfg.Cropper(),
		IncludeWindows: cfg.IncludeWindows,
		Target:         targets,
	})
	if err != nil {
		if errors.Is(err, session.ErrSelectionCancelled) {
			logger.Infof(ctx, "capture cancelled")
		}
		return err
	}
	return reportCrop(out, opts, &res.Crop)
}

func reportCrop(out io.Writer, opts captureOptions, crop *session.Crop) error {
	switch {
	case opts.stdout:
		return nil
	case opts.printPath:
		_, err := fmt.Fprintln(out, crop.Path)
		return err
	case opts.jsonOutput:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(captureResult{
			Path:   crop.Path,
			X:      crop.Region.X,
			Y:      crop.Region.Y,
			Width:  crop.Region.Width,
			Height: crop.Region.Height,
			Bytes:  len(crop.PNG),
		})
	default:
		_, err := fmt.Fprintf(out, "Saved %dx%d crop to %s\n", crop.Region.Width, crop.Region.Height, crop.Path)
		return err
	}
}

// writePNG forwards a delegated stdout capture.
func writePNG(out io.Writer, data []byte) error {
	if !output.IsPNG(data) {
		return fmt.Errorf("resident returned %d bytes that are not a PNG", len(data))
	}
	_, err := out.Write(data)
	return err
}
