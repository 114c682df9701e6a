//go:build windows

package main

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
	"golang.org/x/sys/windows"
)

const processPerMonitorDPIAware = 2

var (
	shcore                 = windows.NewLazySystemDLL("Shcore.dll")
	user32                 = windows.NewLazySystemDLL("user32.dll")
	setProcessDpiAwareness = shcore.NewProc("SetProcessDpiAwareness")
	setProcessDPIAware     = user32.NewProc("SetProcessDPIAware")
)

// enableDPIAwareness makes display bounds report physical pixels so that
// captures line up with the overlay.
func enableDPIAwareness(ctx context.Context) {
	if err := setProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			logger.Debugf(ctx, "dpi: per-monitor awareness enabled")
		} else {
			logger.Debugf(ctx, "dpi: SetProcessDpiAwareness failed with 0x%x", ret)
		}
		return
	}

	if err := setProcessDPIAware.Find(); err != nil {
		logger.Warnf(ctx, "dpi: no DPI awareness API available")
		return
	}
	if ret, _, _ := setProcessDPIAware.Call(); ret != 0 {
		logger.Debugf(ctx, "dpi: system awareness enabled (fallback)")
	} else {
		logger.Warnf(ctx, "dpi: SetProcessDPIAware failed")
	}
}
