// Package resident runs captures on behalf of the hotkey, the tray and
// trigger clients, one at a time.
package resident

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/facebookincubator/go-belt/tool/logger"
	"golang.org/x/sync/errgroup"

	"screen-cropper/src/singleinstance"
)

var (
	ErrBusy      = singleinstance.ErrBusy
	ErrCancelled = errors.New("capture cancelled")
)

// Request describes one capture.
type Request struct {
	// OutputToStdout asks for the PNG bytes instead of a saved file.
	OutputToStdout bool
	// Source names the trigger for logging: hotkey, tray or client.
	Source string
}

// Launcher performs one capture. It returns the PNG bytes in stdout mode and
// the saved file path otherwise.
type Launcher interface {
	Launch(ctx context.Context, req Request) ([]byte, error)
}

type Resident struct {
	Launcher Launcher
	// Server, when set, is served by Run.
	Server singleinstance.Server
	// OnBusy is told when a capture starts and ends.
	OnBusy func(busy bool)

	busy atomic.Bool
}

// Trigger runs a capture unless one is already in progress, in which case it
// fails with ErrBusy right away.
func (r *Resident) Trigger(ctx context.Context, req Request) ([]byte, error) {
	if !r.busy.CompareAndSwap(false, true) {
		logger.Infof(ctx, "resident: %s request rejected, capture in progress", req.Source)
		return nil, ErrBusy
	}
	defer r.busy.Store(false)
	if r.OnBusy != nil {
		r.OnBusy(true)
		defer r.OnBusy(false)
	}

	logger.Debugf(ctx, "resident: capture requested by %s (stdout=%t)", req.Source, req.OutputToStdout)
	payload, err := r.Launcher.Launch(ctx, req)
	switch {
	case errors.Is(err, ErrCancelled):
		logger.Debugf(ctx, "resident: capture cancelled by the user")
	case err != nil:
		logger.Errorf(ctx, "resident: capture failed: %v", err)
	default:
		logger.Debugf(ctx, "resident: capture done, %d bytes", len(payload))
	}
	return payload, err
}

// TriggerAsync starts a capture in the background; the result only goes to
// the log.
func (r *Resident) TriggerAsync(ctx context.Context, source string) {
	go func() {
		_, _ = r.Trigger(ctx, Request{Source: source})
	}()
}

// Busy reports whether a capture is running.
func (r *Resident) Busy() bool {
	return r.busy.Load()
}

// Run serves trigger clients until ctx is done or the server fails.
func (r *Resident) Run(ctx context.Context) error {
	if r.Server == nil {
		<-ctx.Done()
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return r.Server.Close()
	})
	g.Go(func() error {
		for {
			conn, err := r.Server.Next(gctx)
			if err != nil {
				if gctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return nil
				}
				return fmt.Errorf("accept: %w", err)
			}
			g.Go(func() error {
				r.handle(gctx, conn)
				return nil
			})
		}
	})
	err := g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (r *Resident) handle(ctx context.Context, conn singleinstance.Conn) {
	defer conn.Close()
	payload, err := r.Trigger(ctx, Request{
		OutputToStdout: conn.Request().OutputToStdout,
		Source:         "client",
	})
	var rerr error
	switch {
	case errors.Is(err, ErrBusy):
		rerr = conn.RespondBusy()
	case errors.Is(err, ErrCancelled):
		// an empty success tells the client nothing was captured
		rerr = conn.RespondSuccess(nil)
	case err != nil:
		rerr = conn.RespondError(err.Error())
	default:
		rerr = conn.RespondSuccess(payload)
	}
	if rerr != nil {
		logger.Warnf(ctx, "resident: reply to client: %v", rerr)
	}
}
