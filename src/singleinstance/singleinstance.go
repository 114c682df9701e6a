// Package singleinstance lets one resident process own a loopback TCP port
// and accept capture requests from short-lived trigger invocations.
package singleinstance

import (
	"context"
	"errors"
)

var (
	// ErrBusy is returned to a trigger while the resident is already
	// running a capture.
	ErrBusy = errors.New("resident is busy with another capture")
	// ErrRemote wraps the message of an ERROR reply.
	ErrRemote = errors.New("resident reported an error")
)

// Server owns the TCP endpoint and answers capture requests.
type Server interface {
	// Start listens on the first port of the range; it fails when the port
	// is taken.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted request, or the ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn is one client connection waiting for its reply.
type Conn interface {
	Request() Request
	// RespondSuccess sends the payload: PNG bytes in stdout mode, the
	// saved path otherwise.
	RespondSuccess(payload []byte) error
	RespondBusy() error
	RespondError(msg string) error
	Close() error
}

// Request is a single capture request.
type Request struct {
	OutputToStdout bool
}

// Client delegates a capture to a resident.
type Client interface {
	// TryCapture scans the port range, performs the handshake and waits for
	// the result. delegated is false, with a nil error, when no resident
	// answers.
	TryCapture(ctx context.Context, outputToStdout bool) (delegated bool, payload []byte, err error)
}

func NewServer(ports PortRange) Server { return newTCPServer(ports) }

func NewClient(ports PortRange) Client { return newTCPClient(ports) }
