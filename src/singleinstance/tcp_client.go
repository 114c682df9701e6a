package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

type tcpClient struct {
	ports PortRange
}

func newTCPClient(ports PortRange) *tcpClient { return &tcpClient{ports: ports.Normalize()} }

func (c *tcpClient) TryCapture(ctx context.Context, outputToStdout bool) (bool, []byte, error) {
	timeout := dialTimeout(ctx, 2*time.Second)
	for port := c.ports.Start; port <= c.ports.End; port++ {
		addr := residentAddr(port)
		if !ping(addr, timeout) {
			continue
		}
		payload, err := c.request(ctx, addr, timeout, outputToStdout)
		return true, payload, err
	}
	return false, nil, nil
}

func (c *tcpClient) request(ctx context.Context, addr string, timeout time.Duration, outputToStdout bool) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// The capture is interactive, so only ctx bounds the wait.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	req := fileRequest
	if outputToStdout {
		req = stdoutRequest
	}
	if _, err := io.WriteString(conn, req); err != nil {
		return nil, err
	}

	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("read status: %w", err)
	}
	body, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	switch status {
	case successStatus:
		return body, nil
	case busyStatus:
		return nil, ErrBusy
	case errorStatus:
		return nil, fmt.Errorf("%w: %s", ErrRemote, body)
	}
	return nil, fmt.Errorf("unexpected status %q", status)
}
