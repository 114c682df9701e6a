package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
)

const (
	residentHost = "127.0.0.1"

	pingRequest    = "PING\n"
	pongResponse   = "PONG\n"
	stdoutRequest  = "CAPTURE STDOUT\n"
	fileRequest    = "CAPTURE FILE\n"
	successStatus  = "SUCCESS\n"
	busyStatus     = "BUSY\n"
	errorStatus    = "ERROR\n"
	handshakeLimit = 3 * time.Second
)

// tcpServer implements Server over TCP loopback.
type tcpServer struct {
	ports    PortRange
	lis      net.Listener
	incoming chan *tcpConn
	done     chan struct{}
	port     int
	once     sync.Once
}

func newTCPServer(ports PortRange) *tcpServer {
	return &tcpServer{
		ports:    ports.Normalize(),
		incoming: make(chan *tcpConn, 8),
		done:     make(chan struct{}),
	}
}

// Start binds ONLY the start port of the range. If occupied, fail.
func (s *tcpServer) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}
	addr := residentAddr(s.ports.Start)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("unable to bind %s: %w", addr, err)
	}
	s.lis = lis
	s.port = s.ports.Start
	logger.Infof(ctx, "singleinstance: listening on %s", addr)
	go s.acceptLoop(ctx)
	return nil
}

func (s *tcpServer) Port() int { return s.port }

func (s *tcpServer) acceptLoop(ctx context.Context) {
	for {
		c, err := s.lis.Accept()
		if err != nil {
			return
		}
		go s.serveConn(ctx, c)
	}
}

// serveConn handshakes one client and queues capture requests for Next.
// A slow client only delays itself.
func (s *tcpServer) serveConn(ctx context.Context, c net.Conn) {
	tc, ok := s.handshake(ctx, c)
	if !ok {
		return
	}
	select {
	case s.incoming <- tc:
	case <-s.done:
		_ = c.Close()
	case <-ctx.Done():
		_ = c.Close()
	}
}

// handshake answers PING inline and parses capture requests. ok is false
// when the connection was consumed.
func (s *tcpServer) handshake(ctx context.Context, c net.Conn) (*tcpConn, bool) {
	remote := c.RemoteAddr().String()
	_ = c.SetDeadline(time.Now().Add(handshakeLimit))
	br := bufio.NewReader(c)
	bw := bufio.NewWriter(c)
	line, err := br.ReadString('\n')
	if err != nil {
		logger.Debugf(ctx, "singleinstance: dropping %s: %v", remote, err)
		_ = c.Close()
		return nil, false
	}

	switch line {
	case pingRequest:
		logger.Tracef(ctx, "singleinstance: PING from %s", remote)
		_, _ = bw.WriteString(pongResponse)
		_ = bw.Flush()
		_ = c.Close()
		return nil, false
	case stdoutRequest, fileRequest:
		_ = c.SetDeadline(time.Time{})
		req := Request{OutputToStdout: line == stdoutRequest}
		logger.Debugf(ctx, "singleinstance: capture request from %s stdout=%t", remote, req.OutputToStdout)
		return &tcpConn{c: c, r: req, w: bw}, true
	default:
		logger.Warnf(ctx, "singleinstance: unknown request %q from %s", line, remote)
		_, _ = bw.WriteString(errorStatus + "unknown request")
		_ = bw.Flush()
		_ = c.Close()
		return nil, false
	}
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, net.ErrClosed
	case tc := <-s.incoming:
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if s.lis != nil {
			err = s.lis.Close()
		}
	})
	return err
}

type tcpConn struct {
	c net.Conn
	r Request
	w *bufio.Writer
}

func (tc *tcpConn) Request() Request { return tc.r }

func (tc *tcpConn) RespondSuccess(payload []byte) error {
	if _, err := tc.w.WriteString(successStatus); err != nil {
		return err
	}
	if _, err := tc.w.Write(payload); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondBusy() error {
	if _, err := tc.w.WriteString(busyStatus); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondError(msg string) error {
	if _, err := tc.w.WriteString(errorStatus + msg); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) Close() error { return tc.c.Close() }
