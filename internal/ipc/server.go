package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"
)

// replyTimeout bounds how long a connection waits for the control loop.
const replyTimeout = 5 * time.Second

// Call is one request waiting for the control loop to answer it.
type Call struct {
	Request *Request
	reply   chan *Response
}

// Reply answers the call. Only the first reply counts.
func (c *Call) Reply(resp *Response) {
	select {
	case c.reply <- resp:
	default:
	}
}

// Server accepts control socket connections and hands each request to the
// control loop through Calls.
type Server struct {
	socketPath   string
	listener     net.Listener
	logger       *slog.Logger
	calls        chan *Call
	done         chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a server for socketPath. A stale socket file is removed.
func NewServer(socketPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	os.Remove(socketPath)
	return &Server{
		socketPath: socketPath,
		logger:     logger,
		calls:      make(chan *Call),
		done:       make(chan struct{}),
	}
}

// Calls delivers requests to the control loop.
func (s *Server) Calls() <-chan *Call {
	return s.calls
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection reads one request line and writes one response line.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * replyTimeout))

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.forward(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Debug("failed to send response", "error", err)
	}
}

// forward passes req to the control loop and waits for its answer.
func (s *Server) forward(req *Request) *Response {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	call := &Call{Request: req, reply: make(chan *Response, 1)}
	select {
	case s.calls <- call:
	case <-s.done:
		return NewErrorResponse("window manager is shutting down")
	case <-ctx.Done():
		return NewErrorResponse("window manager is busy")
	}
	select {
	case resp := <-call.reply:
		if resp == nil {
			return NewErrorResponse("no response")
		}
		return resp
	case <-s.done:
		select {
		case resp := <-call.reply:
			if resp != nil {
				return resp
			}
		default:
		}
		return NewErrorResponse("window manager is shutting down")
	case <-ctx.Done():
		return NewErrorResponse("timed out waiting for the window manager")
	}
}

// Stop closes the listener, waits for open connections and removes the
// socket file.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	close(s.done)
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
