package network

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/cbodonnell/snakes/pkg/log"
)

// TCPServer accepts player connections over TCP.
type TCPServer struct {
	port     int
	listener net.Listener
}

type NewTCPServerOptions struct {
	Port int
}

// NewTCPServer creates a new TCP server.
func NewTCPServer(opts NewTCPServerOptions) *TCPServer {
	return &TCPServer{
		port: opts.Port,
	}
}

// Listen binds the server's port. Port 0 picks a free one.
func (s *TCPServer) Listen() error {
	tcpAddr, err := net.ResolveTCPAddr("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to resolve TCP address: %v", err)
	}

	tcpListener, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on TCP address: %v", err)
	}
	s.listener = tcpListener

	log.Info("TCP server listening on %s", tcpListener.Addr().String())
	return nil
}

// Addr returns the bound address. Listen must have been called.
func (s *TCPServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until ctx is done, handing each one to handler
// on its own goroutine.
func (s *TCPServer) Serve(ctx context.Context, handler ConnectionHandler) {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				log.Info("TCP server closed")
				return
			}
			log.Error("Failed to accept TCP connection: %v", err)
			continue
		}

		log.Debug("New TCP connection from %s", conn.RemoteAddr().String())
		go handler(ctx, NewTCPConn(conn))
	}
}

// Start listens and serves until ctx is done.
func (s *TCPServer) Start(ctx context.Context, handler ConnectionHandler) error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.Serve(ctx, handler)
	return nil
}

// TCPConn frames a net.Conn into newline-terminated lines.
type TCPConn struct {
	conn      net.Conn
	reader    *bufio.Reader
	writeLock sync.Mutex
}

func NewTCPConn(conn net.Conn) *TCPConn {
	return &TCPConn{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// ReadLine reads the next line. Bytes past MaxLineLength are discarded as
// they arrive, so a peer cannot grow the buffer. A line cut off by the peer
// closing the connection is discarded.
func (c *TCPConn) ReadLine(ctx context.Context) (string, error) {
	var line []byte
	for {
		chunk, err := c.reader.ReadSlice('\n')
		// one spare byte keeps a trailing \r from eating into the limit
		if room := MaxLineLength + 1 - len(line); room > 0 {
			line = append(line, chunk[:min(room, len(chunk))]...)
		}
		switch {
		case err == nil:
			return cleanLine(strings.TrimSuffix(string(line), "\n")), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed):
			return "", &ErrConnectionClosed{}
		default:
			return "", fmt.Errorf("failed to read line from TCP connection: %v", err)
		}
	}
}

func (c *TCPConn) WriteLine(ctx context.Context, line string) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return fmt.Errorf("failed to write line to TCP connection: %v", err)
	}
	return nil
}

func (c *TCPConn) Close() error {
	return c.conn.Close()
}

func (c *TCPConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
