package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/cbodonnell/snakes/pkg/log"
	"nhooyr.io/websocket"
)

// WSPath is where the WebSocket server accepts players.
const WSPath = "/play"

// WSServer accepts player connections over WebSocket. Each text message
// carries one line.
type WSServer struct {
	port           int
	tls            *TLSConfig
	originPatterns []string
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewWSServerOptions struct {
	Port int
	TLS  *TLSConfig

	// OriginPatterns lists the extra hosts browsers may connect from. The
	// server's own host and clients that send no Origin are always allowed.
	OriginPatterns []string
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	return &WSServer{
		port:           opts.Port,
		tls:            opts.TLS,
		originPatterns: opts.OriginPatterns,
	}
}

// Handler returns the HTTP handler that upgrades requests and passes the
// connection to handler. The handler runs with ctx, not the request context.
func (s *WSServer) Handler(ctx context.Context, handler ConnectionHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WSPath, func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: s.originPatterns,
		})
		if err != nil {
			log.Error("Failed to accept WebSocket connection: %v", err)
			return
		}
		log.Debug("New WebSocket connection from %s", r.RemoteAddr)
		handler(ctx, NewWSConn(conn, r.RemoteAddr))
	})
	return mux
}

// Start serves until ctx is done.
func (s *WSServer) Start(ctx context.Context, handler ConnectionHandler) {
	addr := fmt.Sprintf(":%d", s.port)
	server := &http.Server{Addr: addr, Handler: s.Handler(ctx, handler)}

	go func() {
		<-ctx.Done()
		server.Close()
	}()

	var listenAndServe func() error
	if s.tls != nil {
		log.Info("WebSocket server listening on %s with TLS", addr)
		listenAndServe = func() error {
			return server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("WebSocket server listening on %s", addr)
		listenAndServe = server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("WebSocket server closed")
			return
		}
		log.Error("WebSocket server error: %v", err)
	}
}

// WSConn adapts a WebSocket connection to Conn. A text message holding
// several lines is split and returned one line at a time.
type WSConn struct {
	conn       *websocket.Conn
	remoteAddr string
	pending    []string
	writeLock  sync.Mutex
}

func NewWSConn(conn *websocket.Conn, remoteAddr string) *WSConn {
	return &WSConn{
		conn:       conn,
		remoteAddr: remoteAddr,
	}
}

func (c *WSConn) ReadLine(ctx context.Context) (string, error) {
	for len(c.pending) == 0 {
		typ, b, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return "", &ErrConnectionClosed{}
			}
			return "", fmt.Errorf("failed to read from WebSocket connection: %v", err)
		}
		if typ != websocket.MessageText {
			log.Warn("Ignoring binary WebSocket message from %s", c.remoteAddr)
			continue
		}
		c.pending = strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	}
	line := c.pending[0]
	c.pending = c.pending[1:]
	return cleanLine(line), nil
}

func (c *WSConn) WriteLine(ctx context.Context, line string) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	if err := c.conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
		return fmt.Errorf("failed to write to WebSocket connection: %v", err)
	}
	return nil
}

func (c *WSConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

func (c *WSConn) RemoteAddr() string {
	return c.remoteAddr
}
