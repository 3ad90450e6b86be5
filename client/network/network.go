package network

import (
	"context"
	"fmt"
	"net"

	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/network"
	"nhooyr.io/websocket"
)

const (
	DefaultServerHostname = "localhost"
)

// DialTCP connects to a game server over TCP.
func DialTCP(ctx context.Context, addr string) (network.Conn, error) {
	log.Info("Connecting to TCP server at %s", addr)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %v", err)
	}
	return network.NewTCPConn(conn), nil
}

// DialWS connects to a game server over WebSocket, e.g.
// ws://localhost:8080/play.
func DialWS(ctx context.Context, url string) (network.Conn, error) {
	log.Info("Connecting to WebSocket server at %s", url)
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %v", err)
	}
	return network.NewWSConn(conn, url), nil
}

// Dial picks the transport: the WebSocket URL when one is given, otherwise
// TCP to addr.
func Dial(ctx context.Context, addr string, wsURL string) (network.Conn, error) {
	if wsURL != "" {
		return DialWS(ctx, wsURL)
	}
	return DialTCP(ctx, addr)
}
