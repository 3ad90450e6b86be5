package network

import (
	"sync"

	"github.com/google/uuid"
)

// Client represents a connected client
type Client struct {
	ID   string
	Conn Conn
}

// ClientManager tracks connected clients so they can be closed on shutdown
type ClientManager struct {
	clients     map[string]*Client
	clientsLock sync.RWMutex
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*Client),
	}
}

// ConnectClient adds a new client to the manager and returns its ID
func (cm *ClientManager) ConnectClient(conn Conn) string {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	clientID := uuid.NewString()
	cm.clients[clientID] = &Client{
		ID:   clientID,
		Conn: conn,
	}
	return clientID
}

// DisconnectClient removes a client from the manager
func (cm *ClientManager) DisconnectClient(clientID string) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	delete(cm.clients, clientID)
}

// Count returns the number of connected clients
func (cm *ClientManager) Count() int {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return len(cm.clients)
}

// CloseAll closes every client connection. Their handlers see the
// connection fail and clean up on their own.
func (cm *ClientManager) CloseAll() {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	for _, client := range cm.clients {
		client.Conn.Close()
	}
}
