package gateway

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/quic-go/webtransport-go"

	"hiddencard/internal/domain"
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection is one authenticated client session. Writes are serialized
// through a channel; each outbound frame rides its own unidirectional
// stream.
type Connection struct {
	id        domain.ClientID
	session   *webtransport.Session
	logger    *slog.Logger
	writeChan chan []byte
	closeChan chan struct{}
	closeOnce sync.Once
}

func NewConnection(id domain.ClientID, session *webtransport.Session, logger *slog.Logger) *Connection {
	c := &Connection{
		id:        id,
		session:   session,
		logger:    logger,
		writeChan: make(chan []byte, 64),
		closeChan: make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

func (c *Connection) ID() domain.ClientID { return c.id }

func (c *Connection) Send(data []byte) error {
	select {
	case c.writeChan <- data:
		return nil
	case <-c.closeChan:
		return ErrConnectionClosed
	}
}

func (c *Connection) writeLoop() {
	for {
		select {
		case data := <-c.writeChan:
			stream, err := c.session.OpenUniStream()
			if err != nil {
				c.logger.Debug("open stream failed", "client", c.id, "err", err)
				continue
			}
			if _, err := stream.Write(data); err != nil {
				c.logger.Debug("stream write failed", "client", c.id, "err", err)
			}
			stream.Close()
		case <-c.closeChan:
			return
		}
	}
}

func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
		c.session.CloseWithError(0, "connection closed")
	})
}

// Manager tracks live connections by client id. It is the only structure in
// the server touched from more than one goroutine.
type Manager struct {
	conns map[domain.ClientID]*Connection
	mu    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{conns: make(map[domain.ClientID]*Connection)}
}

// Add registers the connection. An existing connection under the same client
// id is closed and replaced; the newest session wins.
func (m *Manager) Add(conn *Connection) {
	m.mu.Lock()
	old := m.conns[conn.ID()]
	m.conns[conn.ID()] = conn
	m.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

// Remove drops the connection, but only if it is still the registered one
// for that client id.
func (m *Manager) Remove(conn *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conns[conn.ID()] == conn {
		delete(m.conns, conn.ID())
	}
}

func (m *Manager) Get(id domain.ClientID) *Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conns[id]
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}
