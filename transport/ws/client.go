package ws

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

type client struct {
	sessionID  string
	socket     *websocket.Conn
	send       chan Outbound
	identified bool

	closeOnce sync.Once
}

func newClient(sessionID string, socket *websocket.Conn, sendBuffer int) *client {
	return &client{
		sessionID: sessionID,
		socket:    socket,
		send:      make(chan Outbound, sendBuffer),
	}
}

// writePump is the only goroutine writing to the socket, which keeps
// gorilla's single-writer requirement.
func (c *client) writePump(log *slog.Logger) {
	for frame := range c.send {
		if err := c.socket.WriteJSON(frame); err != nil {
			log.Debug("Write failed", "session", c.sessionID, "error", err)
			break
		}
	}
	_ = c.socket.Close()
}

// offer enqueues a frame without ever blocking; reports false on a full
// or closed channel.
func (c *client) offer(frame Outbound) (ok bool) {
	defer func() {
		// Send on a closed channel during teardown is a lost frame,
		// not a crash.
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.socket.Close()
	})
}
