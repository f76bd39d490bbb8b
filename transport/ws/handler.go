// Package ws is the WebSocket Transport Layer adapter: it upgrades HTTP
// connections, decodes JSON frames into coordinator callbacks, and
// implements the DeliverySink callback for its own sessions.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/IDMendis/RealTimeSecureChatApp/contract"
	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/IDMendis/RealTimeSecureChatApp/errors"
)

const (
	socketBufferSize = 1024
)

// Handler owns the WebSocket session table. Each accepted connection
// gets one read goroutine and one write goroutine; the read goroutine
// is the "one worker per session" unit the core is driven by.
type Handler struct {
	log         *slog.Logger
	coordinator contract.ICoordinator
	upgrader    websocket.Upgrader
	sendBuffer  int
	maxSessions int
	sessionGate func() int

	mu      sync.RWMutex
	clients map[string]*client
}

func NewHandler(log *slog.Logger, coordinator contract.ICoordinator,
	sendBuffer, maxSessions int, sessionCount func() int) *Handler {
	return &Handler{
		log:         log,
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  socketBufferSize,
			WriteBufferSize: socketBufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sendBuffer:  sendBuffer,
		maxSessions: maxSessions,
		sessionGate: sessionCount,
		clients:     make(map[string]*client),
	}
}

// ServeHTTP upgrades the connection and runs the session until the
// socket closes. Session identifiers are server-assigned and never
// reused; the resource bound lives here, not in the core.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h.maxSessions > 0 && h.sessionGate() >= h.maxSessions {
		http.Error(w, errors.ErrSessionLimit.Error(), http.StatusServiceUnavailable)
		return
	}

	socket, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.log.Warn("Upgrade failed", "error", err)
		return
	}

	sessionID := uuid.NewString()
	c := newClient(sessionID, socket, h.sendBuffer)

	h.mu.Lock()
	h.clients[sessionID] = c
	h.mu.Unlock()

	h.coordinator.OnConnect(sessionID)
	h.log.Info("WebSocket session opened", "session", sessionID, "remote", req.RemoteAddr)

	go c.writePump(h.log)
	h.readPump(c)
}

// readPump drives the coordinator from inbound frames. It returns when
// the socket dies, graceful or abrupt, and reports the disconnect
// exactly once.
func (h *Handler) readPump(c *client) {
	defer h.teardown(c)

	for {
		var frame Inbound
		if err := c.socket.ReadJSON(&frame); err != nil {
			return
		}
		h.handleFrame(c, frame)
	}
}

func (h *Handler) handleFrame(c *client, frame Inbound) {
	// The identity may arrive on a dedicated IDENTIFY frame or ride the
	// first frame that carries a senderId.
	if !c.identified && frame.SenderID != "" {
		h.coordinator.OnIdentified(c.sessionID, frame.SenderID)
		c.identified = true
	}

	var err error
	switch frame.Type {
	case TypeIdentify:
		// Binding handled above.
	case TypeJoin:
		err = h.coordinator.OnJoin(c.sessionID, frame.RoomID)
	case TypeLeave:
		err = h.coordinator.OnLeave(c.sessionID, frame.RoomID)
	case TypeChat:
		err = h.coordinator.OnMessage(c.sessionID, domain.Message{
			SenderID:    frame.SenderID,
			RecipientID: frame.RecipientID,
			RoomID:      frame.RoomID,
			Body:        frame.Body,
			Meta:        frame.Meta,
		})
	default:
		h.log.Debug("Unknown frame type", "session", c.sessionID, "type", frame.Type)
	}

	// Rejections go back to the originating session only.
	if err != nil {
		c.offer(errorFrame(err))
	}
}

func (h *Handler) teardown(c *client) {
	h.mu.Lock()
	delete(h.clients, c.sessionID)
	h.mu.Unlock()

	h.coordinator.OnDisconnect(c.sessionID)
	c.close()
	h.log.Info("WebSocket session closed", "session", c.sessionID)
}

// Deliver implements contract.DeliverySink. The send is a non-blocking
// push onto the client's buffered channel: a slow consumer loses the
// frame rather than stalling the router.
func (h *Handler) Deliver(_ context.Context, sessionID string, msg domain.Message) error {
	h.mu.RLock()
	c, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if !ok {
		return errors.ErrUnknownSession
	}

	if !c.offer(toOutbound(msg)) {
		h.log.Warn("Send buffer full, dropping frame", "session", sessionID, "id", msg.ID)
	}
	return nil
}
