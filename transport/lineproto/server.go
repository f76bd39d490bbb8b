package lineproto

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/IDMendis/RealTimeSecureChatApp/contract"
	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/IDMendis/RealTimeSecureChatApp/errors"
)

// Server accepts plain TCP connections speaking the line protocol, one
// goroutine per connection. It runs as a supervised worker and
// implements DeliverySink for the sessions it owns.
type Server struct {
	log         *slog.Logger
	coordinator contract.ICoordinator
	registry    contract.ISessionRegistry
	addr        string
	sendBuffer  int

	mu    sync.RWMutex
	conns map[string]*lineConn
}

type lineConn struct {
	sessionID string
	conn      net.Conn
	out       chan string
	closeOnce sync.Once
}

func NewServer(log *slog.Logger, coordinator contract.ICoordinator,
	registry contract.ISessionRegistry, addr string, sendBuffer int) *Server {
	return &Server{
		log:         log,
		coordinator: coordinator,
		registry:    registry,
		addr:        addr,
		sendBuffer:  sendBuffer,
		conns:       make(map[string]*lineConn),
	}
}

// Run implements contract.Worker: listen, accept, hand each connection
// its own goroutine, stop when the context dies.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("line protocol listen on %s: %w", s.addr, err)
	}
	s.log.Info(fmt.Sprintf("Line protocol listening on %s", s.addr))

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Warn("Accept failed", "error", err)
			continue
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	sessionID := uuid.NewString()
	lc := &lineConn{sessionID: sessionID, conn: conn, out: make(chan string, s.sendBuffer)}

	s.mu.Lock()
	s.conns[sessionID] = lc
	s.mu.Unlock()

	s.coordinator.OnConnect(sessionID)
	s.log.Info("Line session opened", "session", sessionID, "remote", conn.RemoteAddr())

	go lc.writeLoop(s.log)
	s.readLoop(lc)
}

func (s *Server) readLoop(lc *lineConn) {
	defer s.teardown(lc)

	scanner := bufio.NewScanner(lc.conn)
	identified := false
	for scanner.Scan() {
		frame, err := Parse(scanner.Text())
		if err != nil {
			lc.offer("ERROR: " + err.Error())
			continue
		}

		switch frame.Type {
		case TypeConnect:
			if frame.Payload == "" {
				err = errors.ErrEmptyParticipant
				break
			}
			s.coordinator.OnIdentified(lc.sessionID, frame.Payload)
			identified = true
		case TypeJoin:
			err = s.coordinator.OnJoin(lc.sessionID, frame.Recipient)
		case TypeLeave:
			err = s.coordinator.OnLeave(lc.sessionID, frame.Recipient)
		case TypeGroup:
			err = s.submit(lc, identified, domain.Message{Body: frame.Payload})
		case TypeRoom:
			err = s.submit(lc, identified, domain.Message{RoomID: frame.Recipient, Body: frame.Payload})
		case TypePrivate:
			err = s.submit(lc, identified, domain.Message{RecipientID: frame.Recipient, Body: frame.Payload})
		case TypeDisconnect:
			return
		default:
			s.log.Debug("Ignoring unknown frame", "session", lc.sessionID, "type", frame.Type)
		}

		if err != nil {
			lc.offer("ERROR: " + err.Error())
		}
	}
}

// submit fills in the sender from the session binding; the line
// protocol never carries a per-message sender field.
func (s *Server) submit(lc *lineConn, identified bool, msg domain.Message) error {
	if !identified {
		return errors.ErrUnknownSession
	}
	participantID, ok := s.registry.Participant(lc.sessionID)
	if !ok {
		return errors.ErrUnknownSession
	}
	msg.SenderID = participantID
	return s.coordinator.OnMessage(lc.sessionID, msg)
}

func (s *Server) teardown(lc *lineConn) {
	s.mu.Lock()
	delete(s.conns, lc.sessionID)
	s.mu.Unlock()

	s.coordinator.OnDisconnect(lc.sessionID)
	lc.close()
	s.log.Info("Line session closed", "session", lc.sessionID)
}

// Deliver implements contract.DeliverySink with a non-blocking push.
func (s *Server) Deliver(_ context.Context, sessionID string, msg domain.Message) error {
	s.mu.RLock()
	lc, ok := s.conns[sessionID]
	s.mu.RUnlock()
	if !ok {
		return errors.ErrUnknownSession
	}

	if !lc.offer(EncodeMessage(msg)) {
		s.log.Warn("Send buffer full, dropping line", "session", sessionID, "id", msg.ID)
	}
	return nil
}

func (lc *lineConn) writeLoop(log *slog.Logger) {
	for line := range lc.out {
		if _, err := fmt.Fprintln(lc.conn, line); err != nil {
			log.Debug("Write failed", "session", lc.sessionID, "error", err)
			break
		}
	}
	_ = lc.conn.Close()
}

func (lc *lineConn) offer(line string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case lc.out <- line:
		return true
	default:
		return false
	}
}

func (lc *lineConn) close() {
	lc.closeOnce.Do(func() {
		close(lc.out)
		_ = lc.conn.Close()
	})
}
