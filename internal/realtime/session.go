package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
	"github.com/benedikt-weyer/streamline-scheduler/internal/logging"
	"github.com/benedikt-weyer/streamline-scheduler/internal/metrics"
)

const (
	handshakeTimeout = 10 * time.Second
	writeDeadline    = 5 * time.Second
	pingInterval     = 30 * time.Second
	pongDeadline     = 60 * time.Second
)

// authRequest is the mandatory first frame of a new connection.
type authRequest struct {
	Token string `json:"token"`
}

type authSuccess struct {
	Type         string    `json:"type"`
	UserID       uuid.UUID `json:"user_id"`
	ConnectionID uuid.UUID `json:"connection_id"`
}

type authError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Session owns one websocket connection: the handshake, the write loop that
// drains the connection's event queue, and the read loop that watches for
// peer close. Whichever loop exits first stops the other; deregistration runs
// exactly once on every exit path.
type Session struct {
	conn       *websocket.Conn
	verifier   domain.TokenVerifier
	registry   *Registry
	clock      clockwork.Clock
	wsMetrics  *metrics.WebSocketMetrics
	connection *Connection
	log        *slog.Logger
	done       chan struct{}
	stopOnce   sync.Once
}

// NewSession wraps an upgraded websocket connection. wsMetrics may be nil.
func NewSession(conn *websocket.Conn, verifier domain.TokenVerifier, registry *Registry, clock clockwork.Clock, wsMetrics *metrics.WebSocketMetrics) *Session {
	return &Session{
		conn:      conn,
		verifier:  verifier,
		registry:  registry,
		clock:     clock,
		wsMetrics: wsMetrics,
		done:      make(chan struct{}),
	}
}

// Run drives the session to completion: handshake, registration, both loops,
// cleanup. It returns when the connection is closed and deregistered.
func (s *Session) Run(ctx context.Context) {
	user, err := s.handshake(ctx)
	if err != nil {
		if s.wsMetrics != nil {
			s.wsMetrics.HandshakeFailures.Inc()
		}
		s.reject()
		return
	}

	s.connection = NewConnection()
	s.log = logging.WithConnection(s.connection.ID.String()).With("user_id", user.ID)
	s.registry.Register(user.ID, s.connection)

	// Cleanup must run no matter which loop fails or panics: deregister
	// first (LIFO: stop runs before deregister, closing the socket and
	// unblocking both loops).
	defer s.registry.Deregister(user.ID, s.connection.ID)
	defer s.stop()

	if err := s.writeJSON(authSuccess{Type: "auth_success", UserID: user.ID, ConnectionID: s.connection.ID}); err != nil {
		s.log.Warn("Failed to send auth acknowledgement", "error", err)
		return
	}
	s.log.Info("WebSocket connection established")

	go s.writeLoop()
	s.readLoop()

	s.log.Info("WebSocket connection closed")
}

// handshake reads and validates the first frame within the handshake
// deadline and resolves its token to a user.
func (s *Session) handshake(ctx context.Context) (*domain.User, error) {
	_ = s.conn.SetReadDeadline(s.clock.Now().Add(handshakeTimeout))

	msgType, payload, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if msgType != websocket.TextMessage {
		return nil, domain.ErrInvalidToken
	}

	var req authRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, domain.ErrInvalidToken
	}
	if req.Token == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.verifier.VerifyToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// reject sends a single auth_error frame if the socket is still writable and
// closes the connection. The failure reason is deliberately not echoed back.
func (s *Session) reject() {
	_ = s.writeJSON(authError{Type: "auth_error", Message: "Authentication failed"})
	_ = s.conn.Close()
}

// writeLoop serializes queued events onto the socket and keeps the
// connection alive with pings. Exits on write failure, done, or ping failure;
// any exit stops the sibling read loop via the shared socket.
func (s *Session) writeLoop() {
	defer s.stop()

	ticker := s.clock.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-s.connection.Events():
			if err := s.writeJSON(event); err != nil {
				return
			}
		case <-ticker.Chan():
			_ = s.conn.SetWriteDeadline(s.clock.Now().Add(writeDeadline))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// readLoop consumes inbound frames. Text frames are informational only
// (reserved for future subscription filtering); a close frame or read error
// ends the session.
func (s *Session) readLoop() {
	_ = s.conn.SetReadDeadline(s.clock.Now().Add(pongDeadline))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(s.clock.Now().Add(pongDeadline))
	})

	for {
		msgType, payload, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage {
			s.log.Debug("Received WebSocket message", "payload", string(payload))
		}
	}
}

// stop signals the write loop and closes the socket, which unblocks the read
// loop. Safe to call from either loop; only the first call acts.
func (s *Session) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *Session) writeJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(s.clock.Now().Add(writeDeadline))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}
