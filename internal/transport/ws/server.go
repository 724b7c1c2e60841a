package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sizzling-burgers/tracking-hub/internal/ports"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/contracts"
	"github.com/sizzling-burgers/tracking-hub/internal/shared/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second // must be less than pongWait
	maxMsgSize = 64 << 10

	// sendBuffer bounds each client's outgoing queue; slow consumers get
	// frames dropped rather than stalling the broadcast path.
	sendBuffer = 32
)

// Broker is the intent handler the transport feeds. Satisfied by hub.Broker.
type Broker interface {
	Connect(ctx context.Context, sessionID string, identity ports.Identity)
	Disconnect(ctx context.Context, sessionID string)
	HandleIntent(ctx context.Context, sessionID, event string, data json.RawMessage)
}

// SenderFunc adapts a function to ports.EventSender. It lets the broker be
// constructed before the server that ultimately delivers its events.
type SenderFunc func(sessionID, event string, data any)

func (f SenderFunc) Send(sessionID, event string, data any) { f(sessionID, event, data) }

type session struct {
	id   string
	conn *websocket.Conn
	send chan contracts.Envelope
}

// Server upgrades HTTP requests to websocket sessions, verifies credentials
// before admission, and pumps frames between connections and the broker.
// It implements ports.EventSender for the broker's fan-out.
type Server struct {
	verifier ports.CredentialVerifier
	broker   Broker
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewServer wires the websocket transport.
func NewServer(verifier ports.CredentialVerifier, broker Broker, log *logger.Logger) *Server {
	return &Server{
		verifier: verifier,
		broker:   broker,
		logger:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the credential, not the origin, is the trust boundary here
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*session),
	}
}

// Register mounts the websocket endpoint on the provided mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", s.handleSocket)
}

// Send implements ports.EventSender. Delivery is non-blocking: when a
// client's buffer is full the frame is dropped and logged.
func (s *Server) Send(sessionID, event string, data any) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case sess.send <- contracts.Envelope{Event: event, Data: data}:
	default:
		s.logger.Warn(context.Background(), "frame_dropped", "Client send buffer full; frame dropped", map[string]any{
			"session_id": sessionID,
			"event":      event,
		})
	}
}

// Close tears down every live connection (used on shutdown).
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		_ = sess.conn.Close()
	}
	s.sessions = make(map[string]*session)
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	identity, err := s.verifier.Verify(bearerToken(r))
	if err != nil {
		// refused before any membership is granted
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(r.Context(), "ws_upgrade_failed", "Failed to upgrade connection", err)
		return
	}

	sess := &session{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan contracts.Envelope, sendBuffer),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	// outlive the HTTP handler's request context
	ctx := s.logger.WithSessionID(context.WithoutCancel(r.Context()), sess.id)

	s.broker.Connect(ctx, sess.id, identity)

	go s.writePump(ctx, sess)
	s.readPump(ctx, sess)

	s.broker.Disconnect(ctx, sess.id)
	s.drop(sess)
}

// inboundFrame is the client-to-server envelope shape.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (s *Server) readPump(ctx context.Context, sess *session) {
	sess.conn.SetReadLimit(maxMsgSize)
	_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn(ctx, "ws_read_failed", "Connection closed unexpectedly", map[string]any{"error": err.Error()})
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Event == "" {
			s.Send(sess.id, contracts.EventError, contracts.ErrorPayload{Message: "Invalid message format"})
			continue
		}

		// one intent at a time per connection; a malformed intent never
		// affects another session
		s.broker.HandleIntent(ctx, sess.id, frame.Event, frame.Data)
	}
}

func (s *Server) writePump(ctx context.Context, sess *session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sess.conn.Close()
	}()

	for {
		select {
		case env := <-sess.send:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteJSON(env); err != nil {
				s.logger.Debug(ctx, "ws_write_failed", "Failed to write frame", map[string]any{"error": err.Error()})
				return
			}
		case <-ticker.C:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) drop(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	_ = sess.conn.Close()
}

// bearerToken pulls the credential from the query string or the
// Authorization header.
func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	auth := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return ""
}
