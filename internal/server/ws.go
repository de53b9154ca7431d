package server

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// wsChannel adapts a gorilla WebSocket connection to the registry's Channel.
// Writes are bounded by a deadline so a slow client fails instead of blocking
// deliveries; Close is idempotent because the registry and the read pump may
// both tear the connection down.
type wsChannel struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

func newWSChannel(conn *websocket.Conn, writeTimeout time.Duration) *wsChannel {
	return &wsChannel{
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

// Send writes a payload with a write deadline.
func (c *wsChannel) Send(payload []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close sends a close frame and tears the transport down, unblocking any
// in-flight read or write.
func (c *wsChannel) Close() error {
	c.closeOnce.Do(func() {
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// handleWS runs the live-connection lifecycle: handshake, authenticate,
// admit, then block on the keepalive read pump until the connection dies.
func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	credential := bearerCredential(c)
	userID, err := s.resolver.Resolve(c.Request.Context(), credential)
	if err != nil {
		// Rejected before any registry entry exists.
		s.logger.Info("live connection rejected", "error", err)
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed"),
			time.Now().Add(time.Second),
		)
		conn.Close()
		return
	}

	ch := newWSChannel(conn, s.cfg.Websocket.WriteTimeout)
	s.registry.Connect(userID, ch)
	s.logger.Info("live connection established", "user_id", userID)

	s.readPump(userID, conn, ch)
}

// readPump blocks reading keepalive traffic until the client closes, the
// transport errors, or the registry closes the handle (eviction). The
// connection is a pure server-to-client push channel; client payloads are
// discarded.
func (s *Server) readPump(userID int64, conn *websocket.Conn, ch *wsChannel) {
	conn.SetReadLimit(s.cfg.Websocket.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.cfg.Websocket.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.cfg.Websocket.PongWait))
		return nil
	})
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(s.cfg.Websocket.PongWait))
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				s.logger.Debug("live connection read error", "user_id", userID, "error", err)
			}
			break
		}
	}

	// Remove only this connection's entry; a superseding connect for the
	// same user must keep its own.
	s.registry.DisconnectChannel(userID, ch)
	s.logger.Info("live connection closed", "user_id", userID)
}
