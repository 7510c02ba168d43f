package http

import (
	"net/http"
	"time"

	"brokerage/internal/pkg/broker"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	changesWriteWait  = 10 * time.Second
	changesPongWait   = 60 * time.Second
	changesPingPeriod = changesPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamChanges handles GET /api/v1/changes. Each change is pushed as a JSON text
// frame. The socket is closed when the hub drops the subscription (slow reader,
// listener reconnect, shutdown); clients are expected to reconnect and re-fetch.
func (s *Server) StreamChanges(c echo.Context) error {
	if s.hub == nil {
		return writeErrorEnvelope(c, http.StatusServiceUnavailable, codeDependency, "change feed is not available")
	}
	orderID, err := bindOptionalUUID(c, "order_id")
	if err != nil {
		return writeError(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	var accept broker.Predicate
	if orderID != nil {
		id := orderID.String()
		accept = func(ch broker.Change) bool { return ch.ID == id }
	}
	stream, unsubscribe := s.hub.Subscribe(accept, broker.DefaultBuffer)
	defer unsubscribe()

	gone := make(chan struct{})
	go s.readPump(conn, gone)

	ticker := time.NewTicker(changesPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case change, ok := <-stream:
			_ = conn.SetWriteDeadline(time.Now().Add(changesWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "resubscribe"))
				return nil
			}
			if err := conn.WriteJSON(change); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(changesWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-gone:
			return nil
		}
	}
}

// readPump discards client frames and reports when the peer goes away.
func (s *Server) readPump(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)

	_ = conn.SetReadDeadline(time.Now().Add(changesPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(changesPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
