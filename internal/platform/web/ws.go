package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/drop-duel/internal/multiplayer"
)

// handleWS upgrades the request and runs the connection until either side
// closes it. The read loop runs on the request goroutine.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sessionID := multiplayer.SessionID(pathParam(r, "sessionID"))
	playerID := multiplayer.PlayerID(pathParam(r, "playerID"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		s.logger.Debug("websocket upgrade failed", "session", sessionID, "player", playerID, "error", err)
		return
	}

	sink := multiplayer.NewChannelSink(s.cfg.SendBuffer)
	mc := s.coord.Connect(sessionID, playerID, sink)

	go s.writePump(conn, sink)
	s.readPump(conn, mc)

	mc.Close()
	sink.Close()
}

// readPump decodes inbound frames and hands them to the coordinator until
// the connection fails or the peer stops answering pings.
func (s *Server) readPump(conn *websocket.Conn, mc *multiplayer.Conn) {
	defer conn.Close()

	conn.SetReadLimit(s.cfg.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				!errors.Is(err, websocket.ErrReadLimit) {
				s.logger.Debug("websocket read failed", "session", mc.SessionID(), "player", mc.PlayerID(), "error", err)
			}
			return
		}

		msg, err := multiplayer.Decode(data)
		if err != nil {
			s.logger.Debug("ignoring malformed message", "session", mc.SessionID(), "player", mc.PlayerID(), "error", err)
			continue
		}
		mc.Handle(msg)
	}
}

// writePump drains the sink onto the connection and keeps it alive with pings.
func (s *Server) writePump(conn *websocket.Conn, sink *multiplayer.ChannelSink) {
	ticker := time.NewTicker(s.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg := <-sink.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sink.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.cfg.WriteWait))
			return
		}
	}
}
