package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// handleStream upgrades to a websocket; every text frame holding an
// EvalRequest is answered with one Evaluation or error frame.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxRequestBytes)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("stream closed", "error", err)
			}
			return
		}

		var reply interface{}
		req, err := decodeEvalRequest(data)
		if err != nil {
			reply = errorResponse{Error: err.Error()}
		} else if evaluation, err := s.evaluations.Evaluate(r.Context(), *req.Op, *req.X, *req.Y); err != nil {
			reply = errorResponse{Error: err.Error()}
		} else {
			reply = evaluation
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Debug("stream write failed", "error", err)
			return
		}
	}
}
