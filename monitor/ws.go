// SPDX-License-Identifier: EPL-2.0

package monitor

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/stagemix/engine"
)

const writeWait = 5 * time.Second

// Update is the message pushed to websocket clients.
type Update struct {
	State  engine.Snapshot `json:"state"`
	Levels LevelsPayload   `json:"levels"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Only the newest snapshot matters; a slow client skips older ones.
	updates := make(chan engine.Snapshot, 1)
	push := func(snap engine.Snapshot) {
		select {
		case updates <- snap:
			return
		default:
		}
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- snap:
		default:
		}
	}

	sub := s.eng.OnStateChange(push)
	defer sub.Cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.log.Debug("websocket client connected", zap.String("remote", r.RemoteAddr))
	push(s.eng.State())

	for {
		select {
		case <-closed:
			s.log.Debug("websocket client gone", zap.String("remote", r.RemoteAddr))
			return
		case snap := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Update{State: snap, Levels: s.levels()}); err != nil {
				s.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}
