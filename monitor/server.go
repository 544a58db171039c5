// SPDX-License-Identifier: EPL-2.0

package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ik5/stagemix/engine"
)

// Engine is the part of *engine.Engine the monitor exposes.
type Engine interface {
	State() engine.Snapshot
	Levels() map[string]engine.Level
	MasterLevel() engine.Level
	Play() error
	Pause()
	Stop()
	Seek(seconds float64)
	SetTrackVolume(id string, volume float64) error
	SetTrackBalance(id string, balance float64) error
	SetTrackMute(id string, muted bool) error
	SetTrackSolo(id string, solo bool) error
	SetMasterVolume(volume float64)
	OnStateChange(fn func(engine.Snapshot)) engine.Subscription
}

// Server exposes engine state and controls over HTTP and pushes state
// changes to websocket clients.
type Server struct {
	eng      Engine
	log      *zap.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
}

func New(eng Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		eng:    eng,
		log:    log,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	s.router.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	s.router.HandleFunc("/levels", s.handleLevels).Methods(http.MethodGet)
	s.router.HandleFunc("/transport/seek", s.handleSeek).Methods(http.MethodPost)
	s.router.HandleFunc("/transport/{action:play|pause|stop}", s.handleTransport).Methods(http.MethodPost)
	s.router.HandleFunc("/tracks/{id}", s.handleTrack).Methods(http.MethodPut)
	s.router.HandleFunc("/master", s.handleMaster).Methods(http.MethodPut)
	s.router.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("monitor listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("monitor: %w", err)
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return fmt.Errorf("monitor shutdown: %w", err)
		}
		return nil
	}
}

// LevelsPayload is the body of GET /levels and part of every push.
type LevelsPayload struct {
	Master engine.Level            `json:"master"`
	Tracks map[string]engine.Level `json:"tracks"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorPayload{Error: err.Error()})
}

func (s *Server) levels() LevelsPayload {
	return LevelsPayload{Master: s.eng.MasterLevel(), Tracks: s.eng.Levels()}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.eng.State())
}

func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.levels())
}

func (s *Server) handleTransport(w http.ResponseWriter, r *http.Request) {
	switch mux.Vars(r)["action"] {
	case "play":
		if err := s.eng.Play(); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, engine.ErrContextUnavailable) {
				status = http.StatusServiceUnavailable
			}
			s.writeError(w, status, err)
			return
		}
	case "pause":
		s.eng.Pause()
	case "stop":
		s.eng.Stop()
	}

	s.writeJSON(w, http.StatusOK, s.eng.State())
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid seek time: %w", err))
		return
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid seek time: %v", t))
		return
	}

	s.eng.Seek(t)
	s.writeJSON(w, http.StatusOK, s.eng.State())
}

// TrackUpdate is the body of PUT /tracks/{id}; absent fields are left alone.
type TrackUpdate struct {
	Volume  *float64 `json:"volume"`
	Balance *float64 `json:"balance"`
	Muted   *bool    `json:"muted"`
	Solo    *bool    `json:"solo"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var u TrackUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}

	var err error
	if u.Volume != nil && err == nil {
		err = s.eng.SetTrackVolume(id, *u.Volume)
	}
	if u.Balance != nil && err == nil {
		err = s.eng.SetTrackBalance(id, *u.Balance)
	}
	if u.Muted != nil && err == nil {
		err = s.eng.SetTrackMute(id, *u.Muted)
	}
	if u.Solo != nil && err == nil {
		err = s.eng.SetTrackSolo(id, *u.Solo)
	}

	switch {
	case errors.Is(err, engine.ErrUnknownTrack):
		s.writeError(w, http.StatusNotFound, err)
	case err != nil:
		s.writeError(w, http.StatusBadRequest, err)
	default:
		s.writeJSON(w, http.StatusOK, s.eng.State())
	}
}

type masterUpdate struct {
	Volume *float64 `json:"volume"`
}

func (s *Server) handleMaster(w http.ResponseWriter, r *http.Request) {
	var u masterUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil || u.Volume == nil {
		s.writeError(w, http.StatusBadRequest, errors.New("body must be {\"volume\": number}"))
		return
	}

	s.eng.SetMasterVolume(*u.Volume)
	s.writeJSON(w, http.StatusOK, s.eng.State())
}
