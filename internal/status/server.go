// Package status serves the state of the running session over HTTP, for
// displays other than the terminal.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
	"git.lost.host/meutraa/keyed/internal/score"
	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type Snapshot struct {
	Song       string     `json:"song"`
	Mode       string     `json:"mode"`
	Speed      float64    `json:"speed"`
	Time       float64    `json:"time"` // Seconds, negative during the lead-in
	Percentage float64    `json:"percentage"`
	Paused     bool       `json:"paused"`
	Waiting    bool       `json:"waiting"` // Required keys are not all pressed
	Required   []int      `json:"required"`
	Stats      game.Stats `json:"stats"`
}

type Server struct {
	mu       sync.RWMutex
	snapshot Snapshot

	history func() ([]score.History, error)
	server  *http.Server
}

// New returns a server for addr. history may be nil.
func New(addr string, history func() ([]score.History, error)) *Server {
	s := &Server{history: history}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	return cors.Default().Handler(r)
}

// Publish replaces the snapshot served. It is safe to call while serving.
func (s *Server) Publish(snapshot Snapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
}

func (s *Server) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Start listens and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if nil != err {
		return fmt.Errorf("unable to listen on %v: %w", s.server.Addr, err)
	}
	log.Info("serving status", "addr", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); nil != err && !errors.Is(err, http.ErrServerClosed) {
			log.Error("status server stopped", "err", err)
		}
	}()
	return nil
}

func (s *Server) Close(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if nil == s.history {
		writeJSON(w, http.StatusOK, []score.History{})
		return
	}
	histories, err := s.history()
	if nil != err {
		log.Warn("unable to load history", "err", err)
		http.Error(w, "unable to load history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, histories)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); nil != err {
		log.Warn("unable to write response", "err", err)
	}
}
