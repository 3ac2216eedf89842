// Package httpapi is the view-facing boundary: a JSON API over the store
// and survey controller plus a websocket stream of state snapshots. All
// logic lives below it; handlers only translate HTTP to store calls.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"homecontrol/internal/application"
	"homecontrol/internal/domain"
)

type Server struct {
	addr     string
	store    *application.HomeStore
	survey   *application.SurveyController
	scenes   *application.SceneRunner
	notifier application.Notifier
	logger   *slog.Logger

	hub     *hub
	handler http.Handler

	mu      sync.Mutex
	server  *http.Server
	running bool
}

func NewServer(
	addr string,
	store *application.HomeStore,
	survey *application.SurveyController,
	scenes *application.SceneRunner,
	notifier application.Notifier,
	logger *slog.Logger,
) *Server {
	s := &Server{
		addr:     addr,
		store:    store,
		survey:   survey,
		scenes:   scenes,
		notifier: notifier,
		logger:   logger,
		hub:      newHub(logger),
	}

	store.Subscribe(func(state domain.HomeState) {
		s.hub.broadcast(streamMessage{Type: "state", State: state})
	})

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/home", s.handleHome)
		r.Get("/monitoring", s.handleMonitoring)

		r.Get("/rooms", s.handleListRooms)
		r.Route("/rooms/{roomID}", func(r chi.Router) {
			r.Get("/", s.handleGetRoom)
			r.Patch("/", s.handlePatchRoom)
			r.Post("/door/toggle", s.handleToggleDoor)
			r.Post("/appliances", s.handleAddAppliance)
			r.Patch("/appliances/{applianceID}", s.handlePatchAppliance)
			r.Post("/appliances/{applianceID}/toggle", s.handleToggleAppliance)
		})

		r.Post("/appliances/toggle-all", s.handleToggleAll)
		r.Post("/night-mode/toggle", s.handleToggleNightMode)

		r.Get("/scenes", s.handleListScenes)
		r.Post("/scenes/{sceneID}/run", s.handleRunScene)

		r.Route("/survey", func(r chi.Router) {
			r.Get("/", s.handleSurveyStatus)
			r.Post("/rooms-count", s.handleSurveyRoomCount)
			r.Post("/room-names", s.handleSurveyRoomNames)
			r.Post("/draft", s.handleSurveyDraft)
			r.Post("/custom", s.handleSurveyCustom)
			r.Post("/next", s.handleSurveyNext)
			r.Post("/back", s.handleSurveyBack)
			r.Post("/reset", s.handleSurveyReset)
		})
	})
	r.Get("/stream", s.handleStream)
	r.Get("/health", s.handleHealth)

	s.handler = r
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("HTTP server starting", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.hub.close()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := s.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	s.running = false
	return nil
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.hub.serveWS(w, r, streamMessage{Type: "state", State: s.store.State()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

// notify pushes a toast to stream clients and the configured notifier.
func (s *Server) notify(ctx context.Context, message string) {
	s.hub.broadcast(streamMessage{Type: "notification", Message: message})
	if err := s.notifier.Notify(ctx, message); err != nil {
		s.logger.Error("notifying", "error", err)
	}
}
