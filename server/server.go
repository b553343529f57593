// Package server exposes stored timelines as interactive charts over HTTP.
// Each timeline id gets one widget; requests for the same id are serialised.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/safedep/dry/log"
	"github.com/safedep/timescope/config"
	"github.com/safedep/timescope/render/svg"
	"github.com/safedep/timescope/storage"
	"github.com/safedep/timescope/widget"
)

const maxBodyBytes = 1 << 16

// Options configures the server.
type Options struct {
	Addr         string
	Store        storage.Store
	Width        float64
	HistoryLimit int
	Location     *time.Location

	SliderHandleHref string
	ScrollPinHref    string
}

// Server serves chart documents and accepts widget interactions.
type Server struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*session
}

// session is one mounted widget. mu serialises its input events.
type session struct {
	mu         sync.Mutex
	doc        *svg.Document
	widget     *widget.Timeline
	importedAt time.Time
}

// StateResponse is the widget state returned by every interaction.
type StateResponse struct {
	TimelineID string  `json:"timeline_id"`
	SliderX    float64 `json:"slider_x"`
	HandleX    float64 `json:"handle_x"`
	PinX       float64 `json:"pin_x"`
	MaxRange   float64 `json:"max_range"`
	StartTime  int64   `json:"start_time"`
	PinTime    int64   `json:"pin_time,omitempty"`
	Moved      *bool   `json:"moved,omitempty"`
	Tooltip    string  `json:"tooltip,omitempty"`
}

type positionRequest struct {
	X   *float64 `json:"x"`
	End bool     `json:"end"`
}

type pinRequest struct {
	Time *int64 `json:"time"`
}

type hoverRequest struct {
	PageX float64 `json:"page_x"`
	PageY float64 `json:"page_y"`
}

// NewServer creates a new HTTP server.
func NewServer(opts Options) *Server {
	if opts.Width <= 0 {
		opts.Width = config.DefaultRenderWidth
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Server{
		opts:     opts,
		sessions: make(map[string]*session),
	}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /timelines/{id}/chart", s.handleChart)
	mux.HandleFunc("GET /timelines/{id}/chart.svg", s.handleChartSVG)
	mux.HandleFunc("POST /timelines/{id}/slider", s.handleSlider)
	mux.HandleFunc("POST /timelines/{id}/drag", s.handleDrag)
	mux.HandleFunc("POST /timelines/{id}/pin", s.handlePin)
	mux.HandleFunc("POST /timelines/{id}/tooltip", s.handleTooltipShow)
	mux.HandleFunc("DELETE /timelines/{id}/tooltip", s.handleTooltipHide)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.loggingMiddleware(mux)
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("Starting HTTP server on %s", s.opts.Addr)

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Infof("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

// session returns the widget for id, mounting it on first use. A timeline
// that was re-imported is mounted again, a removed one drops its session.
func (s *Server) session(ctx context.Context, id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.opts.Store.GetTimeline(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			delete(s.sessions, id)
		}
		return nil, err
	}

	width := s.opts.Width
	if sess, ok := s.sessions[id]; ok {
		if sess.importedAt.Equal(stored.ImportedAt) {
			return sess, nil
		}
		log.Infof("Timeline %s was re-imported, mounting it again", id)
		width = sess.widget.Layout().Width
	}

	writer := storage.NewStartTimeWriter(s.opts.Store, id, s.opts.HistoryLimit)
	latest, err := writer.Latest(ctx)
	if err != nil {
		return nil, err
	}

	doc := svg.NewDocument()
	w := widget.New(svg.NewCanvas(doc), writer, widget.Options{
		Location:         s.opts.Location,
		SliderHandleHref: s.opts.SliderHandleHref,
		ScrollPinHref:    s.opts.ScrollPinHref,
		SliderPosition:   latest,
	})

	if err := w.Initialize(ctx, &stored.Metadata, width); err != nil {
		log.Errorf("failed to store initial start time for %s: %v", id, err)
	}

	sess := &session{doc: doc, widget: w, importedAt: stored.ImportedAt}
	s.sessions[id] = sess
	return sess, nil
}

// withSession resolves the session of the request and runs fn under its lock.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, sess *session)) {
	id := r.PathValue("id")
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "timeline ID is required")
		return
	}

	sess, err := s.session(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("timeline %q not found", id))
			return
		}
		log.Errorf("failed to load timeline %s: %v", id, err)
		s.respondError(w, http.StatusInternalServerError, "failed to load timeline")
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	fn(id, sess)
}

// resize re-plots the chart when the request asks for another width.
func (s *Server) resize(r *http.Request, sess *session) error {
	raw := r.URL.Query().Get("width")
	if raw == "" {
		return nil
	}

	width, err := strconv.ParseFloat(raw, 64)
	if err != nil || width <= 0 {
		return fmt.Errorf("invalid width %q", raw)
	}
	if width == sess.widget.Layout().Width {
		return nil
	}

	md := sess.widget.Metadata()
	if err := sess.widget.Initialize(r.Context(), &md, width); err != nil {
		log.Errorf("failed to store start time: %v", err)
	}
	return nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session) {
		if err := s.resize(r, sess); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := sess.doc.WriteHTML(w, id); err != nil {
			log.Errorf("failed to write chart %s: %v", id, err)
		}
	})
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session) {
		if err := s.resize(r, sess); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		if err := sess.doc.WriteSVG(w); err != nil {
			log.Errorf("failed to write chart %s: %v", id, err)
		}
	})
}

func (s *Server) handleSlider(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.X == nil {
		s.respondError(w, http.StatusBadRequest, "x is required")
		return
	}

	s.withSession(w, r, func(id string, sess *session) {
		if err := sess.widget.UpdateSlider(r.Context(), *req.X); err != nil {
			log.Errorf("failed to update slider of %s: %v", id, err)
			s.respondError(w, http.StatusInternalServerError, "failed to store start time")
			return
		}
		s.respondJSON(w, http.StatusOK, stateOf(id, sess.widget))
	})
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.X == nil {
		s.respondError(w, http.StatusBadRequest, "x is required")
		return
	}

	s.withSession(w, r, func(id string, sess *session) {
		if !req.End {
			sess.widget.OnDragMove(*req.X)
			s.respondJSON(w, http.StatusOK, stateOf(id, sess.widget))
			return
		}

		if _, err := sess.widget.OnDragEnd(r.Context(), *req.X); err != nil {
			log.Errorf("failed to commit drag of %s: %v", id, err)
			s.respondError(w, http.StatusInternalServerError, "failed to store start time")
			return
		}
		s.respondJSON(w, http.StatusOK, stateOf(id, sess.widget))
	})
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Time == nil {
		s.respondError(w, http.StatusBadRequest, "time is required")
		return
	}

	s.withSession(w, r, func(id string, sess *session) {
		moved := sess.widget.UpdatePin(time.UnixMilli(*req.Time))
		state := stateOf(id, sess.widget)
		state.Moved = &moved
		s.respondJSON(w, http.StatusOK, state)
	})
}

func (s *Server) handleTooltipShow(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.withSession(w, r, func(id string, sess *session) {
		sess.widget.OnPinHoverEnter(req.PageX, req.PageY)
		s.respondJSON(w, http.StatusOK, stateOf(id, sess.widget))
	})
}

func (s *Server) handleTooltipHide(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session) {
		sess.widget.OnPinHoverLeave()
		s.respondJSON(w, http.StatusOK, stateOf(id, sess.widget))
	})
}

// Health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func stateOf(id string, w *widget.Timeline) StateResponse {
	state := StateResponse{
		TimelineID: id,
		SliderX:    w.SliderX(),
		HandleX:    w.HandleX(),
		PinX:       w.PinX(),
		MaxRange:   w.Layout().MaxRange,
		StartTime:  w.SliderTime().UnixMilli(),
	}
	if pt := w.PinTime(); !pt.IsZero() {
		state.PinTime = pt.UnixMilli()
	}
	if tip := w.Tooltip(); tip != nil {
		state.Tooltip = tip.Text
	}
	return state
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// Middleware for request logging
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		log.Infof("HTTP request method=%s path=%s status=%d duration=%s",
			r.Method, r.URL.Path, wrapper.statusCode, time.Since(start))
	})
}

// Response helpers
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("failed to encode JSON response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	log.Warnf("HTTP error response status=%d message=%s", status, message)
	s.respondJSON(w, status, map[string]string{"error": message})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
