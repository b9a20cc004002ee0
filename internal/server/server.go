package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/haytac/social-post-bot/internal/metrics"
	"github.com/haytac/social-post-bot/internal/social"
	"github.com/haytac/social-post-bot/pkg/interfaces"
)

const maxBodyBytes = 1 << 20

// Options configures the HTTP API.
type Options struct {
	DefaultChatID string
	DryRun        bool
}

// Server exposes the formatter and notifier over HTTP.
type Server struct {
	formatter interfaces.Formatter
	notifier  interfaces.Notifier
	opts      Options
}

// New creates a Server.
func New(f interfaces.Formatter, n interfaces.Notifier, opts Options) *Server {
	return &Server{formatter: f, notifier: n, opts: opts}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/format", s.handleFormat)
		r.Post("/errors", s.handleError)
		r.Post("/send", s.handleSend)
	})
	return r
}

type formatResponse struct {
	Text  string                            `json:"text"`
	Parts []interfaces.FormattedMessagePart `json:"parts"`
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	post, err := social.DecodePost(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	parts, err := s.formatter.Render(r.Context(), post)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, formatResponse{Text: s.formatter.FormatPost(post), Parts: parts})
}

type errorRequest struct {
	Platform string `json:"platform"`
	Error    string `json:"error"`
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request) {
	var req errorRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	parts := s.formatter.RenderError(req.Platform, req.Error)
	writeJSON(w, http.StatusOK, map[string]string{"text": parts[0].Text})
}

type sendRequest struct {
	ChatID string       `json:"chat_id"`
	Post   *social.Post `json:"post"`
}

type sendResponse struct {
	Parts  int  `json:"parts"`
	DryRun bool `json:"dry_run,omitempty"`
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Post == nil {
		writeError(w, http.StatusBadRequest, social.ErrEmptyInput)
		return
	}
	chatID := req.ChatID
	if chatID == "" {
		chatID = s.opts.DefaultChatID
	}
	if chatID == "" {
		writeError(w, http.StatusBadRequest, errors.New("chat_id is required"))
		return
	}

	parts, err := s.formatter.Render(r.Context(), req.Post)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if s.opts.DryRun {
		log.Info().Str("chat_id", chatID).Interface("formatted_parts", parts).Msg("[DRY RUN] Would send formatted post")
		writeJSON(w, http.StatusOK, sendResponse{Parts: len(parts), DryRun: true})
		return
	}
	if err := s.notifier.Send(r.Context(), chatID, parts); err != nil {
		log.Error().Err(err).Str("chat_id", chatID).Str("notifier", s.notifier.Name()).Msg("Failed to send post")
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, sendResponse{Parts: len(parts)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// requestLogger attaches a request-scoped zerolog logger to the context and
// records one log line and one metric per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		l := log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(l.WithContext(r.Context())))

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		l.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
