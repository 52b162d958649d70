package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"formchat/internal/classifier"
	"formchat/internal/config"
	"formchat/internal/relay"
	"formchat/internal/store"
	"formchat/internal/types"
	"formchat/internal/webhook"
)

const (
	maxBodyBytes          = 64 << 10
	defaultWebhookTimeout = 30 * time.Second
)

type Server struct {
	router     *chi.Mux
	cfg        config.Config
	relay      *relay.Service
	classifier *classifier.Classifier
	inflight   *store.InFlight
	log        *slog.Logger
}

func NewServer(cfg config.Config) (*Server, error) {
	log := slog.Default()
	if cfg.WebhookTimeout <= 0 {
		cfg.WebhookTimeout = defaultWebhookTimeout
	}

	hook, err := webhook.NewClient(cfg.WebhookURL, webhook.WithTimeout(cfg.WebhookTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook client: %w", err)
	}
	rs, err := relay.NewService(hook, cfg.MaxMessageLength, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create relay: %w", err)
	}
	cls, err := classifier.Load(cfg.ClassifierRules)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier rules: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Session-Id"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:     r,
		cfg:        cfg,
		relay:      rs,
		classifier: cls,
		inflight:   store.NewInFlight(cfg.WebhookTimeout + 5*time.Second),
		log:        log,
	}
	s.routes()
	log.Info("relay configured", "webhook", hook.URL(), "timeout", cfg.WebhookTimeout)
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Post("/api/classify", s.handleClassify)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /api/chat
// { message } -> { reply }. Failures still answer with a reply the page can
// show, under a non-2xx status. A session gets one webhook call at a time.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, types.ChatResponse{Reply: relay.FailureReply})
		return
	}
	sid := s.getOrCreateSessionID(r, w)
	w.Header().Set("X-Session-Id", sid)

	if !s.inflight.TryAcquire(sid) {
		s.log.Warn("rejecting concurrent message", "session", sid)
		s.writeJSON(w, http.StatusTooManyRequests, types.ChatResponse{Reply: relay.FailureReply})
		return
	}
	defer s.inflight.Release(sid)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.WebhookTimeout)
	defer cancel()
	start := time.Now()
	reply, err := s.relay.Relay(ctx, sid, req.Message)
	if err != nil {
		status := http.StatusInternalServerError
		var relayErr *relay.Error
		if errors.As(err, &relayErr) && relayErr.Code == relay.ErrorInvalidInput {
			status = http.StatusBadRequest
		}
		s.log.Error("relay failed",
			"request_id", middleware.GetReqID(r.Context()),
			"session", sid,
			"err", err,
			"elapsed", time.Since(start))
		s.writeJSON(w, status, types.ChatResponse{Reply: relay.FailureReply})
		return
	}
	s.log.Info("relay ok",
		"request_id", middleware.GetReqID(r.Context()),
		"session", sid,
		"elapsed", time.Since(start))
	s.writeJSON(w, http.StatusOK, types.ChatResponse{Reply: reply})
}

// POST /api/classify
// { text } -> { inputType, options, placeholder }
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req types.ClassifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "invalid JSON body"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.classifier.Classify(req.Text))
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// getSessionID retrieves the session ID from cookie or header
func getSessionID(r *http.Request) string {
	if cookie, err := GetSessionCookie(r); err == nil && validSessionID(cookie) {
		return cookie
	}
	if sid := r.Header.Get("X-Session-Id"); validSessionID(sid) {
		return sid
	}
	return ""
}

func validSessionID(sid string) bool {
	if sid == "" || len(sid) > 128 {
		return false
	}
	return !strings.ContainsFunc(sid, func(r rune) bool {
		return r <= ' ' || r == 0x7f || r == ';' || r == ','
	})
}

// getOrCreateSessionID gets existing session ID or creates a new one. The
// cookie is (re)issued either way so an active session keeps sliding.
func (s *Server) getOrCreateSessionID(r *http.Request, w http.ResponseWriter) string {
	sid := getSessionID(r)
	if sid == "" {
		sid = relay.NewSessionID()
		s.log.Debug("creating new session", "session", sid, "path", r.URL.Path)
	}
	SetSessionCookie(w, r, sid, s.cfg.SessionMaxAge)
	return sid
}
