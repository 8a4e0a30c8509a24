// Package api 是引擎的薄 HTTP 外壳：展示层读取推荐与理由，
// 埋点层上报点击/预订，反馈端点上报显式反馈，分析层读取聚合指标。
// 画像与候选由调用方随请求解析传入，引擎不主动拉取。
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/travelie/recommend/core"
	"github.com/travelie/recommend/recset"
)

// Server 持有处理请求所需的依赖。
type Server struct {
	mgr *recset.Manager
	log zerolog.Logger
}

func NewServer(mgr *recset.Manager, log zerolog.Logger) *Server {
	return &Server{mgr: mgr, log: log}
}

// Routes 组装路由。
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Route("/v1/recommendations/{userID}", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Get("/", s.handleGet)
		r.Get("/metrics", s.handleMetrics)
		r.Post("/events/click", s.handleClick)
		r.Post("/events/booking", s.handleBooking)
		r.Post("/events/feedback", s.handleFeedback)
	})
	return r
}

// requestLogger 是最小请求日志中间件。
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type generateRequest struct {
	Profile    *core.PreferenceProfile `json:"profile"`
	Candidates []*core.Tour            `json:"candidates"`
	Settings   *core.Settings          `json:"settings,omitempty"`
	TTLSeconds int                     `json:"ttlSeconds,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := s.mgr.Generate(r.Context(), userID, req.Profile, req.Candidates, recset.GenerateOptions{
		Settings: req.Settings,
		TTL:      time.Duration(req.TTLSeconds) * time.Second,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	set, err := s.mgr.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.mgr.Metrics(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, metrics)
}

type clickRequest struct {
	EntryID  string `json:"entryId"`
	Position int    `json:"position"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EntryID == "" {
		s.writeError(w, http.StatusBadRequest, "entryId is required")
		return
	}
	if err := s.mgr.RecordClick(r.Context(), userID, req.EntryID, req.Position); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

type bookingRequest struct {
	EntryID string  `json:"entryId"`
	Value   float64 `json:"value"`
}

func (s *Server) handleBooking(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EntryID == "" {
		s.writeError(w, http.StatusBadRequest, "entryId is required")
		return
	}
	if err := s.mgr.RecordBooking(r.Context(), userID, req.EntryID, req.Value); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

type feedbackRequest struct {
	EntryID   string `json:"entryId"`
	Sentiment string `json:"sentiment"`
	Reason    string `json:"reason,omitempty"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EntryID == "" {
		s.writeError(w, http.StatusBadRequest, "entryId is required")
		return
	}
	if err := s.mgr.RecordFeedback(r.Context(), userID, req.EntryID, req.Sentiment, req.Reason); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

// writeDomainError 把领域错误映射为 HTTP 状态：
// NOT_FOUND → 404，INVALID_INPUT → 400，UNAVAILABLE（可重试）→ 503。
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case core.IsNotFound(err):
		s.writeError(w, http.StatusNotFound, err.Error())
	case core.IsRetryable(err):
		w.Header().Set("Retry-After", "1")
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		if de := core.GetDomainError(err); de != nil && de.Code == core.ErrorCodeInvalidInput {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}
