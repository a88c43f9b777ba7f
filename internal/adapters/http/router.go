package httpadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
	"github.com/jakehanson/ssa-disability-app/internal/core/ports"
	"github.com/jakehanson/ssa-disability-app/internal/observability/metrics"
)

const serviceName = "api"

type Options struct {
	Logger           *slog.Logger
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxInFlight      int
	BackpressureWait time.Duration
}

type Router struct {
	chat    ports.ChatService
	metrics *metrics.HTTPServerMetrics
	logger  *slog.Logger
	opts    Options
}

func NewRouter(chat ports.ChatService, m *metrics.HTTPServerMetrics, opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		chat:    chat,
		metrics: m,
		logger:  logger,
		opts:    opts,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/api/chat", rt.handleChat)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.opts.MaxInFlight, rt.opts.BackpressureWait)
	handler = rateLimitMiddleware(handler, rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
	Message  string               `json:"message"`
}

func (rt *Router) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	history, errMsg := buildHistory(req)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	start := time.Now()
	result, err := rt.chat.Answer(r.Context(), history)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		rt.logger.Error("chat request failed",
			"request_id", requestIDFromContext(r.Context()),
			"status", status,
			"error", err)
		writeJSON(w, status, map[string]string{"error": clientErrorMessage(err, status)})
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordChatAnswer(serviceName, result.RetrievalUsed, len(result.Evidence), time.Since(start))
	}
	writeJSON(w, http.StatusOK, result)
}

// buildHistory accepts either a full message history or the single-message
// shorthand. Returns a non-empty error message when the request is invalid.
func buildHistory(req chatRequest) ([]domain.ChatMessage, string) {
	if len(req.Messages) == 0 {
		if strings.TrimSpace(req.Message) == "" {
			return nil, "either 'messages' or 'message' is required"
		}
		return []domain.ChatMessage{{Role: domain.RoleUser, Content: req.Message}}, ""
	}

	for i, m := range req.Messages {
		switch m.Role {
		case domain.RoleSystem, domain.RoleUser, domain.RoleAssistant:
		default:
			return nil, fmt.Sprintf("messages[%d] has unsupported role %q", i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, fmt.Sprintf("messages[%d] has empty content", i)
		}
	}
	return req.Messages, ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
