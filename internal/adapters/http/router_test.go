package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
)

type chatServiceFake struct {
	histories [][]domain.ChatMessage
	result    domain.ChatResult
	err       error
}

func (f *chatServiceFake) Answer(_ context.Context, history []domain.ChatMessage) (domain.ChatResult, error) {
	turn := make([]domain.ChatMessage, len(history))
	copy(turn, history)
	f.histories = append(f.histories, turn)
	if f.err != nil {
		return domain.ChatResult{}, f.err
	}
	return f.result, nil
}

func postChat(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestChatAcceptsMessageShorthand(t *testing.T) {
	svc := &chatServiceFake{result: domain.ChatResult{Reply: "hello", RetrievalUsed: false}}
	handler := NewRouter(svc, nil, Options{}).Handler()

	res := postChat(t, handler, `{"message":"what is listing 1.02?"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}

	var reply domain.ChatResult
	if err := json.Unmarshal(res.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if reply.Reply != "hello" {
		t.Errorf("reply = %q", reply.Reply)
	}

	if len(svc.histories) != 1 || len(svc.histories[0]) != 1 {
		t.Fatalf("unexpected histories: %+v", svc.histories)
	}
	got := svc.histories[0][0]
	if got.Role != domain.RoleUser || got.Content != "what is listing 1.02?" {
		t.Errorf("shorthand not mapped to user turn: %+v", got)
	}
}

func TestChatAcceptsFullHistory(t *testing.T) {
	svc := &chatServiceFake{result: domain.ChatResult{Reply: "ok"}}
	handler := NewRouter(svc, nil, Options{}).Handler()

	res := postChat(t, handler, `{"messages":[
		{"role":"user","content":"hi"},
		{"role":"assistant","content":"hello"},
		{"role":"user","content":"tell me about vision listings"}
	]}`)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}
	if len(svc.histories[0]) != 3 {
		t.Fatalf("history length = %d, want 3", len(svc.histories[0]))
	}
}

func TestChatRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"blank shorthand", `{"message":"   "}`},
		{"invalid json", `{"message":`},
		{"unsupported role", `{"messages":[{"role":"tool","content":"x"}]}`},
		{"empty content", `{"messages":[{"role":"user","content":" "}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &chatServiceFake{}
			handler := NewRouter(svc, nil, Options{}).Handler()
			res := postChat(t, handler, tc.body)
			if res.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", res.Code)
			}
			if len(svc.histories) != 0 {
				t.Fatalf("service called for invalid request")
			}
		})
	}
}

func TestChatRejectsNonPost(t *testing.T) {
	handler := NewRouter(&chatServiceFake{}, nil, Options{}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", res.Code)
	}
}

func TestChatMapsDomainErrorsToStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", domain.WrapError(domain.ErrInvalidInput, "answer chat", domain.ErrInvalidInput), http.StatusBadRequest},
		{"temporary", domain.WrapError(domain.ErrTemporary, "answer chat", domain.ErrTemporary), http.StatusServiceUnavailable},
		{"upstream", domain.WrapError(domain.ErrUpstream, "answer chat", domain.ErrUpstream), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewRouter(&chatServiceFake{err: tc.err}, nil, Options{}).Handler()
			res := postChat(t, handler, `{"message":"q"}`)
			if res.Code != tc.want {
				t.Fatalf("status = %d, want %d", res.Code, tc.want)
			}
			if strings.Contains(res.Body.String(), "answer chat") {
				t.Fatalf("internal error detail leaked: %s", res.Body.String())
			}
		})
	}
}

func TestChatPropagatesProviderStatus(t *testing.T) {
	cases := []struct {
		name    string
		kind    error
		status  int
		message string
	}{
		{"provider 401", domain.ErrUpstream, http.StatusUnauthorized, "Incorrect API key provided"},
		{"provider 429", domain.ErrTemporary, http.StatusTooManyRequests, "Rate limit reached"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.WrapError(tc.kind, "complete", &domain.UpstreamStatusError{
				Status:  tc.status,
				Message: tc.message,
				Err:     errors.New("provider response"),
			})
			handler := NewRouter(&chatServiceFake{err: err}, nil, Options{}).Handler()

			res := postChat(t, handler, `{"message":"q"}`)
			if res.Code != tc.status {
				t.Fatalf("status = %d, want provider status %d", res.Code, tc.status)
			}

			var body map[string]string
			if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body["error"] != tc.message {
				t.Fatalf("error message = %q, want provider message %q", body["error"], tc.message)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	handler := NewRouter(&chatServiceFake{}, nil, Options{}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header on response")
	}
}
