package httpadapter

import (
	"errors"
	"net/http"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	// A provider status travels with the error; prefer it over the generic
	// per-kind code so the caller sees what the upstream actually said.
	var upstream *domain.UpstreamStatusError
	if errors.As(err, &upstream) && upstream.Status >= 400 {
		return upstream.Status
	}

	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// clientErrorMessage picks the body message for a failed request. Provider
// messages are already public; everything else gets a fixed phrase so
// internal wrap chains never leak.
func clientErrorMessage(err error, status int) string {
	var upstream *domain.UpstreamStatusError
	if errors.As(err, &upstream) && upstream.Message != "" {
		return upstream.Message
	}

	switch status {
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	case http.StatusBadGateway:
		return "upstream provider error"
	default:
		return "internal error"
	}
}
