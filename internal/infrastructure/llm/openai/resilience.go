package openai

import (
	"context"
	"errors"
	"net"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
	"github.com/jakehanson/ssa-disability-app/internal/infrastructure/resilience"
)

// wrapProviderError maps raw provider failures onto the domain taxonomy.
// Transient upstream trouble becomes ErrTemporary (503 at the edge), every
// other structured provider failure becomes ErrUpstream with the provider's
// message preserved.
func wrapProviderError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		statusErr := &domain.UpstreamStatusError{
			Status:  apiErr.HTTPStatusCode,
			Message: apiErr.Message,
			Err:     err,
		}
		if isTransientStatus(apiErr.HTTPStatusCode) {
			return domain.WrapError(domain.ErrTemporary, operation, statusErr)
		}
		return domain.WrapError(domain.ErrUpstream, operation, statusErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return domain.WrapError(domain.ErrUpstream, operation, err)
}

func recordAsBreakerFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return isTransientStatus(apiErr.HTTPStatusCode)
	}
	return true
}

func isTransientStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
