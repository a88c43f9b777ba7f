package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("configuration incomplete")
	ErrNoSections    = errors.New("no sections discovered")
	ErrEmptyContent  = errors.New("empty scraped content")
	ErrNoEmbedding   = errors.New("no embedding returned")
	ErrIndexWrite    = errors.New("index write failed")
	ErrUpstream      = errors.New("upstream provider failure")
	ErrInvalidInput  = errors.New("invalid input")
	ErrTemporary     = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// UpstreamStatusError carries an upstream provider's HTTP status and public
// message through the domain boundary, so the edge can propagate the
// provider's status instead of collapsing everything to one failure code.
type UpstreamStatusError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream status %d", e.Status)
}

func (e *UpstreamStatusError) Unwrap() error { return e.Err }

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
