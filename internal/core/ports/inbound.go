package ports

import (
	"context"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
)

// IndexRebuilder is the inbound contract for the offline ingestion run.
// Rebuild clears the whole index and repopulates it; the destructive
// semantics are part of the name on purpose.
type IndexRebuilder interface {
	Rebuild(ctx context.Context) (domain.IngestSummary, error)
}

// ChatService answers one conversation turn, optionally augmented with
// retrieved Blue Book evidence.
type ChatService interface {
	Answer(ctx context.Context, history []domain.ChatMessage) (domain.ChatResult, error)
}
