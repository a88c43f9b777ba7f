package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
	"github.com/jakehanson/ssa-disability-app/internal/core/ports"
)

const (
	DefaultRetrievalTopK = 3

	// DefaultPersona is the system prompt for the answering call. It is not
	// sent to the classifier, whose prompt is fixed.
	DefaultPersona = "You are a careful assistant for questions about the SSA Blue Book " +
		"disability listings. Ground your answers in the provided passages when " +
		"they are present, cite section numbers when you use them, and never " +
		"present yourself as giving legal or medical advice."
)

// ChatUseCase answers one conversation turn. Each request first runs a
// cheap relevance gate; only questions the gate judges on-topic pay for an
// embedding and an index query.
type ChatUseCase struct {
	embedder  ports.Embedder
	index     ports.VectorIndex
	completer ports.Completer
	topK      int
	persona   string
	logger    *slog.Logger
}

func NewChatUseCase(
	embedder ports.Embedder,
	index ports.VectorIndex,
	completer ports.Completer,
	topK int,
	persona string,
	logger *slog.Logger,
) *ChatUseCase {
	if topK <= 0 {
		topK = DefaultRetrievalTopK
	}
	if persona == "" {
		persona = DefaultPersona
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatUseCase{
		embedder:  embedder,
		index:     index,
		completer: completer,
		topK:      topK,
		persona:   persona,
		logger:    logger,
	}
}

func (uc *ChatUseCase) Answer(ctx context.Context, history []domain.ChatMessage) (domain.ChatResult, error) {
	var result domain.ChatResult

	userIdx := domain.LatestUserIndex(history)
	if userIdx < 0 {
		return result, domain.WrapError(domain.ErrInvalidInput, "answer chat",
			fmt.Errorf("history contains no user message"))
	}
	question := history[userIdx].Content

	needsRetrieval, err := uc.needsRetrieval(ctx, question)
	if err != nil {
		return result, fmt.Errorf("answer chat: %w", err)
	}

	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: uc.persona})
	messages = append(messages, history...)

	if needsRetrieval {
		evidence, err := uc.retrieve(ctx, question)
		if err != nil {
			return result, fmt.Errorf("answer chat: %w", err)
		}
		result.RetrievalUsed = true
		result.Evidence = evidence

		// The latest user turn is replaced in place so the model still sees
		// the question at its original position in the conversation.
		messages[userIdx+1] = domain.ChatMessage{
			Role:    domain.RoleUser,
			Content: buildAugmentedQuestion(question, FormatEvidenceBlock(evidence)),
		}
	}

	reply, err := uc.completer.Complete(ctx, messages, domain.CompletionOptions{})
	if err != nil {
		return result, fmt.Errorf("answer chat: %w", err)
	}

	result.Reply = reply
	uc.logger.Info("chat answered",
		"retrieval_used", result.RetrievalUsed,
		"evidence_count", len(result.Evidence))
	return result, nil
}

func (uc *ChatUseCase) needsRetrieval(ctx context.Context, question string) (bool, error) {
	reply, err := uc.completer.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: classifierPrompt},
		{Role: domain.RoleUser, Content: question},
	}, domain.CompletionOptions{Temperature: 0, MaxTokens: 1})
	if err != nil {
		return false, fmt.Errorf("classify relevance: %w", err)
	}
	verdict := ParseVerdict(reply)
	uc.logger.Debug("relevance verdict", "reply", reply, "retrieve", verdict)
	return verdict, nil
}

func (uc *ChatUseCase) retrieve(ctx context.Context, question string) ([]domain.EvidenceMatch, error) {
	vector, err := uc.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches, err := uc.index.Query(ctx, vector, uc.topK)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	kept := matches[:0]
	for _, m := range matches {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		kept = append(kept, m)
	}
	return kept, nil
}
