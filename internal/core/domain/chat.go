package domain

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of the caller-supplied conversation history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// LatestUserIndex returns the position of the most recent user message, or
// -1 when the history has none. That message is the sole query input to the
// relevance gate and retriever.
func LatestUserIndex(history []ChatMessage) int {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return i
		}
	}
	return -1
}

// CompletionOptions tune a single completion call. The classifier call caps
// output at one token with zero temperature; the answer call leaves both
// unconstrained.
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
}

// EvidenceMatch is one similarity hit, alive only for the request that
// produced it.
type EvidenceMatch struct {
	Text    string  `json:"text"`
	Section string  `json:"section"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// ChatResult is the outcome of one answered request.
type ChatResult struct {
	Reply         string          `json:"reply"`
	RetrievalUsed bool            `json:"retrieval_used"`
	Evidence      []EvidenceMatch `json:"evidence,omitempty"`
}
