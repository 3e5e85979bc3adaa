package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// FlowMeta holds operational metadata for one flow execution.
type FlowMeta struct {
	FlowName string
	Usage    TokenUsage
	Latency  time.Duration
}
