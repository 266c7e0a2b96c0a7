package llm

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// Request is one chat-completion call against a single backend.
type Request struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

type Response struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// Client is implemented by every backend transport.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// splitSystem separates system-role messages from the conversational turns.
func splitSystem(messages []ChatMessage) (system []string, turns []ChatMessage) {
	for _, msg := range messages {
		if msg.Role == ChatRoleSystem {
			system = append(system, msg.Content)
			continue
		}
		turns = append(turns, msg)
	}
	return system, turns
}
