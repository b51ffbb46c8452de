package llm

import (
	"context"
	"errors"

	"github.com/dost-app/dost/internal/tools"
)

// ErrNoChoices is returned when the provider answers without any choice.
var ErrNoChoices = errors.New("model returned no choices")

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry of the prompt sent to the model.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall // set on assistant messages that requested tools
	ToolCallID string     // set on tool-result messages
}

// ToolCall is a tool invocation requested by the model. Arguments is the raw
// JSON text the model produced.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

type Request struct {
	Messages    []Message
	Tools       []tools.ToolSpec
	MaxTokens   int
	Temperature float64
}

type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// ChatModel completes a chat request with a blocking round-trip.
type ChatModel interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
