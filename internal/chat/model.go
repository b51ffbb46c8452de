package chat

import (
	"github.com/dost-app/dost/internal/llm"
	"github.com/dost-app/dost/internal/tools"
)

// ChatRequest is the body of POST /chat and POST /api/chat.
type ChatRequest struct {
	Message             string         `json:"message" validate:"required"`
	UserName            string         `json:"userName"`
	UserNameAlt         string         `json:"user_name"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
	Interests           []string       `json:"interests"`
	Emotion             string         `json:"emotion"`
}

// HistoryEntry is a prior turn supplied by the client. Any length of
// history is accepted; only the most recent turns reach the model.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is returned for every handled chat request, including model
// and tool failures, whose description is carried in Response.
type ChatResponse struct {
	Response     string        `json:"response"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
}

// FunctionCall is a client-executed tool request surfaced to the caller.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Input is the ingested form of a chat request.
type Input struct {
	Message   string
	Name      string
	Interests []string
	Emotion   string
	History   []llm.Message
}

// Reply is the outcome of one orchestration run.
type Reply struct {
	Text         string
	FunctionCall *tools.Invocation
}

// ToInput resolves name aliases and converts client history.
func (r ChatRequest) ToInput() Input {
	name := r.UserName
	if name == "" {
		name = r.UserNameAlt
	}

	history := make([]llm.Message, 0, len(r.ConversationHistory))
	for _, h := range r.ConversationHistory {
		history = append(history, llm.Message{Role: h.Role, Content: h.Content})
	}

	return Input{
		Message:   r.Message,
		Name:      name,
		Interests: r.Interests,
		Emotion:   r.Emotion,
		History:   history,
	}
}

func toResponse(reply *Reply) ChatResponse {
	resp := ChatResponse{Response: reply.Text}
	if reply.FunctionCall != nil {
		resp.FunctionCall = &FunctionCall{
			Name:      reply.FunctionCall.Name,
			Arguments: reply.FunctionCall.Arguments,
		}
	}
	return resp
}
