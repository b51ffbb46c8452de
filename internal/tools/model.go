package tools

// Tool names known to the registry.
const (
	CreateEvent = "create_event"
	WebSearch   = "web_search"
)

// ToolSpec describes a capability the language model may ask to invoke.
type ToolSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
}

// Schema is the JSON-schema subset used for tool parameters.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Invocation is a tool call requested by the model.
type Invocation struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}
