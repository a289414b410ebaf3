package llm_client

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotInitialized = errors.New("llm client not initialized")

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Config struct {
	Backend    string
	Model      string
	OllamaHost string
	APIKey     string
}

// Message is one turn of a conversation as sent to a model.
type Message struct {
	Role    string `json:"role"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

// ToolSpec describes a function the model is forced to call.
type ToolSpec struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// Schema returns the JSON schema object for the tool parameters.
func (t ToolSpec) Schema() map[string]any {
	return map[string]any{
		"title":      t.Name + "Schema",
		"type":       "object",
		"properties": t.Properties,
		"required":   t.Required,
	}
}

// ToolCall is one structured invocation emitted by a model.
type ToolCall struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Args []byte `json:"args"`
}

type StructuredRequest struct {
	Messages []Message
	Tool     ToolSpec
}

type Provider interface {
	Init(cfg Config) error
	Name() string
	DefaultModel() string
	AllowedModelOrDefault(model string) string
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// StructuredCaller is implemented by providers that can force a model to answer
// through a single named tool instead of free text.
type StructuredCaller interface {
	CallStructured(ctx context.Context, req StructuredRequest) ([]ToolCall, error)
}

func New(cfg Config) (Provider, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "gemini"
	}
	var p Provider
	switch backend {
	case "ollama":
		p = &ollamaProvider{}
	case "gemini":
		p = &geminiProvider{}
	case "anthropic":
		p = &anthropicProvider{}
	default:
		return nil, fmt.Errorf("unsupported LLM backend: %s", backend)
	}
	if err := p.Init(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// splitSystem pulls the leading system message out of msgs. Later system
// messages are kept in place for the caller to map.
func splitSystem(msgs []Message) (string, []Message) {
	if len(msgs) > 0 && msgs[0].Role == RoleSystem {
		return msgs[0].Content, msgs[1:]
	}
	return "", msgs
}

// attributed prefixes a named message with its speaker. None of the backends
// carries a per-message author, so this keeps worker replies distinguishable.
func attributed(m Message) string {
	if m.Name == "" {
		return m.Content
	}
	return m.Name + ": " + m.Content
}
