package graph

import (
	"context"
	"fmt"
	"strings"

	"agent-supervisor/internal/llm_client"
)

// Worker is an agent the runner can dispatch to. Act receives the supervisor's
// instructions and the conversation so far and returns one new message.
type Worker interface {
	Name() string
	Act(ctx context.Context, instructions string, state []llm_client.Message) (llm_client.Message, error)
}

// LLMWorker answers with a single Generate call on its provider.
type LLMWorker struct {
	name     string
	prompt   string
	model    string
	provider llm_client.Provider
}

func NewLLMWorker(name, prompt, model string, provider llm_client.Provider) *LLMWorker {
	return &LLMWorker{name: name, prompt: prompt, model: model, provider: provider}
}

func (w *LLMWorker) Name() string { return w.name }

func (w *LLMWorker) Act(ctx context.Context, instructions string, state []llm_client.Message) (llm_client.Message, error) {
	if w.provider == nil {
		return llm_client.Message{}, fmt.Errorf("worker %s has no model", w.name)
	}
	text, err := w.provider.Generate(ctx, w.buildPrompt(instructions, state), w.model)
	if err != nil {
		return llm_client.Message{}, fmt.Errorf("worker %s: %w", w.name, err)
	}
	return llm_client.Message{
		Role:    llm_client.RoleAssistant,
		Name:    w.name,
		Content: strings.TrimSpace(text),
	}, nil
}

func (w *LLMWorker) buildPrompt(instructions string, state []llm_client.Message) string {
	var sb strings.Builder
	if w.prompt != "" {
		sb.WriteString(w.prompt)
	} else {
		sb.WriteString(fmt.Sprintf("You are %s, a member of a team of agents.", w.name))
	}
	sb.WriteString("\n\nConversation so far:\n")
	for _, m := range state {
		speaker := m.Role
		if m.Name != "" {
			speaker = m.Name
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", speaker, m.Content))
	}
	if instructions != "" {
		sb.WriteString("\nInstructions from your supervisor:\n")
		sb.WriteString(instructions)
		sb.WriteString("\n")
	}
	sb.WriteString("\nReply with your contribution only.")
	return sb.String()
}
