package llm_client

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicProvider struct {
	client anthropic.Client
	model  string
	ready  bool
}

const (
	anthropicDefault   = string(anthropic.ModelClaudeSonnet4_20250514)
	anthropicMaxTokens = 1024
)

func (p *anthropicProvider) Init(cfg Config) error {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	p.client = anthropic.NewClient(option.WithAPIKey(apiKey))
	if strings.TrimSpace(cfg.Model) != "" {
		p.model = cfg.Model
	} else {
		p.model = anthropicDefault
	}
	p.ready = true
	return nil
}

func (p *anthropicProvider) Name() string { return "anthropic" }

func (p *anthropicProvider) DefaultModel() string { return anthropicDefault }

func (p *anthropicProvider) AllowedModelOrDefault(model string) string {
	m := strings.TrimSpace(model)
	if m == "" || !strings.HasPrefix(strings.ToLower(m), "claude-") {
		return p.model
	}
	return m
}

func (p *anthropicProvider) Generate(ctx context.Context, prompt, model string) (string, error) {
	if !p.ready {
		return "", ErrNotInitialized
	}
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.AllowedModelOrDefault(model)),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}
	var out strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(text.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}
	return out.String(), nil
}

// CallStructured sends the conversation with tool_choice pinned to the tool,
// returning every tool_use block in emission order.
func (p *anthropicProvider) CallStructured(ctx context.Context, req StructuredRequest) ([]ToolCall, error) {
	if !p.ready {
		return nil, ErrNotInitialized
	}
	system, rest := splitSystem(req.Messages)

	messages := make([]anthropic.MessageParam, 0, len(rest))
	for _, m := range rest {
		if m.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(attributed(m))))
			continue
		}
		// Mid-conversation system turns have no slot in the API and go in as user text.
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(attributed(m))))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  messages,
		Tools: []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        req.Tool.Name,
				Description: anthropic.String(req.Tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: req.Tool.Properties,
					Required:   req.Tool.Required,
				},
			},
		}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: req.Tool.Name},
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic structured call: %w", err)
	}

	var calls []ToolCall
	for _, block := range resp.Content {
		if use, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			args := make([]byte, len(use.Input))
			copy(args, use.Input)
			calls = append(calls, ToolCall{ID: use.ID, Name: use.Name, Args: args})
		}
	}
	return calls, nil
}
