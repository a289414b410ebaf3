package llm_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaProvider struct {
	client *api.Client
	model  string
}

const ollamaDefault = "phi4:latest"

func (p *ollamaProvider) Init(cfg Config) error {
	host := strings.TrimSpace(cfg.OllamaHost)
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		c, err := api.ClientFromEnvironment()
		if err != nil {
			return fmt.Errorf("ollama client init: %w", err)
		}
		p.client = c
	} else {
		u, err := url.Parse(host)
		if err != nil {
			return fmt.Errorf("ollama: bad host %q: %w", host, err)
		}
		p.client = api.NewClient(u, nil)
	}
	if strings.TrimSpace(cfg.Model) != "" {
		p.model = cfg.Model
	} else {
		p.model = ollamaDefault
	}
	return nil
}

func (p *ollamaProvider) Name() string { return "ollama" }

func (p *ollamaProvider) DefaultModel() string { return ollamaDefault }

func (p *ollamaProvider) AllowedModelOrDefault(model string) string {
	m := strings.TrimSpace(model)
	if m == "" {
		return p.model
	}
	return m
}

func (p *ollamaProvider) Generate(ctx context.Context, prompt, model string) (string, error) {
	if p.client == nil {
		return "", ErrNotInitialized
	}
	stream := false
	req := &api.GenerateRequest{
		Model:  p.AllowedModelOrDefault(model),
		Prompt: prompt,
		Stream: &stream,
	}
	var out strings.Builder
	if err := p.client.Generate(ctx, req, func(gr api.GenerateResponse) error {
		out.WriteString(gr.Response)
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return out.String(), nil
}

// CallStructured constrains the chat response with the tool schema as the
// output format. Ollama has no forced tool choice, so the whole JSON body is
// the single candidate.
func (p *ollamaProvider) CallStructured(ctx context.Context, req StructuredRequest) ([]ToolCall, error) {
	if p.client == nil {
		return nil, ErrNotInitialized
	}
	format, err := json.Marshal(req.Tool.Schema())
	if err != nil {
		return nil, fmt.Errorf("ollama marshal schema: %w", err)
	}

	msgs := make([]api.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, api.Message{Role: m.Role, Content: attributed(m)})
	}

	stream := false
	chatReq := &api.ChatRequest{
		Model:    p.model,
		Messages: msgs,
		Format:   format,
		Stream:   &stream,
	}
	var out strings.Builder
	if err := p.client.Chat(ctx, chatReq, func(cr api.ChatResponse) error {
		out.WriteString(cr.Message.Content)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("ollama structured call: %w", err)
	}

	body := strings.TrimSpace(out.String())
	if body == "" {
		return nil, nil
	}
	return []ToolCall{{Name: req.Tool.Name, Args: []byte(body)}}, nil
}
