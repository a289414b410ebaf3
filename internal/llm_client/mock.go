package llm_client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Mock is a scripted provider. Structured responses and texts are returned in
// order and cycle once exhausted.
type Mock struct {
	mu        sync.Mutex
	responses [][]ToolCall
	texts     []string
	respIdx   int
	textIdx   int
	err       error
	requests  []StructuredRequest
	prompts   []string
}

func NewMock(responses ...[]ToolCall) *Mock {
	return &Mock{responses: responses}
}

// WithTexts sets the replies returned by Generate.
func (m *Mock) WithTexts(texts ...string) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = texts
	return m
}

// WithError makes every call fail with err.
func (m *Mock) WithError(err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *Mock) Init(Config) error { return nil }

func (m *Mock) Name() string { return "mock" }

func (m *Mock) DefaultModel() string { return "mock-model" }

func (m *Mock) AllowedModelOrDefault(string) string { return "mock-model" }

func (m *Mock) Generate(_ context.Context, prompt, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.texts) == 0 {
		return "", fmt.Errorf("mock: no texts configured")
	}
	text := m.texts[m.textIdx%len(m.texts)]
	m.textIdx++
	return text, nil
}

func (m *Mock) CallStructured(_ context.Context, req StructuredRequest) ([]ToolCall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return nil, nil
	}
	calls := m.responses[m.respIdx%len(m.responses)]
	m.respIdx++
	out := make([]ToolCall, len(calls))
	copy(out, calls)
	return out, nil
}

// Requests returns the structured requests received so far.
func (m *Mock) Requests() []StructuredRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StructuredRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Prompts returns the Generate prompts received so far.
func (m *Mock) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// NewToolCall builds a ToolCall with args marshalled to JSON.
func NewToolCall(name string, args map[string]any) ToolCall {
	b, err := json.Marshal(args)
	if err != nil {
		panic(fmt.Sprintf("mock: marshal tool args: %v", err))
	}
	return ToolCall{Name: name, Args: b}
}
