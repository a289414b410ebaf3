package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"agent-supervisor/internal/llm_client"
)

/*
Load reads a conversation from a JSON file. It supports these shapes:

 1. Object with messages:
    { "messages": [ {"role": "user", "content": "..."}, ... ] }

 2. Bare array of messages:
    [ {"role": "user", "content": "..."}, {"role": "assistant", "name": "Coder", "content": "..."} ]

 3. Bare array of strings, each one a user message:
    [ "Write a fib function" ]

A message without a role is treated as a user message.
*/
func Load(path string) ([]llm_client.Message, error) {
	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", clean, err)
	}
	msgs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", clean, err)
	}
	return msgs, nil
}

func Parse(data []byte) ([]llm_client.Message, error) {
	// Format 1: object with "messages"
	var obj struct {
		Messages *[]llm_client.Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Messages != nil {
		return normalize(*obj.Messages)
	}

	// Format 2: bare array of message objects
	var msgs []llm_client.Message
	if err := json.Unmarshal(data, &msgs); err == nil {
		return normalize(msgs)
	}

	// Format 3: bare array of strings
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		out := make([]llm_client.Message, 0, len(lines))
		for _, l := range lines {
			out = append(out, llm_client.Message{Role: llm_client.RoleUser, Content: l})
		}
		return out, nil
	}

	return nil, fmt.Errorf("unrecognized conversation format")
}

func normalize(msgs []llm_client.Message) ([]llm_client.Message, error) {
	for i := range msgs {
		role := strings.ToLower(strings.TrimSpace(msgs[i].Role))
		switch role {
		case "", "human":
			role = llm_client.RoleUser
		case "ai":
			role = llm_client.RoleAssistant
		case llm_client.RoleUser, llm_client.RoleAssistant, llm_client.RoleSystem:
		default:
			return nil, fmt.Errorf("message #%d has unknown role %q", i+1, msgs[i].Role)
		}
		msgs[i].Role = role
	}
	return msgs, nil
}

// LastUserContent returns the content of the most recent user message.
func LastUserContent(msgs []llm_client.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm_client.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
