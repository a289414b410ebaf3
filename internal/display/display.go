package display

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"agent-supervisor/internal/llm_client"
	"agent-supervisor/internal/supervisor"
)

const maxContentLength = 100

func FormatDecision(d supervisor.Decision) string {
	var sb strings.Builder
	sb.WriteString("Supervisor decision:\n")
	sb.WriteString("--------------------------------------------------\n")
	if d.IsFinish() {
		sb.WriteString("  Next: FINISH (task complete)\n")
	} else {
		sb.WriteString(fmt.Sprintf("  Next: %s\n", d.Next))
	}
	if d.Instructions != "" {
		sb.WriteString(fmt.Sprintf("  Instructions: %s\n", formatValueForDisplay(d.Instructions, -1)))
	}
	sb.WriteString("--------------------------------------------------")
	return sb.String()
}

// stdout transcript (truncated)
func FormatTranscript(msgs []llm_client.Message) string {
	return formatTranscriptInternal(msgs, maxContentLength)
}

// full transcript, used for logs
func FormatTranscriptFull(msgs []llm_client.Message) string {
	return formatTranscriptInternal(msgs, -1)
}

func formatTranscriptInternal(msgs []llm_client.Message, limit int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Conversation (%d message(s)):\n", len(msgs)))
	for i, m := range msgs {
		speaker := m.Role
		if m.Name != "" {
			speaker = fmt.Sprintf("%s/%s", m.Role, m.Name)
		}
		sb.WriteString(fmt.Sprintf("  %2d. [%s] %s\n", i+1, speaker, formatValueForDisplay(m.Content, limit)))
	}
	return sb.String()
}

// limit < 0 means no limit. The cut backs up to a rune boundary.
func formatValueForDisplay(value any, limit int) string {
	s := fmt.Sprintf("%v", value)
	s = strings.ReplaceAll(s, "\n", "\\n")
	if limit >= 0 && len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
