package supervisor

import (
	"strings"

	"agent-supervisor/internal/llm_client"
)

const (
	TeamMembersPlaceholder = "{team_members}"
	OptionsPlaceholder     = "{options}"
)

const DefaultPrompt = `You are a supervisor tasked with managing a conversation between the following workers: {team_members}.
Given the following user request, respond with the worker to act next.
Each worker will perform a task and respond with their results and status.
When finished, respond with FINISH.

Select strategically to minimize the number of steps taken.`

const steeringPrompt = "Given the conversation above, who should act next? Or should we FINISH? Select one of: " + OptionsPlaceholder

// ValidatePrompt reports whether a custom template can carry the roster.
// An empty template means DefaultPrompt.
func ValidatePrompt(template string) error {
	if template == "" {
		return nil
	}
	if !strings.Contains(template, TeamMembersPlaceholder) {
		return ErrMissingRosterPlaceholder
	}
	return nil
}

// AssemblePrompt renders the system directive, the conversation verbatim and
// the closing steering message.
func AssemblePrompt(template string, schema DecisionSchema, state []llm_client.Message) ([]llm_client.Message, error) {
	if template == "" {
		template = DefaultPrompt
	}
	if err := ValidatePrompt(template); err != nil {
		return nil, err
	}

	r := strings.NewReplacer(
		TeamMembersPlaceholder, strings.Join(schema.Members(), ", "),
		OptionsPlaceholder, strings.Join(schema.Options, ", "),
	)

	out := make([]llm_client.Message, 0, len(state)+2)
	out = append(out, llm_client.Message{Role: llm_client.RoleSystem, Content: r.Replace(template)})
	out = append(out, state...)
	out = append(out, llm_client.Message{Role: llm_client.RoleSystem, Content: r.Replace(steeringPrompt)})
	return out, nil
}
