package supervisor

import (
	"slices"

	"agent-supervisor/internal/llm_client"
)

// Finish is the terminal decision value.
const Finish = "FINISH"

const (
	routeToolName        = "route"
	routeToolDescription = "Select the next role."
)

// DecisionSchema is the closed set of legal next actions and the tool the
// model is forced to call to pick one of them.
type DecisionSchema struct {
	Name        string
	Description string
	// Options is FINISH followed by the roster in its original order.
	Options []string
}

func NewDecisionSchema(roster []string) DecisionSchema {
	options := make([]string, 0, len(roster)+1)
	options = append(options, Finish)
	options = append(options, roster...)
	return DecisionSchema{
		Name:        routeToolName,
		Description: routeToolDescription,
		Options:     options,
	}
}

// Members returns the roster part of the options.
func (s DecisionSchema) Members() []string {
	if len(s.Options) == 0 {
		return nil
	}
	return slices.Clone(s.Options[1:])
}

func (s DecisionSchema) Allows(next string) bool {
	return slices.Contains(s.Options, next)
}

func (s DecisionSchema) Tool() llm_client.ToolSpec {
	return llm_client.ToolSpec{
		Name:        s.Name,
		Description: s.Description,
		Properties: map[string]any{
			"reasoning": map[string]any{
				"title": "Reasoning",
				"type":  "string",
			},
			"next": map[string]any{
				"title": "Next",
				"type":  "string",
				"enum":  slices.Clone(s.Options),
			},
			"instructions": map[string]any{
				"title":       "Instructions",
				"type":        "string",
				"description": "The specific instructions of the sub-task the next role should accomplish.",
			},
		},
		Required: []string{"reasoning", "next", "instructions"},
	}
}
