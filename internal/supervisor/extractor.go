package supervisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"agent-supervisor/internal/llm_client"
	"agent-supervisor/internal/logger"
)

// Decision is what the executor acts on: who goes next and what they should do.
type Decision struct {
	Next         string `json:"next"`
	Instructions string `json:"instructions"`
}

func (d Decision) IsFinish() bool { return d.Next == Finish }

// routeArgs uses pointers so absent and null fields can be told apart from
// empty strings. All three are required by the schema.
type routeArgs struct {
	Reasoning    *string `json:"reasoning"`
	Next         *string `json:"next"`
	Instructions *string `json:"instructions"`
}

func (a routeArgs) missing() []string {
	var out []string
	if a.Reasoning == nil {
		out = append(out, "reasoning")
	}
	if a.Next == nil {
		out = append(out, "next")
	}
	if a.Instructions == nil {
		out = append(out, "instructions")
	}
	return out
}

// ExtractDecision projects the first candidate onto a Decision. Any further
// candidates are dropped.
func ExtractDecision(calls []llm_client.ToolCall, schema DecisionSchema) (Decision, error) {
	if len(calls) == 0 {
		return Decision{}, ErrNoDecision
	}
	if len(calls) > 1 {
		logger.Log.Printf("[Supervisor] model returned %d decision candidates, using the first", len(calls))
	}

	var args routeArgs
	if err := json.Unmarshal(calls[0].Args, &args); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrInvalidDecision, err)
	}
	if missing := args.missing(); len(missing) > 0 {
		return Decision{}, fmt.Errorf("%w: missing %s", ErrInvalidDecision, strings.Join(missing, ", "))
	}
	if !schema.Allows(*args.Next) {
		return Decision{}, fmt.Errorf("%w: next %q is not one of [%s]",
			ErrInvalidDecision, *args.Next, strings.Join(schema.Options, ", "))
	}
	return Decision{Next: *args.Next, Instructions: *args.Instructions}, nil
}
