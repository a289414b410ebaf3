package supervisor

import (
	"context"
	"fmt"

	"agent-supervisor/internal/llm_client"
)

// RequestDecision sends one request forcing the model to call the decision
// tool. Failures are returned as is; retrying belongs to the transport.
func RequestDecision(ctx context.Context, caller llm_client.StructuredCaller, prompt []llm_client.Message, schema DecisionSchema) ([]llm_client.ToolCall, error) {
	if caller == nil {
		return nil, ErrModelNotStructured
	}
	calls, err := caller.CallStructured(ctx, llm_client.StructuredRequest{
		Messages: prompt,
		Tool:     schema.Tool(),
	})
	if err != nil {
		return nil, fmt.Errorf("supervisor: request decision: %w", err)
	}
	return calls, nil
}
