package cli

import (
	"fmt"

	"agent-supervisor/internal/config"
	"agent-supervisor/internal/graph"
	"agent-supervisor/internal/llm_client"
	"agent-supervisor/internal/supervisor"
)

// team is everything a command needs to decide or run.
type team struct {
	provider   llm_client.Provider
	supervisor *supervisor.Supervisor
	runner     *graph.Runner
}

// buildTeam wires one provider into the supervisor and every configured worker.
func buildTeam(c *config.Config, provider llm_client.Provider) (*team, error) {
	gates, err := c.Gates()
	if err != nil {
		return nil, err
	}

	workers := make([]graph.Worker, 0, len(c.Workers))
	roster := make([]supervisor.Worker, 0, len(c.Workers))
	for _, wc := range c.Workers {
		w := graph.NewLLMWorker(wc.Name, wc.Prompt, wc.Model, provider)
		workers = append(workers, w)
		roster = append(roster, w)
	}

	sup, err := supervisor.New(supervisor.Options{
		Name:           c.Supervisor.Name,
		Prompt:         c.Supervisor.Prompt,
		Model:          provider,
		RecursionLimit: c.Supervisor.RecursionLimit,
		Moderations:    gates,
		Workers:        roster,
	})
	if err != nil {
		return nil, err
	}

	runner, err := graph.NewRunner(sup, workers...)
	if err != nil {
		return nil, err
	}
	return &team{provider: provider, supervisor: sup, runner: runner}, nil
}

func newTeam() (*team, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	provider, err := llm_client.New(cfg.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize LLM client: %w", err)
	}
	return buildTeam(cfg, provider)
}
