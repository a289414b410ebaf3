// Package supervisor decides which worker of a multi-agent graph acts next, or
// whether the task is finished. A Supervisor is built once per graph and is a
// pure decision function: it holds no state between Decide calls, so the graph
// executor may call it from several runs at once.
package supervisor

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"agent-supervisor/internal/llm_client"
	"agent-supervisor/internal/logger"
	"agent-supervisor/internal/moderation"
)

const (
	DefaultName = "supervisor"
	Kind        = "supervisor"
)

// Worker is the part of a worker agent the supervisor cares about.
type Worker interface {
	Name() string
}

// WorkerName is a Worker that is only a name.
type WorkerName string

func (w WorkerName) Name() string { return string(w) }

type Options struct {
	Name string
	// Prompt overrides DefaultPrompt and must contain {team_members}.
	Prompt string
	Model  llm_client.Provider
	// RecursionLimit is parsed with ParseRecursionLimit.
	RecursionLimit string
	Moderations    []moderation.Gate
	Workers        []Worker
}

// DecideFunc is the decision pipeline handed to the executor.
type DecideFunc func(ctx context.Context, state []llm_client.Message) (Decision, error)

type Supervisor struct {
	name           string
	prompt         string
	model          llm_client.Provider
	caller         llm_client.StructuredCaller
	schema         DecisionSchema
	workers        []string
	recursionLimit int
	moderations    []moderation.Gate
}

func New(opts Options) (*Supervisor, error) {
	if opts.Model == nil {
		return nil, ErrNoModel
	}
	caller, ok := opts.Model.(llm_client.StructuredCaller)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotStructured, opts.Model.Name())
	}
	if err := ValidatePrompt(opts.Prompt); err != nil {
		return nil, err
	}

	workers := make([]string, 0, len(opts.Workers))
	seen := make(map[string]struct{}, len(opts.Workers))
	for i, w := range opts.Workers {
		if w == nil {
			return nil, fmt.Errorf("%w: worker #%d is nil", ErrInvalidRoster, i+1)
		}
		name := w.Name()
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: worker #%d has no name", ErrInvalidRoster, i+1)
		}
		if name == Finish {
			return nil, fmt.Errorf("%w: worker name %s is reserved", ErrInvalidRoster, Finish)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate worker %q", ErrInvalidRoster, name)
		}
		seen[name] = struct{}{}
		workers = append(workers, name)
	}

	name := opts.Name
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}

	return &Supervisor{
		name:           name,
		prompt:         opts.Prompt,
		model:          opts.Model,
		caller:         caller,
		schema:         NewDecisionSchema(workers),
		workers:        workers,
		recursionLimit: ParseRecursionLimit(opts.RecursionLimit),
		moderations:    slices.Clone(opts.Moderations),
	}, nil
}

// Decide assembles the prompt, asks the model for a forced route call and
// returns the first candidate as a Decision.
func (s *Supervisor) Decide(ctx context.Context, state []llm_client.Message) (Decision, error) {
	id := uuid.New().String()[:8]

	prompt, err := AssemblePrompt(s.prompt, s.schema, state)
	if err != nil {
		return Decision{}, err
	}

	logger.Log.Printf("[Supervisor] %s decision %s: routing over %d message(s)", s.name, id, len(state))
	calls, err := RequestDecision(ctx, s.caller, prompt, s.schema)
	if err != nil {
		logger.Log.Printf("[Supervisor] %s decision %s FAILED: %v", s.name, id, err)
		return Decision{}, err
	}

	d, err := ExtractDecision(calls, s.schema)
	if err != nil {
		logger.Log.Printf("[Supervisor] %s decision %s FAILED: %v", s.name, id, err)
		return Decision{}, err
	}
	logger.Log.Printf("[Supervisor] %s decision %s: next=%s", s.name, id, d.Next)
	return d, nil
}

// Pipeline returns Decide as a plain function value.
func (s *Supervisor) Pipeline() DecideFunc { return s.Decide }

func (s *Supervisor) Name() string { return s.name }

func (s *Supervisor) Kind() string { return Kind }

func (s *Supervisor) Workers() []string { return slices.Clone(s.workers) }

func (s *Supervisor) RecursionLimit() int { return s.recursionLimit }

func (s *Supervisor) Model() llm_client.Provider { return s.model }

// Moderations are the gates the executor must run on user input before
// calling Decide. The supervisor never runs them itself.
func (s *Supervisor) Moderations() []moderation.Gate { return slices.Clone(s.moderations) }

// Schema returns the decision schema, including the legal options.
func (s *Supervisor) Schema() DecisionSchema {
	out := s.schema
	out.Options = slices.Clone(s.schema.Options)
	return out
}
