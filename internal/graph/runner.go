// Package graph is a minimal executor for a supervisor-routed team: it runs
// moderation on the user's input, then alternates supervisor decisions and
// worker turns until the supervisor finishes or the recursion limit is hit.
package graph

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"agent-supervisor/internal/llm_client"
	"agent-supervisor/internal/logger"
	"agent-supervisor/internal/metrics"
	"agent-supervisor/internal/moderation"
	"agent-supervisor/internal/supervisor"
	"agent-supervisor/internal/transcript"
)

const DefaultWorkerTimeout = 60 * time.Second

var (
	ErrNoSupervisor   = errors.New("graph: no supervisor")
	ErrUnknownWorker  = errors.New("graph: unknown worker")
	ErrRecursionLimit = errors.New("graph: recursion limit reached")
)

type Runner struct {
	Supervisor *supervisor.Supervisor
	Workers    map[string]Worker
	// WorkerTimeout bounds a single worker turn; zero means DefaultWorkerTimeout.
	WorkerTimeout time.Duration
}

type Result struct {
	RunID     string                `json:"run_id"`
	Messages  []llm_client.Message  `json:"messages"`
	Decisions []supervisor.Decision `json:"decisions"`
	Finished  bool                  `json:"finished"`
	Metrics   *metrics.RunMetrics   `json:"metrics"`
}

// NewRunner indexes workers by name. Every roster member of sup must have a
// worker; extra workers are ignored.
func NewRunner(sup *supervisor.Supervisor, workers ...Worker) (*Runner, error) {
	if sup == nil {
		return nil, ErrNoSupervisor
	}
	byName := make(map[string]Worker, len(workers))
	for _, w := range workers {
		byName[w.Name()] = w
	}
	for _, name := range sup.Workers() {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("%w: no implementation for %q", ErrUnknownWorker, name)
		}
	}
	return &Runner{Supervisor: sup, Workers: byName}, nil
}

// Run drives the conversation to completion. The returned Result is never nil
// and holds whatever was produced before an error.
func (r *Runner) Run(ctx context.Context, state []llm_client.Message) (*Result, error) {
	res := &Result{
		RunID:    uuid.New().String()[:8],
		Messages: slices.Clone(state),
	}
	rm := &metrics.RunMetrics{RunID: res.RunID, Start: time.Now()}
	res.Metrics = rm
	defer func() {
		rm.End = time.Now()
		rm.Finished = res.Finished
		rm.Finalize()
	}()

	if r.Supervisor == nil {
		return res, ErrNoSupervisor
	}
	rm.Supervisor = r.Supervisor.Name()

	if err := moderation.Run(ctx, r.Supervisor.Moderations(), transcript.LastUserContent(state)); err != nil {
		logger.Log.Printf("[Graph] run %s stopped by moderation: %v", res.RunID, err)
		return res, err
	}

	limit := r.Supervisor.RecursionLimit()
	for step := 1; step <= limit; step++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		sm := metrics.StepMetrics{Step: step, Start: time.Now()}
		d, err := r.Supervisor.Decide(ctx, res.Messages)
		sm.DecisionMs = time.Since(sm.Start).Milliseconds()
		if err != nil {
			r.recordStep(rm, &sm, err)
			return res, fmt.Errorf("step %d: %w", step, err)
		}
		sm.Next = d.Next
		res.Decisions = append(res.Decisions, d)

		if d.IsFinish() {
			r.recordStep(rm, &sm, nil)
			res.Finished = true
			logger.Log.Printf("[Graph] run %s finished after %d step(s)", res.RunID, step)
			return res, nil
		}

		w, ok := r.Workers[d.Next]
		if !ok {
			err := fmt.Errorf("%w: %q", ErrUnknownWorker, d.Next)
			r.recordStep(rm, &sm, err)
			return res, err
		}

		workerStart := time.Now()
		msg, err := r.dispatch(ctx, w, d.Instructions, res.Messages)
		sm.WorkerMs = time.Since(workerStart).Milliseconds()
		if err != nil {
			r.recordStep(rm, &sm, err)
			return res, fmt.Errorf("step %d: %w", step, err)
		}
		res.Messages = append(res.Messages, msg)
		r.recordStep(rm, &sm, nil)
	}

	logger.Log.Printf("[Graph] run %s hit the recursion limit (%d)", res.RunID, limit)
	return res, fmt.Errorf("%w (%d)", ErrRecursionLimit, limit)
}

func (r *Runner) dispatch(ctx context.Context, w Worker, instructions string, state []llm_client.Message) (msg llm_client.Message, rerr error) {
	// A panicking worker fails the run instead of the process.
	defer func() {
		if rec := recover(); rec != nil {
			rerr = fmt.Errorf("panic in worker %s: %v", w.Name(), rec)
		}
	}()

	timeout := r.WorkerTimeout
	if timeout <= 0 {
		timeout = DefaultWorkerTimeout
	}
	workerCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := w.Act(workerCtx, instructions, slices.Clone(state))
	if err != nil {
		return llm_client.Message{}, err
	}
	if msg.Role == "" {
		msg.Role = llm_client.RoleAssistant
	}
	if msg.Name == "" {
		msg.Name = w.Name()
	}
	return msg, nil
}

func (r *Runner) recordStep(rm *metrics.RunMetrics, sm *metrics.StepMetrics, err error) {
	sm.End = time.Now()
	sm.Success = err == nil
	if err != nil {
		sm.Err = err.Error()
	}
	sm.Finalize()
	rm.Steps = append(rm.Steps, *sm)
}
