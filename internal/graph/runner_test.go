package graph

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-supervisor/internal/llm_client"
	"agent-supervisor/internal/moderation"
	"agent-supervisor/internal/supervisor"
)

func route(next, instructions string) []llm_client.ToolCall {
	return []llm_client.ToolCall{llm_client.NewToolCall("route", map[string]any{
		"reasoning":    "test",
		"next":         next,
		"instructions": instructions,
	})}
}

type fakeWorker struct {
	name  string
	reply string
	panic bool

	mu           sync.Mutex
	instructions []string
}

func (w *fakeWorker) Name() string { return w.name }

func (w *fakeWorker) Act(_ context.Context, instructions string, _ []llm_client.Message) (llm_client.Message, error) {
	if w.panic {
		panic("worker exploded")
	}
	w.mu.Lock()
	w.instructions = append(w.instructions, instructions)
	w.mu.Unlock()
	return llm_client.Message{Content: w.reply}, nil
}

type rejectAll struct{}

func (rejectAll) Name() string { return "reject-all" }

func (rejectAll) Check(context.Context, string) (moderation.Result, error) {
	return moderation.Reject("nope"), nil
}

func newSupervisor(t *testing.T, model *llm_client.Mock, limit string, gates []moderation.Gate, names ...string) *supervisor.Supervisor {
	t.Helper()
	roster := make([]supervisor.Worker, 0, len(names))
	for _, n := range names {
		roster = append(roster, supervisor.WorkerName(n))
	}
	sup, err := supervisor.New(supervisor.Options{
		Model:          model,
		Workers:        roster,
		RecursionLimit: limit,
		Moderations:    gates,
	})
	require.NoError(t, err)
	return sup
}

func userSays(text string) []llm_client.Message {
	return []llm_client.Message{{Role: llm_client.RoleUser, Content: text}}
}

func TestRunRoutesUntilFinish(t *testing.T) {
	model := llm_client.NewMock(route("Coder", "Implement fib(n)"), route(supervisor.Finish, ""))
	sup := newSupervisor(t, model, "", nil, "Researcher", "Coder")
	coder := &fakeWorker{name: "Coder", reply: "def fib(n): ..."}
	runner, err := NewRunner(sup, &fakeWorker{name: "Researcher"}, coder)
	require.NoError(t, err)

	state := userSays("Write a fib function")
	res, err := runner.Run(context.Background(), state)
	require.NoError(t, err)

	assert.True(t, res.Finished)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, llm_client.Message{Role: llm_client.RoleAssistant, Name: "Coder", Content: "def fib(n): ..."}, res.Messages[1])
	assert.Len(t, state, 1, "caller state must not be mutated")
	assert.Equal(t, []string{"Implement fib(n)"}, coder.instructions)
	require.Len(t, res.Decisions, 2)
	assert.True(t, res.Decisions[1].IsFinish())

	require.NotNil(t, res.Metrics)
	assert.True(t, res.Metrics.Finished)
	assert.Equal(t, "supervisor", res.Metrics.Supervisor)
	require.Len(t, res.Metrics.Steps, 2)
	assert.Equal(t, "Coder", res.Metrics.Steps[0].Next)
	assert.True(t, res.Metrics.Steps[1].Success)

	// The second decision sees the worker's reply.
	reqs := model.Requests()
	require.Len(t, reqs, 2)
	assert.Len(t, reqs[1].Messages, 4)
}

func TestRunModerationRejects(t *testing.T) {
	model := llm_client.NewMock(route(supervisor.Finish, ""))
	sup := newSupervisor(t, model, "", []moderation.Gate{rejectAll{}}, "A")
	runner, err := NewRunner(sup, &fakeWorker{name: "A"})
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), userSays("something bad"))
	var rejected *moderation.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "reject-all", rejected.Gate)
	assert.Empty(t, model.Requests(), "supervisor must not be asked after a rejection")
	assert.False(t, res.Finished)
}

func TestRunRecursionLimit(t *testing.T) {
	model := llm_client.NewMock(route("A", "again"))
	sup := newSupervisor(t, model, "3", nil, "A")
	a := &fakeWorker{name: "A", reply: "done?"}
	runner, err := NewRunner(sup, a)
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), userSays("loop"))
	require.ErrorIs(t, err, ErrRecursionLimit)
	assert.Len(t, model.Requests(), 3)
	assert.Len(t, a.instructions, 3)
	assert.Len(t, res.Messages, 4)
	assert.False(t, res.Metrics.Finished)
}

func TestNewRunnerRequiresEveryRosterMember(t *testing.T) {
	sup := newSupervisor(t, llm_client.NewMock(), "", nil, "A", "B")
	_, err := NewRunner(sup, &fakeWorker{name: "A"})
	assert.ErrorIs(t, err, ErrUnknownWorker)

	_, err = NewRunner(nil)
	assert.ErrorIs(t, err, ErrNoSupervisor)
}

func TestRunUnknownWorkerAtDispatch(t *testing.T) {
	model := llm_client.NewMock(route("B", ""))
	sup := newSupervisor(t, model, "", nil, "A", "B")
	runner := &Runner{Supervisor: sup, Workers: map[string]Worker{"A": &fakeWorker{name: "A"}}}

	res, err := runner.Run(context.Background(), userSays("hi"))
	require.ErrorIs(t, err, ErrUnknownWorker)
	require.Len(t, res.Metrics.Steps, 1)
	assert.False(t, res.Metrics.Steps[0].Success)
}

func TestRunDecisionErrorPropagates(t *testing.T) {
	sup := newSupervisor(t, llm_client.NewMock(), "", nil, "A")
	runner, err := NewRunner(sup, &fakeWorker{name: "A"})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), userSays("hi"))
	assert.ErrorIs(t, err, supervisor.ErrNoDecision)
}

func TestRunWorkerPanic(t *testing.T) {
	model := llm_client.NewMock(route("A", ""))
	sup := newSupervisor(t, model, "", nil, "A")
	runner, err := NewRunner(sup, &fakeWorker{name: "A", panic: true})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), userSays("hi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in worker A")
}

func TestRunCancelledContext(t *testing.T) {
	model := llm_client.NewMock(route("A", ""))
	sup := newSupervisor(t, model, "", nil, "A")
	runner, err := NewRunner(sup, &fakeWorker{name: "A"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Run(ctx, userSays("hi"))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, model.Requests())
}

func TestLLMWorkerAct(t *testing.T) {
	model := llm_client.NewMock().WithTexts("  fib is done  ")
	w := NewLLMWorker("Coder", "You write Go.", "", model)

	state := []llm_client.Message{
		{Role: llm_client.RoleUser, Content: "Write fib"},
		{Role: llm_client.RoleAssistant, Name: "Researcher", Content: "fib(n) = fib(n-1) + fib(n-2)"},
	}
	msg, err := w.Act(context.Background(), "Implement it iteratively", state)
	require.NoError(t, err)
	assert.Equal(t, llm_client.Message{Role: llm_client.RoleAssistant, Name: "Coder", Content: "fib is done"}, msg)

	prompts := model.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "You write Go.")
	assert.Contains(t, prompts[0], "user: Write fib")
	assert.Contains(t, prompts[0], "Researcher: fib(n)")
	assert.Contains(t, prompts[0], "Implement it iteratively")
}

func TestLLMWorkerErrors(t *testing.T) {
	_, err := NewLLMWorker("Coder", "", "", nil).Act(context.Background(), "", nil)
	assert.ErrorContains(t, err, "has no model")

	boom := errors.New("quota exceeded")
	_, err = NewLLMWorker("Coder", "", "", llm_client.NewMock().WithError(boom)).Act(context.Background(), "", nil)
	assert.ErrorIs(t, err, boom)
}
