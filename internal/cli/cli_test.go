package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-supervisor/internal/config"
	"agent-supervisor/internal/llm_client"
	"agent-supervisor/internal/supervisor"
)

func testConfig() *config.Config {
	return &config.Config{
		Supervisor: config.SupervisorConfig{Name: "lead", RecursionLimit: "5"},
		Workers: []config.WorkerConfig{
			{Name: "Researcher", Prompt: "You research."},
			{Name: "Coder", Prompt: "You code."},
		},
		Moderation: config.ModerationConfig{Patterns: []string{`rm -rf`}, CaseInsensitive: true},
	}
}

func routeTo(next string) []llm_client.ToolCall {
	return []llm_client.ToolCall{llm_client.NewToolCall("route", map[string]any{
		"reasoning": "test", "next": next, "instructions": "go",
	})}
}

func TestBuildTeam(t *testing.T) {
	model := llm_client.NewMock(routeTo("Coder"), routeTo(supervisor.Finish)).WithTexts("done")
	tm, err := buildTeam(testConfig(), model)
	require.NoError(t, err)

	assert.Equal(t, "lead", tm.supervisor.Name())
	assert.Equal(t, 5, tm.supervisor.RecursionLimit())
	assert.Equal(t, []string{"Researcher", "Coder"}, tm.supervisor.Workers())
	assert.Len(t, tm.supervisor.Moderations(), 1)

	res, err := tm.runner.Run(context.Background(), []llm_client.Message{{Role: llm_client.RoleUser, Content: "fib"}})
	require.NoError(t, err)
	assert.True(t, res.Finished)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, "Coder", res.Messages[1].Name)
}

func TestBuildTeamRejectsBadConfig(t *testing.T) {
	c := testConfig()
	c.Workers = append(c.Workers, config.WorkerConfig{Name: "Coder"})
	_, err := buildTeam(c, llm_client.NewMock())
	assert.ErrorIs(t, err, supervisor.ErrInvalidRoster)

	c = testConfig()
	c.Moderation.Patterns = []string{"("}
	_, err = buildTeam(c, llm_client.NewMock())
	assert.Error(t, err)
}

func TestDecideAll(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}
	files := []string{
		write("a.json", `["Write a fib function"]`),
		write("b.json", `["please rm -RF /"]`),
		write("c.json", `not json`),
	}

	tm, err := buildTeam(testConfig(), llm_client.NewMock(routeTo("Researcher")))
	require.NoError(t, err)

	results := decideAll(context.Background(), tm.supervisor, files, 2)
	require.Len(t, results, 3)

	assert.Equal(t, batchResult{File: "a.json", Next: "Researcher", Instructions: "go"}, results[0])
	assert.Equal(t, "b.json", results[1].File)
	assert.Contains(t, results[1].Error, "moderation")
	assert.Equal(t, "c.json", results[2].File)
	assert.NotEmpty(t, results[2].Error)
}
