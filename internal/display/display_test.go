package display

import (
	"strings"
	"testing"
	"unicode/utf8"

	"agent-supervisor/internal/llm_client"
	"agent-supervisor/internal/metrics"
	"agent-supervisor/internal/supervisor"
)

func TestFormatDecision(t *testing.T) {
	testCases := []struct {
		name     string
		decision supervisor.Decision
		want     []string
		notWant  []string
	}{
		{
			name:     "Worker with instructions",
			decision: supervisor.Decision{Next: "Coder", Instructions: "Implement fib(n)\nin Go"},
			want:     []string{"Supervisor decision", "Next: Coder", `Instructions: Implement fib(n)\nin Go`},
		},
		{
			name:     "Finish without instructions",
			decision: supervisor.Decision{Next: supervisor.Finish},
			want:     []string{"Next: FINISH (task complete)"},
			notWant:  []string{"Instructions:"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatDecision(tc.decision)
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Errorf("output is missing %q:\n%s", w, got)
				}
			}
			for _, w := range tc.notWant {
				if strings.Contains(got, w) {
					t.Errorf("output should not contain %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestFormatTranscript_WithLongContent(t *testing.T) {
	long := strings.Repeat("a", 200)
	msgs := []llm_client.Message{
		{Role: llm_client.RoleUser, Content: "Write a fib function"},
		{Role: llm_client.RoleAssistant, Name: "Coder", Content: long},
	}

	short := FormatTranscript(msgs)
	if !strings.Contains(short, "[assistant/Coder]") {
		t.Errorf("Expected speaker with worker name, got:\n%s", short)
	}
	if !strings.Contains(short, "...") || strings.Contains(short, long) {
		t.Errorf("Expected long content to be truncated, got:\n%s", short)
	}

	full := FormatTranscriptFull(msgs)
	if !strings.Contains(full, long) {
		t.Errorf("Expected full transcript to keep long content.")
	}
}

func TestFormatRunMetrics(t *testing.T) {
	if got := FormatRunMetrics(nil); got != "No metrics available." {
		t.Errorf("nil metrics = %q", got)
	}

	rm := &metrics.RunMetrics{
		RunID:      "abcd1234",
		DurationMs: 42,
		Finished:   false,
		Steps: []metrics.StepMetrics{
			{Step: 1, Next: "Coder", DecisionMs: 10, WorkerMs: 20, Success: true},
			{Step: 2, DecisionMs: 12, Success: false, Err: "boom"},
		},
	}
	got := FormatRunMetrics(rm)
	for _, w := range []string{"Run abcd1234", "Total: 42 ms", "steps=2", "Step 1: Coder", "[ok]", "Step 2: -", "[err]"} {
		if !strings.Contains(got, w) {
			t.Errorf("metrics output is missing %q:\n%s", w, got)
		}
	}
}

func TestFormatTranscript_TruncatesOnRuneBoundary(t *testing.T) {
	// One ASCII byte shifts every two-byte rune so the byte limit lands mid-rune.
	content := "a" + strings.Repeat("é", 100)
	got := FormatTranscript([]llm_client.Message{{Role: llm_client.RoleUser, Content: content}})

	if !utf8.ValidString(got) {
		t.Fatalf("truncated transcript is not valid UTF-8: %q", got)
	}
	if !strings.Contains(got, "a"+strings.Repeat("é", 49)+"...") {
		t.Errorf("expected cut before the split rune, got:\n%s", got)
	}
}
