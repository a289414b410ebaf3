package display

import (
	"fmt"
	"strings"

	"agent-supervisor/internal/metrics"
)

func FormatRunMetrics(rm *metrics.RunMetrics) string {
	if rm == nil {
		return "No metrics available."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run %s metrics:\n", rm.RunID))
	sb.WriteString(fmt.Sprintf("- Total: %d ms  (finished=%v, steps=%d)\n", rm.DurationMs, rm.Finished, len(rm.Steps)))
	for _, s := range rm.Steps {
		status := "ok"
		if !s.Success {
			status = "err"
		}
		next := s.Next
		if next == "" {
			next = "-"
		}
		sb.WriteString(fmt.Sprintf("  Step %d: %-14s decide %5d ms  work %5d ms  [%s]\n",
			s.Step, next, s.DecisionMs, s.WorkerMs, status))
	}
	return sb.String()
}
