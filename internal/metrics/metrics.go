package metrics

import "time"

// StepMetrics times one supervisor decision and the worker it dispatched.
type StepMetrics struct {
	Step       int       `json:"step"`
	Next       string    `json:"next"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DecisionMs int64     `json:"decision_ms"`
	WorkerMs   int64     `json:"worker_ms"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Err        string    `json:"err,omitempty"`
}

type RunMetrics struct {
	RunID      string        `json:"run_id"`
	Supervisor string        `json:"supervisor"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	DurationMs int64         `json:"duration_ms"`
	Finished   bool          `json:"finished"`
	Steps      []StepMetrics `json:"steps"`
}

// Compute derived fields for a step.
func (s *StepMetrics) Finalize() {
	s.DurationMs = s.End.Sub(s.Start).Milliseconds()
}

func (r *RunMetrics) Finalize() {
	r.DurationMs = r.End.Sub(r.Start).Milliseconds()
}
