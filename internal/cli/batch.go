package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"agent-supervisor/internal/logger"
	"agent-supervisor/internal/moderation"
	"agent-supervisor/internal/supervisor"
	"agent-supervisor/internal/transcript"
)

const batchConcurrencyDefault = 8

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Decide the next worker for every conversation file in a directory",
	Long: `Runs one routing decision per *.json conversation in dir, concurrently, with a
single shared supervisor. Prints one JSON object per file, in file name order.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "j", batchConcurrencyDefault, "maximum decisions in flight")
}

type batchResult struct {
	File         string `json:"file"`
	Next         string `json:"next,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Error        string `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	files, err := filepath.Glob(filepath.Join(args[0], "*.json"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no *.json conversations in %s", args[0])
	}

	t, err := newTeam()
	if err != nil {
		return err
	}

	results := decideAll(cmd.Context(), t.supervisor, files, batchConcurrency)

	enc := json.NewEncoder(cmd.OutOrStdout())
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversation(s) failed", failed, len(results))
	}
	return nil
}

// decideAll shares one supervisor across goroutines. A failing file is
// reported in its result and does not cancel the others.
func decideAll(ctx context.Context, sup *supervisor.Supervisor, files []string, limit int) []batchResult {
	if limit <= 0 {
		limit = batchConcurrencyDefault
	}
	results := make([]batchResult, len(files))
	decide := sup.Pipeline()
	gates := sup.Moderations()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, f := range files {
		g.Go(func() error {
			r := batchResult{File: filepath.Base(f)}
			defer func() { results[i] = r }()

			state, err := transcript.Load(f)
			if err != nil {
				r.Error = err.Error()
				return nil
			}
			if err := moderation.Run(gctx, gates, transcript.LastUserContent(state)); err != nil {
				r.Error = err.Error()
				return nil
			}
			d, err := decide(gctx, state)
			if err != nil {
				logger.Log.Printf("[Batch] %s FAILED: %v", r.File, err)
				r.Error = err.Error()
				return nil
			}
			r.Next, r.Instructions = d.Next, d.Instructions
			return nil
		})
	}
	_ = g.Wait()
	return results
}
