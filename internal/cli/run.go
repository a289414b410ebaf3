package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"agent-supervisor/internal/display"
	"agent-supervisor/internal/logger"
	"agent-supervisor/internal/transcript"
)

var runConversation string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the team on a conversation until the supervisor finishes",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runConversation, "conversation", "", "conversation JSON file")
	_ = runCmd.MarkFlagRequired("conversation")
}

func runRun(cmd *cobra.Command, args []string) error {
	state, err := transcript.Load(runConversation)
	if err != nil {
		return err
	}
	t, err := newTeam()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, runErr := t.runner.Run(ctx, state)
	logger.Log.Printf("Run %s transcript (FULL):\n%s", res.RunID, display.FormatTranscriptFull(res.Messages))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, display.FormatTranscript(res.Messages))
	fmt.Fprintln(out, display.FormatRunMetrics(res.Metrics))
	if runErr != nil {
		return fmt.Errorf("run %s failed: %w", res.RunID, runErr)
	}
	return nil
}
