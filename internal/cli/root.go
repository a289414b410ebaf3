package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agent-supervisor/internal/config"
	"agent-supervisor/internal/logger"
)

var (
	configPath     string
	backendFlag    string
	modelFlag      string
	recursionLimit string
	logFileFlag    string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "supervisor",
	Short: "Route a multi-agent conversation to the next worker",
	Long: `A supervisor for a team of LLM worker agents. Given the conversation so far it
asks a chat model, through a forced "route" tool call, which worker should act next
or whether the task is finished.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("backend") {
			loaded.LLM.Backend = backendFlag
		}
		if flags.Changed("model") {
			loaded.LLM.Model = modelFlag
		}
		if flags.Changed("recursion-limit") {
			loaded.Supervisor.RecursionLimit = recursionLimit
		}
		if flags.Changed("log-file") {
			loaded.LogFile = logFileFlag
		}
		if err := logger.Init(loaded.LogFile); err != nil {
			return fmt.Errorf("could not initialize logger: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (default ./supervisor.yaml)")
	pf.StringVar(&backendFlag, "backend", "", "LLM backend: gemini, ollama or anthropic")
	pf.StringVar(&modelFlag, "model", "", "model name for the chosen backend")
	pf.StringVar(&recursionLimit, "recursion-limit", "", "maximum supervisor decisions per run")
	pf.StringVar(&logFileFlag, "log-file", "", "append logs to this file instead of stderr")

	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(batchCmd)
}
