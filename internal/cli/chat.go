package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"agent-supervisor/internal/display"
	"agent-supervisor/internal/listener"
	"agent-supervisor/internal/llm_client"
	"agent-supervisor/internal/moderation"
)

var chatHistoryFile string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the team interactively",
	Long: `Each line you type is added to the conversation as a user message and the team
runs until the supervisor finishes. Type 'reset' to start over and 'exit' to quit.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatHistoryFile, "history", "", "readline history file")
}

func runChat(cmd *cobra.Command, args []string) error {
	t, err := newTeam()
	if err != nil {
		return err
	}
	if err := listener.Init("> ", chatHistoryFile); err != nil {
		return fmt.Errorf("failed to init terminal input: %w", err)
	}
	defer listener.Close()

	listener.AsyncPrintln(fmt.Sprintf("Team ready: %s. (type 'exit' or press Ctrl+D to quit)",
		strings.Join(t.supervisor.Workers(), ", ")))

	var conversation []llm_client.Message
	for {
		listener.SetPrompt(fmt.Sprintf("[%d]> ", len(conversation)))
		input, err := listener.GetInput()
		if errors.Is(err, listener.ErrClosed) {
			fmt.Println("Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case "exit":
			fmt.Println("Goodbye!")
			return nil
		case "reset":
			if listener.AskYesNo("Clear the conversation?") {
				conversation = nil
				listener.AsyncPrintln("[Conversation cleared]")
			}
			continue
		}

		state := append(conversation, llm_client.Message{Role: llm_client.RoleUser, Content: input})
		res, err := t.runner.Run(cmd.Context(), state)

		var rejected *moderation.RejectedError
		if errors.As(err, &rejected) {
			listener.AsyncPrintln(fmt.Sprintf("[Blocked] %v", rejected))
			continue
		}
		for _, m := range res.Messages[len(state):] {
			listener.AsyncPrintln(fmt.Sprintf("%s: %s", m.Name, m.Content))
		}
		conversation = res.Messages
		if err != nil {
			listener.AsyncPrintln(fmt.Sprintf("[Run %s FAILED] %v", res.RunID, err))
		}
		listener.AsyncPrintln(display.FormatRunMetrics(res.Metrics))
	}
}
