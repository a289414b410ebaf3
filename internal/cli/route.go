package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"agent-supervisor/internal/display"
	"agent-supervisor/internal/moderation"
	"agent-supervisor/internal/transcript"
)

var (
	routeConversation string
	routeText         bool
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Make one routing decision for a conversation",
	Long: `Loads a conversation, runs the configured moderation gates on the latest user
message and prints the supervisor's decision as JSON.`,
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().StringVar(&routeConversation, "conversation", "", "conversation JSON file")
	routeCmd.Flags().BoolVar(&routeText, "text", false, "print a human-readable decision instead of JSON")
	_ = routeCmd.MarkFlagRequired("conversation")
}

func runRoute(cmd *cobra.Command, args []string) error {
	state, err := transcript.Load(routeConversation)
	if err != nil {
		return err
	}
	t, err := newTeam()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := moderation.Run(ctx, t.supervisor.Moderations(), transcript.LastUserContent(state)); err != nil {
		return err
	}
	d, err := t.supervisor.Decide(ctx, state)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if routeText {
		fmt.Fprintln(out, display.FormatDecision(d))
		return nil
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}
