// Package moderation defines the content-safety gate contract the graph
// executor runs against user input before asking the supervisor to decide.
package moderation

import (
	"context"
	"fmt"
)

// Gate checks a piece of text and either passes or rejects it.
type Gate interface {
	Name() string
	Check(ctx context.Context, text string) (Result, error)
}

type Result struct {
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

func Pass() Result { return Result{Passed: true} }

func Reject(reason string) Result { return Result{Passed: false, Reason: reason} }

// RejectedError reports which gate stopped the input.
type RejectedError struct {
	Gate   string
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("moderation: rejected by %s", e.Gate)
	}
	return fmt.Sprintf("moderation: rejected by %s: %s", e.Gate, e.Reason)
}

// Run checks text against gates in order and stops at the first rejection.
func Run(ctx context.Context, gates []Gate, text string) error {
	for _, g := range gates {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := g.Check(ctx, text)
		if err != nil {
			return fmt.Errorf("moderation gate %s: %w", g.Name(), err)
		}
		if !res.Passed {
			return &RejectedError{Gate: g.Name(), Reason: res.Reason}
		}
	}
	return nil
}
