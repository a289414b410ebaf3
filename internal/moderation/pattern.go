package moderation

import (
	"context"
	"fmt"
	"regexp"
)

// PatternGate rejects text matching any of its regular expressions.
type PatternGate struct {
	name     string
	patterns []*regexp.Regexp
}

func NewPatternGate(name string, patterns []string, caseInsensitive bool) (*PatternGate, error) {
	if name == "" {
		name = "pattern-filter"
	}
	g := &PatternGate{name: name, patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for i, p := range patterns {
		if caseInsensitive {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern at index %d: %w", i, err)
		}
		g.patterns = append(g.patterns, re)
	}
	return g, nil
}

func (g *PatternGate) Name() string { return g.name }

func (g *PatternGate) Check(_ context.Context, text string) (Result, error) {
	for _, re := range g.patterns {
		if re.MatchString(text) {
			return Reject(fmt.Sprintf("matched pattern %q", re.String())), nil
		}
	}
	return Pass(), nil
}
