package supervisor

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks problems with how the supervisor was configured. They are
	// never worth retrying.
	ErrConfig = errors.New("supervisor: configuration error")

	ErrMissingRosterPlaceholder = fmt.Errorf("%w: prompt must contain %s", ErrConfig, TeamMembersPlaceholder)
	ErrNoModel                  = fmt.Errorf("%w: no chat model bound", ErrConfig)
	ErrModelNotStructured       = fmt.Errorf("%w: chat model does not support structured tool calls", ErrConfig)
	ErrInvalidRoster            = fmt.Errorf("%w: invalid worker roster", ErrConfig)

	// ErrExtraction marks a model response that did not yield a usable decision.
	ErrExtraction = errors.New("supervisor: decision extraction failed")

	ErrNoDecision      = fmt.Errorf("%w: no decision produced", ErrExtraction)
	ErrInvalidDecision = fmt.Errorf("%w: invalid decision", ErrExtraction)
)
