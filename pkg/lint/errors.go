package lint

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// ErrUnknownRule is returned when a rule selector matches nothing.
var ErrUnknownRule = errors.New("unknown rule")

// ConfigError reports an invalid rule option.
type ConfigError struct {
	RuleID  string
	Key     string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Key == "" {
		return fmt.Sprintf("rule %s: invalid configuration: %s", e.RuleID, msg)
	}
	return fmt.Sprintf("rule %s: invalid option %s: %s", e.RuleID, e.Key, msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RuleEvalFault records a rule that panicked while evaluating a segment.
type RuleEvalFault struct {
	RuleID      string
	SegmentType string
	Value       any
}

func (e *RuleEvalFault) Error() string {
	return fmt.Sprintf("rule %s failed on %s: %v", e.RuleID, e.SegmentType, e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *RuleEvalFault) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// StaleAnchorError reports a fix anchored on a segment that is not part of
// the tree being edited.
type StaleAnchorError struct {
	RuleID string
	Anchor *segment.Segment
}

func (e *StaleAnchorError) Error() string {
	return fmt.Sprintf("rule %s: fix anchor %v is not in the current tree", e.RuleID, e.Anchor)
}

// InvalidEditError reports a fix group that is malformed on its own.
type InvalidEditError struct {
	RuleID string
	Fix    LintFix
	Reason string
}

func (e *InvalidEditError) Error() string {
	return fmt.Sprintf("rule %s: invalid edit %v: %s", e.RuleID, e.Fix, e.Reason)
}
