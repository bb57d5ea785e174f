// internal/game/errors.go
//
// Error taxonomy for turn resolution. InvalidJudgment and IncompleteRuleChecks
// are transient: the retry loop swallows them once and escalates to
// OracleUnavailable when the second attempt also fails. Invalid progression
// bounds never raise; they roll back locally.

package game

import (
	"fmt"
	"strings"
)

// InvalidJudgmentError marks an oracle payload that failed type/shape
// coercion during normalization.
type InvalidJudgmentError struct {
	Detail string
}

func (e *InvalidJudgmentError) Error() string {
	return "invalid judgment: " + e.Detail
}

// IncompleteRuleChecksError marks an oracle payload that omitted a verdict
// for one or more active rules.
type IncompleteRuleChecksError struct {
	Missing []string
}

func (e *IncompleteRuleChecksError) Error() string {
	return "missing rule_checks for active rules: " + strings.Join(e.Missing, ", ")
}

// OracleUnavailableError is the fatal outcome after the bounded retry loop
// exhausts its attempts. No game state has been mutated when it is returned.
type OracleUnavailableError struct {
	Attempts int
	Last     error
}

func (e *OracleUnavailableError) Error() string {
	return fmt.Sprintf("judge failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *OracleUnavailableError) Unwrap() error { return e.Last }
