// internal/game/judgment.go
//
// Normalize-then-validate pipeline for the judge's raw JSON payload.
// Normalization coerces the untyped map into a Judgment record and fails with
// InvalidJudgmentError on any malformed field. Validation is a separate pass
// that checks the record against the current active rules and fails with
// IncompleteRuleChecksError when a rule verdict is missing.

package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bribethescale/go-server/internal/text"
)

const maxReasonShortLen = 180

// RuleCheck is the judge's verdict for one active rule.
type RuleCheck struct {
	Rule   string `json:"rule"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

// Judgment is the normalized form of one oracle response.
type Judgment struct {
	CanonicalName      string
	InterpretedMeaning string
	EstimatedWeightG   int
	Cheating           bool
	CheatingReason     string
	RuleChecks         []RuleCheck
	ReasonShort        string
	UIAnswer           string

	// Notes passes through untouched; the judge may send a string, an
	// object, or nothing, and the client renders it as-is.
	Notes any

	// ProgressionActions stays raw; the progression engine owns its parsing.
	ProgressionActions []any
}

func normalizeJudgment(payload map[string]any, rawInput string) (*Judgment, error) {
	canonical, _ := payload["canonical_name"].(string)
	if strings.TrimSpace(canonical) == "" {
		canonical = rawInput
	}

	interpreted, _ := payload["interpreted_meaning"].(string)
	if strings.TrimSpace(interpreted) == "" {
		interpreted = rawInput
	}

	weight, err := coerceNumber(payload["estimated_weight_g"])
	if err != nil {
		return nil, &InvalidJudgmentError{Detail: "estimated_weight_g must be numeric"}
	}
	weightG := int(weight + 0.5)
	if weight < 0 {
		weightG = int(weight - 0.5)
	}
	if weightG < 1 {
		weightG = 1
	}

	var progression []any
	if list, ok := payload["progression_actions"].([]any); ok {
		progression = list
	} else {
		progression = []any{}
	}

	rawChecks, ok := payload["rule_checks"].([]any)
	if !ok {
		return nil, &InvalidJudgmentError{Detail: "rule_checks must be a list"}
	}
	checks := make([]RuleCheck, 0, len(rawChecks))
	for _, entry := range rawChecks {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, &InvalidJudgmentError{Detail: "rule_checks entries must be objects"}
		}
		rule, _ := obj["rule"].(string)
		if strings.TrimSpace(rule) == "" {
			return nil, &InvalidJudgmentError{Detail: "rule_checks.rule must be a non-empty string"}
		}
		okValue, err := coerceBool(obj["ok"])
		if err != nil {
			return nil, &InvalidJudgmentError{Detail: "rule_checks.ok must be boolean-like"}
		}
		reason, _ := obj["reason"].(string)
		checks = append(checks, RuleCheck{
			Rule:   strings.TrimSpace(rule),
			OK:     okValue,
			Reason: strings.TrimSpace(reason),
		})
	}

	cheating, err := coerceBool(payload["cheating"])
	if err != nil {
		return nil, &InvalidJudgmentError{Detail: "cheating must be boolean-like"}
	}
	cheatingReason, _ := payload["cheating_reason"].(string)

	return &Judgment{
		CanonicalName:      text.Canonicalize(canonical),
		InterpretedMeaning: strings.TrimSpace(interpreted),
		EstimatedWeightG:   weightG,
		Cheating:           cheating,
		CheatingReason:     strings.TrimSpace(cheatingReason),
		RuleChecks:         checks,
		ReasonShort:        truncate(stringOr(payload["reason_short"], "Judged by LLM."), maxReasonShortLen),
		Notes:              payload["notes"],
		UIAnswer:           stringOr(payload["ui_answer"], ""),
		ProgressionActions: progression,
	}, nil
}

// validateJudgment checks rule-verdict coverage: every active rule must have
// a rule_checks entry whose text key-matches it.
func validateJudgment(j *Judgment, activeRules []string) error {
	seen := map[string]bool{}
	for _, check := range j.RuleChecks {
		seen[ruleKey(check.Rule)] = true
	}
	var missing []string
	for _, rule := range activeRules {
		if !seen[ruleKey(rule)] {
			missing = append(missing, rule)
		}
	}
	if len(missing) > 0 {
		return &IncompleteRuleChecksError{Missing: missing}
	}
	return nil
}

// coerceBool accepts real booleans plus a small set of yes/no strings.
func coerceBool(v any) (bool, error) {
	switch value := v.(type) {
	case bool:
		return value, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "yes", "correct", "pass", "ok":
			return true, nil
		case "false", "no", "wrong", "fail", "ko":
			return false, nil
		}
	}
	return false, fmt.Errorf("not boolean-like: %v", v)
}

// coerceNumber accepts JSON numbers and numeric strings.
func coerceNumber(v any) (float64, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case int:
		return float64(value), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, fmt.Errorf("not numeric: %q", value)
		}
		return f, nil
	}
	return 0, fmt.Errorf("not numeric: %v", v)
}

func stringOr(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
