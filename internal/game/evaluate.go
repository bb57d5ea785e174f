// internal/game/evaluate.go
//
// Pass/fail decision for one submission. Pure function of the judgment and
// the current range/rules; never touches state.

package game

import "fmt"

// FailedRule pairs a failed rule with the judge's reason.
type FailedRule struct {
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

// Evaluation is the full verdict for one submission.
type Evaluation struct {
	Passed         bool
	Reason         string
	RuleFail       string
	Cheating       bool
	CheatingReason string
	WithinRange    bool
	RulesOK        bool
	FailedRules    []FailedRule
}

// evaluate decides pass/fail. Cheating and out-of-range categorically fail
// regardless of rule outcomes; the surfaced reason follows the priority
// cheating > out-of-range > first failed rule > success.
func evaluate(weightG int, checks []RuleCheck, cheating bool, cheatingReason string, minG, maxG int, activeRules []string) Evaluation {
	withinRange := minG <= weightG && weightG <= maxG

	// First check entry wins on duplicate rule keys.
	byRule := map[string]RuleCheck{}
	for _, check := range checks {
		key := ruleKey(check.Rule)
		if key == "" {
			continue
		}
		if _, ok := byRule[key]; !ok {
			byRule[key] = check
		}
	}

	var failed []FailedRule
	for _, rule := range activeRules {
		check, ok := byRule[ruleKey(rule)]
		if !ok {
			failed = append(failed, FailedRule{Rule: rule, Reason: "Rule evaluation missing from judge."})
			continue
		}
		if !check.OK {
			reason := check.Reason
			if reason == "" {
				reason = "Rule not satisfied."
			}
			failed = append(failed, FailedRule{Rule: rule, Reason: reason})
		}
	}

	rulesOK := len(failed) == 0
	passed := !cheating && withinRange && rulesOK

	var reason, ruleFail string
	switch {
	case cheating:
		reason = cheatingReason
		if reason == "" {
			reason = "Cheating input: include only object names, no weight expression or bulk material."
		}
		ruleFail = "cheating"
	case !withinRange:
		reason = fmt.Sprintf("Estimated %d g is outside range %d-%d g.", weightG, minG, maxG)
	case len(failed) > 0:
		first := failed[0]
		reason = fmt.Sprintf("Rule failed: %s.", first.Rule)
		ruleFail = first.Rule
		if first.Reason != "" {
			ruleFail = first.Rule + ": " + first.Reason
		}
	default:
		reason = "Within range and all active rules satisfied."
	}

	return Evaluation{
		Passed:         passed,
		Reason:         reason,
		RuleFail:       ruleFail,
		Cheating:       cheating,
		CheatingReason: cheatingReason,
		WithinRange:    withinRange,
		RulesOK:        rulesOK,
		FailedRules:    failed,
	}
}
