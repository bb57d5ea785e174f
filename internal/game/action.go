// internal/game/action.go
//
// Progression actions as a closed variant type plus the strict parser that
// converts the oracle's (or demo script's) loosely-shaped proposals into it.
// Unrecognized types survive parsing so the engine can report them instead of
// silently dropping them.

package game

import (
	"strings"
)

// Known action types. Anything else is carried through and reported as
// "unknown_action:<type>" by the progression engine.
const (
	actionHold      = "hold"
	actionShrinkMax = "shrink_max"
	actionRaiseMin  = "raise_min"
	actionAddRule   = "add_rule"
	actionSetRules  = "set_rules"
	actionSetRange  = "set_range"
)

// action is one parsed progression proposal. Rule/Rules/MinG/MaxG are only
// meaningful for their respective types; bounds stay untyped because demo
// scripts may carry integers or numeric strings and booleans must be
// rejected at apply time.
type action struct {
	Type  string
	Rule  string
	Rules []any
	MinG  any
	MaxG  any
}

// parseActions normalizes raw proposals: at most max entries considered
// (extras dropped before filtering), bare strings become typed entries,
// non-conforming entries are dropped, and an empty result defaults to a
// single hold.
func parseActions(raw []any, max int) []action {
	if len(raw) > max {
		raw = raw[:max]
	}

	var parsed []action
	for _, entry := range raw {
		switch value := entry.(type) {
		case string:
			parsed = append(parsed, action{Type: strings.ToLower(strings.TrimSpace(value))})
		case map[string]any:
			actionType, _ := value["type"].(string)
			actionType = strings.ToLower(strings.TrimSpace(actionType))
			if actionType == "" {
				continue
			}
			item := action{Type: actionType}
			if rule, ok := value["rule"].(string); ok {
				item.Rule = rule
			}
			if rules, ok := value["rules"].([]any); ok {
				item.Rules = rules
			}
			if minG, ok := value["min_g"]; ok {
				item.MinG = minG
			}
			if maxG, ok := value["max_g"]; ok {
				item.MaxG = maxG
			}
			parsed = append(parsed, item)
		}
	}

	if len(parsed) == 0 {
		parsed = []action{{Type: actionHold}}
	}
	return parsed
}
