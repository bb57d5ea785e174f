// internal/game/progression.go
//
// Difficulty progression applied after a passing turn.
// Order of operations:
//   1. Parse proposals into actions (capped, defaulted to hold).
//   2. Pre-check: lock the range up front when no set_range is proposed and
//      the lock condition already holds.
//   3. Apply actions in order; shrink/raise lock-and-stop when the window
//      gets thin enough.
//   4. Post-check: lock if the window now satisfies the lock condition.
//   5. Rollback: a degenerate window (min >= max) discards the whole turn's
//      range/rule mutations and reports a single fallback status.
//
// Returns the ordered applied-action status tags, never empty.

package game

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bribethescale/go-server/internal/text"
)

const fallbackStatus = "hold_fallback_invalid_bounds"

var intPattern = regexp.MustCompile(`^[+-]?\d+$`)

func (e *Engine) applyProgression(traceID string, proposed []any, allowSetRange, allowSetRules bool) []string {
	s := e.state
	oldMin, oldMax := s.MinG, s.MaxG
	oldRules := append([]string(nil), s.ActiveRules...)

	actions := parseActions(proposed, e.cfg.MaxProgressionActionsPerTurn)
	var applied []string

	hasSetRange := false
	for _, a := range actions {
		if a.Type == actionSetRange {
			hasSetRange = true
		}
	}
	setRangeApplied := false

	if !hasSetRange && !s.RangeLocked && e.shouldLockRange() {
		applied = append(applied, e.lockRange(traceID, "pre_progression"))
	}

	for _, a := range actions {
		switch a.Type {
		case actionSetRules:
			if !allowSetRules {
				applied = append(applied, "set_rules_skipped_not_allowed")
				continue
			}
			if a.Rules == nil {
				applied = append(applied, "set_rules_skipped_invalid_values")
				continue
			}
			var next []string
			for _, raw := range a.Rules {
				str, ok := raw.(string)
				if !ok {
					continue
				}
				rule, ok := normalizeRule(str)
				if !ok {
					continue
				}
				if containsRule(next, rule) || isContradictory(rule, next) {
					continue
				}
				next = append(next, rule)
				if len(next) >= e.cfg.MaxRules {
					break
				}
			}
			if next == nil {
				next = []string{}
			}
			previous := s.ActiveRules
			s.ActiveRules = next
			applied = append(applied, fmt.Sprintf("set_rules:%d", len(next)))
			log.Info().
				Str("component", "engine").
				Str("event", "progression.set_rules").
				Str("trace_id", traceID).
				Strs("old_rules", previous).
				Strs("new_rules", next).
				Msg("rules replaced")

		case actionSetRange:
			if !allowSetRange {
				applied = append(applied, "set_range_skipped_not_allowed")
				continue
			}
			newMin, errMin := parseBound(a.MinG)
			newMax, errMax := parseBound(a.MaxG)
			if errMin != nil || errMax != nil {
				applied = append(applied, "set_range_skipped_invalid_values")
				continue
			}
			if newMin < 1 || newMax <= newMin {
				applied = append(applied, "set_range_skipped_invalid_bounds")
				continue
			}
			prevMin, prevMax := s.MinG, s.MaxG
			s.MinG, s.MaxG = newMin, newMax
			// Explicit demo ranges stay movable on later turns.
			s.RangeLocked = false
			setRangeApplied = true
			applied = append(applied, fmt.Sprintf("set_range:%d-%d", newMin, newMax))
			log.Info().
				Str("component", "engine").
				Str("event", "progression.set_range").
				Str("trace_id", traceID).
				Int("old_min_g", prevMin).
				Int("old_max_g", prevMax).
				Int("new_min_g", newMin).
				Int("new_max_g", newMax).
				Msg("range set")

		case actionHold:
			if s.RangeLocked {
				applied = append(applied, "hold_skipped_range_locked")
				continue
			}
			if e.holdAllowedNow() {
				applied = append(applied, actionHold)
				continue
			}
			// Holds are only safe once the window is thin; substitute a
			// shrink instead of failing.
			spanBefore := s.spanG()
			e.shrinkMax()
			applied = append(applied, "hold_replaced_with_shrink_max")
			log.Info().
				Str("component", "engine").
				Str("event", "progression.hold_replaced").
				Str("trace_id", traceID).
				Int("turn", s.Turn).
				Int("span_before_g", spanBefore).
				Int("span_after_g", s.spanG()).
				Msg("hold replaced with shrink_max")

		case actionShrinkMax:
			if s.RangeLocked {
				applied = append(applied, "shrink_max_skipped_range_locked")
				continue
			}
			e.shrinkMax()
			applied = append(applied, actionShrinkMax)
			if e.shouldLockRange() {
				applied = append(applied, e.lockRange(traceID, actionShrinkMax))
				return e.finishProgression(traceID, applied, setRangeApplied, oldMin, oldMax, oldRules)
			}

		case actionRaiseMin:
			if s.RangeLocked {
				applied = append(applied, "raise_min_skipped_range_locked")
				continue
			}
			newMin := text.NiceRoundWeight(float64(s.MinG) * e.cfg.MinimumEnlargeFactor)
			if newMin < 1 {
				newMin = 1
			}
			s.MinG = newMin
			applied = append(applied, actionRaiseMin)
			if e.shouldLockRange() {
				applied = append(applied, e.lockRange(traceID, actionRaiseMin))
				return e.finishProgression(traceID, applied, setRangeApplied, oldMin, oldMax, oldRules)
			}

		case actionAddRule:
			if s.Turn < e.cfg.RuleAddMinTurn {
				applied = append(applied, "add_rule_skipped_too_early")
				continue
			}
			if len(s.ActiveRules) >= e.cfg.MaxRules {
				applied = append(applied, "add_rule_skipped_max_rules")
				continue
			}
			rule, ok := normalizeRule(a.Rule)
			if !ok {
				applied = append(applied, "add_rule_skipped_invalid_rule")
				continue
			}
			if containsRule(s.ActiveRules, rule) {
				applied = append(applied, "add_rule_skipped_duplicate")
				continue
			}
			if isContradictory(rule, s.ActiveRules) {
				applied = append(applied, "add_rule_skipped_contradiction")
				continue
			}
			s.ActiveRules = append(s.ActiveRules, rule)
			applied = append(applied, "add_rule:"+rule)

		default:
			applied = append(applied, "unknown_action:"+a.Type)
		}
	}

	return e.finishProgression(traceID, applied, setRangeApplied, oldMin, oldMax, oldRules)
}

// finishProgression runs the post-lock check and the rollback invariant.
func (e *Engine) finishProgression(traceID string, applied []string, setRangeApplied bool, oldMin, oldMax int, oldRules []string) []string {
	s := e.state

	if !setRangeApplied && !s.RangeLocked && e.shouldLockRange() {
		applied = append(applied, e.lockRange(traceID, "post_progression"))
	}

	if s.MinG >= s.MaxG {
		s.MinG, s.MaxG = oldMin, oldMax
		s.ActiveRules = oldRules
		log.Warn().
			Str("component", "engine").
			Str("event", "progression.invalid_bounds_fallback").
			Str("trace_id", traceID).
			Int("restored_min", s.MinG).
			Int("restored_max", s.MaxG).
			Strs("restored_rules", s.ActiveRules).
			Msg("degenerate range; turn mutations rolled back")
		return []string{fallbackStatus}
	}

	if len(applied) == 0 {
		applied = []string{actionHold}
	}
	return applied
}

// shrinkMax applies one max shrink with nice rounding, clamped to min+1.
func (e *Engine) shrinkMax() {
	s := e.state
	newMax := text.NiceRoundWeight(float64(s.MaxG) * e.cfg.MaxShrinkFactor)
	if newMax < s.MinG+1 {
		newMax = s.MinG + 1
	}
	s.MaxG = newMax
}

// lockTargetMaxG is the max the range collapses to when locking:
// ceil(min * ratio) with a hard floor of min+1.
func (e *Engine) lockTargetMaxG() int {
	target := int(math.Ceil(float64(e.state.MinG) * e.cfg.MinMaxLockRatio))
	if target < e.state.MinG+1 {
		target = e.state.MinG + 1
	}
	return target
}

func (e *Engine) shouldLockRange() bool {
	return e.state.MaxG <= e.lockTargetMaxG()
}

// lockRange collapses max to the lock target and flips the one-way lock.
func (e *Engine) lockRange(traceID, source string) string {
	s := e.state
	oldMin, oldMax := s.MinG, s.MaxG
	s.MaxG = e.lockTargetMaxG()
	s.RangeLocked = true
	log.Info().
		Str("component", "engine").
		Str("event", "progression.range_locked").
		Str("trace_id", traceID).
		Str("source", source).
		Int("old_min_g", oldMin).
		Int("old_max_g", oldMax).
		Int("locked_min_g", s.MinG).
		Int("locked_max_g", s.MaxG).
		Msg("range locked")
	return fmt.Sprintf("lock_range:max=%d", s.MaxG)
}

func (e *Engine) holdAllowedNow() bool {
	return e.state.Turn > e.cfg.HoldAllowedAfterTurn &&
		e.state.spanG() <= e.cfg.HoldThinBoundarySpanG
}

// parseBound converts a demo-script range bound to an int. Booleans are
// rejected; integers, floats, and numeric strings are accepted.
func parseBound(v any) (int, error) {
	switch value := v.(type) {
	case bool:
		return 0, fmt.Errorf("bool values are not valid bounds")
	case int:
		return value, nil
	case float64:
		return int(math.Round(value)), nil
	case string:
		trimmed := strings.TrimSpace(value)
		if intPattern.MatchString(trimmed) {
			return strconv.Atoi(trimmed)
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid bound %q", value)
		}
		return int(math.Round(f)), nil
	}
	return 0, fmt.Errorf("invalid bound %v", v)
}
