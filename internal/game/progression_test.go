package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// progressionEngine builds a bare engine around the default config; the
// progression code never touches the judge or assets.
func progressionEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, state: newState(cfg)}
}

func TestParseActionsShapes(t *testing.T) {
	parsed := parseActions([]any{
		"Shrink_Max",
		map[string]any{"type": "add_rule", "rule": "be food"},
		map[string]any{"no_type": true},
	}, 2)
	// The cap drops the tail before filtering, so the malformed third entry
	// never mattered.
	require.Len(t, parsed, 2)
	assert.Equal(t, actionShrinkMax, parsed[0].Type)
	assert.Equal(t, actionAddRule, parsed[1].Type)
	assert.Equal(t, "be food", parsed[1].Rule)
}

func TestParseActionsCapBeforeFiltering(t *testing.T) {
	parsed := parseActions([]any{
		map[string]any{"bogus": true},
		"raise_min",
		"shrink_max",
	}, 2)
	// First slot was malformed and dropped; the third proposal was already
	// cut by the cap, not promoted into the freed slot.
	require.Len(t, parsed, 1)
	assert.Equal(t, actionRaiseMin, parsed[0].Type)
}

func TestParseActionsEmptyDefaultsToHold(t *testing.T) {
	parsed := parseActions(nil, 2)
	require.Len(t, parsed, 1)
	assert.Equal(t, actionHold, parsed[0].Type)
}

func TestApplyProgressionShrinkMax(t *testing.T) {
	e := progressionEngine(DefaultConfig())

	applied := e.applyProgression("t", []any{"shrink_max"}, false, false)
	assert.Equal(t, []string{"shrink_max"}, applied)
	assert.Equal(t, 2_000_000, e.state.MaxG)
	assert.Equal(t, 1, e.state.MinG)
}

func TestApplyProgressionRaiseMin(t *testing.T) {
	cfg := DefaultConfig()
	e := progressionEngine(cfg)
	e.state.MinG = 100

	applied := e.applyProgression("t", []any{"raise_min"}, false, false)
	assert.Equal(t, []string{"raise_min"}, applied)
	// 100 * 5.0 = 500, already a nice number.
	assert.Equal(t, 500, e.state.MinG)
}

func TestApplyProgressionHoldSubstitutedEarly(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	e.state.Turn = 2

	applied := e.applyProgression("t", []any{"hold"}, false, false)
	assert.Equal(t, []string{"hold_replaced_with_shrink_max"}, applied)
	assert.Equal(t, 2_000_000, e.state.MaxG)
}

func TestApplyProgressionHoldAllowedWhenLateAndThin(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	e.state.Turn = 6
	e.state.MinG = 1
	e.state.MaxG = 15_000

	applied := e.applyProgression("t", []any{"hold"}, false, false)
	assert.Equal(t, []string{"hold"}, applied)
	assert.Equal(t, 15_000, e.state.MaxG)
}

func TestApplyProgressionHoldSubstitutedWhenSpanWide(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	e.state.Turn = 6
	e.state.MinG = 100
	e.state.MaxG = 500_000

	applied := e.applyProgression("t", []any{"hold"}, false, false)
	assert.Equal(t, []string{"hold_replaced_with_shrink_max"}, applied)
	assert.Equal(t, 100_000, e.state.MaxG)
}

func TestApplyProgressionAddRuleGates(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("too early", func(t *testing.T) {
		e := progressionEngine(cfg)
		e.state.Turn = 2
		applied := e.applyProgression("t", []any{
			map[string]any{"type": "add_rule", "rule": "be food"},
		}, false, false)
		assert.Equal(t, []string{"add_rule_skipped_too_early"}, applied)
		assert.Empty(t, e.state.ActiveRules)
	})

	t.Run("accepted", func(t *testing.T) {
		e := progressionEngine(cfg)
		e.state.Turn = 3
		applied := e.applyProgression("t", []any{
			map[string]any{"type": "add_rule", "rule": " Be Food. "},
		}, false, false)
		assert.Equal(t, []string{"add_rule:Be Food"}, applied)
		assert.Equal(t, []string{"Be Food"}, e.state.ActiveRules)
	})

	t.Run("duplicate by key", func(t *testing.T) {
		e := progressionEngine(cfg)
		e.state.Turn = 3
		e.state.ActiveRules = []string{"be food"}
		applied := e.applyProgression("t", []any{
			map[string]any{"type": "add_rule", "rule": "BE   FOOD"},
		}, false, false)
		assert.Equal(t, []string{"add_rule_skipped_duplicate"}, applied)
		assert.Equal(t, []string{"be food"}, e.state.ActiveRules)
	})

	t.Run("contradiction", func(t *testing.T) {
		e := progressionEngine(cfg)
		e.state.Turn = 3
		e.state.ActiveRules = []string{"start with a consonant"}
		applied := e.applyProgression("t", []any{
			map[string]any{"type": "add_rule", "rule": "start with a vowel"},
		}, false, false)
		assert.Equal(t, []string{"add_rule_skipped_contradiction"}, applied)
		assert.Equal(t, []string{"start with a consonant"}, e.state.ActiveRules)
	})

	t.Run("max rules", func(t *testing.T) {
		e := progressionEngine(cfg)
		e.state.Turn = 10
		e.state.ActiveRules = []string{"be food", "be colorful", "fit in one hand"}
		applied := e.applyProgression("t", []any{
			map[string]any{"type": "add_rule", "rule": "have wheels"},
		}, false, false)
		assert.Equal(t, []string{"add_rule_skipped_max_rules"}, applied)
	})

	t.Run("null phrase rejected", func(t *testing.T) {
		e := progressionEngine(cfg)
		e.state.Turn = 3
		applied := e.applyProgression("t", []any{
			map[string]any{"type": "add_rule", "rule": "none"},
		}, false, false)
		assert.Equal(t, []string{"add_rule_skipped_invalid_rule"}, applied)
	})
}

func TestApplyProgressionUnknownActionReported(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	applied := e.applyProgression("t", []any{"teleport"}, false, false)
	assert.Equal(t, []string{"unknown_action:teleport"}, applied)
}

func TestApplyProgressionLockOnShrink(t *testing.T) {
	cfg := DefaultConfig()
	e := progressionEngine(cfg)
	e.state.MinG = 1000
	e.state.MaxG = 400_000

	// Shrink lands at 100_000 which equals ceil(1000 * 100): lock and stop.
	applied := e.applyProgression("t", []any{"shrink_max", "raise_min"}, false, false)
	assert.Equal(t, []string{"shrink_max", "lock_range:max=100000"}, applied)
	assert.True(t, e.state.RangeLocked)
	assert.Equal(t, 100_000, e.state.MaxG)
	// The trailing raise_min never ran.
	assert.Equal(t, 1000, e.state.MinG)
}

func TestApplyProgressionLockedRangeSkipsMutations(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	e.state.MinG = 1000
	e.state.MaxG = 100_000
	e.state.RangeLocked = true
	e.state.Turn = 10

	applied := e.applyProgression("t", []any{"shrink_max", "hold"}, false, false)
	assert.Equal(t, []string{"shrink_max_skipped_range_locked", "hold_skipped_range_locked"}, applied)
	assert.Equal(t, 1000, e.state.MinG)
	assert.Equal(t, 100_000, e.state.MaxG)
}

func TestApplyProgressionPreLockWithoutSetRange(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	e.state.MinG = 1000
	e.state.MaxG = 50_000

	applied := e.applyProgression("t", []any{"raise_min"}, false, false)
	// Lock condition already held, so the lock fires before the action and
	// the action is then skipped on the locked range.
	assert.Equal(t, []string{"lock_range:max=100000", "raise_min_skipped_range_locked"}, applied)
	assert.True(t, e.state.RangeLocked)
	assert.Equal(t, 100_000, e.state.MaxG)
}

func TestApplyProgressionSetRangeRequiresPermission(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	applied := e.applyProgression("t", []any{
		map[string]any{"type": "set_range", "min_g": 100, "max_g": 50_000},
	}, false, false)
	assert.Equal(t, []string{"set_range_skipped_not_allowed"}, applied)
	assert.Equal(t, 1, e.state.MinG)
}

func TestApplyProgressionSetRangeAppliesAndUnlocks(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	e.state.RangeLocked = true

	applied := e.applyProgression("t", []any{
		map[string]any{"type": "set_range", "min_g": "100", "max_g": 50_000.0},
	}, true, true)
	assert.Equal(t, []string{"set_range:100-50000"}, applied)
	assert.Equal(t, 100, e.state.MinG)
	assert.Equal(t, 50_000, e.state.MaxG)
	assert.False(t, e.state.RangeLocked)
}

func TestApplyProgressionSetRangeRejectsBadBounds(t *testing.T) {
	e := progressionEngine(DefaultConfig())

	applied := e.applyProgression("t", []any{
		map[string]any{"type": "set_range", "min_g": 500, "max_g": 500},
	}, true, true)
	assert.Equal(t, []string{"set_range_skipped_invalid_bounds"}, applied)

	e = progressionEngine(DefaultConfig())
	applied = e.applyProgression("t", []any{
		map[string]any{"type": "set_range", "min_g": true, "max_g": 1000},
	}, true, true)
	assert.Contains(t, applied, "set_range_skipped_invalid_values")
}

func TestApplyProgressionSetRules(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	e.state.ActiveRules = []string{"be alive"}

	applied := e.applyProgression("t", []any{
		map[string]any{"type": "set_rules", "rules": []any{
			"be food",
			"BE   FOOD",
			"not be food",
			"fit in one hand",
			"have wheels",
		}},
	}, true, true)
	assert.Equal(t, []string{"set_rules:3"}, applied)
	// Duplicate and contradiction filtered, then truncated to MaxRules.
	assert.Equal(t, []string{"be food", "fit in one hand", "have wheels"}, e.state.ActiveRules)
}

func TestFinishProgressionRollsBackDegenerateRange(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	// Simulate a turn whose mutations left min >= max with the lock already
	// set, so the post-check cannot repair the window.
	e.state.MinG = 2000
	e.state.MaxG = 1500
	e.state.ActiveRules = []string{"be food", "be colorful"}
	e.state.RangeLocked = true

	applied := e.finishProgression("t", []string{"raise_min"}, false, 400, 2000, []string{"be food"})
	assert.Equal(t, []string{"hold_fallback_invalid_bounds"}, applied)
	assert.Equal(t, 400, e.state.MinG)
	assert.Equal(t, 2000, e.state.MaxG)
	assert.Equal(t, []string{"be food"}, e.state.ActiveRules)
}

func TestShrinkMaxClampsToMinPlusOne(t *testing.T) {
	e := progressionEngine(DefaultConfig())
	e.state.MinG = 90
	e.state.MaxG = 100

	e.shrinkMax()
	assert.Equal(t, 91, e.state.MaxG)
}

func TestLockTargetFloorsAtMinPlusOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinMaxLockRatio = 0.5
	e := progressionEngine(cfg)
	e.state.MinG = 10

	assert.Equal(t, 11, e.lockTargetMaxG())
}

func TestParseBound(t *testing.T) {
	got, err := parseBound(42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = parseBound(42.6)
	require.NoError(t, err)
	assert.Equal(t, 43, got)

	got, err = parseBound(" 1200 ")
	require.NoError(t, err)
	assert.Equal(t, 1200, got)

	got, err = parseBound("1.5e3")
	require.NoError(t, err)
	assert.Equal(t, 1500, got)

	_, err = parseBound(true)
	require.Error(t, err)
	_, err = parseBound("soon")
	require.Error(t, err)
	_, err = parseBound(nil)
	require.Error(t, err)
}
