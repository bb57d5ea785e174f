package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeJudgmentFullPayload(t *testing.T) {
	payload := map[string]any{
		"canonical_name":      "2 Anvils",
		"interpreted_meaning": "a pair of anvils",
		"estimated_weight_g":  4999.6,
		"cheating":            false,
		"rule_checks": []any{
			map[string]any{"rule": " be made of metal ", "ok": "yes", "reason": " iron "},
		},
		"progression_actions": []any{"shrink_max"},
		"reason_short":        "fine",
		"notes":               "dense",
		"ui_answer":           "Heavy enough.",
	}

	j, err := normalizeJudgment(payload, "2 anvils")
	require.NoError(t, err)
	assert.Equal(t, "anvil", j.CanonicalName)
	assert.Equal(t, "a pair of anvils", j.InterpretedMeaning)
	assert.Equal(t, 5000, j.EstimatedWeightG)
	assert.False(t, j.Cheating)
	require.Len(t, j.RuleChecks, 1)
	assert.Equal(t, "be made of metal", j.RuleChecks[0].Rule)
	assert.True(t, j.RuleChecks[0].OK)
	assert.Equal(t, "iron", j.RuleChecks[0].Reason)
	assert.Equal(t, []any{"shrink_max"}, j.ProgressionActions)
	assert.Equal(t, "fine", j.ReasonShort)
	assert.Equal(t, "dense", j.Notes)
	assert.Equal(t, "Heavy enough.", j.UIAnswer)
}

func TestNormalizeJudgmentNotesPassThrough(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{"estimated_weight_g": 100, "cheating": false, "rule_checks": []any{}}
	}

	payload := base()
	payload["notes"] = map[string]any{"confidence": "low"}
	j, err := normalizeJudgment(payload, "x")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"confidence": "low"}, j.Notes)

	// Absent notes stay nil rather than becoming "".
	j, err = normalizeJudgment(base(), "x")
	require.NoError(t, err)
	assert.Nil(t, j.Notes)
}

func TestNormalizeJudgmentFallsBackToRawInput(t *testing.T) {
	payload := map[string]any{
		"estimated_weight_g": 100,
		"cheating":           false,
		"rule_checks":        []any{},
	}

	j, err := normalizeJudgment(payload, "the red bricks")
	require.NoError(t, err)
	// Canonical name derives from the raw input when the judge omits it.
	assert.Equal(t, "red_brick", j.CanonicalName)
	assert.Equal(t, "the red bricks", j.InterpretedMeaning)
	assert.Equal(t, []any{}, j.ProgressionActions)
	assert.Equal(t, "Judged by LLM.", j.ReasonShort)
}

func TestNormalizeJudgmentWeightCoercion(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{"cheating": false, "rule_checks": []any{}}
	}

	payload := base()
	payload["estimated_weight_g"] = "250"
	j, err := normalizeJudgment(payload, "x")
	require.NoError(t, err)
	assert.Equal(t, 250, j.EstimatedWeightG)

	payload = base()
	payload["estimated_weight_g"] = 0.2
	j, err = normalizeJudgment(payload, "x")
	require.NoError(t, err)
	assert.Equal(t, 1, j.EstimatedWeightG, "weights floor at 1 g")

	payload = base()
	payload["estimated_weight_g"] = "heavy"
	_, err = normalizeJudgment(payload, "x")
	var invalid *InvalidJudgmentError
	require.ErrorAs(t, err, &invalid)
}

func TestNormalizeJudgmentRejectsMalformedRuleChecks(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"missing rule_checks", map[string]any{
			"estimated_weight_g": 1, "cheating": false,
		}},
		{"rule_checks not a list", map[string]any{
			"estimated_weight_g": 1, "cheating": false, "rule_checks": "ok",
		}},
		{"entry not an object", map[string]any{
			"estimated_weight_g": 1, "cheating": false, "rule_checks": []any{"ok"},
		}},
		{"empty rule name", map[string]any{
			"estimated_weight_g": 1, "cheating": false,
			"rule_checks": []any{map[string]any{"rule": " ", "ok": true}},
		}},
		{"non-boolean ok", map[string]any{
			"estimated_weight_g": 1, "cheating": false,
			"rule_checks": []any{map[string]any{"rule": "be food", "ok": "maybe"}},
		}},
		{"non-boolean cheating", map[string]any{
			"estimated_weight_g": 1, "cheating": "perhaps", "rule_checks": []any{},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalizeJudgment(tc.payload, "x")
			var invalid *InvalidJudgmentError
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestNormalizeJudgmentTruncatesReasonShort(t *testing.T) {
	payload := map[string]any{
		"estimated_weight_g": 1,
		"cheating":           false,
		"rule_checks":        []any{},
		"reason_short":       strings.Repeat("x", 300),
	}
	j, err := normalizeJudgment(payload, "x")
	require.NoError(t, err)
	assert.Len(t, j.ReasonShort, maxReasonShortLen)
}

func TestValidateJudgmentCoverage(t *testing.T) {
	j := &Judgment{RuleChecks: []RuleCheck{
		{Rule: "BE   FOOD", OK: true},
	}}

	require.NoError(t, validateJudgment(j, []string{"be food"}))

	err := validateJudgment(j, []string{"be food", "fit in one hand"})
	var missing *IncompleteRuleChecksError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"fit in one hand"}, missing.Missing)
}

func TestCoerceBoolStrings(t *testing.T) {
	for _, s := range []string{"true", "YES", " correct ", "pass", "ok"} {
		got, err := coerceBool(s)
		require.NoError(t, err, s)
		assert.True(t, got, s)
	}
	for _, s := range []string{"false", "No", "wrong", "fail", "ko"} {
		got, err := coerceBool(s)
		require.NoError(t, err, s)
		assert.False(t, got, s)
	}
	_, err := coerceBool("maybe")
	require.Error(t, err)
	_, err = coerceBool(1)
	require.Error(t, err)
}
