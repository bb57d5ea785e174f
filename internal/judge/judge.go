// internal/judge/judge.go
//
// Oracle contract between the game engine and the LLM judge.
// Defines:
//   - TurnContext: the structured per-turn request sent to the judge.
//   - Client: the seam the engine calls; implementations live in this package
//     (OpenAI) or in tests (fakes).
//
// The judge's reply is intentionally kept as an untyped map: the engine owns
// normalization and validation, and a malformed reply must fail there, not in
// transport decoding.

package judge

import "context"

// RangeG is the inclusive weight window forwarded to the judge.
type RangeG struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RuleDesign gives the judge guidance for inventing new rules.
type RuleDesign struct {
	Goal                    string `json:"goal"`
	TargetRuleWordCount     string `json:"target_rule_word_count"`
	PreferBroadReusableRule bool   `json:"prefer_broad_reusable_rules"`
}

// HoldPolicy mirrors the engine's hold gating so the judge can avoid
// proposing holds the engine would substitute anyway.
type HoldPolicy struct {
	AllowedAfterTurn  int `json:"allowed_after_turn"`
	ThinBoundarySpanG int `json:"thin_boundary_span_g"`
	CurrentSpanG      int `json:"current_span_g"`
}

// Progression carries the static progression policy plus the live span.
type Progression struct {
	MaxActions           int        `json:"max_actions"`
	RuleAddMinTurn       int        `json:"rule_add_min_turn"`
	MaxRules             int        `json:"max_rules"`
	MaxShrinkFactor      float64    `json:"max_shrink_factor"`
	MinimumEnlargeFactor float64    `json:"minimum_enlarge_factor"`
	HoldPolicy           HoldPolicy `json:"hold_policy"`
}

// Policy flags the judge must apply when interpreting input.
type Policy struct {
	PluralWithoutCountMeansOne bool `json:"plural_without_count_means_one"`
	EstimateUnknownAnyway      bool `json:"estimate_unknown_anyway"`
	ExplicitMeasureBanned      bool `json:"explicit_measure_banned"`
}

// TurnContext is the full structured request for one judged turn.
type TurnContext struct {
	InputText          string      `json:"input_text"`
	Turn               int         `json:"turn"`
	RangeG             RangeG      `json:"range_g"`
	ActiveRules        []string    `json:"active_rules"`
	UsedCanonicalCount int         `json:"used_canonical_count"`
	UsedCanonical      []string    `json:"used_canonical"`
	RuleExamples       []string    `json:"rule_examples"`
	RuleDesign         RuleDesign  `json:"rule_design"`
	Progression        Progression `json:"progression"`
	Policy             Policy      `json:"policy"`
}

// Client is the judge oracle seam. Judge returns the raw decoded JSON object
// from the model; the caller normalizes and validates it.
type Client interface {
	Judge(ctx context.Context, tc TurnContext) (map[string]any, error)
}
