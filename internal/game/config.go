// internal/game/config.go
//
// Immutable per-session game configuration. Values map 1:1 onto environment
// variables (parsed with caarlos0/env in main) and default to the tuning the
// game shipped with.

package game

// Config holds every knob the engine reads. It is set once at construction
// and never mutated.
type Config struct {
	TimerSeconds                 int     `env:"TIMER_SECONDS" envDefault:"60"`
	StartLives                   int     `env:"START_LIVES" envDefault:"3"`
	StartMinWeightG              int     `env:"START_MIN_WEIGHT_G" envDefault:"1"`
	StartMaxWeightG              int     `env:"START_MAX_WEIGHT_G" envDefault:"10000000"`
	MaxRules                     int     `env:"MAX_RULES" envDefault:"3"`
	RuleAddMinTurn               int     `env:"RULE_ADD_MIN_TURN" envDefault:"3"`
	MaxShrinkFactor              float64 `env:"MAX_SHRINK_FACTOR" envDefault:"0.2"`
	MinimumEnlargeFactor         float64 `env:"MINIMUM_ENLARGE_FACTOR" envDefault:"5.0"`
	MaxProgressionActionsPerTurn int     `env:"MAX_PROGRESSION_ACTIONS_PER_TURN" envDefault:"2"`
	EndCommand                   string  `env:"END_COMMAND" envDefault:"time"`
	EvaluationMinSeconds         float64 `env:"EVALUATION_MIN_SECONDS" envDefault:"3.0"`
	JudgeModel                   string  `env:"JUDGE_MODEL" envDefault:"gpt-5-mini"`
	HoldAllowedAfterTurn         int     `env:"HOLD_ALLOWED_AFTER_TURN" envDefault:"5"`
	HoldThinBoundarySpanG        int     `env:"HOLD_THIN_BOUNDARY_SPAN_G" envDefault:"20000"`
	MinMaxLockRatio              float64 `env:"MIN_MAX_LOCK_RATIO" envDefault:"100"`
	DemoMode                     bool    `env:"DEMO" envDefault:"false"`
	DemoProgressionPath          string  `env:"DEMO_PROGRESS_PATH" envDefault:"demo_progression.json"`
}

// DefaultConfig returns the shipped tuning; tests start from here.
func DefaultConfig() Config {
	return Config{
		TimerSeconds:                 60,
		StartLives:                   3,
		StartMinWeightG:              1,
		StartMaxWeightG:              10_000_000,
		MaxRules:                     3,
		RuleAddMinTurn:               3,
		MaxShrinkFactor:              0.2,
		MinimumEnlargeFactor:         5.0,
		MaxProgressionActionsPerTurn: 2,
		EndCommand:                   "time",
		EvaluationMinSeconds:         3.0,
		JudgeModel:                   "gpt-5-mini",
		HoldAllowedAfterTurn:         5,
		HoldThinBoundarySpanG:        20_000,
		MinMaxLockRatio:              100,
		DemoMode:                     false,
		DemoProgressionPath:          "demo_progression.json",
	}
}
